package components

import "github.com/decker502/pvzsim/pkg/types"

// PlantComponent 标识实体为植物
// 包含植物类型和所在格子位置信息
//
// 此组件用于标记草坪上已种植的植物实体，
// 并记录该植物在草坪网格中的位置
type PlantComponent struct {
	// Kind 植物类型ID（豌豆射手、向日葵等）
	Kind types.PlantID
	// GridRow 所在草坪行 (0-based, 从上到下)
	GridRow int
	// GridCol 所在草坪列 (0-based, 0 为紧挨房子的一列)
	GridCol int
}
