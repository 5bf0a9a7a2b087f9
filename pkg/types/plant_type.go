// Package types 定义共享的基础类型
// 这个包不依赖任何其他业务包，用于解决循环引用问题
package types

// PlantID 植物类型ID（对应 units.yaml 中 plants 表的键）
type PlantID int

const (
	// PlantUnknown 未知植物类型（0 保留为无效ID）
	PlantUnknown PlantID = iota
	// PlantPeashooter 豌豆射手
	PlantPeashooter
	// PlantSunflower 向日葵
	PlantSunflower
	// PlantWallnut 坚果墙
	PlantWallnut
	// PlantRepeater 双发射手
	PlantRepeater
)

// String 返回植物类型的字符串表示
func (p PlantID) String() string {
	switch p {
	case PlantPeashooter:
		return "peashooter"
	case PlantSunflower:
		return "sunflower"
	case PlantWallnut:
		return "wallnut"
	case PlantRepeater:
		return "repeater"
	default:
		return "unknown"
	}
}
