package components

import "github.com/decker502/pvzsim/pkg/types"

// ZombieComponent 标识实体为僵尸
//
// 僵尸属于某一行的行道（Lane），Progress 是僵尸当前所在的列：
// 生成时位于最右侧一列（Cols-1），每次移动减少 Speed，
// 小于 0 表示僵尸已经进入房子。
type ZombieComponent struct {
	// Kind 僵尸类型ID
	Kind types.ZombieID
	// Lane 所在行 (0-based)
	Lane int
	// Progress 行道进度（当前所在列）
	Progress int
	// Blocked 本 tick 是否被植物阻挡（阻挡的僵尸啃食而不移动）
	// 由 CombatSystem 写入，MovementSystem 读取
	Blocked bool
}
