package components

// MovementComponent 移动组件（僵尸专用）
type MovementComponent struct {
	Speed int // 每 tick 前进的列数
}
