package components

import "github.com/decker502/pvzsim/pkg/ecs"

// LawnGridComponent 标识草坪网格管理器实体
// 用于跟踪哪些格子已被植物占用，以及每一行的僵尸行道
//
// Occupancy 是一个二维数组，存储每个格子的占用状态
// [row][col] = EntityID，其中 0 表示空格子
//
// Lanes 存储每一行的僵尸（按生成顺序），长度不超过 LaneCapacity
type LawnGridComponent struct {
	Rows         int
	Cols         int
	LaneCapacity int

	// Occupancy 存储每个格子的占用状态 (0 表示空格子)
	Occupancy [][]ecs.EntityID
	// Lanes 每行的僵尸实体列表（有序）
	Lanes [][]ecs.EntityID
}

// NewLawnGridComponent 创建指定规格的草坪网格
func NewLawnGridComponent(rows, cols, laneCapacity int) *LawnGridComponent {
	occupancy := make([][]ecs.EntityID, rows)
	lanes := make([][]ecs.EntityID, rows)
	for r := 0; r < rows; r++ {
		occupancy[r] = make([]ecs.EntityID, cols)
		lanes[r] = make([]ecs.EntityID, 0, laneCapacity)
	}
	return &LawnGridComponent{
		Rows:         rows,
		Cols:         cols,
		LaneCapacity: laneCapacity,
		Occupancy:    occupancy,
		Lanes:        lanes,
	}
}
