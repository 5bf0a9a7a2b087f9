package systems

import (
	"fmt"

	"github.com/decker502/pvzsim/pkg/components"
	"github.com/decker502/pvzsim/pkg/ecs"
)

// LawnGridSystem 管理草坪网格的占用状态和每行的僵尸行道
// 负责跟踪哪些格子已被植物占用、每行有哪些僵尸，并提供查询和更新方法
type LawnGridSystem struct {
	entityManager *ecs.EntityManager
	gridEntity    ecs.EntityID
}

// NewLawnGridSystem 创建草坪网格系统，同时创建草坪网格实体
// 参数:
//   - em: EntityManager 实例
//   - rows, cols: 草坪规格
//   - laneCapacity: 每行最多同时存在的僵尸数量
//
// 返回:
//   - *LawnGridSystem: 草坪网格系统实例
func NewLawnGridSystem(em *ecs.EntityManager, rows, cols, laneCapacity int) *LawnGridSystem {
	gridEntity := em.CreateEntity()
	em.AddComponent(gridEntity, components.NewLawnGridComponent(rows, cols, laneCapacity))
	return &LawnGridSystem{
		entityManager: em,
		gridEntity:    gridEntity,
	}
}

// Grid 返回草坪网格组件
func (s *LawnGridSystem) Grid() *components.LawnGridComponent {
	grid, _ := ecs.GetComponent[*components.LawnGridComponent](s.entityManager, s.gridEntity)
	return grid
}

// GridEntity 返回草坪网格实体ID
func (s *LawnGridSystem) GridEntity() ecs.EntityID {
	return s.gridEntity
}

// IsValidRow 检查行索引是否有效
func (s *LawnGridSystem) IsValidRow(row int) bool {
	return row >= 0 && row < s.Grid().Rows
}

// IsValidCell 检查网格位置是否有效
func (s *LawnGridSystem) IsValidCell(row, col int) bool {
	grid := s.Grid()
	return row >= 0 && row < grid.Rows && col >= 0 && col < grid.Cols
}

// IsOccupied 检查指定格子是否已被占用
// 无效位置视为"已占用"，防止种植
func (s *LawnGridSystem) IsOccupied(row, col int) bool {
	if !s.IsValidCell(row, col) {
		return true
	}
	return s.Grid().Occupancy[row][col] != 0
}

// PlantAt 返回占用指定格子的植物实体
func (s *LawnGridSystem) PlantAt(row, col int) (ecs.EntityID, bool) {
	if !s.IsValidCell(row, col) {
		return 0, false
	}
	id := s.Grid().Occupancy[row][col]
	return id, id != 0
}

// OccupyCell 标记指定格子为被占用状态
// 返回:
//   - error: 如果位置无效或格子已被占用，返回错误
func (s *LawnGridSystem) OccupyCell(row, col int, plantEntity ecs.EntityID) error {
	if !s.IsValidCell(row, col) {
		grid := s.Grid()
		return fmt.Errorf("invalid grid position: row=%d, col=%d (valid range: row 0-%d, col 0-%d)",
			row, col, grid.Rows-1, grid.Cols-1)
	}

	grid := s.Grid()
	if grid.Occupancy[row][col] != 0 {
		return fmt.Errorf("grid cell (%d, %d) is already occupied by entity %d", row, col, grid.Occupancy[row][col])
	}

	grid.Occupancy[row][col] = plantEntity
	return nil
}

// ReleaseCell 清空指定格子的占用状态
func (s *LawnGridSystem) ReleaseCell(row, col int) {
	if !s.IsValidCell(row, col) {
		return
	}
	s.Grid().Occupancy[row][col] = 0
}

// LaneLen 返回指定行当前的僵尸数量
func (s *LawnGridSystem) LaneLen(row int) int {
	if !s.IsValidRow(row) {
		return 0
	}
	return len(s.Grid().Lanes[row])
}

// LaneFull 指定行是否已达到僵尸容量上限
func (s *LawnGridSystem) LaneFull(row int) bool {
	grid := s.Grid()
	return s.LaneLen(row) >= grid.LaneCapacity
}

// AppendZombie 将僵尸追加到指定行的行道末尾
func (s *LawnGridSystem) AppendZombie(row int, zombieEntity ecs.EntityID) error {
	if !s.IsValidRow(row) {
		return fmt.Errorf("invalid lane: row=%d", row)
	}
	if s.LaneFull(row) {
		return fmt.Errorf("lane %d is full (capacity %d)", row, s.Grid().LaneCapacity)
	}
	grid := s.Grid()
	grid.Lanes[row] = append(grid.Lanes[row], zombieEntity)
	return nil
}

// RemoveZombie 从行道中移除僵尸，其余僵尸保持原有顺序
func (s *LawnGridSystem) RemoveZombie(row int, zombieEntity ecs.EntityID) {
	if !s.IsValidRow(row) {
		return
	}
	grid := s.Grid()
	lane := grid.Lanes[row]
	for i, id := range lane {
		if id == zombieEntity {
			grid.Lanes[row] = append(lane[:i], lane[i+1:]...)
			return
		}
	}
}

// ZombieAt 返回指定行第 index 个僵尸（按生成顺序）
func (s *LawnGridSystem) ZombieAt(row, index int) (ecs.EntityID, bool) {
	if !s.IsValidRow(row) {
		return 0, false
	}
	lane := s.Grid().Lanes[row]
	if index < 0 || index >= len(lane) {
		return 0, false
	}
	return lane[index], true
}

// Lane 返回指定行僵尸列表的副本
func (s *LawnGridSystem) Lane(row int) []ecs.EntityID {
	if !s.IsValidRow(row) {
		return nil
	}
	lane := s.Grid().Lanes[row]
	out := make([]ecs.EntityID, len(lane))
	copy(out, lane)
	return out
}

// ZombieCount 返回全场僵尸总数
func (s *LawnGridSystem) ZombieCount() int {
	total := 0
	for _, lane := range s.Grid().Lanes {
		total += len(lane)
	}
	return total
}

// PlantCount 返回全场植物总数
func (s *LawnGridSystem) PlantCount() int {
	total := 0
	for _, row := range s.Grid().Occupancy {
		for _, id := range row {
			if id != 0 {
				total++
			}
		}
	}
	return total
}
