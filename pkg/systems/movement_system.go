package systems

import (
	"log"

	"github.com/decker502/pvzsim/pkg/components"
	"github.com/decker502/pvzsim/pkg/ecs"
)

// MovementSystem 僵尸移动系统
//
// 在战斗结算和清扫之后执行，只移动存活且未被阻挡的僵尸。
// 僵尸不会穿过存活的植物：移动距离被截断到植物正前方一格。
type MovementSystem struct {
	entityManager *ecs.EntityManager
	lawnGrid      *LawnGridSystem
	verbose       bool
}

// NewMovementSystem 创建僵尸移动系统
func NewMovementSystem(em *ecs.EntityManager, lawnGrid *LawnGridSystem, verbose bool) *MovementSystem {
	return &MovementSystem{
		entityManager: em,
		lawnGrid:      lawnGrid,
		verbose:       verbose,
	}
}

// Update 移动所有可移动的僵尸
// 返回: 进入房子（行道进度 < 0）的僵尸，按实体 ID 升序
func (s *MovementSystem) Update() []ecs.EntityID {
	crossed := make([]ecs.EntityID, 0)

	for _, id := range ecs.GetEntitiesWith2[*components.ZombieComponent, *components.MovementComponent](s.entityManager) {
		zombie, _ := ecs.GetComponent[*components.ZombieComponent](s.entityManager, id)
		movement, _ := ecs.GetComponent[*components.MovementComponent](s.entityManager, id)
		if zombie.Blocked || movement.Speed <= 0 {
			continue
		}

		from := zombie.Progress
		to := from - movement.Speed
		for col := from - 1; col >= 0 && col >= to; col-- {
			if _, occupied := s.lawnGrid.PlantAt(zombie.Lane, col); occupied {
				to = col + 1
				break
			}
		}
		zombie.Progress = to

		if s.verbose {
			log.Printf("[MovementSystem] 僵尸 %d row %d: %d -> %d", id, zombie.Lane, from, to)
		}
		if to < 0 {
			crossed = append(crossed, id)
		}
	}

	return crossed
}
