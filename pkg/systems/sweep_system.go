package systems

import (
	"log"

	"github.com/decker502/pvzsim/pkg/components"
	"github.com/decker502/pvzsim/pkg/ecs"
)

// SweptActor 清扫阶段被移除的单位
type SweptActor struct {
	Entity ecs.EntityID
	Plant  bool // true: 植物；false: 僵尸
	Row    int
	Col    int // 植物所在列 / 僵尸行道进度
}

// SweepSystem tick 末尾的死亡清扫
// 移除所有生命值 <= 0 的单位：释放植物格子、从行道中移除僵尸，然后销毁实体
type SweepSystem struct {
	entityManager *ecs.EntityManager
	lawnGrid      *LawnGridSystem
	verbose       bool
}

// NewSweepSystem 创建死亡清扫系统
func NewSweepSystem(em *ecs.EntityManager, lawnGrid *LawnGridSystem, verbose bool) *SweepSystem {
	return &SweepSystem{
		entityManager: em,
		lawnGrid:      lawnGrid,
		verbose:       verbose,
	}
}

// Update 执行清扫，返回被移除的单位（按实体 ID 升序）
func (s *SweepSystem) Update() []SweptActor {
	swept := make([]SweptActor, 0)

	for _, id := range ecs.GetEntitiesWith1[*components.HealthComponent](s.entityManager) {
		health, _ := ecs.GetComponent[*components.HealthComponent](s.entityManager, id)
		if !health.IsDead() {
			continue
		}

		if plant, ok := ecs.GetComponent[*components.PlantComponent](s.entityManager, id); ok {
			s.lawnGrid.ReleaseCell(plant.GridRow, plant.GridCol)
			swept = append(swept, SweptActor{Entity: id, Plant: true, Row: plant.GridRow, Col: plant.GridCol})
		} else if zombie, ok := ecs.GetComponent[*components.ZombieComponent](s.entityManager, id); ok {
			s.lawnGrid.RemoveZombie(zombie.Lane, id)
			swept = append(swept, SweptActor{Entity: id, Row: zombie.Lane, Col: zombie.Progress})
		}

		s.entityManager.DestroyEntity(id)
		if s.verbose {
			log.Printf("[SweepSystem] 移除死亡单位 %d (HP=%d)", id, health.CurrentHealth)
		}
	}

	s.entityManager.RemoveMarkedEntities()
	return swept
}
