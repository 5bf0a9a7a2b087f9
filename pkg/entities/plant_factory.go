package entities

import (
	"github.com/decker502/pvzsim/pkg/components"
	"github.com/decker502/pvzsim/pkg/config"
	"github.com/decker502/pvzsim/pkg/ecs"
	"github.com/decker502/pvzsim/pkg/types"
)

// NewPlantEntity 创建植物实体
// 根据植物类型属性和网格位置创建一个完整的植物实体（满血、冷却为 0）
//
// 参数:
//   - em: 实体管理器
//   - kind: 植物类型ID
//   - stats: 植物类型属性（来自注册表）
//   - row, col: 网格位置
//
// 返回:
//   - ecs.EntityID: 创建的植物实体ID
//
// 注意：本函数不占用草坪格子，调用方负责在同一临界区内调用 LawnGridSystem.OccupyCell
func NewPlantEntity(em *ecs.EntityManager, kind types.PlantID, stats config.PlantStats, row, col int) ecs.EntityID {
	entityID := em.CreateEntity()

	em.AddComponent(entityID, &components.PlantComponent{
		Kind:    kind,
		GridRow: row,
		GridCol: col,
	})
	em.AddComponent(entityID, &components.HealthComponent{
		CurrentHealth: stats.Health,
		MaxHealth:     stats.Health,
	})
	em.AddComponent(entityID, &components.AttackComponent{
		Damage:     stats.Damage,
		Range:      stats.Range,
		CycleTicks: stats.Cooldown,
	})

	// 向日葵等生产者
	if stats.SunAmount > 0 {
		em.AddComponent(entityID, &components.SunProducerComponent{
			Amount:    stats.SunAmount,
			Interval:  stats.SunInterval,
			Countdown: stats.FirstSunInterval(),
		})
	}

	return entityID
}
