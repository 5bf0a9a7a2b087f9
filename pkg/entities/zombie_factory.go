package entities

import (
	"github.com/decker502/pvzsim/pkg/components"
	"github.com/decker502/pvzsim/pkg/config"
	"github.com/decker502/pvzsim/pkg/ecs"
	"github.com/decker502/pvzsim/pkg/types"
)

// NewZombieEntity 创建僵尸实体（满血、冷却为 0）
//
// 参数:
//   - em: 实体管理器
//   - kind: 僵尸类型ID
//   - stats: 僵尸类型属性
//   - row: 所在行
//   - progress: 初始行道进度（通常为最右侧一列 Cols-1）
//
// 注意：调用方负责把返回的实体追加到 LawnGridSystem 的行道中
func NewZombieEntity(em *ecs.EntityManager, kind types.ZombieID, stats config.ZombieStats, row, progress int) ecs.EntityID {
	entityID := em.CreateEntity()

	em.AddComponent(entityID, &components.ZombieComponent{
		Kind:     kind,
		Lane:     row,
		Progress: progress,
	})
	em.AddComponent(entityID, &components.HealthComponent{
		CurrentHealth: stats.Health,
		MaxHealth:     stats.Health,
	})
	em.AddComponent(entityID, &components.AttackComponent{
		Damage:     stats.Damage,
		CycleTicks: stats.Cooldown,
	})
	em.AddComponent(entityID, &components.MovementComponent{
		Speed: stats.Speed,
	})

	return entityID
}
