package systems

import (
	"testing"

	"github.com/decker502/pvzsim/pkg/components"
	"github.com/decker502/pvzsim/pkg/ecs"
	"github.com/decker502/pvzsim/pkg/types"
)

// newTestLawn 创建测试用的实体管理器和草坪
// 这是一个测试辅助函数，被多个测试文件共享使用
func newTestLawn(rows, cols int) (*ecs.EntityManager, *LawnGridSystem) {
	em := ecs.NewEntityManager()
	return em, NewLawnGridSystem(em, rows, cols, 32)
}

// addTestPlant 在 (row, col) 放置一株植物并占用格子
func addTestPlant(t *testing.T, em *ecs.EntityManager, lawn *LawnGridSystem, row, col, hp, damage, cycle int) ecs.EntityID {
	t.Helper()
	id := em.CreateEntity()
	em.AddComponent(id, &components.PlantComponent{Kind: types.PlantPeashooter, GridRow: row, GridCol: col})
	em.AddComponent(id, &components.HealthComponent{CurrentHealth: hp, MaxHealth: hp})
	em.AddComponent(id, &components.AttackComponent{Damage: damage, CycleTicks: cycle})
	if err := lawn.OccupyCell(row, col, id); err != nil {
		t.Fatalf("OccupyCell(%d, %d) failed: %v", row, col, err)
	}
	return id
}

// addTestZombie 在 row 行的 progress 处放置一只僵尸并加入行道
func addTestZombie(t *testing.T, em *ecs.EntityManager, lawn *LawnGridSystem, row, progress, hp, damage, cycle, speed int) ecs.EntityID {
	t.Helper()
	id := em.CreateEntity()
	em.AddComponent(id, &components.ZombieComponent{Kind: types.ZombieBasic, Lane: row, Progress: progress})
	em.AddComponent(id, &components.HealthComponent{CurrentHealth: hp, MaxHealth: hp})
	em.AddComponent(id, &components.AttackComponent{Damage: damage, CycleTicks: cycle})
	em.AddComponent(id, &components.MovementComponent{Speed: speed})
	if err := lawn.AppendZombie(row, id); err != nil {
		t.Fatalf("AppendZombie(%d) failed: %v", row, err)
	}
	return id
}

func healthOf(em *ecs.EntityManager, id ecs.EntityID) int {
	health, ok := ecs.GetComponent[*components.HealthComponent](em, id)
	if !ok {
		return 0
	}
	return health.CurrentHealth
}

func progressOf(em *ecs.EntityManager, id ecs.EntityID) int {
	zombie, _ := ecs.GetComponent[*components.ZombieComponent](em, id)
	return zombie.Progress
}

// damage 直接扣除生命值（模拟战斗结算）
func damage(em *ecs.EntityManager, id ecs.EntityID, amount int) {
	if health, ok := ecs.GetComponent[*components.HealthComponent](em, id); ok {
		health.CurrentHealth -= amount
	}
}
