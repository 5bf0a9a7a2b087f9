package systems

import (
	"log"

	"github.com/decker502/pvzsim/pkg/components"
	"github.com/decker502/pvzsim/pkg/ecs"
)

// AttackEvent 一次攻击（伤害在所有攻击决定之后统一结算）
type AttackEvent struct {
	Attacker      ecs.EntityID
	Target        ecs.EntityID
	AttackerPlant bool // true: 植物攻击僵尸；false: 僵尸啃食植物
	Row           int
	Damage        int
}

// CombatSystem 战斗结算系统
//
// 每个 tick 执行一次，分三个阶段：
//  1. 决策：基于 tick 开始时的状态决定谁攻击谁（只读）
//  2. 冷却：攻击者重置冷却，其余单位冷却减 1（最低为 0）
//  3. 结算：统一扣除生命值（不截断，死亡由 SweepSystem 处理）
//
// 因为决策阶段不写入任何生命值，同一 tick 内被打死的单位
// 只要冷却已到仍然会完成自己的攻击。
type CombatSystem struct {
	entityManager *ecs.EntityManager
	lawnGrid      *LawnGridSystem
	verbose       bool
}

// NewCombatSystem 创建战斗结算系统
func NewCombatSystem(em *ecs.EntityManager, lawnGrid *LawnGridSystem, verbose bool) *CombatSystem {
	return &CombatSystem{
		entityManager: em,
		lawnGrid:      lawnGrid,
		verbose:       verbose,
	}
}

// Update 执行一次战斗结算，返回本 tick 的全部攻击事件（按攻击者 ID 升序，植物在前）
func (s *CombatSystem) Update() []AttackEvent {
	plants := ecs.GetEntitiesWith2[*components.PlantComponent, *components.AttackComponent](s.entityManager)
	zombies := ecs.GetEntitiesWith2[*components.ZombieComponent, *components.AttackComponent](s.entityManager)

	events := make([]AttackEvent, 0)
	attacked := make(map[ecs.EntityID]bool)

	// 1a. 植物决策：攻击同行射程内最近的僵尸
	for _, id := range plants {
		plant, _ := ecs.GetComponent[*components.PlantComponent](s.entityManager, id)
		attack, _ := ecs.GetComponent[*components.AttackComponent](s.entityManager, id)
		if attack.Damage <= 0 || attack.Cooldown > 0 {
			continue
		}
		target, ok := s.nearestZombieInRange(plant.GridRow, plant.GridCol, attack.Range)
		if !ok {
			continue
		}
		events = append(events, AttackEvent{
			Attacker:      id,
			Target:        target,
			AttackerPlant: true,
			Row:           plant.GridRow,
			Damage:        attack.Damage,
		})
		attacked[id] = true
	}

	// 1b. 僵尸决策：与植物接触的僵尸被阻挡，冷却已到则啃食
	for _, id := range zombies {
		zombie, _ := ecs.GetComponent[*components.ZombieComponent](s.entityManager, id)
		attack, _ := ecs.GetComponent[*components.AttackComponent](s.entityManager, id)
		target, engaged := s.engagedPlant(zombie.Lane, zombie.Progress)
		zombie.Blocked = engaged
		if !engaged || attack.Damage <= 0 || attack.Cooldown > 0 {
			continue
		}
		events = append(events, AttackEvent{
			Attacker: id,
			Target:   target,
			Row:      zombie.Lane,
			Damage:   attack.Damage,
		})
		attacked[id] = true
	}

	// 2. 冷却
	for _, ids := range [][]ecs.EntityID{plants, zombies} {
		for _, id := range ids {
			attack, _ := ecs.GetComponent[*components.AttackComponent](s.entityManager, id)
			if attacked[id] {
				attack.Cooldown = attack.CycleTicks
			} else if attack.Cooldown > 0 {
				attack.Cooldown--
			}
		}
	}

	// 3. 结算伤害
	for _, ev := range events {
		health, ok := ecs.GetComponent[*components.HealthComponent](s.entityManager, ev.Target)
		if !ok {
			continue
		}
		health.CurrentHealth -= ev.Damage
		if s.verbose {
			log.Printf("[CombatSystem] %d -> %d 伤害 %d (row %d, plant=%v), 目标剩余 HP=%d",
				ev.Attacker, ev.Target, ev.Damage, ev.Row, ev.AttackerPlant, health.CurrentHealth)
		}
	}

	return events
}

// nearestZombieInRange 查找同行射程内距离植物最近的僵尸
// 距离相同时选择行道中靠前（先生成）的僵尸
func (s *CombatSystem) nearestZombieInRange(row, col, attackRange int) (ecs.EntityID, bool) {
	var best ecs.EntityID
	bestDist := -1
	for _, id := range s.lawnGrid.Grid().Lanes[row] {
		zombie, ok := ecs.GetComponent[*components.ZombieComponent](s.entityManager, id)
		if !ok {
			continue
		}
		dist := zombie.Progress - col
		if dist < 0 {
			continue // 僵尸已经越过植物
		}
		if attackRange > 0 && dist > attackRange {
			continue
		}
		if bestDist < 0 || dist < bestDist {
			best = id
			bestDist = dist
		}
	}
	return best, bestDist >= 0
}

// engagedPlant 返回与僵尸接触的植物：僵尸所在格优先，其次是正前方一格
func (s *CombatSystem) engagedPlant(row, progress int) (ecs.EntityID, bool) {
	if id, ok := s.lawnGrid.PlantAt(row, progress); ok {
		return id, true
	}
	return s.lawnGrid.PlantAt(row, progress-1)
}
