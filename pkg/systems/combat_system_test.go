package systems

import (
	"testing"

	"github.com/decker502/pvzsim/pkg/components"
	"github.com/decker502/pvzsim/pkg/ecs"
)

// TestCombat_PlantTargeting 植物攻击同行射程内最近的僵尸
func TestCombat_PlantTargeting(t *testing.T) {
	tests := []struct {
		name       string
		attackRng  int
		zombies    []int // 各僵尸的行道进度（按生成顺序）
		wantTarget int   // 目标僵尸下标，-1 表示不攻击
	}{
		{"整行射程打最近的", 0, []int{8, 4, 6}, 1},
		{"距离相同打先生成的", 0, []int{5, 5}, 0},
		{"越过植物的僵尸不算", 0, []int{1}, -1},
		{"同列的僵尸可以攻击", 0, []int{2}, 0},
		{"射程外", 2, []int{5}, -1},
		{"射程边界", 3, []int{5}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			em, lawn := newTestLawn(5, 9)
			plant := addTestPlant(t, em, lawn, 0, 2, 100, 10, 1)
			attack, _ := ecs.GetComponent[*components.AttackComponent](em, plant)
			attack.Range = tt.attackRng

			zombies := make([]ecs.EntityID, 0, len(tt.zombies))
			for _, p := range tt.zombies {
				zombies = append(zombies, addTestZombie(t, em, lawn, 0, p, 100, 0, 0, 1))
			}
			// 其他行的僵尸不受影响
			other := addTestZombie(t, em, lawn, 1, 3, 100, 0, 0, 1)

			events := NewCombatSystem(em, lawn, false).Update()

			if tt.wantTarget < 0 {
				if len(events) != 0 {
					t.Fatalf("Expected no attack, got %+v", events)
				}
				if attack.Cooldown != 0 {
					t.Errorf("Idle plant cooldown should stay 0, got %d", attack.Cooldown)
				}
				return
			}
			if len(events) != 1 {
				t.Fatalf("Expected 1 attack, got %+v", events)
			}
			target := zombies[tt.wantTarget]
			if events[0].Target != target || !events[0].AttackerPlant {
				t.Errorf("Expected plant to hit %d, got %+v", target, events[0])
			}
			if healthOf(em, target) != 90 {
				t.Errorf("Expected target HP 90, got %d", healthOf(em, target))
			}
			if attack.Cooldown != 1 {
				t.Errorf("Expected cooldown reset to 1, got %d", attack.Cooldown)
			}
			if healthOf(em, other) != 100 {
				t.Errorf("Zombie on another row was damaged")
			}
		})
	}
}

// TestCombat_ZombieEngagement 僵尸与植物接触时被阻挡并啃食
func TestCombat_ZombieEngagement(t *testing.T) {
	tests := []struct {
		name        string
		progress    int
		cooldown    int
		wantBlocked bool
		wantBite    bool
	}{
		{"正前方一格", 4, 0, true, true},
		{"同一格", 3, 0, true, true},
		{"冷却中只阻挡不啃食", 4, 1, true, false},
		{"距离两格", 5, 0, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			em, lawn := newTestLawn(5, 9)
			plant := addTestPlant(t, em, lawn, 2, 3, 100, 0, 0)
			zombie := addTestZombie(t, em, lawn, 2, tt.progress, 100, 25, 2, 1)
			attack, _ := ecs.GetComponent[*components.AttackComponent](em, zombie)
			attack.Cooldown = tt.cooldown

			events := NewCombatSystem(em, lawn, false).Update()

			z, _ := ecs.GetComponent[*components.ZombieComponent](em, zombie)
			if z.Blocked != tt.wantBlocked {
				t.Errorf("Expected blocked=%v, got %v", tt.wantBlocked, z.Blocked)
			}
			if tt.wantBite {
				if len(events) != 1 || events[0].Target != plant {
					t.Fatalf("Expected bite on plant, got %+v", events)
				}
				if healthOf(em, plant) != 75 {
					t.Errorf("Expected plant HP 75, got %d", healthOf(em, plant))
				}
				if attack.Cooldown != 2 {
					t.Errorf("Expected cooldown reset to 2, got %d", attack.Cooldown)
				}
			} else {
				if len(events) != 0 {
					t.Errorf("Expected no bite, got %+v", events)
				}
				if tt.cooldown > 0 && attack.Cooldown != tt.cooldown-1 {
					t.Errorf("Expected cooldown %d, got %d", tt.cooldown-1, attack.Cooldown)
				}
			}
		})
	}
}

// TestCombat_DecideThenApply 所有攻击基于 tick 开始时的状态决定
func TestCombat_DecideThenApply(t *testing.T) {
	em, lawn := newTestLawn(1, 2)
	plant := addTestPlant(t, em, lawn, 0, 0, 10, 5, 0)
	z1 := addTestZombie(t, em, lawn, 0, 1, 1, 10, 0, 1)
	z2 := addTestZombie(t, em, lawn, 0, 1, 100, 10, 0, 1)

	events := NewCombatSystem(em, lawn, false).Update()
	if len(events) != 3 {
		t.Fatalf("Expected 3 attacks, got %+v", events)
	}

	// 伤害不截断
	if healthOf(em, plant) != -10 {
		t.Errorf("Expected plant HP -10, got %d", healthOf(em, plant))
	}
	if healthOf(em, z1) != -4 {
		t.Errorf("Expected Z1 HP -4, got %d", healthOf(em, z1))
	}
	if healthOf(em, z2) != 100 {
		t.Errorf("Expected Z2 untouched, got %d", healthOf(em, z2))
	}
	// 结算阶段不移除实体
	if !em.Exists(plant) || !em.Exists(z1) {
		t.Errorf("Combat must not remove entities")
	}
}
