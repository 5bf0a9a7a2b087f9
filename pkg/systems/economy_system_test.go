package systems

import (
	"testing"

	"github.com/decker502/pvzsim/pkg/components"
	"github.com/decker502/pvzsim/pkg/ecs"
)

// TestEconomy_Passive 天空掉落阳光
func TestEconomy_Passive(t *testing.T) {
	em := ecs.NewEntityManager()
	system := NewEconomySystem(em, 25, 10, false)

	tests := []struct {
		tick int
		want int
	}{
		{1, 0},
		{9, 0},
		{10, 25},
		{20, 25},
		{25, 0},
	}
	for _, tt := range tests {
		if got := system.Update(tt.tick); got != tt.want {
			t.Errorf("Tick %d: expected %d, got %d", tt.tick, tt.want, got)
		}
	}

	// 周期为 1：每个 tick 固定收入
	perTick := NewEconomySystem(em, 3, 1, false)
	for tick := 1; tick <= 3; tick++ {
		if got := perTick.Update(tick); got != 3 {
			t.Errorf("Tick %d: expected 3, got %d", tick, got)
		}
	}
}

// TestEconomy_Producer 向日葵按周期生产阳光
func TestEconomy_Producer(t *testing.T) {
	em := ecs.NewEntityManager()
	sunflower := em.CreateEntity()
	em.AddComponent(sunflower, &components.SunProducerComponent{Amount: 25, Interval: 3, Countdown: 2})

	system := NewEconomySystem(em, 0, 0, false)
	want := []int{0, 25, 0, 0, 25, 0, 0, 25}
	for i, w := range want {
		if got := system.Update(i + 1); got != w {
			t.Errorf("Tick %d: expected %d, got %d", i+1, w, got)
		}
	}

	// 被移除的生产者不再产出
	em.DestroyEntity(sunflower)
	em.RemoveMarkedEntities()
	for tick := 9; tick <= 12; tick++ {
		if got := system.Update(tick); got != 0 {
			t.Errorf("Tick %d: expected 0 after removal, got %d", tick, got)
		}
	}
}
