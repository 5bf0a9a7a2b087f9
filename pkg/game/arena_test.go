package game

import (
	"context"
	"errors"
	"testing"

	"github.com/decker502/pvzsim/pkg/config"
	"github.com/decker502/pvzsim/pkg/types"
)

func newTestArena(t *testing.T) *Arena {
	t.Helper()
	return NewArena(newDefaultRegistry(t), config.DefaultBattleConfig())
}

// startAutoBattle 在竞技场中为 owner 布置自动战斗
func startAutoBattle(t *testing.T, a *Arena, owner string) {
	t.Helper()
	if _, err := a.StartBattle(owner); err != nil {
		t.Fatalf("StartBattle(%s) failed: %v", owner, err)
	}
	if err := a.PlacePlant(owner, 1, 1, types.PlantPeashooter); err != nil {
		t.Fatalf("PlacePlant failed: %v", err)
	}
	if err := a.SpawnZombie(owner, 2, types.ZombieBasic); err != nil {
		t.Fatalf("SpawnZombie failed: %v", err)
	}
	if err := a.PlacePlant(owner, 2, 2, types.PlantPeashooter); err != nil {
		t.Fatalf("PlacePlant failed: %v", err)
	}
}

// TestArena_Battles battles 查询
func TestArena_Battles(t *testing.T) {
	a := newTestArena(t)

	t.Run("未知所有者返回零值", func(t *testing.T) {
		info := a.Battles("0xnobody")
		if info.Phase != types.PhaseNotStarted || info.TickCount != 0 || info.SunBalance != 0 {
			t.Errorf("Expected zero value, got %+v", info)
		}
	})

	t.Run("开始之后", func(t *testing.T) {
		if _, err := a.StartBattle("0xa"); err != nil {
			t.Fatalf("StartBattle failed: %v", err)
		}
		info := a.Battles("0xa")
		if info.Phase != types.PhaseActive || info.SunBalance != 200 || info.ID == "" {
			t.Errorf("Unexpected info %+v", info)
		}
	})

	t.Run("重复开始", func(t *testing.T) {
		if _, err := a.StartBattle("0xa"); !errors.Is(err, ErrBattleAlreadyStarted) {
			t.Errorf("Expected ErrBattleAlreadyStarted, got %v", err)
		}
	})

	t.Run("重置后重新开始", func(t *testing.T) {
		if !a.Reset("0xa") {
			t.Fatalf("Reset returned false")
		}
		if a.Reset("0xa") {
			t.Errorf("Second reset should return false")
		}
		if _, err := a.StartBattle("0xa"); err != nil {
			t.Errorf("StartBattle after reset failed: %v", err)
		}
	})

	t.Run("没有战斗时的操作", func(t *testing.T) {
		if err := a.PlacePlant("0xnobody", 0, 0, types.PlantPeashooter); !errors.Is(err, ErrBattleNotActive) {
			t.Errorf("Expected ErrBattleNotActive, got %v", err)
		}
		if _, err := a.Tick("0xnobody"); !errors.Is(err, ErrBattleNotActive) {
			t.Errorf("Expected ErrBattleNotActive, got %v", err)
		}
		if _, err := a.GetPlant("0xnobody", 0, 0); !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("未注册类型表", func(t *testing.T) {
		empty := NewArena(config.NewRegistry(), config.DefaultBattleConfig())
		if _, err := empty.StartBattle("0xa"); !errors.Is(err, ErrTypesNotInitialized) {
			t.Errorf("Expected ErrTypesNotInitialized, got %v", err)
		}
	})
}

// TestArena_TickAll 并发推进多场战斗
func TestArena_TickAll(t *testing.T) {
	a := newTestArena(t)
	owners := []string{"0x01", "0x02", "0x03"}
	for _, owner := range owners {
		startAutoBattle(t, a, owner)
	}
	// 第四场战斗没有僵尸，永远不会结束
	if _, err := a.StartBattle("0x04"); err != nil {
		t.Fatalf("StartBattle failed: %v", err)
	}

	ctx := context.Background()
	for tick := 1; tick < 27; tick++ {
		ended, err := a.TickAll(ctx)
		if err != nil {
			t.Fatalf("TickAll %d failed: %v", tick, err)
		}
		if len(ended) != 0 {
			t.Fatalf("Tick %d: unexpected ended battles %v", tick, ended)
		}
	}

	ended, err := a.TickAll(ctx)
	if err != nil {
		t.Fatalf("TickAll 27 failed: %v", err)
	}
	want := BattleEndedEvent{Winner: types.SidePlants, Detail: 2, Tick: 27}
	for _, owner := range owners {
		if ended[owner] != want {
			t.Errorf("Owner %s: expected %+v, got %+v", owner, want, ended[owner])
		}
	}
	if _, ok := ended["0x04"]; ok {
		t.Errorf("Battle without zombies must not end")
	}

	if got := a.Battles("0x04").TickCount; got != 27 {
		t.Errorf("Expected 27 ticks for the open battle, got %d", got)
	}
	if got := a.Owners(); len(got) != 4 {
		t.Errorf("Expected 4 owners, got %v", got)
	}

	// 已结束的战斗不再推进
	if _, err := a.TickAll(ctx); err != nil {
		t.Errorf("TickAll after end failed: %v", err)
	}
	if got := a.Battles("0x01").TickCount; got != 27 {
		t.Errorf("Ended battle advanced to tick %d", got)
	}
}

// TestArena_TickAllCanceled ctx 取消后不再推进
func TestArena_TickAllCanceled(t *testing.T) {
	a := newTestArena(t)
	startAutoBattle(t, a, "0x01")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := a.TickAll(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if got := a.Battles("0x01").TickCount; got != 0 {
		t.Errorf("Expected no tick after cancel, got %d", got)
	}
}

// TestArena_Adopt 接管恢复的战斗
func TestArena_Adopt(t *testing.T) {
	a := newTestArena(t)
	startAutoBattle(t, a, "0x01")
	b, err := a.Battle("0x01")
	if err != nil {
		t.Fatalf("Battle failed: %v", err)
	}

	restored, err := RestoreBattle(b.Snapshot(), a.Registry())
	if err != nil {
		t.Fatalf("RestoreBattle failed: %v", err)
	}
	a.Adopt(restored)

	got, err := a.Battle("0x01")
	if err != nil || got != restored {
		t.Errorf("Expected adopted battle, got %v (%v)", got, err)
	}
	z, err := a.GetZombie("0x01", 2, 0)
	if err != nil || z.Kind != types.ZombieBasic {
		t.Errorf("Expected zombie in adopted battle, got %+v (%v)", z, err)
	}
}
