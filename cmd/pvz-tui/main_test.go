package main

import (
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/decker502/pvzsim/pkg/config"
)

func newTestViewer(t *testing.T) *Viewer {
	t.Helper()

	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Failed to init simulation screen: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(80, 24)

	registry, err := config.DefaultRegistry()
	if err != nil {
		t.Fatalf("DefaultRegistry failed: %v", err)
	}
	sc, err := config.BuiltinScenario("autobattle")
	if err != nil {
		t.Fatalf("BuiltinScenario failed: %v", err)
	}
	v, err := NewViewer(screen, sc, registry, 100*time.Millisecond)
	if err != nil {
		t.Fatalf("NewViewer failed: %v", err)
	}
	return v
}

func runeAt(v *Viewer, x, y int) rune {
	r, _, _, _ := v.screen.GetContent(x, y)
	return r
}

func TestViewer_Draw(t *testing.T) {
	v := newTestViewer(t)

	t.Run("初始草坪", func(t *testing.T) {
		v.draw()
		for row := 0; row < 5; row++ {
			if r := runeAt(v, 0, 2+row); r != '#' {
				t.Errorf("Expected house at row %d, got %q", row, r)
			}
		}
		if r := runeAt(v, 6, 3); r == 'P' {
			t.Error("No plant expected before the first tick")
		}
	})

	t.Run("第一个 tick 后显示植物", func(t *testing.T) {
		v.step()
		v.draw()
		// 豌豆射手 (1,1) 和 (2,2)
		if r := runeAt(v, 1+1*cellWidth+1, 2+1); r != 'P' {
			t.Errorf("Expected peashooter at (1,1), got %q", r)
		}
		if r := runeAt(v, 1+2*cellWidth+1, 2+2); r != 'P' {
			t.Errorf("Expected peashooter at (2,2), got %q", r)
		}
	})
}

func TestViewer_RunToEnd(t *testing.T) {
	v := newTestViewer(t)
	for i := 0; i < 100 && !v.run.Done(); i++ {
		v.step()
	}
	if !strings.HasPrefix(v.status, "BattleEnded(2, 2)") {
		t.Errorf("Expected plants win status, got %q", v.status)
	}
	if v.run.Battle().Info().TickCount != 27 {
		t.Errorf("Expected battle to end at tick 27, got %d", v.run.Battle().Info().TickCount)
	}
}

func TestViewer_HandleInput(t *testing.T) {
	v := newTestViewer(t)
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	key := func(r rune) tcell.Event {
		return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
	}

	t.Run("暂停和单步", func(t *testing.T) {
		if !v.handleInput(key(' '), ticker) || !v.paused {
			t.Fatal("Expected space to pause")
		}
		v.handleInput(key('n'), ticker)
		if tick := v.run.Battle().Info().TickCount; tick != 1 {
			t.Errorf("Expected one step while paused, got tick %d", tick)
		}
	})

	t.Run("调整速度", func(t *testing.T) {
		v.handleInput(key('+'), ticker)
		if v.interval != 50*time.Millisecond {
			t.Errorf("Expected interval 50ms, got %v", v.interval)
		}
		v.handleInput(key('-'), ticker)
		v.handleInput(key('-'), ticker)
		if v.interval != 200*time.Millisecond {
			t.Errorf("Expected interval 200ms, got %v", v.interval)
		}
	})

	t.Run("重新开始", func(t *testing.T) {
		v.handleInput(key('r'), ticker)
		if tick := v.run.Battle().Info().TickCount; tick != 0 {
			t.Errorf("Expected restart at tick 0, got %d", tick)
		}
	})

	t.Run("退出", func(t *testing.T) {
		if v.handleInput(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), ticker) {
			t.Error("Expected Esc to quit")
		}
		if v.handleInput(key('q'), ticker) {
			t.Error("Expected q to quit")
		}
	})
}
