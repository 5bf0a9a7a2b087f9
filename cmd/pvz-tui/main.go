// pvz-tui 终端战斗回放
//
// 快捷键：Space 暂停/继续 | n 单步 | r 重新开始 | +/- 调整速度 | Esc/Ctrl-C 退出
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/decker502/pvzsim/internal/cli"
	"github.com/decker502/pvzsim/pkg/config"
	"github.com/decker502/pvzsim/pkg/game"
)

var (
	scenarioFlag = flag.String("scenario", "autobattle", "内置场景名称")
	fileFlag     = flag.String("file", "", "场景 YAML 文件（优先于 -scenario）")
	unitsFlag    = flag.String("units", "", "单位属性表 YAML 文件")
	intervalFlag = flag.Duration("interval", 200*time.Millisecond, "每个 tick 的间隔")
	logFlag      = flag.String("log", "", "日志文件（默认丢弃日志）")
)

// 每个格子占用的终端列数
const cellWidth = 4

var (
	styleDefault = tcell.StyleDefault
	styleLawn    = tcell.StyleDefault.Foreground(tcell.ColorDarkGreen)
	styleHouse   = tcell.StyleDefault.Foreground(tcell.ColorOlive)
	stylePlant   = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleSun     = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleZombie  = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleBlocked = tcell.StyleDefault.Foreground(tcell.ColorPurple).Bold(true)
	styleStatus  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Reverse(true)
)

// Viewer 终端回放状态
type Viewer struct {
	screen   tcell.Screen
	scenario *config.Scenario
	registry *config.Registry
	run      *game.ScenarioRun

	paused   bool
	interval time.Duration
	status   string
}

// NewViewer 创建回放并开始场景
func NewViewer(screen tcell.Screen, sc *config.Scenario, registry *config.Registry, interval time.Duration) (*Viewer, error) {
	v := &Viewer{
		screen:   screen,
		scenario: sc,
		registry: registry,
		interval: interval,
	}
	if err := v.reset(); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *Viewer) reset() error {
	run, err := game.NewScenarioRun(v.scenario, v.registry)
	if err != nil {
		return err
	}
	v.run = run
	v.status = ""
	return nil
}

func (v *Viewer) step() {
	if v.run.Done() {
		return
	}
	res, err := v.run.Step()
	if err != nil {
		v.status = err.Error()
		v.paused = true
		return
	}
	if res.Ended != nil {
		v.status = fmt.Sprintf("BattleEnded(%d, %d): %s win", res.Ended.Winner, res.Ended.Detail, res.Ended.Winner)
	}
}

func (v *Viewer) drawString(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		v.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// draw 绘制草坪
//
// 每行左侧的 '#' 是房子；植物用类型名首字母（大写），
// 僵尸用 'Z'（被阻挡时为 'z'），同一格多个僵尸显示数量。
func (v *Viewer) draw() {
	v.screen.Clear()

	b := v.run.Battle()
	cfg := b.Config()
	info := b.Info()

	header := fmt.Sprintf(" %s | tick %d | %s | sun %d | spawned %d killed %d pending %d ",
		v.scenario.Name, info.TickCount, info.Phase, info.SunBalance,
		info.ZombiesSpawned, info.ZombiesKilled, info.PendingSpawns)
	v.drawString(0, 0, header, styleStatus)

	top := 2
	for row := 0; row < cfg.Rows; row++ {
		y := top + row
		v.screen.SetContent(0, y, '#', nil, styleHouse)
		for col := 0; col < cfg.Cols; col++ {
			v.drawString(1+col*cellWidth, y, " .  ", styleLawn)
		}
	}

	for _, p := range b.Plants() {
		style := stylePlant
		label := 'P'
		if stats, ok := v.registry.Plant(p.Kind); ok {
			if stats.Name != "" {
				label = unicode.ToUpper([]rune(stats.Name)[0])
			}
			if stats.SunAmount > 0 {
				style = styleSun
			}
		}
		v.screen.SetContent(1+p.Col*cellWidth+1, top+p.Row, label, nil, style)
	}

	counts := make(map[[2]int]int)
	blocked := make(map[[2]int]bool)
	for _, z := range b.Zombies() {
		key := [2]int{z.Row, z.LaneProgress}
		counts[key]++
		blocked[key] = blocked[key] || z.Blocked
	}
	for key, n := range counts {
		x := 1 + key[1]*cellWidth + 2
		style, r := styleZombie, 'Z'
		if blocked[key] {
			style, r = styleBlocked, 'z'
		}
		v.screen.SetContent(x, top+key[0], r, nil, style)
		if n > 1 && n < 10 {
			v.screen.SetContent(x+1, top+key[0], rune('0'+n), nil, style)
		}
	}

	footer := top + cfg.Rows + 1
	status := v.status
	if v.paused {
		status = "[PAUSED] " + status
	}
	v.drawString(0, footer, status, styleDefault)
	v.drawString(0, footer+1, "space pause | n step | r restart | +/- speed | esc quit", styleLawn)

	v.screen.Show()
}

// handleInput 处理按键，返回 false 表示退出
func (v *Viewer) handleInput(ev tcell.Event, ticker *time.Ticker) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() != tcell.KeyRune {
			return true
		}
		switch ev.Rune() {
		case 'q':
			return false
		case ' ':
			v.paused = !v.paused
		case 'n':
			if v.paused {
				v.step()
			}
		case 'r':
			if err := v.reset(); err != nil {
				v.status = err.Error()
			}
		case '+', '=':
			v.interval = max(v.interval/2, 10*time.Millisecond)
			ticker.Reset(v.interval)
		case '-':
			v.interval = min(v.interval*2, 5*time.Second)
			ticker.Reset(v.interval)
		}
		v.draw()

	case *tcell.EventResize:
		v.screen.Sync()
		v.draw()
	}
	return true
}

func (v *Viewer) loop() {
	ticker := time.NewTicker(v.interval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	v.draw()
	for {
		select {
		case ev := <-eventChan:
			if !v.handleInput(ev, ticker) {
				return
			}

		case <-ticker.C:
			if !v.paused {
				v.step()
			}
			v.draw()
		}
	}
}

func main() {
	flag.Parse()

	log.SetOutput(io.Discard)
	if *logFlag != "" {
		f, err := os.OpenFile(*logFlag, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	registry, err := cli.LoadRegistry(*unitsFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load units: %v\n", err)
		os.Exit(1)
	}
	sc, err := cli.LoadScenario(*scenarioFlag, *fileFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load scenario: %v\n", err)
		os.Exit(1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}

	v, err := NewViewer(screen, sc, registry, max(*intervalFlag, 10*time.Millisecond))
	if err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "Failed to start battle: %v\n", err)
		os.Exit(1)
	}

	v.loop()
	screen.Fini()

	report := v.run.Report()
	fmt.Printf("%s: tick %d, sun %d, digest %s\n", report.Name, report.Ticks, report.Sun, report.Digest)
}
