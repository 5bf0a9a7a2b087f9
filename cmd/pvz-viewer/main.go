// pvz-viewer 战斗回放查看器
//
// 以图形方式逐 tick 播放场景：植物为绿色方块，僵尸为红色方块，
// 方块下方的条表示剩余生命值。
//
// 快捷键：Space 暂停/继续 | N 单步 | R 重新开始 | +/- 调整速度 | Esc 退出
package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"

	"github.com/decker502/pvzsim/internal/cli"
	"github.com/decker502/pvzsim/pkg/config"
	"github.com/decker502/pvzsim/pkg/game"
	"github.com/decker502/pvzsim/pkg/types"
)

var (
	scenarioFlag = flag.String("scenario", "autobattle", "内置场景名称")
	fileFlag     = flag.String("file", "", "场景 YAML 文件（优先于 -scenario）")
	unitsFlag    = flag.String("units", "", "单位属性表 YAML 文件")
	framesFlag   = flag.Int("frames", 15, "每个 tick 的帧数（60 帧/秒）")
	verbose      = flag.Bool("verbose", false, "显示详细调试信息")
)

// 布局常量
const (
	cellSize   = 64
	marginX    = 16
	headerH    = 48
	footerH    = 56
	houseWidth = 24
	unitInset  = 10
)

var (
	colorLawnA    = color.RGBA{R: 0x4c, G: 0x8c, B: 0x2b, A: 0xff}
	colorLawnB    = color.RGBA{R: 0x5a, G: 0x9e, B: 0x34, A: 0xff}
	colorHouse    = color.RGBA{R: 0x8b, G: 0x5a, B: 0x2b, A: 0xff}
	colorPlant    = color.RGBA{R: 0x2e, G: 0xcc, B: 0x40, A: 0xff}
	colorSunPlant = color.RGBA{R: 0xf5, G: 0xd0, B: 0x20, A: 0xff}
	colorZombie   = color.RGBA{R: 0xc0, G: 0x39, B: 0x2b, A: 0xff}
	colorBlocked  = color.RGBA{R: 0x8e, G: 0x44, B: 0xad, A: 0xff}
	colorHPBack   = color.RGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xff}
	colorHP       = color.RGBA{R: 0xe0, G: 0xe0, B: 0xe0, A: 0xff}
	colorText     = color.White
)

// ViewerGame 实现 ebiten.Game
type ViewerGame struct {
	scenario *config.Scenario
	registry *config.Registry
	run      *game.ScenarioRun

	paused        bool
	frame         int
	framesPerTick int
	lastResult    game.TickResult
	statusMessage string

	pixel *ebiten.Image
	face  *text.GoXFace
}

// NewViewerGame 创建查看器
func NewViewerGame(sc *config.Scenario, registry *config.Registry, framesPerTick int) (*ViewerGame, error) {
	pixel := ebiten.NewImage(1, 1)
	pixel.Fill(color.White)

	vg := &ViewerGame{
		scenario:      sc,
		registry:      registry,
		framesPerTick: max(framesPerTick, 1),
		pixel:         pixel,
		face:          text.NewGoXFace(basicfont.Face7x13),
	}
	if err := vg.reset(); err != nil {
		return nil, err
	}
	return vg, nil
}

// reset 重新开始场景
func (vg *ViewerGame) reset() error {
	run, err := game.NewScenarioRun(vg.scenario, vg.registry)
	if err != nil {
		return err
	}
	vg.run = run
	vg.frame = 0
	vg.lastResult = game.TickResult{}
	vg.statusMessage = ""
	log.Printf("[Viewer] 开始场景 %s (battle=%s)", vg.scenario.Name, run.Battle().ID())
	return nil
}

// step 推进一个 tick
func (vg *ViewerGame) step() {
	if vg.run.Done() {
		return
	}
	res, err := vg.run.Step()
	if err != nil {
		vg.statusMessage = err.Error()
		vg.paused = true
		return
	}
	vg.lastResult = res
	if res.Ended != nil {
		vg.statusMessage = fmt.Sprintf("BattleEnded(%d, %d): %s win", res.Ended.Winner, res.Ended.Detail, res.Ended.Winner)
		log.Printf("[Viewer] %s", vg.statusMessage)
	}
}

// Update 更新逻辑
func (vg *ViewerGame) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return errors.New("quit")
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		vg.paused = !vg.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := vg.reset(); err != nil {
			return err
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyKPAdd) {
		vg.framesPerTick = max(vg.framesPerTick/2, 1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract) {
		vg.framesPerTick = min(vg.framesPerTick*2, 240)
	}

	if vg.paused {
		if inpututil.IsKeyJustPressed(ebiten.KeyN) {
			vg.step()
		}
		return nil
	}

	vg.frame++
	if vg.frame >= vg.framesPerTick {
		vg.frame = 0
		vg.step()
	}
	return nil
}

// fillRect 用 1x1 白色图片绘制纯色矩形
func (vg *ViewerGame) fillRect(screen *ebiten.Image, x, y, w, h float64, clr color.Color) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	screen.DrawImage(vg.pixel, op)
}

func (vg *ViewerGame) drawText(screen *ebiten.Image, s string, x, y float64) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(colorText)
	text.Draw(screen, s, vg.face, op)
}

// cellOrigin 返回格子左上角坐标
func cellOrigin(row, col int) (float64, float64) {
	return float64(marginX + houseWidth + col*cellSize), float64(headerH + row*cellSize)
}

func (vg *ViewerGame) drawHPBar(screen *ebiten.Image, x, y, w float64, hp, maxHP int) {
	vg.fillRect(screen, x, y, w, 4, colorHPBack)
	if maxHP > 0 && hp > 0 {
		vg.fillRect(screen, x, y, w*float64(hp)/float64(maxHP), 4, colorHP)
	}
}

// Draw 绘制
func (vg *ViewerGame) Draw(screen *ebiten.Image) {
	b := vg.run.Battle()
	cfg := b.Config()
	info := b.Info()

	// 房子和草坪
	vg.fillRect(screen, marginX, headerH, houseWidth, float64(cfg.Rows*cellSize), colorHouse)
	for row := 0; row < cfg.Rows; row++ {
		for col := 0; col < cfg.Cols; col++ {
			x, y := cellOrigin(row, col)
			clr := colorLawnA
			if (row+col)%2 == 1 {
				clr = colorLawnB
			}
			vg.fillRect(screen, x, y, cellSize, cellSize, clr)
		}
	}

	for _, p := range b.Plants() {
		x, y := cellOrigin(p.Row, p.Col)
		clr := colorPlant
		if stats, ok := vg.registry.Plant(p.Kind); ok && stats.SunAmount > 0 {
			clr = colorSunPlant
		}
		vg.fillRect(screen, x+unitInset, y+unitInset, cellSize-2*unitInset, cellSize-2*unitInset, clr)
		vg.drawHPBar(screen, x+unitInset, y+cellSize-unitInset+2, cellSize-2*unitInset, p.HP, p.MaxHP)
		vg.drawText(screen, plantLabel(vg.registry, p.Kind), x+unitInset+2, y+unitInset+2)
	}

	// 同一格子中的多个僵尸纵向错开
	stacked := make(map[[2]int]int)
	for _, z := range b.Zombies() {
		x, y := cellOrigin(z.Row, z.LaneProgress)
		key := [2]int{z.Row, z.LaneProgress}
		offset := float64(stacked[key] * 6)
		stacked[key]++

		clr := colorZombie
		if z.Blocked {
			clr = colorBlocked
		}
		size := float64(cellSize - 2*unitInset - 8)
		vg.fillRect(screen, x+unitInset+4+offset, y+unitInset+4+offset, size, size, clr)
		vg.drawHPBar(screen, x+unitInset, y+unitInset, cellSize-2*unitInset, z.HP, z.MaxHP)
	}

	// 状态栏
	header := fmt.Sprintf("%s  tick %d  phase %s  sun %d  spawned %d  killed %d  pending %d",
		vg.scenario.Name, info.TickCount, info.Phase, info.SunBalance,
		info.ZombiesSpawned, info.ZombiesKilled, info.PendingSpawns)
	vg.drawText(screen, header, marginX, 16)

	footerY := float64(headerH + cfg.Rows*cellSize + 8)
	last := fmt.Sprintf("last tick: attacks %d  swept %d  sun +%d  cost %d",
		len(vg.lastResult.Attacks), len(vg.lastResult.Swept), vg.lastResult.SunGained, vg.lastResult.Cost)
	vg.drawText(screen, last, marginX, footerY)

	status := vg.statusMessage
	if vg.paused {
		status = "[PAUSED] " + status
	}
	vg.drawText(screen, status, marginX, footerY+20)
}

// Layout 返回逻辑屏幕尺寸
func (vg *ViewerGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	cfg := vg.run.Battle().Config()
	return screenSize(cfg)
}

func screenSize(cfg config.BattleConfig) (int, int) {
	w := 2*marginX + houseWidth + cfg.Cols*cellSize
	h := headerH + cfg.Rows*cellSize + footerH
	return max(w, 640), h
}

// plantLabel 植物方块上显示的名称首字母
func plantLabel(registry *config.Registry, kind types.PlantID) string {
	stats, ok := registry.Plant(kind)
	if !ok || stats.Name == "" {
		return fmt.Sprintf("#%d", kind)
	}
	return stats.Name[:1]
}

func main() {
	flag.Parse()

	registry, err := cli.LoadRegistry(*unitsFlag)
	if err != nil {
		log.Fatalf("加载单位属性失败: %v", err)
	}
	sc, err := cli.LoadScenario(*scenarioFlag, *fileFlag)
	if err != nil {
		log.Fatalf("加载场景失败: %v", err)
	}
	sc.Battle.Verbose = *verbose

	vg, err := NewViewerGame(sc, registry, *framesFlag)
	if err != nil {
		log.Fatalf("创建战斗失败: %v", err)
	}

	log.Println("════════════════════════════════════════")
	log.Println("  Space 暂停/继续 | N 单步 | R 重新开始")
	log.Println("  +/- 调整速度 | Esc 退出")
	log.Println("════════════════════════════════════════")

	w, h := screenSize(sc.Battle)
	ebiten.SetWindowTitle("pvzsim viewer - " + sc.Name)
	ebiten.SetWindowSize(w, h)

	if err := ebiten.RunGame(vg); err != nil && err.Error() != "quit" {
		log.Fatal(err)
	}
}
