// pvzsim 命令行战斗模拟器
//
// 用法:
//
//	pvzsim -scenario autobattle
//	pvzsim -scenario all -save
//	pvzsim -file my_scenario.yaml -units my_units.yaml -verbose
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/decker502/pvzsim/internal/cli"
	"github.com/decker502/pvzsim/pkg/config"
	"github.com/decker502/pvzsim/pkg/game"
)

var (
	scenarioFlag = flag.String("scenario", "autobattle", "内置场景名称，逗号分隔，all 表示全部")
	fileFlag     = flag.String("file", "", "场景 YAML 文件（多个用逗号分隔）")
	unitsFlag    = flag.String("units", "", "单位属性表 YAML 文件（默认使用内置 units.yaml）")
	saveFlag     = flag.Bool("save", false, "运行结束后保存战斗快照")
	appFlag      = flag.String("app", game.DefaultStoreAppName, "快照存储使用的应用名")
	verbose      = flag.Bool("verbose", false, "显示详细调试信息")
	listFlag     = flag.Bool("list", false, "列出内置场景后退出")
)

func main() {
	flag.Parse()

	if *listFlag {
		for _, name := range config.BuiltinScenarioNames() {
			fmt.Println(name)
		}
		return
	}

	registry, err := cli.LoadRegistry(*unitsFlag)
	if err != nil {
		log.Fatalf("加载单位属性失败: %v", err)
	}

	var files []string
	if *fileFlag != "" {
		files = strings.Split(*fileFlag, ",")
		// 只给出文件时不再运行默认场景
		if !isFlagSet("scenario") {
			*scenarioFlag = ""
		}
	}
	scenarios, err := cli.LoadScenarios(*scenarioFlag, files)
	if err != nil {
		log.Fatalf("加载场景失败: %v", err)
	}
	if *verbose {
		for _, sc := range scenarios {
			sc.Battle.Verbose = true
		}
	}

	var store *game.BattleStore
	if *saveFlag {
		store, err = game.OpenBattleStore(*appFlag)
		if err != nil {
			log.Printf("Warning: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	reports := make([]game.ScenarioReport, len(scenarios))
	g, ctx := errgroup.WithContext(ctx)
	for i, sc := range scenarios {
		i, sc := i, sc
		g.Go(func() error {
			run, err := game.NewScenarioRun(sc, registry)
			if err != nil {
				return err
			}
			for !run.Done() {
				if err := ctx.Err(); err != nil {
					return err
				}
				res, err := run.Step()
				if err != nil {
					return fmt.Errorf("scenario %s: %w", sc.Name, err)
				}
				if *verbose {
					log.Printf("[%s] tick %d: 生成 %d, 攻击 %d, 清除 %d, 阳光 +%d, cost %d",
						sc.Name, res.Tick, res.Spawned, len(res.Attacks), len(res.Swept), res.SunGained, res.Cost)
				}
			}
			reports[i] = run.Report()

			if store != nil {
				if _, err := store.Save(run.Battle()); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatalf("运行失败: %v", err)
	}

	for _, r := range reports {
		printReport(r, store)
	}
}

func printReport(r game.ScenarioReport, store *game.BattleStore) {
	fmt.Printf("=== %s ===\n", r.Name)
	fmt.Printf("  battle:  %s\n", r.BattleID)
	fmt.Printf("  ticks:   %d\n", r.Ticks)
	if r.Outcome != nil {
		fmt.Printf("  result:  BattleEnded(%d, %d) 胜方 %s\n", r.Outcome.Winner, r.Outcome.Detail, r.Outcome.Winner)
	} else {
		fmt.Printf("  result:  未结束\n")
	}
	fmt.Printf("  sun:     %d\n", r.Sun)
	fmt.Printf("  digest:  %s\n", r.Digest)
	for _, rej := range r.Rejected {
		fmt.Printf("  rejected #%d (%s @%d): %v\n", rej.Index, rej.Action.Op, rej.Action.AtTick, rej.Err)
	}
	if store != nil && store.Available() {
		fmt.Printf("  saved:   %v\n", store.Exists(r.BattleID))
	}
}

func isFlagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
