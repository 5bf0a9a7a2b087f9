package game

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/decker502/pvzsim/pkg/config"
	"github.com/decker502/pvzsim/pkg/types"
)

// RejectedAction 执行失败的场景动作
type RejectedAction struct {
	Index  int
	Action config.ScenarioAction
	Err    error
}

// ScenarioReport 场景运行结果
type ScenarioReport struct {
	Name     string
	BattleID string
	Ticks    int
	Outcome  *BattleEndedEvent // 达到 maxTicks 仍未结束时为 nil
	Sun      int
	Digest   string
	Rejected []RejectedAction
}

// ScenarioRun 逐 tick 执行场景（供 CLI 和可视化工具使用）
type ScenarioRun struct {
	scenario *config.Scenario
	battle   *Battle
	order    []int // 按 AtTick 稳定排序的动作下标
	next     int   // order 中下一个待执行的位置
	rejected []RejectedAction
}

// NewScenarioRun 创建战斗、开始战斗并预约全部波次
func NewScenarioRun(sc *config.Scenario, registry *config.Registry) (*ScenarioRun, error) {
	b, err := NewBattle(sc.Owner, sc.Battle, registry)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}
	if err := b.Start(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}
	for i, w := range sc.Waves {
		if err := b.ScheduleSpawn(w.AtTick, w.Row, types.ZombieID(w.ID)); err != nil {
			return nil, fmt.Errorf("scenario %s: wave %d: %w", sc.Name, i, err)
		}
	}
	order := make([]int, len(sc.Actions))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return sc.Actions[order[i]].AtTick < sc.Actions[order[j]].AtTick
	})
	return &ScenarioRun{scenario: sc, battle: b, order: order}, nil
}

// Battle 返回正在运行的战斗
func (r *ScenarioRun) Battle() *Battle {
	return r.battle
}

// Scenario 返回场景
func (r *ScenarioRun) Scenario() *config.Scenario {
	return r.scenario
}

// Done 战斗已结束或达到 maxTicks
func (r *ScenarioRun) Done() bool {
	info := r.battle.Info()
	return info.Phase == types.PhaseEnded || info.TickCount >= r.scenario.MaxTicks
}

// Rejected 返回执行失败的动作
func (r *ScenarioRun) Rejected() []RejectedAction {
	return r.rejected
}

// applyActions 执行所有 AtTick 不大于当前 tick 数的未执行动作
func (r *ScenarioRun) applyActions() {
	tick := r.battle.Info().TickCount
	for r.next < len(r.order) && r.scenario.Actions[r.order[r.next]].AtTick <= tick {
		idx := r.order[r.next]
		a := r.scenario.Actions[idx]
		var err error
		switch a.Op {
		case config.ActionPlace:
			err = r.battle.PlacePlant(a.Row, a.Col, types.PlantID(a.ID))
		case config.ActionSpawn:
			err = r.battle.SpawnZombie(a.Row, types.ZombieID(a.ID))
		case config.ActionRemove:
			err = r.battle.RemovePlant(a.Row, a.Col)
		default:
			err = fmt.Errorf("unknown op %q", a.Op)
		}
		if err != nil {
			log.Printf("[ScenarioRun] %s: 动作 %d (%s) 被拒绝: %v", r.scenario.Name, idx, a.Op, err)
			r.rejected = append(r.rejected, RejectedAction{Index: idx, Action: a, Err: err})
		}
		r.next++
	}
}

// Step 执行当前 tick 的动作后推进一个 tick
func (r *ScenarioRun) Step() (TickResult, error) {
	if r.Done() {
		return TickResult{}, ErrBattleAlreadyEnded
	}
	r.applyActions()
	return r.battle.Tick()
}

// Report 返回当前的运行结果
func (r *ScenarioRun) Report() ScenarioReport {
	info := r.battle.Info()
	return ScenarioReport{
		Name:     r.scenario.Name,
		BattleID: info.ID,
		Ticks:    info.TickCount,
		Outcome:  info.Outcome,
		Sun:      info.SunBalance,
		Digest:   r.battle.Digest(),
		Rejected: r.rejected,
	}
}

// RunScenario 运行场景直到战斗结束或达到 maxTicks
func RunScenario(ctx context.Context, sc *config.Scenario, registry *config.Registry) (ScenarioReport, error) {
	run, err := NewScenarioRun(sc, registry)
	if err != nil {
		return ScenarioReport{}, err
	}
	for !run.Done() {
		if err := ctx.Err(); err != nil {
			return run.Report(), err
		}
		if _, err := run.Step(); err != nil {
			return run.Report(), fmt.Errorf("scenario %s: %w", sc.Name, err)
		}
	}

	report := run.Report()
	if report.Outcome != nil {
		log.Printf("[ScenarioRun] %s: BattleEnded(%d, %d) tick=%d", sc.Name, report.Outcome.Winner, report.Outcome.Detail, report.Ticks)
	} else {
		log.Printf("[ScenarioRun] %s: 达到 maxTicks=%d 仍未结束", sc.Name, sc.MaxTicks)
	}
	return report, nil
}
