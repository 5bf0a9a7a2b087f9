package systems

import (
	"log"

	"github.com/decker502/pvzsim/pkg/types"
)

// BattleOutcome 战斗结束结果
type BattleOutcome struct {
	Winner types.Side
	// Detail 僵尸胜利时为进入房子的僵尸所在行；
	// 植物胜利时为最近一只被消灭的僵尸所在行
	Detail int
	Tick   int
}

// PhaseInput 每个 tick 末尾用于判定胜负的数据
type PhaseInput struct {
	Tick             int
	CrossedRows      []int // 本 tick 进入房子的僵尸所在行（按实体 ID 升序）
	ZombiesRemaining int   // 清扫和移除之后场上剩余的僵尸
	TotalSpawned     int   // 战斗开始以来生成的僵尸总数
	PendingSpawns    int   // 尚未生成的预约僵尸
	LastKilledRow    int   // 战斗中最近一只被消灭的僵尸所在行，-1 表示尚无
}

// BattlePhaseSystem 战斗阶段状态机
//
// NotStarted → Active（Start）→ Ended（Evaluate 判定胜负）
// 僵尸胜利优先于植物胜利判定。
type BattlePhaseSystem struct {
	phase   types.BattlePhase
	outcome *BattleOutcome
}

// NewBattlePhaseSystem 创建处于 NotStarted 阶段的状态机
func NewBattlePhaseSystem() *BattlePhaseSystem {
	return &BattlePhaseSystem{phase: types.PhaseNotStarted}
}

// Phase 返回当前阶段
func (s *BattlePhaseSystem) Phase() types.BattlePhase {
	return s.phase
}

// Outcome 返回战斗结果（未结束时为 nil）
func (s *BattlePhaseSystem) Outcome() *BattleOutcome {
	return s.outcome
}

// Start NotStarted → Active；当前不是 NotStarted 时返回 false
func (s *BattlePhaseSystem) Start() bool {
	if s.phase != types.PhaseNotStarted {
		return false
	}
	s.phase = types.PhaseActive
	return true
}

// Restore 直接设置阶段和结果（用于从快照恢复）
func (s *BattlePhaseSystem) Restore(phase types.BattlePhase, outcome *BattleOutcome) {
	s.phase = phase
	s.outcome = outcome
}

// Evaluate 判定本 tick 是否结束战斗
// 返回: 首次判定结束时返回结果和 true；其余情况返回 false
func (s *BattlePhaseSystem) Evaluate(in PhaseInput) (BattleOutcome, bool) {
	if s.phase != types.PhaseActive {
		return BattleOutcome{}, false
	}

	var outcome BattleOutcome
	switch {
	case len(in.CrossedRows) > 0:
		outcome = BattleOutcome{Winner: types.SideZombies, Detail: in.CrossedRows[0], Tick: in.Tick}
	case in.ZombiesRemaining == 0 && in.TotalSpawned > 0 && in.PendingSpawns == 0:
		outcome = BattleOutcome{Winner: types.SidePlants, Detail: in.LastKilledRow, Tick: in.Tick}
	default:
		return BattleOutcome{}, false
	}

	s.phase = types.PhaseEnded
	s.outcome = &outcome
	log.Printf("[BattlePhaseSystem] 战斗结束: tick=%d, 胜利方=%s, detail=%d", outcome.Tick, outcome.Winner, outcome.Detail)
	return outcome, true
}
