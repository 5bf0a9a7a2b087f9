package game

import (
	"encoding/hex"
	"fmt"
	"log"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
	"gopkg.in/yaml.v3"

	"github.com/decker502/pvzsim/pkg/components"
	"github.com/decker502/pvzsim/pkg/config"
	"github.com/decker502/pvzsim/pkg/ecs"
	"github.com/decker502/pvzsim/pkg/entities"
	"github.com/decker502/pvzsim/pkg/systems"
	"github.com/decker502/pvzsim/pkg/types"
)

// SnapshotVersion 快照格式版本
const SnapshotVersion = 1

// PlantState 快照中的植物
type PlantState struct {
	Kind         types.PlantID `yaml:"kind"`
	Row          int           `yaml:"row"`
	Col          int           `yaml:"col"`
	HP           int           `yaml:"hp"`
	Cooldown     int           `yaml:"cooldown"`
	SunCountdown int           `yaml:"sunCountdown,omitempty"`
}

// ZombieState 快照中的僵尸
type ZombieState struct {
	Kind     types.ZombieID `yaml:"kind"`
	Row      int            `yaml:"row"`
	Progress int            `yaml:"progress"`
	HP       int            `yaml:"hp"`
	Cooldown int            `yaml:"cooldown"`
	Blocked  bool           `yaml:"blocked,omitempty"`
}

// SpawnState 快照中尚未生成的预约僵尸
type SpawnState struct {
	AtTick int            `yaml:"atTick"`
	Row    int            `yaml:"row"`
	Kind   types.ZombieID `yaml:"kind"`
}

// BattleState 战斗的完整逻辑状态
//
// 不包含实体ID、战斗ID和所有者：两场独立运行的相同战斗得到相同的状态。
// Zombies 按生成顺序排列（跨行），恢复时按此顺序重新创建。
type BattleState struct {
	Config        config.BattleConfig `yaml:"config"`
	Phase         types.BattlePhase   `yaml:"phase"`
	Tick          int                 `yaml:"tick"`
	Sun           int                 `yaml:"sun"`
	TotalSpawned  int                 `yaml:"totalSpawned"`
	ZombiesKilled int                 `yaml:"zombiesKilled"`
	LastKilledRow int                 `yaml:"lastKilledRow"`
	Outcome       *BattleEndedEvent   `yaml:"outcome,omitempty"`
	Plants        []PlantState        `yaml:"plants"`
	Zombies       []ZombieState       `yaml:"zombies"`
	Pending       []SpawnState        `yaml:"pending,omitempty"`
}

// BattleSnapshot 战斗快照（可持久化）
type BattleSnapshot struct {
	Version int         `yaml:"version"`
	ID      string      `yaml:"id"`
	Owner   string      `yaml:"owner"`
	State   BattleState `yaml:"state"`
}

// Snapshot 导出战斗快照
func (b *Battle) Snapshot() *BattleSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return &BattleSnapshot{
		Version: SnapshotVersion,
		ID:      b.id,
		Owner:   b.owner,
		State:   b.stateLocked(),
	}
}

func (b *Battle) stateLocked() BattleState {
	state := BattleState{
		Config:        b.cfg,
		Phase:         b.phase.Phase(),
		Tick:          b.tick,
		Sun:           b.sun,
		TotalSpawned:  b.totalSpawned,
		ZombiesKilled: b.zombiesKilled,
		LastKilledRow: b.lastKilledRow,
		Plants:        make([]PlantState, 0),
		Zombies:       make([]ZombieState, 0),
	}
	if outcome := b.phase.Outcome(); outcome != nil {
		state.Outcome = &BattleEndedEvent{Winner: outcome.Winner, Detail: outcome.Detail, Tick: outcome.Tick}
	}

	grid := b.lawnGrid.Grid()
	for row := 0; row < grid.Rows; row++ {
		for col := 0; col < grid.Cols; col++ {
			id := grid.Occupancy[row][col]
			if id == 0 {
				continue
			}
			info := b.plantInfo(id)
			ps := PlantState{Kind: info.Kind, Row: row, Col: col, HP: info.HP, Cooldown: info.AttackCooldown}
			if producer, ok := ecs.GetComponent[*components.SunProducerComponent](b.entityManager, id); ok {
				ps.SunCountdown = producer.Countdown
			}
			state.Plants = append(state.Plants, ps)
		}
	}

	for _, id := range ecs.GetEntitiesWith1[*components.ZombieComponent](b.entityManager) {
		zombie, _ := ecs.GetComponent[*components.ZombieComponent](b.entityManager, id)
		health, _ := ecs.GetComponent[*components.HealthComponent](b.entityManager, id)
		attack, _ := ecs.GetComponent[*components.AttackComponent](b.entityManager, id)
		state.Zombies = append(state.Zombies, ZombieState{
			Kind:     zombie.Kind,
			Row:      zombie.Lane,
			Progress: zombie.Progress,
			HP:       health.CurrentHealth,
			Cooldown: attack.Cooldown,
			Blocked:  zombie.Blocked,
		})
	}

	for _, p := range b.pending {
		state.Pending = append(state.Pending, SpawnState{AtTick: p.AtTick, Row: p.Row, Kind: p.Kind})
	}
	return state
}

// Digest 返回战斗逻辑状态的 blake2b-256 摘要（十六进制）
// 相同的操作序列总是得到相同的摘要
func (b *Battle) Digest() string {
	b.mu.Lock()
	state := b.stateLocked()
	b.mu.Unlock()
	return StateDigest(state)
}

// StateDigest 计算状态摘要（日志开关 Verbose 不参与摘要）
func StateDigest(state BattleState) string {
	state.Config.Verbose = false
	data, err := yaml.Marshal(state)
	if err != nil {
		// 状态只包含基本类型，编码不会失败
		log.Printf("[Battle] Warning: failed to encode state: %v", err)
		return ""
	}
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// EncodeSnapshot 把快照编码为 YAML
func EncodeSnapshot(snap *BattleSnapshot) ([]byte, error) {
	data, err := yaml.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot 解析 YAML 快照
func DecodeSnapshot(data []byte) (*BattleSnapshot, error) {
	var snap BattleSnapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	if snap.Version != SnapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d (expected %d)", snap.Version, SnapshotVersion)
	}
	return &snap, nil
}

// RestoreBattle 从快照恢复战斗
//
// 植物和僵尸使用注册表中的类型属性，生命值、冷却和位置来自快照。
// 快照中的任何不一致（未知类型、越界、重复格子、行道超限）都会导致恢复失败。
func RestoreBattle(snap *BattleSnapshot, registry *config.Registry) (*Battle, error) {
	if snap == nil {
		return nil, fmt.Errorf("snapshot is nil")
	}
	if registry == nil {
		return nil, fmt.Errorf("registry is nil")
	}
	state := snap.State
	if err := state.Config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid battle config: %w", err)
	}
	if state.Sun < 0 || state.Tick < 0 {
		return nil, fmt.Errorf("%w: sun=%d, tick=%d", ErrInvalidSnapshot, state.Sun, state.Tick)
	}
	if err := validatePhase(state); err != nil {
		return nil, err
	}

	id := snap.ID
	if id == "" {
		id = uuid.NewString()
	}
	b := newBattle(id, snap.Owner, state.Config, registry)
	b.tick = state.Tick
	b.sun = state.Sun
	b.totalSpawned = state.TotalSpawned
	b.zombiesKilled = state.ZombiesKilled
	b.lastKilledRow = state.LastKilledRow

	for i, ps := range state.Plants {
		stats, ok := registry.Plant(ps.Kind)
		if !ok {
			return nil, fmt.Errorf("plant %d: %w: %d", i, ErrUnknownPlant, ps.Kind)
		}
		if !b.lawnGrid.IsValidCell(ps.Row, ps.Col) {
			return nil, fmt.Errorf("plant %d: %w: (%d, %d)", i, ErrInvalidPosition, ps.Row, ps.Col)
		}
		entityID := entities.NewPlantEntity(b.entityManager, ps.Kind, stats, ps.Row, ps.Col)
		if err := b.lawnGrid.OccupyCell(ps.Row, ps.Col, entityID); err != nil {
			return nil, fmt.Errorf("plant %d: %w: %v", i, ErrCellOccupied, err)
		}
		health, _ := ecs.GetComponent[*components.HealthComponent](b.entityManager, entityID)
		health.CurrentHealth = ps.HP
		attack, _ := ecs.GetComponent[*components.AttackComponent](b.entityManager, entityID)
		attack.Cooldown = ps.Cooldown
		if producer, ok := ecs.GetComponent[*components.SunProducerComponent](b.entityManager, entityID); ok {
			producer.Countdown = ps.SunCountdown
		}
	}

	for i, zs := range state.Zombies {
		stats, ok := registry.Zombie(zs.Kind)
		if !ok {
			return nil, fmt.Errorf("zombie %d: %w: %d", i, ErrUnknownZombie, zs.Kind)
		}
		if !b.lawnGrid.IsValidRow(zs.Row) || zs.Progress < 0 || zs.Progress >= state.Config.Cols {
			return nil, fmt.Errorf("zombie %d: %w: row %d, progress %d", i, ErrInvalidPosition, zs.Row, zs.Progress)
		}
		entityID := entities.NewZombieEntity(b.entityManager, zs.Kind, stats, zs.Row, zs.Progress)
		if err := b.lawnGrid.AppendZombie(zs.Row, entityID); err != nil {
			return nil, fmt.Errorf("zombie %d: %w: %v", i, ErrLaneFull, err)
		}
		zombie, _ := ecs.GetComponent[*components.ZombieComponent](b.entityManager, entityID)
		zombie.Blocked = zs.Blocked
		health, _ := ecs.GetComponent[*components.HealthComponent](b.entityManager, entityID)
		health.CurrentHealth = zs.HP
		attack, _ := ecs.GetComponent[*components.AttackComponent](b.entityManager, entityID)
		attack.Cooldown = zs.Cooldown
	}

	for i, p := range state.Pending {
		if _, ok := registry.Zombie(p.Kind); !ok {
			return nil, fmt.Errorf("pending spawn %d: %w: %d", i, ErrUnknownZombie, p.Kind)
		}
		if !b.lawnGrid.IsValidRow(p.Row) {
			return nil, fmt.Errorf("pending spawn %d: %w: row %d", i, ErrInvalidPosition, p.Row)
		}
		b.pending = append(b.pending, scheduledSpawn{AtTick: p.AtTick, Row: p.Row, Kind: p.Kind})
	}

	var outcome *systems.BattleOutcome
	if state.Outcome != nil {
		outcome = &systems.BattleOutcome{Winner: state.Outcome.Winner, Detail: state.Outcome.Detail, Tick: state.Outcome.Tick}
	}
	b.phase.Restore(state.Phase, outcome)

	log.Printf("[Battle] 从快照恢复战斗: id=%s, owner=%s, tick=%d, phase=%s, 植物 %d, 僵尸 %d",
		b.id, b.owner, b.tick, state.Phase, len(state.Plants), len(state.Zombies))
	return b, nil
}

// validatePhase 阶段必须合法，且只有 Ended 阶段带有结果
func validatePhase(state BattleState) error {
	switch state.Phase {
	case types.PhaseNotStarted, types.PhaseActive:
		if state.Outcome != nil {
			return fmt.Errorf("%w: phase %s has an outcome", ErrInvalidSnapshot, state.Phase)
		}
	case types.PhaseEnded:
		if state.Outcome == nil {
			return fmt.Errorf("%w: ended battle without outcome", ErrInvalidSnapshot)
		}
		if state.Outcome.Winner != types.SideZombies && state.Outcome.Winner != types.SidePlants {
			return fmt.Errorf("%w: unknown winner %d", ErrInvalidSnapshot, state.Outcome.Winner)
		}
	default:
		return fmt.Errorf("%w: unknown phase %d", ErrInvalidSnapshot, int(state.Phase))
	}
	return nil
}
