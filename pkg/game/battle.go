package game

import (
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/decker502/pvzsim/pkg/components"
	"github.com/decker502/pvzsim/pkg/config"
	"github.com/decker502/pvzsim/pkg/ecs"
	"github.com/decker502/pvzsim/pkg/entities"
	"github.com/decker502/pvzsim/pkg/systems"
	"github.com/decker502/pvzsim/pkg/types"
)

// PlantInfo 植物查询结果
type PlantInfo struct {
	Kind           types.PlantID
	HP             int
	MaxHP          int
	AttackCooldown int
	Row            int
	Col            int
}

// ZombieInfo 僵尸查询结果
type ZombieInfo struct {
	Kind           types.ZombieID
	HP             int
	MaxHP          int
	AttackCooldown int
	Row            int
	LaneProgress   int
	Index          int // 在行道中的位置（按生成顺序）
	Blocked        bool
}

// BattleInfo 战斗概况（battles 查询）
type BattleInfo struct {
	ID             string
	Owner          string
	SunBalance     int
	Phase          types.BattlePhase
	TickCount      int
	ZombiesSpawned int
	ZombiesKilled  int
	PendingSpawns  int
	Outcome        *BattleEndedEvent
}

// TickResult 一个 tick 的执行结果
type TickResult struct {
	Tick        int
	Spawned     int                   // 本 tick 开始时生成的预约僵尸
	Attacks     []systems.AttackEvent // 本 tick 的全部攻击
	Swept       []SweptUnit           // 清扫阶段移除的单位
	CrossedRows []int                 // 进入房子的僵尸所在行
	SunGained   int
	Cost        int
	// Ended 仅在判定战斗结束的那个 tick 非 nil
	Ended *BattleEndedEvent
}

// SweptUnit 清扫阶段移除的单位
type SweptUnit struct {
	Plant  bool
	Row    int
	Col    int // 植物所在列 / 僵尸行道进度
	Kind   int // 植物或僵尸类型ID
	Damage int // 本 tick 受到的伤害（生命值可能为负）
}

// scheduledSpawn 预约生成的僵尸
type scheduledSpawn struct {
	AtTick int
	Row    int
	Kind   types.ZombieID
}

// Battle 一场战斗
//
// 每场战斗拥有自己的 EntityManager 和系统实例，所有公开方法都在
// 战斗锁内执行，对同一场战斗的调用相互串行。
//
// Tick 执行顺序：
//  1. 预约僵尸生成
//  2. CombatSystem（决策、冷却、结算）+ SweepSystem
//  3. MovementSystem
//  4. 进入房子的僵尸移除，BattlePhaseSystem 判定胜负
//  5. EconomySystem（包括结束战斗的 tick）
type Battle struct {
	mu sync.Mutex

	id       string
	owner    string
	cfg      config.BattleConfig
	registry *config.Registry

	entityManager *ecs.EntityManager
	lawnGrid      *systems.LawnGridSystem
	combat        *systems.CombatSystem
	sweep         *systems.SweepSystem
	movement      *systems.MovementSystem
	economy       *systems.EconomySystem
	phase         *systems.BattlePhaseSystem

	sun           int
	tick          int
	totalSpawned  int
	zombiesKilled int
	lastKilledRow int
	pending       []scheduledSpawn

	listeners []Listener
}

// NewBattle 创建一场尚未开始的战斗
//
// 参数：
//   - owner: 战斗所有者地址
//   - cfg: 战斗配置（草坪规格、阳光、容量、预算）
//   - registry: 单位类型注册表（只读，可在多场战斗之间共享）
func NewBattle(owner string, cfg config.BattleConfig, registry *config.Registry) (*Battle, error) {
	if registry == nil {
		return nil, fmt.Errorf("registry is nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid battle config: %w", err)
	}
	return newBattle(uuid.NewString(), owner, cfg, registry), nil
}

func newBattle(id, owner string, cfg config.BattleConfig, registry *config.Registry) *Battle {
	em := ecs.NewEntityManager()
	lawnGrid := systems.NewLawnGridSystem(em, cfg.Rows, cfg.Cols, cfg.LaneCapacity)
	return &Battle{
		id:            id,
		owner:         owner,
		cfg:           cfg,
		registry:      registry,
		entityManager: em,
		lawnGrid:      lawnGrid,
		combat:        systems.NewCombatSystem(em, lawnGrid, cfg.Verbose),
		sweep:         systems.NewSweepSystem(em, lawnGrid, cfg.Verbose),
		movement:      systems.NewMovementSystem(em, lawnGrid, cfg.Verbose),
		economy:       systems.NewEconomySystem(em, cfg.PassiveSunAmount, cfg.PassiveSunInterval, cfg.Verbose),
		phase:         systems.NewBattlePhaseSystem(),
		sun:           cfg.InitialSun,
		lastKilledRow: -1,
	}
}

// ID 返回战斗ID（UUID）
func (b *Battle) ID() string {
	return b.id
}

// Owner 返回战斗所有者
func (b *Battle) Owner() string {
	return b.owner
}

// Config 返回战斗配置
func (b *Battle) Config() config.BattleConfig {
	return b.cfg
}

// Subscribe 注册事件监听器
func (b *Battle) Subscribe(l Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, l)
}

// dispatch 在战斗锁释放后调用监听器
func (b *Battle) dispatch(listeners []Listener, events []Event) {
	for _, ev := range events {
		for _, l := range listeners {
			l(ev)
		}
	}
}

// Start 开始战斗：NotStarted → Active
func (b *Battle) Start() error {
	if !b.registry.Initialized() {
		return ErrTypesNotInitialized
	}

	b.mu.Lock()
	if !b.phase.Start() {
		phase := b.phase.Phase()
		b.mu.Unlock()
		return fmt.Errorf("%w: phase is %s", ErrBattleAlreadyStarted, phase)
	}
	listeners := b.listeners
	b.mu.Unlock()

	log.Printf("[Battle] 战斗开始: id=%s, owner=%s, 草坪 %dx%d, 初始阳光 %d",
		b.id, b.owner, b.cfg.Rows, b.cfg.Cols, b.cfg.InitialSun)
	b.dispatch(listeners, []Event{{Kind: EventBattleStarted}})
	return nil
}

// requireActive 检查当前阶段是否允许外部操作（调用方持有锁）
func (b *Battle) requireActive() error {
	if phase := b.phase.Phase(); phase != types.PhaseActive {
		return fmt.Errorf("%w: phase is %s", ErrBattleNotActive, phase)
	}
	return nil
}

// PlacePlant 在 (row, col) 种植 kind 类型的植物
//
// 格子检查、扣除阳光和创建植物在同一个临界区内完成；
// 任何错误都不会修改战斗状态。
func (b *Battle) PlacePlant(row, col int, kind types.PlantID) error {
	b.mu.Lock()
	if err := b.requireActive(); err != nil {
		b.mu.Unlock()
		return err
	}
	if !b.lawnGrid.IsValidCell(row, col) {
		b.mu.Unlock()
		return fmt.Errorf("%w: (%d, %d)", ErrInvalidPosition, row, col)
	}
	stats, ok := b.registry.Plant(kind)
	if !ok {
		b.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrUnknownPlant, kind)
	}
	if b.lawnGrid.IsOccupied(row, col) {
		b.mu.Unlock()
		return fmt.Errorf("%w: (%d, %d)", ErrCellOccupied, row, col)
	}
	if b.sun < stats.Cost {
		sun := b.sun
		b.mu.Unlock()
		return fmt.Errorf("%w: need %d, have %d", ErrInsufficientFunds, stats.Cost, sun)
	}

	entityID := entities.NewPlantEntity(b.entityManager, kind, stats, row, col)
	if err := b.lawnGrid.OccupyCell(row, col, entityID); err != nil {
		// 上面已检查过格子，这里不会失败
		b.entityManager.DestroyEntity(entityID)
		b.entityManager.RemoveMarkedEntities()
		b.mu.Unlock()
		return fmt.Errorf("%w: %v", ErrCellOccupied, err)
	}
	b.sun -= stats.Cost
	tick := b.tick
	listeners := b.listeners
	if b.cfg.Verbose {
		log.Printf("[Battle] 种植 %s (%d, %d)，花费 %d，剩余阳光 %d", kind, row, col, stats.Cost, b.sun)
	}
	b.mu.Unlock()

	b.dispatch(listeners, []Event{{Kind: EventPlantPlaced, Tick: tick, Row: row, Col: col, Plant: kind}})
	return nil
}

// RemovePlant 铲除 (row, col) 上的植物（不返还阳光）
func (b *Battle) RemovePlant(row, col int) error {
	b.mu.Lock()
	if err := b.requireActive(); err != nil {
		b.mu.Unlock()
		return err
	}
	if !b.lawnGrid.IsValidCell(row, col) {
		b.mu.Unlock()
		return fmt.Errorf("%w: (%d, %d)", ErrInvalidPosition, row, col)
	}
	entityID, ok := b.lawnGrid.PlantAt(row, col)
	if !ok {
		b.mu.Unlock()
		return fmt.Errorf("%w: no plant at (%d, %d)", ErrNotFound, row, col)
	}
	plant, _ := ecs.GetComponent[*components.PlantComponent](b.entityManager, entityID)
	kind := plant.Kind

	b.lawnGrid.ReleaseCell(row, col)
	b.entityManager.DestroyEntity(entityID)
	b.entityManager.RemoveMarkedEntities()
	tick := b.tick
	listeners := b.listeners
	b.mu.Unlock()

	b.dispatch(listeners, []Event{{Kind: EventPlantRemoved, Tick: tick, Row: row, Col: col, Plant: kind}})
	return nil
}

// SpawnZombie 在 row 行的最右侧生成 kind 类型的僵尸
func (b *Battle) SpawnZombie(row int, kind types.ZombieID) error {
	b.mu.Lock()
	if err := b.requireActive(); err != nil {
		b.mu.Unlock()
		return err
	}
	if !b.lawnGrid.IsValidRow(row) {
		b.mu.Unlock()
		return fmt.Errorf("%w: row %d", ErrInvalidPosition, row)
	}
	stats, ok := b.registry.Zombie(kind)
	if !ok {
		b.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrUnknownZombie, kind)
	}
	if b.lawnGrid.LaneFull(row) {
		b.mu.Unlock()
		return fmt.Errorf("%w: row %d holds %d zombies", ErrLaneFull, row, b.cfg.LaneCapacity)
	}

	b.spawnLocked(row, kind, stats)
	tick := b.tick
	listeners := b.listeners
	b.mu.Unlock()

	b.dispatch(listeners, []Event{{Kind: EventZombieSpawned, Tick: tick, Row: row, Col: b.cfg.Cols - 1, Zombie: kind}})
	return nil
}

// spawnLocked 创建僵尸并追加到行道末尾（调用方已检查行和容量）
func (b *Battle) spawnLocked(row int, kind types.ZombieID, stats config.ZombieStats) {
	entityID := entities.NewZombieEntity(b.entityManager, kind, stats, row, b.cfg.Cols-1)
	if err := b.lawnGrid.AppendZombie(row, entityID); err != nil {
		log.Printf("[Battle] Warning: 追加僵尸失败: %v", err)
		b.entityManager.DestroyEntity(entityID)
		b.entityManager.RemoveMarkedEntities()
		return
	}
	b.totalSpawned++
	if b.cfg.Verbose {
		log.Printf("[Battle] 生成 %s row %d (实体 %d)", kind, row, entityID)
	}
}

// ScheduleSpawn 预约在编号为 atTick 的 tick 开始时生成僵尸（波次）
//
// 预约尚未生成时植物不能获胜。生成时该行已满则顺延到下一个 tick。
func (b *Battle) ScheduleSpawn(atTick, row int, kind types.ZombieID) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.requireActive(); err != nil {
		return err
	}
	if atTick <= b.tick {
		return fmt.Errorf("%w: tick %d is not after current tick %d", ErrInvalidSchedule, atTick, b.tick)
	}
	if !b.lawnGrid.IsValidRow(row) {
		return fmt.Errorf("%w: row %d", ErrInvalidPosition, row)
	}
	if _, ok := b.registry.Zombie(kind); !ok {
		return fmt.Errorf("%w: %d", ErrUnknownZombie, kind)
	}

	b.pending = append(b.pending, scheduledSpawn{AtTick: atTick, Row: row, Kind: kind})
	sort.SliceStable(b.pending, func(i, j int) bool {
		return b.pending[i].AtTick < b.pending[j].AtTick
	})
	return nil
}

// dueSpawns 返回下一个 tick 开始时实际会生成的预约（pending 中的下标）
// 以及每行的生成数量
func (b *Battle) dueSpawns(nextTick int) ([]int, []int) {
	due := make([]int, 0)
	dueByRow := make([]int, b.cfg.Rows)
	for i, p := range b.pending {
		if p.AtTick > nextTick {
			break
		}
		if b.lawnGrid.LaneLen(p.Row)+dueByRow[p.Row] >= b.cfg.LaneCapacity {
			continue
		}
		due = append(due, i)
		dueByRow[p.Row]++
	}
	return due, dueByRow
}

// EstimateTickCost 估算下一个 tick 的计算量
func (b *Battle) EstimateTickCost() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, dueByRow := b.dueSpawns(b.tick + 1)
	return systems.EstimateTickCost(b.lawnGrid.Grid(), dueByRow)
}

// Tick 使用配置的预算推进一个 tick
func (b *Battle) Tick() (TickResult, error) {
	return b.TickWithBudget(b.cfg.TickBudget)
}

// TickWithBudget 使用指定的计算预算推进一个 tick
//
// 阶段检查和预算检查在任何修改之前完成；返回错误时战斗状态不变。
// 返回的 TickResult.Ended 只在判定战斗结束的 tick 非 nil。
func (b *Battle) TickWithBudget(budget int) (TickResult, error) {
	b.mu.Lock()

	switch b.phase.Phase() {
	case types.PhaseNotStarted:
		b.mu.Unlock()
		return TickResult{}, fmt.Errorf("%w: phase is %s", ErrBattleNotActive, types.PhaseNotStarted)
	case types.PhaseEnded:
		b.mu.Unlock()
		return TickResult{}, ErrBattleAlreadyEnded
	case types.PhaseActive:
	default:
		phase := b.phase.Phase()
		b.mu.Unlock()
		return TickResult{}, fmt.Errorf("%w: phase is %s", ErrBattleNotActive, phase)
	}

	due, dueByRow := b.dueSpawns(b.tick + 1)
	cost := systems.EstimateTickCost(b.lawnGrid.Grid(), dueByRow)
	if cost > budget {
		b.mu.Unlock()
		return TickResult{}, fmt.Errorf("%w: cost %d > budget %d", ErrComputationBudgetExceeded, cost, budget)
	}

	// 以下不再有失败路径
	b.tick++
	result := TickResult{Tick: b.tick, Cost: cost}
	events := make([]Event, 0)

	// 1. 预约生成
	if len(due) > 0 {
		remaining := make([]scheduledSpawn, 0, len(b.pending)-len(due))
		next := 0
		for i, p := range b.pending {
			if next < len(due) && due[next] == i {
				next++
				stats, _ := b.registry.Zombie(p.Kind)
				b.spawnLocked(p.Row, p.Kind, stats)
				events = append(events, Event{Kind: EventZombieSpawned, Tick: b.tick, Row: p.Row, Col: b.cfg.Cols - 1, Zombie: p.Kind})
				continue
			}
			remaining = append(remaining, p)
		}
		b.pending = remaining
		result.Spawned = len(due)
	}

	// 2. 战斗 + 清扫
	result.Attacks = b.combat.Update()
	damageTaken := make(map[ecs.EntityID]int)
	for _, a := range result.Attacks {
		damageTaken[a.Target] += a.Damage
	}
	kinds := b.kindsOf(damageTaken)
	swept := b.sweep.Update()
	result.Swept = make([]SweptUnit, 0, len(swept))
	for _, s := range swept {
		unit := SweptUnit{Plant: s.Plant, Row: s.Row, Col: s.Col, Kind: kinds[s.Entity], Damage: damageTaken[s.Entity]}
		result.Swept = append(result.Swept, unit)
		if s.Plant {
			events = append(events, Event{Kind: EventPlantDied, Tick: b.tick, Row: s.Row, Col: s.Col, Plant: types.PlantID(unit.Kind)})
			continue
		}
		b.zombiesKilled++
		b.lastKilledRow = s.Row
		events = append(events, Event{Kind: EventZombieDied, Tick: b.tick, Row: s.Row, Col: s.Col, Zombie: types.ZombieID(unit.Kind)})
	}

	// 3. 移动
	// 实体 ID 按生成顺序递增，crossed 已按生成顺序排列
	for _, id := range b.movement.Update() {
		zombie, _ := ecs.GetComponent[*components.ZombieComponent](b.entityManager, id)
		result.CrossedRows = append(result.CrossedRows, zombie.Lane)
		events = append(events, Event{Kind: EventZombieEnteredHouse, Tick: b.tick, Row: zombie.Lane, Col: zombie.Progress, Zombie: zombie.Kind})
		b.lawnGrid.RemoveZombie(zombie.Lane, id)
		b.entityManager.DestroyEntity(id)
	}
	b.entityManager.RemoveMarkedEntities()

	// 4. 胜负判定
	if outcome, ended := b.phase.Evaluate(systems.PhaseInput{
		Tick:             b.tick,
		CrossedRows:      result.CrossedRows,
		ZombiesRemaining: b.lawnGrid.ZombieCount(),
		TotalSpawned:     b.totalSpawned,
		PendingSpawns:    len(b.pending),
		LastKilledRow:    b.lastKilledRow,
	}); ended {
		result.Ended = &BattleEndedEvent{Winner: outcome.Winner, Detail: outcome.Detail, Tick: outcome.Tick}
	}

	// 5. 阳光收入
	result.SunGained = b.economy.Update(b.tick)
	b.creditSun(result.SunGained)

	if result.Ended != nil {
		events = append(events, Event{Kind: EventBattleEnded, Tick: b.tick, Row: result.Ended.Detail, Ended: result.Ended})
		log.Printf("[Battle] %s 战斗结束: BattleEnded(%d, %d) tick=%d, 生成僵尸 %d, 消灭 %d",
			b.id, result.Ended.Winner, result.Ended.Detail, b.tick, b.totalSpawned, b.zombiesKilled)
	} else if b.cfg.Verbose {
		log.Printf("[Battle] tick %d: 攻击 %d 次, 移除 %d, 阳光 %d (+%d), cost %d",
			b.tick, len(result.Attacks), len(result.Swept), b.sun, result.SunGained, cost)
	}
	listeners := b.listeners
	b.mu.Unlock()

	b.dispatch(listeners, events)
	return result, nil
}

// creditSun 增加阳光，不超过上限
func (b *Battle) creditSun(amount int) {
	b.sun += amount
	if b.cfg.SunCap > 0 && b.sun > b.cfg.SunCap {
		b.sun = b.cfg.SunCap
	}
}

// kindsOf 在清扫之前记录受击单位的类型
func (b *Battle) kindsOf(targets map[ecs.EntityID]int) map[ecs.EntityID]int {
	kinds := make(map[ecs.EntityID]int, len(targets))
	for id := range targets {
		if plant, ok := ecs.GetComponent[*components.PlantComponent](b.entityManager, id); ok {
			kinds[id] = int(plant.Kind)
		} else if zombie, ok := ecs.GetComponent[*components.ZombieComponent](b.entityManager, id); ok {
			kinds[id] = int(zombie.Kind)
		}
	}
	return kinds
}

// GetPlant 查询 (row, col) 上的植物
func (b *Battle) GetPlant(row, col int) (PlantInfo, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.lawnGrid.IsValidCell(row, col) {
		return PlantInfo{}, fmt.Errorf("%w: (%d, %d)", ErrInvalidPosition, row, col)
	}
	entityID, ok := b.lawnGrid.PlantAt(row, col)
	if !ok {
		return PlantInfo{}, fmt.Errorf("%w: no plant at (%d, %d)", ErrNotFound, row, col)
	}
	return b.plantInfo(entityID), nil
}

// GetZombie 查询 row 行第 index 个僵尸（按生成顺序，只包含存活的僵尸）
func (b *Battle) GetZombie(row, index int) (ZombieInfo, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.lawnGrid.IsValidRow(row) || index < 0 {
		return ZombieInfo{}, fmt.Errorf("%w: row %d, index %d", ErrInvalidPosition, row, index)
	}
	entityID, ok := b.lawnGrid.ZombieAt(row, index)
	if !ok {
		return ZombieInfo{}, fmt.Errorf("%w: no zombie at row %d, index %d", ErrNotFound, row, index)
	}
	return b.zombieInfo(entityID, index), nil
}

func (b *Battle) plantInfo(entityID ecs.EntityID) PlantInfo {
	plant, _ := ecs.GetComponent[*components.PlantComponent](b.entityManager, entityID)
	health, _ := ecs.GetComponent[*components.HealthComponent](b.entityManager, entityID)
	attack, _ := ecs.GetComponent[*components.AttackComponent](b.entityManager, entityID)
	return PlantInfo{
		Kind:           plant.Kind,
		HP:             health.CurrentHealth,
		MaxHP:          health.MaxHealth,
		AttackCooldown: attack.Cooldown,
		Row:            plant.GridRow,
		Col:            plant.GridCol,
	}
}

func (b *Battle) zombieInfo(entityID ecs.EntityID, index int) ZombieInfo {
	zombie, _ := ecs.GetComponent[*components.ZombieComponent](b.entityManager, entityID)
	health, _ := ecs.GetComponent[*components.HealthComponent](b.entityManager, entityID)
	attack, _ := ecs.GetComponent[*components.AttackComponent](b.entityManager, entityID)
	return ZombieInfo{
		Kind:           zombie.Kind,
		HP:             health.CurrentHealth,
		MaxHP:          health.MaxHealth,
		AttackCooldown: attack.Cooldown,
		Row:            zombie.Lane,
		LaneProgress:   zombie.Progress,
		Index:          index,
		Blocked:        zombie.Blocked,
	}
}

// Plants 返回全部存活植物（按行、列排序）
func (b *Battle) Plants() []PlantInfo {
	b.mu.Lock()
	defer b.mu.Unlock()

	grid := b.lawnGrid.Grid()
	out := make([]PlantInfo, 0)
	for row := 0; row < grid.Rows; row++ {
		for col := 0; col < grid.Cols; col++ {
			if id := grid.Occupancy[row][col]; id != 0 {
				out = append(out, b.plantInfo(id))
			}
		}
	}
	return out
}

// Zombies 返回全部存活僵尸（按行、行道位置排序）
func (b *Battle) Zombies() []ZombieInfo {
	b.mu.Lock()
	defer b.mu.Unlock()

	grid := b.lawnGrid.Grid()
	out := make([]ZombieInfo, 0)
	for row := 0; row < grid.Rows; row++ {
		for i, id := range grid.Lanes[row] {
			out = append(out, b.zombieInfo(id, i))
		}
	}
	return out
}

// Info 返回战斗概况
func (b *Battle) Info() BattleInfo {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.infoLocked()
}

func (b *Battle) infoLocked() BattleInfo {
	info := BattleInfo{
		ID:             b.id,
		Owner:          b.owner,
		SunBalance:     b.sun,
		Phase:          b.phase.Phase(),
		TickCount:      b.tick,
		ZombiesSpawned: b.totalSpawned,
		ZombiesKilled:  b.zombiesKilled,
		PendingSpawns:  len(b.pending),
	}
	if outcome := b.phase.Outcome(); outcome != nil {
		info.Outcome = &BattleEndedEvent{Winner: outcome.Winner, Detail: outcome.Detail, Tick: outcome.Tick}
	}
	return info
}
