package game

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/decker502/pvzsim/pkg/config"
	"github.com/decker502/pvzsim/pkg/types"
)

// Arena 按所有者管理战斗（每个所有者一场战斗）
//
// 不同所有者的战斗互相独立，各自持有自己的锁；
// Arena 本身只保护 owner → battle 映射。
type Arena struct {
	mu       sync.RWMutex
	registry *config.Registry
	cfg      config.BattleConfig
	battles  map[string]*Battle
}

// NewArena 创建竞技场，新战斗使用 cfg 作为配置
func NewArena(registry *config.Registry, cfg config.BattleConfig) *Arena {
	return &Arena{
		registry: registry,
		cfg:      cfg,
		battles:  make(map[string]*Battle),
	}
}

// Registry 返回单位类型注册表
func (a *Arena) Registry() *config.Registry {
	return a.registry
}

// StartBattle 为 owner 创建并开始一场战斗
//
// owner 已有战斗时返回 ErrBattleAlreadyStarted（已结束的战斗需要先 Reset）
func (a *Arena) StartBattle(owner string) (*Battle, error) {
	if !a.registry.Initialized() {
		return nil, ErrTypesNotInitialized
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if existing, ok := a.battles[owner]; ok {
		return nil, fmt.Errorf("%w: owner %s has battle %s (%s)",
			ErrBattleAlreadyStarted, owner, existing.ID(), existing.Info().Phase)
	}

	b, err := NewBattle(owner, a.cfg, a.registry)
	if err != nil {
		return nil, err
	}
	if err := b.Start(); err != nil {
		return nil, err
	}
	a.battles[owner] = b
	return b, nil
}

// Adopt 把恢复的战斗放入竞技场（替换 owner 现有的战斗）
func (a *Arena) Adopt(b *Battle) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.battles[b.Owner()] = b
	log.Printf("[Arena] 接管战斗 %s (owner=%s)", b.ID(), b.Owner())
}

// Battle 返回 owner 的战斗
func (a *Arena) Battle(owner string) (*Battle, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	b, ok := a.battles[owner]
	if !ok {
		return nil, fmt.Errorf("%w: no battle for owner %s", ErrNotFound, owner)
	}
	return b, nil
}

// Battles 返回 owner 的战斗概况；未知的 owner 返回零值（NotStarted）
func (a *Arena) Battles(owner string) BattleInfo {
	b, err := a.Battle(owner)
	if err != nil {
		return BattleInfo{Owner: owner, Phase: types.PhaseNotStarted}
	}
	return b.Info()
}

// Reset 移除 owner 的战斗，之后可以重新开始
func (a *Arena) Reset(owner string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.battles[owner]; !ok {
		return false
	}
	delete(a.battles, owner)
	return true
}

// Owners 返回所有拥有战斗的所有者（排序）
func (a *Arena) Owners() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	owners := make([]string, 0, len(a.battles))
	for owner := range a.battles {
		owners = append(owners, owner)
	}
	sort.Strings(owners)
	return owners
}

// PlacePlant 代理到 owner 的战斗；没有战斗时返回 ErrBattleNotActive
func (a *Arena) PlacePlant(owner string, row, col int, kind types.PlantID) error {
	b, err := a.activeBattle(owner)
	if err != nil {
		return err
	}
	return b.PlacePlant(row, col, kind)
}

// SpawnZombie 代理到 owner 的战斗
func (a *Arena) SpawnZombie(owner string, row int, kind types.ZombieID) error {
	b, err := a.activeBattle(owner)
	if err != nil {
		return err
	}
	return b.SpawnZombie(row, kind)
}

// Tick 代理到 owner 的战斗
func (a *Arena) Tick(owner string) (TickResult, error) {
	b, err := a.activeBattle(owner)
	if err != nil {
		return TickResult{}, err
	}
	return b.Tick()
}

// GetPlant 代理到 owner 的战斗
func (a *Arena) GetPlant(owner string, row, col int) (PlantInfo, error) {
	b, err := a.Battle(owner)
	if err != nil {
		return PlantInfo{}, err
	}
	return b.GetPlant(row, col)
}

// GetZombie 代理到 owner 的战斗
func (a *Arena) GetZombie(owner string, row, index int) (ZombieInfo, error) {
	b, err := a.Battle(owner)
	if err != nil {
		return ZombieInfo{}, err
	}
	return b.GetZombie(row, index)
}

func (a *Arena) activeBattle(owner string) (*Battle, error) {
	b, err := a.Battle(owner)
	if err != nil {
		return nil, fmt.Errorf("%w: no battle for owner %s", ErrBattleNotActive, owner)
	}
	return b, nil
}

// TickAll 并发推进所有进行中的战斗各一个 tick
//
// 返回本轮结束的战斗（owner → 结束事件）。单场战斗超出预算不会影响其他战斗，
// 这类错误合并后返回；ctx 取消时尚未开始的战斗不再推进。
func (a *Arena) TickAll(ctx context.Context) (map[string]BattleEndedEvent, error) {
	a.mu.RLock()
	battles := make([]*Battle, 0, len(a.battles))
	for _, b := range a.battles {
		if b.Info().Phase == types.PhaseActive {
			battles = append(battles, b)
		}
	}
	a.mu.RUnlock()

	var (
		mu    sync.Mutex
		ended = make(map[string]BattleEndedEvent)
		errs  []error
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for _, b := range battles {
		b := b
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := b.Tick()
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				errs = append(errs, fmt.Errorf("battle %s: %w", b.ID(), err))
			case res.Ended != nil:
				ended[b.Owner()] = *res.Ended
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return ended, err
	}
	return ended, errors.Join(errs...)
}
