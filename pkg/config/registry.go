package config

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/decker502/pvzsim/pkg/types"
)

// ErrAlreadyInitialized 类型表已经注册过
var ErrAlreadyInitialized = errors.New("type table already initialized")

// Registry 单位类型注册表（只读）
//
// 植物表和僵尸表各自只能注册一次（initPlant / initZombie），
// 注册后不可修改，可在多场战斗之间安全共享。
type Registry struct {
	mu      sync.RWMutex
	plants  map[types.PlantID]PlantStats
	zombies map[types.ZombieID]ZombieStats
}

// NewRegistry 创建空的注册表
func NewRegistry() *Registry {
	return &Registry{}
}

// InitPlants 注册植物类型表
//
// 返回：
//   - ErrAlreadyInitialized: 植物表已注册
//   - 校验错误: 表为空或某个类型属性非法
func (r *Registry) InitPlants(table map[types.PlantID]PlantStats) error {
	if len(table) == 0 {
		return fmt.Errorf("plant table is empty")
	}
	for id, stats := range table {
		if err := ValidatePlantStats(id, stats); err != nil {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.plants != nil {
		return fmt.Errorf("plants: %w", ErrAlreadyInitialized)
	}
	r.plants = make(map[types.PlantID]PlantStats, len(table))
	for id, stats := range table {
		r.plants[id] = stats
	}
	log.Printf("[Registry] 注册植物类型 %d 种", len(table))
	return nil
}

// InitZombies 注册僵尸类型表
func (r *Registry) InitZombies(table map[types.ZombieID]ZombieStats) error {
	if len(table) == 0 {
		return fmt.Errorf("zombie table is empty")
	}
	for id, stats := range table {
		if err := ValidateZombieStats(id, stats); err != nil {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.zombies != nil {
		return fmt.Errorf("zombies: %w", ErrAlreadyInitialized)
	}
	r.zombies = make(map[types.ZombieID]ZombieStats, len(table))
	for id, stats := range table {
		r.zombies[id] = stats
	}
	log.Printf("[Registry] 注册僵尸类型 %d 种", len(table))
	return nil
}

// Initialized 植物表和僵尸表是否都已注册
func (r *Registry) Initialized() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.plants != nil && r.zombies != nil
}

// Plant 查询植物类型属性
func (r *Registry) Plant(id types.PlantID) (PlantStats, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stats, ok := r.plants[id]
	return stats, ok
}

// Zombie 查询僵尸类型属性
func (r *Registry) Zombie(id types.ZombieID) (ZombieStats, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stats, ok := r.zombies[id]
	return stats, ok
}

// PlantIDs 返回已注册的植物类型ID（升序）
func (r *Registry) PlantIDs() []types.PlantID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]types.PlantID, 0, len(r.plants))
	for id := range r.plants {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// ZombieIDs 返回已注册的僵尸类型ID（升序）
func (r *Registry) ZombieIDs() []types.ZombieID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]types.ZombieID, 0, len(r.zombies))
	for id := range r.zombies {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// NewRegistryFromStats 用一份单位属性配置创建并注册完整的注册表
func NewRegistryFromStats(stats *UnitStatsConfig) (*Registry, error) {
	r := NewRegistry()
	if err := r.InitPlants(stats.Plants); err != nil {
		return nil, err
	}
	if err := r.InitZombies(stats.Zombies); err != nil {
		return nil, err
	}
	return r, nil
}

// DefaultRegistry 使用内置的 units.yaml 创建注册表
func DefaultRegistry() (*Registry, error) {
	stats, err := DefaultUnitStats()
	if err != nil {
		return nil, err
	}
	return NewRegistryFromStats(stats)
}
