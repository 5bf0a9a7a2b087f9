package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"

	"github.com/decker502/pvzsim/pkg/config"
)

// DefaultStoreAppName 默认的 gdata 应用名
const DefaultStoreAppName = "pvzsim"

// 存储路径常量
const battlesObject = "battles"

// BattleStore 战斗快照存储
//
// 使用 gdata 跨平台存储，快照以 YAML 保存在 battles 对象下，属性名为战斗ID。
// gdataManager 为 nil 时进入降级模式：Save 不报错也不保存，Load 返回 ErrNotFound。
type BattleStore struct {
	gdataManager *gdata.Manager
}

// OpenBattleStore 打开 appName 对应的存储
//
// gdata 初始化失败（例如受限环境）时返回降级模式的存储和错误，
// 调用方可以选择继续使用。
func OpenBattleStore(appName string) (*BattleStore, error) {
	if appName == "" {
		appName = DefaultStoreAppName
	}
	manager, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		log.Printf("[BattleStore] Warning: gdata unavailable: %v (snapshots will not be persisted)", err)
		return NewBattleStore(nil), fmt.Errorf("failed to open gdata storage: %w", err)
	}
	return NewBattleStore(manager), nil
}

// NewBattleStore 使用已有的 gdata Manager 创建存储（可为 nil）
func NewBattleStore(manager *gdata.Manager) *BattleStore {
	return &BattleStore{gdataManager: manager}
}

// Available 存储是否可以持久化
func (s *BattleStore) Available() bool {
	return s.gdataManager != nil
}

// Save 保存战斗快照，返回战斗ID
func (s *BattleStore) Save(b *Battle) (string, error) {
	return s.SaveSnapshot(b.Snapshot())
}

// SaveSnapshot 保存快照，返回快照中的战斗ID
func (s *BattleStore) SaveSnapshot(snap *BattleSnapshot) (string, error) {
	if snap.ID == "" {
		return "", fmt.Errorf("snapshot has no battle id")
	}
	// 降级模式：无法持久化，但不报错
	if s.gdataManager == nil {
		return snap.ID, nil
	}

	data, err := EncodeSnapshot(snap)
	if err != nil {
		return "", err
	}
	if err := s.gdataManager.SaveObjectProp(battlesObject, snap.ID, data); err != nil {
		return "", fmt.Errorf("failed to save battle %s: %w", snap.ID, err)
	}

	log.Printf("[BattleStore] 保存战斗 %s (tick=%d, phase=%s)", snap.ID, snap.State.Tick, snap.State.Phase)
	return snap.ID, nil
}

// Exists 检查战斗快照是否存在
func (s *BattleStore) Exists(id string) bool {
	if s.gdataManager == nil {
		return false
	}
	return s.gdataManager.ObjectPropExists(battlesObject, id)
}

// LoadSnapshot 读取战斗快照
func (s *BattleStore) LoadSnapshot(id string) (*BattleSnapshot, error) {
	if !s.Exists(id) {
		return nil, fmt.Errorf("%w: battle snapshot %s", ErrNotFound, id)
	}
	data, err := s.gdataManager.LoadObjectProp(battlesObject, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load battle %s: %w", id, err)
	}
	snap, err := DecodeSnapshot(data)
	if err != nil {
		return nil, fmt.Errorf("battle %s: %w", id, err)
	}
	return snap, nil
}

// Load 读取快照并恢复战斗
func (s *BattleStore) Load(id string, registry *config.Registry) (*Battle, error) {
	snap, err := s.LoadSnapshot(id)
	if err != nil {
		return nil, err
	}
	return RestoreBattle(snap, registry)
}
