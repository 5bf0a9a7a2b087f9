package game

import "github.com/decker502/pvzsim/pkg/types"

// EventKind 战斗事件类型
type EventKind int

const (
	EventBattleStarted     EventKind = iota // 战斗开始
	EventPlantPlaced                        // 种植植物
	EventPlantRemoved                       // 铲除植物
	EventZombieSpawned                      // 生成僵尸（包括预约生成）
	EventPlantDied                          // 植物被吃掉
	EventZombieDied                         // 僵尸被消灭
	EventZombieEnteredHouse                 // 僵尸进入房子
	EventBattleEnded                        // 战斗结束（每场战斗恰好一次）
)

// String 返回事件类型名称
func (k EventKind) String() string {
	switch k {
	case EventBattleStarted:
		return "BattleStarted"
	case EventPlantPlaced:
		return "PlantPlaced"
	case EventPlantRemoved:
		return "PlantRemoved"
	case EventZombieSpawned:
		return "ZombieSpawned"
	case EventPlantDied:
		return "PlantDied"
	case EventZombieDied:
		return "ZombieDied"
	case EventZombieEnteredHouse:
		return "ZombieEnteredHouse"
	case EventBattleEnded:
		return "BattleEnded"
	default:
		return "Unknown"
	}
}

// Event 战斗事件
// 只有与事件类型相关的字段有意义
type Event struct {
	Kind   EventKind
	Tick   int // 事件发生时已完成的 tick 数（tick 内事件为该 tick 的编号）
	Row    int
	Col    int // 植物列 / 僵尸行道进度
	Plant  types.PlantID
	Zombie types.ZombieID
	Ended  *BattleEndedEvent
}

// BattleEndedEvent 战斗结束事件 BattleEnded(winner, detail)
type BattleEndedEvent struct {
	Winner types.Side `yaml:"winner"`
	Detail int        `yaml:"detail"`
	Tick   int        `yaml:"tick"`
}

// Listener 战斗事件监听器
// 监听器在战斗锁释放之后同步调用，可以安全地查询战斗状态
type Listener func(Event)
