package game

import "errors"

// 战斗操作的错误类型
//
// 所有错误都是同步的、不可重试的单次调用拒绝：返回错误时战斗状态不会被修改。
// 调用方使用 errors.Is 判断错误类型。
var (
	// ErrInvalidPosition 行/列越界
	ErrInvalidPosition = errors.New("invalid position")
	// ErrCellOccupied 格子上已有存活的植物
	ErrCellOccupied = errors.New("cell occupied")
	// ErrInsufficientFunds 阳光不足
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrBattleNotActive 当前阶段不允许此操作
	ErrBattleNotActive = errors.New("battle not active")
	// ErrNotFound 查询的位置没有单位
	ErrNotFound = errors.New("not found")
	// ErrBattleAlreadyEnded 战斗已结束，不能再推进 tick
	ErrBattleAlreadyEnded = errors.New("battle already ended")
	// ErrComputationBudgetExceeded 本 tick 的计算量超过预算（调用方需要减少负载）
	ErrComputationBudgetExceeded = errors.New("computation budget exceeded")
	// ErrBattleAlreadyStarted 战斗不在 NotStarted 阶段
	ErrBattleAlreadyStarted = errors.New("battle already started")
	// ErrTypesNotInitialized 植物表或僵尸表尚未注册
	ErrTypesNotInitialized = errors.New("unit types not initialized")
	// ErrUnknownPlant 未注册的植物类型
	ErrUnknownPlant = errors.New("unknown plant type")
	// ErrUnknownZombie 未注册的僵尸类型
	ErrUnknownZombie = errors.New("unknown zombie type")
	// ErrLaneFull 该行僵尸数量已达上限
	ErrLaneFull = errors.New("lane full")
	// ErrInvalidSchedule 预约生成的 tick 不在未来
	ErrInvalidSchedule = errors.New("invalid spawn schedule")
	// ErrInvalidSnapshot 快照的阶段或结果不一致
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)
