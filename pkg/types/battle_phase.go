package types

// BattlePhase 战斗阶段
//
// 状态转换：NotStarted → Active → Ended（单向，不可回退）
type BattlePhase int

const (
	// PhaseNotStarted 战斗尚未开始
	PhaseNotStarted BattlePhase = iota
	// PhaseActive 战斗进行中，允许种植、生成僵尸和推进 tick
	PhaseActive
	// PhaseEnded 战斗已结束
	PhaseEnded
)

// String 返回战斗阶段的字符串表示
func (p BattlePhase) String() string {
	switch p {
	case PhaseNotStarted:
		return "NotStarted"
	case PhaseActive:
		return "Active"
	case PhaseEnded:
		return "Ended"
	default:
		return "Unknown"
	}
}

// Side 阵营（BattleEnded 事件的胜利方）
type Side int

const (
	// SideNone 无胜利方（战斗未结束）
	SideNone Side = iota
	// SideZombies 僵尸方：任一僵尸进入房子
	SideZombies
	// SidePlants 植物方：场上僵尸全部被消灭且没有待生成的僵尸
	SidePlants
)

// String 返回阵营的字符串表示
func (s Side) String() string {
	switch s {
	case SideZombies:
		return "zombies"
	case SidePlants:
		return "plants"
	default:
		return "none"
	}
}
