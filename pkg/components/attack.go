package components

// AttackComponent 攻击能力组件
//
// 植物和僵尸共用：Cooldown 为 0 且有可攻击目标时发起攻击，
// 攻击后 Cooldown 重置为 CycleTicks；未攻击的 tick 中 Cooldown 递减（最低为 0）。
type AttackComponent struct {
	Damage     int // 每次攻击造成的伤害（0 表示不攻击，如向日葵、坚果墙）
	Range      int // 攻击距离（列数），<= 0 表示整行（仅植物使用）
	CycleTicks int // 攻击周期（攻击后冷却的 tick 数）
	Cooldown   int // 距离下次可攻击剩余的 tick 数
}
