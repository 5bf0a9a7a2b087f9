package components

// HealthComponent 存储实体的生命值信息
// 用于僵尸、植物等可被攻击的实体
//
// CurrentHealth 在结算伤害时不做下限截断，tick 末尾的清扫阶段
// 会移除所有 CurrentHealth <= 0 的实体
type HealthComponent struct {
	CurrentHealth int // 当前生命值
	MaxHealth     int // 最大生命值
}

// IsDead 生命值是否已耗尽
func (h *HealthComponent) IsDead() bool {
	return h.CurrentHealth <= 0
}
