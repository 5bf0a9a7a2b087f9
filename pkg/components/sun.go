package components

// SunProducerComponent 标记植物会周期性生产阳光（如向日葵）
type SunProducerComponent struct {
	Amount    int // 每次生产的阳光数量
	Interval  int // 后续生产周期（tick）
	Countdown int // 距离下次生产剩余的 tick 数（首次为配置的首次周期）
}
