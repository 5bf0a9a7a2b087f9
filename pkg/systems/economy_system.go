package systems

import (
	"log"

	"github.com/decker502/pvzsim/pkg/components"
	"github.com/decker502/pvzsim/pkg/ecs"
)

// EconomySystem 阳光收入系统
// 每 tick 最后执行：天空掉落阳光（被动收入）+ 向日葵等生产者的阳光
type EconomySystem struct {
	entityManager   *ecs.EntityManager
	passiveAmount   int
	passiveInterval int
	verbose         bool
}

// NewEconomySystem 创建阳光收入系统
// passiveInterval 为 1 时每个 tick 都获得 passiveAmount
func NewEconomySystem(em *ecs.EntityManager, passiveAmount, passiveInterval int, verbose bool) *EconomySystem {
	return &EconomySystem{
		entityManager:   em,
		passiveAmount:   passiveAmount,
		passiveInterval: passiveInterval,
		verbose:         verbose,
	}
}

// Update 结算第 tick 个 tick 的阳光收入，返回本 tick 获得的阳光总量
func (s *EconomySystem) Update(tick int) int {
	gained := 0

	if s.passiveAmount > 0 && s.passiveInterval > 0 && tick%s.passiveInterval == 0 {
		gained += s.passiveAmount
	}

	for _, id := range ecs.GetEntitiesWith1[*components.SunProducerComponent](s.entityManager) {
		producer, _ := ecs.GetComponent[*components.SunProducerComponent](s.entityManager, id)
		producer.Countdown--
		if producer.Countdown > 0 {
			continue
		}
		gained += producer.Amount
		producer.Countdown = producer.Interval
		if s.verbose {
			log.Printf("[EconomySystem] 植物 %d 生产阳光 %d", id, producer.Amount)
		}
	}

	return gained
}
