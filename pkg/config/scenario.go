package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// 场景动作类型
const (
	ActionPlace  = "place"  // 种植植物
	ActionSpawn  = "spawn"  // 立即生成僵尸
	ActionRemove = "remove" // 铲除植物
)

// ScenarioAction 场景中的一个外部调用
//
// AtTick 表示在已经执行 AtTick 个 tick 之后（下一个 tick 之前）执行，
// 0 表示在第一个 tick 之前。同一 AtTick 的动作按文件顺序执行。
type ScenarioAction struct {
	AtTick int    `yaml:"atTick"`
	Op     string `yaml:"op"`
	Row    int    `yaml:"row"`
	Col    int    `yaml:"col"`
	ID     int    `yaml:"id"`
}

// ScenarioWave 预约生成的僵尸（波次），在编号为 AtTick 的 tick 开始时生成
type ScenarioWave struct {
	AtTick int `yaml:"atTick"`
	Row    int `yaml:"row"`
	ID     int `yaml:"id"`
}

// Scenario 一场可重放的战斗脚本
type Scenario struct {
	Name     string           `yaml:"name"`
	Owner    string           `yaml:"owner"`
	Battle   BattleConfig     `yaml:"battle"`
	MaxTicks int              `yaml:"maxTicks"`
	Actions  []ScenarioAction `yaml:"actions"`
	Waves    []ScenarioWave   `yaml:"waves"`
}

// LoadScenario 从 YAML 文件加载场景
func LoadScenario(filePath string) (*Scenario, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file %s: %w", filePath, err)
	}
	sc, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	return sc, nil
}

// ParseScenario 解析场景 YAML；battle 字段在默认战斗配置之上覆盖
func ParseScenario(data []byte) (*Scenario, error) {
	sc := Scenario{Battle: DefaultBattleConfig()}
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("failed to parse scenario YAML: %w", err)
	}
	if err := validateScenario(&sc); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	// 按 atTick 排序，同一 tick 内保持文件顺序
	sort.SliceStable(sc.Actions, func(i, j int) bool {
		return sc.Actions[i].AtTick < sc.Actions[j].AtTick
	})
	return &sc, nil
}

// validateScenario 验证场景结构（位置和类型的合法性由战斗本身校验）
func validateScenario(sc *Scenario) error {
	if sc.Name == "" {
		return fmt.Errorf("name is required")
	}
	if sc.MaxTicks <= 0 {
		return fmt.Errorf("maxTicks must be positive, got %d", sc.MaxTicks)
	}
	if err := sc.Battle.Validate(); err != nil {
		return fmt.Errorf("battle: %w", err)
	}
	for i, a := range sc.Actions {
		switch a.Op {
		case ActionPlace, ActionSpawn, ActionRemove:
		default:
			return fmt.Errorf("action %d: unknown op %q", i, a.Op)
		}
		if a.AtTick < 0 {
			return fmt.Errorf("action %d: atTick cannot be negative, got %d", i, a.AtTick)
		}
	}
	for i, w := range sc.Waves {
		if w.AtTick <= 0 {
			return fmt.Errorf("wave %d: atTick must be positive, got %d", i, w.AtTick)
		}
	}
	return nil
}
