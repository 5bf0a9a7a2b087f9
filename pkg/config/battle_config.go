package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// 草坪默认规格（与原版白天关卡一致）
const (
	DefaultGridRows = 5
	DefaultGridCols = 9
)

// BattleConfig 单场战斗的配置
type BattleConfig struct {
	Rows int `yaml:"rows"` // 草坪行数
	Cols int `yaml:"cols"` // 草坪列数

	InitialSun int `yaml:"initialSun"` // 初始阳光
	SunCap     int `yaml:"sunCap"`     // 阳光上限

	// 天空掉落阳光（被动收入）：每 PassiveSunInterval 个 tick 获得 PassiveSunAmount
	// PassiveSunInterval 为 1 时即固定的每 tick 收入
	PassiveSunAmount   int `yaml:"passiveSunAmount"`
	PassiveSunInterval int `yaml:"passiveSunInterval"`

	// LaneCapacity 每行最多同时存在的僵尸数量
	LaneCapacity int `yaml:"laneCapacity"`
	// TickBudget 单个 tick 的计算预算（工作量单位，见 systems.EstimateTickCost）
	TickBudget int `yaml:"tickBudget"`

	// Verbose 输出每个 tick 的详细日志
	Verbose bool `yaml:"verbose"`
}

// DefaultBattleConfig 返回默认战斗配置
func DefaultBattleConfig() BattleConfig {
	return BattleConfig{
		Rows:               DefaultGridRows,
		Cols:               DefaultGridCols,
		InitialSun:         200,
		SunCap:             9990, // 原版游戏阳光上限
		PassiveSunAmount:   25,
		PassiveSunInterval: 10,
		LaneCapacity:       32,
		TickBudget:         10000,
	}
}

// LoadBattleConfig 从 YAML 文件加载战斗配置
// 文件中未出现的字段保留默认值
func LoadBattleConfig(filePath string) (BattleConfig, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return BattleConfig{}, fmt.Errorf("failed to read battle config file %s: %w", filePath, err)
	}
	cfg, err := ParseBattleConfig(data)
	if err != nil {
		return BattleConfig{}, fmt.Errorf("%s: %w", filePath, err)
	}
	return cfg, nil
}

// ParseBattleConfig 在默认配置之上解析 YAML 数据并校验
func ParseBattleConfig(data []byte) (BattleConfig, error) {
	cfg := DefaultBattleConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return BattleConfig{}, fmt.Errorf("failed to parse battle config YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return BattleConfig{}, fmt.Errorf("invalid battle config: %w", err)
	}
	return cfg, nil
}

// Validate 验证配置的有效性
func (c BattleConfig) Validate() error {
	if c.Rows <= 0 {
		return fmt.Errorf("rows must be positive, got %d", c.Rows)
	}
	if c.Cols <= 0 {
		return fmt.Errorf("cols must be positive, got %d", c.Cols)
	}
	if c.InitialSun < 0 {
		return fmt.Errorf("initialSun cannot be negative, got %d", c.InitialSun)
	}
	if c.SunCap <= 0 {
		return fmt.Errorf("sunCap must be positive, got %d", c.SunCap)
	}
	if c.InitialSun > c.SunCap {
		return fmt.Errorf("initialSun %d exceeds sunCap %d", c.InitialSun, c.SunCap)
	}
	if c.PassiveSunAmount < 0 {
		return fmt.Errorf("passiveSunAmount cannot be negative, got %d", c.PassiveSunAmount)
	}
	if c.PassiveSunAmount > 0 && c.PassiveSunInterval <= 0 {
		return fmt.Errorf("passiveSunInterval must be positive, got %d", c.PassiveSunInterval)
	}
	if c.LaneCapacity <= 0 {
		return fmt.Errorf("laneCapacity must be positive, got %d", c.LaneCapacity)
	}
	if c.TickBudget <= 0 {
		return fmt.Errorf("tickBudget must be positive, got %d", c.TickBudget)
	}
	return nil
}
