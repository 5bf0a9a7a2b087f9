package config

import (
	"fmt"
	"os"

	"github.com/decker502/pvzsim/pkg/types"
	"gopkg.in/yaml.v3"
)

// PlantStats 单个植物类型的属性配置
type PlantStats struct {
	Name     string `yaml:"name"`     // 植物名称（仅用于日志和展示）
	Cost     int    `yaml:"cost"`     // 种植花费的阳光
	Health   int    `yaml:"health"`   // 生命值
	Damage   int    `yaml:"damage"`   // 每次攻击伤害，0 表示不攻击
	Range    int    `yaml:"range"`    // 攻击距离（列），<= 0 表示整行
	Cooldown int    `yaml:"cooldown"` // 攻击后冷却 tick 数

	// 阳光生产（向日葵）
	SunAmount        int `yaml:"sunAmount"`        // 每次生产的阳光，0 表示不生产
	SunInterval      int `yaml:"sunInterval"`      // 生产周期（tick）
	SunFirstInterval int `yaml:"sunFirstInterval"` // 首次生产前的等待（tick），0 表示与周期相同
}

// ZombieStats 单个僵尸类型的属性配置
type ZombieStats struct {
	Name     string `yaml:"name"`     // 僵尸名称
	Health   int    `yaml:"health"`   // 生命值（含护甲）
	Damage   int    `yaml:"damage"`   // 每次啃食伤害
	Cooldown int    `yaml:"cooldown"` // 啃食后冷却 tick 数
	Speed    int    `yaml:"speed"`    // 每 tick 前进的列数
}

// UnitStatsConfig 单位属性配置文件结构
type UnitStatsConfig struct {
	Plants  map[types.PlantID]PlantStats   `yaml:"plants"`  // 植物类型ID到属性的映射
	Zombies map[types.ZombieID]ZombieStats `yaml:"zombies"` // 僵尸类型ID到属性的映射
}

// LoadUnitStats 从 YAML 文件加载单位属性配置
// 参数：
//
//	filepath - 配置文件路径（相对或绝对路径）
//
// 返回：
//
//	*UnitStatsConfig - 解析后的配置对象
//	error - 如果文件读取或解析失败，返回错误信息
func LoadUnitStats(filepath string) (*UnitStatsConfig, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read unit stats file %s: %w", filepath, err)
	}

	config, err := ParseUnitStats(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath, err)
	}
	return config, nil
}

// ParseUnitStats 从 YAML 数据解析并校验单位属性配置
func ParseUnitStats(data []byte) (*UnitStatsConfig, error) {
	var config UnitStatsConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse unit stats YAML: %w", err)
	}

	if err := validateUnitStats(&config); err != nil {
		return nil, fmt.Errorf("invalid unit stats: %w", err)
	}

	return &config, nil
}

// validateUnitStats 验证单位属性配置的完整性和合法性
func validateUnitStats(config *UnitStatsConfig) error {
	if len(config.Plants) == 0 {
		return fmt.Errorf("at least one plant type is required")
	}
	if len(config.Zombies) == 0 {
		return fmt.Errorf("at least one zombie type is required")
	}

	for id, stats := range config.Plants {
		if err := ValidatePlantStats(id, stats); err != nil {
			return err
		}
	}
	for id, stats := range config.Zombies {
		if err := ValidateZombieStats(id, stats); err != nil {
			return err
		}
	}
	return nil
}

// ValidatePlantStats 校验单个植物类型
func ValidatePlantStats(id types.PlantID, stats PlantStats) error {
	if id <= types.PlantUnknown {
		return fmt.Errorf("plant id must be positive, got %d", id)
	}
	if stats.Health <= 0 {
		return fmt.Errorf("plant %d: health must be positive, got %d", id, stats.Health)
	}
	if stats.Cost < 0 {
		return fmt.Errorf("plant %d: cost cannot be negative, got %d", id, stats.Cost)
	}
	if stats.Damage < 0 {
		return fmt.Errorf("plant %d: damage cannot be negative, got %d", id, stats.Damage)
	}
	if stats.Cooldown < 0 {
		return fmt.Errorf("plant %d: cooldown cannot be negative, got %d", id, stats.Cooldown)
	}
	if stats.SunAmount < 0 {
		return fmt.Errorf("plant %d: sunAmount cannot be negative, got %d", id, stats.SunAmount)
	}
	if stats.SunAmount > 0 && stats.SunInterval <= 0 {
		return fmt.Errorf("plant %d: sunInterval must be positive for a sun producer, got %d", id, stats.SunInterval)
	}
	if stats.SunFirstInterval < 0 {
		return fmt.Errorf("plant %d: sunFirstInterval cannot be negative, got %d", id, stats.SunFirstInterval)
	}
	return nil
}

// ValidateZombieStats 校验单个僵尸类型
func ValidateZombieStats(id types.ZombieID, stats ZombieStats) error {
	if id <= types.ZombieUnknown {
		return fmt.Errorf("zombie id must be positive, got %d", id)
	}
	if stats.Health <= 0 {
		return fmt.Errorf("zombie %d: health must be positive, got %d", id, stats.Health)
	}
	if stats.Damage < 0 {
		return fmt.Errorf("zombie %d: damage cannot be negative, got %d", id, stats.Damage)
	}
	if stats.Cooldown < 0 {
		return fmt.Errorf("zombie %d: cooldown cannot be negative, got %d", id, stats.Cooldown)
	}
	if stats.Speed < 0 {
		return fmt.Errorf("zombie %d: speed cannot be negative, got %d", id, stats.Speed)
	}
	return nil
}

// FirstSunInterval 返回首次生产阳光前的等待 tick 数
func (p PlantStats) FirstSunInterval() int {
	if p.SunFirstInterval > 0 {
		return p.SunFirstInterval
	}
	return p.SunInterval
}
