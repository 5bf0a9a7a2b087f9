package config

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// dataFS 内置的默认配置（单位表、战斗配置、示例场景）
//
//go:embed data
var dataFS embed.FS

// 内置配置文件路径
const (
	defaultUnitStatsPath    = "data/units.yaml"
	defaultBattleConfigPath = "data/battle.yaml"
	defaultScenarioDir      = "data/scenarios"
)

// DefaultUnitStats 解析内置的 units.yaml
func DefaultUnitStats() (*UnitStatsConfig, error) {
	data, err := dataFS.ReadFile(defaultUnitStatsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded %s: %w", defaultUnitStatsPath, err)
	}
	return ParseUnitStats(data)
}

// EmbeddedBattleConfig 解析内置的 battle.yaml
func EmbeddedBattleConfig() (BattleConfig, error) {
	data, err := dataFS.ReadFile(defaultBattleConfigPath)
	if err != nil {
		return BattleConfig{}, fmt.Errorf("failed to read embedded %s: %w", defaultBattleConfigPath, err)
	}
	return ParseBattleConfig(data)
}

// BuiltinScenarioNames 返回内置场景名称（文件名去掉 .yaml，升序）
func BuiltinScenarioNames() []string {
	entries, err := fs.ReadDir(dataFS, defaultScenarioDir)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

// BuiltinScenario 按名称加载内置场景
func BuiltinScenario(name string) (*Scenario, error) {
	p := path.Join(defaultScenarioDir, name+".yaml")
	data, err := dataFS.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("builtin scenario %q not found: %w", name, err)
	}
	sc, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	return sc, nil
}
