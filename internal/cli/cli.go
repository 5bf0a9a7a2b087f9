// Package cli 命令行工具共用的加载逻辑
package cli

import (
	"fmt"
	"strings"

	"github.com/decker502/pvzsim/pkg/config"
)

// LoadRegistry 加载单位类型注册表
// unitsPath 为空时使用内置的 units.yaml
func LoadRegistry(unitsPath string) (*config.Registry, error) {
	if unitsPath == "" {
		return config.DefaultRegistry()
	}
	stats, err := config.LoadUnitStats(unitsPath)
	if err != nil {
		return nil, err
	}
	return config.NewRegistryFromStats(stats)
}

// LoadScenario 按文件路径或内置名称加载场景（文件优先）
func LoadScenario(name, file string) (*config.Scenario, error) {
	if file != "" {
		return config.LoadScenario(file)
	}
	if name == "" {
		return nil, fmt.Errorf("no scenario given (builtin: %s)", strings.Join(config.BuiltinScenarioNames(), ", "))
	}
	return config.BuiltinScenario(name)
}

// LoadScenarios 加载多个场景
//
// names 为逗号分隔的内置场景名，"all" 表示全部内置场景；files 为场景文件路径
func LoadScenarios(names string, files []string) ([]*config.Scenario, error) {
	scenarios := make([]*config.Scenario, 0)

	if names == "all" {
		names = strings.Join(config.BuiltinScenarioNames(), ",")
	}
	for _, name := range strings.Split(names, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		sc, err := config.BuiltinScenario(name)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, sc)
	}
	for _, file := range files {
		sc, err := config.LoadScenario(file)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, sc)
	}

	if len(scenarios) == 0 {
		return nil, fmt.Errorf("no scenario given (builtin: %s)", strings.Join(config.BuiltinScenarioNames(), ", "))
	}
	return scenarios, nil
}
