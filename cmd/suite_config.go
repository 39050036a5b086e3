package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SuiteConfig describes one benchmark suite: which policies were run, which
// of them is the adaptive policy, and the workload prefix used in file names.
type SuiteConfig struct {
	Workload       string   `yaml:"workload"`
	Policies       []string `yaml:"policies"`
	AdaptivePolicy string   `yaml:"adaptive_policy"`
}

// DefaultSuiteConfig returns the get-scan suite the harness ships with.
func DefaultSuiteConfig() SuiteConfig {
	return SuiteConfig{
		Workload: "get_scan",
		Policies: []string{
			"cache_ext_get_scan",
			"cache_ext_mru",
			"cache_ext_fifo",
			"cache_ext_lhd",
			"cache_ext_s3fifo",
			"cache_ext_adaptive_v2",
		},
		AdaptivePolicy: "cache_ext_adaptive_v2",
	}
}

// LoadSuiteConfig reads a suite description from a YAML file.
func LoadSuiteConfig(path string) (SuiteConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SuiteConfig{}, err
	}

	var cfg SuiteConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return SuiteConfig{}, fmt.Errorf("parsing suite config %s: %w", path, err)
	}
	if len(cfg.Policies) == 0 {
		return SuiteConfig{}, fmt.Errorf("suite config %s lists no policies", path)
	}
	if cfg.Workload == "" {
		cfg.Workload = DefaultSuiteConfig().Workload
	}
	return cfg, nil
}
