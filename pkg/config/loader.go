package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v2"

	"github.com/GF0201/CWKGQA/pkg/observability/logging"
)

var (
	config     *EngineConfig
	configOnce sync.Once
	configErr  error
	configMu   sync.RWMutex
)

// Load loads the configuration from the specified YAML file once and caches
// it globally. Later calls return the cached config regardless of path.
func Load(configPath string) (*EngineConfig, error) {
	configOnce.Do(func() {
		cfg, err := Parse(configPath)
		if err != nil {
			configErr = err
			return
		}
		configMu.Lock()
		config = cfg
		configMu.Unlock()
	})
	if configErr != nil {
		return nil, configErr
	}
	configMu.RLock()
	defer configMu.RUnlock()
	return config, nil
}

// Parse parses and validates the YAML config file without touching the
// global cache.
func Parse(configPath string) (*EngineConfig, error) {
	// Resolve symlinks to handle configmap-style mounts
	resolved, _ := filepath.EvalSymlinks(configPath)
	if resolved == "" {
		resolved = configPath
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &EngineConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()

	if err := validateConfigStructure(cfg); err != nil {
		return nil, err
	}

	logging.Infof("Config loaded: rules=%d, labels=%d, conflict_pairs=%d",
		len(cfg.Rules), len(cfg.IntentLabels), len(cfg.ConflictMatrix))
	return cfg, nil
}

// Replace replaces the globally cached config. Safe for concurrent readers.
func Replace(newCfg *EngineConfig) {
	configMu.Lock()
	config = newCfg
	configErr = nil
	configMu.Unlock()
}

// Get returns the current cached configuration, or nil before Load.
func Get() *EngineConfig {
	configMu.RLock()
	defer configMu.RUnlock()
	return config
}
