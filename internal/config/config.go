// Package config loads the pipeline configuration from YAML with
// environment overrides. Missing files fall back to defaults so the CLI
// works out of the box.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration.
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Judgement JudgementConfig `yaml:"judgement"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// DatabaseConfig points at the SQLite database backing the store.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// RetrievalConfig caps retrieval depth and tunes vector search.
type RetrievalConfig struct {
	MaxToolCalls   int `yaml:"max_tool_calls"`
	MaxMemoryItems int `yaml:"max_memory_items"`
	MaxTokens      int `yaml:"max_tokens"`
	MaxPrecedents  int `yaml:"max_precedents"`

	// ToolTTLSeconds overrides provider TTLs per tool name.
	ToolTTLSeconds map[string]int `yaml:"tool_ttl_seconds"`
	// DefaultTTLSeconds applies to tools absent from ToolTTLSeconds.
	DefaultTTLSeconds int `yaml:"default_ttl_seconds"`

	Vector VectorConfig `yaml:"vector"`
}

// VectorConfig tunes semantic chunk search.
type VectorConfig struct {
	TopK       int     `yaml:"top_k"`
	Threshold  float64 `yaml:"threshold"`
	Dimensions int     `yaml:"dimensions"`
}

// JudgementConfig holds the scoring thresholds and the workspace goal mode.
type JudgementConfig struct {
	RiskAutoExecuteMax   float64 `yaml:"risk_auto_execute_max"`
	RiskHighThreshold    float64 `yaml:"risk_high_threshold"`
	RiskMediumThreshold  float64 `yaml:"risk_medium_threshold"`
	PriorityMinScore     float64 `yaml:"priority_min_score"`
	ApprovalRequiredRisk float64 `yaml:"approval_required_risk"`
	// OrgMode is the current organizational focus, e.g. "fundraising" or
	// "hiring". It shifts priority weighting toward aligned intents.
	OrgMode string `yaml:"org_mode"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "brainstem.db",
		},
		Retrieval: RetrievalConfig{
			MaxToolCalls:   4,
			MaxMemoryItems: 20,
			MaxTokens:      4000,
			MaxPrecedents:  5,
			ToolTTLSeconds: map[string]int{
				"mail":     60,
				"calendar": 120,
				"crm":      300,
			},
			DefaultTTLSeconds: 120,
			Vector: VectorConfig{
				TopK:       5,
				Threshold:  0.3,
				Dimensions: 256,
			},
		},
		Judgement: JudgementConfig{
			RiskAutoExecuteMax:   0.4,
			RiskHighThreshold:    0.7,
			RiskMediumThreshold:  0.4,
			PriorityMinScore:     0.3,
			ApprovalRequiredRisk: 0.6,
			OrgMode:              "default",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults; a malformed file is an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if path := os.Getenv("BRAINSTEM_DB"); path != "" {
		c.Database.Path = path
	}
	if level := os.Getenv("BRAINSTEM_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if mode := os.Getenv("BRAINSTEM_ORG_MODE"); mode != "" {
		c.Judgement.OrgMode = mode
	}
}
