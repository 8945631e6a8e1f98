package common

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config is the layered configuration for a huntline invocation: defaults,
// then TOML files in the order given, then environment overrides, mirroring
// the teacher's config.LoadFromFiles layering. CLI -config flags only name
// the files; no CLI flag overrides a Config field.
type Config struct {
	Storage    StorageConfig    `toml:"storage"`
	Crawler    CrawlerConfig    `toml:"crawler"`
	Processing ProcessingConfig `toml:"processing"`
	LLM        LLMConfig        `toml:"llm"`
	Logging    LoggingConfig    `toml:"logging"`
}

type StorageConfig struct {
	ResetOnStartup bool `toml:"reset_on_startup"`
}

type CrawlerConfig struct {
	PoolSize         int     `toml:"pool_size"`
	PreWarm          bool    `toml:"pre_warm"`
	PerClickBudgetMS int     `toml:"per_click_budget_ms"`
	MinDelayMS       int     `toml:"min_delay_ms"`
	MaxDelayMS       int     `toml:"max_delay_ms"`
	MaxRetries       int     `toml:"max_retries"`
	UserAgent        string  `toml:"user_agent"`
	ViewportWidth    int     `toml:"viewport_width"`
	ViewportHeight   int     `toml:"viewport_height"`
}

type ProcessingConfig struct {
	Stage1Threshold float64 `toml:"stage1_threshold"`
	CPUWorkers      int     `toml:"cpu_workers"`
	Stage2Workers   int     `toml:"stage2_workers"`
	Stage1Weight    float64 `toml:"stage1_weight"`
	Stage2Weight    float64 `toml:"stage2_weight"`
}

type LLMProvider string

const (
	LLMProviderNone   LLMProvider = "none"
	LLMProviderClaude LLMProvider = "claude"
	LLMProviderGemini LLMProvider = "gemini"
)

type LLMConfig struct {
	DefaultProvider LLMProvider `toml:"default_provider"`
	Model           string      `toml:"model"`
	TimeoutSeconds  int         `toml:"timeout_seconds"`
	APIKeyEnv       string      `toml:"api_key_env"`
}

type LoggingConfig struct {
	Level      string   `toml:"level"`
	Output     []string `toml:"output"`
	FilePath   string   `toml:"file_path"`
	TimeFormat string   `toml:"time_format"`
}

// ProfileRootEnv is the single environment variable that names the profile
// root directory; everything else is read from the profile snapshot or this
// Config.
const ProfileRootEnv = "HUNTLINE_PROFILE_ROOT"

func NewDefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{ResetOnStartup: false},
		Crawler: CrawlerConfig{
			PoolSize:         3,
			PreWarm:          false,
			PerClickBudgetMS: 5000,
			MinDelayMS:       500,
			MaxDelayMS:       2000,
			MaxRetries:       3,
			UserAgent:        "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36",
			ViewportWidth:    1366,
			ViewportHeight:   768,
		},
		Processing: ProcessingConfig{
			Stage1Threshold: 0.5,
			CPUWorkers:      4,
			Stage2Workers:   2,
			Stage1Weight:    0.4,
			Stage2Weight:    0.6,
		},
		LLM: LLMConfig{
			DefaultProvider: LLMProviderNone,
			TimeoutSeconds:  20,
			APIKeyEnv:       "ANTHROPIC_API_KEY",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
	}
}

// LoadFromFiles reads cfg from the given TOML files in order, each one
// overlaying the last, starting from NewDefaultConfig.
func LoadFromFiles(paths ...string) (*Config, error) {
	cfg := NewDefaultConfig()
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HUNTLINE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("HUNTLINE_LLM_PROVIDER"); v != "" {
		cfg.LLM.DefaultProvider = LLMProvider(v)
	}
}

// ProfileRoot resolves the profile root directory from the environment, per
// the single-environment-variable contract.
func ProfileRoot() (string, error) {
	root := os.Getenv(ProfileRootEnv)
	if root == "" {
		return "", fmt.Errorf("%s is not set", ProfileRootEnv)
	}
	return root, nil
}
