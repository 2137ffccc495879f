// Package config loads engine configuration from YAML with environment
// overrides.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the top-level configuration tree.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Engine  EngineConfig  `mapstructure:"engine"`
	AI      AIConfig      `mapstructure:"ai"`
}

// LoggingConfig controls the zap logger built by the caller.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// EngineConfig carries the externally-consumed combat knobs. The core
// engine enforces none of these; TurnTimeLimit in particular is only
// meaningful to an external scheduler.
type EngineConfig struct {
	MaxCombatants   int           `mapstructure:"max_combatants"`
	MaxRounds       int           `mapstructure:"max_rounds"`
	TurnTimeLimit   time.Duration `mapstructure:"turn_time_limit"`
	DefaultAccuracy int           `mapstructure:"default_accuracy"`
	DefaultEvasion  int           `mapstructure:"default_evasion"`
	DamageVariance  float64       `mapstructure:"damage_variance"`
}

// ArchetypeConfig tunes one AI archetype's decision thresholds,
// expressed as health fractions.
type ArchetypeConfig struct {
	DefendThreshold float64 `mapstructure:"defend_threshold"`
	FleeThreshold   float64 `mapstructure:"flee_threshold"`
}

// AIConfig holds the per-archetype threshold tables.
type AIConfig struct {
	Defensive ArchetypeConfig `mapstructure:"defensive"`
	Balanced  ArchetypeConfig `mapstructure:"balanced"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("engine.max_combatants", 8)
	v.SetDefault("engine.max_rounds", 100)
	v.SetDefault("engine.turn_time_limit", 30*time.Second)
	v.SetDefault("engine.default_accuracy", 80)
	v.SetDefault("engine.default_evasion", 10)
	v.SetDefault("engine.damage_variance", 0.1)

	v.SetDefault("ai.defensive.defend_threshold", 0.3)
	v.SetDefault("ai.defensive.flee_threshold", 0.0)
	v.SetDefault("ai.balanced.defend_threshold", 0.5)
	v.SetDefault("ai.balanced.flee_threshold", 0.2)
}

// Load reads configuration from the given file. A missing file is not
// an error; defaults and COMBAT_* environment variables still apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("COMBAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, statErr := os.Stat(path); statErr == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
