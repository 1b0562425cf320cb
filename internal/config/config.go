package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/vidaplena/coherence-engine/internal/engine"
	"github.com/vidaplena/coherence-engine/internal/ledger"
)

// #region config

// Config is the process configuration, loaded from environment variables.
type Config struct {
	DBPath     string `env:"COHERENCE_DB" envDefault:"coherence.db"`
	GenAIKey   string `env:"GENAI_API_KEY"`
	GenAIModel string `env:"GENAI_MODEL" envDefault:"gemini-2.0-flash"`

	// Ledger policy overrides. Defaults mirror the ledger package.
	LogCap      int           `env:"COHERENCE_LOG_CAP" envDefault:"100"`
	ComboWindow time.Duration `env:"COHERENCE_COMBO_WINDOW" envDefault:"15m"`
	ComboBonus  int           `env:"COHERENCE_COMBO_BONUS" envDefault:"25"`

	// Engine policy overrides.
	ChatMinMessages int `env:"COHERENCE_CHAT_MIN_MESSAGES" envDefault:"4"`
	ChatBoostCap    int `env:"COHERENCE_CHAT_BOOST_CAP" envDefault:"3"`
}

// Load parses configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// LedgerConfig materializes the ledger policy constants.
func (c Config) LedgerConfig() ledger.Config {
	lc := ledger.DefaultConfig()
	lc.LogCap = c.LogCap
	lc.ComboWindow = c.ComboWindow
	lc.ComboBonus = c.ComboBonus
	return lc
}

// EngineConfig materializes the engine policy constants.
func (c Config) EngineConfig() engine.Config {
	ec := engine.DefaultConfig()
	ec.ChatMinMessages = c.ChatMinMessages
	ec.ChatBoostCap = c.ChatBoostCap
	return ec
}

// #endregion config
