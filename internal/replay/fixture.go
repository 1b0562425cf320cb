package replay

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/vidaplena/coherence-engine/internal/activity"
	"github.com/vidaplena/coherence-engine/internal/ledger"
	"github.com/vidaplena/coherence-engine/internal/vector"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture.
type Fixture struct {
	Description string               `json:"description"`
	Start       FixtureStart         `json:"start"`
	Config      FixtureConfig        `json:"config"`
	Activities  []FixtureActivity    `json:"activities"`
	Expected    []FixtureExpectation `json:"expected"`
}

// FixtureStart is the JSON-serializable initial aggregate subset.
type FixtureStart struct {
	Vector         *vector.Vector `json:"vector,omitempty"` // nil = seed vector
	Points         int            `json:"points"`
	Streak         int            `json:"streak"`
	LastActivityAt time.Time      `json:"last_activity_at,omitempty"`
	TotalCombos    int            `json:"total_combos"`
}

// FixtureConfig mirrors ledger.Config with JSON tags. Zero values fall
// back to the defaults.
type FixtureConfig struct {
	LogCap            int `json:"log_cap"`
	ComboWindowMin    int `json:"combo_window_minutes"`
	ComboBonus        int `json:"combo_bonus"`
	StreakBonusFactor int `json:"streak_bonus_factor"`
}

// FixtureActivity is one recorded activity to replay.
type FixtureActivity struct {
	Kind     string         `json:"kind"`
	Agent    string         `json:"agent,omitempty"`
	Category string         `json:"category,omitempty"`
	Messages int            `json:"messages,omitempty"`
	Tool     string         `json:"tool,omitempty"`
	Score    float64        `json:"score,omitempty"`
	Vector   *vector.Vector `json:"vector,omitempty"` // visualizer replacement
	At       time.Time      `json:"at"`
}

// FixtureExpectation captures the expected state after a given turn
// (1-based index into Activities).
type FixtureExpectation struct {
	Turn        int  `json:"turn"`
	PointsTotal int  `json:"points_total"`
	Level       int  `json:"level"`
	Streak      int  `json:"streak"`
	ComboFired  bool `json:"combo_fired"`
	LogLen      int  `json:"log_len"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// ToAggregate converts the start block to a fresh aggregate.
func (s *FixtureStart) ToAggregate() ledger.Aggregate {
	agg := ledger.NewAggregate()
	if s.Vector != nil {
		agg.Vector = *s.Vector
		agg.Vector.Clamp()
	}
	agg.CoherencePoints = s.Points
	agg.CoherenceStreak = s.Streak
	agg.LastActivityAt = s.LastActivityAt
	agg.TotalCombos = s.TotalCombos
	return agg
}

// ToLedgerConfig converts the config block, defaulting zero fields.
func (c *FixtureConfig) ToLedgerConfig() ledger.Config {
	cfg := ledger.DefaultConfig()
	if c.LogCap > 0 {
		cfg.LogCap = c.LogCap
	}
	if c.ComboWindowMin > 0 {
		cfg.ComboWindow = time.Duration(c.ComboWindowMin) * time.Minute
	}
	if c.ComboBonus > 0 {
		cfg.ComboBonus = c.ComboBonus
	}
	if c.StreakBonusFactor > 0 {
		cfg.StreakBonusFactor = c.StreakBonusFactor
	}
	return cfg
}

// ToActivity converts one fixture row to a domain activity.
func (fa *FixtureActivity) ToActivity() activity.Activity {
	switch activity.Kind(fa.Kind) {
	case activity.KindChatSession:
		return activity.ChatSession(fa.Agent, fa.Category, fa.Messages, fa.At)
	case activity.KindToolUsage:
		var result *activity.ToolResult
		if fa.Score > 0 || fa.Vector != nil {
			result = &activity.ToolResult{
				CoherenceScore:    fa.Score,
				ReplacementVector: fa.Vector,
			}
		}
		return activity.ToolUsage(activity.Tool(fa.Tool), result, fa.At)
	default:
		return activity.System(activity.Kind(fa.Kind), "", fa.At)
	}
}

// #endregion fixture-loader
