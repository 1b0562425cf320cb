package engine

import (
	"github.com/vidaplena/coherence-engine/internal/vector"
)

// #region decision

// Decision records what the orchestration pass decided, for provenance.
type Decision struct {
	Action string // "adjust" | "replace" | "no_op"
	Reason string
}

// #endregion decision

// #region result

// Result bundles everything returned by Orchestrate().
type Result struct {
	NewVector    vector.Vector
	PointsGained int
	Decision     Decision
}

// #endregion result

// #region config

// Config holds the tuning constants of the engine. The literal values are
// product-tuning defaults, not invariants; persisted data compatibility is
// the only reason to pin them.
type Config struct {
	ChatMinMessages    int     // sessions at or below this count are inert
	ChatBoostCap       int     // max per-session dimension boost
	ChatPointsPerBoost int     // points awarded per boost unit
	ScorePointFactor   int     // points = embedded score * this
	CompositeBonus     int     // extra points for the composite ritual tool
	BlendWeight        float64 // recency weight of the embedded score
	VisualizerPoints   int     // flat award for a self-reflection replacement
}

// DefaultConfig returns the tuning defaults.
func DefaultConfig() Config {
	return Config{
		ChatMinMessages:    4,
		ChatBoostCap:       3,
		ChatPointsPerBoost: 2,
		ScorePointFactor:   2,
		CompositeBonus:     10,
		BlendWeight:        0.2,
		VisualizerPoints:   10,
	}
}

// #endregion config
