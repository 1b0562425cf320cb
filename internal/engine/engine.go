package engine

import (
	"fmt"

	"github.com/vidaplena/coherence-engine/internal/activity"
	"github.com/vidaplena/coherence-engine/internal/projection"
	"github.com/vidaplena/coherence-engine/internal/vector"
)

// #region orchestrate

// Orchestrate is a pure function computing the next vector and point award
// for one activity. No I/O, deterministic given its inputs. The vector is a
// value type, so cur is never mutated.
func Orchestrate(act activity.Activity, cur vector.Vector, cfg Config) Result {
	switch act.Kind {
	case activity.KindChatSession:
		return orchestrateChat(act, cur, cfg)
	case activity.KindToolUsage:
		return orchestrateTool(act, cur, cfg)
	default:
		// System-generated kinds are history-only.
		return Result{
			NewVector: cur,
			Decision:  Decision{Action: "no_op", Reason: fmt.Sprintf("kind %s carries no effects", act.Kind)},
		}
	}
}

// #endregion orchestrate

// #region chat

// orchestrateChat applies the diminishing per-message credit of a chat
// session. Sessions at or below the minimum are too short to be meaningful.
func orchestrateChat(act activity.Activity, cur vector.Vector, cfg Config) Result {
	if act.MessageCount <= cfg.ChatMinMessages {
		return Result{
			NewVector: cur,
			Decision:  Decision{Action: "no_op", Reason: fmt.Sprintf("%d messages under threshold", act.MessageCount)},
		}
	}

	boost := (act.MessageCount - 2) / 4
	if boost > cfg.ChatBoostCap {
		boost = cfg.ChatBoostCap
	}
	if boost == 0 {
		return Result{
			NewVector: cur,
			Decision:  Decision{Action: "no_op", Reason: "session too short for a boost"},
		}
	}

	dims := categoryBoosts[projection.Category(act.Category)]
	for _, d := range dims {
		cur.Add(d, vector.Coerencia, float64(boost))
	}

	return Result{
		NewVector:    cur,
		PointsGained: boost * cfg.ChatPointsPerBoost,
		Decision: Decision{
			Action: "adjust",
			Reason: fmt.Sprintf("chat boost %d on category %s", boost, act.Category),
		},
	}
}

// #endregion chat

// #region tool

// orchestrateTool dispatches on the static effect table. The visualizer is
// the one state-setting special case: its result carries a full replacement
// vector from the upstream analysis collaborator.
func orchestrateTool(act activity.Activity, cur vector.Vector, cfg Config) Result {
	if act.Tool == activity.ToolVisualizer {
		return orchestrateVisualizer(act, cur, cfg)
	}

	eff, ok := toolEffects[act.Tool]
	if !ok {
		// Unknown tool: tolerate forward-compatible additions silently.
		return Result{
			NewVector: cur,
			Decision:  Decision{Action: "no_op", Reason: fmt.Sprintf("unknown tool %q", act.Tool)},
		}
	}

	points := eff.Points
	if eff.ScoreBearing {
		score := embeddedScore(act)
		points = int(score) * cfg.ScorePointFactor
		if eff.Composite {
			points += cfg.CompositeBonus
		}
		// Recency-weighted blend toward the embedded assessment rather
		// than a flat nudge.
		old := cur.Get(eff.BlendDim, vector.Coerencia)
		blended := old*(1-cfg.BlendWeight) + score*10*cfg.BlendWeight
		cur.Set(eff.BlendDim, vector.Coerencia, blended)
	}

	for _, adj := range eff.Adjustments {
		cur.Add(adj.Dim, adj.Axis, adj.Delta)
	}

	return Result{
		NewVector:    cur,
		PointsGained: points,
		Decision: Decision{
			Action: "adjust",
			Reason: fmt.Sprintf("tool %s: %d adjustments", act.Tool, len(eff.Adjustments)),
		},
	}
}

// orchestrateVisualizer returns the replacement vector verbatim, clamped
// defensively since the upstream analysis is not trusted to stay in range.
func orchestrateVisualizer(act activity.Activity, cur vector.Vector, cfg Config) Result {
	if act.Result == nil || act.Result.ReplacementVector == nil {
		return Result{
			NewVector: cur,
			Decision:  Decision{Action: "no_op", Reason: "visualizer result missing replacement vector"},
		}
	}
	next := *act.Result.ReplacementVector
	next.Clamp()
	return Result{
		NewVector:    next,
		PointsGained: cfg.VisualizerPoints,
		Decision:     Decision{Action: "replace", Reason: "visualizer replacement vector"},
	}
}

// embeddedScore extracts the 1-10 coherence score from a tool result,
// clamping malformed payloads into range instead of failing the pipeline.
func embeddedScore(act activity.Activity) float64 {
	if act.Result == nil {
		return 1
	}
	s := act.Result.CoherenceScore
	if s < 1 {
		return 1
	}
	if s > 10 {
		return 10
	}
	return s
}

// #endregion tool
