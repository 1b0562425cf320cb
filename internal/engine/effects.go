package engine

import (
	"github.com/vidaplena/coherence-engine/internal/activity"
	"github.com/vidaplena/coherence-engine/internal/projection"
	"github.com/vidaplena/coherence-engine/internal/vector"
)

// #region adjustment

// Adjustment is one clamped delta applied to a single axis of a dimension.
// Deltas are small positive numbers on coerência and small negative numbers
// on dissonância (an improvement on either axis).
type Adjustment struct {
	Dim   vector.Dimension
	Axis  vector.Axis
	Delta float64
}

// #endregion adjustment

// #region tool-effect

// ToolEffect describes what a single tool usage does to state.
type ToolEffect struct {
	Points      int
	Adjustments []Adjustment

	// ScoreBearing tools compute points from the 1-10 coherence score
	// embedded in their result and blend BlendDim by a weighted average
	// instead of a flat delta.
	ScoreBearing bool
	Composite    bool // composite tools add Config.CompositeBonus on top
	BlendDim     vector.Dimension
}

// toolEffects is the static dispatch table for tool usage. Tools absent
// from the table are silent no-ops.
var toolEffects = map[activity.Tool]ToolEffect{
	activity.ToolMeditation: {
		Points: 5,
		Adjustments: []Adjustment{
			{vector.Somatico, vector.Coerencia, 3},
			{vector.Mental, vector.Dissonancia, -2},
		},
	},
	activity.ToolBreathwork: {
		Points: 4,
		Adjustments: []Adjustment{
			{vector.Somatico, vector.Coerencia, 2},
			{vector.Emocional, vector.Dissonancia, -2},
		},
	},
	activity.ToolDoshDiagnosis: {
		Points: 6,
		Adjustments: []Adjustment{
			{vector.Somatico, vector.Coerencia, 2},
			{vector.Somatico, vector.Dissonancia, -1},
			{vector.Recursos, vector.Coerencia, 1},
		},
	},
	activity.ToolRoutineAligner: {
		Points: 6,
		Adjustments: []Adjustment{
			{vector.Recursos, vector.Coerencia, 3},
			{vector.EticoAcao, vector.Coerencia, 2},
		},
	},
	activity.ToolMantraBuilder: {
		Points: 4,
		Adjustments: []Adjustment{
			{vector.Proposito, vector.Coerencia, 2},
			{vector.Mental, vector.Dissonancia, -1},
		},
	},
	activity.ToolGratitudeJournal: {
		Points: 5,
		Adjustments: []Adjustment{
			{vector.Emocional, vector.Coerencia, 3},
			{vector.Relacional, vector.Coerencia, 1},
		},
	},
	activity.ToolDreamInterpreter: {
		ScoreBearing: true,
		BlendDim:     vector.Mental,
		Adjustments: []Adjustment{
			{vector.Emocional, vector.Dissonancia, -1},
		},
	},
	activity.ToolRitualComposer: {
		ScoreBearing: true,
		Composite:    true,
		BlendDim:     vector.Proposito,
		Adjustments: []Adjustment{
			{vector.EticoAcao, vector.Coerencia, 2},
		},
	},
}

// #endregion tool-effect

// #region category-boosts

// categoryBoosts maps a chat mentor category to the 1-2 dimensions it
// strengthens.
var categoryBoosts = map[projection.Category][]vector.Dimension{
	projection.CategoryWellness:      {vector.Somatico},
	projection.CategoryIntrospection: {vector.Proposito, vector.Mental},
	projection.CategoryRelationships: {vector.Relacional, vector.Emocional},
	projection.CategoryGuidance:      {vector.EticoAcao, vector.Recursos},
}

// #endregion category-boosts
