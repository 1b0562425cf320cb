package projection

import (
	"math"

	"github.com/vidaplena/coherence-engine/internal/vector"
)

// #region category

// Category identifies the mentor category responsible for a dimension.
type Category string

const (
	CategoryWellness      Category = "wellness"
	CategoryIntrospection Category = "introspection"
	CategoryRelationships Category = "relationships"
	CategoryGuidance      Category = "guidance"
)

// defaultCategory is returned when no dimension can be selected. With the
// fixed seven-dimension schema this never fires, but the selector keeps a
// safe fallback rather than panicking on an impossible input.
const defaultCategory = CategoryIntrospection

// dimensionCategory maps each dimension to its responsible mentor category.
// Several dimensions share a category.
var dimensionCategory = map[vector.Dimension]Category{
	vector.Proposito:  CategoryIntrospection,
	vector.Mental:     CategoryIntrospection,
	vector.Relacional: CategoryRelationships,
	vector.Emocional:  CategoryRelationships,
	vector.Somatico:   CategoryWellness,
	vector.EticoAcao:  CategoryGuidance,
	vector.Recursos:   CategoryGuidance,
}

// #endregion category

// #region score

// Score projects the full vector onto a single 0-100 integer.
// net coherence (avg coerência minus avg dissonância) is scaled by a PAC
// factor in [0.9, 1.1] and re-centered into [0,100].
func Score(v vector.Vector) int {
	var sumC, sumD float64
	for _, ds := range v.Dims {
		sumC += ds.Coerencia
		sumD += ds.Dissonancia
	}
	avgC := sumC / vector.NumDimensions
	avgD := sumD / vector.NumDimensions

	net := avgC - avgD
	pacFactor := (v.AlinhamentoPAC/100)*0.2 + 0.9
	raw := (net*pacFactor + 100) / 2

	return int(math.Round(vector.ClampScore(raw)))
}

// #endregion score

// #region recommend

// Recommend picks the dimension with the strictly highest dissonância
// (ties keep the earliest in the fixed dimension order) and maps it to the
// mentor category responsible for it.
func Recommend(v vector.Vector) (Category, vector.Dimension) {
	best := vector.Dimension(-1)
	bestVal := math.Inf(-1)
	for _, d := range vector.Dimensions() {
		if val := v.Dims[d].Dissonancia; val > bestVal {
			best = d
			bestVal = val
		}
	}
	if best < 0 {
		return defaultCategory, vector.Proposito
	}
	return dimensionCategory[best], best
}

// #endregion recommend
