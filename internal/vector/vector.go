package vector

import (
	"encoding/binary"
	"math"
)

// #region dimension

// Dimension indexes one life-area axis of the coherence vector.
type Dimension int

const (
	Proposito Dimension = iota
	Mental
	Relacional
	Emocional
	Somatico
	EticoAcao
	Recursos

	NumDimensions = 7
)

var dimensionNames = [NumDimensions]string{
	"proposito",
	"mental",
	"relacional",
	"emocional",
	"somatico",
	"eticoAcao",
	"recursos",
}

// String returns the canonical lowercase name of the dimension.
func (d Dimension) String() string {
	if d < 0 || d >= NumDimensions {
		return "unknown"
	}
	return dimensionNames[d]
}

// Label returns the human-readable display name of the dimension.
func (d Dimension) Label() string {
	labels := [NumDimensions]string{
		"Propósito", "Mental", "Relacional", "Emocional",
		"Somático", "Ética & Ação", "Recursos",
	}
	if d < 0 || d >= NumDimensions {
		return "Unknown"
	}
	return labels[d]
}

// Dimensions returns all dimensions in their fixed iteration order.
func Dimensions() [NumDimensions]Dimension {
	return [NumDimensions]Dimension{
		Proposito, Mental, Relacional, Emocional, Somatico, EticoAcao, Recursos,
	}
}

// ParseDimension maps a canonical name back to a Dimension.
// Returns -1 and false for unknown names.
func ParseDimension(name string) (Dimension, bool) {
	for i, n := range dimensionNames {
		if n == name {
			return Dimension(i), true
		}
	}
	return -1, false
}

// #endregion dimension

// #region axis

// Axis selects one of the two independent scores within a dimension.
type Axis int

const (
	Coerencia Axis = iota
	Dissonancia
)

// String returns the canonical name of the axis.
func (a Axis) String() string {
	if a == Dissonancia {
		return "dissonancia"
	}
	return "coerencia"
}

// #endregion axis

// #region dimension-state

// DimensionState holds the two independent scores of one dimension.
// Coerência and dissonância are separate axes, not complements: both can
// be high at once (ambivalence) or low at once (apathy).
type DimensionState struct {
	Coerencia   float64 `json:"coerencia"`
	Dissonancia float64 `json:"dissonancia"`
}

// #endregion dimension-state

// #region vector

// Vector is the full coherence state: one alignment scalar plus seven
// dimensions. It is a value type — assignment copies, which keeps the
// orchestration engine pure.
type Vector struct {
	AlinhamentoPAC float64
	Dims           [NumDimensions]DimensionState
}

// Seed returns the fixed first-run vector.
func Seed() Vector {
	v := Vector{AlinhamentoPAC: 50}
	for i := range v.Dims {
		v.Dims[i] = DimensionState{Coerencia: 50, Dissonancia: 20}
	}
	return v
}

// Get reads one axis value.
func (v Vector) Get(d Dimension, a Axis) float64 {
	if a == Dissonancia {
		return v.Dims[d].Dissonancia
	}
	return v.Dims[d].Coerencia
}

// Set writes one axis value, clamped to [0,100].
func (v *Vector) Set(d Dimension, a Axis, val float64) {
	val = ClampScore(val)
	if a == Dissonancia {
		v.Dims[d].Dissonancia = val
	} else {
		v.Dims[d].Coerencia = val
	}
}

// Add applies a clamped delta to one axis value.
func (v *Vector) Add(d Dimension, a Axis, delta float64) {
	v.Set(d, a, v.Get(d, a)+delta)
}

// Clamp forces every field into [0,100]. Idempotent.
func (v *Vector) Clamp() {
	v.AlinhamentoPAC = ClampScore(v.AlinhamentoPAC)
	for i := range v.Dims {
		v.Dims[i].Coerencia = ClampScore(v.Dims[i].Coerencia)
		v.Dims[i].Dissonancia = ClampScore(v.Dims[i].Dissonancia)
	}
}

// InBounds reports whether every field is already within [0,100].
func (v Vector) InBounds() bool {
	if v.AlinhamentoPAC < 0 || v.AlinhamentoPAC > 100 {
		return false
	}
	for _, ds := range v.Dims {
		if ds.Coerencia < 0 || ds.Coerencia > 100 {
			return false
		}
		if ds.Dissonancia < 0 || ds.Dissonancia > 100 {
			return false
		}
	}
	return true
}

// ClampScore clamps a single value to [0,100].
func ClampScore(val float64) float64 {
	if val < 0 {
		return 0
	}
	if val > 100 {
		return 100
	}
	return val
}

// #endregion vector

// #region codec

const encodedLen = (1 + NumDimensions*2) * 8

// Encode serializes the vector to a fixed-layout little-endian blob:
// alinhamentoPAC first, then coerência/dissonância pairs in dimension order.
func Encode(v Vector) []byte {
	buf := make([]byte, encodedLen)
	binary.LittleEndian.PutUint64(buf, math.Float64bits(v.AlinhamentoPAC))
	for i, ds := range v.Dims {
		off := (1 + i*2) * 8
		binary.LittleEndian.PutUint64(buf[off:], math.Float64bits(ds.Coerencia))
		binary.LittleEndian.PutUint64(buf[off+8:], math.Float64bits(ds.Dissonancia))
	}
	return buf
}

// Decode deserializes a blob produced by Encode. Short blobs decode the
// fields they cover and leave the rest zero; values are clamped on the way
// in so a corrupt blob cannot produce out-of-range state.
func Decode(b []byte) Vector {
	var v Vector
	read := func(off int) float64 {
		if off+8 <= len(b) {
			return math.Float64frombits(binary.LittleEndian.Uint64(b[off:]))
		}
		return 0
	}
	v.AlinhamentoPAC = read(0)
	for i := range v.Dims {
		off := (1 + i*2) * 8
		v.Dims[i].Coerencia = read(off)
		v.Dims[i].Dissonancia = read(off + 8)
	}
	v.Clamp()
	return v
}

// #endregion codec
