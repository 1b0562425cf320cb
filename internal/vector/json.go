package vector

import "encoding/json"

// #region json

// jsonVector is the wire shape: the alignment scalar plus one named object
// per dimension, matching the persisted format of the original client.
type jsonVector struct {
	AlinhamentoPAC float64        `json:"alinhamentoPAC"`
	Proposito      DimensionState `json:"proposito"`
	Mental         DimensionState `json:"mental"`
	Relacional     DimensionState `json:"relacional"`
	Emocional      DimensionState `json:"emocional"`
	Somatico       DimensionState `json:"somatico"`
	EticoAcao      DimensionState `json:"eticoAcao"`
	Recursos       DimensionState `json:"recursos"`
}

// MarshalJSON encodes the vector with named dimension keys.
func (v Vector) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonVector{
		AlinhamentoPAC: v.AlinhamentoPAC,
		Proposito:      v.Dims[Proposito],
		Mental:         v.Dims[Mental],
		Relacional:     v.Dims[Relacional],
		Emocional:      v.Dims[Emocional],
		Somatico:       v.Dims[Somatico],
		EticoAcao:      v.Dims[EticoAcao],
		Recursos:       v.Dims[Recursos],
	})
}

// UnmarshalJSON decodes named dimension keys and clamps the result.
func (v *Vector) UnmarshalJSON(data []byte) error {
	var jv jsonVector
	if err := json.Unmarshal(data, &jv); err != nil {
		return err
	}
	v.AlinhamentoPAC = jv.AlinhamentoPAC
	v.Dims[Proposito] = jv.Proposito
	v.Dims[Mental] = jv.Mental
	v.Dims[Relacional] = jv.Relacional
	v.Dims[Emocional] = jv.Emocional
	v.Dims[Somatico] = jv.Somatico
	v.Dims[EticoAcao] = jv.EticoAcao
	v.Dims[Recursos] = jv.Recursos
	v.Clamp()
	return nil
}

// #endregion json
