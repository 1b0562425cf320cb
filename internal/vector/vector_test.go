package vector

import (
	"encoding/json"
	"testing"
)

func TestSeedInBounds(t *testing.T) {
	v := Seed()
	if !v.InBounds() {
		t.Fatal("seed vector out of bounds")
	}
	if v.AlinhamentoPAC != 50 {
		t.Fatalf("expected seed PAC 50, got %f", v.AlinhamentoPAC)
	}
	for _, d := range Dimensions() {
		if v.Dims[d].Coerencia != 50 || v.Dims[d].Dissonancia != 20 {
			t.Fatalf("unexpected seed state for %s: %+v", d, v.Dims[d])
		}
	}
}

func TestClampIdempotent(t *testing.T) {
	v := Vector{AlinhamentoPAC: 150}
	v.Dims[Mental] = DimensionState{Coerencia: -10, Dissonancia: 240}

	v.Clamp()
	if v.AlinhamentoPAC != 100 {
		t.Fatalf("PAC not clamped: %f", v.AlinhamentoPAC)
	}
	if v.Dims[Mental].Coerencia != 0 || v.Dims[Mental].Dissonancia != 100 {
		t.Fatalf("mental not clamped: %+v", v.Dims[Mental])
	}

	before := v
	v.Clamp()
	if v != before {
		t.Fatal("second clamp changed the vector")
	}
}

func TestAddClampsAtBounds(t *testing.T) {
	v := Seed()
	v.Set(Somatico, Coerencia, 99)
	v.Add(Somatico, Coerencia, 5)
	if got := v.Get(Somatico, Coerencia); got != 100 {
		t.Fatalf("expected clamp at 100, got %f", got)
	}

	v.Set(Emocional, Dissonancia, 1)
	v.Add(Emocional, Dissonancia, -5)
	if got := v.Get(Emocional, Dissonancia); got != 0 {
		t.Fatalf("expected clamp at 0, got %f", got)
	}
}

func TestCodecRoundTrip(t *testing.T) {
	v := Seed()
	v.AlinhamentoPAC = 73.5
	v.Dims[Recursos] = DimensionState{Coerencia: 12.25, Dissonancia: 88}

	got := Decode(Encode(v))
	if got != v {
		t.Fatalf("round trip mismatch:\n  in:  %+v\n  out: %+v", v, got)
	}
}

func TestDecodeShortBlob(t *testing.T) {
	v := Decode([]byte{1, 2, 3})
	if !v.InBounds() {
		t.Fatal("short blob decoded out of bounds")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	v := Seed()
	v.Dims[EticoAcao] = DimensionState{Coerencia: 61, Dissonancia: 34}

	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got Vector
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got != v {
		t.Fatalf("round trip mismatch:\n  in:  %+v\n  out: %+v", v, got)
	}
}

func TestJSONUsesNamedDimensionKeys(t *testing.T) {
	data, err := json.Marshal(Seed())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal raw: %v", err)
	}
	for _, key := range []string{"alinhamentoPAC", "proposito", "mental", "relacional", "emocional", "somatico", "eticoAcao", "recursos"} {
		if _, ok := raw[key]; !ok {
			t.Fatalf("missing key %q in %s", key, data)
		}
	}
}

func TestJSONUnmarshalClamps(t *testing.T) {
	var v Vector
	if err := json.Unmarshal([]byte(`{"alinhamentoPAC":130,"mental":{"coerencia":-5,"dissonancia":210}}`), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !v.InBounds() {
		t.Fatalf("unmarshal left vector out of bounds: %+v", v)
	}
}

func TestParseDimension(t *testing.T) {
	for _, d := range Dimensions() {
		got, ok := ParseDimension(d.String())
		if !ok || got != d {
			t.Fatalf("round trip failed for %s", d)
		}
	}
	if _, ok := ParseDimension("nope"); ok {
		t.Fatal("expected unknown name to fail")
	}
}
