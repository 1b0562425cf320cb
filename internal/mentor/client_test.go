package mentor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/vidaplena/coherence-engine/internal/activity"
	"github.com/vidaplena/coherence-engine/internal/projection"
	"github.com/vidaplena/coherence-engine/internal/vector"
)

// fakeGenerator returns a canned response, recording the last prompt.
type fakeGenerator struct {
	response   string
	err        error
	lastPrompt string
}

func (f *fakeGenerator) GenerateText(_ context.Context, prompt string) (string, error) {
	f.lastPrompt = prompt
	return f.response, f.err
}

func TestParseVectorJSON(t *testing.T) {
	text := "Here is the analysis:\n```json\n" +
		`{"alinhamentoPAC":70,"proposito":{"coerencia":80,"dissonancia":10},` +
		`"mental":{"coerencia":60,"dissonancia":30},"relacional":{"coerencia":55,"dissonancia":25},` +
		`"emocional":{"coerencia":50,"dissonancia":40},"somatico":{"coerencia":45,"dissonancia":20},` +
		`"eticoAcao":{"coerencia":65,"dissonancia":15},"recursos":{"coerencia":58,"dissonancia":22}}` +
		"\n```\nHope this helps."

	v, err := ParseVectorJSON(text)
	if err != nil {
		t.Fatalf("ParseVectorJSON: %v", err)
	}
	if v.AlinhamentoPAC != 70 {
		t.Fatalf("expected PAC 70, got %f", v.AlinhamentoPAC)
	}
	if v.Dims[vector.Proposito].Coerencia != 80 {
		t.Fatalf("expected proposito coerência 80, got %f", v.Dims[vector.Proposito].Coerencia)
	}
}

func TestParseVectorJSONClampsOutOfRange(t *testing.T) {
	v, err := ParseVectorJSON(`{"alinhamentoPAC":250,"mental":{"coerencia":-10,"dissonancia":180}}`)
	if err != nil {
		t.Fatalf("ParseVectorJSON: %v", err)
	}
	if !v.InBounds() {
		t.Fatalf("parsed vector out of bounds: %+v", v)
	}
}

func TestParseVectorJSONNoObject(t *testing.T) {
	if _, err := ParseVectorJSON("I cannot help with that."); err == nil {
		t.Fatal("expected an error for output without JSON")
	}
}

func TestAnalyzeReflection(t *testing.T) {
	gen := &fakeGenerator{response: `{"alinhamentoPAC":66}`}
	c := NewClient(gen)

	v, err := c.AnalyzeReflection(context.Background(), "today was calm")
	if err != nil {
		t.Fatalf("AnalyzeReflection: %v", err)
	}
	if v.AlinhamentoPAC != 66 {
		t.Fatalf("expected PAC 66, got %f", v.AlinhamentoPAC)
	}
	if !strings.Contains(gen.lastPrompt, "today was calm") {
		t.Fatal("reflection text missing from prompt")
	}
}

func TestAnalyzeReflectionWithoutGenerator(t *testing.T) {
	c := NewClient(nil)
	if _, err := c.AnalyzeReflection(context.Background(), "x"); err == nil {
		t.Fatal("expected an error without a generator")
	}
}

func TestChatTurn(t *testing.T) {
	gen := &fakeGenerator{response: "Welcome back."}
	c := NewClient(gen)

	reply, err := c.ChatTurn(context.Background(), "guru", "wellness", "hello")
	if err != nil {
		t.Fatalf("ChatTurn: %v", err)
	}
	if reply != "Welcome back." {
		t.Fatalf("unexpected reply %q", reply)
	}
}

func TestSuggestQuestFallback(t *testing.T) {
	c := NewClient(nil)
	v := vector.Seed()
	v.Dims[vector.Somatico].Dissonancia = 90

	q := c.SuggestQuest(context.Background(), v)
	if q.TargetTool != activity.ToolMeditation {
		t.Fatalf("expected meditation for wellness, got %s", q.TargetTool)
	}
	if q.TargetDimension != vector.Somatico {
		t.Fatalf("expected somatico target, got %s", q.TargetDimension)
	}
	if q.ID == "" || q.Description == "" {
		t.Fatal("quest missing ID or description")
	}
}

func TestSuggestQuestUsesModelDescription(t *testing.T) {
	gen := &fakeGenerator{response: "Sit with your breath today."}
	c := NewClient(gen)

	q := c.SuggestQuest(context.Background(), vector.Seed())
	if q.Description != "Sit with your breath today." {
		t.Fatalf("unexpected description %q", q.Description)
	}
}

func TestSuggestQuestModelFailureFallsBack(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("quota exceeded")}
	c := NewClient(gen)

	q := c.SuggestQuest(context.Background(), vector.Seed())
	if q.Description == "" {
		t.Fatal("expected fallback description")
	}
}

func TestQuestToolCoversAllCategories(t *testing.T) {
	for _, cat := range []projection.Category{
		projection.CategoryWellness,
		projection.CategoryIntrospection,
		projection.CategoryRelationships,
		projection.CategoryGuidance,
	} {
		if _, ok := categoryQuestTool[cat]; !ok {
			t.Fatalf("no quest tool for category %s", cat)
		}
	}
}
