package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/vidaplena/coherence-engine/internal/activity"
	"github.com/vidaplena/coherence-engine/internal/engine"
	"github.com/vidaplena/coherence-engine/internal/ledger"
	"github.com/vidaplena/coherence-engine/internal/vector"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := New(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoadFreshDatabase(t *testing.T) {
	s := tempStore(t)
	agg, found, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if found {
		t.Fatal("fresh database should report not found")
	}
	if agg.Vector != vector.Seed() {
		t.Fatal("fresh aggregate should carry the seed vector")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := tempStore(t)
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	agg := ledger.NewAggregate()
	agg.Vector.Dims[vector.Emocional] = vector.DimensionState{Coerencia: 71, Dissonancia: 12}
	agg.CoherencePoints = 320
	agg.CoherenceStreak = 4
	agg.LastActivityAt = at
	agg.TotalCombos = 3
	agg.ActiveCombo = &ledger.Combo{LastTool: activity.ToolMeditation, StartTime: at}
	agg.ActiveQuest = &ledger.Quest{
		ID:              "q1",
		TargetTool:      activity.ToolBreathwork,
		TargetDimension: vector.Somatico,
		Description:     "Breathe",
		CreatedAt:       at,
	}
	agg.CompletedQuests = []ledger.Quest{{ID: "q0", TargetTool: activity.ToolMeditation, CreatedAt: at, CompletedAt: at}}
	agg.Achievements["first_quest"] = at
	agg.Log = []activity.LogEntry{
		{
			ID:             "e2",
			Activity:       activity.ToolUsage(activity.ToolMeditation, nil, at.Add(time.Hour)),
			PointsGained:   5,
			Timestamp:      at.Add(time.Hour),
			VectorSnapshot: agg.Vector,
		},
		{
			ID:             "e1",
			Activity:       activity.ChatSession("guru", "wellness", 10, at),
			PointsGained:   4,
			Timestamp:      at,
			VectorSnapshot: agg.Vector,
		},
	}

	if err := s.Save(agg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, found, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !found {
		t.Fatal("expected saved state")
	}
	if got.Vector != agg.Vector {
		t.Fatalf("vector mismatch:\n  in:  %+v\n  out: %+v", agg.Vector, got.Vector)
	}
	if got.CoherencePoints != 320 || got.CoherenceStreak != 4 || got.TotalCombos != 3 {
		t.Fatalf("counters mismatch: %+v", got)
	}
	if !got.LastActivityAt.Equal(at) {
		t.Fatalf("last activity mismatch: %s", got.LastActivityAt)
	}
	if got.ActiveCombo == nil || got.ActiveCombo.LastTool != activity.ToolMeditation {
		t.Fatalf("combo mismatch: %+v", got.ActiveCombo)
	}
	if got.ActiveQuest == nil || got.ActiveQuest.TargetTool != activity.ToolBreathwork {
		t.Fatalf("quest mismatch: %+v", got.ActiveQuest)
	}
	if len(got.CompletedQuests) != 1 || got.CompletedQuests[0].ID != "q0" {
		t.Fatalf("completed quests mismatch: %+v", got.CompletedQuests)
	}
	if _, ok := got.Achievements["first_quest"]; !ok {
		t.Fatal("achievement lost")
	}
	if len(got.Log) != 2 || got.Log[0].ID != "e2" || got.Log[1].ID != "e1" {
		t.Fatalf("log order lost: %+v", got.Log)
	}
	if got.Log[1].Activity.MessageCount != 10 {
		t.Fatal("chat payload lost")
	}
}

func TestLevelIsDerivedOnLoad(t *testing.T) {
	s := tempStore(t)
	agg := ledger.NewAggregate()
	agg.CoherencePoints = 600
	// Deliberately wrong stored level: it must not survive a load.
	agg.CoherenceLevel = 5
	if err := s.Save(agg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, _, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	led := ledger.New(got, ledger.DefaultConfig(), engine.DefaultConfig(), ledger.NopNotifier{})
	if led.Level() != ledger.LevelForPoints(600) {
		t.Fatalf("level not rederived: got %d", led.Level())
	}
}

func TestSaveOverwrites(t *testing.T) {
	s := tempStore(t)
	agg := ledger.NewAggregate()
	agg.CoherencePoints = 10
	if err := s.Save(agg); err != nil {
		t.Fatalf("first Save: %v", err)
	}
	agg.CoherencePoints = 20
	if err := s.Save(agg); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	got, _, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.CoherencePoints != 20 {
		t.Fatalf("expected 20 points, got %d", got.CoherencePoints)
	}
}

func TestIsCapacityError(t *testing.T) {
	if !IsCapacityError(errors.New("database or disk is full")) {
		t.Fatal("expected capacity error")
	}
	if !IsCapacityError(errors.New("write failed: SQLITE_FULL")) {
		t.Fatal("expected capacity error")
	}
	if IsCapacityError(errors.New("syntax error")) {
		t.Fatal("unexpected capacity error")
	}
	if IsCapacityError(nil) {
		t.Fatal("nil is not a capacity error")
	}
}
