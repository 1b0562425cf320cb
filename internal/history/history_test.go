package history

import (
	"testing"
	"time"

	"github.com/vidaplena/coherence-engine/internal/activity"
	"github.com/vidaplena/coherence-engine/internal/vector"
)

func entry(at time.Time, points int) activity.LogEntry {
	return activity.LogEntry{
		ID:             at.Format(time.RFC3339Nano),
		Activity:       activity.ToolUsage(activity.ToolMeditation, nil, at),
		PointsGained:   points,
		Timestamp:      at,
		VectorSnapshot: vector.Seed(),
	}
}

func TestWindowSortsAscending(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	// Newest-first input, as the ledger stores it.
	log := []activity.LogEntry{
		entry(base.Add(2*time.Hour), 5),
		entry(base.Add(time.Hour), 5),
		entry(base, 5),
	}

	points := Window(log, time.Time{})
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}
	for i := 1; i < len(points); i++ {
		if points[i].Timestamp.Before(points[i-1].Timestamp) {
			t.Fatalf("not ascending at index %d", i)
		}
	}
}

func TestWindowCutoff(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	log := []activity.LogEntry{
		entry(base.Add(48*time.Hour), 5),
		entry(base, 5),
	}

	points := Window(log, base.Add(24*time.Hour))
	if len(points) != 1 {
		t.Fatalf("expected 1 point after cutoff, got %d", len(points))
	}
	if !points[0].Timestamp.Equal(base.Add(48 * time.Hour)) {
		t.Fatal("wrong entry survived the cutoff")
	}
}

func TestWindowProjectsScores(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	points := Window([]activity.LogEntry{entry(base, 5)}, time.Time{})
	// Seed vector projects to 65.
	if points[0].Score != 65 {
		t.Fatalf("expected score 65, got %d", points[0].Score)
	}
}

func TestWindowDoesNotMutateLog(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	log := []activity.LogEntry{
		entry(base.Add(time.Hour), 5),
		entry(base, 5),
	}
	Window(log, time.Time{})
	if !log[0].Timestamp.After(log[1].Timestamp) {
		t.Fatal("underlying log order changed")
	}
}

func TestSummarize(t *testing.T) {
	d1 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	log := []activity.LogEntry{
		entry(d2.Add(time.Hour), 6),
		entry(d2, 4),
		entry(d1, 5),
	}

	days := Summarize(log, time.Time{})
	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(days))
	}
	if !days[0].Date.Before(days[1].Date) {
		t.Fatal("days not oldest-first")
	}
	if days[1].Activities != 2 || days[1].Points != 10 {
		t.Fatalf("day 2 summary wrong: %+v", days[1])
	}
	if days[0].Activities != 1 || days[0].Points != 5 {
		t.Fatalf("day 1 summary wrong: %+v", days[0])
	}
}
