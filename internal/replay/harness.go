package replay

import (
	"fmt"

	"github.com/vidaplena/coherence-engine/internal/engine"
	"github.com/vidaplena/coherence-engine/internal/ledger"
	"github.com/vidaplena/coherence-engine/internal/projection"
)

// #region types

// TurnResult captures the outcome of replaying one activity.
type TurnResult struct {
	Turn        int
	Kind        string
	Points      int
	PointsTotal int
	Level       int
	Streak      int
	ComboFired  bool
	LogLen      int
	Mismatch    string // empty when the expectation (if any) matched
}

// Summary provides aggregate stats from a replay run.
type Summary struct {
	Description string
	TotalTurns  int
	Matched     int
	Mismatched  int
	FinalPoints int
	FinalLevel  int
	FinalScore  int
}

// #endregion types

// #region run

// Run replays all fixture activities through a fresh ledger and compares
// each turn against its expectation. Deterministic: timestamps come from
// the fixture, never from the clock.
func Run(f *Fixture) ([]TurnResult, Summary) {
	led := ledger.New(f.Start.ToAggregate(), f.Config.ToLedgerConfig(), engine.DefaultConfig(), ledger.NopNotifier{})

	expByTurn := make(map[int]FixtureExpectation, len(f.Expected))
	for _, e := range f.Expected {
		expByTurn[e.Turn] = e
	}

	results := make([]TurnResult, 0, len(f.Activities))
	summary := Summary{Description: f.Description, TotalTurns: len(f.Activities)}

	for i, fa := range f.Activities {
		turn := i + 1
		res := led.Apply(fa.ToActivity())

		tr := TurnResult{
			Turn:        turn,
			Kind:        fa.Kind,
			Points:      res.Entry.PointsGained,
			PointsTotal: res.TotalPoints,
			Level:       led.Level(),
			Streak:      led.Streak(),
			ComboFired:  res.ComboFired,
			LogLen:      len(led.ActivityLog()),
		}

		if exp, ok := expByTurn[turn]; ok {
			tr.Mismatch = compare(exp, tr)
			if tr.Mismatch == "" {
				summary.Matched++
			} else {
				summary.Mismatched++
			}
		}
		results = append(results, tr)
	}

	summary.FinalPoints = led.Points()
	summary.FinalLevel = led.Level()
	summary.FinalScore = projection.Score(led.CurrentVector())
	return results, summary
}

func compare(exp FixtureExpectation, got TurnResult) string {
	switch {
	case exp.PointsTotal != got.PointsTotal:
		return fmt.Sprintf("points_total: expected %d, got %d", exp.PointsTotal, got.PointsTotal)
	case exp.Level != got.Level:
		return fmt.Sprintf("level: expected %d, got %d", exp.Level, got.Level)
	case exp.Streak != got.Streak:
		return fmt.Sprintf("streak: expected %d, got %d", exp.Streak, got.Streak)
	case exp.ComboFired != got.ComboFired:
		return fmt.Sprintf("combo_fired: expected %v, got %v", exp.ComboFired, got.ComboFired)
	case exp.LogLen > 0 && exp.LogLen != got.LogLen:
		return fmt.Sprintf("log_len: expected %d, got %d", exp.LogLen, got.LogLen)
	}
	return ""
}

// #endregion run
