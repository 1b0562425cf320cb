package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/vidaplena/coherence-engine/internal/ledger"
	"github.com/vidaplena/coherence-engine/internal/projection"
	"github.com/vidaplena/coherence-engine/internal/store"
	"github.com/vidaplena/coherence-engine/internal/vector"
)

// #region main

func main() {
	dbPath := flag.String("db", "coherence.db", "path to the coherence database")
	logLimit := flag.Int("log", 10, "number of recent log entries to print")
	flag.Parse()

	st, err := store.New(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(2)
	}
	defer st.Close()

	agg, found, err := st.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load: %v\n", err)
		os.Exit(2)
	}
	if !found {
		fmt.Println("no saved aggregate")
		return
	}

	level := ledger.LevelForPoints(agg.CoherencePoints)
	category, dim := projection.Recommend(agg.Vector)

	fmt.Printf("score:   %d\n", projection.Score(agg.Vector))
	fmt.Printf("points:  %d\n", agg.CoherencePoints)
	fmt.Printf("level:   %d (%s)\n", level, ledger.Levels[level].Name)
	fmt.Printf("streak:  %d (last activity %s)\n", agg.CoherenceStreak, formatTime(agg.LastActivityAt))
	fmt.Printf("combos:  %d lifetime\n", agg.TotalCombos)
	fmt.Printf("recommendation: %s mentor (%s)\n\n", category, dim.Label())

	fmt.Println("vector:")
	fmt.Printf("  alinhamentoPAC %.1f\n", agg.Vector.AlinhamentoPAC)
	for _, d := range vector.Dimensions() {
		fmt.Printf("  %-12s coerência %5.1f  dissonância %5.1f\n",
			d.String(), agg.Vector.Dims[d].Coerencia, agg.Vector.Dims[d].Dissonancia)
	}

	if agg.ActiveQuest != nil {
		fmt.Printf("\nactive quest: %s (use %s)\n", agg.ActiveQuest.Description, agg.ActiveQuest.TargetTool)
	}
	if len(agg.CompletedQuests) > 0 {
		fmt.Printf("completed quests: %d\n", len(agg.CompletedQuests))
	}

	if len(agg.Achievements) > 0 {
		fmt.Println("\nachievements:")
		for id, at := range agg.Achievements {
			fmt.Printf("  %-16s %s\n", id, formatTime(at))
		}
	}

	fmt.Printf("\nlog (%d entries, newest first):\n", len(agg.Log))
	for i, e := range agg.Log {
		if i >= *logLimit {
			fmt.Printf("  ... %d more\n", len(agg.Log)-i)
			break
		}
		fmt.Printf("  %s  %-18s +%-4d score %d\n",
			e.Timestamp.Format(time.RFC3339), e.Activity.Kind, e.PointsGained,
			projection.Score(e.VectorSnapshot))
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Format(time.RFC3339)
}

// #endregion main
