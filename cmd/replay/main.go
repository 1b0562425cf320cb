package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/vidaplena/coherence-engine/internal/replay"
)

// #region main

func main() {
	fixturePath := flag.String("fixture", "", "path to a replay fixture JSON")
	verbose := flag.Bool("v", false, "print every turn, not only mismatches")
	flag.Parse()

	if *fixturePath == "" {
		fmt.Fprintln(os.Stderr, "usage: replay --fixture path/to/fixture.json")
		os.Exit(2)
	}

	f, err := replay.LoadFixture(*fixturePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}

	results, summary := replay.Run(f)

	fmt.Printf("replaying: %s (%d turns)\n", summary.Description, summary.TotalTurns)
	for _, r := range results {
		if r.Mismatch != "" {
			fmt.Printf("  turn %3d  %-18s MISMATCH: %s\n", r.Turn, r.Kind, r.Mismatch)
			continue
		}
		if *verbose {
			fmt.Printf("  turn %3d  %-18s +%-4d total=%-5d level=%d streak=%d combo=%v log=%d\n",
				r.Turn, r.Kind, r.Points, r.PointsTotal, r.Level, r.Streak, r.ComboFired, r.LogLen)
		}
	}

	fmt.Printf("done: %d matched, %d mismatched | final points=%d level=%d score=%d\n",
		summary.Matched, summary.Mismatched, summary.FinalPoints, summary.FinalLevel, summary.FinalScore)

	if summary.Mismatched > 0 {
		os.Exit(1)
	}
}

// #endregion main
