package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/vidaplena/coherence-engine/internal/activity"
	"github.com/vidaplena/coherence-engine/internal/replay"
	"github.com/vidaplena/coherence-engine/internal/store"
)

// #region main

// fixture-export rebuilds a replay fixture from a live database: the log
// stores original activities, so a session can be replayed deterministically
// against future engine changes.
func main() {
	dbPath := flag.String("db", "coherence.db", "path to the coherence database")
	out := flag.String("out", "fixture.json", "output fixture path")
	desc := flag.String("desc", "exported session", "fixture description")
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
	if !found || len(agg.Log) == 0 {
		fmt.Fprintln(os.Stderr, "nothing to export")
		os.Exit(1)
	}

	f := replay.Fixture{Description: *desc}

	// The log is newest-first; fixtures replay oldest-first. System entries
	// are derived, not replayed.
	for i := len(agg.Log) - 1; i >= 0; i-- {
		act := agg.Log[i].Activity
		switch act.Kind {
		case activity.KindChatSession:
			f.Activities = append(f.Activities, replay.FixtureActivity{
				Kind:     string(act.Kind),
				Agent:    act.AgentID,
				Category: act.Category,
				Messages: act.MessageCount,
				At:       act.Timestamp,
			})
		case activity.KindToolUsage:
			fa := replay.FixtureActivity{
				Kind: string(act.Kind),
				Tool: string(act.Tool),
				At:   act.Timestamp,
			}
			if act.Result != nil {
				fa.Score = act.Result.CoherenceScore
				fa.Vector = act.Result.ReplacementVector
			}
			f.Activities = append(f.Activities, fa)
		}
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "marshal: %v\n", err)
		os.Exit(2)
	}
	if err := os.WriteFile(*out, data, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "write %s: %v\n", *out, err)
		os.Exit(2)
	}
	fmt.Printf("exported %d activities to %s\n", len(f.Activities), *out)
}

// #endregion main
