package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/vidaplena/coherence-engine/internal/activity"
	"github.com/vidaplena/coherence-engine/internal/config"
	"github.com/vidaplena/coherence-engine/internal/history"
	"github.com/vidaplena/coherence-engine/internal/ledger"
	"github.com/vidaplena/coherence-engine/internal/mentor"
	"github.com/vidaplena/coherence-engine/internal/store"
	"github.com/vidaplena/coherence-engine/internal/vector"
)

// #region notifier

// toastNotifier prints ledger callouts the way the UI would toast them.
type toastNotifier struct{}

func (toastNotifier) Notify(kind ledger.NotifyKind, message string) {
	fmt.Printf("  ✦ [%s] %s\n", kind, message)
}

// #endregion notifier

// #region main

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	st, err := store.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer st.Close()

	agg, found, err := st.Load()
	if err != nil {
		log.Fatalf("failed to load aggregate: %v", err)
	}
	if !found {
		log.Println("No saved state found, starting from the seed vector...")
	}

	led := ledger.New(agg, cfg.LedgerConfig(), cfg.EngineConfig(), toastNotifier{})

	var client *mentor.Client
	if cfg.GenAIKey != "" {
		gen, err := mentor.NewGenAIGenerator(context.Background(), cfg.GenAIKey, cfg.GenAIModel)
		if err != nil {
			log.Printf("mentor client unavailable: %v", err)
		} else {
			client = mentor.NewClient(gen)
		}
	}
	if client == nil {
		client = mentor.NewClient(nil)
	}

	fmt.Println("Coherence Engine ready.")
	fmt.Printf("  DB: %s | Score: %d | Level: %d | Streak: %d\n",
		cfg.DBPath, led.CurrentScore(), led.Level(), led.Streak())
	fmt.Println("Commands: chat <category> <messages> | tool <id> [score] | reflect <text> | quest | state | history [hours] | prune | quit")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		cmd := fields[0]

		switch cmd {
		case "quit", "exit":
			return
		case "chat":
			runChat(led, st, fields[1:])
		case "tool":
			runTool(led, st, fields[1:])
		case "reflect":
			runReflect(led, st, client, strings.TrimSpace(strings.TrimPrefix(line, "reflect")))
		case "quest":
			runQuest(led, client)
		case "state":
			printState(led)
		case "history":
			printHistory(led, fields[1:])
		case "prune":
			dropped := led.PruneOldest(0.2)
			fmt.Printf("pruned %d entries\n", dropped)
			persist(led, st)
		default:
			fmt.Printf("unknown command %q\n", cmd)
		}
	}
}

// #endregion main

// #region commands

func runChat(led *ledger.Ledger, st *store.Store, args []string) {
	if len(args) < 2 {
		fmt.Println("usage: chat <category> <messages>")
		return
	}
	messages, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Printf("bad message count %q\n", args[1])
		return
	}
	act := activity.ChatSession(args[0], args[0], messages, time.Now().UTC())
	res := led.Apply(act)
	fmt.Printf("chat applied: +%d points (total %d)\n", res.Entry.PointsGained, res.TotalPoints)
	persist(led, st)
}

func runTool(led *ledger.Ledger, st *store.Store, args []string) {
	if len(args) < 1 {
		fmt.Println("usage: tool <id> [score]")
		return
	}
	var result *activity.ToolResult
	if len(args) > 1 {
		score, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			fmt.Printf("bad score %q\n", args[1])
			return
		}
		result = &activity.ToolResult{CoherenceScore: score}
	}
	res := led.Apply(activity.ToolUsage(activity.Tool(args[0]), result, time.Now().UTC()))
	fmt.Printf("tool applied: +%d points (total %d)\n", res.Entry.PointsGained, res.TotalPoints)
	persist(led, st)
}

func runReflect(led *ledger.Ledger, st *store.Store, client *mentor.Client, text string) {
	if text == "" {
		fmt.Println("usage: reflect <free text about your day>")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	v, err := client.AnalyzeReflection(ctx, text)
	if err != nil {
		log.Printf("reflection analysis failed: %v", err)
		return
	}
	res := led.Apply(activity.ToolUsage(activity.ToolVisualizer,
		&activity.ToolResult{ReplacementVector: &v, Raw: text}, time.Now().UTC()))
	fmt.Printf("reflection applied: +%d points, new score %d\n", res.Entry.PointsGained, led.CurrentScore())
	persist(led, st)
}

func runQuest(led *ledger.Ledger, client *mentor.Client) {
	if q := led.ActiveQuest(); q != nil {
		fmt.Printf("active quest: %s (use %s)\n", q.Description, q.TargetTool)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	q := client.SuggestQuest(ctx, led.CurrentVector())
	led.SetActiveQuest(q)
	fmt.Printf("new quest: %s (use %s)\n", q.Description, q.TargetTool)
}

func printState(led *ledger.Ledger) {
	v := led.CurrentVector()
	category, dim := led.CurrentRecommendation()
	fmt.Printf("score: %d | points: %d | level: %d (%s) | streak: %d\n",
		led.CurrentScore(), led.Points(), led.Level(), ledger.Levels[led.Level()].Name, led.Streak())
	fmt.Printf("alinhamentoPAC: %.0f\n", v.AlinhamentoPAC)
	for _, d := range vector.Dimensions() {
		fmt.Printf("  %-12s coerência %5.1f  dissonância %5.1f\n",
			d.String(), v.Dims[d].Coerencia, v.Dims[d].Dissonancia)
	}
	fmt.Printf("recommendation: %s mentor (%s)\n", category, dim.Label())
}

func printHistory(led *ledger.Ledger, args []string) {
	hours := 24 * 7
	if len(args) > 0 {
		if h, err := strconv.Atoi(args[0]); err == nil {
			hours = h
		}
	}
	points := led.WindowedHistory(time.Now().UTC().Add(-time.Duration(hours) * time.Hour))
	if len(points) == 0 {
		fmt.Println("no activity in window")
		return
	}
	for _, p := range points {
		fmt.Printf("  %s  score %d\n", p.Timestamp.Format(time.RFC3339), p.Score)
	}
	for _, day := range history.Summarize(led.ActivityLog(), time.Now().UTC().Add(-time.Duration(hours)*time.Hour)) {
		fmt.Printf("  %s: %d activities, %d points, ended at score %d\n",
			day.Date.Format("2006-01-02"), day.Activities, day.Points, day.LastScore)
	}
}

// #endregion commands

// #region persist

// persist saves best-effort: in-memory state stays authoritative. On a
// capacity error the ledger prunes its oldest history and we retry once.
func persist(led *ledger.Ledger, st *store.Store) {
	err := st.Save(led.Snapshot())
	if err == nil {
		return
	}
	if store.IsCapacityError(err) {
		log.Printf("[STORE] capacity error, pruning oldest history: %v", err)
		led.PruneOldest(0.2)
		if err = st.Save(led.Snapshot()); err == nil {
			return
		}
	}
	log.Printf("[STORE] save failed (state kept in memory): %v", err)
}

// #endregion persist
