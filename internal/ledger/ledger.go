package ledger

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vidaplena/coherence-engine/internal/activity"
	"github.com/vidaplena/coherence-engine/internal/engine"
	"github.com/vidaplena/coherence-engine/internal/history"
	"github.com/vidaplena/coherence-engine/internal/projection"
	"github.com/vidaplena/coherence-engine/internal/vector"
)

// #region ledger-struct

// Ledger owns the shared aggregate and sequences every state transition.
// All writes go through Apply under one mutex: single writer, synchronous
// apply, no mid-sequence re-fetch.
type Ledger struct {
	mu        sync.Mutex
	agg       Aggregate
	cfg       Config
	engineCfg engine.Config
	notifier  Notifier
}

// New creates a ledger around an existing aggregate. The stored level is
// rederived from points here, never trusted from the caller.
func New(agg Aggregate, cfg Config, engineCfg engine.Config, notifier Notifier) *Ledger {
	if agg.Achievements == nil {
		agg.Achievements = make(map[string]time.Time)
	}
	agg.CoherenceLevel = LevelForPoints(agg.CoherencePoints)
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Ledger{
		agg:       agg,
		cfg:       cfg,
		engineCfg: engineCfg,
		notifier:  notifier,
	}
}

// #endregion ledger-struct

// #region apply

// Apply processes one activity through the full gamification sequence:
// orchestration, combo detection, log append, points, level-up, quest
// completion, streak accounting, and achievement unlocks.
func (l *Ledger) Apply(act activity.Activity) ApplyResult {
	l.mu.Lock()
	defer l.mu.Unlock()

	if act.Timestamp.IsZero() {
		act.Timestamp = time.Now().UTC()
	}

	// 1. Orchestration: new vector + base points.
	res := engine.Orchestrate(act, l.agg.Vector, l.engineCfg)
	points := res.PointsGained

	// 2. Combo detection, tool usage only.
	var out ApplyResult
	if act.Kind == activity.KindToolUsage {
		if c := l.agg.ActiveCombo; c != nil {
			elapsed := act.Timestamp.Sub(c.StartTime)
			if path, ok := comboPaths[c.LastTool]; ok && elapsed < l.cfg.ComboWindow && isNextStep(path, act.Tool) {
				points += l.cfg.ComboBonus
				l.agg.TotalCombos++
				out.ComboFired = true
				out.ComboPathName = path.Name
			}
		}
		// Replace the pointer regardless of whether a combo fired; clear
		// it when the current tool has no outgoing paths.
		if _, ok := comboPaths[act.Tool]; ok {
			l.agg.ActiveCombo = &Combo{LastTool: act.Tool, StartTime: act.Timestamp}
		} else {
			l.agg.ActiveCombo = nil
		}
	}

	// 3. Log entry carries the post-apply snapshot and the total points.
	l.agg.Vector = res.NewVector
	entry := activity.LogEntry{
		ID:             uuid.New().String(),
		Activity:       act,
		PointsGained:   points,
		Timestamp:      act.Timestamp,
		VectorSnapshot: l.agg.Vector,
	}
	l.prepend(entry)
	out.Entry = entry

	if out.ComboFired {
		l.prependSystem(activity.KindComboAchieved, out.ComboPathName, act.Timestamp.Add(1*time.Millisecond))
		l.notifier.Notify(NotifyCombo, fmt.Sprintf("%s (+%d)", out.ComboPathName, l.cfg.ComboBonus))
	}

	// 5. Points accumulate before the level check.
	l.agg.CoherencePoints += points

	// 6. Level-up.
	if lvl := LevelForPoints(l.agg.CoherencePoints); lvl > l.agg.CoherenceLevel {
		l.agg.CoherenceLevel = lvl
		out.LeveledUp = true
		out.NewLevel = lvl
		l.prependSystem(activity.KindLevelUp, Levels[lvl].Name, act.Timestamp.Add(2*time.Millisecond))
		l.notifier.Notify(NotifyLevelUp, fmt.Sprintf("Level %d: %s", lvl, Levels[lvl].Name))
		log.Printf("[LEDGER] level up: %d (%s) at %d points", lvl, Levels[lvl].Name, l.agg.CoherencePoints)
	}

	// 7. Quest completion.
	if q := l.agg.ActiveQuest; q != nil && act.Kind == activity.KindToolUsage && act.Tool == q.TargetTool {
		q.CompletedAt = act.Timestamp
		l.agg.CompletedQuests = append(l.agg.CompletedQuests, *q)
		l.agg.ActiveQuest = nil
		out.QuestCompleted = true
		l.notifier.Notify(NotifyQuest, q.Description)
	}

	// 8. Streak accounting over calendar days.
	out.StreakBonus = l.updateStreak(act.Timestamp)

	// 9. Achievements, write-once.
	out.Unlocked = l.checkAchievements(act.Timestamp)

	out.TotalPoints = l.agg.CoherencePoints
	log.Printf("[LEDGER] applied %s: +%d points (total %d), action=%s",
		act.Kind, points, l.agg.CoherencePoints, res.Decision.Action)
	return out
}

// isNextStep reports whether tool is a valid continuation of the path.
func isNextStep(path ComboPath, tool activity.Tool) bool {
	for _, t := range path.Next {
		if t == tool {
			return true
		}
	}
	return false
}

// #endregion apply

// #region streak

// updateStreak applies the calendar-day streak rules and returns the bonus
// points awarded (zero when the streak did not advance).
func (l *Ledger) updateStreak(at time.Time) int {
	last := l.agg.LastActivityAt
	defer func() { l.agg.LastActivityAt = at }()

	if !last.IsZero() && sameCalendarDay(last, at) {
		return 0
	}

	bonus := 0
	if !last.IsZero() && at.Sub(last) < l.cfg.StreakResetGap {
		l.agg.CoherenceStreak++
		if l.agg.CoherenceStreak > 1 {
			bonus = l.agg.CoherenceStreak * l.cfg.StreakBonusFactor
			l.agg.CoherencePoints += bonus
			l.prependSystem(activity.KindStreakMaintained,
				fmt.Sprintf("%d dias", l.agg.CoherenceStreak), at.Add(3*time.Millisecond))
			l.notifier.Notify(NotifyStreak, fmt.Sprintf("%d-day streak (+%d)", l.agg.CoherenceStreak, bonus))
		}
	} else {
		l.agg.CoherenceStreak = 1
	}
	return bonus
}

// sameCalendarDay compares dates in UTC, not timestamps.
func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// #endregion streak

// #region achievements

// checkAchievements unlocks any not-yet-unlocked achievement whose
// predicate holds. Idempotent: unlock timestamps are write-once.
func (l *Ledger) checkAchievements(at time.Time) []string {
	var unlocked []string
	for _, def := range achievementDefs {
		if _, done := l.agg.Achievements[def.ID]; done {
			continue
		}
		if def.Predicate(&l.agg) {
			l.agg.Achievements[def.ID] = at
			unlocked = append(unlocked, def.ID)
			l.notifier.Notify(NotifyAchievement, def.Title)
			log.Printf("[LEDGER] achievement unlocked: %s", def.ID)
		}
	}
	return unlocked
}

// #endregion achievements

// #region log-maintenance

// prepend inserts an entry at the head (most-recent-first) and truncates
// to the cap.
func (l *Ledger) prepend(e activity.LogEntry) {
	l.agg.Log = append([]activity.LogEntry{e}, l.agg.Log...)
	if len(l.agg.Log) > l.cfg.LogCap {
		l.agg.Log = l.agg.Log[:l.cfg.LogCap]
	}
}

func (l *Ledger) prependSystem(kind activity.Kind, detail string, at time.Time) {
	l.prepend(activity.LogEntry{
		ID:             uuid.New().String(),
		Activity:       activity.System(kind, detail, at),
		Timestamp:      at,
		VectorSnapshot: l.agg.Vector,
	})
}

// PruneOldest drops the oldest share of log entries, keeping points and
// counters untouched. Used under storage pressure before a save retry.
func (l *Ledger) PruneOldest(fraction float64) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if fraction <= 0 || fraction > 1 || len(l.agg.Log) == 0 {
		return 0
	}
	drop := int(float64(len(l.agg.Log)) * fraction)
	if drop == 0 {
		drop = 1
	}
	// Log is newest-first: oldest entries are at the tail.
	l.agg.Log = l.agg.Log[:len(l.agg.Log)-drop]
	log.Printf("[LEDGER] pruned %d oldest log entries", drop)
	return drop
}

// #endregion log-maintenance

// #region quests

// SetActiveQuest installs a new externally-generated quest, replacing any
// current one.
func (l *Ledger) SetActiveQuest(q Quest) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.agg.ActiveQuest = &q
}

// ActiveQuest returns the current quest, or nil.
func (l *Ledger) ActiveQuest() *Quest {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.agg.ActiveQuest == nil {
		return nil
	}
	q := *l.agg.ActiveQuest
	return &q
}

// #endregion quests

// #region projections

// Snapshot returns a deep copy of the aggregate for persistence.
func (l *Ledger) Snapshot() Aggregate {
	l.mu.Lock()
	defer l.mu.Unlock()
	return copyAggregate(l.agg)
}

// CurrentVector returns the current coherence vector.
func (l *Ledger) CurrentVector() vector.Vector {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.agg.Vector
}

// CurrentScore projects the current vector onto the 0-100 scalar.
func (l *Ledger) CurrentScore() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return projection.Score(l.agg.Vector)
}

// CurrentRecommendation returns the mentor category and dimension with the
// highest dissonância.
func (l *Ledger) CurrentRecommendation() (projection.Category, vector.Dimension) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return projection.Recommend(l.agg.Vector)
}

// ActivityLog returns a copy of the log, newest-first.
func (l *Ledger) ActivityLog() []activity.LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]activity.LogEntry, len(l.agg.Log))
	copy(out, l.agg.Log)
	return out
}

// WindowedHistory projects log entries since the cutoff into chart points,
// oldest-first.
func (l *Ledger) WindowedHistory(since time.Time) []history.Point {
	l.mu.Lock()
	defer l.mu.Unlock()
	return history.Window(l.agg.Log, since)
}

// Points returns the running coherence point total.
func (l *Ledger) Points() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.agg.CoherencePoints
}

// Level returns the current level index.
func (l *Ledger) Level() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.agg.CoherenceLevel
}

// Streak returns the consecutive-day streak count.
func (l *Ledger) Streak() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.agg.CoherenceStreak
}

func copyAggregate(agg Aggregate) Aggregate {
	out := agg
	out.Log = make([]activity.LogEntry, len(agg.Log))
	copy(out.Log, agg.Log)
	out.CompletedQuests = make([]Quest, len(agg.CompletedQuests))
	copy(out.CompletedQuests, agg.CompletedQuests)
	out.Achievements = make(map[string]time.Time, len(agg.Achievements))
	for k, v := range agg.Achievements {
		out.Achievements[k] = v
	}
	if agg.ActiveCombo != nil {
		c := *agg.ActiveCombo
		out.ActiveCombo = &c
	}
	if agg.ActiveQuest != nil {
		q := *agg.ActiveQuest
		out.ActiveQuest = &q
	}
	return out
}

// #endregion projections
