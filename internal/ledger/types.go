package ledger

import (
	"time"

	"github.com/vidaplena/coherence-engine/internal/activity"
	"github.com/vidaplena/coherence-engine/internal/projection"
	"github.com/vidaplena/coherence-engine/internal/vector"
)

// #region combo

// Combo is the short-lived pointer used to detect chained tool usage.
// It is cleared or replaced on every tool usage.
type Combo struct {
	LastTool  activity.Tool `json:"lastTool"`
	StartTime time.Time     `json:"startTime"`
}

// ComboPath names the beneficial continuations of a tool.
type ComboPath struct {
	Name string
	Next []activity.Tool
}

// comboPaths is keyed by the *previous* tool. Tools without an entry have
// no outgoing paths and clear the active combo after use.
var comboPaths = map[activity.Tool]ComboPath{
	activity.ToolDoshDiagnosis: {
		Name: "Body Alignment Path",
		Next: []activity.Tool{activity.ToolRoutineAligner, activity.ToolBreathwork},
	},
	activity.ToolMeditation: {
		Name: "Inner Stillness Path",
		Next: []activity.Tool{activity.ToolGratitudeJournal, activity.ToolMantraBuilder},
	},
	activity.ToolBreathwork: {
		Name: "Somatic Reset Path",
		Next: []activity.Tool{activity.ToolMeditation},
	},
	activity.ToolDreamInterpreter: {
		Name: "Dream Integration Path",
		Next: []activity.Tool{activity.ToolMeditation, activity.ToolMantraBuilder},
	},
	activity.ToolVisualizer: {
		Name: "Reflection to Ritual Path",
		Next: []activity.Tool{activity.ToolRitualComposer},
	},
}

// #endregion combo

// #region levels

// Level is one rung of the coherence ladder.
type Level struct {
	MinPoints int
	Name      string
}

// Levels is ordered by ascending MinPoints. The stored level is always an
// index into this table derived from points, never independent truth.
var Levels = []Level{
	{0, "Desperto"},
	{100, "Caminhante"},
	{250, "Buscador"},
	{500, "Integrado"},
	{1000, "Coerente"},
	{2000, "Luminar"},
}

// LevelForPoints returns the highest level index whose threshold is met.
func LevelForPoints(points int) int {
	level := 0
	for i, l := range Levels {
		if points >= l.MinPoints {
			level = i
		}
	}
	return level
}

// #endregion levels

// #region quest

// Quest is a single externally-generated goal: use a target tool to work
// on a target dimension.
type Quest struct {
	ID              string           `json:"id"`
	TargetTool      activity.Tool    `json:"targetTool"`
	TargetDimension vector.Dimension `json:"targetDimension"`
	Description     string           `json:"description"`
	CreatedAt       time.Time        `json:"createdAt"`
	CompletedAt     time.Time        `json:"completedAt,omitempty"`
}

// #endregion quest

// #region achievements

// AchievementDef is a write-once milestone with a threshold predicate over
// the current gamification state.
type AchievementDef struct {
	ID        string
	Title     string
	Predicate func(agg *Aggregate) bool
}

var achievementDefs = []AchievementDef{
	{
		ID:    "first_quest",
		Title: "Primeira Jornada",
		Predicate: func(agg *Aggregate) bool {
			return len(agg.CompletedQuests) >= 1
		},
	},
	{
		ID:    "week_streak",
		Title: "Sete Dias de Presença",
		Predicate: func(agg *Aggregate) bool {
			return agg.CoherenceStreak >= 7
		},
	},
	{
		ID:    "combo_master",
		Title: "Mestre dos Caminhos",
		Predicate: func(agg *Aggregate) bool {
			return agg.TotalCombos >= 10
		},
	},
	{
		ID:    "high_coherence",
		Title: "Alta Coerência",
		Predicate: func(agg *Aggregate) bool {
			return projection.Score(agg.Vector) >= 90
		},
	},
}

// #endregion achievements

// #region aggregate

// Aggregate is the single shared mutable state: vector, log, and all
// gamification counters. It is owned by a Ledger and mutated only inside
// its single-writer apply path.
type Aggregate struct {
	Vector          vector.Vector
	Log             []activity.LogEntry // newest-first, capped
	CoherencePoints int
	CoherenceLevel  int // derived from points; recomputed on load
	CoherenceStreak int
	LastActivityAt  time.Time
	ActiveCombo     *Combo
	TotalCombos     int
	Achievements    map[string]time.Time // achievement id -> unlock time
	ActiveQuest     *Quest
	CompletedQuests []Quest
}

// NewAggregate returns a first-run aggregate with the seed vector.
func NewAggregate() Aggregate {
	return Aggregate{
		Vector:       vector.Seed(),
		Achievements: make(map[string]time.Time),
	}
}

// #endregion aggregate

// #region config

// Config holds the ledger's policy constants. Like the engine config these
// are tuning data with defaults, not hard invariants.
type Config struct {
	LogCap            int
	ComboWindow       time.Duration
	ComboBonus        int
	StreakBonusFactor int
	StreakResetGap    time.Duration
}

// DefaultConfig returns the tuning defaults.
func DefaultConfig() Config {
	return Config{
		LogCap:            100,
		ComboWindow:       15 * time.Minute,
		ComboBonus:        25,
		StreakBonusFactor: 2,
		StreakResetGap:    48 * time.Hour,
	}
}

// #endregion config

// #region notifier

// NotifyKind tags a UI-facing notification.
type NotifyKind string

const (
	NotifyCombo       NotifyKind = "combo"
	NotifyLevelUp     NotifyKind = "level_up"
	NotifyQuest       NotifyKind = "quest_completed"
	NotifyStreak      NotifyKind = "streak"
	NotifyAchievement NotifyKind = "achievement"
)

// Notifier receives toast-style callouts. It is a documented observable
// effect of Apply, not part of its return value.
type Notifier interface {
	Notify(kind NotifyKind, message string)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

// Notify implements Notifier.
func (NopNotifier) Notify(NotifyKind, string) {}

// #endregion notifier

// #region apply-result

// ApplyResult summarizes one apply pass for callers and tests.
type ApplyResult struct {
	Entry          activity.LogEntry
	ComboFired     bool
	ComboPathName  string
	LeveledUp      bool
	NewLevel       int
	QuestCompleted bool
	StreakBonus    int
	Unlocked       []string
	TotalPoints    int
}

// #endregion apply-result
