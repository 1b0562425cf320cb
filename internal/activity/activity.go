package activity

import (
	"time"

	"github.com/vidaplena/coherence-engine/internal/vector"
)

// #region kind

// Kind tags the variant of an activity record.
type Kind string

const (
	KindChatSession Kind = "chat_session"
	KindToolUsage   Kind = "tool_usage"

	// System-generated variants. They carry no vector-mutating semantics of
	// their own and exist only as history entries.
	KindLevelUp          Kind = "level_up"
	KindStreakMaintained Kind = "streak_maintained"
	KindComboAchieved    Kind = "combo_achieved"
)

// #endregion kind

// #region tool

// Tool identifies a coherence tool. The set is closed; unknown IDs reaching
// the engine are tolerated as silent no-ops for forward compatibility.
type Tool string

const (
	ToolMeditation       Tool = "meditation"
	ToolBreathwork       Tool = "breathwork"
	ToolDoshDiagnosis    Tool = "dosh_diagnosis"
	ToolRoutineAligner   Tool = "routine_aligner"
	ToolMantraBuilder    Tool = "mantra_builder"
	ToolGratitudeJournal Tool = "gratitude_journal"
	ToolDreamInterpreter Tool = "dream_interpreter"
	ToolRitualComposer   Tool = "ritual_composer"
	ToolVisualizer       Tool = "visualizer"
)

// #endregion tool

// #region result

// ToolResult is the opaque payload a tool produced. Only the fields needed
// for dispatch are typed; everything else stays in Raw for history display.
type ToolResult struct {
	// CoherenceScore is a 1-10 self-assessment embedded by score-bearing
	// tools (dream interpreter, ritual composer). Zero means absent.
	CoherenceScore float64 `json:"coherenceScore,omitempty"`

	// ReplacementVector is set only by the visualizer tool, whose upstream
	// analysis produces a full new vector rather than deltas.
	ReplacementVector *vector.Vector `json:"replacementVector,omitempty"`

	Raw string `json:"raw,omitempty"`
}

// #endregion result

// #region activity

// Activity is a discrete user or system event submitted to the ledger.
type Activity struct {
	Kind         Kind        `json:"kind"`
	AgentID      string      `json:"agentId,omitempty"`      // chat_session
	Category     string      `json:"category,omitempty"`     // chat_session mentor category
	MessageCount int         `json:"messageCount,omitempty"` // chat_session
	Tool         Tool        `json:"tool,omitempty"`         // tool_usage
	Result       *ToolResult `json:"result,omitempty"`       // tool_usage
	Detail       string      `json:"detail,omitempty"`       // system variants
	Timestamp    time.Time   `json:"timestamp"`
}

// ChatSession builds a chat activity.
func ChatSession(agentID, category string, messages int, at time.Time) Activity {
	return Activity{
		Kind:         KindChatSession,
		AgentID:      agentID,
		Category:     category,
		MessageCount: messages,
		Timestamp:    at,
	}
}

// ToolUsage builds a tool activity.
func ToolUsage(tool Tool, result *ToolResult, at time.Time) Activity {
	return Activity{
		Kind:      KindToolUsage,
		Tool:      tool,
		Result:    result,
		Timestamp: at,
	}
}

// System builds a system-generated history entry (level_up, streak, combo).
func System(kind Kind, detail string, at time.Time) Activity {
	return Activity{Kind: kind, Detail: detail, Timestamp: at}
}

// #endregion activity

// #region log-entry

// LogEntry is an immutable historical fact: the processed activity plus the
// points it yielded and the vector state immediately after applying it.
type LogEntry struct {
	ID             string        `json:"id"`
	Activity       Activity      `json:"activity"`
	PointsGained   int           `json:"pointsGained"`
	Timestamp      time.Time     `json:"timestamp"`
	VectorSnapshot vector.Vector `json:"vectorSnapshot"`
}

// #endregion log-entry
