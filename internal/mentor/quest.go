package mentor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vidaplena/coherence-engine/internal/activity"
	"github.com/vidaplena/coherence-engine/internal/ledger"
	"github.com/vidaplena/coherence-engine/internal/projection"
	"github.com/vidaplena/coherence-engine/internal/vector"
)

// #region quest-tools

// categoryQuestTool maps a mentor category to the tool a quest should aim
// at. Deterministic: quest generation degrades gracefully without a model.
var categoryQuestTool = map[projection.Category]activity.Tool{
	projection.CategoryWellness:      activity.ToolMeditation,
	projection.CategoryIntrospection: activity.ToolMantraBuilder,
	projection.CategoryRelationships: activity.ToolGratitudeJournal,
	projection.CategoryGuidance:      activity.ToolRoutineAligner,
}

// #endregion quest-tools

// #region suggest

// SuggestQuest builds a quest targeting the dimension with the highest
// dissonância. When a generator is configured the description is phrased
// by the model; otherwise (or on model failure) a fixed template is used.
func (c *Client) SuggestQuest(ctx context.Context, v vector.Vector) ledger.Quest {
	category, dim := projection.Recommend(v)
	tool := categoryQuestTool[category]

	desc := fmt.Sprintf("Use %s to work on %s", tool, dim.Label())
	if c.gen != nil {
		prompt := fmt.Sprintf(
			"Write one short, encouraging quest description (max 15 words) asking the user to try the %q practice to strengthen their %s dimension.",
			tool, dim.Label(),
		)
		if text, err := c.gen.GenerateText(ctx, prompt); err == nil && text != "" {
			desc = text
		}
	}

	return ledger.Quest{
		ID:              uuid.New().String(),
		TargetTool:      tool,
		TargetDimension: dim,
		Description:     desc,
		CreatedAt:       time.Now().UTC(),
	}
}

// #endregion suggest
