// Package pipeline drives leads through the sales funnel: the state
// machine that reacts to conversation scores, the follow-up scheduler,
// and the batch organizer that walks every lead.
package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/PastorStudio/geminiaicrm-sub005/internal/intel"
	"github.com/PastorStudio/geminiaicrm-sub005/internal/llm/contract"
	"github.com/PastorStudio/geminiaicrm-sub005/internal/models"
)

const (
	StageNew          = "new"
	StageContacted    = "contacted"
	StageQualified    = "qualified"
	StageProposal     = "proposal"
	StageNegotiation  = "negotiation"
	StageConverted    = "converted"
	StageLost         = "lost"
	StageNurturing    = "nurturing"
	StageFollowUpNeed = "follow_up_needed"
)

// AdvanceResult reports what a state-machine pass did to a lead.
type AdvanceResult struct {
	NewStatus  string           `json:"new_status"`
	Transition bool             `json:"transition"`
	FollowUp   *models.Activity `json:"follow_up,omitempty"`
}

// maxNotesLen bounds the append-only notes log. When an append would
// exceed it, the oldest analysis blocks are dropped from the front.
const maxNotesLen = 20000

const notesSeparator = "\n\n---\n"

// AdvanceLead applies the transition rules to the lead in place. On every
// call, regardless of transition, the lead priority is overwritten with
// the score priority and a timestamped analysis block is appended to
// notes. Transitions are evaluated in rule order; the first match wins.
//
// The rules only exclude "lost" explicitly, so a converted lead with a
// negative, low-scoring conversation can still drop to nurturing. That
// matches the documented rule set; converted is terminal by convention
// only.
func AdvanceLead(lead *models.Lead, score contract.LeadScore, now time.Time) AdvanceResult {
	result := AdvanceResult{NewStatus: lead.Status}

	switch {
	case highPriority(score.Priority) && score.ConversionProbability > 70 &&
		(lead.Status == StageNew || lead.Status == StageContacted):
		result.NewStatus = StageQualified
	case score.Sentiment == intel.SentimentNegative && score.Score < 30 && lead.Status != StageLost:
		result.NewStatus = StageNurturing
	case score.ConversionProbability > 85 && highPriority(score.Priority) &&
		(lead.Status == StageQualified || lead.Status == StageProposal):
		result.NewStatus = StageNegotiation
	}

	result.Transition = result.NewStatus != lead.Status
	lead.Status = result.NewStatus
	lead.Priority = score.Priority
	cp := score.ConversionProbability
	lead.ConversionProbability = &cp
	lead.Notes = appendAnalysisNote(lead.Notes, score, now)
	lead.UpdatedAt = now

	if score.NextAction != "" && score.NextAction != contract.NoAction {
		scheduled := now.Add(ParseTimeline(score.Timeline))
		reminder := scheduled.Add(-2 * time.Hour)
		result.FollowUp = &models.Activity{
			LeadID:    lead.ID,
			UserID:    models.AutomationUserID,
			Type:      "follow_up",
			Scheduled: scheduled,
			Notes:     "Seguimiento automático: " + score.NextAction,
			Priority:  score.Priority,
			Reminder:  &reminder,
			CreatedAt: now,
		}
	}
	return result
}

// Urgent leads satisfy the high-priority transition rules too.
func highPriority(priority string) bool {
	return priority == intel.PriorityHigh || priority == intel.PriorityUrgent
}

func appendAnalysisNote(notes string, score contract.LeadScore, now time.Time) string {
	block := fmt.Sprintf(
		"[%s] Análisis IA: score=%d, categoría=%s, probabilidad de conversión=%d%%, sentimiento=%s, próxima acción=%s, plazo=%s. %s",
		now.UTC().Format(time.RFC3339),
		score.Score, score.Category, score.ConversionProbability,
		score.Sentiment, score.NextAction, score.Timeline, score.Reasoning,
	)
	combined := block
	if notes != "" {
		combined = notes + notesSeparator + block
	}
	for len(combined) > maxNotesLen {
		idx := strings.Index(combined, notesSeparator)
		if idx < 0 {
			combined = combined[len(combined)-maxNotesLen:]
			break
		}
		combined = combined[idx+len(notesSeparator):]
	}
	return combined
}
