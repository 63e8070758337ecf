package pipeline

import (
	"context"
	"log"
	"time"

	"github.com/PastorStudio/geminiaicrm-sub005/internal/llm/contract"
	"github.com/PastorStudio/geminiaicrm-sub005/internal/realtime"
)

// Scorer produces a lead score for a conversation. The llm service
// satisfies this; it fails open, so a score is always returned.
type Scorer interface {
	ScoreLead(ctx context.Context, leadID *int64, conversation []string) *contract.LeadScore
}

// Organizer runs the score-and-advance cycle over leads. Batch runs are
// sequential; Pacing spaces out provider calls to stay under upstream
// rate limits and is not a correctness requirement.
type Organizer struct {
	Store  *Store
	Scorer Scorer
	Hub    *realtime.Hub
	Pacing time.Duration
}

func NewOrganizer(store *Store, scorer Scorer, hub *realtime.Hub, pacing time.Duration) *Organizer {
	if pacing <= 0 {
		pacing = 800 * time.Millisecond
	}
	return &Organizer{Store: store, Scorer: scorer, Hub: hub, Pacing: pacing}
}

type OrganizeResult struct {
	LeadID     int64               `json:"lead_id"`
	Score      *contract.LeadScore `json:"score"`
	Advance    AdvanceResult       `json:"advance"`
	ActivityID *int64              `json:"activity_id,omitempty"`
}

type BatchResult struct {
	Processed    int `json:"processed"`
	Transitioned int `json:"transitioned"`
	Errors       int `json:"errors"`
}

// OrganizeLead scores one lead's conversation and applies the state
// machine. Scoring never fails (fallback discipline); persistence errors
// propagate.
func (o *Organizer) OrganizeLead(ctx context.Context, leadID int64) (OrganizeResult, error) {
	result := OrganizeResult{LeadID: leadID}

	lead, err := o.Store.GetLead(ctx, leadID)
	if err != nil {
		return result, err
	}
	messages, err := o.Store.MessagesForLead(ctx, leadID)
	if err != nil {
		return result, err
	}
	conversation := make([]string, 0, len(messages))
	for _, msg := range messages {
		conversation = append(conversation, msg.Content)
	}

	score := o.Scorer.ScoreLead(ctx, &leadID, conversation)
	result.Score = score
	result.Advance = AdvanceLead(&lead, *score, time.Now().UTC())

	if err := o.Store.SaveLeadAnalysis(ctx, lead); err != nil {
		return result, err
	}
	if result.Advance.FollowUp != nil {
		saved, err := o.Store.InsertActivity(ctx, *result.Advance.FollowUp)
		if err != nil {
			return result, err
		}
		result.Advance.FollowUp = &saved
		result.ActivityID = &saved.ID
	}

	if o.Hub != nil {
		o.Hub.Broadcast(map[string]any{
			"type":       "lead.updated",
			"lead_id":    leadID,
			"status":     lead.Status,
			"priority":   lead.Priority,
			"transition": result.Advance.Transition,
		})
	}
	return result, nil
}

// OrganizeAll walks every lead sequentially. A single lead's failure is
// logged and counted, never aborting the batch.
func (o *Organizer) OrganizeAll(ctx context.Context) (BatchResult, error) {
	var batch BatchResult

	leads, err := o.Store.ListLeads(ctx)
	if err != nil {
		return batch, err
	}

	for i, lead := range leads {
		if err := ctx.Err(); err != nil {
			return batch, err
		}
		result, err := o.OrganizeLead(ctx, lead.ID)
		if err != nil {
			log.Printf("organizer: lead %d failed: %v", lead.ID, err)
			batch.Errors++
			continue
		}
		batch.Processed++
		if result.Advance.Transition {
			batch.Transitioned++
		}
		if i < len(leads)-1 {
			select {
			case <-ctx.Done():
				return batch, ctx.Err()
			case <-time.After(o.Pacing):
			}
		}
	}
	return batch, nil
}
