package pipeline

import (
	"strings"
	"testing"
	"time"

	"github.com/PastorStudio/geminiaicrm-sub005/internal/llm/contract"
	"github.com/PastorStudio/geminiaicrm-sub005/internal/models"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestAdvanceContactedToQualified(t *testing.T) {
	lead := models.Lead{ID: 1, Status: StageContacted, Priority: "medium"}
	score := contract.LeadScore{
		Score:                 75,
		Category:              "hot",
		ConversionProbability: 80,
		Priority:              "high",
		Sentiment:             "positive",
		NextAction:            contract.NoAction,
	}

	result := AdvanceLead(&lead, score, now)
	if !result.Transition || result.NewStatus != StageQualified {
		t.Fatalf("expected transition to qualified, got %+v", result)
	}
	if lead.Status != StageQualified {
		t.Fatalf("lead status not updated: %s", lead.Status)
	}
	if lead.Priority != "high" {
		t.Fatalf("priority not overwritten: %s", lead.Priority)
	}
	if lead.ConversionProbability == nil || *lead.ConversionProbability != 80 {
		t.Fatalf("conversion probability not stored")
	}
}

func TestAdvanceUrgentCountsAsHighPriority(t *testing.T) {
	lead := models.Lead{ID: 2, Status: StageNew}
	score := contract.LeadScore{ConversionProbability: 90, Priority: "urgent", Sentiment: "neutral", Score: 90, NextAction: contract.NoAction}

	result := AdvanceLead(&lead, score, now)
	if result.NewStatus != StageQualified {
		t.Fatalf("urgent should qualify, got %s", result.NewStatus)
	}
}

func TestAdvanceNegativeToNurturing(t *testing.T) {
	lead := models.Lead{ID: 3, Status: StageQualified}
	score := contract.LeadScore{Score: 20, ConversionProbability: 20, Priority: "low", Sentiment: "negative", NextAction: contract.NoAction}

	result := AdvanceLead(&lead, score, now)
	if result.NewStatus != StageNurturing {
		t.Fatalf("expected nurturing, got %s", result.NewStatus)
	}
}

func TestAdvanceLostStaysLost(t *testing.T) {
	lead := models.Lead{ID: 4, Status: StageLost}
	score := contract.LeadScore{Score: 10, ConversionProbability: 10, Priority: "low", Sentiment: "negative", NextAction: contract.NoAction}

	result := AdvanceLead(&lead, score, now)
	if result.Transition || result.NewStatus != StageLost {
		t.Fatalf("lost lead must not move, got %+v", result)
	}
}

func TestAdvanceQualifiedToNegotiation(t *testing.T) {
	lead := models.Lead{ID: 5, Status: StageQualified}
	score := contract.LeadScore{Score: 95, ConversionProbability: 90, Priority: "high", Sentiment: "positive", NextAction: contract.NoAction}

	result := AdvanceLead(&lead, score, now)
	if result.NewStatus != StageNegotiation {
		t.Fatalf("expected negotiation, got %s", result.NewStatus)
	}
}

func TestAdvanceNoTransitionStillAnnotates(t *testing.T) {
	lead := models.Lead{ID: 6, Status: StageProposal, Priority: "high", Notes: "nota previa"}
	score := contract.LeadScore{Score: 55, ConversionProbability: 60, Priority: "medium", Sentiment: "neutral", NextAction: contract.NoAction, Reasoning: "estable"}

	result := AdvanceLead(&lead, score, now)
	if result.Transition {
		t.Fatalf("unexpected transition: %+v", result)
	}
	if lead.Priority != "medium" {
		t.Fatalf("priority must be overwritten every pass, got %s", lead.Priority)
	}
	if !strings.HasPrefix(lead.Notes, "nota previa") || !strings.Contains(lead.Notes, "Análisis IA") {
		t.Fatalf("notes not appended: %q", lead.Notes)
	}
	if lead.UpdatedAt != now {
		t.Fatalf("updated_at not set")
	}
}

func TestAdvanceSchedulesFollowUp(t *testing.T) {
	lead := models.Lead{ID: 7, Status: StageNew}
	score := contract.LeadScore{
		Score:                 70,
		ConversionProbability: 60,
		Priority:              "high",
		Sentiment:             "positive",
		NextAction:            "Enviar cotización",
		Timeline:              "2 días",
	}

	result := AdvanceLead(&lead, score, now)
	if result.FollowUp == nil {
		t.Fatalf("expected follow-up activity")
	}
	followUp := result.FollowUp
	if followUp.UserID != models.AutomationUserID {
		t.Fatalf("expected automation user, got %d", followUp.UserID)
	}
	if followUp.Scheduled != now.Add(48*time.Hour) {
		t.Fatalf("unexpected schedule: %v", followUp.Scheduled)
	}
	if followUp.Reminder == nil || *followUp.Reminder != followUp.Scheduled.Add(-2*time.Hour) {
		t.Fatalf("unexpected reminder")
	}
	if !strings.Contains(followUp.Notes, "Enviar cotización") {
		t.Fatalf("action missing from notes: %q", followUp.Notes)
	}
}

func TestAdvanceNoActionSkipsFollowUp(t *testing.T) {
	for _, action := range []string{"", contract.NoAction} {
		lead := models.Lead{ID: 8, Status: StageNew}
		score := contract.LeadScore{Score: 50, ConversionProbability: 50, Priority: "medium", Sentiment: "neutral", NextAction: action}
		result := AdvanceLead(&lead, score, now)
		if result.FollowUp != nil {
			t.Fatalf("action %q should not schedule follow-up", action)
		}
	}
}

func TestNotesRotateAtCap(t *testing.T) {
	old := strings.Repeat("x", maxNotesLen-100)
	lead := models.Lead{ID: 9, Status: StageNew, Notes: old}
	score := contract.LeadScore{Score: 50, ConversionProbability: 50, Priority: "medium", Sentiment: "neutral", NextAction: contract.NoAction, Reasoning: strings.Repeat("r", 300)}

	AdvanceLead(&lead, score, now)
	if len(lead.Notes) > maxNotesLen {
		t.Fatalf("notes exceed cap: %d", len(lead.Notes))
	}
	if !strings.Contains(lead.Notes, "Análisis IA") {
		t.Fatalf("newest block must survive rotation")
	}
}
