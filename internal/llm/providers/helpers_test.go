package providers

import (
	"strings"
	"testing"
	"time"
)

func TestExtractJSON(t *testing.T) {
	content := "Claro, aquí está el resultado:\n{\"score\": 80}\nEspero que sirva."
	if got := extractJSON(content); got != `{"score": 80}` {
		t.Fatalf("unexpected extraction: %q", got)
	}
}

func TestExtractJSONNoBraces(t *testing.T) {
	if got := extractJSON("sin json"); got != "sin json" {
		t.Fatalf("expected passthrough, got %q", got)
	}
}

func TestParseLeadScoreValid(t *testing.T) {
	content := `{"score": 85, "category": "hot", "conversion_probability": 90, "priority": "high", "sentiment": "positive", "next_action": "llamar", "timeline": "2 días", "reasoning": "ok"}`
	score, err := parseLeadScore(content)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if score.Score != 85 || score.Category != "hot" || score.Priority != "high" {
		t.Fatalf("unexpected score: %+v", score)
	}
}

func TestParseLeadScoreClampsPercentages(t *testing.T) {
	content := `{"score": 150, "category": "hot", "conversion_probability": -5, "priority": "high", "sentiment": "positive"}`
	score, err := parseLeadScore(content)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if score.Score != 100 || score.ConversionProbability != 0 {
		t.Fatalf("values not clamped: %+v", score)
	}
}

func TestParseLeadScoreRejectsBadEnums(t *testing.T) {
	cases := []string{
		`{"score": 50, "category": "hot", "priority": "asap", "sentiment": "positive"}`,
		`{"score": 50, "category": "hot", "priority": "high", "sentiment": "happy"}`,
		`{"score": 50, "category": "", "priority": "high", "sentiment": "positive"}`,
		`texto sin json`,
	}
	for _, content := range cases {
		if _, err := parseLeadScore(content); err == nil {
			t.Fatalf("expected error for %q", content)
		}
	}
}

func TestParseTicketClassification(t *testing.T) {
	content := "```json\n{\"urgency\": \"high\", \"category\": \"técnico\", \"department\": \"Soporte Técnico\", \"escalation_needed\": true}\n```"
	classification, err := parseTicketClassification(content)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if classification.Urgency != "high" || classification.Category != "técnico" {
		t.Fatalf("unexpected classification: %+v", classification)
	}
	if !classification.EscalationNeeded {
		t.Fatalf("escalation flag lost")
	}
}

func TestParseTicketClassificationRejectsBadUrgency(t *testing.T) {
	if _, err := parseTicketClassification(`{"urgency": "whenever", "category": "general"}`); err == nil {
		t.Fatalf("expected error")
	}
}

func TestScoringPromptCarriesConversation(t *testing.T) {
	prompt := scoringPrompt([]string{"hola", "quiero un presupuesto"})
	if !strings.Contains(prompt, "quiero un presupuesto") {
		t.Fatalf("conversation missing from prompt")
	}
	if !strings.Contains(prompt, "conversion_probability") {
		t.Fatalf("schema missing from prompt")
	}
}

func TestAverageLatency(t *testing.T) {
	avg := averageLatency(100*time.Millisecond, 300*time.Millisecond, 2)
	if avg != 200*time.Millisecond {
		t.Fatalf("unexpected average: %v", avg)
	}
	if got := averageLatency(0, 150*time.Millisecond, 1); got != 150*time.Millisecond {
		t.Fatalf("first sample should pass through, got %v", got)
	}
}
