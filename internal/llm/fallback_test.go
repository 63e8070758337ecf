package llm

import (
	"testing"

	"github.com/PastorStudio/geminiaicrm-sub005/internal/llm/contract"
)

func TestFallbackLeadScoreAlwaysAnswers(t *testing.T) {
	score := FallbackLeadScore(nil)
	if score == nil {
		t.Fatalf("fallback must never return nil")
	}
	if score.Category != "cold" {
		t.Fatalf("empty conversation should be cold, got %s", score.Category)
	}
	if score.NextAction != "Seguimiento general requerido" {
		t.Fatalf("expected default action, got %q", score.NextAction)
	}
	if score.Timeline != "3 días" {
		t.Fatalf("expected default timeline, got %q", score.Timeline)
	}
}

func TestFallbackLeadScoreHotLead(t *testing.T) {
	score := FallbackLeadScore([]string{
		"Hola, somos una empresa y queremos comprar 50 licencias",
		"Necesito un presupuesto y una cotización formal cuanto antes",
		"Mi correo es compras@empresa.com",
		"¿Podemos contratar esta semana? El precio es lo de menos",
	})
	if score.ConversionProbability < 80 {
		t.Fatalf("expected hot probability, got %d", score.ConversionProbability)
	}
	if score.Category != "hot" {
		t.Fatalf("expected hot, got %s", score.Category)
	}
	if score.Score != score.ConversionProbability {
		t.Fatalf("score and probability must agree in fallback")
	}
	if score.Priority != "urgent" {
		t.Fatalf("cuanto antes should read urgent, got %s", score.Priority)
	}
	if score.Reasoning == "" {
		t.Fatalf("expected reasoning text")
	}
}

func TestFallbackLeadScoreBounds(t *testing.T) {
	score := FallbackLeadScore([]string{"comprar comprar comprar comprar comprar comprar comprar"})
	if score.ConversionProbability < 0 || score.ConversionProbability > 100 {
		t.Fatalf("probability out of range: %d", score.ConversionProbability)
	}
}

func TestUsageCost(t *testing.T) {
	record := contract.UsageRecord{InputTokens: 500, OutputTokens: 1000}
	if cost := record.TotalCost(0.01, 0.02); cost <= 0 {
		t.Fatalf("expected positive cost")
	}
	if record.InputCost(0.01) != 0.005 {
		t.Fatalf("unexpected input cost")
	}
}
