package intel

import (
	"reflect"
	"testing"
)

func TestAnalyzeBudgetRequest(t *testing.T) {
	analysis := AnalyzeConversation([]string{"Hola, necesito un presupuesto urgente para 50 licencias"})

	if analysis.Sentiment != SentimentNeutral {
		t.Fatalf("expected neutral sentiment, got %s", analysis.Sentiment)
	}
	if !analysis.Intents.Has(IntentCompra) {
		t.Fatalf("expected compra intent, got %v", analysis.Intents.Labels())
	}
	if analysis.Priority != PriorityUrgent {
		t.Fatalf("expected urgent priority, got %s", analysis.Priority)
	}
	if analysis.Category != CategoryVentas {
		t.Fatalf("expected ventas category, got %s", analysis.Category)
	}
	if analysis.CommercialPotential <= 0 {
		t.Fatalf("expected positive commercial potential")
	}
}

func TestAnalyzeComplaint(t *testing.T) {
	analysis := AnalyzeConversation([]string{
		"El servicio es terrible",
		"Estoy muy molesto, esto no funciona",
	})

	if analysis.Sentiment != SentimentNegative {
		t.Fatalf("expected negative sentiment, got %s", analysis.Sentiment)
	}
	if !analysis.Intents.Has(IntentReclamo) {
		t.Fatalf("expected reclamo intent, got %v", analysis.Intents.Labels())
	}
	if analysis.Priority != PriorityHigh {
		t.Fatalf("expected high priority, got %s", analysis.Priority)
	}
	if analysis.UrgencyScore < 0.4 {
		t.Fatalf("expected urgency from reclamo, got %f", analysis.UrgencyScore)
	}
}

func TestAnalyzeEmptyConversation(t *testing.T) {
	analysis := AnalyzeConversation(nil)

	if analysis.Sentiment != SentimentNeutral {
		t.Fatalf("expected neutral sentiment, got %s", analysis.Sentiment)
	}
	if !analysis.Intents.Has(IntentConsultaGeneral) {
		t.Fatalf("expected consulta general fallback, got %v", analysis.Intents.Labels())
	}
	if analysis.Confidence != 0.3 {
		t.Fatalf("expected base confidence 0.3, got %f", analysis.Confidence)
	}
	if analysis.MessageCount != 0 {
		t.Fatalf("expected zero message count")
	}
	if len(analysis.SuggestedActions) != 1 || analysis.SuggestedActions[0] != "Seguimiento general requerido" {
		t.Fatalf("expected default action, got %v", analysis.SuggestedActions)
	}
}

func TestAnalyzeScoresStayInRange(t *testing.T) {
	// Heavy keyword repetition must not push scores past 1.
	analysis := AnalyzeConversation([]string{
		"urgente urgente urgente urgente comprar comprar comprar comprar",
		"reclamo soporte problema error comprar precio presupuesto",
	})
	if analysis.UrgencyScore < 0 || analysis.UrgencyScore > 1 {
		t.Fatalf("urgency out of range: %f", analysis.UrgencyScore)
	}
	if analysis.CommercialPotential < 0 || analysis.CommercialPotential > 1 {
		t.Fatalf("commercial potential out of range: %f", analysis.CommercialPotential)
	}
	if analysis.Confidence < 0 || analysis.Confidence > 1 {
		t.Fatalf("confidence out of range: %f", analysis.Confidence)
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	messages := []string{"Hola, quiero información sobre precios", "Gracias"}
	first := AnalyzeConversation(messages)
	second := AnalyzeConversation(messages)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("analysis not deterministic:\n%+v\n%+v", first, second)
	}
}

func TestUrgentPriorityImpliesUrgentKeyword(t *testing.T) {
	cases := []string{
		"necesito ayuda con un error",
		"quiero comprar licencias",
		"el servicio es terrible, tengo un reclamo",
		"hola, quiero información",
	}
	for _, msg := range cases {
		analysis := AnalyzeConversation([]string{msg})
		counts := CountKeywords(msg)
		if analysis.Priority == PriorityUrgent && !counts.Has(GroupUrgent) {
			t.Fatalf("urgent priority without urgent keyword: %q", msg)
		}
	}
	urgent := AnalyzeConversation([]string{"esto es urgente"})
	if urgent.Priority != PriorityUrgent {
		t.Fatalf("expected urgent priority, got %s", urgent.Priority)
	}
}

func TestAnalyzeLeadQualityHigh(t *testing.T) {
	analysis := AnalyzeConversation([]string{
		"Hola, somos una empresa de logística y queremos comprar licencias para todo el equipo",
		"Necesitamos un presupuesto formal con el detalle por usuario",
		"Mi correo es compras@empresa.com para enviar la cotización",
		"¿Pueden contratar el soporte extendido también?",
	})
	if analysis.LeadQuality != QualityHigh {
		t.Fatalf("expected high quality, got %s", analysis.LeadQuality)
	}
}

func TestAnalyzeCategoryPriority(t *testing.T) {
	// Sales keywords outrank technical ones when both appear.
	analysis := AnalyzeConversation([]string{"quiero comprar pero el sistema da error"})
	if analysis.Category != CategoryVentas {
		t.Fatalf("expected ventas, got %s", analysis.Category)
	}

	technical := AnalyzeConversation([]string{"el sistema da un error de instalación"})
	if technical.Category != CategoryTecnico {
		t.Fatalf("expected técnico, got %s", technical.Category)
	}
}
