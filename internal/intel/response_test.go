package intel

import (
	"strings"
	"testing"
)

func fixedResponder() *AutoResponder {
	return &AutoResponder{pick: func(n int) int { return 0 }}
}

func TestGenerateGreeting(t *testing.T) {
	responder := fixedResponder()
	suggestion := responder.Generate([]string{"Hola, buenos días"}, ResponseContext{AgentName: "María"})

	if suggestion.Bucket != BucketGreeting {
		t.Fatalf("expected greeting bucket, got %s", suggestion.Bucket)
	}
	if suggestion.Tone != ToneFriendly {
		t.Fatalf("expected friendly tone, got %s", suggestion.Tone)
	}
	if suggestion.FollowUpRequired {
		t.Fatalf("greeting should not require follow-up")
	}
	if suggestion.EscalationNeeded {
		t.Fatalf("greeting should not escalate")
	}
	if !strings.Contains(suggestion.Response, "María") {
		t.Fatalf("agent name not substituted: %q", suggestion.Response)
	}
}

func TestGenerateSingleMessageFallsToGreeting(t *testing.T) {
	responder := fixedResponder()
	suggestion := responder.Generate([]string{"algo sin palabras clave"}, ResponseContext{})
	if suggestion.Bucket != BucketGreeting {
		t.Fatalf("single message should greet, got %s", suggestion.Bucket)
	}
}

func TestGeneratePricingBucket(t *testing.T) {
	responder := fixedResponder()
	suggestion := responder.Generate([]string{
		"Buenas tardes equipo",
		"¿Cuál es el costo de la tarifa mensual?",
	}, ResponseContext{AgentName: "Pedro"})

	// Greeting intent wins while present; strip it to reach pricing.
	if suggestion.Bucket != BucketGreeting {
		t.Fatalf("greeting should outrank pricing, got %s", suggestion.Bucket)
	}

	pricing := responder.Generate([]string{
		"Necesito saber el costo",
		"¿Me pasan la tarifa mensual?",
	}, ResponseContext{AgentName: "Pedro"})
	if pricing.Bucket != BucketPricing {
		t.Fatalf("expected pricing bucket, got %s", pricing.Bucket)
	}
	if pricing.Tone != ToneProfessional {
		t.Fatalf("expected professional tone, got %s", pricing.Tone)
	}
}

func TestGenerateSupportEscalation(t *testing.T) {
	responder := fixedResponder()
	suggestion := responder.Generate([]string{
		"El sistema no funciona, es terrible",
		"Tengo un reclamo urgente, estoy muy molesto con el soporte",
	}, ResponseContext{AgentName: "Ana"})

	if suggestion.Bucket != BucketSupport {
		t.Fatalf("expected support bucket, got %s", suggestion.Bucket)
	}
	if !suggestion.FollowUpRequired {
		t.Fatalf("high priority should require follow-up")
	}
	if !suggestion.EscalationNeeded {
		t.Fatalf("negative urgent complaint should escalate")
	}
}

func TestGenerateTopicSubstitution(t *testing.T) {
	responder := fixedResponder()
	suggestion := responder.Generate([]string{
		"Quiero información",
		"Me interesa el catálogo de productos",
	}, ResponseContext{AgentName: "Luis"})

	if suggestion.Bucket != BucketInformation {
		t.Fatalf("expected information bucket, got %s", suggestion.Bucket)
	}
	if strings.Contains(suggestion.Response, "{topic}") || strings.Contains(suggestion.Response, "{name}") {
		t.Fatalf("placeholders not substituted: %q", suggestion.Response)
	}
}

func TestGenerateDefaultAgentName(t *testing.T) {
	responder := fixedResponder()
	suggestion := responder.Generate([]string{"hola"}, ResponseContext{})
	if !strings.Contains(suggestion.Response, "cliente") {
		t.Fatalf("expected default name substitution: %q", suggestion.Response)
	}
}
