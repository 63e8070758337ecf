package intel

import (
	"math/rand/v2"
	"strings"
)

const (
	BucketGreeting    = "greeting"
	BucketInformation = "information"
	BucketPricing     = "pricing"
	BucketSupport     = "support"
	BucketFollowUp    = "follow_up"

	ToneFriendly     = "friendly"
	ToneProfessional = "professional"
	ToneFormal       = "formal"
)

// Suggestion is a template-filled reply proposal. Callers that want a
// fluent reply delegate to the llm service and keep this as the fallback.
type Suggestion struct {
	Response         string  `json:"response"`
	Bucket           string  `json:"bucket"`
	Confidence       float64 `json:"confidence"`
	Tone             string  `json:"tone"`
	FollowUpRequired bool    `json:"follow_up_required"`
	EscalationNeeded bool    `json:"escalation_needed"`
}

// ResponseContext carries the placeholder values available to templates.
type ResponseContext struct {
	AgentName string
}

var responseTemplates = map[string][]string{
	BucketGreeting: {
		"¡Hola! Soy {name}, un gusto saludarte. ¿En qué puedo ayudarte hoy?",
		"¡Bienvenido! Mi nombre es {name} y estoy aquí para asistirte con {topic}.",
		"Hola, gracias por escribirnos. Soy {name}, cuéntame qué necesitas.",
	},
	BucketInformation: {
		"Con gusto te comparto más información sobre {topic}. ¿Hay algún aspecto puntual que te interese?",
		"Gracias por tu interés en {topic}. Te envío los detalles y quedo atento a tus preguntas.",
		"Claro, sobre {topic} puedo contarte lo siguiente. ¿Te gustaría agendar una llamada para profundizar?",
	},
	BucketPricing: {
		"Sobre {topic}, con gusto preparo una cotización personalizada. ¿Me confirmas la cantidad que necesitas?",
		"Te envío nuestra lista de precios para {topic}. Si me das más detalles puedo armarte un presupuesto a medida.",
		"Gracias por consultar precios. Para {topic} tenemos varias opciones; ¿cuál es tu presupuesto aproximado?",
	},
	BucketSupport: {
		"Lamento el inconveniente con {topic}. Ya registré tu caso y nuestro equipo técnico lo revisará a la brevedad.",
		"Entiendo, vamos a resolver el problema con {topic}. ¿Podrías enviarme una captura o más detalles del error?",
		"Tu caso sobre {topic} fue escalado a soporte. Te mantendré informado del avance, {name} queda a cargo.",
	},
	BucketFollowUp: {
		"Gracias por tu mensaje sobre {topic}. Lo estoy revisando y te respondo a la brevedad.",
		"Recibido. Le doy seguimiento a {topic} y vuelvo contigo con una respuesta completa.",
		"Perfecto, tomo nota sobre {topic}. ¿Hay algo más en lo que pueda ayudarte mientras tanto?",
	},
}

var bucketTones = map[string]string{
	BucketGreeting:    ToneFriendly,
	BucketInformation: ToneProfessional,
	BucketPricing:     ToneProfessional,
	BucketSupport:     ToneFormal,
	BucketFollowUp:    ToneFriendly,
}

// AutoResponder selects and fills a response template from the
// conversation analysis. It holds no mutable state beyond the template
// picker, which is injectable for tests.
type AutoResponder struct {
	pick func(n int) int
}

func NewAutoResponder() *AutoResponder {
	return &AutoResponder{pick: rand.IntN}
}

func (a *AutoResponder) Generate(messages []string, ctx ResponseContext) Suggestion {
	analysis := AnalyzeConversation(messages)
	return a.FromAnalysis(analysis, messages, ctx)
}

// FromAnalysis builds a suggestion from an analysis computed elsewhere,
// so callers that already analyzed the conversation do not pay twice.
func (a *AutoResponder) FromAnalysis(analysis Analysis, messages []string, ctx ResponseContext) Suggestion {
	text := strings.ToLower(strings.Join(messages, " "))
	counts := CountKeywords(text)

	bucket := selectBucket(analysis, counts, len(messages))
	templates := responseTemplates[bucket]
	template := templates[a.pick(len(templates))]

	name := ctx.AgentName
	if name == "" {
		name = "cliente"
	}
	topic := "tu consulta"
	if len(analysis.Keywords) > 0 {
		topic = analysis.Keywords[0]
	}

	response := strings.ReplaceAll(template, "{name}", name)
	response = strings.ReplaceAll(response, "{topic}", topic)

	return Suggestion{
		Response:         response,
		Bucket:           bucket,
		Confidence:       analysis.Confidence,
		Tone:             bucketTones[bucket],
		FollowUpRequired: analysis.Priority == PriorityHigh || analysis.Priority == PriorityUrgent,
		EscalationNeeded: analysis.Sentiment == SentimentNegative && analysis.UrgencyScore > 0.7,
	}
}

// Bucket priority: greeting, information, pricing, support, then the
// follow-up catch-all. Pricing keys on the pricing keyword group because
// the intent vocabulary has no dedicated price label.
func selectBucket(analysis Analysis, counts KeywordCounts, messageCount int) string {
	switch {
	case analysis.Intents.Has(IntentSaludo) || messageCount <= 1:
		return BucketGreeting
	case analysis.Intents.Has(IntentInformacion):
		return BucketInformation
	case counts.Has(GroupPricing):
		return BucketPricing
	case analysis.Intents.Has(IntentSoporte):
		return BucketSupport
	default:
		return BucketFollowUp
	}
}
