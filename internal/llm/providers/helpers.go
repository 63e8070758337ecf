package providers

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/PastorStudio/geminiaicrm-sub005/internal/intel"
	"github.com/PastorStudio/geminiaicrm-sub005/internal/llm/contract"
)

const salesPersona = `Eres el asistente comercial de un equipo de ventas que atiende clientes por WhatsApp.
- Responde siempre en español, con tono profesional y cercano.
- Sé breve: máximo 3 líneas.
- Si el cliente pregunta por precios, ofrece preparar una cotización personalizada.
- Si describe un problema técnico, muestra empatía y confirma que el caso quedó registrado.`

func scoringPrompt(conversation []string) string {
	var b strings.Builder
	b.WriteString(`Analiza esta conversación de WhatsApp con un cliente potencial y responde SOLO con un JSON con este formato exacto:
{
  "score": 0-100,
  "category": "hot" | "warm" | "cold",
  "conversion_probability": 0-100,
  "priority": "urgent" | "high" | "medium" | "low",
  "sentiment": "positive" | "neutral" | "negative",
  "next_action": "acción concreta, o ninguna",
  "timeline": "N horas | N días | N semanas",
  "reasoning": "explicación breve"
}

Conversación:
`)
	b.WriteString(joinLines(conversation))
	return b.String()
}

func replyPrompt(history []string, message string) string {
	var b strings.Builder
	b.WriteString(salesPersona)
	b.WriteString("\n\n--- Conversación ---\n")
	b.WriteString(joinLines(history))
	b.WriteString("\ncliente: ")
	b.WriteString(message)
	b.WriteString("\nasistente: ")
	return b.String()
}

func ticketPrompt(ticket intel.Ticket) string {
	var b strings.Builder
	b.WriteString(`Clasifica este ticket de soporte y responde SOLO con un JSON con este formato exacto:
{
  "urgency": "urgent" | "high" | "medium" | "low",
  "category": "ventas" | "técnico" | "facturación" | "soporte" | "general",
  "department": "departamento responsable",
  "estimated_resolution_time": "plazo estimado",
  "required_skills": ["habilidad"],
  "escalation_needed": true | false,
  "reasoning": "explicación breve"
}

Ticket:
Título: `)
	b.WriteString(ticket.Title)
	b.WriteString("\nDescripción: ")
	b.WriteString(ticket.Description)
	b.WriteString("\nCliente: ")
	b.WriteString(ticket.Customer)
	b.WriteString("\nCanal: ")
	b.WriteString(ticket.Channel)
	return b.String()
}

func joinLines(messages []string) string {
	return strings.Join(messages, "\n")
}

// extractJSON trims provider chatter around the first JSON block so that
// the caller can attempt a full unmarshal. The parse is all-or-nothing:
// a failed unmarshal means the whole response is discarded.
func extractJSON(text string) string {
	start := strings.IndexAny(text, "{[")
	end := strings.LastIndexAny(text, "}]")
	if start == -1 || end == -1 || end <= start {
		return text
	}
	return text[start : end+1]
}

var errInvalidScore = errors.New("invalid lead score payload")

func parseLeadScore(content string) (*contract.LeadScore, error) {
	var score contract.LeadScore
	if err := json.Unmarshal([]byte(extractJSON(content)), &score); err != nil {
		return nil, err
	}
	if !validPriority(score.Priority) || !validSentiment(score.Sentiment) || score.Category == "" {
		return nil, errInvalidScore
	}
	score.Score = clampPercent(score.Score)
	score.ConversionProbability = clampPercent(score.ConversionProbability)
	return &score, nil
}

var errInvalidTicket = errors.New("invalid ticket classification payload")

func parseTicketClassification(content string) (*intel.TicketClassification, error) {
	var classification intel.TicketClassification
	if err := json.Unmarshal([]byte(extractJSON(content)), &classification); err != nil {
		return nil, err
	}
	if !validPriority(classification.Urgency) || classification.Category == "" {
		return nil, errInvalidTicket
	}
	return &classification, nil
}

func validPriority(priority string) bool {
	switch priority {
	case intel.PriorityUrgent, intel.PriorityHigh, intel.PriorityMedium, intel.PriorityLow:
		return true
	}
	return false
}

func validSentiment(sentiment string) bool {
	switch sentiment {
	case intel.SentimentPositive, intel.SentimentNeutral, intel.SentimentNegative:
		return true
	}
	return false
}

func clampPercent(value int) int {
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}

func averageLatency(current time.Duration, latest time.Duration, count int64) time.Duration {
	if count <= 1 {
		return latest
	}
	return time.Duration(((current * time.Duration(count-1)) + latest) / time.Duration(count))
}
