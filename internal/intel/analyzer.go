package intel

import "strings"

const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"

	PriorityUrgent = "urgent"
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"

	QualityHigh   = "high"
	QualityMedium = "medium"
	QualityLow    = "low"

	CategoryVentas      = "ventas"
	CategoryTecnico     = "técnico"
	CategoryFacturacion = "facturación"
	CategorySoporte     = "soporte"
	CategoryGeneral     = "general"
)

// Analysis is the derived summary of a lead's conversation. It is a value
// computed on demand from the message list and is never persisted or
// mutated after creation.
type Analysis struct {
	Sentiment           string    `json:"sentiment"`
	Intents             IntentSet `json:"intents"`
	LeadQuality         string    `json:"lead_quality"`
	Priority            string    `json:"priority"`
	Category            string    `json:"category"`
	Confidence          float64   `json:"confidence"`
	Keywords            []string  `json:"keywords"`
	UrgencyScore        float64   `json:"urgency_score"`
	CommercialPotential float64   `json:"commercial_potential"`
	SuggestedActions    []string  `json:"suggested_actions"`
	MessageCount        int       `json:"message_count"`
}

const maxKeywords = 10

// AnalyzeConversation computes an Analysis from the given message
// contents. An empty list yields a low-confidence neutral result instead
// of an error.
func AnalyzeConversation(messages []string) Analysis {
	text := strings.ToLower(strings.Join(messages, " "))
	counts := CountKeywords(text)

	analysis := Analysis{
		Sentiment:    detectSentiment(counts),
		Intents:      detectIntents(counts),
		Category:     detectCategory(counts),
		Keywords:     ExtractKeywords(text, maxKeywords),
		MessageCount: len(messages),
	}
	analysis.LeadQuality = scoreLeadQuality(text, counts, len(messages), averageLength(messages))
	analysis.Priority = decidePriority(analysis.Sentiment, analysis.Intents, counts)
	analysis.UrgencyScore = urgencyScore(counts, analysis.Intents)
	analysis.CommercialPotential = commercialPotential(analysis.LeadQuality, counts)
	analysis.SuggestedActions = suggestActions(analysis)
	analysis.Confidence = confidence(len(messages), averageLength(messages), len(analysis.Keywords))
	return analysis
}

func averageLength(messages []string) float64 {
	if len(messages) == 0 {
		return 0
	}
	total := 0
	for _, msg := range messages {
		total += len(msg)
	}
	return float64(total) / float64(len(messages))
}

func detectSentiment(counts KeywordCounts) string {
	positive := counts[GroupPositive]
	negative := counts[GroupNegative]
	switch {
	case positive > negative && positive > 0:
		return SentimentPositive
	case negative > positive && negative > 0:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

func detectIntents(counts KeywordCounts) IntentSet {
	var set IntentSet
	if counts.Has(GroupBuying) {
		set.Add(IntentCompra)
	}
	if counts.Has(GroupInformation) {
		set.Add(IntentInformacion)
	}
	if counts.Has(GroupSupport) {
		set.Add(IntentSoporte)
	}
	if counts.Has(GroupComplaint) {
		set.Add(IntentReclamo)
	}
	if counts.Has(GroupGreeting) {
		set.Add(IntentSaludo)
	}
	if set.Empty() {
		set.Add(IntentConsultaGeneral)
	}
	return set
}

func detectCategory(counts KeywordCounts) string {
	switch {
	case counts.Has(GroupSales):
		return CategoryVentas
	case counts.Has(GroupTechnical):
		return CategoryTecnico
	case counts.Has(GroupBilling):
		return CategoryFacturacion
	case counts.Has(GroupSupport):
		return CategorySoporte
	default:
		return CategoryGeneral
	}
}

func scoreLeadQuality(text string, counts KeywordCounts, messageCount int, avgLength float64) string {
	score := 0
	if counts.Has(GroupBuying) {
		score += 3
	}
	if messageCount > 3 {
		score += 2
	}
	if avgLength > 50 {
		score++
	}
	if strings.Contains(text, "presupuesto") || strings.Contains(text, "cotización") || strings.Contains(text, "cotizacion") {
		score += 2
	}
	if strings.Contains(text, "@") || strings.Contains(text, "empresa") || strings.Contains(text, "compañía") || strings.Contains(text, "compania") {
		score++
	}
	switch {
	case score >= 5:
		return QualityHigh
	case score >= 2:
		return QualityMedium
	default:
		return QualityLow
	}
}

func decidePriority(sentiment string, intents IntentSet, counts KeywordCounts) string {
	switch {
	case counts.Has(GroupUrgent):
		return PriorityUrgent
	case sentiment == SentimentNegative && intents.Has(IntentReclamo):
		return PriorityHigh
	case intents.Has(IntentCompra) || intents.Has(IntentSoporte):
		return PriorityHigh
	case intents.Has(IntentInformacion):
		return PriorityMedium
	default:
		return PriorityLow
	}
}

func urgencyScore(counts KeywordCounts, intents IntentSet) float64 {
	score := 0.3 * float64(counts[GroupUrgent])
	if intents.Has(IntentReclamo) {
		score += 0.4
	}
	if intents.Has(IntentSoporte) {
		score += 0.2
	}
	return clamp01(score)
}

func commercialPotential(quality string, counts KeywordCounts) float64 {
	bonus := 0.0
	switch quality {
	case QualityHigh:
		bonus = 0.5
	case QualityMedium:
		bonus = 0.3
	}
	return clamp01(bonus + 0.2*float64(counts[GroupBuying]))
}

func suggestActions(analysis Analysis) []string {
	var actions []string
	if analysis.Intents.Has(IntentCompra) {
		actions = append(actions, "Enviar cotización personalizada", "Programar llamada de seguimiento")
	}
	if analysis.Intents.Has(IntentSoporte) {
		actions = append(actions, "Escalar a equipo técnico", "Crear ticket de soporte")
	}
	if analysis.Sentiment == SentimentNegative {
		actions = append(actions, "Atención prioritaria requerida", "Contacto directo con supervisor")
	}
	if analysis.Priority == PriorityUrgent {
		actions = append(actions, "Respuesta inmediata necesaria")
	}
	if len(actions) == 0 {
		actions = append(actions, "Seguimiento general requerido")
	}
	return actions
}

func confidence(messageCount int, avgLength float64, keywordCount int) float64 {
	score := 0.3
	if messageCount > 1 {
		score += 0.2
	}
	if avgLength > 20 {
		score += 0.2
	}
	if keywordCount > 0 {
		score += 0.3
	}
	return clamp01(score)
}

func clamp01(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
