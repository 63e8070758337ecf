package llm

import (
	"fmt"
	"math"
	"strings"

	"github.com/PastorStudio/geminiaicrm-sub005/internal/intel"
	"github.com/PastorStudio/geminiaicrm-sub005/internal/llm/contract"
)

// FallbackLeadScore derives a provider-shaped score from the keyword
// analysis. It is the terminal step of the scoring chain and never
// fails, so a lead is always scored even with zero providers online.
func FallbackLeadScore(conversation []string) *contract.LeadScore {
	analysis := intel.AnalyzeConversation(conversation)

	probability := int(math.Round(analysis.CommercialPotential * 100))
	category := "cold"
	switch {
	case probability >= 80:
		category = "hot"
	case probability >= 50:
		category = "warm"
	}

	nextAction := contract.NoAction
	if len(analysis.SuggestedActions) > 0 {
		nextAction = analysis.SuggestedActions[0]
	}

	return &contract.LeadScore{
		Score:                 probability,
		Category:              category,
		ConversionProbability: probability,
		Priority:              analysis.Priority,
		Sentiment:             analysis.Sentiment,
		NextAction:            nextAction,
		Timeline:              "3 días",
		Reasoning: fmt.Sprintf(
			"Análisis por palabras clave: sentimiento %s, intención %s, calidad %s.",
			analysis.Sentiment, strings.Join(analysis.Intents.Labels(), ", "), analysis.LeadQuality),
	}
}
