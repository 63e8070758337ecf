// Package intel implements the heuristic conversational core: keyword
// classification, conversation analysis, auto-response templates, and
// ticket classification. Everything here is pure computation over message
// text; provider-backed enrichment lives in internal/llm.
package intel

import "strings"

// Keyword groups are matched by substring containment, not token match.
// "informaciones" matches "información" by containment; that looseness is
// deliberate and the group lists are curated around it.
const (
	GroupBuying      = "buying"
	GroupInformation = "information"
	GroupSupport     = "support"
	GroupComplaint   = "complaint"
	GroupUrgent      = "urgent"
	GroupPositive    = "positive"
	GroupNegative    = "negative"
	GroupSales       = "sales"
	GroupTechnical   = "technical"
	GroupBilling     = "billing"
	GroupGreeting    = "greeting"
	GroupPricing     = "pricing"
)

var keywordGroups = map[string][]string{
	GroupBuying:      {"comprar", "compra", "precio", "presupuesto", "cotización", "cotizacion", "adquirir", "contratar", "licencia", "pagar"},
	GroupInformation: {"información", "informacion", "detalles", "características", "caracteristicas", "catálogo", "catalogo", "saber más", "saber mas", "conocer"},
	GroupSupport:     {"ayuda", "soporte", "problema", "error", "falla", "no funciona", "asistencia", "configurar"},
	GroupComplaint:   {"reclamo", "queja", "molesto", "inaceptable", "terrible", "pésimo", "pesimo", "decepcionado", "devolución", "devolucion"},
	GroupUrgent:      {"urgente", "urgencia", "inmediato", "emergencia", "crítico", "critico", "cuanto antes", "ya mismo"},
	GroupPositive:    {"gracias", "excelente", "perfecto", "genial", "me encanta", "interesado", "interesa", "buenísimo", "buenisimo"},
	GroupNegative:    {"malo", "terrible", "pésimo", "pesimo", "molesto", "enojado", "decepcionado", "horrible", "no funciona"},
	GroupSales:       {"comprar", "compra", "precio", "presupuesto", "cotización", "cotizacion", "venta", "licencia", "contratar"},
	GroupTechnical:   {"error", "falla", "bug", "sistema", "instalación", "instalacion", "configuración", "configuracion", "técnico", "tecnico", "no funciona"},
	GroupBilling:     {"factura", "facturación", "facturacion", "pago", "cobro", "cargo", "recibo", "boleta"},
	GroupGreeting:    {"hola", "buenos días", "buenos dias", "buenas tardes", "buenas noches"},
	GroupPricing:     {"precio", "presupuesto", "cotización", "cotizacion", "costo", "tarifa"},
}

// KeywordCounts maps group name to the number of keyword occurrences
// found in the classified text.
type KeywordCounts map[string]int

// CountKeywords lower-cases text and counts, per group, how many times
// any of the group's words occurs as a substring. Overlapping substrings
// can double-count; an empty input yields zero across all groups.
func CountKeywords(text string) KeywordCounts {
	lowered := strings.ToLower(text)
	counts := make(KeywordCounts, len(keywordGroups))
	for group, words := range keywordGroups {
		total := 0
		for _, word := range words {
			total += strings.Count(lowered, word)
		}
		counts[group] = total
	}
	return counts
}

func (c KeywordCounts) Has(group string) bool {
	return c[group] > 0
}

// ExtractKeywords returns words longer than 3 characters that
// substring-match any configured pattern in either direction, in order of
// first appearance, capped at max.
func ExtractKeywords(text string, max int) []string {
	lowered := strings.ToLower(text)
	words := strings.FieldsFunc(lowered, func(r rune) bool {
		switch r {
		case ' ', '\t', '\n', ',', '.', ';', ':', '!', '?', '¿', '¡', '(', ')', '"':
			return true
		}
		return false
	})

	seen := map[string]bool{}
	var out []string
	for _, word := range words {
		if len([]rune(word)) <= 3 || seen[word] {
			continue
		}
		if matchesAnyPattern(word) {
			seen[word] = true
			out = append(out, word)
			if len(out) >= max {
				break
			}
		}
	}
	return out
}

func matchesAnyPattern(word string) bool {
	for _, patterns := range keywordGroups {
		for _, pattern := range patterns {
			if strings.Contains(word, pattern) || strings.Contains(pattern, word) {
				return true
			}
		}
	}
	return false
}
