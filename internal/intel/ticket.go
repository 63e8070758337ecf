package intel

// Ticket is the inbound payload for support-ticket classification.
type Ticket struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Customer    string `json:"customer"`
	Type        string `json:"type"`
	Channel     string `json:"channel"`
}

type TicketClassification struct {
	Urgency                 string   `json:"urgency"`
	Category                string   `json:"category"`
	Department              string   `json:"department"`
	EstimatedResolutionTime string   `json:"estimated_resolution_time"`
	RequiredSkills          []string `json:"required_skills"`
	EscalationNeeded        bool     `json:"escalation_needed"`
	Reasoning               string   `json:"reasoning"`
}

var categoryDepartments = map[string]string{
	CategoryVentas:      "Ventas",
	CategoryTecnico:     "Soporte Técnico",
	CategoryFacturacion: "Facturación",
	CategorySoporte:     "Atención al Cliente",
	CategoryGeneral:     "Atención al Cliente",
}

var categorySkills = map[string][]string{
	CategoryVentas:      {"ventas", "negociación"},
	CategoryTecnico:     {"diagnóstico técnico", "producto"},
	CategoryFacturacion: {"facturación", "administración"},
	CategorySoporte:     {"atención al cliente"},
	CategoryGeneral:     {"atención al cliente"},
}

var urgencyResolutionTimes = map[string]string{
	PriorityUrgent: "2 horas",
	PriorityHigh:   "8 horas",
	PriorityMedium: "24 horas",
	PriorityLow:    "72 horas",
}

// ClassifyTicket runs the keyword heuristics over the ticket description.
// Urgency is urgent only when an urgent keyword matched; the complaint,
// support, and buying groups map to high, information to medium.
func ClassifyTicket(ticket Ticket) TicketClassification {
	counts := CountKeywords(ticket.Description)

	urgency := PriorityLow
	switch {
	case counts.Has(GroupUrgent):
		urgency = PriorityUrgent
	case counts.Has(GroupComplaint):
		urgency = PriorityHigh
	case counts.Has(GroupSupport) || counts.Has(GroupBuying):
		urgency = PriorityHigh
	case counts.Has(GroupInformation):
		urgency = PriorityMedium
	}

	category := detectCategory(counts)
	return TicketClassification{
		Urgency:                 urgency,
		Category:                category,
		Department:              categoryDepartments[category],
		EstimatedResolutionTime: urgencyResolutionTimes[urgency],
		RequiredSkills:          categorySkills[category],
		EscalationNeeded:        urgency == PriorityUrgent || counts.Has(GroupComplaint),
		Reasoning:               "clasificación heurística por palabras clave",
	}
}

// DefaultTicketClassification is the fail-open result substituted when a
// provider-backed classification fails or returns unparseable output.
func DefaultTicketClassification() TicketClassification {
	return TicketClassification{
		Urgency:                 PriorityMedium,
		Category:                CategoryGeneral,
		Department:              categoryDepartments[CategoryGeneral],
		EstimatedResolutionTime: urgencyResolutionTimes[PriorityMedium],
		RequiredSkills:          categorySkills[CategoryGeneral],
		EscalationNeeded:        false,
		Reasoning:               "clasificación por defecto: el proveedor de IA no respondió",
	}
}
