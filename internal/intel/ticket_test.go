package intel

import "testing"

func TestClassifyTicketUrgentTechnical(t *testing.T) {
	classification := ClassifyTicket(Ticket{
		Title:       "Sistema caído",
		Description: "Necesito ayuda con un error urgente en el sistema",
		Customer:    "ACME",
		Channel:     "whatsapp",
	})

	if classification.Urgency != PriorityUrgent {
		t.Fatalf("expected urgent, got %s", classification.Urgency)
	}
	if classification.Category != CategoryTecnico {
		t.Fatalf("expected técnico, got %s", classification.Category)
	}
	if classification.Department != categoryDepartments[classification.Category] {
		t.Fatalf("department inconsistent with category: %s / %s", classification.Department, classification.Category)
	}
	if classification.EstimatedResolutionTime != "2 horas" {
		t.Fatalf("expected 2 horas, got %s", classification.EstimatedResolutionTime)
	}
	if !classification.EscalationNeeded {
		t.Fatalf("urgent ticket should escalate")
	}
}

func TestClassifyTicketComplaint(t *testing.T) {
	classification := ClassifyTicket(Ticket{
		Description: "Tengo una queja, el servicio fue pésimo",
	})
	if classification.Urgency != PriorityHigh {
		t.Fatalf("expected high, got %s", classification.Urgency)
	}
	if !classification.EscalationNeeded {
		t.Fatalf("complaint should escalate")
	}
}

func TestClassifyTicketInformation(t *testing.T) {
	classification := ClassifyTicket(Ticket{
		Description: "Quisiera más detalles del catálogo",
	})
	if classification.Urgency != PriorityMedium {
		t.Fatalf("expected medium, got %s", classification.Urgency)
	}
	if classification.EscalationNeeded {
		t.Fatalf("information request should not escalate")
	}
}

func TestClassifyTicketNoSignals(t *testing.T) {
	classification := ClassifyTicket(Ticket{Description: "sin contenido relevante"})
	if classification.Urgency != PriorityLow {
		t.Fatalf("expected low, got %s", classification.Urgency)
	}
	if classification.Category != CategoryGeneral {
		t.Fatalf("expected general, got %s", classification.Category)
	}
	if classification.EstimatedResolutionTime != "72 horas" {
		t.Fatalf("expected 72 horas, got %s", classification.EstimatedResolutionTime)
	}
}

func TestDefaultTicketClassification(t *testing.T) {
	classification := DefaultTicketClassification()
	if classification.Urgency != PriorityMedium {
		t.Fatalf("expected medium default, got %s", classification.Urgency)
	}
	if classification.Category != CategoryGeneral {
		t.Fatalf("expected general default, got %s", classification.Category)
	}
	if classification.EscalationNeeded {
		t.Fatalf("default must not escalate")
	}
	if len(classification.RequiredSkills) == 0 {
		t.Fatalf("expected default skills")
	}
}
