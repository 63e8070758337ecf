package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/PastorStudio/geminiaicrm-sub005/internal/models"
	"github.com/PastorStudio/geminiaicrm-sub005/internal/pipeline"
)

type replyRequest struct {
	LeadID  int64  `json:"lead_id"`
	Content string `json:"content"`
}

// ReplyMessage sends an agent-authored message to a lead over WhatsApp
// and records it as outbound.
func (a *API) ReplyMessage(w http.ResponseWriter, r *http.Request) {
	var req replyRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.LeadID <= 0 || req.Content == "" {
		writeError(w, http.StatusBadRequest, "lead_id and content are required")
		return
	}

	lead, err := a.Leads.GetLead(r.Context(), req.LeadID)
	if errors.Is(err, pipeline.ErrLeadNotFound) {
		writeError(w, http.StatusNotFound, "lead not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load lead")
		return
	}
	if lead.Phone == nil {
		writeError(w, http.StatusBadRequest, "lead has no phone number")
		return
	}

	if a.WhatsApp != nil {
		if err := a.WhatsApp.SendMessage(r.Context(), *lead.Phone, req.Content); err != nil {
			writeError(w, http.StatusBadGateway, "failed to send whatsapp message: "+err.Error())
			return
		}
	}

	saved, err := a.Leads.InsertMessage(r.Context(), models.Message{
		LeadID:    &lead.ID,
		Content:   req.Content,
		Channel:   models.ChannelWhatsApp,
		Direction: models.DirectionOutbound,
		Read:      true,
		SentAt:    time.Now().UTC(),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save message")
		return
	}

	if a.Hub != nil {
		a.Hub.Broadcast(map[string]any{
			"type":       "message.outbound",
			"lead_id":    lead.ID,
			"message_id": saved.ID,
		})
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": saved})
}
