package handlers

import (
	"net/http"

	"github.com/PastorStudio/geminiaicrm-sub005/internal/intel"
)

type conversationRequest struct {
	LeadID   *int64   `json:"lead_id"`
	Messages []string `json:"messages"`
}

// conversationFor resolves the message list: an explicit list wins,
// otherwise the lead's stored conversation is loaded.
func (a *API) conversationFor(r *http.Request, req conversationRequest) ([]string, bool, error) {
	if len(req.Messages) > 0 {
		return req.Messages, true, nil
	}
	if req.LeadID == nil {
		return nil, false, nil
	}
	messages, err := a.Leads.MessagesForLead(r.Context(), *req.LeadID)
	if err != nil {
		return nil, false, err
	}
	conversation := make([]string, 0, len(messages))
	for _, msg := range messages {
		conversation = append(conversation, msg.Content)
	}
	return conversation, true, nil
}

// AnalyzeConversation runs the keyword analysis over a conversation.
// The heuristic always answers, so this endpoint works with zero
// providers configured.
func (a *API) AnalyzeConversation(w http.ResponseWriter, r *http.Request) {
	var req conversationRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	conversation, ok, err := a.conversationFor(r, req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load conversation")
		return
	}
	if !ok {
		writeError(w, http.StatusBadRequest, "messages or lead_id required")
		return
	}

	analysis := intel.AnalyzeConversation(conversation)
	writeJSON(w, http.StatusOK, map[string]any{"analysis": analysis})
}

type autoResponseRequest struct {
	LeadID    *int64   `json:"lead_id"`
	Messages  []string `json:"messages"`
	AgentName string   `json:"agent_name"`
}

// AutoResponse suggests a reply. The template suggestion is computed
// first and the provider, when available, rewrites it into a fluent
// message; provider failure returns the template untouched.
func (a *API) AutoResponse(w http.ResponseWriter, r *http.Request) {
	var req autoResponseRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	conversation, ok, err := a.conversationFor(r, conversationRequest{LeadID: req.LeadID, Messages: req.Messages})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load conversation")
		return
	}
	if !ok || len(conversation) == 0 {
		writeError(w, http.StatusBadRequest, "messages or lead_id required")
		return
	}

	agentName := req.AgentName
	if agentName == "" {
		agentName = a.AgentName
	}
	suggestion := a.Responder.Generate(conversation, intel.ResponseContext{AgentName: agentName})

	last := conversation[len(conversation)-1]
	history := conversation[:len(conversation)-1]
	response := a.AI.GenerateReply(r.Context(), req.LeadID, history, last, suggestion.Response)

	writeJSON(w, http.StatusOK, map[string]any{
		"response":   response,
		"suggestion": suggestion,
	})
}

type classifyTicketRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Customer    string `json:"customer"`
	Type        string `json:"type"`
	Channel     string `json:"channel"`
	CreateLead  bool   `json:"create_lead"`
}

// ClassifyTicket classifies a support ticket and optionally spawns a
// lead from it.
func (a *API) ClassifyTicket(w http.ResponseWriter, r *http.Request) {
	var req classifyTicketRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.Title == "" && req.Description == "" {
		writeError(w, http.StatusBadRequest, "title or description required")
		return
	}
	if req.Channel == "" {
		req.Channel = "ticket"
	}

	ticket := intel.Ticket{
		Title:       req.Title,
		Description: req.Description,
		Customer:    req.Customer,
		Type:        req.Type,
		Channel:     req.Channel,
	}
	classification := a.AI.ClassifyTicket(r.Context(), ticket)

	payload := map[string]any{"classification": classification}
	if req.CreateLead {
		if req.Customer == "" {
			writeError(w, http.StatusBadRequest, "customer required to create a lead")
			return
		}
		lead, err := a.Leads.CreateLeadFromTicket(r.Context(), ticket, classification)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to create lead")
			return
		}
		payload["lead"] = lead
	}
	writeJSON(w, http.StatusOK, payload)
}
