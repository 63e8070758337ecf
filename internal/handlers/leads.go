package handlers

import (
	"errors"
	"net/http"

	"github.com/PastorStudio/geminiaicrm-sub005/internal/pipeline"
)

func (a *API) ListLeads(w http.ResponseWriter, r *http.Request) {
	leads, err := a.Leads.ListLeads(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list leads")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"leads": leads})
}

func (a *API) GetLead(w http.ResponseWriter, r *http.Request, leadID int64) {
	lead, err := a.Leads.GetLead(r.Context(), leadID)
	if errors.Is(err, pipeline.ErrLeadNotFound) {
		writeError(w, http.StatusNotFound, "lead not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load lead")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"lead": lead})
}

func (a *API) LeadMessages(w http.ResponseWriter, r *http.Request, leadID int64) {
	if _, err := a.Leads.GetLead(r.Context(), leadID); errors.Is(err, pipeline.ErrLeadNotFound) {
		writeError(w, http.StatusNotFound, "lead not found")
		return
	}
	messages, err := a.Leads.MessagesForLead(r.Context(), leadID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load messages")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": messages})
}

func (a *API) LeadActivities(w http.ResponseWriter, r *http.Request, leadID int64) {
	if _, err := a.Leads.GetLead(r.Context(), leadID); errors.Is(err, pipeline.ErrLeadNotFound) {
		writeError(w, http.StatusNotFound, "lead not found")
		return
	}
	activities, err := a.Leads.ActivitiesForLead(r.Context(), leadID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load activities")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"activities": activities})
}

// AdvanceLead runs the score-and-advance cycle on one lead.
func (a *API) AdvanceLead(w http.ResponseWriter, r *http.Request, leadID int64) {
	result, err := a.Organizer.OrganizeLead(r.Context(), leadID)
	if errors.Is(err, pipeline.ErrLeadNotFound) {
		writeError(w, http.StatusNotFound, "lead not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to advance lead")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// OrganizeLeads runs the batch cycle over every lead.
func (a *API) OrganizeLeads(w http.ResponseWriter, r *http.Request) {
	result, err := a.Organizer.OrganizeAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "organize run failed")
		return
	}
	writeJSON(w, http.StatusOK, result)
}
