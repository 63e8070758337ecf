package handlers

import "net/http"

func (a *API) GetDashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := a.Leads.DashboardSummary(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}

	payload := map[string]any{"summary": summary}
	if a.AI != nil && a.AI.Store != nil {
		if usage, err := a.AI.Store.UsageSummary(r.Context()); err == nil {
			payload["ai_usage"] = usage
		}
	}
	writeJSON(w, http.StatusOK, payload)
}
