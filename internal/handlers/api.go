// Package handlers implements the HTTP API surface.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/PastorStudio/geminiaicrm-sub005/internal/auth"
	"github.com/PastorStudio/geminiaicrm-sub005/internal/intel"
	"github.com/PastorStudio/geminiaicrm-sub005/internal/llm"
	"github.com/PastorStudio/geminiaicrm-sub005/internal/pipeline"
	"github.com/PastorStudio/geminiaicrm-sub005/internal/realtime"
	"github.com/PastorStudio/geminiaicrm-sub005/internal/whatsapp"
)

type API struct {
	Leads     *pipeline.Store
	Auth      *auth.Service
	Hub       *realtime.Hub
	AI        *llm.Service
	Organizer *pipeline.Organizer
	WhatsApp  *whatsapp.Manager
	Responder *intel.AutoResponder
	AgentName string
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func readJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func ParseID(pathPart string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(pathPart), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
