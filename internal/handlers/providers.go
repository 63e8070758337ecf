package handlers

import (
	"net/http"

	"github.com/PastorStudio/geminiaicrm-sub005/internal/models"
)

type providerView struct {
	ID                   int64   `json:"id"`
	ProviderName         string  `json:"provider_name"`
	ModelName            string  `json:"model_name"`
	Temperature          float64 `json:"temperature"`
	MaxTokens            int     `json:"max_tokens"`
	CostPer1KInput       float64 `json:"cost_per_1k_input"`
	CostPer1KOutput      float64 `json:"cost_per_1k_output"`
	MaxRequestsPerMinute int     `json:"max_requests_per_minute"`
	IsActive             bool    `json:"is_active"`
	IsDefault            bool    `json:"is_default"`
	HealthStatus         string  `json:"health_status"`
}

// ListProviders returns configured providers. API keys never leave the
// database; only the row metadata is exposed.
func (a *API) ListProviders(w http.ResponseWriter, r *http.Request) {
	records, err := a.AI.Store.ListProviderRecords(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list providers")
		return
	}

	views := make([]providerView, 0, len(records))
	for _, record := range records {
		views = append(views, providerView{
			ID:                   record.ID,
			ProviderName:         record.ProviderName,
			ModelName:            record.ModelName,
			Temperature:          record.Temperature,
			MaxTokens:            record.MaxTokens,
			CostPer1KInput:       record.CostPer1KInput,
			CostPer1KOutput:      record.CostPer1KOutput,
			MaxRequestsPerMinute: record.MaxRequestsPerMinute,
			IsActive:             record.IsActive,
			IsDefault:            record.IsDefault,
			HealthStatus:         record.HealthStatus,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"providers": views})
}

type createProviderRequest struct {
	ProviderName         string  `json:"provider_name"`
	APIKey               string  `json:"api_key"`
	ModelName            string  `json:"model_name"`
	Temperature          float64 `json:"temperature"`
	MaxTokens            int     `json:"max_tokens"`
	CostPer1KInput       float64 `json:"cost_per_1k_input"`
	CostPer1KOutput      float64 `json:"cost_per_1k_output"`
	MaxRequestsPerMinute int     `json:"max_requests_per_minute"`
	IsActive             bool    `json:"is_active"`
	IsDefault            bool    `json:"is_default"`
}

func (a *API) CreateProvider(w http.ResponseWriter, r *http.Request) {
	var req createProviderRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.ProviderName == "" || req.APIKey == "" || req.ModelName == "" {
		writeError(w, http.StatusBadRequest, "provider_name, api_key, and model_name are required")
		return
	}
	if req.MaxTokens <= 0 {
		req.MaxTokens = 1024
	}

	record, err := a.AI.Store.CreateProvider(r.Context(), models.AIProvider{
		ProviderName:         req.ProviderName,
		APIKey:               req.APIKey,
		ModelName:            req.ModelName,
		Temperature:          req.Temperature,
		MaxTokens:            req.MaxTokens,
		CostPer1KInput:       req.CostPer1KInput,
		CostPer1KOutput:      req.CostPer1KOutput,
		MaxRequestsPerMinute: req.MaxRequestsPerMinute,
		IsActive:             req.IsActive,
		IsDefault:            req.IsDefault,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create provider")
		return
	}

	// New rows take effect on the next routing decision.
	a.AI.Router.Invalidate()

	writeJSON(w, http.StatusCreated, map[string]any{"provider": providerView{
		ID:                   record.ID,
		ProviderName:         record.ProviderName,
		ModelName:            record.ModelName,
		Temperature:          record.Temperature,
		MaxTokens:            record.MaxTokens,
		CostPer1KInput:       record.CostPer1KInput,
		CostPer1KOutput:      record.CostPer1KOutput,
		MaxRequestsPerMinute: record.MaxRequestsPerMinute,
		IsActive:             record.IsActive,
		IsDefault:            record.IsDefault,
		HealthStatus:         record.HealthStatus,
	}})
}
