package models

import "time"

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Lead is a prospective customer tracked through the sales pipeline.
// Status holds a pipeline stage name; Notes is an append-only log of
// human and automated annotations.
type Lead struct {
	ID                    int64      `json:"id"`
	Name                  string     `json:"name"`
	Email                 *string    `json:"email"`
	Phone                 *string    `json:"phone"`
	Company               *string    `json:"company"`
	Source                string     `json:"source"`
	Status                string     `json:"status"`
	Priority              string     `json:"priority"`
	Budget                *float64   `json:"budget"`
	Notes                 string     `json:"notes"`
	TagsJSON              *string    `json:"tags_json"`
	ConversionProbability *int       `json:"conversion_probability"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
	LastContactAt         *time.Time `json:"last_contact_at"`
}

type LeadTag struct {
	Name        string  `json:"name"`
	Probability float64 `json:"probability"`
	Category    string  `json:"category"`
}

type Message struct {
	ID           int64     `json:"id"`
	LeadID       *int64    `json:"lead_id"`
	Content      string    `json:"content"`
	Channel      string    `json:"channel"`
	Direction    string    `json:"direction"`
	Read         bool      `json:"read"`
	SentAt       time.Time `json:"sent_at"`
	MetadataJSON *string   `json:"metadata_json"`
	CreatedAt    time.Time `json:"created_at"`
}

const (
	DirectionInbound  = "inbound"
	DirectionOutbound = "outbound"

	ChannelWhatsApp = "whatsapp"
	ChannelEmail    = "email"
	ChannelSystem   = "system"
)

// Activity is a scheduled or logged task tied to a lead. UserID 1 is the
// automation sentinel used for system-created follow-ups.
type Activity struct {
	ID        int64      `json:"id"`
	LeadID    int64      `json:"lead_id"`
	UserID    int64      `json:"user_id"`
	Type      string     `json:"type"`
	Scheduled time.Time  `json:"scheduled"`
	Notes     string     `json:"notes"`
	Completed bool       `json:"completed"`
	Priority  string     `json:"priority"`
	Reminder  *time.Time `json:"reminder"`
	CreatedAt time.Time  `json:"created_at"`
}

const AutomationUserID int64 = 1

type AIProvider struct {
	ID                   int64      `json:"id"`
	ProviderName         string     `json:"provider_name"`
	APIKey               string     `json:"api_key"`
	ModelName            string     `json:"model_name"`
	Temperature          float64    `json:"temperature"`
	MaxTokens            int        `json:"max_tokens"`
	CostPer1KInput       float64    `json:"cost_per_1k_input"`
	CostPer1KOutput      float64    `json:"cost_per_1k_output"`
	MaxRequestsPerMinute int        `json:"max_requests_per_minute"`
	IsActive             bool       `json:"is_active"`
	IsDefault            bool       `json:"is_default"`
	HealthStatus         string     `json:"health_status"`
	LastHealthCheck      *time.Time `json:"last_health_check"`
	CreatedAt            time.Time  `json:"created_at"`
}

type AIUsageLog struct {
	ID             int64     `json:"id"`
	ProviderID     int64     `json:"provider_id"`
	LeadID         *int64    `json:"lead_id"`
	InputTokens    int       `json:"input_tokens"`
	OutputTokens   int       `json:"output_tokens"`
	TotalTokens    int       `json:"total_tokens"`
	InputCost      float64   `json:"input_cost"`
	OutputCost     float64   `json:"output_cost"`
	TotalCost      float64   `json:"total_cost"`
	ResponseTimeMs int64     `json:"response_time_ms"`
	Success        bool      `json:"success"`
	ErrorMessage   *string   `json:"error_message"`
	FeatureUsed    string    `json:"feature_used"`
	CreatedAt      time.Time `json:"created_at"`
}

type AIProviderHealth struct {
	ID             int64     `json:"id"`
	ProviderID     int64     `json:"provider_id"`
	CheckTime      time.Time `json:"check_time"`
	Status         string    `json:"status"`
	LatencyMs      int64     `json:"latency_ms"`
	ErrorMessage   *string   `json:"error_message"`
	HTTPStatusCode *int      `json:"http_status_code"`
	CreatedAt      time.Time `json:"created_at"`
}

type DashboardSummary struct {
	TotalLeads        int64 `json:"total_leads"`
	TotalMessages     int64 `json:"total_messages"`
	UnreadMessages    int64 `json:"unread_messages"`
	PendingActivities int64 `json:"pending_activities"`
}
