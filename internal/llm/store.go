package llm

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/PastorStudio/geminiaicrm-sub005/internal/crypto"
	"github.com/PastorStudio/geminiaicrm-sub005/internal/db"
	"github.com/PastorStudio/geminiaicrm-sub005/internal/llm/contract"
	"github.com/PastorStudio/geminiaicrm-sub005/internal/models"
)

var ErrNoProvider = errors.New("no active provider configured")

// Store reads provider rows and writes usage and health records. API
// keys are sealed at rest; decryption happens here and the plaintext
// never leaves the provider config.
type Store struct {
	DB        *db.Store
	MasterKey string
}

func NewStore(store *db.Store, masterKey string) *Store {
	return &Store{DB: store, MasterKey: masterKey}
}

const providerColumns = `id, provider_name, api_key, model_name, temperature, max_tokens, cost_per_1k_input, cost_per_1k_output, max_requests_per_minute, is_active, is_default, health_status, last_health_check, created_at`

func scanProvider(row pgx.Row) (models.AIProvider, error) {
	var p models.AIProvider
	err := row.Scan(
		&p.ID, &p.ProviderName, &p.APIKey, &p.ModelName, &p.Temperature, &p.MaxTokens,
		&p.CostPer1KInput, &p.CostPer1KOutput, &p.MaxRequestsPerMinute,
		&p.IsActive, &p.IsDefault, &p.HealthStatus, &p.LastHealthCheck, &p.CreatedAt,
	)
	return p, err
}

func (s *Store) configFrom(record models.AIProvider) (*contract.ProviderConfig, error) {
	apiKey, err := crypto.Decrypt(s.MasterKey, record.APIKey)
	if err != nil {
		return nil, err
	}
	return &contract.ProviderConfig{
		ID:                   record.ID,
		ProviderName:         record.ProviderName,
		APIKey:               apiKey,
		ModelName:            record.ModelName,
		Temperature:          record.Temperature,
		MaxTokens:            record.MaxTokens,
		CostPer1KInput:       record.CostPer1KInput,
		CostPer1KOutput:      record.CostPer1KOutput,
		MaxRequestsPerMinute: record.MaxRequestsPerMinute,
	}, nil
}

// ListProviderConfigs returns active providers in preference order, the
// default first. Rows whose key fails to decrypt are skipped so one bad
// record cannot take scoring offline.
func (s *Store) ListProviderConfigs(ctx context.Context) ([]*contract.ProviderConfig, error) {
	rows, err := s.DB.Pool.Query(ctx, `
		SELECT `+providerColumns+`
		FROM ai_providers
		WHERE is_active=TRUE
		ORDER BY is_default DESC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	configs := []*contract.ProviderConfig{}
	for rows.Next() {
		record, err := scanProvider(rows)
		if err != nil {
			return nil, err
		}
		config, err := s.configFrom(record)
		if err != nil {
			continue
		}
		configs = append(configs, config)
	}
	return configs, rows.Err()
}

func (s *Store) GetProviderConfig(ctx context.Context, providerID int64) (*contract.ProviderConfig, error) {
	row := s.DB.Pool.QueryRow(ctx, `
		SELECT `+providerColumns+`
		FROM ai_providers
		WHERE id=$1`, providerID)
	record, err := scanProvider(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoProvider
	}
	if err != nil {
		return nil, err
	}
	return s.configFrom(record)
}

// ListProviderRecords returns the raw rows for the management API. The
// caller is responsible for masking keys before serialization.
func (s *Store) ListProviderRecords(ctx context.Context) ([]models.AIProvider, error) {
	rows, err := s.DB.Pool.Query(ctx, `
		SELECT `+providerColumns+`
		FROM ai_providers
		ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []models.AIProvider{}
	for rows.Next() {
		record, err := scanProvider(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// CreateProvider stores a provider row, sealing the API key. Marking a
// row default clears the flag on every other row.
func (s *Store) CreateProvider(ctx context.Context, record models.AIProvider) (models.AIProvider, error) {
	sealed, err := crypto.Encrypt(s.MasterKey, record.APIKey)
	if err != nil {
		return record, err
	}
	if record.IsDefault {
		if _, err := s.DB.Pool.Exec(ctx, `UPDATE ai_providers SET is_default=FALSE`); err != nil {
			return record, err
		}
	}
	row := s.DB.Pool.QueryRow(ctx, `
		INSERT INTO ai_providers (provider_name, api_key, model_name, temperature, max_tokens,
			cost_per_1k_input, cost_per_1k_output, max_requests_per_minute,
			is_active, is_default, health_status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 'unknown', $11)
		RETURNING `+providerColumns,
		record.ProviderName, sealed, record.ModelName, record.Temperature, record.MaxTokens,
		record.CostPer1KInput, record.CostPer1KOutput, record.MaxRequestsPerMinute,
		record.IsActive, record.IsDefault, time.Now().UTC())
	return scanProvider(row)
}

func (s *Store) InsertUsage(ctx context.Context, providerID int64, leadID *int64, record contract.UsageRecord, costIn, costOut float64) error {
	var errMsg *string
	if record.ErrorMessage != "" {
		errMsg = &record.ErrorMessage
	}
	_, err := s.DB.Pool.Exec(ctx, `
		INSERT INTO ai_usage_logs (provider_id, lead_id, input_tokens, output_tokens, total_tokens,
			input_cost, output_cost, total_cost, response_time_ms, success, error_message, feature_used, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		providerID, leadID, record.InputTokens, record.OutputTokens, record.TotalTokens,
		record.InputCost(costIn), record.OutputCost(costOut), record.TotalCost(costIn, costOut),
		record.Latency.Milliseconds(), record.Success, errMsg, record.Feature, time.Now().UTC())
	return err
}

func (s *Store) InsertHealth(ctx context.Context, providerID int64, result contract.HealthCheckResult) error {
	var errMsg *string
	if result.ErrorMessage != "" {
		errMsg = &result.ErrorMessage
	}
	_, err := s.DB.Pool.Exec(ctx, `
		INSERT INTO ai_provider_health (provider_id, check_time, status, latency_ms, error_message, created_at)
		VALUES ($1, $2, $3, $4, $5, $2)`,
		providerID, result.Timestamp, result.Status, result.Latency.Milliseconds(), errMsg)
	return err
}

// RecentFailures counts consecutive failed checks within the latest n.
func (s *Store) RecentFailures(ctx context.Context, providerID int64, n int) (int, error) {
	rows, err := s.DB.Pool.Query(ctx, `
		SELECT status
		FROM ai_provider_health
		WHERE provider_id=$1
		ORDER BY check_time DESC
		LIMIT $2`, providerID, n)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	failures := 0
	for rows.Next() {
		var status string
		if err := rows.Scan(&status); err != nil {
			return failures, err
		}
		if status == "ok" {
			break
		}
		failures++
	}
	return failures, rows.Err()
}

func (s *Store) SetProviderHealth(ctx context.Context, providerID int64, status string, checkedAt time.Time) error {
	_, err := s.DB.Pool.Exec(ctx, `
		UPDATE ai_providers
		SET health_status=$1, last_health_check=$2
		WHERE id=$3`, status, checkedAt, providerID)
	return err
}

// UsageSummary aggregates spend and volume for the dashboard.
func (s *Store) UsageSummary(ctx context.Context) (map[string]any, error) {
	var requests int64
	var tokens int64
	var cost float64
	err := s.DB.Pool.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(total_tokens), 0), COALESCE(SUM(total_cost), 0)
		FROM ai_usage_logs`).Scan(&requests, &tokens, &cost)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"total_requests": requests,
		"total_tokens":   tokens,
		"total_cost":     cost,
	}, nil
}
