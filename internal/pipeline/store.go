package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/PastorStudio/geminiaicrm-sub005/internal/db"
	"github.com/PastorStudio/geminiaicrm-sub005/internal/intel"
	"github.com/PastorStudio/geminiaicrm-sub005/internal/models"
)

var ErrLeadNotFound = errors.New("lead not found")

// Store persists leads, messages, and activities. Persistence failures
// are surfaced to callers; lead state is authoritative and must not
// silently diverge.
type Store struct {
	DB *db.Store
}

func NewStore(store *db.Store) *Store {
	return &Store{DB: store}
}

const leadColumns = `id, name, email, phone, company, source, status, priority, budget, notes, tags_json, conversion_probability, created_at, updated_at, last_contact_at`

func scanLead(row pgx.Row) (models.Lead, error) {
	var lead models.Lead
	err := row.Scan(
		&lead.ID, &lead.Name, &lead.Email, &lead.Phone, &lead.Company, &lead.Source,
		&lead.Status, &lead.Priority, &lead.Budget, &lead.Notes, &lead.TagsJSON,
		&lead.ConversionProbability, &lead.CreatedAt, &lead.UpdatedAt, &lead.LastContactAt,
	)
	return lead, err
}

func (s *Store) ListLeads(ctx context.Context) ([]models.Lead, error) {
	rows, err := s.DB.Pool.Query(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := []models.Lead{}
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

func (s *Store) GetLead(ctx context.Context, leadID int64) (models.Lead, error) {
	row := s.DB.Pool.QueryRow(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		WHERE id=$1`, leadID)
	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return lead, ErrLeadNotFound
	}
	return lead, err
}

// SaveLeadAnalysis writes back the fields the state machine mutates.
// Last write wins; there is no version check against concurrent human
// edits.
func (s *Store) SaveLeadAnalysis(ctx context.Context, lead models.Lead) error {
	tag, err := s.DB.Pool.Exec(ctx, `
		UPDATE leads
		SET status=$1, priority=$2, notes=$3, conversion_probability=$4, updated_at=$5
		WHERE id=$6`,
		lead.Status, lead.Priority, lead.Notes, lead.ConversionProbability, lead.UpdatedAt, lead.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrLeadNotFound
	}
	return nil
}

// UpsertLeadByPhone finds the lead owning a WhatsApp number, creating a
// fresh "new" lead on first contact.
func (s *Store) UpsertLeadByPhone(ctx context.Context, phone, name string) (models.Lead, error) {
	row := s.DB.Pool.QueryRow(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		WHERE phone=$1`, phone)
	lead, err := scanLead(row)
	if err == nil {
		return lead, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return lead, err
	}

	if name == "" {
		name = phone
	}
	now := time.Now().UTC()
	row = s.DB.Pool.QueryRow(ctx, `
		INSERT INTO leads (name, phone, source, status, priority, notes, created_at, updated_at, last_contact_at)
		VALUES ($1, $2, 'whatsapp', $3, $4, '', $5, $5, $5)
		RETURNING `+leadColumns, name, phone, StageNew, intel.PriorityMedium, now)
	return scanLead(row)
}

// CreateLeadFromTicket spawns a lead record from a classified support
// ticket, carrying the classification as tags.
func (s *Store) CreateLeadFromTicket(ctx context.Context, ticket intel.Ticket, classification intel.TicketClassification) (models.Lead, error) {
	tags, err := json.Marshal([]models.LeadTag{
		{Name: classification.Category, Probability: 1, Category: "ticket"},
		{Name: classification.Urgency, Probability: 1, Category: "urgency"},
	})
	if err != nil {
		return models.Lead{}, err
	}
	tagsJSON := string(tags)

	priority := classification.Urgency
	if priority == intel.PriorityUrgent {
		priority = intel.PriorityHigh
	}
	notes := "Ticket: " + ticket.Title + "\n" + ticket.Description +
		"\nDepartamento: " + classification.Department

	now := time.Now().UTC()
	row := s.DB.Pool.QueryRow(ctx, `
		INSERT INTO leads (name, source, status, priority, notes, tags_json, created_at, updated_at, last_contact_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7, $7)
		RETURNING `+leadColumns,
		ticket.Customer, ticket.Channel, StageNew, priority, notes, tagsJSON, now)
	return scanLead(row)
}

func (s *Store) MessagesForLead(ctx context.Context, leadID int64) ([]models.Message, error) {
	rows, err := s.DB.Pool.Query(ctx, `
		SELECT id, lead_id, content, channel, direction, read, sent_at, metadata_json, created_at
		FROM messages
		WHERE lead_id=$1
		ORDER BY sent_at ASC`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []models.Message{}
	for rows.Next() {
		var msg models.Message
		if err := rows.Scan(&msg.ID, &msg.LeadID, &msg.Content, &msg.Channel, &msg.Direction, &msg.Read, &msg.SentAt, &msg.MetadataJSON, &msg.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func (s *Store) InsertMessage(ctx context.Context, msg models.Message) (models.Message, error) {
	now := time.Now().UTC()
	row := s.DB.Pool.QueryRow(ctx, `
		INSERT INTO messages (lead_id, content, channel, direction, read, sent_at, metadata_json, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, lead_id, content, channel, direction, read, sent_at, metadata_json, created_at`,
		msg.LeadID, msg.Content, msg.Channel, msg.Direction, msg.Read, msg.SentAt, msg.MetadataJSON, now)
	var saved models.Message
	err := row.Scan(&saved.ID, &saved.LeadID, &saved.Content, &saved.Channel, &saved.Direction, &saved.Read, &saved.SentAt, &saved.MetadataJSON, &saved.CreatedAt)
	if err != nil {
		return saved, err
	}
	if msg.LeadID != nil {
		_, _ = s.DB.Pool.Exec(ctx, `
			UPDATE leads SET last_contact_at=$1 WHERE id=$2`, saved.SentAt, *msg.LeadID)
	}
	return saved, nil
}

func (s *Store) InsertActivity(ctx context.Context, activity models.Activity) (models.Activity, error) {
	row := s.DB.Pool.QueryRow(ctx, `
		INSERT INTO activities (lead_id, user_id, type, scheduled, notes, completed, priority, reminder, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		activity.LeadID, activity.UserID, activity.Type, activity.Scheduled, activity.Notes,
		activity.Completed, activity.Priority, activity.Reminder, activity.CreatedAt)
	err := row.Scan(&activity.ID)
	return activity, err
}

func (s *Store) ActivitiesForLead(ctx context.Context, leadID int64) ([]models.Activity, error) {
	rows, err := s.DB.Pool.Query(ctx, `
		SELECT id, lead_id, user_id, type, scheduled, notes, completed, priority, reminder, created_at
		FROM activities
		WHERE lead_id=$1
		ORDER BY scheduled ASC`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	activities := []models.Activity{}
	for rows.Next() {
		var activity models.Activity
		if err := rows.Scan(&activity.ID, &activity.LeadID, &activity.UserID, &activity.Type, &activity.Scheduled, &activity.Notes, &activity.Completed, &activity.Priority, &activity.Reminder, &activity.CreatedAt); err != nil {
			return nil, err
		}
		activities = append(activities, activity)
	}
	return activities, rows.Err()
}

func (s *Store) DashboardSummary(ctx context.Context) (models.DashboardSummary, error) {
	var summary models.DashboardSummary
	err := s.DB.Pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM leads),
			(SELECT COUNT(*) FROM messages),
			(SELECT COUNT(*) FROM messages WHERE read=FALSE AND direction='inbound'),
			(SELECT COUNT(*) FROM activities WHERE completed=FALSE)`).Scan(
		&summary.TotalLeads, &summary.TotalMessages, &summary.UnreadMessages, &summary.PendingActivities)
	return summary, err
}
