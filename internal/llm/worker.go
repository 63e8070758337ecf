package llm

import (
	"context"
	"log"
	"time"

	"github.com/PastorStudio/geminiaicrm-sub005/internal/intel"
	"github.com/PastorStudio/geminiaicrm-sub005/internal/models"
	"github.com/PastorStudio/geminiaicrm-sub005/internal/pipeline"
	"github.com/PastorStudio/geminiaicrm-sub005/internal/realtime"
)

// Worker drains the inbound queue: each message triggers a score-and-
// advance cycle on its lead, then an automated reply. Reply generation
// degrades to the template suggestion, so a dead provider never leaves
// a customer unanswered.
type Worker struct {
	Queue     *Queue
	Service   *Service
	Organizer *pipeline.Organizer
	Leads     *pipeline.Store
	Responder *intel.AutoResponder
	Sender    ReplySender
	Hub       *realtime.Hub
	AgentName string
}

// Start blocks until the context is canceled. Per-message failures are
// logged and dropped; the loop must outlive any single bad message.
func (w *Worker) Start(ctx context.Context) {
	log.Printf("worker: started")
	for {
		msg, err := w.Queue.Dequeue(ctx, 5*time.Second)
		if err != nil {
			if ctx.Err() != nil {
				log.Printf("worker: stopped")
				return
			}
			log.Printf("worker: dequeue failed: %v", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(2 * time.Second):
			}
			continue
		}
		if msg == nil {
			continue
		}
		if err := w.process(ctx, *msg); err != nil {
			log.Printf("worker: message %d failed: %v", msg.MessageID, err)
		}
	}
}

func (w *Worker) process(ctx context.Context, msg QueueMessage) error {
	if _, err := w.Organizer.OrganizeLead(ctx, msg.LeadID); err != nil {
		return err
	}

	lead, err := w.Leads.GetLead(ctx, msg.LeadID)
	if err != nil {
		return err
	}
	messages, err := w.Leads.MessagesForLead(ctx, msg.LeadID)
	if err != nil {
		return err
	}
	conversation := make([]string, 0, len(messages))
	for _, m := range messages {
		conversation = append(conversation, m.Content)
	}

	suggestion := w.Responder.Generate(conversation, intel.ResponseContext{AgentName: w.AgentName})
	history := conversation
	if len(history) > 0 {
		history = history[:len(history)-1]
	}
	reply := w.Service.GenerateReply(ctx, &msg.LeadID, history, msg.Content, suggestion.Response)

	if w.Sender != nil && lead.Phone != nil {
		if err := w.Sender.SendMessage(ctx, *lead.Phone, reply); err != nil {
			log.Printf("worker: send to lead %d failed: %v", msg.LeadID, err)
		}
	}

	now := time.Now().UTC()
	saved, err := w.Leads.InsertMessage(ctx, models.Message{
		LeadID:    &msg.LeadID,
		Content:   reply,
		Channel:   models.ChannelWhatsApp,
		Direction: models.DirectionOutbound,
		Read:      true,
		SentAt:    now,
	})
	if err != nil {
		return err
	}

	if w.Hub != nil {
		w.Hub.Broadcast(map[string]any{
			"type":       "message.auto_reply",
			"lead_id":    msg.LeadID,
			"message_id": saved.ID,
			"content":    reply,
			"bucket":     suggestion.Bucket,
		})
	}
	return nil
}
