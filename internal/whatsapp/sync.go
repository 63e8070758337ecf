package whatsapp

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"

	"github.com/PastorStudio/geminiaicrm-sub005/internal/llm"
	"github.com/PastorStudio/geminiaicrm-sub005/internal/models"
	"github.com/PastorStudio/geminiaicrm-sub005/internal/pipeline"
	"github.com/PastorStudio/geminiaicrm-sub005/internal/realtime"
)

// Syncer turns WhatsApp events into leads and messages. Each inbound
// customer message is persisted first and then enqueued; AI work never
// runs on the event handler goroutine.
type Syncer struct {
	Leads *pipeline.Store
	Queue *llm.Queue
	Hub   *realtime.Hub
}

func NewSyncer(leads *pipeline.Store, queue *llm.Queue, hub *realtime.Hub) *Syncer {
	return &Syncer{Leads: leads, Queue: queue, Hub: hub}
}

func (s *Syncer) Attach(client *whatsmeow.Client) {
	if s == nil || client == nil || s.Leads == nil {
		return
	}
	client.AddEventHandler(func(evt any) {
		ctx := context.Background()
		switch event := evt.(type) {
		case *events.Message:
			s.handleMessage(ctx, event.Info, event.Message, event.Info.Chat, event.Info.PushName)
		case events.Message:
			s.handleMessage(ctx, event.Info, event.Message, event.Info.Chat, event.Info.PushName)
		case *events.HistorySync:
			s.handleHistorySync(ctx, client, event)
		case events.HistorySync:
			s.handleHistorySync(ctx, client, &event)
		}
	})
}

// handleHistorySync imports the backlog delivered after pairing. These
// messages are persisted but never enqueued: replying to old traffic
// would spam every past contact.
func (s *Syncer) handleHistorySync(ctx context.Context, client *whatsmeow.Client, evt *events.HistorySync) {
	if evt == nil || evt.Data == nil || client == nil {
		return
	}
	for _, conv := range evt.Data.GetConversations() {
		chatJID, err := types.ParseJID(conv.GetID())
		if err != nil {
			continue
		}
		contactName := strings.TrimSpace(conv.GetName())
		for _, historyMsg := range conv.GetMessages() {
			webMsg := historyMsg.GetMessage()
			if webMsg == nil {
				continue
			}
			msgEvt, err := client.ParseWebMessage(chatJID, webMsg)
			if err != nil {
				continue
			}
			s.storeMessage(ctx, msgEvt.Info, msgEvt.Message, chatJID, contactName, false)
		}
	}
}

func (s *Syncer) handleMessage(ctx context.Context, info types.MessageInfo, msg *waE2E.Message, chatJID types.JID, contactName string) {
	s.storeMessage(ctx, info, msg, chatJID, contactName, true)
}

func (s *Syncer) storeMessage(ctx context.Context, info types.MessageInfo, msg *waE2E.Message, chatJID types.JID, contactName string, live bool) {
	// Group chats are not leads.
	if chatJID.Server != types.DefaultUserServer {
		return
	}
	content := extractText(msg)
	if content == "" || info.ID == "" {
		return
	}
	if contactName == "" {
		contactName = strings.TrimSpace(info.PushName)
	}

	phone := chatJID.User
	lead, err := s.Leads.UpsertLeadByPhone(ctx, phone, contactName)
	if err != nil {
		log.Printf("syncer: lead upsert for %s failed: %v", phone, err)
		return
	}

	saved, inserted, err := s.insertMessage(ctx, lead.ID, info, content, chatJID)
	if err != nil {
		log.Printf("syncer: message insert for lead %d failed: %v", lead.ID, err)
		return
	}
	if !inserted {
		return
	}

	// Our own replies and imported history are stored for context only.
	if !live || info.IsFromMe {
		return
	}

	if s.Queue != nil {
		if err := s.Queue.Enqueue(ctx, llm.QueueMessage{
			LeadID:    lead.ID,
			MessageID: saved.ID,
			Content:   content,
			CreatedAt: saved.CreatedAt,
		}); err != nil {
			log.Printf("syncer: enqueue for lead %d failed: %v", lead.ID, err)
		}
	}

	if s.Hub != nil {
		s.Hub.Broadcast(map[string]any{
			"type":       "message.inbound",
			"lead_id":    lead.ID,
			"message_id": saved.ID,
			"content":    content,
		})
	}
}

// insertMessage persists one WhatsApp message, deduplicating on the
// WhatsApp message ID carried in metadata. History sync and live
// delivery can hand us the same message twice.
func (s *Syncer) insertMessage(ctx context.Context, leadID int64, info types.MessageInfo, content string, chatJID types.JID) (models.Message, bool, error) {
	var existingID int64
	err := s.Leads.DB.Pool.QueryRow(ctx, `
		SELECT id
		FROM messages
		WHERE metadata_json->>'whatsapp_id'=$1
		LIMIT 1`, info.ID).Scan(&existingID)
	if err == nil {
		return models.Message{ID: existingID}, false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return models.Message{}, false, err
	}

	direction := models.DirectionInbound
	if info.IsFromMe {
		direction = models.DirectionOutbound
	}
	meta, _ := json.Marshal(map[string]any{
		"source":      "whatsapp",
		"whatsapp_id": info.ID,
		"chat":        chatJID.String(),
	})
	metaJSON := string(meta)

	saved, err := s.Leads.InsertMessage(ctx, models.Message{
		LeadID:       &leadID,
		Content:      content,
		Channel:      models.ChannelWhatsApp,
		Direction:    direction,
		Read:         info.IsFromMe,
		SentAt:       info.Timestamp,
		MetadataJSON: &metaJSON,
	})
	if err != nil {
		return saved, false, err
	}
	return saved, true, nil
}

func extractText(msg *waE2E.Message) string {
	if msg == nil {
		return ""
	}
	if text := msg.GetConversation(); text != "" {
		return text
	}
	if ext := msg.GetExtendedTextMessage(); ext != nil && ext.GetText() != "" {
		return ext.GetText()
	}
	if img := msg.GetImageMessage(); img != nil && img.GetCaption() != "" {
		return img.GetCaption()
	}
	if vid := msg.GetVideoMessage(); vid != nil && vid.GetCaption() != "" {
		return vid.GetCaption()
	}
	if doc := msg.GetDocumentMessage(); doc != nil && doc.GetCaption() != "" {
		return doc.GetCaption()
	}
	if buttons := msg.GetButtonsResponseMessage(); buttons != nil && buttons.GetSelectedDisplayText() != "" {
		return buttons.GetSelectedDisplayText()
	}
	if list := msg.GetListResponseMessage(); list != nil && list.GetTitle() != "" {
		return list.GetTitle()
	}
	return ""
}
