// Package whatsapp owns the WhatsApp device session: QR pairing,
// inbound message intake, and outbound delivery.
package whatsapp

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	waLog "go.mau.fi/whatsmeow/util/log"
	"google.golang.org/protobuf/proto"
)

var ErrNotConnected = errors.New("whatsapp session not connected")

// Session tracks one pairing attempt. LastQR holds the current code
// until the phone scans it or it times out.
type Session struct {
	ID         string
	Client     *whatsmeow.Client
	Status     string
	LastQR     string
	LastExpiry time.Duration
	Error      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Manager holds the whatsmeow device store and the live client. One
// device per deployment; repeated StartSession calls reuse it.
type Manager struct {
	mu        sync.RWMutex
	container *sqlstore.Container
	sessions  map[string]*Session
	active    *whatsmeow.Client
	syncer    *Syncer
	log       waLog.Logger
}

func NewManager(ctx context.Context, databaseURL string) (*Manager, error) {
	if databaseURL == "" {
		return nil, errors.New("database url required")
	}
	log := waLog.Stdout("WhatsApp", "INFO", true)
	container, err := sqlstore.New(ctx, "pgx", databaseURL, log)
	if err != nil {
		return nil, err
	}
	return &Manager{
		container: container,
		sessions:  map[string]*Session{},
		log:       log,
	}, nil
}

func (m *Manager) SetSyncer(syncer *Syncer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.syncer = syncer
}

// StartSession connects the stored device, or begins QR pairing when no
// device is registered yet. The caller polls the session for QR codes.
func (m *Manager) StartSession(ctx context.Context) (*Session, error) {
	device, err := m.container.GetFirstDevice(ctx)
	if err != nil {
		return nil, err
	}

	client := whatsmeow.NewClient(device, waLog.Stdout("Client", "INFO", true))
	if m.syncer != nil {
		m.syncer.Attach(client)
	}

	session := &Session{
		ID:        uuid.NewString(),
		Client:    client,
		Status:    "pending",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if client.Store.ID != nil {
		if err := client.Connect(); err != nil {
			return nil, err
		}
		session.Status = "connected"
		m.mu.Lock()
		m.sessions[session.ID] = session
		m.active = client
		m.mu.Unlock()
		return session, nil
	}

	qrChan, err := client.GetQRChannel(ctx)
	if err != nil {
		return nil, err
	}
	if err := client.Connect(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[session.ID] = session
	m.mu.Unlock()

	go m.consumeQR(session, qrChan, client)
	return session, nil
}

func (m *Manager) GetSession(sessionID string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[sessionID]
	if !ok {
		return nil, false
	}
	copy := *session
	return &copy, true
}

// SendMessage delivers a plain text message to a phone number. It
// satisfies the reply-sender contract of the llm worker.
func (m *Manager) SendMessage(ctx context.Context, phone, text string) error {
	m.mu.RLock()
	client := m.active
	m.mu.RUnlock()
	if client == nil || !client.IsConnected() {
		return ErrNotConnected
	}

	jid := types.NewJID(phone, types.DefaultUserServer)
	_, err := client.SendMessage(ctx, jid, &waE2E.Message{
		Conversation: proto.String(text),
	})
	return err
}

func (m *Manager) Connected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active != nil && m.active.IsConnected()
}

func (m *Manager) consumeQR(session *Session, qrChan <-chan whatsmeow.QRChannelItem, client *whatsmeow.Client) {
	for item := range qrChan {
		m.mu.Lock()
		session.UpdatedAt = time.Now().UTC()

		switch item.Event {
		case "code":
			session.Status = "pending"
			session.LastQR = item.Code
			session.LastExpiry = item.Timeout
		case "success":
			session.Status = "connected"
			m.active = client
			m.log.Infof("WhatsApp pairing successful")
		case "timeout":
			session.Status = "timeout"
			m.log.Warnf("QR code timed out")
		case "error":
			session.Status = "error"
			if item.Error != nil {
				session.Error = item.Error.Error()
				m.log.Errorf("QR error: %v", item.Error)
			}
		default:
			session.Status = item.Event
		}
		m.mu.Unlock()
	}

	// QR channel closed; check whether pairing completed.
	m.mu.Lock()
	if client.Store.ID != nil {
		session.Status = "connected"
		m.active = client
	}
	m.mu.Unlock()
}

func (m *Manager) Disconnect() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active != nil {
		m.active.Disconnect()
		m.active = nil
	}
}
