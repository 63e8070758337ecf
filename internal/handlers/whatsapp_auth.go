package handlers

import (
	"context"
	"encoding/base64"
	"net/http"
	"time"

	"github.com/skip2/go-qrcode"
)

type whatsappQRResponse struct {
	SessionID      string `json:"session_id"`
	QRCode         string `json:"qr_code"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	Status         string `json:"status"`
	Error          string `json:"error,omitempty"`
}

func (a *API) StartWhatsAppAuth(w http.ResponseWriter, r *http.Request) {
	if a.WhatsApp == nil {
		writeError(w, http.StatusServiceUnavailable, "whatsapp integration not configured")
		return
	}

	// Background context: the session must outlive this request.
	session, err := a.WhatsApp.StartSession(context.Background())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to start whatsapp session")
		return
	}

	// Wait briefly for the first QR code so the caller can render it
	// without an immediate second poll.
	deadline := time.Now().Add(8 * time.Second)
	for session.LastQR == "" && session.Status == "pending" && time.Now().Before(deadline) {
		time.Sleep(250 * time.Millisecond)
		updated, ok := a.WhatsApp.GetSession(session.ID)
		if !ok {
			break
		}
		session = updated
	}

	writeJSON(w, http.StatusOK, qrResponse(session.ID, session.Status, session.LastQR, session.LastExpiry, session.Error))
}

func (a *API) WhatsAppAuthStatus(w http.ResponseWriter, r *http.Request) {
	if a.WhatsApp == nil {
		writeError(w, http.StatusServiceUnavailable, "whatsapp integration not configured")
		return
	}

	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	session, ok := a.WhatsApp.GetSession(sessionID)
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	writeJSON(w, http.StatusOK, qrResponse(session.ID, session.Status, session.LastQR, session.LastExpiry, session.Error))
}

func qrResponse(sessionID, status, code string, expiry time.Duration, errMsg string) whatsappQRResponse {
	response := whatsappQRResponse{
		SessionID: sessionID,
		Status:    status,
		Error:     errMsg,
	}
	if code != "" {
		png, err := qrcode.Encode(code, qrcode.Medium, 280)
		if err == nil {
			response.QRCode = "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
			response.TimeoutSeconds = int(expiry.Seconds())
		}
	}
	return response
}
