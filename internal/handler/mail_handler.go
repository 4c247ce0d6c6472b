package handler

import (
	"errors"
	"io"
	"net/http"
	"sync"

	"infoco-backoffice/internal/mail"
	"infoco-backoffice/internal/observability"
	"infoco-backoffice/internal/security"
)

// maxAttachmentBytes bounds the total size of an outgoing mail request.
const maxAttachmentBytes = 20 << 20

// MailHandler exposes the connected Zoho mailbox: the OAuth connect flow
// and message operations.
type MailHandler struct {
	broker *mail.TokenBroker
	client *mail.Client

	// pendingState is the single-use OAuth state minted by AuthURL and
	// required by the unauthenticated Callback.
	mu           sync.Mutex
	pendingState string
}

func NewMailHandler(broker *mail.TokenBroker, client *mail.Client) *MailHandler {
	return &MailHandler{broker: broker, client: client}
}

// Status reports whether a mail account is connected.
func (h *MailHandler) Status(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]bool{"connected": h.broker.Connected()})
}

// AuthURL returns the provider consent URL the frontend redirects to.
// The embedded state ties the later callback to this session's request.
func (h *MailHandler) AuthURL(w http.ResponseWriter, r *http.Request) {
	state, err := security.RandomToken(16)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to start authorization")
		return
	}

	h.mu.Lock()
	h.pendingState = state
	h.mu.Unlock()

	respondJSON(w, http.StatusOK, map[string]string{"authUrl": h.broker.AuthURL(state)})
}

// Callback stores the token pair delivered by the provider redirect. Zoho
// passes the grant in the query string.
func (h *MailHandler) Callback(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	expected := h.pendingState
	h.pendingState = ""
	h.mu.Unlock()

	// This endpoint has no session; only the redirect carrying the
	// state minted for an authenticated user may store tokens.
	if expected == "" || r.URL.Query().Get("state") != expected {
		respondError(w, http.StatusBadRequest, "Invalid authorization state")
		return
	}

	if err := h.broker.CompleteAuthorization(r.URL.Query()); err != nil {
		observability.FromContext(r.Context()).Warn("mail authorization failed", "error", err.Error())
		respondError(w, http.StatusBadRequest, "Authorization failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Disconnect drops the stored token pair. Always succeeds.
func (h *MailHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	h.broker.Disconnect()
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *MailHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.client.ListMessages(r.Context(), 0)
	if h.writeMailError(w, r, err) {
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"messages": messages})
}

func (h *MailHandler) GetMessage(w http.ResponseWriter, r *http.Request) {
	messageID := r.URL.Query().Get("id")
	if messageID == "" {
		respondError(w, http.StatusBadRequest, "Message id is required")
		return
	}
	message, err := h.client.GetMessage(r.Context(), messageID)
	if h.writeMailError(w, r, err) {
		return
	}
	respondJSON(w, http.StatusOK, message)
}

// Send composes a message from a multipart form: to, subject, content, and
// any number of "attachments" file parts.
func (h *MailHandler) Send(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxAttachmentBytes)
	if err := r.ParseMultipartForm(maxAttachmentBytes); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	to := r.FormValue("to")
	subject := r.FormValue("subject")
	if to == "" || subject == "" {
		respondError(w, http.StatusBadRequest, "to and subject are required")
		return
	}

	var attachments []mail.Attachment
	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["attachments"] {
			file, err := header.Open()
			if err != nil {
				respondError(w, http.StatusBadRequest, "Failed to read attachment")
				return
			}
			data, err := io.ReadAll(file)
			file.Close()
			if err != nil {
				respondError(w, http.StatusBadRequest, "Failed to read attachment")
				return
			}
			attachments = append(attachments, mail.Attachment{
				Name:        header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Data:        data,
			})
		}
	}

	err := h.client.SendMessage(r.Context(), to, subject, r.FormValue("content"), attachments)
	if h.writeMailError(w, r, err) {
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// writeMailError maps broker and provider failures to HTTP statuses and
// reports whether an error was written.
func (h *MailHandler) writeMailError(w http.ResponseWriter, r *http.Request, err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, mail.ErrNotConnected):
		respondError(w, http.StatusUnauthorized, "Mail account not connected")
	case errors.Is(err, mail.ErrReauthorizationRequired):
		respondError(w, http.StatusUnauthorized, "Mail reauthorization required")
	default:
		observability.FromContext(r.Context()).Error("mail provider call failed", "error", err.Error())
		respondError(w, http.StatusBadGateway, "Mail provider unavailable")
	}
	return true
}
