package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"infoco-backoffice/internal/domain"
	"infoco-backoffice/internal/feed"
	"infoco-backoffice/internal/middleware"
	"infoco-backoffice/internal/observability"
	"infoco-backoffice/internal/service"

	"github.com/gorilla/websocket"
)

// FeedHandler serves the update feed, the notification tray, and the live
// WebSocket stream.
type FeedHandler struct {
	feedService *service.FeedService
	hub         *feed.Hub
	upgrader    websocket.Upgrader
}

func NewFeedHandler(feedService *service.FeedService, hub *feed.Hub, allowedOrigins []string) *FeedHandler {
	return &FeedHandler{
		feedService: feedService,
		hub:         hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, o := range allowedOrigins {
					if o == origin || o == "*" {
						return true
					}
				}
				return false
			},
		},
	}
}

type CreatePostRequest struct {
	Content string `json:"content"`
}

func (h *FeedHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req CreatePostRequest
	if !decodeBody(w, r, &req) {
		return
	}

	post, err := h.feedService.CreatePost(r.Context(), userID, req.Content)
	if errors.Is(err, domain.ErrInvalidInput) {
		respondError(w, http.StatusBadRequest, "Content is required")
		return
	}
	if errors.Is(err, domain.ErrProfileNotFound) {
		respondError(w, http.StatusBadRequest, "Author does not exist")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create post")
		return
	}
	respondJSON(w, http.StatusCreated, post)
}

func (h *FeedHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	err := h.feedService.DeletePost(r.Context(), id)
	if errors.Is(err, domain.ErrPostNotFound) {
		respondError(w, http.StatusNotFound, "Post not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete post")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *FeedHandler) CreateNotification(w http.ResponseWriter, r *http.Request) {
	var notification domain.Notification
	if !decodeBody(w, r, &notification) {
		return
	}

	err := h.feedService.CreateNotification(r.Context(), &notification)
	if errors.Is(err, domain.ErrInvalidInput) {
		respondError(w, http.StatusBadRequest, "Title is required")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create notification")
		return
	}
	respondJSON(w, http.StatusCreated, notification)
}

func (h *FeedHandler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	err := h.feedService.MarkNotificationRead(r.Context(), id)
	if errors.Is(err, domain.ErrNotificationNotFound) {
		respondError(w, http.StatusNotFound, "Notification not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to mark notification")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *FeedHandler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	err := h.feedService.DeleteNotification(r.Context(), id)
	if errors.Is(err, domain.ErrNotificationNotFound) {
		respondError(w, http.StatusNotFound, "Notification not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete notification")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Stream upgrades the connection and registers the client for live feed
// events. Auth middleware has already run; the connection belongs to the
// session user.
func (h *FeedHandler) Stream(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		observability.FromContext(r.Context()).Warn("websocket upgrade failed",
			slog.String("error", err.Error()))
		return
	}

	// The request context ends with this handler; the client's lifetime is
	// the connection's, so it gets a fresh context.
	client := feed.NewClient(context.Background(), h.hub, conn, userID)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
