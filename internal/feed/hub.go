package feed

import (
	"context"
	"encoding/json"
	"log/slog"

	"infoco-backoffice/internal/domain"
	"infoco-backoffice/internal/observability"
)

// Hub fans feed events out to every connected client. There is a single
// feed; all authenticated users see the same stream.
type Hub struct {
	clients map[*Client]bool

	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	done chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run(ctx context.Context) error {
	defer h.shutdown()

	for {
		select {
		case <-ctx.Done():
			slog.Info("feed hub shutting down gracefully")
			return ctx.Err()

		case client := <-h.register:
			h.clients[client] = true
			observability.FeedConnectionsActive.Inc()
			slog.Info("feed client connected", slog.String("user_id", client.userID))

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Client's send buffer is full, close connection
					h.closeClientSend(client)
					delete(h.clients, client)
					observability.FeedConnectionsActive.Dec()
				}
			}
		}
	}
}

// Publish serializes a feed event and hands it to the broadcast loop.
func (h *Hub) Publish(event *domain.FeedEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		slog.Error("failed to marshal feed event",
			slog.String("error", err.Error()),
			slog.String("kind", event.Kind))
		return
	}
	observability.FeedEventsBroadcast.WithLabelValues(event.Kind).Inc()
	h.broadcast <- data
}

// Register registers a client with the hub
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) unregisterClient(client *Client) {
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		h.closeClientSend(client)
		observability.FeedConnectionsActive.Dec()
		slog.Info("feed client disconnected", slog.String("user_id", client.userID))
	}
}

// closeClientSend safely closes a client's send channel
func (h *Hub) closeClientSend(client *Client) {
	select {
	case <-client.send:
		// Channel already closed
	default:
		close(client.send)
	}
}

// shutdown performs graceful cleanup of all connections
func (h *Hub) shutdown() {
	close(h.done)

	for client := range h.clients {
		h.closeClientSend(client)
		slog.Info("closed feed client connection", slog.String("user_id", client.userID))
	}

	slog.Info("feed hub shutdown complete")
}
