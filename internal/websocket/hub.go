package websocket

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/err0rre/Task-management/internal/metrics"
)

const publishBuffer = 256

type directMessage struct {
	client  *Client
	message []byte
}

type delivery struct {
	userID  string
	message []byte
}

// Hub maintains the set of active clients and routes messages to the
// connections of a single user.
type Hub struct {
	// Connected clients grouped by user ID.
	clients map[string]map[*Client]bool

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	publish chan delivery
	direct  chan directMessage
	done    chan struct{}
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[string]map[*Client]bool),
		publish:    make(chan delivery, publishBuffer),
		direct:     make(chan directMessage),
		done:       make(chan struct{}),
	}
}

// Run starts the Hub's message processing loop. It returns when ctx is
// cancelled, closing every remaining client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for _, conns := range h.clients {
				for client := range conns {
					close(client.Send)
				}
			}
			h.clients = make(map[string]map[*Client]bool)
			metrics.WebSocketClients.Set(0)
			return
		case client := <-h.Register:
			if h.clients[client.UserID] == nil {
				h.clients[client.UserID] = make(map[*Client]bool)
			}
			h.clients[client.UserID][client] = true
			metrics.WebSocketClients.Inc()
			log.Info().Str("user_id", client.UserID).Int("total_clients", h.count()).Msg("Client connected")
		case client := <-h.Unregister:
			if h.remove(client) {
				log.Info().Str("user_id", client.UserID).Int("total_clients", h.count()).Msg("Client disconnected")
			}
		case d := <-h.direct:
			if h.clients[d.client.UserID][d.client] {
				select {
				case d.client.Send <- d.message:
				default:
				}
			}
		case d := <-h.publish:
			for client := range h.clients[d.userID] {
				select {
				case client.Send <- d.message:
				default:
					log.Warn().Str("user_id", client.UserID).Msg("Dropping slow websocket client")
					h.remove(client)
				}
			}
		}
	}
}

// Publish queues a message for every connection of userID. It never blocks
// the caller; when the queue is full or the hub has stopped the message is
// dropped.
func (h *Hub) Publish(userID, action string, payload any) {
	data, err := json.Marshal(Message{Action: action, Payload: payload})
	if err != nil {
		log.Error().Err(err).Str("action", action).Msg("Failed to encode websocket message")
		return
	}

	select {
	case <-h.done:
		return
	default:
	}

	select {
	case h.publish <- delivery{userID: userID, message: data}:
	default:
		log.Warn().Str("user_id", userID).Str("action", action).Msg("Websocket publish queue full, dropping message")
	}
}

// Done is closed once Run has returned.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

func (h *Hub) remove(client *Client) bool {
	conns, ok := h.clients[client.UserID]
	if !ok || !conns[client] {
		return false
	}
	delete(conns, client)
	if len(conns) == 0 {
		delete(h.clients, client.UserID)
	}
	close(client.Send)
	metrics.WebSocketClients.Dec()
	return true
}

func (h *Hub) count() int {
	n := 0
	for _, conns := range h.clients {
		n += len(conns)
	}
	return n
}
