package websocket

import (
	"crypto/rand"
	"encoding/base64"

	"backend/internal/app/board"
	"backend/internal/utils"

	"go.uber.org/zap"
)

// Client is one websocket subscriber, attached to exactly one board's
// logical channel for the lifetime of the connection.
type Client struct {
	hub     *Hub
	conn    ClientConn
	ID      string
	BoardID string
	UserID  string
}

type ClientConn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteJSON(v interface{}) error
	Close() error
}

func generateClientID() string {
	bytes := make([]byte, 6)
	if _, err := rand.Read(bytes); err != nil {
		return "xxxxx"
	}
	return base64.URLEncoding.EncodeToString(bytes)
}

// Hub fans mutation events out to the subscribers of each board channel.
// All client state is confined to the Run goroutine; registration and
// events arrive over channels. Delivery is best effort: there is no replay
// for subscribers that were not connected when an event fired.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	bus        *utils.EventBus
	logger     *zap.SugaredLogger
}

func NewHub(logger *zap.Logger, bus *utils.EventBus) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		bus:        bus,
		logger:     logger.Sugar(),
	}
}

func (h *Hub) Run() {
	h.logger.Info("WebSocket Hub started")

	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.logger.Infow("Client connected",
				"client_id", client.ID,
				"board_id", client.BoardID,
				"clients_count", len(h.clients),
			)

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				h.logger.Infow("Client disconnected",
					"client_id", client.ID,
					"board_id", client.BoardID,
					"clients_count", len(h.clients),
				)
			}

		case event := <-h.bus.SubscribeCh():
			h.fanOut(event)
		}
	}
}

func (h *Hub) fanOut(event utils.Event) {
	payload, ok := event.Data.(board.TicketEvent)
	if !ok {
		return
	}

	for client := range h.clients {
		if client.BoardID != payload.BoardID {
			continue
		}
		if err := client.conn.WriteJSON(event); err != nil {
			h.logger.Warnw("Dropping client after failed write",
				"client_id", client.ID,
				"board_id", client.BoardID,
				"error", err,
			)
			client.conn.Close()
			delete(h.clients, client)
		}
	}
}
