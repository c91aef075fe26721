package websocket

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var (
	// ErrClientClosed is returned when attempting to send to a closed client
	ErrClientClosed = errors.New("client is closed")
	// ErrGroupFull is returned by Register when a group is at its connection limit
	ErrGroupFull = errors.New("group has too many live connections")
)

// ClientInterface is a connection the hub can push events to
type ClientInterface interface {
	ID() string
	GroupID() int32
	Send(data []byte) error
	Close() error
}

// Hub keeps the live connections of every group. Safe for concurrent use.
type Hub struct {
	groups      map[int32]map[string]ClientInterface
	maxPerGroup int
	mu          sync.RWMutex
}

// NewHub creates a Hub without a per-group connection limit
func NewHub() *Hub {
	return NewHubWithLimit(0)
}

// NewHubWithLimit creates a Hub accepting at most maxPerGroup clients per group.
// Zero means no limit.
func NewHubWithLimit(maxPerGroup int) *Hub {
	return &Hub{
		groups:      make(map[int32]map[string]ClientInterface),
		maxPerGroup: maxPerGroup,
	}
}

// HasRoom reports whether another client of the group would be accepted right now
func (h *Hub) HasRoom(groupID int32) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.maxPerGroup <= 0 || len(h.groups[groupID]) < h.maxPerGroup
}

// Register adds a client under its group, or returns ErrGroupFull
func (h *Hub) Register(client ClientInterface) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	groupID := client.GroupID()
	clients := h.groups[groupID]
	if h.maxPerGroup > 0 && len(clients) >= h.maxPerGroup {
		return ErrGroupFull
	}
	if clients == nil {
		clients = make(map[string]ClientInterface)
		h.groups[groupID] = clients
	}
	clients[client.ID()] = client

	log.Debug().
		Int32("group_id", groupID).
		Str("client_id", client.ID()).
		Int("group_clients", len(clients)).
		Msg("WebSocket client registered")
	return nil
}

// Serve subscribes an upgraded connection to its group's events and starts its
// pumps. A connection over the group limit is closed with "try again later".
func (h *Hub) Serve(conn *websocket.Conn, groupID int32) (*Client, error) {
	client := newClient(conn, groupID, func(c *Client) { h.Unregister(c) })
	if err := h.Register(client); err != nil {
		deadline := time.Now().Add(writeWait)
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, err.Error()), deadline)
		_ = conn.Close()
		return nil, err
	}

	go client.writeLoop()
	go client.readLoop()
	return client, nil
}

// Unregister removes a client. Unknown clients are ignored.
func (h *Hub) Unregister(client ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()

	groupID := client.GroupID()
	clients, ok := h.groups[groupID]
	if !ok {
		return
	}
	if _, exists := clients[client.ID()]; !exists {
		return
	}

	delete(clients, client.ID())
	if len(clients) == 0 {
		delete(h.groups, groupID)
	}

	log.Debug().
		Int32("group_id", groupID).
		Str("client_id", client.ID()).
		Msg("WebSocket client unregistered")
}

// Broadcast sends an event to every client of one group
func (h *Hub) Broadcast(groupID int32, event Event) {
	data, err := event.ToJSON()
	if err != nil {
		log.Error().
			Err(err).
			Int32("group_id", groupID).
			Str("event_type", event.Type).
			Msg("Failed to serialize event")
		return
	}

	recipients := h.snapshot(groupID)
	if len(recipients) == 0 {
		return
	}

	// Sends run outside the lock; a slow client must not block registration
	for _, client := range recipients {
		go func(c ClientInterface) {
			if err := c.Send(data); err != nil {
				log.Warn().
					Err(err).
					Int32("group_id", groupID).
					Str("client_id", c.ID()).
					Msg("Failed to send to client")
			}
		}(client)
	}

	log.Debug().
		Int32("group_id", groupID).
		Str("event_type", event.Type).
		Int("client_count", len(recipients)).
		Msg("Broadcast event")
}

func (h *Hub) snapshot(groupID int32) []ClientInterface {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients := h.groups[groupID]
	out := make([]ClientInterface, 0, len(clients))
	for _, client := range clients {
		out = append(out, client)
	}
	return out
}

// ClientCount returns the number of clients connected to a group
func (h *Hub) ClientCount(groupID int32) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups[groupID])
}

// TotalClientCount returns the number of connected clients across all groups
func (h *Hub) TotalClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, clients := range h.groups {
		total += len(clients)
	}
	return total
}

// CloseAll closes and forgets every client. Used on shutdown.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	groups := h.groups
	h.groups = make(map[int32]map[string]ClientInterface)
	h.mu.Unlock()

	closed := 0
	for _, clients := range groups {
		for _, client := range clients {
			_ = client.Close()
			closed++
		}
	}
	log.Info().Int("client_count", closed).Msg("WebSocket clients closed")
}
