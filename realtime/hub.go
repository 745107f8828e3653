package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"

	"github.com/Dosada05/hackathon-hub/metrics"
)

// Message types pushed to event rooms.
const (
	MessageParticipantRegistered   = "participant_registered"
	MessageParticipantUnregistered = "participant_unregistered"
	MessageTeamCreated             = "team_created"
	MessageTeamDeleted             = "team_deleted"
	MessageTeamMembershipChanged   = "team_membership_changed"
	MessageJudgesChanged           = "judges_changed"
	MessageOrganisersChanged       = "organisers_changed"
	MessageSponsorsChanged         = "sponsors_changed"
	MessageEventUpdated            = "event_updated"
	MessageEventDeleted            = "event_deleted"
)

type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
	RoomID  string      `json:"roomId,omitempty"`
}

// Notifier is what services use to publish live updates.
type Notifier interface {
	BroadcastToRoom(roomID string, message Message)
}

func EventRoom(eventID int) string {
	return "event_" + strconv.Itoa(eventID)
}

type Hub struct {
	Register   chan *Client
	Unregister chan *Client
	rooms      map[string]map[*Client]bool
	mu         sync.RWMutex
	done       chan struct{}
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]bool),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Join registers c with the hub. It reports false once the hub has stopped.
func (h *Hub) Join(c *Client) bool {
	select {
	case h.Register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(c *Client) {
	select {
	case h.Unregister <- c:
	case <-h.done:
	}
}

// Run owns room membership until ctx is cancelled; remaining clients are closed on exit.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if _, ok := h.rooms[client.Room]; !ok {
				h.rooms[client.Room] = make(map[*Client]bool)
			}
			h.rooms[client.Room][client] = true
			size := len(h.rooms[client.Room])
			h.mu.Unlock()
			metrics.RealtimeClientConnected()
			h.logger.Debug("websocket client registered", slog.String("room", client.Room), slog.Int("clients", size))

		case client := <-h.Unregister:
			h.mu.Lock()
			if members, ok := h.rooms[client.Room]; ok {
				if _, okClient := members[client]; okClient {
					client.closeSend()
					delete(members, client)
					metrics.RealtimeClientDisconnected()
					if len(members) == 0 {
						delete(h.rooms, client.Room)
					}
				}
			}
			h.mu.Unlock()

		case <-ctx.Done():
			h.mu.Lock()
			for room, members := range h.rooms {
				for client := range members {
					client.closeSend()
					metrics.RealtimeClientDisconnected()
				}
				delete(h.rooms, room)
			}
			h.mu.Unlock()
			close(h.done)
			return
		}
	}
}

// BroadcastToRoom sends message to every client in the room; slow clients miss the message.
func (h *Hub) BroadcastToRoom(roomID string, message Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	roomClients, ok := h.rooms[roomID]
	if !ok {
		return
	}

	message.RoomID = roomID
	messageBytes, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("failed to marshal websocket message", slog.String("room", roomID), slog.Any("error", err))
		return
	}

	for client := range roomClients {
		if !client.trySend(messageBytes) {
			h.logger.Warn("websocket client send buffer full", slog.String("room", roomID))
		}
	}
}

func (h *Hub) RoomSize(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}
