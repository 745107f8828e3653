package handlers

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/Dosada05/hackathon-hub/realtime"
	"github.com/Dosada05/hackathon-hub/services"
	"github.com/gorilla/websocket"
)

type WebSocketHandler struct {
	hub          *realtime.Hub
	eventService services.EventService
	upgrader     websocket.Upgrader
	logger       *slog.Logger
}

// NewWebSocketHandler accepts connections whose Origin is in allowedOrigins; "*" allows any.
func NewWebSocketHandler(hub *realtime.Hub, es services.EventService, allowedOrigins []string, logger *slog.Logger) *WebSocketHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[strings.TrimRight(strings.TrimSpace(o), "/")] = true
	}

	return &WebSocketHandler{
		hub:          hub,
		eventService: es,
		logger:       logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || allowed["*"] {
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				return allowed[u.Scheme+"://"+u.Host]
			},
		},
	}
}

// ServeWs godoc
// @Summary Live feed of changes to an event
// @Description Upgrades to a websocket that receives realtime.Message frames for the event.
// @Tags realtime
// @Param id path int true "Event ID"
// @Success 101 "Switching protocols"
// @Failure 404 {object} models.Envelope
// @Router /ws/events/{id} [get]
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if _, err := h.eventService.GetEventDetails(r.Context(), eventID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "event_id", eventID, "error", err)
		return
	}

	client := realtime.NewClient(h.hub, conn, realtime.EventRoom(eventID))
	if !h.hub.Join(client) {
		_ = conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}
