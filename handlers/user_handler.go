package handlers

import (
	"context"
	"net/http"

	"github.com/Dosada05/hackathon-hub/middleware"
	"github.com/Dosada05/hackathon-hub/models"
	"github.com/Dosada05/hackathon-hub/services"
	"golang.org/x/sync/errgroup"
)

type UserHandler struct {
	organiserService services.OrganiserService
}

func NewUserHandler(os services.OrganiserService) *UserHandler {
	return &UserHandler{organiserService: os}
}

type myEventsResponse struct {
	Organised []models.Event `json:"organised"`
	Judging   []models.Event `json:"judging"`
}

// Me godoc
// @Summary Current user
// @Tags users
// @Produce json
// @Success 200 {object} models.Envelope{data=models.User}
// @Failure 401 {object} models.Envelope
// @Security BearerAuth
// @Router /me [get]
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}
	respond(w, r, http.StatusOK, user)
}

// MyEvents godoc
// @Summary Events the current user organises or judges
// @Tags users
// @Produce json
// @Success 200 {object} models.Envelope{data=myEventsResponse}
// @Failure 401 {object} models.Envelope
// @Security BearerAuth
// @Router /me/events [get]
func (h *UserHandler) MyEvents(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	var resp myEventsResponse
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		events, err := h.organiserService.ListOrganisedEvents(ctx, userID)
		resp.Organised = events
		return err
	})
	g.Go(func() error {
		events, err := h.organiserService.ListJudgedEvents(ctx, userID)
		resp.Judging = events
		return err
	})
	if err := g.Wait(); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if resp.Organised == nil {
		resp.Organised = []models.Event{}
	}
	if resp.Judging == nil {
		resp.Judging = []models.Event{}
	}
	respond(w, r, http.StatusOK, resp)
}

// pinger is satisfied by *sql.DB.
type pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db pinger
}

func NewHealthHandler(db pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health godoc
// @Summary Liveness and database check
// @Tags system
// @Produce json
// @Success 200 {object} models.Envelope
// @Failure 503 {object} models.Envelope
// @Router /healthz [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		errorResponse(w, r, http.StatusServiceUnavailable, models.CodeUnavailable, "database unreachable")
		return
	}
	respond(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
