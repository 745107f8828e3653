package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/Dosada05/hackathon-hub/middleware"
	"github.com/Dosada05/hackathon-hub/models"
	"github.com/Dosada05/hackathon-hub/services"
)

type AdminHandler struct {
	userService      services.UserService
	analyticsService services.AnalyticsService
	now              func() time.Time
}

func NewAdminHandler(us services.UserService, as services.AnalyticsService) *AdminHandler {
	return &AdminHandler{
		userService:      us,
		analyticsService: as,
		now:              time.Now,
	}
}

// Analytics godoc
// @Summary Dashboard counts and weekly growth
// @Tags admin
// @Produce json
// @Success 200 {object} models.Envelope{data=models.Analytics}
// @Failure 403 {object} models.Envelope
// @Security BearerAuth
// @Router /admin/analytics [get]
func (h *AdminHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	analytics, err := h.analyticsService.GetAnalytics(r.Context(), h.now())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, analytics)
}

// ListUsers godoc
// @Summary List users
// @Tags admin
// @Produce json
// @Param search query string false "Name or email fragment"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} models.Envelope{data=models.UserListResponse}
// @Failure 403 {object} models.Envelope
// @Security BearerAuth
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := pageFromQuery(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	resp, err := h.userService.ListUsers(r.Context(), models.UserFilter{
		Search: strings.TrimSpace(r.URL.Query().Get("search")),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, resp)
}

// UpdateRoles godoc
// @Summary Grant or revoke admin and judge roles
// @Description Admins cannot revoke their own admin role.
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param body body services.UpdateRolesInput true "Roles"
// @Success 200 {object} models.Envelope{data=models.User}
// @Failure 403 {object} models.Envelope
// @Failure 404 {object} models.Envelope
// @Security BearerAuth
// @Router /admin/users/{id}/roles [patch]
func (h *AdminHandler) UpdateRoles(w http.ResponseWriter, r *http.Request) {
	userID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	actor := middleware.GetUserFromContext(r.Context())
	if actor == nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	var input services.UpdateRolesInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	user, err := h.userService.UpdateRoles(r.Context(), actor, userID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, user)
}

// LogReader is the read side of the application log.
type LogReader interface {
	GetLogs(ctx context.Context, filter models.LogFilter) ([]models.LogEntry, error)
}

type LogHandler struct {
	logs LogReader
}

func NewLogHandler(logs LogReader) *LogHandler {
	return &LogHandler{logs: logs}
}

// ListLogs godoc
// @Summary Query the application log
// @Tags admin
// @Produce json
// @Param userId query int false "Filter by user"
// @Param level query string false "debug, info, warn or error"
// @Param limit query int false "Page size (default 50, max 200)"
// @Param offset query int false "Page offset"
// @Success 200 {object} models.Envelope{data=[]models.LogEntry}
// @Failure 400 {object} models.Envelope
// @Failure 403 {object} models.Envelope
// @Security BearerAuth
// @Router /logs [get]
func (h *LogHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := pageFromQuery(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	userID, err := queryInt(r, "userId")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	filter := models.LogFilter{UserID: userID, Limit: limit, Offset: offset}
	if raw := r.URL.Query().Get("level"); raw != "" {
		level := models.LogLevel(strings.ToLower(raw))
		if !level.Valid() {
			badRequestResponse(w, r, errInvalidLogLevel)
			return
		}
		filter.Level = &level
	}

	entries, err := h.logs.GetLogs(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, entries)
}
