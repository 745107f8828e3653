package middleware

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Dosada05/hackathon-hub/models"
	"github.com/Dosada05/hackathon-hub/services"
	"github.com/go-chi/chi/v5"
)

// EventIDParam is the chi URL parameter guards read the event ID from.
const EventIDParam = "id"

func RequireAdmin(next http.Handler) http.Handler {
	return requireRole(func(u *models.User) bool { return u.IsAdmin }, next)
}

func RequireJudgeOrAdmin(next http.Handler) http.Handler {
	return requireRole(func(u *models.User) bool { return u.IsAdmin || u.IsJudge }, next)
}

func requireRole(allowed func(*models.User) bool, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetUserFromContext(r.Context())
		if user == nil {
			writeError(w, http.StatusUnauthorized, models.CodeUnauthorized, "authentication required")
			return
		}
		if !allowed(user) {
			writeError(w, http.StatusForbidden, models.CodeForbidden, "insufficient permissions")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// EventGuards authorize requests against the event named in the URL.
type EventGuards struct {
	organisers services.OrganiserService
	logger     *slog.Logger
}

func NewEventGuards(organisers services.OrganiserService, logger *slog.Logger) *EventGuards {
	return &EventGuards{organisers: organisers, logger: logger}
}

// RequireManager lets admins and organisers of the event through.
func (g *EventGuards) RequireManager(next http.Handler) http.Handler {
	return g.guard(false, next)
}

// RequireMemberOrManager additionally admits registered participants.
func (g *EventGuards) RequireMemberOrManager(next http.Handler) http.Handler {
	return g.guard(true, next)
}

func (g *EventGuards) guard(allowParticipants bool, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetUserFromContext(r.Context())
		if user == nil {
			writeError(w, http.StatusUnauthorized, models.CodeUnauthorized, "authentication required")
			return
		}

		eventID, err := strconv.Atoi(chi.URLParam(r, EventIDParam))
		if err != nil || eventID <= 0 {
			writeError(w, http.StatusBadRequest, models.CodeBadRequest, "invalid event ID")
			return
		}

		ok, err := g.organisers.IsEventManager(r.Context(), eventID, user)
		if err == nil && !ok && allowParticipants {
			ok, err = g.organisers.IsEventParticipant(r.Context(), eventID, user.ID)
		}
		if err != nil {
			g.logger.Error("event guard: permission check failed", "event_id", eventID, "user_id", user.ID, "error", err)
			writeError(w, http.StatusInternalServerError, models.CodeInternal, "internal server error")
			return
		}
		if !ok {
			writeError(w, http.StatusForbidden, models.CodeForbidden, "you do not manage this event")
			return
		}
		next.ServeHTTP(w, r)
	})
}
