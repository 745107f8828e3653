package routes

import (
	"net/http"
	"time"

	"github.com/Dosada05/hackathon-hub/handlers"
	"github.com/Dosada05/hackathon-hub/metrics"
	"github.com/Dosada05/hackathon-hub/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Event     *handlers.EventHandler
	User      *handlers.UserHandler
	Proposal  *handlers.ProposalHandler
	Admin     *handlers.AdminHandler
	Log       *handlers.LogHandler
	WebSocket *handlers.WebSocketHandler
	Health    *handlers.HealthHandler
}

type Middleware struct {
	Authenticator  *middleware.Authenticator
	EventGuards    *middleware.EventGuards
	RateLimiter    *middleware.RateLimiter
	AllowedOrigins []string
}

func SetupRoutes(router chi.Router, h Handlers, m Middleware) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.CorrelationID)
	router.Use(metrics.InstrumentHandler)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   m.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.CorrelationIDHeader},
		ExposedHeaders:   []string{middleware.CorrelationIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/healthz", h.Health.Health)
	router.Handle("/metrics", metrics.Handler())
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	router.Get("/ws/events/{id}", h.WebSocket.ServeWs)

	router.Route("/api", func(r chi.Router) {
		r.Use(chiMiddleware.Timeout(30 * time.Second))

		r.Get("/events", h.Event.ListEvents)
		r.Get("/events/{id}", h.Event.GetEvent)
		r.Get("/events/{id}/sponsors", h.Event.ListSponsors)

		r.Group(func(r chi.Router) {
			r.Use(m.Authenticator.Authenticate)
			r.Use(m.RateLimiter.Handler)

			r.Get("/me", h.User.Me)
			r.Get("/me/events", h.User.MyEvents)

			r.With(middleware.RequireAdmin).Post("/events", h.Event.CreateEvent)

			r.Post("/events/{id}/register", h.Event.Register)
			r.Delete("/events/{id}/register", h.Event.Unregister)
			r.Post("/events/{id}/teams/{teamId}/join", h.Event.JoinTeam)
			r.Delete("/events/{id}/teams/{teamId}/leave", h.Event.LeaveTeam)

			r.Group(func(r chi.Router) {
				r.Use(m.EventGuards.RequireMemberOrManager)
				r.Get("/events/{id}/teams", h.Event.ListTeams)
				r.Post("/events/{id}/teams", h.Event.CreateTeam)
			})

			r.Group(func(r chi.Router) {
				r.Use(m.EventGuards.RequireManager)
				r.Put("/events/{id}", h.Event.UpdateEvent)
				r.Delete("/events/{id}", h.Event.DeleteEvent)
				r.Put("/events/{id}/poster", h.Event.UploadPoster)
				r.Post("/events/{id}/photos", h.Event.AddPhoto)
				r.Post("/events/{id}/judges", h.Event.AddJudge)
				r.Delete("/events/{id}/judges", h.Event.RemoveJudge)
				r.Post("/events/{id}/organisers", h.Event.AddOrganiser)
				r.Delete("/events/{id}/organisers", h.Event.RemoveOrganiser)
				r.Post("/events/{id}/participants", h.Event.AddParticipant)
				r.Delete("/events/{id}/participants", h.Event.RemoveParticipant)
				r.Delete("/events/{id}/teams/{teamId}", h.Event.DeleteTeam)
				r.Post("/events/{id}/sponsors", h.Event.AddSponsor)
				r.Delete("/events/{id}/sponsors/{sponsorId}", h.Event.RemoveSponsor)
			})

			r.Post("/teams", h.Proposal.SubmitTeam)
			r.Get("/teams/me", h.Proposal.GetMyTeam)
			r.Get("/teams/{teamId}", h.Proposal.GetTeam)
			r.Put("/teams/{teamId}/proposal", h.Proposal.UploadProposal)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireJudgeOrAdmin)
				r.Get("/proposal", h.Proposal.ListProposals)
				r.Post("/proposal", h.Proposal.Decide)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Patch("/teams/{teamId}/status", h.Proposal.SetTeamStatus)
				r.Get("/analytics", h.Admin.Analytics)
				r.Get("/users", h.Admin.ListUsers)
				r.Patch("/users/{id}/roles", h.Admin.UpdateRoles)
			})

			r.With(middleware.RequireAdmin).Get("/logs", h.Log.ListLogs)
		})
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"error":{"message":"route not found","code":"NOT_FOUND"}}` + "\n"))
	})
}
