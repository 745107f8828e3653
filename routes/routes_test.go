package routes

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Dosada05/hackathon-hub/handlers"
	"github.com/Dosada05/hackathon-hub/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

type okPinger struct{}

func (okPinger) PingContext(context.Context) error { return nil }

func newTestRouter() http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := chi.NewRouter()
	SetupRoutes(router, Handlers{
		Event:     handlers.NewEventHandler(nil, 1<<20),
		User:      handlers.NewUserHandler(nil),
		Proposal:  handlers.NewProposalHandler(nil, 1<<20),
		Admin:     handlers.NewAdminHandler(nil, nil),
		Log:       handlers.NewLogHandler(nil),
		WebSocket: handlers.NewWebSocketHandler(nil, nil, []string{"*"}, logger),
		Health:    handlers.NewHealthHandler(okPinger{}),
	}, Middleware{
		Authenticator:  middleware.NewAuthenticator("secret", nil, logger),
		EventGuards:    middleware.NewEventGuards(nil, logger),
		RateLimiter:    middleware.NewRateLimiter(100, 100, logger),
		AllowedOrigins: []string{"http://localhost:3000"},
	})
	return router
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := newTestRouter()

	cases := []struct{ method, path string }{
		{http.MethodPost, "/api/events"},
		{http.MethodPut, "/api/events/1"},
		{http.MethodDelete, "/api/events/1"},
		{http.MethodPost, "/api/events/1/register"},
		{http.MethodGet, "/api/events/1/teams"},
		{http.MethodPost, "/api/events/1/judges"},
		{http.MethodGet, "/api/me"},
		{http.MethodPost, "/api/teams"},
		{http.MethodGet, "/api/proposal"},
		{http.MethodGet, "/api/admin/analytics"},
		{http.MethodGet, "/api/logs"},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestInfrastructureRoutes(t *testing.T) {
	router := newTestRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middleware.CorrelationIDHeader))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":{"message":"route not found","code":"NOT_FOUND"}}`, rec.Body.String())
}
