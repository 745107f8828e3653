package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Dosada05/hackathon-hub/applog"
	"github.com/Dosada05/hackathon-hub/models"
	"github.com/Dosada05/hackathon-hub/services"
	"github.com/golang-jwt/jwt/v4"
)

var (
	errMissingToken = errors.New("missing bearer token")
	errInvalidToken = errors.New("invalid or expired token")
)

// SessionClaims is the payload the identity provider signs for a session.
type SessionClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

type Authenticator struct {
	secret      []byte
	userService services.UserService
	logger      *slog.Logger
}

func NewAuthenticator(secret string, userService services.UserService, logger *slog.Logger) *Authenticator {
	return &Authenticator{
		secret:      []byte(secret),
		userService: userService,
		logger:      logger,
	}
}

// Authenticate verifies the bearer token and loads (or creates) the matching user.
func (a *Authenticator) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := a.parse(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, models.CodeUnauthorized, err.Error())
			return
		}

		var image *string
		if claims.Picture != "" {
			image = &claims.Picture
		}

		user, err := a.userService.SyncIdentity(r.Context(), services.IdentityInput{
			Email: claims.Email,
			Name:  claims.Name,
			Image: image,
		})
		if err != nil {
			if errors.Is(err, services.ErrValidationFailed) {
				writeError(w, http.StatusUnauthorized, models.CodeUnauthorized, errInvalidToken.Error())
				return
			}
			a.logger.Error("Authenticate: failed to sync identity", "email", claims.Email, "error", err)
			writeError(w, http.StatusInternalServerError, models.CodeInternal, "internal server error")
			return
		}

		ctx := WithUser(r.Context(), user)
		ctx = applog.WithUserID(ctx, user.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *Authenticator) parse(r *http.Request) (*SessionClaims, error) {
	header := r.Header.Get("Authorization")
	tokenString, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(tokenString) == "" {
		return nil, errMissingToken
	}

	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(strings.TrimSpace(tokenString), claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, errInvalidToken
	}
	if claims.Email == "" {
		return nil, errInvalidToken
	}
	return claims, nil
}
