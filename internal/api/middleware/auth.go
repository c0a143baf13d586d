package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/glowbook/booking-service/internal/integrations/identity"
)

type contextKey string

const professionalIDKey contextKey = "professionalID"

// TokenVerifier интерфейс проверки токена профессионала
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*identity.Principal, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Auth проверяет Bearer-токен через identity-сервис и кладет
// ID профессионала в контекст запроса
func Auth(verifier TokenVerifier, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				respondAuthError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			principal, err := verifier.Verify(r.Context(), token)
			if err != nil {
				if errors.Is(err, identity.ErrUnauthorized) {
					logger.Warn("Auth: invalid token for %s %s", r.Method, r.URL.Path)
					respondAuthError(w, http.StatusUnauthorized, "invalid token")
					return
				}
				logger.Error("Auth: identity service error: %v", err)
				respondAuthError(w, http.StatusServiceUnavailable, "authorization temporarily unavailable")
				return
			}

			ctx := context.WithValue(r.Context(), professionalIDKey, principal.ProfessionalID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetProfessionalID возвращает ID профессионала из контекста запроса
func GetProfessionalID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(professionalIDKey).(int64)
	return id, ok
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}

func respondAuthError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
