package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	h "campusconnect/internal/delivery/http/helpers"
	"campusconnect/internal/domain"
)

type contextKey string

const userIDKey contextKey = "userID"

// SetUserID returns a context carrying the authenticated user's uid.
func SetUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the uid stored by RequireAuth, if any.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok
}

// bearerToken extracts the token from the Authorization header. On failure it
// returns the message to send back with the 401.
func bearerToken(r *http.Request) (token, reject string) {
	header := r.Header.Get("Authorization")
	if strings.TrimSpace(header) == "" {
		return "", "missing authorization header"
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", "authorization header must use the Bearer scheme"
	}
	if token = strings.TrimSpace(token); token == "" {
		return "", "missing bearer token"
	}
	return token, ""
}

// RequireAuth verifies the Bearer token and stores the caller's uid in the
// request context. Rejected requests get 401 and never reach next.
func RequireAuth(verifier domain.TokenVerifier, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token, reject := bearerToken(r)
			if reject != "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, reject)
				return
			}
			userID, err := verifier.Verify(token)
			if err != nil {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, tokenRejection(r.Context(), logger, r.URL.Path, err))
				return
			}
			next(w, r.WithContext(SetUserID(r.Context(), userID)))
		}
	}
}

// tokenRejection logs a failed verification and picks the client-facing message.
func tokenRejection(ctx context.Context, logger *slog.Logger, path string, err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		logger.DebugContext(ctx, "expired token", "path", path)
		return "token expired"
	case errors.Is(err, domain.ErrUnauthorized):
		logger.DebugContext(ctx, "token rejected", "path", path, "err", err)
		return "invalid token"
	default:
		logger.WarnContext(ctx, "token verification failed", "path", path, "err", err)
		return "invalid token"
	}
}
