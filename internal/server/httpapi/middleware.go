package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/fittrackio/fittrack/internal/common"
	"github.com/fittrackio/fittrack/internal/server/models"
	"github.com/fittrackio/fittrack/internal/server/observability"
)

// statusRecorder captures the status code written by a handler so the
// metrics middleware can label the request after it finishes.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// route applies the request deadline and metrics instrumentation shared by
// every endpoint. The route label is the registered pattern, never the raw
// request path.
func (h *Handler) route(pattern string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		defer cancel()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next(rec, r.WithContext(ctx))

		observability.RecordRequest(pattern, r.Method, rec.status, time.Since(start))
	}
}

// authed is route plus the bearer-token check. The wrapped handler receives
// the resolved user; every flavor of token failure collapses to 401 with the
// distinct reason counted.
func (h *Handler) authed(pattern string, next func(http.ResponseWriter, *http.Request, *models.User)) http.HandlerFunc {
	return h.route(pattern, func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			observability.RecordAuthFailure("missing_token")
			writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
			return
		}

		user, err := h.users.Authenticate(r.Context(), token)
		if err != nil {
			// only a rejected token is an authentication failure; a store
			// outage during the user lookup must not blame the credential
			if !isAuthFailure(err) {
				h.writeServiceError(w, r, err)
				return
			}
			observability.RecordAuthFailure(authFailureReason(err))
			h.logger.Debug(r.Context(), "bearer token rejected", "path", r.URL.Path, "error", err)
			writeError(w, http.StatusUnauthorized, "unauthorized", "invalid bearer token")
			return
		}

		next(w, r, user)
	})
}

func isAuthFailure(err error) bool {
	return errors.Is(err, common.ErrorMalformedToken) ||
		errors.Is(err, common.ErrorInvalidSignature) ||
		errors.Is(err, common.ErrorTokenExpired) ||
		errors.Is(err, common.ErrorUserNotFound)
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return token, true
}

func authFailureReason(err error) string {
	switch {
	case errors.Is(err, common.ErrorTokenExpired):
		return "expired"
	case errors.Is(err, common.ErrorInvalidSignature):
		return "bad_signature"
	case errors.Is(err, common.ErrorMalformedToken):
		return "malformed"
	case errors.Is(err, common.ErrorUserNotFound):
		return "unknown_user"
	default:
		return "other"
	}
}
