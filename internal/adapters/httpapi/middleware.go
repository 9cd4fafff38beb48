package httpapi

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TokenVerifier checks a bearer token presented on a protected endpoint.
type TokenVerifier interface {
	Verify(token string) error
}

// StaticTokenVerifier accepts a single pre-shared token.
type StaticTokenVerifier struct {
	Token string
}

// Verify compares the presented token against the configured one in
// constant time.
func (v StaticTokenVerifier) Verify(token string) error {
	if v.Token == "" {
		return errors.New("no token configured")
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(v.Token)) != 1 {
		return errors.New("token mismatch")
	}
	return nil
}

// authorize enforces bearer authentication when a verifier is configured.
// Without a verifier every request is allowed.
func (h *Handler) authorize(w http.ResponseWriter, r *http.Request) bool {
	if h.Verifier == nil {
		return true
	}
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeError(w, http.StatusUnauthorized, "missing bearer token")
		return false
	}
	if err := h.Verifier.Verify(token); err != nil {
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeError(w, http.StatusUnauthorized, "invalid bearer token")
		return false
	}
	return true
}

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-Id"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// WithRequestLogging wraps next with request-id assignment and structured
// access logging. Incoming request ids are kept, absent ones are generated.
func WithRequestLogging(logger *zap.Logger, next http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		logger.Info("request",
			zap.String("request_id", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}
