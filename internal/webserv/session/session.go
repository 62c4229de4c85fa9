// Package session assigns and persists the anonymous per-browser session
// identifier used to correlate log records. The identifier travels in an
// HMAC-signed cookie; the signing key is injected from configuration at
// startup. No personal information is involved, the identifier is an opaque
// random token.
package session

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

type sessionContextKey string

const sessionIdKey = sessionContextKey("sessionId")

// Manager issues and verifies session cookies.
type Manager struct {
	cookieName string
	signingKey []byte
}

// NewManager creates a session manager with the given cookie name and signing
// key.
func NewManager(cookieName, signingKey string) *Manager {
	return &Manager{
		cookieName: cookieName,
		signingKey: []byte(signingKey),
	}
}

// Middleware ensures every request carries a session identity. An existing
// valid cookie is reused; otherwise a fresh identifier is generated and set.
// The identifier is stashed in the request context, which makes repeated
// lookups within one request trivially idempotent.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := m.sessionFromCookie(r)
		if !ok {
			id = NewSessionId()
			http.SetCookie(w, &http.Cookie{
				Name:     m.cookieName,
				Value:    m.encode(id),
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		ctx := context.WithValue(r.Context(), sessionIdKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// FromContext returns the session identifier established by the middleware.
// Returns an empty string if no session is set.
func FromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, ok := ctx.Value(sessionIdKey).(string)
	if !ok {
		return ""
	}
	return id
}

// NewSessionId generates a fresh opaque session identifier: 32 hex
// characters backed by a version 4 UUID.
func NewSessionId() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// sessionFromCookie extracts and authenticates the session identifier from
// the request cookie. A missing, malformed, or tampered cookie yields false
// and the caller issues a fresh identity.
func (m *Manager) sessionFromCookie(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil {
		return "", false
	}
	id, sig, ok := strings.Cut(cookie.Value, ".")
	if !ok || id == "" {
		return "", false
	}
	if !hmac.Equal([]byte(sig), []byte(m.sign(id))) {
		return "", false
	}
	return id, true
}

func (m *Manager) encode(id string) string {
	return id + "." + m.sign(id)
}

func (m *Manager) sign(id string) string {
	mac := hmac.New(sha256.New, m.signingKey)
	mac.Write([]byte(id))
	return hex.EncodeToString(mac.Sum(nil))
}
