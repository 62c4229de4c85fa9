package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSigningKey = "0123456789abcdef0123456789abcdef"

func sessionProbe(m *Manager) (http.Handler, *string) {
	var seen string
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
	return h, &seen
}

func TestNewSessionOnFirstRequest(t *testing.T) {
	m := NewManager("hedy_session", testSigningKey)
	h, seen := sessionProbe(m)

	req := httptest.NewRequest(http.MethodGet, "/parse/", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	require.NotEmpty(t, *seen)
	assert.Len(t, *seen, 32)

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "hedy_session", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
}

func TestSessionReusedAcrossRequests(t *testing.T) {
	m := NewManager("hedy_session", testSigningKey)
	h, seen := sessionProbe(m)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	first := *seen

	// replay the issued cookie, as a browser would
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rr.Result().Cookies() {
		req.AddCookie(c)
	}
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, first, *seen)
	assert.Empty(t, rr.Result().Cookies(), "no new cookie for an existing session")
}

func TestIndependentClientsGetDistinctSessions(t *testing.T) {
	m := NewManager("hedy_session", testSigningKey)
	h, seen := sessionProbe(m)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	first := *seen

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEqual(t, first, *seen)
}

func TestTamperedCookieGetsFreshSession(t *testing.T) {
	m := NewManager("hedy_session", testSigningKey)
	h, seen := sessionProbe(m)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	issued := rr.Result().Cookies()[0]

	tampered := &http.Cookie{Name: issued.Name, Value: "deadbeef." + issued.Value}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(tampered)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.NotEmpty(t, *seen)
	require.Len(t, rr.Result().Cookies(), 1, "tampered cookie must be replaced")

	// a cookie signed with a different key is rejected too
	other := NewManager("hedy_session", "another-signing-key-entirely!!")
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(issued)
	rr = httptest.NewRecorder()
	oh, oseen := sessionProbe(other)
	oh.ServeHTTP(rr, req)
	assert.NotEqual(t, *seen, *oseen)
	require.Len(t, rr.Result().Cookies(), 1)
}

func TestSessionIdUniqueness(t *testing.T) {
	const n = 20000
	ids := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		id := NewSessionId()
		_, dup := ids[id]
		require.False(t, dup, "collision after %d ids", i)
		ids[id] = struct{}{}
	}
}

func TestFromContextWithoutSession(t *testing.T) {
	assert.Empty(t, FromContext(nil))
	assert.Empty(t, FromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context()))
}
