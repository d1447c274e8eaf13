package auth

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghuser/possystem/pkg/logger"
)

var (
	testAuthKey = []byte("test-auth-key-must-be-32-bytes!!")
	testEncKey  = []byte("test-enc-key-must-be-32-bytes!!!")
)

func TestSessionValues_RoundTrip(t *testing.T) {
	raw, err := encodeValues(map[any]any{sessionUserIDKey: "0b6a1f0e-3c43-4f7e-9d8e-5f2b7a3d9c10"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"user_id":"0b6a1f0e-3c43-4f7e-9d8e-5f2b7a3d9c10"}`, string(raw))

	values, err := decodeValues(raw)
	require.NoError(t, err)
	assert.Equal(t, "0b6a1f0e-3c43-4f7e-9d8e-5f2b7a3d9c10", values[sessionUserIDKey])
}

func TestSessionValues_RejectsNonStrings(t *testing.T) {
	_, err := encodeValues(map[any]any{1: "x"})
	assert.ErrorContains(t, err, "string keys")

	_, err = encodeValues(map[any]any{"count": 3})
	assert.ErrorContains(t, err, "string values")

	_, err = decodeValues([]byte("not json"))
	assert.Error(t, err)
}

func TestRedisStore_NewWithoutUsableCookie(t *testing.T) {
	store := NewSessionStore(nil, testAuthKey, testEncKey, false, time.Hour)

	s, err := store.New(httptest.NewRequest(http.MethodGet, "/", nil), sessionName)
	require.NoError(t, err)
	assert.True(t, s.IsNew)
	assert.Equal(t, 3600, s.Options.MaxAge)
	assert.True(t, s.Options.HttpOnly)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: sessionName, Value: "tampered"})
	s, err = store.New(r, sessionName)
	require.NoError(t, err)
	assert.True(t, s.IsNew)
}

func TestRedisStore_ExpireUnsavedSession(t *testing.T) {
	store := NewSessionStore(nil, testAuthKey, testEncKey, true, time.Hour)
	s, err := store.New(httptest.NewRequest(http.MethodGet, "/", nil), sessionName)
	require.NoError(t, err)

	s.Options.MaxAge = -1
	w := httptest.NewRecorder()
	require.NoError(t, store.Save(httptest.NewRequest(http.MethodPost, "/", nil), w, s))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].MaxAge < 0)
	assert.True(t, cookies[0].Secure)
}

// Login, authenticated request and logout against a live Redis.
func TestRedisStore_Lifecycle(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set; skipping integration tests")
	}
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	defer client.Close() //nolint:errcheck

	store := NewSessionStore(client, testAuthKey, testEncKey, false, time.Minute)
	userID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/api/orders", http.NoBody)
	for _, c := range sessionCookies(t, store, map[any]any{sessionUserIDKey: userID.String()}) {
		req.AddCookie(c)
	}

	probe := &operatorProbe{}
	w := httptest.NewRecorder()
	RequireAuth(store, newTestTokens(), logger.Discard())(probe).ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, userID, probe.userID)

	w = httptest.NewRecorder()
	require.NoError(t, EndSession(store, w, req))

	after := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	for _, c := range req.Cookies() {
		after.AddCookie(c)
	}
	s, err := store.New(after, sessionName)
	require.NoError(t, err)
	assert.True(t, s.IsNew, "record must be gone after logout")
}
