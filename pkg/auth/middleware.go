package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/ghuser/possystem/pkg/httpx"
	"github.com/ghuser/possystem/pkg/logger"
)

const (
	sessionName      = "pos_session"
	sessionUserIDKey = "user_id"
)

var errNoCredentials = errors.New("authentication required")

// RequireAuth authenticates the operator from "Authorization: Bearer <jwt>"
// or, failing that, the session cookie written at login. A present but
// invalid bearer token is rejected without falling back to the cookie.
//
// Downstream handlers read the operator with UserIDFromCtx; their log
// records carry operator_id and auth.
func RequireAuth(store sessions.Store, tokens *TokenManager, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, via, err := authenticate(store, tokens, r)
			if err != nil {
				msg := "authentication required"
				if !errors.Is(err, errNoCredentials) {
					log.WarnContext(r.Context(), "authentication failed", "auth", via, "error", err)
					if via == "bearer" {
						msg = "invalid token"
					}
				}
				httpx.JSONErrorKind(w, http.StatusUnauthorized, "unauthorized", msg, nil)
				return
			}
			ctx := WithUserID(r.Context(), userID)
			ctx = logger.WithAttrs(ctx, "operator_id", userID.String(), "auth", via)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// authenticate reports the operator and which credential identified them.
func authenticate(store sessions.Store, tokens *TokenManager, r *http.Request) (uuid.UUID, string, error) {
	if raw, ok := bearerToken(r); ok {
		id, err := tokens.Validate(raw)
		return id, "bearer", err
	}
	if _, err := r.Cookie(sessionName); errors.Is(err, http.ErrNoCookie) {
		return uuid.Nil, "session", errNoCredentials
	}
	id, err := sessionUserID(store, r)
	return id, "session", err
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
	token = strings.TrimSpace(token)
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return token, true
}

func sessionUserID(store sessions.Store, r *http.Request) (uuid.UUID, error) {
	session, err := store.Get(r, sessionName)
	if err != nil {
		return uuid.Nil, fmt.Errorf("load session: %w", err)
	}
	raw, _ := session.Values[sessionUserIDKey].(string)
	if raw == "" {
		return uuid.Nil, errNoCredentials
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("session user id %q: %w", raw, err)
	}
	return id, nil
}

// StartSession binds userID to the session. A stale or unreadable cookie is
// replaced with a fresh session.
func StartSession(store sessions.Store, w http.ResponseWriter, r *http.Request, userID uuid.UUID) error {
	// Stores hand back a fresh session alongside a decode error.
	session, err := store.Get(r, sessionName)
	if session == nil {
		return err
	}
	session.Values[sessionUserIDKey] = userID.String()
	return session.Save(r, w)
}

// EndSession expires the cookie and drops the server-side state. Logging out
// without a valid session is not an error.
func EndSession(store sessions.Store, w http.ResponseWriter, r *http.Request) error {
	session, err := store.Get(r, sessionName)
	if err != nil {
		return nil
	}
	session.Options.MaxAge = -1
	return session.Save(r, w)
}
