package controller

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"catalogo-millex/repository"
)

// SessionCookieName carries the session id between requests
const SessionCookieName = "session_id"

type sessionKey struct{}

// SessionMiddleware attaches the caller's session to the request context,
// creating one on first use. The session stays locked until the handler
// returns, so requests for the same session run one at a time.
func SessionMiddleware(store repository.SessionStore, secure bool, logger *zap.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var session *repository.Session
			if cookie, err := r.Cookie(SessionCookieName); err == nil {
				session, _ = store.Get(cookie.Value)
			}
			if session == nil {
				session = store.Create()
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookieName,
					Value:    session.ID,
					Path:     "/",
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
				logger.Debug("🆕 session created", zap.String("sessionId", session.ID))
			}

			session.Lock()
			defer session.Unlock()
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, session)))
		})
	}
}

// SessionFrom returns the session attached by SessionMiddleware
func SessionFrom(ctx context.Context) *repository.Session {
	session, _ := ctx.Value(sessionKey{}).(*repository.Session)
	return session
}
