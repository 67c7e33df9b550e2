package middleware

import (
	"net/http"

	"gitea.com/go-chi/session"
)

// Session keys written at login and read by the middleware below
const (
	SessionUserID    = "user_id"
	SessionUserEmail = "user_email"
	SessionUserName  = "user_nickname"
	SessionState     = "state"
)

// RequireAuth ensures the user is authenticated. API clients get a 401
// instead of the login redirect.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := session.GetSession(r)
		if sess == nil || sess.Get(SessionUserID) == nil {
			writeMessage(w, http.StatusUnauthorized, "authentication required")
			return
		}

		next.ServeHTTP(w, r)
	})
}
