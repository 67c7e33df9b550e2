package controllers

import (
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"net/http"

	"gitea.com/go-chi/session"

	"github.com/blogem/registry-api/authenticator"
	"github.com/blogem/registry-api/middleware"
)

type AuthController struct{}

func NewAuthController() *AuthController {
	return &AuthController{}
}

// Login initiates the authentication process
func (ac *AuthController) Login(auth authenticator.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Generate random state
		state, err := generateRandomState()
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "internal server error"})
			return
		}

		// Save the state in the session to validate in callback
		sess := session.GetSession(r)
		sess.Set(middleware.SessionState, state)

		http.Redirect(w, r, auth.GetAuthURL(state), http.StatusTemporaryRedirect)
	}
}

// Callback handles the redirect back from the identity provider
func (ac *AuthController) Callback(auth authenticator.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.GetSession(r)

		// Verify state
		storedState, ok := sess.Get(middleware.SessionState).(string)
		if !ok {
			writeJSON(w, http.StatusBadRequest, errorResponse{Message: "state not found in session"})
			return
		}
		if r.URL.Query().Get("state") != storedState {
			writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid state parameter"})
			return
		}

		// Exchange the code for a token
		token, err := auth.ExchangeCode(r.Context(), r.URL.Query().Get("code"))
		if err != nil {
			slog.WarnContext(r.Context(), "code exchange failed", slog.Any("error", err))
			writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "failed to exchange authorization code"})
			return
		}

		claims, err := auth.GetClaims(r.Context(), token)
		if err != nil {
			slog.WarnContext(r.Context(), "id token verification failed", slog.Any("error", err))
			writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "failed to verify ID token"})
			return
		}

		subject := claims.String("sub")
		if subject == "" {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "ID token has no subject"})
			return
		}

		sess.Set(middleware.SessionUserID, subject)
		sess.Set(middleware.SessionUserEmail, claims.Email())
		sess.Set(middleware.SessionUserName, claims.DisplayName())

		// Clear the state from session
		sess.Delete(middleware.SessionState)

		slog.InfoContext(r.Context(), "user signed in", slog.String("user_id", subject))
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// Logout clears the signed-in user from the session
func (ac *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	sess := session.GetSession(r)
	for _, key := range []string{middleware.SessionUserID, middleware.SessionUserEmail, middleware.SessionUserName} {
		sess.Delete(key)
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// generateRandomState generates a random state value for CSRF protection
func generateRandomState() (string, error) {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
