package middleware

import (
	"net/http"
	"strings"

	"gitea.com/go-chi/session"

	"github.com/blogem/registry-api/userctx"
)

// AuditActor copies the signed-in user from the session into the request
// context, where the mutation helper picks it up as the audit actor.
// Requests without a session stay anonymous.
func AuditActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if sess := session.GetSession(r); sess != nil {
			if id, ok := sess.Get(SessionUserID).(string); ok {
				ctx = userctx.SetUserID(ctx, id)
			}
			if email, ok := sess.Get(SessionUserEmail).(string); ok {
				ctx = userctx.SetUserEmail(ctx, email)
			}
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// getIPAddress extracts IP address from request, checking X-Forwarded-For first
func getIPAddress(r *http.Request) string {
	// Check X-Forwarded-For header (proxy/load balancer)
	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded != "" {
		// Take first IP if multiple
		ips := strings.Split(forwarded, ",")
		return strings.TrimSpace(ips[0])
	}

	// Check X-Real-IP header
	realIP := r.Header.Get("X-Real-IP")
	if realIP != "" {
		return realIP
	}

	// Fall back to RemoteAddr
	ip := r.RemoteAddr
	// Remove port if present
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return strings.Trim(ip, "[]")
}
