package authenticator

import (
	"context"
	"errors"

	"github.com/coreos/go-oidc/v3/oidc"
)

// DefaultScopes are requested when Config.Scopes is empty. The email scope
// supplies the audit actor.
var DefaultScopes = []string{oidc.ScopeOpenID, "profile", "email"}

// Config holds OAuth provider configuration
type Config struct {
	IssuerURL    string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
}

// Validate checks that every required setting is present
func (c Config) Validate() error {
	if c.IssuerURL == "" {
		return errors.New("issuer URL is required")
	}
	if c.ClientID == "" {
		return errors.New("client ID is required")
	}
	if c.ClientSecret == "" {
		return errors.New("client secret is required")
	}
	if c.RedirectURL == "" {
		return errors.New("callback URL is required")
	}
	return nil
}

// Token represents an authentication token
type Token struct {
	AccessToken  string
	RefreshToken string
	IDToken      string
	Expiry       int64
}

// Claims represents user claims from the ID token
type Claims map[string]interface{}

// String returns a string claim, or "" when it is missing or not a string
func (c Claims) String(name string) string {
	s, _ := c[name].(string)
	return s
}

// Email returns the email claim
func (c Claims) Email() string {
	return c.String("email")
}

// DisplayName picks nickname, then name, then email, then subject
func (c Claims) DisplayName() string {
	for _, key := range []string{"nickname", "name", "email", "sub"} {
		if v := c.String(key); v != "" {
			return v
		}
	}
	return ""
}

// Provider interface abstracts OAuth provider operations
type Provider interface {
	GetAuthURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*Token, error)
	GetClaims(ctx context.Context, token *Token) (Claims, error)
}
