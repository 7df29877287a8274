package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"

	"gitlab.com/dirk.krummacker/personal-crm/internal/config"
	"gitlab.com/dirk.krummacker/personal-crm/internal/model"
)

// Provider is the identity provider the service signs users in with.
type Provider interface {
	// AuthCodeURL returns the consent page URL for the given CSRF state.
	AuthCodeURL(state string) string
	// Exchange trades an authorization code for a token.
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	// Refresh returns token unchanged while it is valid and a fresh token otherwise.
	Refresh(ctx context.Context, token *oauth2.Token) (*oauth2.Token, error)
	// UserInfo fetches the identity the token belongs to.
	UserInfo(ctx context.Context, token *oauth2.Token) (*model.User, error)
}

// OAuthProvider implements Provider for Google and GitHub.
type OAuthProvider struct {
	name        string
	config      *oauth2.Config
	userInfoURL string
}

// NewOAuthProvider configures the provider named in cfg.Auth.Provider. The redirect URL is always
// {base_url}/auth/callback.
func NewOAuthProvider(cfg *config.Config) (*OAuthProvider, error) {
	oc := &oauth2.Config{
		ClientID:     cfg.Auth.ClientID,
		ClientSecret: cfg.Auth.ClientSecret,
		RedirectURL:  cfg.CallbackURL(),
	}
	p := &OAuthProvider{name: cfg.Auth.Provider, config: oc}
	switch cfg.Auth.Provider {
	case "google":
		oc.Endpoint = google.Endpoint
		oc.Scopes = []string{"openid", "email"}
		p.userInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	case "github":
		oc.Endpoint = github.Endpoint
		oc.Scopes = []string{"read:user", "user:email"}
		p.userInfoURL = "https://api.github.com/user"
	default:
		return nil, fmt.Errorf("unknown OAuth provider: %s", cfg.Auth.Provider)
	}
	return p, nil
}

func (p *OAuthProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

func (p *OAuthProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("token exchange failed: %w", err)
	}
	return token, nil
}

func (p *OAuthProvider) Refresh(ctx context.Context, token *oauth2.Token) (*oauth2.Token, error) {
	fresh, err := p.config.TokenSource(ctx, token).Token()
	if err != nil {
		return nil, fmt.Errorf("token refresh failed: %w", err)
	}
	return fresh, nil
}

func (p *OAuthProvider) UserInfo(ctx context.Context, token *oauth2.Token) (*model.User, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))
	resp, err := client.Get(p.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s user: %w", p.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s user info returned status %d", p.name, resp.StatusCode)
	}

	// Google sends the subject as a string, GitHub as a number.
	var data struct {
		ID    json.RawMessage `json:"id"`
		Email string          `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode %s user response: %w", p.name, err)
	}
	id, err := subject(data.ID)
	if err != nil {
		return nil, err
	}
	return &model.User{ID: p.name + ":" + id, Email: data.Email}, nil
}

func subject(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil && s != "" {
		return s, nil
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil && n != 0 {
		return strconv.FormatInt(n, 10), nil
	}
	return "", fmt.Errorf("user info has no subject")
}
