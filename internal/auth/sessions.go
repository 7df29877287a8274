// Package auth resolves who is making a request. Identity comes from an OAuth provider and is kept
// in a signed session cookie between requests.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"golang.org/x/oauth2"

	"gitlab.com/dirk.krummacker/personal-crm/internal/config"
	"gitlab.com/dirk.krummacker/personal-crm/internal/model"
)

const (
	// SessionName is the name of the session cookie.
	SessionName = "crm_session"

	stateName   = "crm_oauth_state"
	stateMaxAge = 10 * 60
)

// Session value keys.
const (
	keyUserID       = "user_id"
	keyEmail        = "email"
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
	keyExpiry       = "expiry"
	keyVerifiedAt   = "verified_at"
	keyState        = "state"
)

// ErrInvalidState is returned by Finish when the callback does not carry the state issued by Start.
var ErrInvalidState = errors.New("invalid OAuth state")

// Sessions keeps the signed-in identity in a cookie. The token behind a session is checked with the
// provider again once verifyInterval has passed since the last check.
type Sessions struct {
	store          *sessions.CookieStore
	provider       Provider
	verifyInterval time.Duration
	now            func() time.Time
}

// Grant is the identity obtained from a completed OAuth flow. It becomes a session only through
// Establish.
type Grant struct {
	User  *model.User
	token *oauth2.Token
}

// NewSessions creates the cookie store for the session and the OAuth state.
func NewSessions(cfg config.AuthConfig, provider Provider) *Sessions {
	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
	return &Sessions{store: store, provider: provider, verifyInterval: cfg.VerifyInterval, now: time.Now}
}

// Resolve returns the user of the session cookie on r, or nil if there is none. An expired token
// is refreshed with the provider, and a token that was last verified more than verifyInterval ago
// is verified again by fetching the identity; if either fails the session values are cleared and
// the user is nil. The returned session is never nil
// and carries the refreshed token, so saving it re-issues the cookie. The error is informational:
// it explains why a cookie that was present did not resolve to a user.
func (s *Sessions) Resolve(r *http.Request) (*model.User, *sessions.Session, error) {
	session, err := s.store.Get(r, SessionName)
	if err != nil {
		return nil, session, fmt.Errorf("failed to decode session cookie: %w", err)
	}
	userID, _ := session.Values[keyUserID].(string)
	if userID == "" {
		return nil, session, nil
	}

	token := tokenFromSession(session)
	if !token.Valid() {
		fresh, err := s.provider.Refresh(r.Context(), token)
		if err != nil {
			clearValues(session)
			return nil, session, err
		}
		storeToken(session, fresh)
	}

	verifiedAt, _ := session.Values[keyVerifiedAt].(int64)
	if s.now().Sub(time.Unix(verifiedAt, 0)) >= s.verifyInterval {
		user, err := s.provider.UserInfo(r.Context(), token)
		if err != nil {
			clearValues(session)
			return nil, session, fmt.Errorf("token was not accepted by the provider: %w", err)
		}
		if user.ID != userID {
			clearValues(session)
			return nil, session, fmt.Errorf("provider returned user %s for session of %s", user.ID, userID)
		}
		session.Values[keyEmail] = user.Email
		session.Values[keyVerifiedAt] = s.now().Unix()
	}

	email, _ := session.Values[keyEmail].(string)
	return &model.User{ID: userID, Email: email}, session, nil
}

// Start begins the sign-in flow. It remembers a random state in a short-lived cookie and returns
// the provider URL to redirect to.
func (s *Sessions) Start(w http.ResponseWriter, r *http.Request) (string, error) {
	state, err := generateState()
	if err != nil {
		return "", err
	}
	session, _ := s.store.Get(r, stateName)
	session.Values[keyState] = state
	session.Options.MaxAge = stateMaxAge
	if err := session.Save(r, w); err != nil {
		return "", fmt.Errorf("failed to save OAuth state: %w", err)
	}
	return s.provider.AuthCodeURL(state), nil
}

// Finish completes the sign-in flow for the callback request r. It checks the state, exchanges
// the code and fetches the identity. No session cookie is written yet; see Establish.
func (s *Sessions) Finish(w http.ResponseWriter, r *http.Request) (*Grant, error) {
	stateSession, _ := s.store.Get(r, stateName)
	expected, _ := stateSession.Values[keyState].(string)
	stateSession.Options.MaxAge = -1
	_ = stateSession.Save(r, w)

	state := r.URL.Query().Get("state")
	if expected == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(state)) != 1 {
		return nil, ErrInvalidState
	}
	code := r.URL.Query().Get("code")
	if code == "" {
		return nil, errors.New("callback carries no authorization code")
	}

	token, err := s.provider.Exchange(r.Context(), code)
	if err != nil {
		return nil, err
	}
	user, err := s.provider.UserInfo(r.Context(), token)
	if err != nil {
		return nil, err
	}
	return &Grant{User: user, token: token}, nil
}

// Establish stores the identity of grant in the session cookie.
func (s *Sessions) Establish(w http.ResponseWriter, r *http.Request, grant *Grant) error {
	session, _ := s.store.Get(r, SessionName)
	clearValues(session)
	session.Values[keyUserID] = grant.User.ID
	session.Values[keyEmail] = grant.User.Email
	session.Values[keyVerifiedAt] = s.now().Unix()
	storeToken(session, grant.token)
	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Clear signs the user out by expiring the session cookie.
func (s *Sessions) Clear(w http.ResponseWriter, r *http.Request) error {
	session, _ := s.store.Get(r, SessionName)
	clearValues(session)
	session.Options.MaxAge = -1
	return session.Save(r, w)
}

func tokenFromSession(session *sessions.Session) *oauth2.Token {
	token := &oauth2.Token{TokenType: "Bearer"}
	token.AccessToken, _ = session.Values[keyAccessToken].(string)
	token.RefreshToken, _ = session.Values[keyRefreshToken].(string)
	if expiry, ok := session.Values[keyExpiry].(int64); ok && expiry > 0 {
		token.Expiry = time.Unix(expiry, 0)
	}
	return token
}

func storeToken(session *sessions.Session, token *oauth2.Token) {
	session.Values[keyAccessToken] = token.AccessToken
	if token.RefreshToken != "" {
		session.Values[keyRefreshToken] = token.RefreshToken
	}
	var expiry int64
	if !token.Expiry.IsZero() {
		expiry = token.Expiry.Unix()
	}
	session.Values[keyExpiry] = expiry
}

func clearValues(session *sessions.Session) {
	for key := range session.Values {
		delete(session.Values, key)
	}
}

// generateState returns a random value for OAuth CSRF protection.
func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
