package service

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"gitlab.com/dirk.krummacker/personal-crm/internal/auth"
	"gitlab.com/dirk.krummacker/personal-crm/internal/middleware"
)

// signIn starts the OAuth flow by redirecting to the identity provider.
//
// Example REST API call:
//
//	> curl --include http://localhost:8080/signin
func (s *Service) signIn(c *gin.Context) {
	url, err := s.sessions.Start(c.Writer, c.Request)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.Redirect(http.StatusFound, url)
}

// authCallback completes the OAuth flow. The user is recorded first and only then gets the session
// cookie, so a failed sign-in never leaves a session behind. The browser is sent to the contacts.
func (s *Service) authCallback(c *gin.Context) {
	if reason := c.Query("error"); reason != "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "sign-in was cancelled: " + reason})
		return
	}
	grant, err := s.sessions.Finish(c.Writer, c.Request)
	if err != nil {
		s.logger.Warn("sign-in failed", slog.String("error", err.Error()))
		message := "sign-in failed"
		if errors.Is(err, auth.ErrInvalidState) {
			message = "sign-in expired, please try again"
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": message})
		return
	}
	ctx := auth.WithUser(c.Request.Context(), grant.User)
	if err := s.store.Users.Upsert(ctx, grant.User.Email); err != nil {
		s.respondError(c, err)
		return
	}
	if err := s.sessions.Establish(c.Writer, c.Request, grant); err != nil {
		s.respondError(c, err)
		return
	}
	s.logger.Info("user signed in", slog.String("user_id", grant.User.ID))
	c.Redirect(http.StatusFound, "/")
}

// signOut clears the session and sends the browser to the sign-in page.
//
// Example REST API call:
//
//	> curl --request "POST" --include --cookie "crm_session=..." http://localhost:8080/auth/signout
func (s *Service) signOut(c *gin.Context) {
	if err := s.sessions.Clear(c.Writer, c.Request); err != nil {
		s.logger.Warn("failed to clear session", slog.String("error", err.Error()))
	}
	c.Redirect(http.StatusSeeOther, middleware.SignInPath)
}
