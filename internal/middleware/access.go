// Package middleware holds the gin middleware of the service: access control, request logging
// and metrics.
package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"

	"gitlab.com/dirk.krummacker/personal-crm/internal/auth"
	"gitlab.com/dirk.krummacker/personal-crm/internal/model"
)

// SignInPath is where anonymous navigation is sent.
const SignInPath = "/signin"

// publicPaths are reachable without a session. Entries ending in a slash match the whole subtree.
var publicPaths = []string{
	SignInPath,
	"/auth/",
	"/static/",
	"/favicon.ico",
	"/robots.txt",
	"/healthz",
	"/metrics",
}

// SessionResolver resolves the user of a request. It is implemented by *auth.Sessions.
type SessionResolver interface {
	Resolve(r *http.Request) (*model.User, *sessions.Session, error)
}

// AccessControl makes sure every non-public request comes from a signed-in user. Anonymous
// requests are redirected to the sign-in page and go no further. For signed-in users the session
// cookie is written again, carrying any refreshed token and a renewed expiry, and the user is put
// into the request context.
//
// Anonymous requests whose cookie did not resolve, for instance because the provider rejected the
// token, also get that cookie expired.
//
// Prefetch requests are not redirected and do not rewrite the cookie; they are forwarded with
// whatever identity the cookie carries.
func AccessControl(resolver SessionResolver, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if isPublic(c.Request.URL.Path) {
			c.Next()
			return
		}

		user, session, err := resolver.Resolve(c.Request)
		if err != nil {
			logger.Debug("session did not resolve", slog.String("error", err.Error()))
		}

		if isPrefetch(c.Request) {
			if user != nil {
				c.Request = c.Request.WithContext(auth.WithUser(c.Request.Context(), user))
			}
			c.Next()
			return
		}

		if user == nil {
			// A cookie that did not resolve is expired so that it is not tried again.
			if err != nil && session != nil {
				expire(c, session, logger)
			}
			redirectToSignIn(c)
			return
		}

		if err := session.Save(c.Request, c.Writer); err != nil {
			logger.Error("failed to refresh session cookie", slog.String("error", err.Error()))
		}
		c.Request = c.Request.WithContext(auth.WithUser(c.Request.Context(), user))
		c.Next()
	}
}

func expire(c *gin.Context, session *sessions.Session, logger *slog.Logger) {
	if session.Options == nil {
		session.Options = &sessions.Options{Path: "/"}
	}
	session.Options.MaxAge = -1
	if err := session.Save(c.Request, c.Writer); err != nil {
		logger.Error("failed to expire session cookie", slog.String("error", err.Error()))
	}
}

func redirectToSignIn(c *gin.Context) {
	if c.GetHeader("HX-Request") == "true" {
		c.Header("HX-Redirect", SignInPath)
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	c.Redirect(http.StatusSeeOther, SignInPath)
	c.Abort()
}

func isPublic(path string) bool {
	for _, p := range publicPaths {
		if strings.HasSuffix(p, "/") {
			if strings.HasPrefix(path, p) {
				return true
			}
		} else if path == p {
			return true
		}
	}
	return false
}

func isPrefetch(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Purpose"), "prefetch") ||
		strings.Contains(strings.ToLower(r.Header.Get("Sec-Purpose")), "prefetch") ||
		r.Header.Get("Next-Router-Prefetch") != ""
}
