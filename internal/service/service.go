// Package service exposes the CRM over HTTP. Reads and mutations are JSON endpoints; the sign-in
// flow and the operational endpoints live next to them on the same gin engine.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gitlab.com/dirk.krummacker/personal-crm/internal/apperrors"
	"gitlab.com/dirk.krummacker/personal-crm/internal/auth"
	"gitlab.com/dirk.krummacker/personal-crm/internal/middleware"
	"gitlab.com/dirk.krummacker/personal-crm/internal/revalidate"
	"gitlab.com/dirk.krummacker/personal-crm/internal/store"
)

// SessionManager runs the sign-in flow and resolves the user of a request. It is implemented by
// *auth.Sessions.
type SessionManager interface {
	middleware.SessionResolver
	Start(w http.ResponseWriter, r *http.Request) (string, error)
	Finish(w http.ResponseWriter, r *http.Request) (*auth.Grant, error)
	Establish(w http.ResponseWriter, r *http.Request, grant *auth.Grant) error
	Clear(w http.ResponseWriter, r *http.Request) error
}

// Pinger checks that the database is reachable. It is implemented by *database.Factory.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Service holds the dependencies of the HTTP handlers.
type Service struct {
	store    *store.Store
	sessions SessionManager
	pinger   Pinger
	logger   *slog.Logger
}

// New creates the service.
func New(st *store.Store, sessions SessionManager, pinger Pinger, logger *slog.Logger) *Service {
	return &Service{store: st, sessions: sessions, pinger: pinger, logger: logger}
}

// SetupHttpRouter initializes the REST API router and registers all endpoints. Every request
// passes the access control; the sign-in flow, static assets and the operational endpoints are
// on its allow-list.
func SetupHttpRouter(s *Service, requestLogging bool) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if requestLogging {
		router.Use(middleware.Logging(s.logger))
	}
	router.Use(middleware.Metrics())
	router.Use(middleware.AccessControl(s.sessions, s.logger))
	router.Use(collectRevalidation)

	router.GET("/healthz", s.health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/signin", s.signIn)
	router.GET("/auth/callback", s.authCallback)
	router.POST("/auth/signout", s.signOut)

	router.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/contacts") })
	router.GET("/contacts", s.getContacts)
	router.POST("/contacts", s.createContact)
	router.GET("/contacts/:id", s.getContactByID)
	router.PUT("/contacts/:id", s.updateContact)
	router.DELETE("/contacts/:id", s.deleteContact)

	router.GET("/circles", s.getCircles)
	router.POST("/circles", s.createCircle)
	router.GET("/circles/:id", s.getCircleByID)
	router.PUT("/circles/:id", s.updateCircle)
	router.DELETE("/circles/:id", s.deleteCircle)
	router.GET("/circles/:id/contacts", s.getContactsInCircle)

	router.GET("/events", s.getEvents)
	router.GET("/settings", s.getSettings)
	router.PUT("/settings", s.updateSettings)
	router.GET("/admin/stats", s.getStats)
	return router
}

// collectRevalidation gives every request a collector for the views its mutations invalidate.
func collectRevalidation(c *gin.Context) {
	c.Request = c.Request.WithContext(revalidate.WithCollector(c.Request.Context()))
	c.Next()
}

// health responds with the liveness of the service and its database.
//
// Example REST API call:
//
//	> curl http://localhost:8080/healthz
func (s *Service) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := s.pinger.Ping(ctx); err != nil {
		s.logger.Warn("health check failed", slog.String("error", err.Error()))
		c.IndentedJSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"status": "ok"})
}

// respondMutation writes the result of a successful mutation. The views it invalidated are
// announced in an HX-Trigger header.
func (s *Service) respondMutation(c *gin.Context, status int, body any) {
	if paths := revalidate.Paths(c.Request.Context()); len(paths) > 0 {
		trigger, err := json.Marshal(map[string][]string{"revalidate": paths})
		if err == nil {
			c.Header("HX-Trigger", string(trigger))
		}
	}
	c.IndentedJSON(status, body)
}

// respondError maps an error of a mutation or of the stats onto a status code. Store failures are
// logged with their full message but not shown.
func (s *Service) respondError(c *gin.Context, err error) {
	var validationErr *apperrors.ValidationError
	var authErr *apperrors.AuthenticationError
	switch {
	case errors.As(err, &validationErr):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"code":    "validation_failed",
			"field":   validationErr.Field,
			"rule":    validationErr.Rule,
			"message": validationErr.Error(),
		})
	case errors.As(err, &authErr):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": authErr.Message})
	case errors.Is(err, apperrors.ErrForbidden):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "forbidden"})
	case apperrors.IsDuplicate(err):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"message": "already exists"})
	default:
		s.logger.Error("request failed",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.String("error", err.Error()),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
	}
}

// logReadError records a failed read. The caller still answers with an empty result.
func (s *Service) logReadError(c *gin.Context, err error) {
	if err != nil {
		s.logger.Error("read failed",
			slog.String("path", c.Request.URL.Path),
			slog.String("error", err.Error()),
		)
	}
}
