package service

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gitlab.com/dirk.krummacker/personal-crm/internal/middleware"
	"gitlab.com/dirk.krummacker/personal-crm/internal/model"
	pkgmodel "gitlab.com/dirk.krummacker/personal-crm/pkg/model"
)

// getEvents responds with the shared events. The URL parameter 'filter' is either 'upcoming'
// (the default, soonest first) or 'past' (latest first); events of today are upcoming.
//
// REST API calls:
//
//	> curl --cookie "crm_session=..." "http://localhost:8080/events"
//	> curl --cookie "crm_session=..." "http://localhost:8080/events?filter=past"
func (s *Service) getEvents(c *gin.Context) {
	filter := model.EventFilter(c.DefaultQuery("filter", string(model.EventsUpcoming)))
	if filter != model.EventsUpcoming && filter != model.EventsPast {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid filter parameter"})
		return
	}
	events, err := s.store.Events.List(c.Request.Context(), filter)
	s.logReadError(c, err)
	c.IndentedJSON(http.StatusOK, events)
}

// getSettings responds with the signed-in user's settings. A user without stored settings gets
// the defaults.
//
// Example REST API call:
//
//	> curl --cookie "crm_session=..." http://localhost:8080/settings
func (s *Service) getSettings(c *gin.Context) {
	settings, err := s.store.Settings.Get(c.Request.Context())
	s.logReadError(c, err)
	if settings == nil {
		settings = &model.Settings{}
	}
	c.IndentedJSON(http.StatusOK, settings)
}

// updateSettings stores the QR code link of the signed-in user. Sending no link clears it.
//
// Example REST API call:
//
//	> curl http://localhost:8080/settings --request "PUT" --include --cookie "crm_session=..." --header "Content-Type: application/json" --data '{"qr_code_link": "https://example.com/me"}'
func (s *Service) updateSettings(c *gin.Context) {
	var in pkgmodel.UpdateSettingsInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid JSON"})
		return
	}
	settings, err := s.store.Settings.Update(c.Request.Context(), &in)
	if err != nil {
		s.respondError(c, err)
		return
	}
	middleware.RecordMutation("settings", "update")
	s.respondMutation(c, http.StatusOK, settings)
}

// getStats responds with the numbers of users, contacts and circles. Only administrators may see
// them.
//
// Example REST API call:
//
//	> curl --cookie "crm_session=..." http://localhost:8080/admin/stats
func (s *Service) getStats(c *gin.Context) {
	stats, err := s.store.Stats.Get(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, stats)
}
