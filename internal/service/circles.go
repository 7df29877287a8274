package service

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gitlab.com/dirk.krummacker/personal-crm/internal/middleware"
	pkgmodel "gitlab.com/dirk.krummacker/personal-crm/pkg/model"
)

// getCircles responds with the signed-in user's circles, each with its number of contacts.
//
// Example REST API call:
//
//	> curl --cookie "crm_session=..." http://localhost:8080/circles
func (s *Service) getCircles(c *gin.Context) {
	circles, err := s.store.Circles.List(c.Request.Context())
	s.logReadError(c, err)
	c.IndentedJSON(http.StatusOK, circles)
}

// createCircle inserts the circle specified in the request's JSON. Circle names are unique per
// user; a second circle with the same name is answered with CONFLICT.
//
// Example REST API call:
//
//	> curl http://localhost:8080/circles --request "POST" --include --cookie "crm_session=..." --header "Content-Type: application/json" --data '{"name": "Friends", "color": "#33cc66", "icon": "heart"}'
func (s *Service) createCircle(c *gin.Context) {
	var in pkgmodel.CreateCircleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid JSON"})
		return
	}
	circle, err := s.store.Circles.Create(c.Request.Context(), &in)
	if err != nil {
		s.respondError(c, err)
		return
	}
	middleware.RecordMutation("circle", "create")
	s.respondMutation(c, http.StatusCreated, circle)
}

// getCircleByID responds with the circle whose id matches the id parameter of the request URL.
//
// Example REST API call:
//
//	> curl --cookie "crm_session=..." http://localhost:8080/circles/0b6a1c3e-7a55-4d8e-b2a4-3f1e0c9d0c01
func (s *Service) getCircleByID(c *gin.Context) {
	circle, err := s.store.Circles.ByID(c.Request.Context(), c.Param("id"))
	s.logReadError(c, err)
	if circle == nil {
		c.IndentedJSON(http.StatusNotFound, gin.H{"message": "circle not found"})
		return
	}
	c.IndentedJSON(http.StatusOK, circle)
}

// getContactsInCircle responds with the contacts that belong to the circle whose id matches the
// id parameter of the request URL. An unknown circle has no contacts.
//
// Example REST API call:
//
//	> curl --cookie "crm_session=..." http://localhost:8080/circles/0b6a1c3e-7a55-4d8e-b2a4-3f1e0c9d0c01/contacts
func (s *Service) getContactsInCircle(c *gin.Context) {
	contacts, err := s.store.Contacts.InCircle(c.Request.Context(), c.Param("id"))
	s.logReadError(c, err)
	c.IndentedJSON(http.StatusOK, contacts)
}

// updateCircle overwrites the circle whose id matches the id parameter of the request URL.
//
// Example REST API call:
//
//	> curl http://localhost:8080/circles/0b6a1c3e-7a55-4d8e-b2a4-3f1e0c9d0c01 --request "PUT" --include --cookie "crm_session=..." --header "Content-Type: application/json" --data '{"name": "Old friends", "favorite": true}'
func (s *Service) updateCircle(c *gin.Context) {
	var in pkgmodel.UpdateCircleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid JSON"})
		return
	}
	in.ID = c.Param("id")
	circle, err := s.store.Circles.Update(c.Request.Context(), &in)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if circle == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "circle not found"})
		return
	}
	middleware.RecordMutation("circle", "update")
	s.respondMutation(c, http.StatusOK, circle)
}

// deleteCircle deletes the circle whose id matches the id parameter of the request URL. The
// contacts in it are kept.
//
// Example REST API call:
//
//	> curl http://localhost:8080/circles/0b6a1c3e-7a55-4d8e-b2a4-3f1e0c9d0c01 --request "DELETE" --cookie "crm_session=..."
func (s *Service) deleteCircle(c *gin.Context) {
	deleted, err := s.store.Circles.Delete(c.Request.Context(), &pkgmodel.DeleteCircleInput{ID: c.Param("id")})
	if err != nil {
		s.respondError(c, err)
		return
	}
	if !deleted {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "circle not found"})
		return
	}
	middleware.RecordMutation("circle", "delete")
	s.respondMutation(c, http.StatusOK, gin.H{"message": "circle deleted"})
}
