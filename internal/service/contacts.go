package service

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gitlab.com/dirk.krummacker/personal-crm/internal/middleware"
	"gitlab.com/dirk.krummacker/personal-crm/internal/search"
	pkgmodel "gitlab.com/dirk.krummacker/personal-crm/pkg/model"
)

// getContacts responds with the signed-in user's contacts as JSON, newest first, each with its
// circles.
//
// The URL parameter 'q' narrows the list to contacts whose name, reason or one of whose circle
// names contains the value, ignoring case.
//
// REST API calls:
//
//	> curl --cookie "crm_session=..." "http://localhost:8080/contacts"
//	> curl --cookie "crm_session=..." "http://localhost:8080/contacts?q=gopher"
func (s *Service) getContacts(c *gin.Context) {
	contacts, err := s.store.Contacts.List(c.Request.Context())
	s.logReadError(c, err)
	c.IndentedJSON(http.StatusOK, search.Contacts(contacts, c.Query("q")))
}

// createContact inserts the contact specified in the request's JSON. It responds with the full
// contact including the newly assigned id and its circles.
//
// Example REST API call:
//
//	> curl http://localhost:8080/contacts --request "POST" --include --cookie "crm_session=..." --header "Content-Type: application/json" --data '{"name": "Jane Doe", "profile_link": "https://x.com/jane", "reason": "met at GopherCon", "circle_ids": ["0b6a1c3e-7a55-4d8e-b2a4-3f1e0c9d0c01"]}'
func (s *Service) createContact(c *gin.Context) {
	var in pkgmodel.CreateContactInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid JSON"})
		return
	}
	contact, err := s.store.Contacts.Create(c.Request.Context(), &in)
	if err != nil {
		s.respondError(c, err)
		return
	}
	middleware.RecordMutation("contact", "create")
	s.respondMutation(c, http.StatusCreated, contact)
}

// getContactByID responds with the contact whose id matches the id parameter of the request URL.
// Contacts of other users are not found.
//
// Example REST API call:
//
//	> curl --cookie "crm_session=..." http://localhost:8080/contacts/6f1c2a1e-8f0b-4c39-9a53-4f1a9cf7c001
func (s *Service) getContactByID(c *gin.Context) {
	contact, err := s.store.Contacts.ByID(c.Request.Context(), c.Param("id"))
	s.logReadError(c, err)
	if contact == nil {
		c.IndentedJSON(http.StatusNotFound, gin.H{"message": "contact not found"})
		return
	}
	c.IndentedJSON(http.StatusOK, contact)
}

// updateContact overwrites the contact whose id matches the id parameter of the request URL and
// responds with the new version. If 'circle_ids' is part of the JSON the contact's circles are
// replaced by exactly those; if it is missing they stay as they are.
//
// Example REST API call:
//
//	> curl http://localhost:8080/contacts/6f1c2a1e-8f0b-4c39-9a53-4f1a9cf7c001 --request "PUT" --include --cookie "crm_session=..." --header "Content-Type: application/json" --data '{"name": "Jane Doe", "profile_link": "https://x.com/jane", "reason": "colleague", "favorite": true, "circle_ids": []}'
func (s *Service) updateContact(c *gin.Context) {
	var in pkgmodel.UpdateContactInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid JSON"})
		return
	}
	in.ID = c.Param("id")
	contact, err := s.store.Contacts.Update(c.Request.Context(), &in)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if contact == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "contact not found"})
		return
	}
	middleware.RecordMutation("contact", "update")
	s.respondMutation(c, http.StatusOK, contact)
}

// deleteContact deletes the contact whose id matches the id parameter of the request URL.
//
// Example REST API call:
//
//	> curl http://localhost:8080/contacts/6f1c2a1e-8f0b-4c39-9a53-4f1a9cf7c001 --request "DELETE" --cookie "crm_session=..."
func (s *Service) deleteContact(c *gin.Context) {
	deleted, err := s.store.Contacts.Delete(c.Request.Context(), &pkgmodel.DeleteContactInput{ID: c.Param("id")})
	if err != nil {
		s.respondError(c, err)
		return
	}
	if !deleted {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "contact not found"})
		return
	}
	middleware.RecordMutation("contact", "delete")
	s.respondMutation(c, http.StatusOK, gin.H{"message": "contact deleted"})
}
