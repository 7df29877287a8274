// Package search filters contact lists that have already been fetched.
package search

import (
	"strings"

	"gitlab.com/dirk.krummacker/personal-crm/internal/model"
)

// Contacts returns the contacts whose name, reason or one of whose circle names contains query,
// ignoring case. A blank query returns contacts itself. The input is never modified and the order
// is kept.
func Contacts(contacts []model.ContactView, query string) []model.ContactView {
	query = strings.TrimSpace(query)
	if query == "" {
		return contacts
	}
	needle := strings.ToLower(query)

	matches := make([]model.ContactView, 0, len(contacts))
	for _, c := range contacts {
		if matchesContact(c, needle) {
			matches = append(matches, c)
		}
	}
	return matches
}

func matchesContact(c model.ContactView, needle string) bool {
	if strings.Contains(strings.ToLower(c.Name), needle) || strings.Contains(strings.ToLower(c.Reason), needle) {
		return true
	}
	for _, circle := range c.Circles {
		if strings.Contains(strings.ToLower(circle.Name), needle) {
			return true
		}
	}
	return false
}
