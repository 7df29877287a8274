// Package store implements the data access for every entity of the CRM. All functions follow the
// same rules: reads made without a signed-in user return nothing instead of failing, mutations
// validate their input before anything else, then require a signed-in user, and only then touch
// the database. Rows of other users are invisible: looking them up yields nil and updating or
// deleting them affects nothing.
package store

import (
	"time"

	"gitlab.com/dirk.krummacker/personal-crm/internal/database"
	"gitlab.com/dirk.krummacker/personal-crm/internal/validation"
)

// Store bundles the data access of all entities.
type Store struct {
	Contacts *Contacts
	Circles  *Circles
	Events   *Events
	Settings *Settings
	Users    *Users
	Stats    *Stats
}

// New wires all entity stores to db.
func New(db *database.Factory, v *validation.Validator) *Store {
	return newStore(db, v, time.Now)
}

func newStore(db *database.Factory, v *validation.Validator, now func() time.Time) *Store {
	b := base{db: db, validator: v, now: now}
	s := &Store{
		Contacts: &Contacts{base: b},
		Circles:  &Circles{base: b},
		Events:   &Events{base: b},
		Settings: &Settings{base: b},
		Users:    &Users{base: b},
	}
	s.Stats = &Stats{base: b, settings: s.Settings, users: s.Users, contacts: s.Contacts, circles: s.Circles}
	return s
}

// base holds what every entity store needs.
type base struct {
	db        *database.Factory
	validator *validation.Validator
	now       func() time.Time
}

// timestamp returns the current time at the precision the database stores.
func (b base) timestamp() time.Time {
	return b.now().UTC().Truncate(time.Microsecond)
}
