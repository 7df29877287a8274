package model

import "time"

// User is the identity established by the OAuth provider. The id is the provider's subject.
type User struct {
	ID        string    `json:"id"         db:"id"`
	Email     string    `json:"email"      db:"email"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Contact is a person that a user keeps track of.
type Contact struct {
	ID          string    `json:"id"           db:"id"`
	UserID      string    `json:"-"            db:"user_id"`
	Name        string    `json:"name"         db:"name"`
	ProfileLink string    `json:"profile_link" db:"profile_link"`
	Reason      string    `json:"reason"       db:"reason"`
	Favorite    bool      `json:"favorite"     db:"favorite"`
	CreatedAt   time.Time `json:"created_at"   db:"created_at"`
}

// CircleRef is the part of a circle that is shown next to a contact.
type CircleRef struct {
	ID    string  `json:"id"              db:"id"`
	Name  string  `json:"name"            db:"name"`
	Color *string `json:"color,omitempty" db:"color"`
}

// ContactView is a contact together with the circles it belongs to.
type ContactView struct {
	Contact
	Circles []CircleRef `json:"circles"`
}

// Circle is a user-defined group of contacts.
type Circle struct {
	ID          string    `json:"id"                    db:"id"`
	UserID      string    `json:"-"                     db:"user_id"`
	Name        string    `json:"name"                  db:"name"`
	Color       *string   `json:"color,omitempty"       db:"color"`
	Description *string   `json:"description,omitempty" db:"description"`
	Icon        *string   `json:"icon,omitempty"        db:"icon"`
	Favorite    bool      `json:"favorite"              db:"favorite"`
	CreatedAt   time.Time `json:"created_at"            db:"created_at"`
}

// CircleView is a circle together with the number of contacts linked to it.
type CircleView struct {
	Circle
	ContactCount int `json:"contact_count"`
}

// ContactCircle links one contact to one circle of the same owner.
type ContactCircle struct {
	ContactID string `db:"contact_id"`
	CircleID  string `db:"circle_id"`
}

// Event is a curated calendar entry visible to every user.
type Event struct {
	ID          string    `json:"id"                    db:"id"`
	Title       string    `json:"title"                 db:"title"`
	Description *string   `json:"description,omitempty" db:"description"`
	Location    *string   `json:"location,omitempty"    db:"location"`
	URL         *string   `json:"url,omitempty"         db:"url"`
	StartsAt    time.Time `json:"starts_at"             db:"starts_at"`
}

// EventFilter selects the upcoming or the past partition of the events.
type EventFilter string

const (
	EventsUpcoming EventFilter = "upcoming"
	EventsPast     EventFilter = "past"
)

// Settings are the per-user settings. IsAdmin is maintained outside of the service.
type Settings struct {
	UserID     string  `json:"-"                      db:"user_id"`
	QRCodeLink *string `json:"qr_code_link,omitempty" db:"qr_code_link"`
	IsAdmin    bool    `json:"is_admin"               db:"is_admin"`
}

// Stats is the administrative usage summary.
type Stats struct {
	UsersCount    int `json:"users_count"`
	ContactsCount int `json:"contacts_count"`
	CirclesCount  int `json:"circles_count"`
}
