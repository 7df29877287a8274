package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"gitlab.com/dirk.krummacker/personal-crm/internal/auth"
	"gitlab.com/dirk.krummacker/personal-crm/internal/database"
	"gitlab.com/dirk.krummacker/personal-crm/internal/model"
	"gitlab.com/dirk.krummacker/personal-crm/internal/validation"
)

// Statements as the store sends them. They are matched literally, so every expectation also
// asserts which owner predicate was used.
const (
	selectContacts      = "SELECT id, user_id, name, profile_link, reason, favorite, created_at FROM contacts WHERE user_id = ?"
	selectLinks         = "SELECT contact_id, circle_id FROM contacts_circles WHERE user_id = ?"
	selectCircleRefs    = "SELECT id, name, color FROM circles WHERE user_id = ? AND id IN (?) ORDER BY name"
	selectCircles       = "SELECT id, user_id, name, color, description, icon, favorite, created_at FROM circles WHERE user_id = ?"
	selectSettings      = "SELECT user_id, qr_code_link, is_admin FROM settings WHERE user_id = ?"
	insertContact       = "INSERT INTO contacts (user_id, id, name, profile_link, reason, favorite, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)"
	insertLink          = "INSERT INTO contacts_circles (user_id, contact_id, circle_id, created_at) VALUES (?, ?, ?, ?)"
	insertCircle        = "INSERT INTO circles (user_id, id, name, color, description, icon, favorite, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)"
	updateContact       = "UPDATE contacts SET name = ?, profile_link = ?, reason = ?, favorite = ? WHERE user_id = ? AND id = ?"
	updateCircle        = "UPDATE circles SET name = ?, color = ?, description = ?, icon = ?, favorite = ? WHERE user_id = ? AND id = ?"
	deleteContact       = "DELETE FROM contacts WHERE user_id = ? AND id = ?"
	deleteCircle        = "DELETE FROM circles WHERE user_id = ? AND id = ?"
	tallyCircleContacts = "SELECT circle_id AS k, COUNT(*) AS n FROM contacts_circles WHERE user_id = ? GROUP BY circle_id"
)

// Ids used throughout the tests.
const (
	contactID = "6f1c2a1e-8f0b-4c39-9a53-4f1a9cf7c001"
	circle1   = "0b6a1c3e-7a55-4d8e-b2a4-3f1e0c9d0c01"
	circle2   = "0b6a1c3e-7a55-4d8e-b2a4-3f1e0c9d0c02"
)

// now is the fixed clock of the tests.
var now = time.Date(2024, time.May, 17, 14, 30, 0, 0, time.UTC)

var contactRowColumns = []string{"id", "user_id", "name", "profile_link", "reason", "favorite", "created_at"}

var circleRowColumns = []string{"id", "user_id", "name", "color", "description", "icon", "favorite", "created_at"}

// createMockObjects builds a store on top of two mock databases, one per database identity.
func createMockObjects(t *testing.T) (*Store, sqlmock.Sqlmock, sqlmock.Sqlmock) {
	sessionDB, sessionMock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	privilegedDB, privilegedMock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() {
		sessionDB.Close()
		privilegedDB.Close()
	})
	factory := database.NewFactory(sqlx.NewDb(sessionDB, "mysql"), sqlx.NewDb(privilegedDB, "mysql"))
	return newStore(factory, validation.New(), func() time.Time { return now }), sessionMock, privilegedMock
}

func signedIn(userID string) context.Context {
	return auth.WithUser(context.Background(), &model.User{ID: userID, Email: userID + "@example.com"})
}

func strPtr(s string) *string { return &s }

// expectExpectationsMet fails the test if a statement was expected but not sent, or sent but not
// expected.
func expectExpectationsMet(t *testing.T, mocks ...sqlmock.Sqlmock) {
	t.Helper()
	for _, mock := range mocks {
		require.NoError(t, mock.ExpectationsWereMet())
	}
}
