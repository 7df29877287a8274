package store

import (
	"context"

	"gitlab.com/dirk.krummacker/personal-crm/internal/apperrors"
	"gitlab.com/dirk.krummacker/personal-crm/internal/database"
)

// Users is the data access for signed-in identities.
type Users struct {
	base
}

// Upsert records the signed-in user on sign-in. An existing user only gets the email refreshed.
func (s *Users) Upsert(ctx context.Context, email string) error {
	h, ok := s.db.Session(ctx)
	if !ok {
		return apperrors.ErrAuthentication
	}
	return h.RecordUser(ctx, email, s.timestamp())
}

// CountAll returns the number of users.
func (s *Users) CountAll(ctx context.Context, p *database.PrivilegedHandle) (int, error) {
	return p.Count(ctx, database.TableUsers)
}
