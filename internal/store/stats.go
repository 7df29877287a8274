package store

import (
	"context"

	"golang.org/x/sync/errgroup"

	"gitlab.com/dirk.krummacker/personal-crm/internal/apperrors"
	"gitlab.com/dirk.krummacker/personal-crm/internal/auth"
	"gitlab.com/dirk.krummacker/personal-crm/internal/database"
	"gitlab.com/dirk.krummacker/personal-crm/internal/model"
)

// Stats computes the usage summary shown to administrators.
type Stats struct {
	base
	settings *Settings
	users    *Users
	contacts *Contacts
	circles  *Circles
}

// Get returns the total numbers of users, contacts and circles. It fails with an
// AuthenticationError for anonymous callers and with ErrForbidden for users without the admin
// flag. The three counts are taken independently, not as one snapshot.
func (s *Stats) Get(ctx context.Context) (*model.Stats, error) {
	if auth.CurrentUser(ctx) == nil {
		return nil, apperrors.ErrAuthentication
	}
	admin, err := s.settings.IsAdmin(ctx)
	if err != nil {
		return nil, err
	}
	if !admin {
		return nil, apperrors.ErrForbidden
	}

	p := s.db.Privileged()
	var stats model.Stats
	g, gctx := errgroup.WithContext(ctx)
	count := func(dest *int, countAll func(context.Context, *database.PrivilegedHandle) (int, error)) {
		g.Go(func() error {
			n, err := countAll(gctx, p)
			*dest = n
			return err
		})
	}
	count(&stats.UsersCount, s.users.CountAll)
	count(&stats.ContactsCount, s.contacts.CountAll)
	count(&stats.CirclesCount, s.circles.CountAll)
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}
