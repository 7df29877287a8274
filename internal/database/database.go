// Package database opens the MySQL store and hands out the two kinds of handles the data-access
// layer works with: a session handle that is bound to the signed-in user and confines every
// statement to that user's rows, and a privileged handle for the few unrestricted aggregate
// queries.
package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"gitlab.com/dirk.krummacker/personal-crm/internal/apperrors"
	"gitlab.com/dirk.krummacker/personal-crm/internal/auth"
	"gitlab.com/dirk.krummacker/personal-crm/internal/config"
)

// Factory produces database handles. It owns two connection pools, one per database identity.
type Factory struct {
	session    *sqlx.DB
	privileged *sqlx.DB
}

// DSN returns the driver data source name for the given identity. Times are parsed into UTC and
// UPDATE reports matched rather than changed rows, so that an update that writes identical values
// still counts as a hit.
func DSN(cfg config.DatabaseConfig, user, password string) string {
	c := mysql.NewConfig()
	c.User = user
	c.Passwd = password
	c.Net = "tcp"
	c.Addr = cfg.Host
	c.DBName = cfg.Name
	c.ParseTime = true
	c.ClientFoundRows = true
	c.Loc = time.UTC
	return c.FormatDSN()
}

// Open connects both pools. It fails with a ConfigurationError if the host or one of the two
// identities is not configured.
func Open(cfg config.DatabaseConfig) (*Factory, error) {
	required := []struct {
		key   string
		value string
	}{
		{"database.host", cfg.Host},
		{"database.user", cfg.User},
		{"database.service_user", cfg.ServiceUser},
	}
	for _, r := range required {
		if r.value == "" {
			return nil, &apperrors.ConfigurationError{Key: r.key}
		}
	}

	session, err := connect(cfg, cfg.User, cfg.Password)
	if err != nil {
		return nil, err
	}
	privileged, err := connect(cfg, cfg.ServiceUser, cfg.ServicePassword)
	if err != nil {
		session.Close()
		return nil, err
	}
	return NewFactory(session, privileged), nil
}

func connect(cfg config.DatabaseConfig, user, password string) (*sqlx.DB, error) {
	db, err := sqlx.Open("mysql", DSN(cfg, user, password))
	if err != nil {
		return nil, fmt.Errorf("failed to open database as %s: %w", user, err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// NewFactory wraps two existing pools. The unit tests pass sqlmock databases here.
func NewFactory(session, privileged *sqlx.DB) *Factory {
	return &Factory{session: session, privileged: privileged}
}

// Session returns a handle bound to the user of ctx. The second result is false for an anonymous
// context.
func (f *Factory) Session(ctx context.Context) (*SessionHandle, bool) {
	user := auth.CurrentUser(ctx)
	if user == nil || user.ID == "" {
		return nil, false
	}
	return &SessionHandle{db: f.session, q: f.session, userID: user.ID}, true
}

// Privileged returns the unrestricted handle.
func (f *Factory) Privileged() *PrivilegedHandle {
	return &PrivilegedHandle{db: f.privileged}
}

// Ping checks that both pools can reach the server.
func (f *Factory) Ping(ctx context.Context) error {
	if err := f.session.PingContext(ctx); err != nil {
		return apperrors.NewStoreError("ping", err)
	}
	return apperrors.NewStoreError("ping", f.privileged.PingContext(ctx))
}

// Close closes both pools.
func (f *Factory) Close() error {
	return errors.Join(f.session.Close(), f.privileged.Close())
}
