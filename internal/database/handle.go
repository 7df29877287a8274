package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"gitlab.com/dirk.krummacker/personal-crm/internal/apperrors"
)

// SessionHandle runs statements on behalf of one user. Every statement on an owned table is
// restricted to user_id = the handle's user, and inserts stamp that user id; callers cannot
// widen the scope.
type SessionHandle struct {
	db     *sqlx.DB
	q      sqlx.ExtContext
	userID string
}

// UserID returns the id of the user the handle is bound to.
func (h *SessionHandle) UserID() string {
	return h.userID
}

func (h *SessionHandle) owned(conds []Cond) []Cond {
	return append([]Cond{Eq(ownerColumn, h.userID)}, conds...)
}

// Select fills dest with the owned rows matching q.
func (h *SessionHandle) Select(ctx context.Context, dest any, q Query) error {
	query, args := q.build(h.owned(q.Where))
	return apperrors.NewStoreError("select "+q.Table, sqlx.SelectContext(ctx, h.q, dest, query, args...))
}

// Get fills dest with the single owned row matching q. It returns apperrors.ErrNotFound if there is
// none.
func (h *SessionHandle) Get(ctx context.Context, dest any, q Query) error {
	query, args := q.build(h.owned(q.Where))
	err := sqlx.GetContext(ctx, h.q, dest, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	return apperrors.NewStoreError("get "+q.Table, err)
}

// SelectShared fills dest with rows of a table that is visible to every user.
func (h *SessionHandle) SelectShared(ctx context.Context, dest any, q Query) error {
	query, args := q.build(q.Where)
	return apperrors.NewStoreError("select "+q.Table, sqlx.SelectContext(ctx, h.q, dest, query, args...))
}

// Count returns the number of owned rows of table matching conds.
func (h *SessionHandle) Count(ctx context.Context, table string, conds ...Cond) (int, error) {
	var n int
	q := Query{Table: table, Columns: "COUNT(*)"}
	query, args := q.build(h.owned(conds))
	if err := sqlx.GetContext(ctx, h.q, &n, query, args...); err != nil {
		return 0, apperrors.NewStoreError("count "+table, err)
	}
	return n, nil
}

// Tally counts the owned rows of table per distinct value of column. Values without rows are
// missing from the result.
func (h *SessionHandle) Tally(ctx context.Context, table, column string, conds ...Cond) (map[string]int, error) {
	q := Query{Table: table, Columns: column + " AS k, COUNT(*) AS n"}
	query, args := q.build(h.owned(conds))
	query += " GROUP BY " + column

	var rows []struct {
		K string `db:"k"`
		N int    `db:"n"`
	}
	if err := sqlx.SelectContext(ctx, h.q, &rows, query, args...); err != nil {
		return nil, apperrors.NewStoreError("tally "+table, err)
	}
	tally := make(map[string]int, len(rows))
	for _, r := range rows {
		tally[r.K] = r.N
	}
	return tally, nil
}

// Insert adds a row owned by the handle's user.
func (h *SessionHandle) Insert(ctx context.Context, table string, values ...Value) error {
	query, args := buildInsert(table, append([]Value{Set(ownerColumn, h.userID)}, values...))
	_, err := h.q.ExecContext(ctx, query, args...)
	return apperrors.NewStoreError("insert "+table, err)
}

// Upsert inserts a row owned by the handle's user, or overwrites the update columns of the row
// with the same key.
func (h *SessionHandle) Upsert(ctx context.Context, table string, values []Value, update ...string) error {
	query, args := buildUpsert(table, append([]Value{Set(ownerColumn, h.userID)}, values...), update)
	_, err := h.q.ExecContext(ctx, query, args...)
	return apperrors.NewStoreError("upsert "+table, err)
}

// RecordUser inserts the handle's user into the users table, or refreshes the email of an
// existing row. The id is always the handle's own.
func (h *SessionHandle) RecordUser(ctx context.Context, email string, createdAt time.Time) error {
	query, args := buildUpsert(TableUsers, []Value{
		Set("id", h.userID),
		Set("email", email),
		Set("created_at", createdAt),
	}, []string{"email"})
	_, err := h.q.ExecContext(ctx, query, args...)
	return apperrors.NewStoreError("upsert "+TableUsers, err)
}

// Update changes the owned rows matching conds and returns how many rows matched. Zero means that
// no such row exists for this user.
func (h *SessionHandle) Update(ctx context.Context, table string, values []Value, conds ...Cond) (int64, error) {
	query, args := buildUpdate(table, values, h.owned(conds))
	return h.exec(ctx, "update "+table, query, args)
}

// Delete removes the owned rows matching conds and returns how many there were.
func (h *SessionHandle) Delete(ctx context.Context, table string, conds ...Cond) (int64, error) {
	query, args := buildDelete(table, h.owned(conds))
	return h.exec(ctx, "delete "+table, query, args)
}

func (h *SessionHandle) exec(ctx context.Context, op, query string, args []any) (int64, error) {
	res, err := h.q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, apperrors.NewStoreError(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, apperrors.NewStoreError(op, err)
	}
	return n, nil
}

// InTx runs fn with a handle for the same user whose statements share one transaction. The
// transaction is committed if fn returns nil and rolled back otherwise. Inside a transaction fn
// runs on the current handle.
func (h *SessionHandle) InTx(ctx context.Context, fn func(tx *SessionHandle) error) (err error) {
	if _, inTx := h.q.(*sqlx.Tx); inTx {
		return fn(h)
	}
	tx, err := h.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperrors.NewStoreError("begin", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = apperrors.NewStoreError("commit", tx.Commit())
	}()

	return fn(&SessionHandle{db: h.db, q: tx, userID: h.userID})
}

// PrivilegedHandle runs the admin aggregates that must see every user's rows. It has no owner and
// can only count.
type PrivilegedHandle struct {
	db *sqlx.DB
}

var countableTables = map[string]bool{
	TableUsers:    true,
	TableContacts: true,
	TableCircles:  true,
}

// Count returns the total number of rows of table across all users.
func (h *PrivilegedHandle) Count(ctx context.Context, table string) (int, error) {
	if !countableTables[table] {
		return 0, fmt.Errorf("table %q cannot be counted", table)
	}
	var n int
	if err := h.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM "+table); err != nil {
		return 0, apperrors.NewStoreError("count "+table, err)
	}
	return n, nil
}
