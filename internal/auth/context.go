package auth

import (
	"context"

	"gitlab.com/dirk.krummacker/personal-crm/internal/model"
)

type contextKey struct{}

// WithUser returns a copy of ctx that carries the signed-in user.
func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, contextKey{}, user)
}

// CurrentUser returns the user the request was made by, or nil for an anonymous request.
func CurrentUser(ctx context.Context) *model.User {
	user, _ := ctx.Value(contextKey{}).(*model.User)
	return user
}
