// Package claims threads the authenticated identity through request
// contexts. The session middleware sets it; handlers read it.
package claims

import (
	"context"
	"errors"
)

const (
	RoleAdmin   = "ADMIN"
	RoleStudent = "STUDENT"
)

type Claims struct {
	UserID string
	Role   string
}

type ctxKey int

const claimsKey ctxKey = 1

func Set(ctx context.Context, c Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

// Get returns the identity on the context; an error means the request
// is anonymous.
func Get(ctx context.Context) (Claims, error) {
	c, ok := ctx.Value(claimsKey).(Claims)
	if !ok {
		return Claims{}, errors.New("claim value missing from context")
	}
	return c, nil
}

func IsAdmin(ctx context.Context) bool {
	c, err := Get(ctx)
	return err == nil && c.Role == RoleAdmin
}

// IsUser reports whether the context identity is the user with the
// given id.
func IsUser(ctx context.Context, id string) bool {
	c, err := Get(ctx)
	return err == nil && c.UserID == id
}
