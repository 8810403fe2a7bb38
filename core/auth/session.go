package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/coursehub/coursehub/api/web"
	"github.com/coursehub/coursehub/api/weberr"
	"github.com/coursehub/coursehub/core/claims"
)

const (
	userIDKey = "user_id"
	roleKey   = "role"
)

// LoadAndSave adapts the scs middleware to the handler signature used
// by the rest of the API.
func LoadAndSave(session *scs.SessionManager) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			var err error

			sh := session.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				err = handler(r.Context(), w, r)
			}))
			sh.ServeHTTP(w, r)

			return err
		}
		return h
	}
	return m
}

// LoadClaims puts the session identity on the context when one is
// present and leaves the request anonymous otherwise. Used by public
// endpoints that personalize their response for logged-in viewers.
func LoadClaims(session *scs.SessionManager) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			if uid := session.GetString(ctx, userIDKey); uid != "" {
				ctx = claims.Set(ctx, claims.Claims{
					UserID: uid,
					Role:   session.GetString(ctx, roleKey),
				})
			}

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}

// Authenticate rejects requests that carry no session identity.
func Authenticate(session *scs.SessionManager) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			uid := session.GetString(ctx, userIDKey)
			if uid == "" {
				return weberr.NotAuthorized(errors.New("user not authenticated"))
			}

			ctx = claims.Set(ctx, claims.Claims{
				UserID: uid,
				Role:   session.GetString(ctx, roleKey),
			})

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}

// Admin rejects requests whose session identity does not hold the
// ADMIN role.
func Admin(session *scs.SessionManager) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			uid := session.GetString(ctx, userIDKey)
			if uid == "" {
				return weberr.NotAuthorized(errors.New("user not authenticated"))
			}

			role := session.GetString(ctx, roleKey)
			if role != claims.RoleAdmin {
				return weberr.Forbidden(errors.New("user is not an admin"))
			}

			ctx = claims.Set(ctx, claims.Claims{UserID: uid, Role: role})

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}

func login(ctx context.Context, session *scs.SessionManager, userID string, role string) error {
	if err := session.RenewToken(ctx); err != nil {
		return err
	}

	session.Put(ctx, userIDKey, userID)
	session.Put(ctx, roleKey, role)
	return nil
}
