package progress

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/coursehub/coursehub/api/web"
	"github.com/coursehub/coursehub/api/weberr"
	"github.com/coursehub/coursehub/core/claims"
	"github.com/coursehub/coursehub/validate"
	"github.com/jmoiron/sqlx"
)

func HandleShow(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		lessonID := web.Query(r, "lessonId")
		if lessonID == "" {
			return weberr.NewError(errors.New("lessonId is required"), "lessonId is required", http.StatusBadRequest)
		}

		p, err := Fetch(ctx, db, clm.UserID, lessonID)
		if err != nil {
			return err
		}

		return web.Respond(ctx, w, p, http.StatusOK)
	}
}

func HandleUpsert(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		var up ProgressUp
		if err := web.Decode(w, r, &up); err != nil {
			return weberr.BadRequest(err)
		}

		if err := validate.Check(up); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		// Heartbeats are trusted but never stored negative.
		if up.PositionSec < 0 {
			up.PositionSec = 0
		}

		now := time.Now().UTC()
		p := Progress{
			UserID:      clm.UserID,
			LessonID:    up.LessonID,
			PositionSec: up.PositionSec,
			Completed:   up.Completed,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		out, err := Upsert(ctx, db, p)
		if err != nil {
			return err
		}

		return web.Respond(ctx, w, out, http.StatusOK)
	}
}
