package review

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

func HandleUpsert(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		var rn ReviewNew
		if err := web.Decode(w, r, &rn); err != nil {
			return weberr.BadRequest(err)
		}

		if err := validate.Check(rn); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		comment := rn.Comment
		if comment != nil && *comment == "" {
			comment = nil
		}

		now := time.Now().UTC()
		rev := Review{
			ID:        validate.GenerateID(),
			UserID:    clm.UserID,
			CourseID:  rn.CourseID,
			Rating:    Clamp(*rn.Rating),
			Comment:   comment,
			Status:    StatusVisible,
			CreatedAt: now,
			UpdatedAt: now,
		}

		out, err := Upsert(ctx, db, rev)
		if err != nil {
			return err
		}

		return web.Respond(ctx, w, out, http.StatusOK)
	}
}
