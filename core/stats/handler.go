package stats

import (
	"context"
	"net/http"
	"time"

	"github.com/coursehub/coursehub/api/web"
	"github.com/jmoiron/sqlx"
)

// HandleShow serves the dashboard snapshot. The route is mounted
// behind the admin gate; no further checks are needed here.
func HandleShow(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		snap, err := Collect(ctx, db, time.Now().UTC())
		if err != nil {
			return err
		}

		return web.Respond(ctx, w, snap, http.StatusOK)
	}
}
