package progress

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Fetch returns the stored watch state for a (user, lesson) pair. A
// missing row yields the zero state, not an error.
func Fetch(ctx context.Context, db sqlx.ExtContext, userID string, lessonID string) (Progress, error) {
	const q = `SELECT * FROM progress WHERE user_id = $1 AND lesson_id = $2`

	var p Progress
	if err := sqlx.GetContext(ctx, db, &p, q, userID, lessonID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Progress{UserID: userID, LessonID: lessonID}, nil
		}
		return Progress{}, fmt.Errorf("selecting progress of lesson[%s]: %w", lessonID, err)
	}

	return p, nil
}

// Upsert writes the watch state in a single statement so that a
// heartbeat never races a read-then-write; the last write wins.
func Upsert(ctx context.Context, db sqlx.ExtContext, p Progress) (Progress, error) {
	const q = `
	INSERT INTO progress
		(user_id, lesson_id, position_sec, completed, created_at, updated_at)
	VALUES
		(:user_id, :lesson_id, :position_sec, :completed, :created_at, :updated_at)
	ON CONFLICT (user_id, lesson_id) DO UPDATE SET
		position_sec = EXCLUDED.position_sec,
		completed = EXCLUDED.completed,
		updated_at = EXCLUDED.updated_at
	RETURNING *`

	rows, err := sqlx.NamedQueryContext(ctx, db, q, p)
	if err != nil {
		return Progress{}, fmt.Errorf("upserting progress: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return Progress{}, fmt.Errorf("upserting progress: no row returned")
	}

	var out Progress
	if err := rows.StructScan(&out); err != nil {
		return Progress{}, fmt.Errorf("scanning upserted progress: %w", err)
	}

	return out, nil
}
