package review

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Upsert writes the caller's review of a course, overwriting any
// previous submission. The (user_id, course_id) constraint guarantees
// a reviewer never appears twice on a course page.
func Upsert(ctx context.Context, db sqlx.ExtContext, rev Review) (Review, error) {
	const q = `
	INSERT INTO reviews
		(review_id, user_id, course_id, rating, comment, status, created_at, updated_at)
	VALUES
		(:review_id, :user_id, :course_id, :rating, :comment, :status, :created_at, :updated_at)
	ON CONFLICT (user_id, course_id) DO UPDATE SET
		rating = EXCLUDED.rating,
		comment = EXCLUDED.comment,
		status = EXCLUDED.status,
		updated_at = EXCLUDED.updated_at
	RETURNING *`

	rows, err := sqlx.NamedQueryContext(ctx, db, q, rev)
	if err != nil {
		return Review{}, fmt.Errorf("upserting review: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return Review{}, fmt.Errorf("upserting review: no row returned")
	}

	var out Review
	if err := rows.StructScan(&out); err != nil {
		return Review{}, fmt.Errorf("scanning upserted review: %w", err)
	}

	return out, nil
}

// FetchVisibleByCourse returns a course's visible reviews with their
// authors, newest first.
func FetchVisibleByCourse(ctx context.Context, db sqlx.ExtContext, courseID string) ([]CourseReview, error) {
	const q = `
	SELECT r.*, u.name AS user_name, u.image_url AS user_image
	FROM reviews r
	JOIN users u ON u.user_id = r.user_id
	WHERE r.course_id = $1 AND r.status = 'VISIBLE'
	ORDER BY r.created_at DESC`

	var reviews []CourseReview
	if err := sqlx.SelectContext(ctx, db, &reviews, q, courseID); err != nil {
		return nil, fmt.Errorf("selecting reviews of course[%s]: %w", courseID, err)
	}

	return reviews, nil
}
