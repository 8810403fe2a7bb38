package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

const (
	recentCoursesTake     = 5
	recentEnrollmentsTake = 10
)

func count(ctx context.Context, db sqlx.ExtContext, q string, args ...interface{}) (int, error) {
	var n int
	if err := sqlx.GetContext(ctx, db, &n, q, args...); err != nil {
		return 0, fmt.Errorf("counting rows: %w", err)
	}
	return n, nil
}

// Collect assembles the dashboard snapshot. The reads are independent
// queries, so a write landing between them may leave the snapshot
// momentarily inconsistent; dashboards accept that.
func Collect(ctx context.Context, db sqlx.ExtContext, now time.Time) (Snapshot, error) {
	var snap Snapshot
	var err error

	if snap.TotalCourses, err = count(ctx, db, `SELECT COUNT(*) FROM courses`); err != nil {
		return Snapshot{}, err
	}
	if snap.TotalUsers, err = count(ctx, db, `SELECT COUNT(*) FROM users`); err != nil {
		return Snapshot{}, err
	}
	if snap.TotalEnrollments, err = count(ctx, db, `SELECT COUNT(*) FROM enrollments`); err != nil {
		return Snapshot{}, err
	}
	if snap.PublishedCourses, err = count(ctx, db, `SELECT COUNT(*) FROM courses WHERE status = 'PUBLISHED'`); err != nil {
		return Snapshot{}, err
	}
	if snap.DraftCourses, err = count(ctx, db, `SELECT COUNT(*) FROM courses WHERE status = 'DRAFT'`); err != nil {
		return Snapshot{}, err
	}

	const qc = `
	SELECT
		c.course_id, c.title, c.slug, c.created_at,
		u.name AS created_by_name,
		(SELECT COUNT(*) FROM enrollments e WHERE e.course_id = c.course_id) AS enrollment_count
	FROM courses c
	JOIN users u ON u.user_id = c.created_by
	ORDER BY c.created_at DESC
	LIMIT $1`

	if err := sqlx.SelectContext(ctx, db, &snap.RecentCourses, qc, recentCoursesTake); err != nil {
		return Snapshot{}, fmt.Errorf("selecting recent courses: %w", err)
	}

	const qe = `
	SELECT
		e.enrollment_id, e.created_at,
		u.name AS user_name, u.email AS user_email,
		c.title AS course_title, c.slug AS course_slug
	FROM enrollments e
	JOIN users u ON u.user_id = e.user_id
	JOIN courses c ON c.course_id = e.course_id
	ORDER BY e.created_at DESC
	LIMIT $1`

	if err := sqlx.SelectContext(ctx, db, &snap.RecentEnrollments, qe, recentEnrollmentsTake); err != nil {
		return Snapshot{}, fmt.Errorf("selecting recent enrollments: %w", err)
	}

	const qcat = `
	SELECT category, COUNT(*) AS count
	FROM courses
	WHERE category IS NOT NULL
	GROUP BY category
	ORDER BY count DESC, category ASC`

	if err := sqlx.SelectContext(ctx, db, &snap.CategoryStats, qcat); err != nil {
		return Snapshot{}, fmt.Errorf("selecting category distribution: %w", err)
	}

	thirtyAgo := now.AddDate(0, 0, -30)
	sixtyAgo := now.AddDate(0, 0, -60)

	last30, err := count(ctx, db, `SELECT COUNT(*) FROM enrollments WHERE created_at >= $1`, thirtyAgo)
	if err != nil {
		return Snapshot{}, err
	}

	prev30, err := count(ctx, db, `SELECT COUNT(*) FROM enrollments WHERE created_at >= $1 AND created_at < $2`, sixtyAgo, thirtyAgo)
	if err != nil {
		return Snapshot{}, err
	}

	snap.EnrollmentsLast30Days = last30
	snap.EnrollmentGrowth = Growth(prev30, last30)

	if snap.RecentCourses == nil {
		snap.RecentCourses = []RecentCourse{}
	}
	if snap.RecentEnrollments == nil {
		snap.RecentEnrollments = []RecentEnrollment{}
	}
	if snap.CategoryStats == nil {
		snap.CategoryStats = []CategoryCount{}
	}

	return snap, nil
}
