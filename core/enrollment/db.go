package enrollment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/coursehub/coursehub/core/course"
	"github.com/jmoiron/sqlx"
)

// ErrNoLessons is returned when a course has no curriculum to point a
// new learner at; callers fall back to the learning dashboard.
var ErrNoLessons = errors.New("course has no lessons")

var ErrNotFound = errors.New("enrollment not found")

// Create inserts an enrollment. The (user_id, course_id) unique
// constraint is the only concurrency guard: callers must treat a
// unique violation as "already enrolled", not as a failure.
func Create(ctx context.Context, db sqlx.ExtContext, enr Enrollment) error {
	const q = `
	INSERT INTO enrollments (enrollment_id, user_id, course_id, created_at)
	VALUES (:enrollment_id, :user_id, :course_id, :created_at)`

	if _, err := sqlx.NamedExecContext(ctx, db, q, enr); err != nil {
		return fmt.Errorf("inserting enrollment: %w", err)
	}

	return nil
}

func Fetch(ctx context.Context, db sqlx.ExtContext, userID string, courseID string) (Enrollment, error) {
	const q = `SELECT * FROM enrollments WHERE user_id = $1 AND course_id = $2`

	var enr Enrollment
	if err := sqlx.GetContext(ctx, db, &enr, q, userID, courseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Enrollment{}, ErrNotFound
		}
		return Enrollment{}, fmt.Errorf("selecting enrollment: %w", err)
	}

	return enr, nil
}

// FirstLesson resolves a course's entry point: the first lesson of
// the first section, both by display order. A first section without
// lessons means the course has no entry point, even when later
// sections have content.
func FirstLesson(ctx context.Context, db sqlx.ExtContext, courseID string) (LessonPointer, error) {
	const q = `
	SELECT c.slug AS course_slug, l.slug AS lesson_slug
	FROM courses c
	JOIN sections s ON s.course_id = c.course_id
	JOIN lessons l ON l.section_id = s.section_id
	WHERE c.course_id = $1
	AND s.section_id = (
		SELECT section_id FROM sections
		WHERE course_id = $1
		ORDER BY index ASC
		LIMIT 1)
	ORDER BY l.index ASC
	LIMIT 1`

	var ptr LessonPointer
	if err := sqlx.GetContext(ctx, db, &ptr, q, courseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return LessonPointer{}, ErrNoLessons
		}
		return LessonPointer{}, fmt.Errorf("selecting first lesson of course[%s]: %w", courseID, err)
	}

	return ptr, nil
}

// FetchOwnedCourses returns the courses a student is enrolled in, the
// most popular first.
func FetchOwnedCourses(ctx context.Context, db sqlx.ExtContext, userID string) ([]course.Course, error) {
	const q = `
	SELECT c.*
	FROM courses c
	JOIN enrollments e ON e.course_id = c.course_id
	WHERE e.user_id = $1
	ORDER BY (SELECT COUNT(*) FROM enrollments e2 WHERE e2.course_id = c.course_id) DESC`

	var courses []course.Course
	if err := sqlx.SelectContext(ctx, db, &courses, q, userID); err != nil {
		return nil, fmt.Errorf("selecting courses owned by user[%s]: %w", userID, err)
	}

	return courses, nil
}

// fetchProgress returns the student's stored watch state for every
// lesson of a course, keyed by lesson id.
func fetchProgress(ctx context.Context, db sqlx.ExtContext, userID string, courseID string) (map[string]watchState, error) {
	const q = `
	SELECT p.lesson_id, p.position_sec, p.completed
	FROM progress p
	JOIN lessons l ON l.lesson_id = p.lesson_id
	JOIN sections s ON s.section_id = l.section_id
	WHERE s.course_id = $1 AND p.user_id = $2`

	var rows []struct {
		LessonID    string `db:"lesson_id"`
		PositionSec int    `db:"position_sec"`
		Completed   bool   `db:"completed"`
	}
	if err := sqlx.SelectContext(ctx, db, &rows, q, courseID, userID); err != nil {
		return nil, fmt.Errorf("selecting progress of course[%s]: %w", courseID, err)
	}

	states := make(map[string]watchState, len(rows))
	for _, row := range rows {
		states[row.LessonID] = watchState{PositionSec: row.PositionSec, Completed: row.Completed}
	}

	return states, nil
}

type watchState struct {
	PositionSec int
	Completed   bool
}
