package course

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var ErrNotFound = errors.New("course not found")

// summarySelect joins every course row with its creator profile and
// the derived stats block. The counts and the average deliberately
// consider VISIBLE reviews only.
const summarySelect = `
	SELECT
		c.*,
		u.user_id AS instructor_id,
		u.name AS instructor_name,
		u.image_url AS instructor_image,
		(SELECT COUNT(*) FROM enrollments e WHERE e.course_id = c.course_id) AS enrollment_count,
		(SELECT COUNT(*) FROM reviews r WHERE r.course_id = c.course_id AND r.status = 'VISIBLE') AS review_count,
		(SELECT COALESCE(AVG(r.rating), 0) FROM reviews r WHERE r.course_id = c.course_id AND r.status = 'VISIBLE') AS average_rating,
		(SELECT COUNT(*)
			FROM lessons l
			JOIN sections s ON s.section_id = l.section_id
			WHERE s.course_id = c.course_id) AS total_lessons
	FROM courses c
	JOIN users u ON u.user_id = c.created_by`

type summaryRow struct {
	Course
	Instructor
	Stats
}

func (row summaryRow) summary() Summary {
	row.Stats.AverageRating = roundRating(row.Stats.AverageRating)
	return Summary{
		Course:     row.Course,
		Instructor: row.Instructor,
		Stats:      row.Stats,
		Tags:       []string{},
	}
}

// roundRating keeps one decimal of the review average.
func roundRating(avg float64) float64 {
	return math.Round(avg*10) / 10
}

// catalogWhere translates a Filter into WHERE clauses with positional
// arguments. Only published courses are ever listed.
func catalogWhere(f Filter) (string, []interface{}) {
	clauses := []string{"c.status = 'PUBLISHED'"}
	var args []interface{}

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Category != "" {
		clauses = append(clauses, "c.category = "+arg(f.Category))
	}
	if f.Level != "" {
		clauses = append(clauses, "c.level = "+arg(f.Level))
	}
	if f.Search != "" {
		p := arg("%" + f.Search + "%")
		clauses = append(clauses, fmt.Sprintf("(c.title ILIKE %[1]s OR c.subtitle ILIKE %[1]s OR c.description ILIKE %[1]s)", p))
	}
	if f.MinPrice != nil {
		clauses = append(clauses, "c.price_cents >= "+arg(*f.MinPrice*100))
	}
	if f.MaxPrice != nil {
		clauses = append(clauses, "c.price_cents <= "+arg(*f.MaxPrice*100))
	}

	return " WHERE " + strings.Join(clauses, " AND "), args
}

// catalogOrder maps a sort key to an ORDER BY clause. The rating key
// orders by review count, not average rating, matching the behavior
// the product shipped with.
func catalogOrder(sortBy string) string {
	switch sortBy {
	case SortRating:
		return " ORDER BY review_count DESC"
	case SortNewest:
		return " ORDER BY c.created_at DESC"
	case SortPriceLow:
		return " ORDER BY c.price_cents ASC"
	case SortPriceHigh:
		return " ORDER BY c.price_cents DESC"
	default:
		return " ORDER BY enrollment_count DESC"
	}
}

// Catalog returns one page of the public course listing.
func Catalog(ctx context.Context, db sqlx.ExtContext, f Filter, page int, limit int) ([]Summary, error) {
	where, args := catalogWhere(f)

	q := summarySelect + where + catalogOrder(f.SortBy)
	q += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, (page-1)*limit)

	var rows []summaryRow
	if err := sqlx.SelectContext(ctx, db, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("selecting catalog page: %w", err)
	}

	return attachTags(ctx, db, rows)
}

// CatalogCount returns the total number of courses matching a filter.
func CatalogCount(ctx context.Context, db sqlx.ExtContext, f Filter) (int, error) {
	where, args := catalogWhere(f)
	q := `SELECT COUNT(*) FROM courses c` + where

	var count int
	if err := sqlx.GetContext(ctx, db, &count, q, args...); err != nil {
		return 0, fmt.Errorf("counting catalog courses: %w", err)
	}

	return count, nil
}

// Featured returns the n most enrolled published courses, breaking
// ties on review count.
func Featured(ctx context.Context, db sqlx.ExtContext, n int) ([]Summary, error) {
	q := summarySelect + ` WHERE c.status = 'PUBLISHED'
	ORDER BY enrollment_count DESC, review_count DESC
	LIMIT $1`

	var rows []summaryRow
	if err := sqlx.SelectContext(ctx, db, &rows, q, n); err != nil {
		return nil, fmt.Errorf("selecting featured courses: %w", err)
	}

	return attachTags(ctx, db, rows)
}

// List returns every course regardless of status, newest first. Admin
// console listing.
func List(ctx context.Context, db sqlx.ExtContext) ([]Summary, error) {
	q := summarySelect + ` ORDER BY c.created_at DESC`

	var rows []summaryRow
	if err := sqlx.SelectContext(ctx, db, &rows, q); err != nil {
		return nil, fmt.Errorf("selecting courses: %w", err)
	}

	return attachTags(ctx, db, rows)
}

func attachTags(ctx context.Context, db sqlx.ExtContext, rows []summaryRow) ([]Summary, error) {
	courses := make([]Summary, 0, len(rows))
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		courses = append(courses, row.summary())
		ids = append(ids, row.Course.ID)
	}

	if len(ids) == 0 {
		return courses, nil
	}

	const q = `
	SELECT ct.course_id, t.name
	FROM course_tags ct
	JOIN tags t ON t.tag_id = ct.tag_id
	WHERE ct.course_id = ANY($1)
	ORDER BY t.name`

	var tagRows []struct {
		CourseID string `db:"course_id"`
		Name     string `db:"name"`
	}
	if err := sqlx.SelectContext(ctx, db, &tagRows, q, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("selecting course tags: %w", err)
	}

	byCourse := make(map[string][]string)
	for _, tr := range tagRows {
		byCourse[tr.CourseID] = append(byCourse[tr.CourseID], tr.Name)
	}
	for i := range courses {
		if tags, ok := byCourse[courses[i].ID]; ok {
			courses[i].Tags = tags
		}
	}

	return courses, nil
}

func Create(ctx context.Context, db sqlx.ExtContext, c Course) error {
	const q = `
	INSERT INTO courses
		(course_id, slug, title, subtitle, description, price_cents, status,
		category, level, language, thumbnail_url, created_by, created_at, updated_at)
	VALUES
		(:course_id, :slug, :title, :subtitle, :description, :price_cents, :status,
		:category, :level, :language, :thumbnail_url, :created_by, :created_at, :updated_at)`

	if _, err := sqlx.NamedExecContext(ctx, db, q, c); err != nil {
		return fmt.Errorf("inserting course: %w", err)
	}

	return nil
}

func Update(ctx context.Context, db sqlx.ExtContext, c Course) error {
	const q = `
	UPDATE courses SET
		title = :title,
		subtitle = :subtitle,
		description = :description,
		price_cents = :price_cents,
		status = :status,
		category = :category,
		level = :level,
		language = :language,
		thumbnail_url = :thumbnail_url,
		updated_at = :updated_at,
		version = version + 1
	WHERE course_id = :course_id AND version = :version`

	res, err := sqlx.NamedExecContext(ctx, db, q, c)
	if err != nil {
		return fmt.Errorf("updating course[%s]: %w", c.ID, err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}

	return nil
}

func Fetch(ctx context.Context, db sqlx.ExtContext, courseID string) (Course, error) {
	const q = `SELECT * FROM courses WHERE course_id = $1`

	var c Course
	if err := sqlx.GetContext(ctx, db, &c, q, courseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Course{}, ErrNotFound
		}
		return Course{}, fmt.Errorf("selecting course[%s]: %w", courseID, err)
	}

	return c, nil
}

func FetchBySlug(ctx context.Context, db sqlx.ExtContext, slug string) (Course, error) {
	const q = `SELECT * FROM courses WHERE slug = $1`

	var c Course
	if err := sqlx.GetContext(ctx, db, &c, q, slug); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Course{}, ErrNotFound
		}
		return Course{}, fmt.Errorf("selecting course by slug[%s]: %w", slug, err)
	}

	return c, nil
}

// FetchSummaryBySlug loads a single course with its instructor, stats
// and tags.
func FetchSummaryBySlug(ctx context.Context, db sqlx.ExtContext, slug string) (Summary, error) {
	q := summarySelect + ` WHERE c.slug = $1`

	var row summaryRow
	if err := sqlx.GetContext(ctx, db, &row, q, slug); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Summary{}, ErrNotFound
		}
		return Summary{}, fmt.Errorf("selecting course summary by slug[%s]: %w", slug, err)
	}

	courses, err := attachTags(ctx, db, []summaryRow{row})
	if err != nil {
		return Summary{}, err
	}

	return courses[0], nil
}

// ViewerEnrolled is the course page's independent enrollment probe.
// It deliberately lives here rather than in the enrollment domain:
// the public page only needs existence, and a probe failure must not
// take the page down.
func ViewerEnrolled(ctx context.Context, db sqlx.ExtContext, userID string, courseID string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM enrollments WHERE user_id = $1 AND course_id = $2)`

	var enrolled bool
	if err := sqlx.GetContext(ctx, db, &enrolled, q, userID, courseID); err != nil {
		return false, fmt.Errorf("probing enrollment: %w", err)
	}

	return enrolled, nil
}

// FetchSections returns a course's sections in display order, each
// with its lessons in display order.
func FetchSections(ctx context.Context, db sqlx.ExtContext, courseID string) ([]Section, error) {
	const qs = `SELECT * FROM sections WHERE course_id = $1 ORDER BY index ASC`

	var sections []Section
	if err := sqlx.SelectContext(ctx, db, &sections, qs, courseID); err != nil {
		return nil, fmt.Errorf("selecting sections of course[%s]: %w", courseID, err)
	}

	const ql = `
	SELECT l.* FROM lessons l
	JOIN sections s ON s.section_id = l.section_id
	WHERE s.course_id = $1
	ORDER BY s.index ASC, l.index ASC`

	var lessons []Lesson
	if err := sqlx.SelectContext(ctx, db, &lessons, ql, courseID); err != nil {
		return nil, fmt.Errorf("selecting lessons of course[%s]: %w", courseID, err)
	}

	bySection := make(map[string][]Lesson)
	for _, l := range lessons {
		bySection[l.SectionID] = append(bySection[l.SectionID], l)
	}

	for i := range sections {
		sections[i].Lessons = bySection[sections[i].ID]
		if sections[i].Lessons == nil {
			sections[i].Lessons = []Lesson{}
		}
	}

	return sections, nil
}

func FetchSection(ctx context.Context, db sqlx.ExtContext, sectionID string) (Section, error) {
	const q = `SELECT * FROM sections WHERE section_id = $1`

	var s Section
	if err := sqlx.GetContext(ctx, db, &s, q, sectionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Section{}, ErrNotFound
		}
		return Section{}, fmt.Errorf("selecting section[%s]: %w", sectionID, err)
	}

	return s, nil
}

func CreateSection(ctx context.Context, db sqlx.ExtContext, s Section) error {
	const q = `
	INSERT INTO sections (section_id, course_id, title, index)
	VALUES (:section_id, :course_id, :title, :index)`

	if _, err := sqlx.NamedExecContext(ctx, db, q, s); err != nil {
		return fmt.Errorf("inserting section: %w", err)
	}

	return nil
}

func CreateLesson(ctx context.Context, db sqlx.ExtContext, l Lesson) error {
	const q = `
	INSERT INTO lessons
		(lesson_id, section_id, title, slug, index, video_url, duration_sec, free_preview)
	VALUES
		(:lesson_id, :section_id, :title, :slug, :index, :video_url, :duration_sec, :free_preview)`

	if _, err := sqlx.NamedExecContext(ctx, db, q, l); err != nil {
		return fmt.Errorf("inserting lesson: %w", err)
	}

	return nil
}
