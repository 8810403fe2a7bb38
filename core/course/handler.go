package course

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/coursehub/coursehub/api/web"
	"github.com/coursehub/coursehub/api/weberr"
	"github.com/coursehub/coursehub/core/claims"
	"github.com/coursehub/coursehub/core/review"
	"github.com/coursehub/coursehub/database"
	"github.com/coursehub/coursehub/validate"
	"github.com/jmoiron/sqlx"
)

const (
	defaultPage  = 1
	defaultLimit = 20
	featuredTake = 6
)

type catalogResponse struct {
	Courses    []Summary  `json:"courses"`
	Pagination Pagination `json:"pagination"`
}

// Detail is the full course page: curriculum, reviews, stats and the
// viewer's enrollment state.
type Detail struct {
	Summary
	Sections   []Section             `json:"sections"`
	Reviews    []review.CourseReview `json:"reviews"`
	IsEnrolled bool                  `json:"isEnrolled"`
}

// HandleList serves the public catalog. Malformed paging parameters
// fall back to defaults rather than failing the request.
func HandleList(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		page := web.QueryInt(r, "page", defaultPage)
		if page < 1 {
			page = defaultPage
		}
		limit := web.QueryInt(r, "limit", defaultLimit)
		if limit < 1 {
			limit = defaultLimit
		}

		f := Filter{
			Category: web.Query(r, "category"),
			Level:    web.Query(r, "level"),
			Search:   web.Query(r, "search"),
			SortBy:   web.Query(r, "sortBy"),
		}
		if v := web.Query(r, "minPrice"); v != "" {
			min := web.QueryInt(r, "minPrice", 0)
			f.MinPrice = &min
		}
		if v := web.Query(r, "maxPrice"); v != "" {
			max := web.QueryInt(r, "maxPrice", 0)
			f.MaxPrice = &max
		}

		courses, err := Catalog(ctx, db, f, page, limit)
		if err != nil {
			return err
		}

		count, err := CatalogCount(ctx, db, f)
		if err != nil {
			return err
		}

		resp := catalogResponse{
			Courses:    courses,
			Pagination: NewPagination(page, limit, count),
		}

		return web.Respond(ctx, w, resp, http.StatusOK)
	}
}

func HandleFeatured(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		courses, err := Featured(ctx, db, featuredTake)
		if err != nil {
			return err
		}

		resp := struct {
			Courses []Summary `json:"courses"`
		}{Courses: courses}

		return web.Respond(ctx, w, resp, http.StatusOK)
	}
}

// HandleShow assembles the course page. The reads are independent
// queries, not a snapshot; the page tolerates a write landing between
// them. A logged-in viewer gets their enrollment state; any failure of
// that probe degrades to "not enrolled" since the page is public.
func HandleShow(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		slug := web.Param(r, "slug")

		sum, err := FetchSummaryBySlug(ctx, db, slug)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return weberr.NotFound(err)
			}
			return err
		}

		sections, err := FetchSections(ctx, db, sum.ID)
		if err != nil {
			return err
		}

		reviews, err := review.FetchVisibleByCourse(ctx, db, sum.ID)
		if err != nil {
			return err
		}

		detail := Detail{
			Summary:  sum,
			Sections: sections,
			Reviews:  reviews,
		}

		if clm, err := claims.Get(ctx); err == nil {
			if enrolled, err := ViewerEnrolled(ctx, db, clm.UserID, sum.ID); err == nil {
				detail.IsEnrolled = enrolled
			}
		}

		return web.Respond(ctx, w, detail, http.StatusOK)
	}
}

// HandleListAll is the admin console listing: every course including
// drafts, newest first.
func HandleListAll(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		courses, err := List(ctx, db)
		if err != nil {
			return err
		}

		return web.Respond(ctx, w, courses, http.StatusOK)
	}
}

func HandleCreate(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		var cn CourseNew
		if err := web.Decode(w, r, &cn); err != nil {
			return weberr.BadRequest(err)
		}

		if err := validate.Check(cn); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		status := cn.Status
		if status == "" {
			status = StatusDraft
		}

		now := time.Now().UTC()
		c := Course{
			ID:           validate.GenerateID(),
			Slug:         cn.Slug,
			Title:        cn.Title,
			Subtitle:     cn.Subtitle,
			Description:  cn.Description,
			PriceCents:   cn.PriceCents,
			Status:       status,
			Category:     cn.Category,
			Level:        cn.Level,
			Language:     cn.Language,
			ThumbnailURL: cn.ThumbnailURL,
			CreatedBy:    clm.UserID,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		if err := Create(ctx, db, c); err != nil {
			if database.IsUniqueViolation(err) {
				return weberr.Conflict(err, "a course with this slug already exists")
			}
			return err
		}

		return web.Respond(ctx, w, c, http.StatusCreated)
	}
}

func HandleUpdate(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		slug := web.Param(r, "slug")

		var cu CourseUp
		if err := web.Decode(w, r, &cu); err != nil {
			return weberr.BadRequest(err)
		}

		if err := validate.Check(cu); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		c, err := FetchBySlug(ctx, db, slug)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return weberr.NotFound(err)
			}
			return err
		}

		if cu.Title != nil {
			c.Title = *cu.Title
		}
		if cu.Subtitle != nil {
			c.Subtitle = *cu.Subtitle
		}
		if cu.Description != nil {
			c.Description = *cu.Description
		}
		if cu.PriceCents != nil {
			c.PriceCents = *cu.PriceCents
		}
		if cu.Status != nil {
			c.Status = *cu.Status
		}
		if cu.Category != nil {
			c.Category = cu.Category
		}
		if cu.Level != nil {
			c.Level = cu.Level
		}
		if cu.Language != nil {
			c.Language = cu.Language
		}
		if cu.ThumbnailURL != nil {
			c.ThumbnailURL = *cu.ThumbnailURL
		}
		c.UpdatedAt = time.Now().UTC()

		if err := Update(ctx, db, c); err != nil {
			if errors.Is(err, ErrNotFound) {
				return weberr.NotFound(err)
			}
			return err
		}
		c.Version++

		return web.Respond(ctx, w, c, http.StatusOK)
	}
}

func HandleCreateSection(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		slug := web.Param(r, "slug")

		var sn SectionNew
		if err := web.Decode(w, r, &sn); err != nil {
			return weberr.BadRequest(err)
		}

		if err := validate.Check(sn); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		c, err := FetchBySlug(ctx, db, slug)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return weberr.NotFound(err)
			}
			return err
		}

		s := Section{
			ID:       validate.GenerateID(),
			CourseID: c.ID,
			Title:    sn.Title,
			Order:    sn.Order,
			Lessons:  []Lesson{},
		}

		if err := CreateSection(ctx, db, s); err != nil {
			return err
		}

		return web.Respond(ctx, w, s, http.StatusCreated)
	}
}

func HandleCreateLesson(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		sectionID := web.Param(r, "id")
		if err := validate.CheckID(sectionID); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		var ln LessonNew
		if err := web.Decode(w, r, &ln); err != nil {
			return weberr.BadRequest(err)
		}

		if err := validate.Check(ln); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		if _, err := FetchSection(ctx, db, sectionID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return weberr.NotFound(err)
			}
			return err
		}

		l := Lesson{
			ID:          validate.GenerateID(),
			SectionID:   sectionID,
			Title:       ln.Title,
			Slug:        ln.Slug,
			Order:       ln.Order,
			VideoURL:    ln.VideoURL,
			DurationSec: ln.DurationSec,
			FreePreview: ln.FreePreview,
		}

		if err := CreateLesson(ctx, db, l); err != nil {
			return err
		}

		return web.Respond(ctx, w, l, http.StatusCreated)
	}
}
