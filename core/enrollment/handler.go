package enrollment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/coursehub/coursehub/api/web"
	"github.com/coursehub/coursehub/api/weberr"
	"github.com/coursehub/coursehub/core/claims"
	"github.com/coursehub/coursehub/core/course"
	"github.com/coursehub/coursehub/database"
	"github.com/coursehub/coursehub/validate"
	"github.com/jmoiron/sqlx"
)

type enrollResponse struct {
	Enrollment  Enrollment     `json:"enrollment"`
	FirstLesson *LessonPointer `json:"firstLesson"`
}

// HandleEnroll enrolls the caller in a course. Enrolling twice is a
// conflict; the store constraint decides the winner when two attempts
// race.
func HandleEnroll(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		var en EnrollmentNew
		if err := web.Decode(w, r, &en); err != nil {
			return weberr.BadRequest(err)
		}

		if err := validate.Check(en); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		enr := Enrollment{
			ID:        validate.GenerateID(),
			UserID:    clm.UserID,
			CourseID:  en.CourseID,
			CreatedAt: time.Now().UTC(),
		}

		if err := Create(ctx, db, enr); err != nil {
			if database.IsUniqueViolation(err) {
				return weberr.Conflict(err, "already enrolled")
			}
			return err
		}

		// The enrollment stands even if the entry point cannot be
		// resolved; the caller falls back to the dashboard.
		resp := enrollResponse{Enrollment: enr}
		if ptr, err := FirstLesson(ctx, db, en.CourseID); err == nil {
			resp.FirstLesson = &ptr
		}

		return web.Respond(ctx, w, resp, http.StatusCreated)
	}
}

// HandleEnrollRedirect is the link-click variant: enroll if needed,
// then send the browser to the first lesson or the dashboard. It
// never reports an error a browser can't act on: anonymous visitors
// go to the sign-in page and a duplicate enrollment is not a
// conflict.
func HandleEnrollRedirect(db *sqlx.DB, siteURL string) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			http.Redirect(w, r, siteURL+"/auth/signin", http.StatusSeeOther)
			return nil
		}

		courseID := web.Query(r, "courseId")
		if courseID == "" {
			http.Redirect(w, r, siteURL+"/catalog", http.StatusSeeOther)
			return nil
		}

		if _, err := Fetch(ctx, db, clm.UserID, courseID); err != nil {
			if !errors.Is(err, ErrNotFound) {
				return err
			}

			enr := Enrollment{
				ID:        validate.GenerateID(),
				UserID:    clm.UserID,
				CourseID:  courseID,
				CreatedAt: time.Now().UTC(),
			}
			if err := Create(ctx, db, enr); err != nil && !database.IsUniqueViolation(err) {
				return err
			}
		}

		ptr, err := FirstLesson(ctx, db, courseID)
		if err != nil {
			http.Redirect(w, r, siteURL+"/my-learning", http.StatusSeeOther)
			return nil
		}

		target := fmt.Sprintf("%s/learn/%s/%s", siteURL, ptr.CourseSlug, ptr.LessonSlug)
		http.Redirect(w, r, target, http.StatusSeeOther)
		return nil
	}
}

// HandleListOwned returns the caller's enrolled courses with the
// full curriculum and per-lesson watch state.
func HandleListOwned(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		courses, err := FetchOwnedCourses(ctx, db, clm.UserID)
		if err != nil {
			return err
		}

		owned := make([]OwnedCourse, 0, len(courses))
		for _, c := range courses {
			sections, err := course.FetchSections(ctx, db, c.ID)
			if err != nil {
				return err
			}

			states, err := fetchProgress(ctx, db, clm.UserID, c.ID)
			if err != nil {
				return err
			}

			oc := OwnedCourse{Course: c, Sections: make([]OwnedSection, 0, len(sections))}
			for _, s := range sections {
				os := OwnedSection{
					ID:      s.ID,
					Title:   s.Title,
					Order:   s.Order,
					Lessons: make([]OwnedLesson, 0, len(s.Lessons)),
				}

				for _, l := range s.Lessons {
					st := states[l.ID]
					os.Lessons = append(os.Lessons, OwnedLesson{
						Lesson:      l,
						PositionSec: st.PositionSec,
						Completed:   st.Completed,
					})

					oc.TotalLessons++
					if st.Completed {
						oc.CompletedLessons++
					}
				}

				oc.Sections = append(oc.Sections, os)
			}

			oc.ProgressPercentage = ProgressPercent(oc.CompletedLessons, oc.TotalLessons)
			owned = append(owned, oc)
		}

		return web.Respond(ctx, w, owned, http.StatusOK)
	}
}
