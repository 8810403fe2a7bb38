package test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/coursehub/coursehub/core/course"
	"github.com/coursehub/coursehub/core/enrollment"
	"github.com/coursehub/coursehub/core/progress"
	"github.com/coursehub/coursehub/random"
)

type progressTest struct {
	*TestEnv
}

func TestProgress(t *testing.T) {
	env, err := NewTestEnv(t, "progress_test")
	if err != nil {
		t.Fatalf("initializing test env: %v", err)
	}

	pt := &progressTest{env}
	ct := &courseTest{env}

	c := ct.createCourseOK(t, course.CourseNew{
		Slug:   "sql-deep-dive-" + strings.ToLower(random.String(6)),
		Title:  "SQL Deep Dive",
		Status: course.StatusPublished,
	})
	sec := ct.createSectionOK(t, c.Slug, course.SectionNew{Title: "Joins", Order: 1})
	lesson := ct.createLessonOK(t, c.Slug, sec.ID, course.LessonNew{Title: "Inner Joins", Slug: "inner-joins", Order: 1})

	pt.Login(t, pt.UserEmail, pt.UserPass)
	defer pt.Logout(t)

	w := pt.postJSON(t, "/enroll", enrollment.EnrollmentNew{CourseID: c.ID})
	w.Body.Close()

	// Absent progress reads as the zero state, not an error.
	p := pt.showProgressOK(t, lesson.ID)
	if p.PositionSec != 0 || p.Completed {
		t.Fatalf("expected zero state, got %+v", p)
	}

	// Missing lessonId is rejected.
	w = pt.get(t, "/progress")
	if w.StatusCode != http.StatusBadRequest {
		t.Fatalf("progress without lessonId: status code %s", w.Status)
	}
	w.Body.Close()

	// Repeated heartbeats leave a single row holding the last value.
	for _, pos := range []int{10, 60, 240} {
		pt.upsertProgressOK(t, progress.ProgressUp{LessonID: lesson.ID, PositionSec: pos})
	}

	p = pt.showProgressOK(t, lesson.ID)
	if p.PositionSec != 240 {
		t.Fatalf("expected last-write position 240, got %d", p.PositionSec)
	}

	var rows int
	if err := pt.DB.Get(&rows, "SELECT COUNT(*) FROM progress WHERE lesson_id = $1", lesson.ID); err != nil {
		t.Fatal(err)
	}
	if rows != 1 {
		t.Fatalf("expected exactly 1 progress row, got %d", rows)
	}

	// Negative positions are stored as zero; completion sticks.
	pt.upsertProgressOK(t, progress.ProgressUp{LessonID: lesson.ID, PositionSec: -5, Completed: true})

	p = pt.showProgressOK(t, lesson.ID)
	if p.PositionSec != 0 || !p.Completed {
		t.Fatalf("expected clamped completed state, got %+v", p)
	}

	// The completion shows up in the learning dashboard figures.
	et := &enrollmentTest{env}
	owned := et.listOwnedOK(t)
	if len(owned) != 1 {
		t.Fatalf("expected 1 owned course, got %d", len(owned))
	}
	if owned[0].CompletedLessons != 1 || owned[0].ProgressPercentage != 100 {
		t.Fatalf("unexpected completion figures: %+v", owned[0])
	}
}

func (pt *progressTest) showProgressOK(t *testing.T, lessonID string) progress.Progress {
	t.Helper()

	w := pt.get(t, "/progress?lessonId="+lessonID)
	if w.StatusCode != http.StatusOK {
		t.Fatalf("can't show progress: status code %s", w.Status)
	}

	var p progress.Progress
	decode(t, w, &p)
	return p
}

func (pt *progressTest) upsertProgressOK(t *testing.T, up progress.ProgressUp) progress.Progress {
	t.Helper()

	w := pt.postJSON(t, "/progress", up)
	if w.StatusCode != http.StatusOK {
		t.Fatalf("can't upsert progress: status code %s", w.Status)
	}

	var p progress.Progress
	decode(t, w, &p)
	return p
}
