package test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/coursehub/coursehub/core/course"
	"github.com/coursehub/coursehub/core/enrollment"
	"github.com/coursehub/coursehub/core/stats"
	"github.com/coursehub/coursehub/random"
)

type statsTest struct {
	*TestEnv
}

func TestAdminStats(t *testing.T) {
	env, err := NewTestEnv(t, "stats_test")
	if err != nil {
		t.Fatalf("initializing test env: %v", err)
	}

	st := &statsTest{env}
	ct := &courseTest{env}

	category := "programming"
	published := ct.createCourseOK(t, course.CourseNew{
		Slug:     "course-a-" + strings.ToLower(random.String(6)),
		Title:    "Course A",
		Status:   course.StatusPublished,
		Category: &category,
	})
	ct.createCourseOK(t, course.CourseNew{
		Slug:  "course-b-" + strings.ToLower(random.String(6)),
		Title: "Course B",
	})

	st.Login(t, st.UserEmail, st.UserPass)
	w := st.postJSON(t, "/enroll", enrollment.EnrollmentNew{CourseID: published.ID})
	w.Body.Close()

	// The dashboard is admin-only.
	w = st.get(t, "/admin/stats")
	if w.StatusCode != http.StatusForbidden {
		t.Fatalf("student fetched admin stats: status code %s", w.Status)
	}
	w.Body.Close()
	st.Logout(t)

	w = st.get(t, "/admin/stats")
	if w.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anonymous fetched admin stats: status code %s", w.Status)
	}
	w.Body.Close()

	st.Login(t, st.AdminEmail, st.AdminPass)
	defer st.Logout(t)

	w = st.get(t, "/admin/stats")
	if w.StatusCode != http.StatusOK {
		t.Fatalf("can't fetch admin stats: status code %s", w.Status)
	}

	var snap stats.Snapshot
	decode(t, w, &snap)

	if snap.TotalCourses != 2 || snap.PublishedCourses != 1 || snap.DraftCourses != 1 {
		t.Fatalf("unexpected course counts: %+v", snap)
	}
	if snap.TotalUsers != 2 {
		t.Fatalf("expected 2 users, got %d", snap.TotalUsers)
	}
	if snap.TotalEnrollments != 1 || snap.EnrollmentsLast30Days != 1 {
		t.Fatalf("unexpected enrollment counts: %+v", snap)
	}

	// No enrollments in the previous window: growth reads as 0, not
	// infinity.
	if snap.EnrollmentGrowth != 0 {
		t.Fatalf("expected 0%% growth without a baseline, got %d", snap.EnrollmentGrowth)
	}

	if len(snap.RecentCourses) != 2 {
		t.Fatalf("expected 2 recent courses, got %d", len(snap.RecentCourses))
	}
	if len(snap.RecentEnrollments) != 1 {
		t.Fatalf("expected 1 recent enrollment, got %d", len(snap.RecentEnrollments))
	}

	if len(snap.CategoryStats) != 1 || snap.CategoryStats[0].Category != category || snap.CategoryStats[0].Count != 1 {
		t.Fatalf("unexpected category distribution: %+v", snap.CategoryStats)
	}

	// The admin console listing includes drafts.
	w = st.get(t, "/admin/courses")
	if w.StatusCode != http.StatusOK {
		t.Fatalf("can't list admin courses: status code %s", w.Status)
	}

	var all []course.Summary
	decode(t, w, &all)
	if len(all) != 2 {
		t.Fatalf("expected 2 courses in the admin listing, got %d", len(all))
	}
}
