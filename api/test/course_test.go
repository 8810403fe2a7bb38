package test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/coursehub/coursehub/core/course"
	"github.com/coursehub/coursehub/core/enrollment"
	"github.com/coursehub/coursehub/core/review"
	"github.com/coursehub/coursehub/random"
)

type courseTest struct {
	*TestEnv
}

func TestCourse(t *testing.T) {
	env, err := NewTestEnv(t, "course_test")
	if err != nil {
		t.Fatalf("initializing test env: %v", err)
	}

	ct := &courseTest{env}

	// Creating a course requires the admin role.
	ct.Login(t, ct.UserEmail, ct.UserPass)
	w := ct.postJSON(t, "/courses", course.CourseNew{Slug: "nope", Title: "nope"})
	if w.StatusCode != http.StatusForbidden {
		t.Fatalf("student created a course: status code %s", w.Status)
	}
	w.Body.Close()
	ct.Logout(t)

	w = ct.postJSON(t, "/courses", course.CourseNew{Slug: "nope", Title: "nope"})
	if w.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anonymous course creation: status code %s", w.Status)
	}
	w.Body.Close()

	// Status omitted: the course is stored as a draft and stays out
	// of the public catalog until published.
	draft := ct.createCourseOK(t, course.CourseNew{
		Slug:  "go-basics-" + strings.ToLower(random.String(6)),
		Title: "Go Basics",
	})
	if draft.Status != course.StatusDraft {
		t.Fatalf("expected status %s, got %s", course.StatusDraft, draft.Status)
	}

	page := ct.catalogOK(t, "")
	if len(page.Courses) != 0 {
		t.Fatalf("draft course leaked into the catalog: %d courses", len(page.Courses))
	}

	status := course.StatusPublished
	ct.updateCourseOK(t, draft.Slug, course.CourseUp{Status: &status})

	page = ct.catalogOK(t, "")
	if len(page.Courses) != 1 {
		t.Fatalf("expected 1 published course, got %d", len(page.Courses))
	}
	if page.Pagination.TotalCount != 1 || page.Pagination.TotalPages != 1 {
		t.Fatalf("unexpected pagination: %+v", page.Pagination)
	}

	// Curriculum building and the detail aggregation.
	sec := ct.createSectionOK(t, draft.Slug, course.SectionNew{Title: "Introduction", Order: 1})
	ct.createLessonOK(t, draft.Slug, sec.ID, course.LessonNew{Title: "Hello", Slug: "hello", Order: 1})
	ct.createLessonOK(t, draft.Slug, sec.ID, course.LessonNew{Title: "World", Slug: "world", Order: 2})

	detail := ct.showCourseOK(t, draft.Slug)
	if got := len(detail.Sections); got != 1 {
		t.Fatalf("expected 1 section, got %d", got)
	}
	if got := len(detail.Sections[0].Lessons); got != 2 {
		t.Fatalf("expected 2 lessons, got %d", got)
	}
	if detail.Stats.TotalLessons != 2 {
		t.Fatalf("expected totalLessons 2, got %d", detail.Stats.TotalLessons)
	}
	if detail.Stats.AverageRating != 0 {
		t.Fatalf("expected averageRating 0 without reviews, got %v", detail.Stats.AverageRating)
	}
	if detail.IsEnrolled {
		t.Fatal("anonymous viewer cannot be enrolled")
	}

	w = ct.get(t, "/courses/no-such-slug")
	if w.StatusCode != http.StatusNotFound {
		t.Fatalf("missing course: status code %s", w.Status)
	}
	w.Body.Close()

	// Substring search and level filtering.
	level := "BEGINNER"
	other := ct.createCourseOK(t, course.CourseNew{
		Slug:   "rust-advanced-" + strings.ToLower(random.String(6)),
		Title:  "Advanced Rust",
		Status: course.StatusPublished,
		Level:  &level,
	})

	page = ct.catalogOK(t, "search=rust")
	if len(page.Courses) != 1 || page.Courses[0].ID != other.ID {
		t.Fatalf("search did not isolate the rust course: %+v", page.Courses)
	}

	page = ct.catalogOK(t, "level=BEGINNER")
	if len(page.Courses) != 1 || page.Courses[0].ID != other.ID {
		t.Fatalf("level filter did not isolate the rust course: %+v", page.Courses)
	}

	// Malformed paging falls back to defaults instead of failing.
	page = ct.catalogOK(t, "page=banana&limit=banana")
	if page.Pagination.Page != 1 || page.Pagination.Limit != 20 {
		t.Fatalf("unexpected fallback pagination: %+v", page.Pagination)
	}
}

func TestFeaturedCourses(t *testing.T) {
	env, err := NewTestEnv(t, "featured_test")
	if err != nil {
		t.Fatalf("initializing test env: %v", err)
	}

	ct := &courseTest{env}

	popular := ct.createCourseOK(t, course.CourseNew{
		Slug:   "popular-" + strings.ToLower(random.String(6)),
		Title:  "Popular",
		Status: course.StatusPublished,
	})
	middling := ct.createCourseOK(t, course.CourseNew{
		Slug:   "middling-" + strings.ToLower(random.String(6)),
		Title:  "Middling",
		Status: course.StatusPublished,
	})
	reviewed := ct.createCourseOK(t, course.CourseNew{
		Slug:   "reviewed-" + strings.ToLower(random.String(6)),
		Title:  "Reviewed",
		Status: course.StatusPublished,
	})
	ignored := ct.createCourseOK(t, course.CourseNew{
		Slug:   "ignored-" + strings.ToLower(random.String(6)),
		Title:  "Ignored",
		Status: course.StatusPublished,
	})
	ct.createCourseOK(t, course.CourseNew{
		Slug:  "hidden-draft-" + strings.ToLower(random.String(6)),
		Title: "Hidden Draft",
	})

	// Two enrollments for the popular course, one for the middling
	// one. The reviewed and ignored courses have none; a review breaks
	// that tie.
	ct.Login(t, ct.UserEmail, ct.UserPass)
	for _, id := range []string{popular.ID, middling.ID} {
		w := ct.postJSON(t, "/enroll", enrollment.EnrollmentNew{CourseID: id})
		if w.StatusCode != http.StatusCreated {
			t.Fatalf("can't enroll: status code %s", w.Status)
		}
		w.Body.Close()
	}

	five := 5
	w := ct.postJSON(t, "/reviews", review.ReviewNew{CourseID: reviewed.ID, Rating: &five})
	if w.StatusCode != http.StatusOK {
		t.Fatalf("can't review: status code %s", w.Status)
	}
	w.Body.Close()
	ct.Logout(t)

	ct.Login(t, ct.AdminEmail, ct.AdminPass)
	w = ct.postJSON(t, "/enroll", enrollment.EnrollmentNew{CourseID: popular.ID})
	if w.StatusCode != http.StatusCreated {
		t.Fatalf("can't enroll as admin: status code %s", w.Status)
	}
	w.Body.Close()
	ct.Logout(t)

	w = ct.get(t, "/courses/featured")
	if w.StatusCode != http.StatusOK {
		t.Fatalf("can't list featured courses: status code %s", w.Status)
	}

	var resp struct {
		Courses []course.Summary `json:"courses"`
	}
	decode(t, w, &resp)

	if len(resp.Courses) != 4 {
		t.Fatalf("expected 4 featured courses, the draft excluded, got %d", len(resp.Courses))
	}

	wantOrder := []string{popular.ID, middling.ID, reviewed.ID, ignored.ID}
	for i, want := range wantOrder {
		if resp.Courses[i].ID != want {
			t.Fatalf("unexpected featured order at %d: got %s (%s)", i, resp.Courses[i].ID, resp.Courses[i].Title)
		}
	}
}

type catalogPage struct {
	Courses    []course.Summary  `json:"courses"`
	Pagination course.Pagination `json:"pagination"`
}

func (ct *courseTest) catalogOK(t *testing.T, query string) catalogPage {
	t.Helper()

	path := "/courses"
	if query != "" {
		path += "?" + query
	}

	w := ct.get(t, path)
	if w.StatusCode != http.StatusOK {
		t.Fatalf("can't list courses: status code %s", w.Status)
	}

	var page catalogPage
	decode(t, w, &page)
	return page
}

func (ct *courseTest) createCourseOK(t *testing.T, cn course.CourseNew) course.Course {
	t.Helper()

	ct.Login(t, ct.AdminEmail, ct.AdminPass)
	defer ct.Logout(t)

	w := ct.postJSON(t, "/courses", cn)
	if w.StatusCode != http.StatusCreated {
		t.Fatalf("can't create course: status code %s", w.Status)
	}

	var c course.Course
	decode(t, w, &c)
	return c
}

func (ct *courseTest) updateCourseOK(t *testing.T, slug string, cu course.CourseUp) course.Course {
	t.Helper()

	ct.Login(t, ct.AdminEmail, ct.AdminPass)
	defer ct.Logout(t)

	w := ct.patchJSON(t, "/courses/"+slug, cu)
	if w.StatusCode != http.StatusOK {
		t.Fatalf("can't update course: status code %s", w.Status)
	}

	var c course.Course
	decode(t, w, &c)
	return c
}

func (ct *courseTest) createSectionOK(t *testing.T, slug string, sn course.SectionNew) course.Section {
	t.Helper()

	ct.Login(t, ct.AdminEmail, ct.AdminPass)
	defer ct.Logout(t)

	w := ct.postJSON(t, fmt.Sprintf("/courses/%s/sections", slug), sn)
	if w.StatusCode != http.StatusCreated {
		t.Fatalf("can't create section: status code %s", w.Status)
	}

	var s course.Section
	decode(t, w, &s)
	return s
}

func (ct *courseTest) createLessonOK(t *testing.T, slug string, sectionID string, ln course.LessonNew) course.Lesson {
	t.Helper()

	ct.Login(t, ct.AdminEmail, ct.AdminPass)
	defer ct.Logout(t)

	w := ct.postJSON(t, fmt.Sprintf("/courses/%s/sections/%s/lessons", slug, sectionID), ln)
	if w.StatusCode != http.StatusCreated {
		t.Fatalf("can't create lesson: status code %s", w.Status)
	}

	var l course.Lesson
	decode(t, w, &l)
	return l
}

func (ct *courseTest) showCourseOK(t *testing.T, slug string) course.Detail {
	t.Helper()

	w := ct.get(t, "/courses/"+slug)
	if w.StatusCode != http.StatusOK {
		t.Fatalf("can't show course: status code %s", w.Status)
	}

	var d course.Detail
	decode(t, w, &d)
	return d
}
