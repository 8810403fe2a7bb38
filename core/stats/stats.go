package stats

import (
	"math"
	"time"
)

// Snapshot is the admin dashboard payload, computed on every request
// from several independent reads.
type Snapshot struct {
	TotalCourses          int                `json:"totalCourses"`
	TotalUsers            int                `json:"totalUsers"`
	TotalEnrollments      int                `json:"totalEnrollments"`
	PublishedCourses      int                `json:"publishedCourses"`
	DraftCourses          int                `json:"draftCourses"`
	RecentCourses         []RecentCourse     `json:"recentCourses"`
	RecentEnrollments     []RecentEnrollment `json:"recentEnrollments"`
	CategoryStats         []CategoryCount    `json:"categoryStats"`
	EnrollmentGrowth      int                `json:"enrollmentGrowth"`
	EnrollmentsLast30Days int                `json:"enrollmentsLast30Days"`
}

type RecentCourse struct {
	ID          string    `json:"id" db:"course_id"`
	Title       string    `json:"title" db:"title"`
	Slug        string    `json:"slug" db:"slug"`
	CreatedBy   string    `json:"createdBy" db:"created_by_name"`
	Enrollments int       `json:"enrollments" db:"enrollment_count"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

type RecentEnrollment struct {
	ID          string    `json:"id" db:"enrollment_id"`
	UserName    string    `json:"userName" db:"user_name"`
	UserEmail   string    `json:"userEmail" db:"user_email"`
	CourseTitle string    `json:"courseTitle" db:"course_title"`
	CourseSlug  string    `json:"courseSlug" db:"course_slug"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

type CategoryCount struct {
	Category string `json:"category" db:"category"`
	Count    int    `json:"count" db:"count"`
}

// Growth is the enrollment growth percentage between two 30-day
// windows. A zero baseline reads as 0% rather than undefined.
func Growth(prev30 int, last30 int) int {
	if prev30 <= 0 {
		return 0
	}
	return int(math.Round(float64(last30-prev30) / float64(prev30) * 100))
}
