package enrollment

import (
	"math"
	"time"

	"github.com/coursehub/coursehub/core/course"
)

type Enrollment struct {
	ID        string    `json:"id" db:"enrollment_id"`
	UserID    string    `json:"userId" db:"user_id"`
	CourseID  string    `json:"courseId" db:"course_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type EnrollmentNew struct {
	CourseID string `json:"courseId" validate:"required"`
}

// LessonPointer identifies the lesson a fresh learner should land on.
type LessonPointer struct {
	CourseSlug string `json:"courseSlug" db:"course_slug"`
	LessonSlug string `json:"lessonSlug" db:"lesson_slug"`
}

// OwnedLesson is a lesson annotated with the owning student's watch
// state.
type OwnedLesson struct {
	course.Lesson
	PositionSec int  `json:"positionSec"`
	Completed   bool `json:"completed"`
}

type OwnedSection struct {
	ID      string        `json:"id"`
	Title   string        `json:"title"`
	Order   int           `json:"order"`
	Lessons []OwnedLesson `json:"lessons"`
}

// OwnedCourse is an enrolled course with the student's per-lesson
// progress and derived completion figures.
type OwnedCourse struct {
	course.Course
	Sections           []OwnedSection `json:"sections"`
	CompletedLessons   int            `json:"completedLessons"`
	TotalLessons       int            `json:"totalLessons"`
	ProgressPercentage int            `json:"progressPercentage"`
}

// ProgressPercent is the completed share of a course's lessons as a
// whole percentage; courses without lessons sit at 0.
func ProgressPercent(completed int, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}
