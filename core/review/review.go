package review

import "time"

const (
	StatusVisible = "VISIBLE"
	StatusHidden  = "HIDDEN"
)

type Review struct {
	ID        string    `json:"id" db:"review_id"`
	UserID    string    `json:"userId" db:"user_id"`
	CourseID  string    `json:"courseId" db:"course_id"`
	Rating    int       `json:"rating" db:"rating"`
	Comment   *string   `json:"comment" db:"comment"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Rating is a pointer so an explicit 0 (clamped to 1) can be told
// apart from a missing field (rejected).
type ReviewNew struct {
	CourseID string  `json:"courseId" validate:"required"`
	Rating   *int    `json:"rating" validate:"required"`
	Comment  *string `json:"comment"`
}

// CourseReview is a review joined with its author's public profile,
// as shown on a course page.
type CourseReview struct {
	Review
	UserName  string `json:"userName" db:"user_name"`
	UserImage string `json:"userImage" db:"user_image"`
}

// Clamp forces a submitted rating into the 1..5 scale instead of
// rejecting out-of-range values.
func Clamp(rating int) int {
	if rating < 1 {
		return 1
	}
	if rating > 5 {
		return 5
	}
	return rating
}
