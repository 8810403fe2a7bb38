package course

import "time"

const (
	StatusDraft     = "DRAFT"
	StatusPublished = "PUBLISHED"
)

type Course struct {
	ID           string    `json:"id" db:"course_id"`
	Slug         string    `json:"slug" db:"slug"`
	Title        string    `json:"title" db:"title"`
	Subtitle     string    `json:"subtitle" db:"subtitle"`
	Description  string    `json:"description" db:"description"`
	PriceCents   int       `json:"priceCents" db:"price_cents"`
	Status       string    `json:"status" db:"status"`
	Category     *string   `json:"category" db:"category"`
	Level        *string   `json:"level" db:"level"`
	Language     *string   `json:"language" db:"language"`
	ThumbnailURL string    `json:"thumbnailUrl" db:"thumbnail_url"`
	CreatedBy    string    `json:"createdById" db:"created_by"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
	Version      int       `json:"-" db:"version"`
}

type CourseNew struct {
	Slug         string  `json:"slug" validate:"required"`
	Title        string  `json:"title" validate:"required"`
	Subtitle     string  `json:"subtitle"`
	Description  string  `json:"description"`
	PriceCents   int     `json:"priceCents" validate:"gte=0"`
	Status       string  `json:"status" validate:"omitempty,oneof=DRAFT PUBLISHED"`
	Category     *string `json:"category"`
	Level        *string `json:"level"`
	Language     *string `json:"language"`
	ThumbnailURL string  `json:"thumbnailUrl"`
}

type CourseUp struct {
	Title        *string `json:"title"`
	Subtitle     *string `json:"subtitle"`
	Description  *string `json:"description"`
	PriceCents   *int    `json:"priceCents" validate:"omitempty,gte=0"`
	Status       *string `json:"status" validate:"omitempty,oneof=DRAFT PUBLISHED"`
	Category     *string `json:"category"`
	Level        *string `json:"level"`
	Language     *string `json:"language"`
	ThumbnailURL *string `json:"thumbnailUrl"`
}

type Section struct {
	ID       string   `json:"id" db:"section_id"`
	CourseID string   `json:"courseId" db:"course_id"`
	Title    string   `json:"title" db:"title"`
	Order    int      `json:"order" db:"index"`
	Lessons  []Lesson `json:"lessons" db:"-"`
}

type SectionNew struct {
	Title string `json:"title" validate:"required"`
	Order int    `json:"order" validate:"gte=0"`
}

type Lesson struct {
	ID          string `json:"id" db:"lesson_id"`
	SectionID   string `json:"sectionId" db:"section_id"`
	Title       string `json:"title" db:"title"`
	Slug        string `json:"slug" db:"slug"`
	Order       int    `json:"order" db:"index"`
	VideoURL    string `json:"videoUrl" db:"video_url"`
	DurationSec *int   `json:"durationSec" db:"duration_sec"`
	FreePreview bool   `json:"freePreview" db:"free_preview"`
}

type LessonNew struct {
	Title       string `json:"title" validate:"required"`
	Slug        string `json:"slug" validate:"required"`
	Order       int    `json:"order" validate:"gte=0"`
	VideoURL    string `json:"videoUrl" validate:"omitempty,url"`
	DurationSec *int   `json:"durationSec" validate:"omitempty,gte=0"`
	FreePreview bool   `json:"freePreview"`
}

type Instructor struct {
	ID       string `json:"id" db:"instructor_id"`
	Name     string `json:"name" db:"instructor_name"`
	ImageURL string `json:"image" db:"instructor_image"`
}

// Stats is the derived block computed on every catalog and detail
// read; none of it is stored.
type Stats struct {
	EnrollmentCount int     `json:"enrollmentCount" db:"enrollment_count"`
	ReviewCount     int     `json:"reviewCount" db:"review_count"`
	AverageRating   float64 `json:"averageRating" db:"average_rating"`
	TotalLessons    int     `json:"totalLessons" db:"total_lessons"`
}

type Summary struct {
	Course
	Instructor Instructor `json:"instructor"`
	Stats      Stats      `json:"stats"`
	Tags       []string   `json:"tags"`
}

const (
	SortPopularity = "popularity"
	SortRating     = "rating"
	SortNewest     = "newest"
	SortPriceLow   = "price-low"
	SortPriceHigh  = "price-high"
)

// Filter narrows and orders a catalog listing. Price bounds are in
// dollars and compare against price_cents.
type Filter struct {
	Category string
	Level    string
	Search   string
	SortBy   string
	MinPrice *int
	MaxPrice *int
}

type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	TotalCount int  `json:"totalCount"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// NewPagination derives the pagination block from a total row count.
func NewPagination(page int, limit int, totalCount int) Pagination {
	totalPages := (totalCount + limit - 1) / limit
	return Pagination{
		Page:       page,
		Limit:      limit,
		TotalCount: totalCount,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}
