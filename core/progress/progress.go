package progress

import "time"

// Progress is a student's watch state for one lesson, mutated in
// place on every heartbeat.
type Progress struct {
	UserID      string    `json:"userId" db:"user_id"`
	LessonID    string    `json:"lessonId" db:"lesson_id"`
	PositionSec int       `json:"positionSec" db:"position_sec"`
	Completed   bool      `json:"completed" db:"completed"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

type ProgressUp struct {
	LessonID    string `json:"lessonId" validate:"required"`
	PositionSec int    `json:"positionSec"`
	Completed   bool   `json:"completed"`
}
