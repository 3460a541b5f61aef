package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

type LessonStatus string

const (
	StatusScheduled   LessonStatus = "scheduled"
	StatusCompleted   LessonStatus = "completed"
	StatusCancelled   LessonStatus = "cancelled"
	StatusNotAttended LessonStatus = "not_attended"

	// StatusRescheduled never lands in the lessons table, it marks occurrences
	// produced by an override.
	StatusRescheduled LessonStatus = "rescheduled"
)

var validate = validator.New()

// RecurringLesson is one weekly slot of a teacher. DayOfWeek is 0 for Monday.
type RecurringLesson struct {
	ID        string       `db:"id" json:"id"`
	TeacherID string       `db:"teacher_id" json:"teacher_id"`
	StudentID string       `db:"student_id" json:"student_id"`
	DayOfWeek int          `db:"day_of_week" json:"day_of_week"`
	StartTime string       `db:"start_time" json:"start_time"`
	EndTime   string       `db:"end_time" json:"end_time"`
	Topic     string       `db:"topic" json:"topic"`
	Status    LessonStatus `db:"status" json:"status"`
	Note      string       `db:"note" json:"note"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
}

type LessonInput struct {
	StudentID string       `json:"student_id" validate:"required"`
	DayOfWeek int          `json:"day_of_week" validate:"min=0,max=6"`
	StartTime string       `json:"start_time" validate:"required,datetime=15:04"`
	EndTime   string       `json:"end_time" validate:"required,datetime=15:04"`
	Topic     string       `json:"topic" validate:"max=200"`
	Status    LessonStatus `json:"status" validate:"omitempty,oneof=scheduled completed cancelled not_attended"`
	Note      string       `json:"note" validate:"max=500"`
}

func (in *LessonInput) Validate() error {
	return validate.Struct(in)
}

// Student is the read-only part of the students collection the scheduler needs.
type Student struct {
	ID        string `db:"id" json:"id"`
	TeacherID string `db:"teacher_id" json:"teacher_id"`
	FullName  string `db:"full_name" json:"full_name"`
}
