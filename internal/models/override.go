package models

import "time"

// Override moves a single occurrence of a recurring lesson inside its ISO week.
type Override struct {
	ID           string    `db:"id" json:"id"`
	LessonID     string    `db:"lesson_id" json:"lesson_id"`
	TeacherID    string    `db:"teacher_id" json:"teacher_id"`
	StudentID    string    `db:"student_id" json:"student_id"`
	WeekKey      string    `db:"week_key" json:"week_key"`
	OriginalDate string    `db:"original_date" json:"original_date"`
	NewDate      string    `db:"new_date" json:"new_date"`
	NewStartTime string    `db:"new_start_time" json:"new_start_time"`
	NewEndTime   string    `db:"new_end_time" json:"new_end_time"`
	Reason       string    `db:"reason" json:"reason"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// unique_together should be handled on DB level:
/*
CREATE TABLE lesson_overrides (
    ...
    CONSTRAINT lesson_overrides_lesson_week_key UNIQUE (lesson_id, week_key)
);
*/

// Occurrence identifies the dated occurrence a request is about.
type Occurrence struct {
	OriginalDate string `json:"original_date" validate:"required,datetime=2006-01-02"`
	Reason       string `json:"reason" validate:"required,max=500"`
}

type NewSlot struct {
	NewDate      string `json:"new_date" validate:"required,datetime=2006-01-02"`
	NewStartTime string `json:"new_start_time" validate:"required,datetime=15:04"`
	NewEndTime   string `json:"new_end_time" validate:"required,datetime=15:04"`
}

func (s *NewSlot) Validate() error {
	return validate.Struct(s)
}

// RescheduleRequest always carries the destination slot.
type RescheduleRequest struct {
	Occurrence
	NewSlot
}

func (r *RescheduleRequest) Validate() error {
	return validate.Struct(r)
}

// NotAttendedRequest marks an occurrence missed. The destination slot is only
// looked at when Reschedule is set.
type NotAttendedRequest struct {
	Occurrence
	Reschedule bool `json:"reschedule"`
	NewSlot    `validate:"-"`
}

func (r *NotAttendedRequest) Validate() error {
	return validate.Struct(r)
}

type NotAttendedResult struct {
	Rescheduled bool   `json:"rescheduled"`
	OverrideID  string `json:"override_id,omitempty"`
}
