package scheduling

import (
	"context"
	"fmt"

	"github.com/shrimpsizemoose/timetable/internal/models"
)

// CreateRecurringLesson adds a weekly slot unless it overlaps another lesson on that day.
func (s *Scheduler) CreateRecurringLesson(ctx context.Context, teacherID string, in models.LessonInput) (*models.RecurringLesson, error) {
	const op = "create-lesson"

	if err := in.Validate(); err != nil {
		return nil, invalid(op, err, "invalid lesson")
	}

	slot, err := s.admitWeeklySlot(ctx, op, teacherID, "", in)
	if err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = models.StatusScheduled
	}

	lesson := &models.RecurringLesson{
		ID:        s.newID(),
		TeacherID: teacherID,
		StudentID: in.StudentID,
		DayOfWeek: in.DayOfWeek,
		StartTime: slot.StartClock(),
		EndTime:   slot.EndClock(),
		Topic:     in.Topic,
		Status:    status,
		Note:      in.Note,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.CreateLesson(ctx, lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

// UpdateRecurringLesson replaces the weekly slot and details of a lesson.
// An empty status or note keeps the stored value.
func (s *Scheduler) UpdateRecurringLesson(ctx context.Context, teacherID, lessonID string, in models.LessonInput) (*models.RecurringLesson, error) {
	const op = "update-lesson"

	lesson, err := s.ownedLesson(ctx, op, teacherID, lessonID)
	if err != nil {
		return nil, err
	}

	if err := in.Validate(); err != nil {
		return nil, invalid(op, err, "invalid lesson")
	}

	slot, err := s.admitWeeklySlot(ctx, op, teacherID, lessonID, in)
	if err != nil {
		return nil, err
	}

	lesson.StudentID = in.StudentID
	lesson.DayOfWeek = in.DayOfWeek
	lesson.StartTime = slot.StartClock()
	lesson.EndTime = slot.EndClock()
	lesson.Topic = in.Topic
	if in.Status != "" {
		lesson.Status = in.Status
	}
	if in.Note != "" {
		lesson.Note = in.Note
	}

	ok, err := s.store.UpdateLesson(ctx, lesson)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, notFound(op, "lesson %s not found", lessonID)
	}
	return lesson, nil
}

// admitWeeklySlot checks a weekly slot against the teacher's other recurring
// lessons on the same day. Overrides are ignored: a recurring change applies
// to every future week, not to one date.
func (s *Scheduler) admitWeeklySlot(ctx context.Context, op, teacherID, selfID string, in models.LessonInput) (Slot, error) {
	slot, err := ParseSlot(in.StartTime, in.EndTime)
	if err != nil {
		return Slot{}, invalid(op, err, "invalid lesson time")
	}
	if !slot.Valid() {
		return Slot{}, invalid(op, nil, "end time %s must be after start time %s", slot.EndClock(), slot.StartClock())
	}

	lessons, err := s.store.ListLessonsByDay(ctx, teacherID, in.DayOfWeek)
	if err != nil {
		return Slot{}, err
	}
	for _, other := range lessons {
		if selfID != "" && other.ID == selfID {
			continue
		}
		booked, err := ParseSlot(other.StartTime, other.EndTime)
		if err != nil {
			return Slot{}, fmt.Errorf("lesson %s has a broken slot: %w", other.ID, err)
		}
		if slot.Overlaps(booked) {
			return Slot{}, invalid(op, nil, "you already have a lesson at %s, pick another time", booked)
		}
	}

	return slot, nil
}
