package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shrimpsizemoose/timetable/internal/calendar"
	"github.com/shrimpsizemoose/timetable/internal/models"
	"github.com/shrimpsizemoose/timetable/internal/store"
)

// RequestOneTimeReschedule moves a single occurrence of a lesson to another
// slot inside the same ISO week. Nothing is written unless every check passes.
func (s *Scheduler) RequestOneTimeReschedule(ctx context.Context, teacherID, lessonID string, req models.RescheduleRequest) (*models.Override, error) {
	const op = "reschedule"

	lesson, err := s.ownedLesson(ctx, op, teacherID, lessonID)
	if err != nil {
		return nil, err
	}

	if err := req.Validate(); err != nil {
		return nil, invalid(op, err, "invalid reschedule request")
	}

	return s.admitOverride(ctx, op, lesson, req.Occurrence, req.NewSlot)
}

// MarkNotAttendedAndMaybeReschedule records the occurrence as missed and,
// when asked to, reschedules it. The not_attended mark is committed first and
// stays even if the reschedule is rejected.
func (s *Scheduler) MarkNotAttendedAndMaybeReschedule(ctx context.Context, teacherID, lessonID string, req models.NotAttendedRequest) (*models.NotAttendedResult, error) {
	const op = "not-attended"

	lesson, err := s.ownedLesson(ctx, op, teacherID, lessonID)
	if err != nil {
		return nil, err
	}

	if err := req.Validate(); err != nil {
		return nil, invalid(op, err, "invalid not-attended request")
	}
	if _, err := occurrenceDate(op, lesson, req.OriginalDate); err != nil {
		return nil, err
	}

	ok, err := s.store.UpdateLessonStatus(ctx, teacherID, lessonID, models.StatusNotAttended, req.Reason)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, notFound(op, "lesson %s not found", lessonID)
	}

	if !req.Reschedule {
		return &models.NotAttendedResult{Rescheduled: false}, nil
	}

	if err := req.NewSlot.Validate(); err != nil {
		return nil, invalid(op, err, "new date, start and end time are required to reschedule")
	}

	override, err := s.admitOverride(ctx, op, lesson, req.Occurrence, req.NewSlot)
	if err != nil {
		return nil, err
	}

	return &models.NotAttendedResult{
		Rescheduled: true,
		OverrideID:  override.ID,
	}, nil
}

func (s *Scheduler) admitOverride(ctx context.Context, op string, lesson *models.RecurringLesson, occ models.Occurrence, dst models.NewSlot) (*models.Override, error) {
	originalDate, err := occurrenceDate(op, lesson, occ.OriginalDate)
	if err != nil {
		return nil, err
	}
	newDate, err := calendar.ParseDate(dst.NewDate)
	if err != nil {
		return nil, invalid(op, err, "invalid new date")
	}

	if !calendar.SameWeek(originalDate, newDate) {
		return nil, invalid(op, nil,
			"reschedule must stay within ISO week %s, got %s",
			calendar.WeekKey(originalDate),
			calendar.WeekKey(newDate),
		)
	}

	slot, err := ParseSlot(dst.NewStartTime, dst.NewEndTime)
	if err != nil {
		return nil, invalid(op, err, "invalid new time")
	}
	if !slot.Valid() {
		return nil, invalid(op, nil, "end time %s must be after start time %s", slot.EndClock(), slot.StartClock())
	}

	weekKey := calendar.WeekKey(originalDate)

	existing, err := s.store.GetOverride(ctx, lesson.ID, weekKey)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, conflict(op, nil, "lesson %s is already rescheduled in week %s", lesson.ID, weekKey)
	}

	booked, err := s.FindConflict(ctx, lesson.TeacherID, newDate, slot, lesson.ID)
	if err != nil {
		return nil, err
	}
	if booked != nil {
		return nil, conflict(op, nil, "%s on %s overlaps another lesson at %s", slot, dst.NewDate, booked)
	}

	override := &models.Override{
		ID:           s.newID(),
		LessonID:     lesson.ID,
		TeacherID:    lesson.TeacherID,
		StudentID:    lesson.StudentID,
		WeekKey:      weekKey,
		OriginalDate: calendar.FormatDate(originalDate),
		NewDate:      calendar.FormatDate(newDate),
		NewStartTime: slot.StartClock(),
		NewEndTime:   slot.EndClock(),
		Reason:       occ.Reason,
		CreatedAt:    s.now().UTC(),
	}

	// the existence check above is only a fast path, the unique index decides
	if err := s.store.CreateOverride(ctx, override); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return nil, conflict(op, err, "lesson %s is already rescheduled in week %s", lesson.ID, weekKey)
		}
		return nil, fmt.Errorf("failed to save override: %w", err)
	}

	return override, nil
}

// occurrenceDate parses value and checks that the lesson actually takes place
// on that day.
func occurrenceDate(op string, lesson *models.RecurringLesson, value string) (time.Time, error) {
	date, err := calendar.ParseDate(value)
	if err != nil {
		return time.Time{}, invalid(op, err, "invalid original date")
	}
	if day := calendar.Weekday(date); day != lesson.DayOfWeek {
		return time.Time{}, invalid(op, nil,
			"original date %s is a %s, lesson %s takes place on %s",
			value,
			calendar.WeekdayName(day),
			lesson.ID,
			calendar.WeekdayName(lesson.DayOfWeek),
		)
	}
	return date, nil
}
