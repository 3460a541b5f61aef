package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/shrimpsizemoose/timetable/internal/calendar"
)

// Slot is a half-open [Start, End) interval in minutes since midnight.
type Slot struct {
	Start int
	End   int
}

// ParseSlot converts a pair of "HH:MM" clocks into a Slot.
func ParseSlot(start, end string) (Slot, error) {
	s, err := calendar.ParseClock(start)
	if err != nil {
		return Slot{}, err
	}
	e, err := calendar.ParseClock(end)
	if err != nil {
		return Slot{}, err
	}
	return Slot{Start: s, End: e}, nil
}

func (s Slot) Valid() bool {
	return s.End > s.Start
}

func (s Slot) Overlaps(other Slot) bool {
	return IntervalsOverlap(s.Start, s.End, other.Start, other.End)
}

func (s Slot) StartClock() string { return calendar.FormatClock(s.Start) }
func (s Slot) EndClock() string   { return calendar.FormatClock(s.End) }

func (s Slot) String() string {
	return s.StartClock() + "-" + s.EndClock()
}

// IntervalsOverlap reports whether [aStart, aEnd) and [bStart, bEnd) share a
// minute. Touching intervals do not overlap; an empty or inverted interval
// overlaps everything.
func IntervalsOverlap(aStart, aEnd, bStart, bEnd int) bool {
	if aEnd <= aStart || bEnd <= bStart {
		return true
	}
	return aStart < bEnd && aEnd > bStart
}

// FindConflict returns the first booked slot of the teacher on date that
// overlaps slot, or nil. Recurring lessons on the same weekday and overrides
// landing on the same date are both considered; excludeLessonID (and any
// override of that lesson) is skipped.
func (s *Scheduler) FindConflict(ctx context.Context, teacherID string, date time.Time, slot Slot, excludeLessonID string) (*Slot, error) {
	if !slot.Valid() {
		return &slot, nil
	}

	lessons, err := s.store.ListLessonsByDay(ctx, teacherID, calendar.Weekday(date))
	if err != nil {
		return nil, fmt.Errorf("failed to load lessons: %w", err)
	}
	for _, lesson := range lessons {
		if excludeLessonID != "" && lesson.ID == excludeLessonID {
			continue
		}
		booked, err := ParseSlot(lesson.StartTime, lesson.EndTime)
		if err != nil {
			return nil, fmt.Errorf("lesson %s has a broken slot: %w", lesson.ID, err)
		}
		if slot.Overlaps(booked) {
			return &booked, nil
		}
	}

	overrides, err := s.store.ListOverridesByDate(ctx, teacherID, calendar.FormatDate(date))
	if err != nil {
		return nil, fmt.Errorf("failed to load overrides: %w", err)
	}
	for _, ov := range overrides {
		if excludeLessonID != "" && ov.LessonID == excludeLessonID {
			continue
		}
		booked, err := ParseSlot(ov.NewStartTime, ov.NewEndTime)
		if err != nil {
			return nil, fmt.Errorf("override %s has a broken slot: %w", ov.ID, err)
		}
		if slot.Overlaps(booked) {
			return &booked, nil
		}
	}

	return nil, nil
}

// HasConflict reports whether FindConflict would find a booked slot.
func (s *Scheduler) HasConflict(ctx context.Context, teacherID string, date time.Time, slot Slot, excludeLessonID string) (bool, error) {
	booked, err := s.FindConflict(ctx, teacherID, date, slot, excludeLessonID)
	if err != nil {
		return false, err
	}
	return booked != nil, nil
}
