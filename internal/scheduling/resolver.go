package scheduling

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/timetable/internal/calendar"
	"github.com/shrimpsizemoose/timetable/internal/models"
)

type placedOccurrence struct {
	start int
	occ   models.EffectiveOccurrence
}

// ResolveDaySchedule merges the teacher's weekly lessons for the weekday of
// date with the overrides of its ISO week. Lessons moved away from date are
// left out, lessons moved onto date show up with status "rescheduled".
// The result is ordered by start time; equal starts keep their merge order.
func (s *Scheduler) ResolveDaySchedule(ctx context.Context, teacherID string, date time.Time) ([]models.EffectiveOccurrence, error) {
	day := calendar.Day(date)
	dateKey := calendar.FormatDate(day)

	overrides, err := s.store.ListOverridesByWeek(ctx, teacherID, calendar.WeekKey(day))
	if err != nil {
		return nil, err
	}

	movedAway := make(map[string]struct{})
	var movedIn []models.Override
	for _, ov := range overrides {
		if ov.OriginalDate == dateKey {
			movedAway[ov.LessonID] = struct{}{}
		}
		if ov.NewDate == dateKey {
			movedIn = append(movedIn, ov)
		}
	}

	lessons, err := s.store.ListLessonsByDay(ctx, teacherID, calendar.Weekday(day))
	if err != nil {
		return nil, err
	}

	names := make(map[string]string)
	placed := make([]placedOccurrence, 0, len(lessons)+len(movedIn))

	for _, lesson := range lessons {
		if _, ok := movedAway[lesson.ID]; ok {
			continue
		}
		slot, err := ParseSlot(lesson.StartTime, lesson.EndTime)
		if err != nil {
			return nil, fmt.Errorf("lesson %s has a broken slot: %w", lesson.ID, err)
		}
		name, err := s.studentName(ctx, teacherID, lesson.StudentID, names)
		if err != nil {
			return nil, err
		}
		placed = append(placed, placedOccurrence{
			start: slot.Start,
			occ: models.EffectiveOccurrence{
				LessonID:    lesson.ID,
				StudentName: name,
				StartTime:   lesson.StartTime,
				EndTime:     lesson.EndTime,
				Topic:       lesson.Topic,
				Status:      lesson.Status,
			},
		})
	}

	for _, ov := range movedIn {
		lesson, err := s.store.GetLesson(ctx, teacherID, ov.LessonID)
		if err != nil {
			return nil, err
		}
		if lesson == nil {
			logger.Debug.Printf("Override %s points to deleted lesson %s, skipping", ov.ID, ov.LessonID)
			continue
		}
		slot, err := ParseSlot(ov.NewStartTime, ov.NewEndTime)
		if err != nil {
			return nil, fmt.Errorf("override %s has a broken slot: %w", ov.ID, err)
		}
		name, err := s.studentName(ctx, teacherID, lesson.StudentID, names)
		if err != nil {
			return nil, err
		}
		placed = append(placed, placedOccurrence{
			start: slot.Start,
			occ: models.EffectiveOccurrence{
				LessonID:    lesson.ID,
				StudentName: name,
				StartTime:   ov.NewStartTime,
				EndTime:     ov.NewEndTime,
				Topic:       lesson.Topic,
				Status:      models.StatusRescheduled,
			},
		})
	}

	slices.SortStableFunc(placed, func(a, b placedOccurrence) int {
		return a.start - b.start
	})

	result := make([]models.EffectiveOccurrence, 0, len(placed))
	for _, p := range placed {
		result = append(result, p.occ)
	}
	return result, nil
}

// ResolveWeekDays lists the Monday..Sunday dates of the ISO week containing date.
func ResolveWeekDays(date time.Time) calendar.WeekDays {
	return calendar.Week(date)
}

func (s *Scheduler) ResolveWeekSchedule(ctx context.Context, teacherID string, date time.Time) (*models.WeekSchedule, error) {
	week := ResolveWeekDays(date)
	monday := calendar.StartOfWeek(date)

	schedule := &models.WeekSchedule{
		WeekKey: week.WeekKey,
		Days:    make([]models.DaySchedule, 0, len(week.Days)),
	}
	for i, dateKey := range week.Days {
		lessons, err := s.ResolveDaySchedule(ctx, teacherID, monday.AddDate(0, 0, i))
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", dateKey, err)
		}
		schedule.Days = append(schedule.Days, models.DaySchedule{
			Date:    dateKey,
			Lessons: lessons,
		})
	}
	return schedule, nil
}

// studentName looks the student up once per resolve. A missing student
// yields an empty name rather than hiding the lesson.
func (s *Scheduler) studentName(ctx context.Context, teacherID, studentID string, cache map[string]string) (string, error) {
	if name, ok := cache[studentID]; ok {
		return name, nil
	}
	student, err := s.store.GetStudent(ctx, teacherID, studentID)
	if err != nil {
		return "", err
	}
	name := ""
	if student != nil {
		name = student.FullName
	}
	cache[studentID] = name
	return name, nil
}
