// Package scheduling owns the weekly timetable rules: no double booking,
// one-time reschedules bounded to an ISO week, and the merged day view.
package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/shrimpsizemoose/timetable/internal/models"
	"github.com/shrimpsizemoose/timetable/internal/store"
)

type Scheduler struct {
	store store.LessonStore
	now   func() time.Time
	newID func() string
}

type Option func(*Scheduler)

// WithClock sets the clock used for created_at stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Scheduler) { s.newID = newID }
}

func NewScheduler(store store.LessonStore, opts ...Option) *Scheduler {
	s := &Scheduler{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scheduler) ownedLesson(ctx context.Context, op, teacherID, lessonID string) (*models.RecurringLesson, error) {
	lesson, err := s.store.GetLesson(ctx, teacherID, lessonID)
	if err != nil {
		return nil, err
	}
	if lesson == nil {
		return nil, notFound(op, "lesson %s not found", lessonID)
	}
	return lesson, nil
}
