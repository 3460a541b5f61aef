package scheduling

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/shrimpsizemoose/timetable/internal/models"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Close() error {
	return nil
}

func (m *MockStore) ApplyMigrations() error {
	return nil
}

func (m *MockStore) CreateLesson(ctx context.Context, lesson *models.RecurringLesson) error {
	args := m.Called(lesson)
	return args.Error(0)
}

func (m *MockStore) GetLesson(ctx context.Context, teacherID, lessonID string) (*models.RecurringLesson, error) {
	args := m.Called(teacherID, lessonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RecurringLesson), args.Error(1)
}

func (m *MockStore) ListLessonsByDay(ctx context.Context, teacherID string, dayOfWeek int) ([]models.RecurringLesson, error) {
	args := m.Called(teacherID, dayOfWeek)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RecurringLesson), args.Error(1)
}

func (m *MockStore) UpdateLesson(ctx context.Context, lesson *models.RecurringLesson) (bool, error) {
	args := m.Called(lesson)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) UpdateLessonStatus(ctx context.Context, teacherID, lessonID string, status models.LessonStatus, note string) (bool, error) {
	args := m.Called(teacherID, lessonID, status, note)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) CreateOverride(ctx context.Context, override *models.Override) error {
	args := m.Called(override)
	return args.Error(0)
}

func (m *MockStore) GetOverride(ctx context.Context, lessonID, weekKey string) (*models.Override, error) {
	args := m.Called(lessonID, weekKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Override), args.Error(1)
}

func (m *MockStore) ListOverridesByWeek(ctx context.Context, teacherID, weekKey string) ([]models.Override, error) {
	args := m.Called(teacherID, weekKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Override), args.Error(1)
}

func (m *MockStore) ListOverridesByDate(ctx context.Context, teacherID, newDate string) ([]models.Override, error) {
	args := m.Called(teacherID, newDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Override), args.Error(1)
}

func (m *MockStore) GetStudent(ctx context.Context, teacherID, studentID string) (*models.Student, error) {
	args := m.Called(teacherID, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Student), args.Error(1)
}
