package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/timetable/internal/models"
)

// LessonStore is everything the scheduler reads and writes. All queries are
// scoped by teacher except the override uniqueness lookup, which is keyed by
// lesson id alone.
type LessonStore interface {
	Close() error
	ApplyMigrations() error

	CreateLesson(ctx context.Context, lesson *models.RecurringLesson) error
	GetLesson(ctx context.Context, teacherID, lessonID string) (*models.RecurringLesson, error)
	ListLessonsByDay(ctx context.Context, teacherID string, dayOfWeek int) ([]models.RecurringLesson, error)
	UpdateLesson(ctx context.Context, lesson *models.RecurringLesson) (bool, error)
	UpdateLessonStatus(ctx context.Context, teacherID, lessonID string, status models.LessonStatus, note string) (bool, error)

	// CreateOverride returns ErrDuplicateKey when an override for the same
	// (lesson_id, week_key) already exists.
	CreateOverride(ctx context.Context, override *models.Override) error
	GetOverride(ctx context.Context, lessonID, weekKey string) (*models.Override, error)
	ListOverridesByWeek(ctx context.Context, teacherID, weekKey string) ([]models.Override, error)
	ListOverridesByDate(ctx context.Context, teacherID, newDate string) ([]models.Override, error)

	GetStudent(ctx context.Context, teacherID, studentID string) (*models.Student, error)
}

// BaseStore provides common functionality for different DB implementations
type BaseStore struct {
	DB                *sqlx.DB
	Converter         func(string) string
	IsUniqueViolation func(error) bool
}

func (s *BaseStore) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}

// ApplyMigrations applies SQL migrations from fsys in name order, translating dialect if needed
func (s *BaseStore) ApplyMigrations(fsys fs.FS, translateSQL func(string) string) error {
	files, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, file := range files {
		if !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		content, err := fs.ReadFile(fsys, file.Name())
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file.Name(), err)
		}

		sql := string(content)
		if translateSQL != nil {
			sql = translateSQL(sql)
		}

		logger.Debug.Printf("Applying migration: %s", file.Name())
		if _, err := s.DB.Exec(sql); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file.Name(), err)
		}
	}

	return nil
}

func (s *BaseStore) CreateLesson(ctx context.Context, lesson *models.RecurringLesson) error {
	_, err := s.DB.NamedExecContext(ctx, `
		INSERT INTO lessons (id, teacher_id, student_id, day_of_week, start_time, end_time, topic, status, note, created_at)
		VALUES (:id, :teacher_id, :student_id, :day_of_week, :start_time, :end_time, :topic, :status, :note, :created_at)
	`, lesson)
	if err != nil {
		return fmt.Errorf("failed to create lesson: %w", err)
	}
	return nil
}

func (s *BaseStore) GetLesson(ctx context.Context, teacherID, lessonID string) (*models.RecurringLesson, error) {
	var lesson models.RecurringLesson
	query := s.Converter(`
		SELECT id, teacher_id, student_id, day_of_week, start_time, end_time, topic, status, note, created_at
		FROM lessons
		WHERE id = ?
		AND teacher_id = ?
	`)

	err := s.DB.GetContext(ctx, &lesson, query, lessonID, teacherID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lesson: %w", err)
	}
	return &lesson, nil
}

func (s *BaseStore) ListLessonsByDay(ctx context.Context, teacherID string, dayOfWeek int) ([]models.RecurringLesson, error) {
	var lessons []models.RecurringLesson
	query := s.Converter(`
		SELECT id, teacher_id, student_id, day_of_week, start_time, end_time, topic, status, note, created_at
		FROM lessons
		WHERE teacher_id = ?
		AND day_of_week = ?
		ORDER BY start_time, created_at, id
	`)

	if err := s.DB.SelectContext(ctx, &lessons, query, teacherID, dayOfWeek); err != nil {
		return nil, fmt.Errorf("failed to list lessons: %w", err)
	}
	return lessons, nil
}

func (s *BaseStore) UpdateLesson(ctx context.Context, lesson *models.RecurringLesson) (bool, error) {
	res, err := s.DB.NamedExecContext(ctx, `
		UPDATE lessons SET
			student_id = :student_id,
			day_of_week = :day_of_week,
			start_time = :start_time,
			end_time = :end_time,
			topic = :topic,
			status = :status,
			note = :note
		WHERE id = :id AND teacher_id = :teacher_id
	`, lesson)
	if err != nil {
		return false, fmt.Errorf("failed to update lesson: %w", err)
	}
	return matched(res)
}

func (s *BaseStore) UpdateLessonStatus(ctx context.Context, teacherID, lessonID string, status models.LessonStatus, note string) (bool, error) {
	query := s.Converter(`
		UPDATE lessons SET status = ?, note = ?
		WHERE id = ? AND teacher_id = ?
	`)
	res, err := s.DB.ExecContext(ctx, query, status, note, lessonID, teacherID)
	if err != nil {
		return false, fmt.Errorf("failed to update lesson status: %w", err)
	}
	return matched(res)
}

func (s *BaseStore) CreateOverride(ctx context.Context, override *models.Override) error {
	_, err := s.DB.NamedExecContext(ctx, `
		INSERT INTO lesson_overrides (
			id, lesson_id, teacher_id, student_id, week_key,
			original_date, new_date, new_start_time, new_end_time, reason, created_at
		)
		VALUES (
			:id, :lesson_id, :teacher_id, :student_id, :week_key,
			:original_date, :new_date, :new_start_time, :new_end_time, :reason, :created_at
		)
	`, override)
	if err != nil {
		if s.IsUniqueViolation != nil && s.IsUniqueViolation(err) {
			return fmt.Errorf("override for lesson %s in week %s: %w", override.LessonID, override.WeekKey, ErrDuplicateKey)
		}
		return fmt.Errorf("failed to create override: %w", err)
	}
	return nil
}

const overrideColumns = `id, lesson_id, teacher_id, student_id, week_key,
	original_date, new_date, new_start_time, new_end_time, reason, created_at`

func (s *BaseStore) GetOverride(ctx context.Context, lessonID, weekKey string) (*models.Override, error) {
	var override models.Override
	query := s.Converter(`
		SELECT ` + overrideColumns + `
		FROM lesson_overrides
		WHERE lesson_id = ?
		AND week_key = ?
	`)

	err := s.DB.GetContext(ctx, &override, query, lessonID, weekKey)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get override: %w", err)
	}
	return &override, nil
}

func (s *BaseStore) ListOverridesByWeek(ctx context.Context, teacherID, weekKey string) ([]models.Override, error) {
	var overrides []models.Override
	query := s.Converter(`
		SELECT ` + overrideColumns + `
		FROM lesson_overrides
		WHERE teacher_id = ?
		AND week_key = ?
		ORDER BY created_at, id
	`)

	if err := s.DB.SelectContext(ctx, &overrides, query, teacherID, weekKey); err != nil {
		return nil, fmt.Errorf("failed to list week overrides: %w", err)
	}
	return overrides, nil
}

func (s *BaseStore) ListOverridesByDate(ctx context.Context, teacherID, newDate string) ([]models.Override, error) {
	var overrides []models.Override
	query := s.Converter(`
		SELECT ` + overrideColumns + `
		FROM lesson_overrides
		WHERE teacher_id = ?
		AND new_date = ?
		ORDER BY created_at, id
	`)

	if err := s.DB.SelectContext(ctx, &overrides, query, teacherID, newDate); err != nil {
		return nil, fmt.Errorf("failed to list date overrides: %w", err)
	}
	return overrides, nil
}

func (s *BaseStore) GetStudent(ctx context.Context, teacherID, studentID string) (*models.Student, error) {
	var student models.Student
	query := s.Converter(`
		SELECT id, teacher_id, full_name
		FROM students
		WHERE id = ?
		AND teacher_id = ?
	`)

	err := s.DB.GetContext(ctx, &student, query, studentID, teacherID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	return &student, nil
}

func matched(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}
