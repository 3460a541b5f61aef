// internal/store/sqlite/store_test.go
package sqlite

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/timetable/internal/models"
	"github.com/shrimpsizemoose/timetable/internal/store"
)

// setupTestDB creates an in-memory SQLite database with the embedded schema
func setupTestDB(t *testing.T) (*SQLiteStore, func()) {
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err, "Failed to create store")

	cleanup := func() {
		err := s.Close()
		require.NoError(t, err, "Failed to close database")
	}

	return s, cleanup
}

type testData struct {
	store *SQLiteStore
	ctx   context.Context
	now   time.Time
}

func setupTestData(t *testing.T) (*testData, func()) {
	s, cleanup := setupTestDB(t)
	now := time.Date(2024, 1, 8, 12, 0, 0, 0, time.UTC)

	_, err := s.DB.Exec(`
		INSERT INTO students (id, teacher_id, full_name) VALUES
		('s1', 't1', 'Ada Lovelace'),
		('s2', 't1', 'Alan Turing'),
		('s3', 't2', 'Grace Hopper')`)
	require.NoError(t, err, "Failed to insert test data")

	return &testData{
		store: s,
		ctx:   context.Background(),
		now:   now,
	}, cleanup
}

func TestMain(m *testing.M) {
	log.Println("Starting SQLite store tests...")
	code := m.Run()
	log.Println("Finished SQLite store tests")
	os.Exit(code)
}

func TestLessonOperations(t *testing.T) {
	td, cleanup := setupTestData(t)
	defer cleanup()

	lesson := models.RecurringLesson{
		ID:        "l1",
		TeacherID: "t1",
		StudentID: "s1",
		DayOfWeek: 2,
		StartTime: "10:00",
		EndTime:   "11:00",
		Topic:     "algebra",
		Status:    models.StatusScheduled,
		CreatedAt: td.now,
	}

	t.Run("create lesson", func(t *testing.T) {
		err := td.store.CreateLesson(td.ctx, &lesson)
		require.NoError(t, err)
	})

	t.Run("get lesson", func(t *testing.T) {
		got, err := td.store.GetLesson(td.ctx, "t1", "l1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, lesson.StudentID, got.StudentID)
		assert.Equal(t, lesson.DayOfWeek, got.DayOfWeek)
		assert.Equal(t, lesson.StartTime, got.StartTime)
		assert.Equal(t, lesson.Status, got.Status)
		assert.True(t, lesson.CreatedAt.Equal(got.CreatedAt))
	})

	t.Run("lesson of another teacher is invisible", func(t *testing.T) {
		got, err := td.store.GetLesson(td.ctx, "t2", "l1")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("list lessons by day", func(t *testing.T) {
		lessons, err := td.store.ListLessonsByDay(td.ctx, "t1", 2)
		require.NoError(t, err)
		assert.Len(t, lessons, 1)

		lessons, err = td.store.ListLessonsByDay(td.ctx, "t1", 3)
		require.NoError(t, err)
		assert.Empty(t, lessons)
	})

	t.Run("update lesson", func(t *testing.T) {
		updated := lesson
		updated.DayOfWeek = 3
		updated.StartTime = "12:00"
		updated.EndTime = "13:00"

		ok, err := td.store.UpdateLesson(td.ctx, &updated)
		require.NoError(t, err)
		assert.True(t, ok)

		got, err := td.store.GetLesson(td.ctx, "t1", "l1")
		require.NoError(t, err)
		assert.Equal(t, 3, got.DayOfWeek)
		assert.Equal(t, "12:00", got.StartTime)
	})

	t.Run("update status", func(t *testing.T) {
		ok, err := td.store.UpdateLessonStatus(td.ctx, "t1", "l1", models.StatusNotAttended, "flu")
		require.NoError(t, err)
		assert.True(t, ok)

		got, err := td.store.GetLesson(td.ctx, "t1", "l1")
		require.NoError(t, err)
		assert.Equal(t, models.StatusNotAttended, got.Status)
		assert.Equal(t, "flu", got.Note)
	})

	t.Run("update of a missing lesson matches nothing", func(t *testing.T) {
		ok, err := td.store.UpdateLessonStatus(td.ctx, "t2", "l1", models.StatusCancelled, "")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestOverrideOperations(t *testing.T) {
	td, cleanup := setupTestData(t)
	defer cleanup()

	override := models.Override{
		ID:           "o1",
		LessonID:     "l1",
		TeacherID:    "t1",
		StudentID:    "s1",
		WeekKey:      "2024-W02",
		OriginalDate: "2024-01-10",
		NewDate:      "2024-01-12",
		NewStartTime: "14:00",
		NewEndTime:   "15:00",
		Reason:       "sick",
		CreatedAt:    td.now,
	}

	t.Run("create override", func(t *testing.T) {
		err := td.store.CreateOverride(td.ctx, &override)
		require.NoError(t, err)
	})

	t.Run("second override for the same lesson week is a duplicate", func(t *testing.T) {
		dup := override
		dup.ID = "o2"
		dup.NewDate = "2024-01-13"

		err := td.store.CreateOverride(td.ctx, &dup)
		require.Error(t, err)
		assert.ErrorIs(t, err, store.ErrDuplicateKey)
	})

	t.Run("same lesson in another week is fine", func(t *testing.T) {
		next := override
		next.ID = "o3"
		next.WeekKey = "2024-W03"
		next.OriginalDate = "2024-01-17"
		next.NewDate = "2024-01-18"

		require.NoError(t, td.store.CreateOverride(td.ctx, &next))
	})

	t.Run("get override", func(t *testing.T) {
		got, err := td.store.GetOverride(td.ctx, "l1", "2024-W02")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "o1", got.ID)
		assert.Equal(t, "2024-01-12", got.NewDate)

		got, err = td.store.GetOverride(td.ctx, "l1", "2024-W05")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("list by week and by date", func(t *testing.T) {
		week, err := td.store.ListOverridesByWeek(td.ctx, "t1", "2024-W02")
		require.NoError(t, err)
		assert.Len(t, week, 1)

		day, err := td.store.ListOverridesByDate(td.ctx, "t1", "2024-01-18")
		require.NoError(t, err)
		require.Len(t, day, 1)
		assert.Equal(t, "o3", day[0].ID)

		other, err := td.store.ListOverridesByWeek(td.ctx, "t2", "2024-W02")
		require.NoError(t, err)
		assert.Empty(t, other)
	})
}

func TestStudentLookup(t *testing.T) {
	td, cleanup := setupTestData(t)
	defer cleanup()

	t.Run("get existing student", func(t *testing.T) {
		student, err := td.store.GetStudent(td.ctx, "t1", "s1")
		require.NoError(t, err)
		require.NotNil(t, student)
		assert.Equal(t, "Ada Lovelace", student.FullName)
	})

	t.Run("student of another teacher", func(t *testing.T) {
		student, err := td.store.GetStudent(td.ctx, "t1", "s3")
		require.NoError(t, err)
		assert.Nil(t, student)
	})
}

func TestTranslateToSQLite(t *testing.T) {
	out := translateToSQLite("created_at TIMESTAMPTZ NOT NULL, day SMALLINT")
	assert.Equal(t, "created_at TIMESTAMP NOT NULL, day INTEGER", out)
}
