package postgres

import (
	"context"
	"log"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/shrimpsizemoose/timetable/internal/models"
	"github.com/shrimpsizemoose/timetable/internal/store"
)

// setupTestDB starts a throwaway Postgres container and applies the schema
func setupTestDB(t *testing.T) (*PostgresStore, func()) {
	ctx := context.Background()

	container, err := postgres.Run(
		ctx,
		"postgres:16-alpine",
		testcontainers.WithEnv(map[string]string{
			"POSTGRES_DB":       "testdb",
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
		}),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := NewPostgresStore(dsn)
	require.NoError(t, err, "Failed to create store")

	cleanup := func() {
		s.Close()
		container.Terminate(ctx)
	}

	return s, cleanup
}

func TestMain(m *testing.M) {
	if os.Getenv("TIMETABLE_INTEGRATION") == "" {
		log.Println("Skipping Postgres integration tests. Set TIMETABLE_INTEGRATION=1 to run them.")
		os.Exit(0)
	}
	log.Println("Starting Postgres store tests...")
	code := m.Run()
	log.Println("Finished Postgres store tests")
	os.Exit(code)
}

func TestLessonRoundTrip(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	lesson := models.RecurringLesson{
		ID:        "l1",
		TeacherID: "t1",
		StudentID: "s1",
		DayOfWeek: 2,
		StartTime: "10:00",
		EndTime:   "11:00",
		Status:    models.StatusScheduled,
		CreatedAt: time.Date(2024, 1, 8, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.CreateLesson(ctx, &lesson))

	got, err := s.GetLesson(ctx, "t1", "l1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 2, got.DayOfWeek)

	ok, err := s.UpdateLessonStatus(ctx, "t1", "l1", models.StatusNotAttended, "flu")
	require.NoError(t, err)
	assert.True(t, ok)

	lessons, err := s.ListLessonsByDay(ctx, "t1", 2)
	require.NoError(t, err)
	require.Len(t, lessons, 1)
	assert.Equal(t, models.StatusNotAttended, lessons[0].Status)
}

func TestConcurrentOverrideInsertsForSameWeek(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	const attempts = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		oks  int
		dups int
	)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := s.CreateOverride(ctx, &models.Override{
				ID:           "o" + string(rune('a'+i)),
				LessonID:     "l1",
				TeacherID:    "t1",
				StudentID:    "s1",
				WeekKey:      "2024-W02",
				OriginalDate: "2024-01-10",
				NewDate:      "2024-01-12",
				NewStartTime: "14:00",
				NewEndTime:   "15:00",
				Reason:       "sick",
				CreatedAt:    time.Now().UTC(),
			})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				oks++
			case assert.ErrorIs(t, err, store.ErrDuplicateKey):
				dups++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, oks)
	assert.Equal(t, attempts-1, dups)
}
