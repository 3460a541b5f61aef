package app

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shrimpsizemoose/timetable/internal/calendar"
	"github.com/shrimpsizemoose/timetable/internal/scheduling"
	"github.com/shrimpsizemoose/timetable/internal/store"
)

type Service struct {
	Config    *Config
	Store     store.LessonStore
	Auth      *Auth
	Scheduler *scheduling.Scheduler

	now func() time.Time
}

func NewService(configPath string) (*Service, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	store, err := NewStore(config.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to init store: %w", err)
	}

	auth, err := NewAuth(config)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to init auth: %w", err)
	}

	return NewServiceWith(config, store, auth), nil
}

// NewServiceWith assembles a service from already opened parts.
func NewServiceWith(config *Config, store store.LessonStore, auth *Auth, opts ...scheduling.Option) *Service {
	if auth == nil {
		auth = &Auth{enabled: false, tokenHeader: config.Auth.TokenHeader}
	}
	return &Service{
		Config:    config,
		Store:     store,
		Auth:      auth,
		Scheduler: scheduling.NewScheduler(store, opts...),
		now:       time.Now,
	}
}

// Today is the current civil date in the configured schedule timezone.
func (s *Service) Today() time.Time {
	now := s.now().In(s.Config.Location())
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// DateParam parses a YYYY-MM-DD value, falling back to today when empty.
func (s *Service) DateParam(value string) (time.Time, error) {
	if value == "" {
		return s.Today(), nil
	}
	return calendar.ParseDate(value)
}

func (s *Service) ValidateAuthAndTeacher(r *http.Request, teacher string) error {
	if !s.Config.Server.EnableAuth {
		return nil
	}

	authHeader := r.Header.Get(s.Auth.tokenHeader)
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return fmt.Errorf("Invalid authorization header format")
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")

	return s.Auth.ValidateToken(r.Context(), teacher, token)
}

func (s *Service) ValidateHeaders(headers map[string][]string) bool {
	for _, required := range s.Config.API.RequiredHeaders {
		value := headers[http.CanonicalHeaderKey(required.Name)]
		if len(value) == 0 || !strings.EqualFold(value[0], required.Value) {
			return false
		}
	}
	return true
}

func (s *Service) Close() error {
	var errs []error

	if err := s.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("store: %w", err))
	}
	if err := s.Auth.Close(); err != nil {
		errs = append(errs, fmt.Errorf("auth: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors while closing: %v", errs)
	}
	return nil
}
