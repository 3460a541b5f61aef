package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/timetable/internal/app"
	"github.com/shrimpsizemoose/timetable/internal/calendar"
	"github.com/shrimpsizemoose/timetable/internal/metrics"
	"github.com/shrimpsizemoose/timetable/internal/models"
	"github.com/shrimpsizemoose/timetable/internal/scheduling"
)

type LessonHandler struct {
	service *app.Service
}

func NewLessonHandler(service *app.Service) *LessonHandler {
	return &LessonHandler{
		service: service,
	}
}

// Register mounts the API routes on mux.
func (h *LessonHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/lessons", h.instrument(h.HandleCreateLesson))
	mux.HandleFunc("PUT /api/v1/lessons/{lesson}", h.instrument(h.HandleUpdateLesson))
	mux.HandleFunc("POST /api/v1/lessons/{lesson}/reschedule-once", h.instrument(h.HandleRescheduleOnce))
	mux.HandleFunc("POST /api/v1/lessons/{lesson}/not-attended-and-reschedule", h.instrument(h.HandleNotAttended))
	mux.HandleFunc("GET /api/v1/schedule/day", h.instrument(h.HandleDaySchedule))
	mux.HandleFunc("GET /api/v1/schedule/week", h.instrument(h.HandleWeekSchedule))
	mux.HandleFunc("GET /api/v1/weeks/days", h.instrument(h.HandleWeekDays))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (h *LessonHandler) instrument(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		defer func() {
			duration := time.Since(start).Seconds()
			metrics.APIRequestDuration.WithLabelValues(
				r.Pattern,
				r.Method,
				strconv.Itoa(rec.status),
			).Observe(duration)
		}()
		next(rec, r)
	}
}

// teacher checks the required headers and auth and returns the caller's
// teacher id. On failure the response is already written.
func (h *LessonHandler) teacher(w http.ResponseWriter, r *http.Request) (string, bool) {
	if !h.service.ValidateHeaders(r.Header) {
		http.Error(w, "these are not the droids you are looking for", http.StatusForbidden)
		return "", false
	}

	teacher := r.Header.Get(h.service.Config.API.TeacherIDHeader)
	if teacher == "" {
		http.Error(w, "Invalid teacher id specified", http.StatusUnauthorized)
		return "", false
	}

	if err := h.service.ValidateAuthAndTeacher(r, teacher); err != nil {
		logger.Error.Printf("Auth failed: %v", err)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return "", false
	}

	return teacher, true
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		logger.Debug.Printf("Failed to decode %s body: %v", r.URL.Path, err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error.Printf("Failed to encode response: %v", err)
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, scheduling.ErrNotFound):
		return "not_found"
	case errors.Is(err, scheduling.ErrValidation):
		return "invalid"
	case errors.Is(err, scheduling.ErrConflict):
		return "conflict"
	default:
		return "error"
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch outcome(err) {
	case "not_found":
		status = http.StatusNotFound
	case "invalid":
		status = http.StatusBadRequest
	case "conflict":
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		logger.Error.Printf("%s %s failed: %v", r.Method, r.URL.Path, err)
		writeJSON(w, status, map[string]string{"error": "Internal error"})
		return
	}

	body := map[string]string{"error": err.Error()}
	var serr *scheduling.Error
	if errors.As(err, &serr) {
		body["error"] = serr.Message
		if serr.Err != nil && status == http.StatusBadRequest {
			body["details"] = serr.Err.Error()
		}
	}
	writeJSON(w, status, body)
}

func (h *LessonHandler) HandleCreateLesson(w http.ResponseWriter, r *http.Request) {
	teacher, ok := h.teacher(w, r)
	if !ok {
		return
	}

	var in models.LessonInput
	if !decode(w, r, &in) {
		return
	}

	lesson, err := h.service.Scheduler.CreateRecurringLesson(r.Context(), teacher, in)
	metrics.AdmissionsTotal.WithLabelValues("create_lesson", outcome(err)).Inc()
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, lesson)
}

func (h *LessonHandler) HandleUpdateLesson(w http.ResponseWriter, r *http.Request) {
	teacher, ok := h.teacher(w, r)
	if !ok {
		return
	}

	var in models.LessonInput
	if !decode(w, r, &in) {
		return
	}

	lesson, err := h.service.Scheduler.UpdateRecurringLesson(r.Context(), teacher, r.PathValue("lesson"), in)
	metrics.AdmissionsTotal.WithLabelValues("update_lesson", outcome(err)).Inc()
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, lesson)
}

func (h *LessonHandler) HandleRescheduleOnce(w http.ResponseWriter, r *http.Request) {
	teacher, ok := h.teacher(w, r)
	if !ok {
		return
	}

	var req models.RescheduleRequest
	if !decode(w, r, &req) {
		return
	}

	override, err := h.service.Scheduler.RequestOneTimeReschedule(r.Context(), teacher, r.PathValue("lesson"), req)
	metrics.AdmissionsTotal.WithLabelValues("reschedule_once", outcome(err)).Inc()
	if err != nil {
		writeError(w, r, err)
		return
	}

	logger.Info.Printf("Lesson %s moved from %s to %s %s-%s",
		override.LessonID, override.OriginalDate, override.NewDate, override.NewStartTime, override.NewEndTime)

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"override_id": override.ID,
		"override":    override,
	})
}

func (h *LessonHandler) HandleNotAttended(w http.ResponseWriter, r *http.Request) {
	teacher, ok := h.teacher(w, r)
	if !ok {
		return
	}

	var req models.NotAttendedRequest
	if !decode(w, r, &req) {
		return
	}

	result, err := h.service.Scheduler.MarkNotAttendedAndMaybeReschedule(r.Context(), teacher, r.PathValue("lesson"), req)
	metrics.AdmissionsTotal.WithLabelValues("not_attended", outcome(err)).Inc()
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *LessonHandler) dateQuery(w http.ResponseWriter, r *http.Request, name string) (time.Time, bool) {
	date, err := h.service.DateParam(r.URL.Query().Get(name))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid " + name + ", use YYYY-MM-DD"})
		return time.Time{}, false
	}
	return date, true
}

func (h *LessonHandler) HandleDaySchedule(w http.ResponseWriter, r *http.Request) {
	teacher, ok := h.teacher(w, r)
	if !ok {
		return
	}

	date, ok := h.dateQuery(w, r, "date")
	if !ok {
		return
	}

	lessons, err := h.service.Scheduler.ResolveDaySchedule(r.Context(), teacher, date)
	if err != nil {
		writeError(w, r, err)
		return
	}
	metrics.ResolvedOccurrences.WithLabelValues("day").Observe(float64(len(lessons)))

	writeJSON(w, http.StatusOK, models.DaySchedule{
		Date:    calendar.FormatDate(date),
		Lessons: lessons,
	})
}

func (h *LessonHandler) HandleWeekSchedule(w http.ResponseWriter, r *http.Request) {
	teacher, ok := h.teacher(w, r)
	if !ok {
		return
	}

	date, ok := h.dateQuery(w, r, "date")
	if !ok {
		return
	}

	schedule, err := h.service.Scheduler.ResolveWeekSchedule(r.Context(), teacher, date)
	if err != nil {
		writeError(w, r, err)
		return
	}
	for _, day := range schedule.Days {
		metrics.ResolvedOccurrences.WithLabelValues("week").Observe(float64(len(day.Lessons)))
	}

	writeJSON(w, http.StatusOK, schedule)
}

// HandleWeekDays only needs the client headers: it reads no teacher data.
func (h *LessonHandler) HandleWeekDays(w http.ResponseWriter, r *http.Request) {
	if !h.service.ValidateHeaders(r.Header) {
		http.Error(w, "these are not the droids you are looking for", http.StatusForbidden)
		return
	}

	date, ok := h.dateQuery(w, r, "original_date")
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, scheduling.ResolveWeekDays(date))
}
