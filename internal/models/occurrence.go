package models

// EffectiveOccurrence is one lesson as it actually happens on a given date.
type EffectiveOccurrence struct {
	LessonID    string       `json:"lesson_id"`
	StudentName string       `json:"student_name"`
	StartTime   string       `json:"start_time"`
	EndTime     string       `json:"end_time"`
	Topic       string       `json:"topic"`
	Status      LessonStatus `json:"status"`
}

type DaySchedule struct {
	Date    string                `json:"date"`
	Lessons []EffectiveOccurrence `json:"lessons"`
}

type WeekSchedule struct {
	WeekKey string        `json:"week_key"`
	Days    []DaySchedule `json:"days"`
}
