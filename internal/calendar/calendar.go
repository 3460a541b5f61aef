// Package calendar holds the civil-date helpers used by the scheduler:
// ISO week keys, Monday-based weekdays and "HH:MM" clock values.
package calendar

import (
	"fmt"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"

	DaysInWeek = 7
)

// WeekDays lists the dates of one ISO week, Monday first.
type WeekDays struct {
	WeekKey string   `json:"week_key"`
	Days    []string `json:"days"`
}

// ParseDate parses a YYYY-MM-DD civil date. The result is midnight UTC.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", s, err)
	}
	return d, nil
}

// FormatDate formats the civil date part of t.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Day truncates t to its civil date, keeping the calendar day t has in its own location.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Weekday returns 0 for Monday through 6 for Sunday.
func Weekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % DaysInWeek
}

// WeekdayName is the English name of a Monday-based weekday number.
func WeekdayName(day int) string {
	return time.Weekday((day + 1) % DaysInWeek).String()
}

// WeekKey returns the ISO-8601 week of t as "YYYY-Www".
func WeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

func SameWeek(a, b time.Time) bool {
	return WeekKey(a) == WeekKey(b)
}

// StartOfWeek returns the Monday of the ISO week containing t.
func StartOfWeek(t time.Time) time.Time {
	d := Day(t)
	return d.AddDate(0, 0, -Weekday(d))
}

func Week(t time.Time) WeekDays {
	monday := StartOfWeek(t)
	days := make([]string, 0, DaysInWeek)
	for i := 0; i < DaysInWeek; i++ {
		days = append(days, FormatDate(monday.AddDate(0, 0, i)))
	}
	return WeekDays{
		WeekKey: WeekKey(t),
		Days:    days,
	}
}

// ParseClock converts "HH:MM" into minutes since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
