package ledger

import (
	"strings"
	"time"
)

// PeriodKind describes how a reporting period was specified
type PeriodKind string

const (
	PeriodAllTime PeriodKind = "ALL"
	PeriodDay     PeriodKind = "DAY"
	PeriodMonth   PeriodKind = "MONTH"
	PeriodRange   PeriodKind = "RANGE"
)

const (
	dayLayout   = "2006-01-02"
	monthLayout = "2006-01"
)

// Period is a half-open UTC interval [Start, End). The all-time period has
// zero Start and End.
type Period struct {
	Kind  PeriodKind
	Start time.Time
	End   time.Time
	Label string
}

// AllTime returns the unbounded period
func AllTime() Period {
	return Period{Kind: PeriodAllTime, Label: "all"}
}

// ParsePeriod accepts a day (YYYY-MM-DD) or month (YYYY-MM) in date, or an
// inclusive start/end pair of days. Everything empty means all time.
func ParsePeriod(date, start, end string) (Period, error) {
	date = strings.TrimSpace(date)
	start = strings.TrimSpace(start)
	end = strings.TrimSpace(end)

	switch {
	case date != "":
		if start != "" || end != "" {
			return Period{}, ErrInvalidPeriod
		}
		switch len(date) {
		case len(monthLayout):
			return ParseMonth(date)
		case len(dayLayout):
			return ParseDay(date)
		default:
			return Period{}, ErrInvalidPeriod
		}
	case start != "" || end != "":
		return ParseRange(start, end)
	default:
		return AllTime(), nil
	}
}

// ParseMonth strictly parses a seven character YYYY-MM month
func ParseMonth(s string) (Period, error) {
	if len(s) != len(monthLayout) {
		return Period{}, ErrInvalidPeriod
	}
	t, err := time.Parse(monthLayout, s)
	if err != nil {
		return Period{}, ErrInvalidPeriod
	}
	return Period{Kind: PeriodMonth, Start: t, End: t.AddDate(0, 1, 0), Label: s}, nil
}

// ParseDay parses a single YYYY-MM-DD day
func ParseDay(s string) (Period, error) {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return Period{}, ErrInvalidPeriod
	}
	return Period{Kind: PeriodDay, Start: t, End: t.AddDate(0, 0, 1), Label: s}, nil
}

// ParseRange parses an inclusive pair of days
func ParseRange(start, end string) (Period, error) {
	if start == "" || end == "" {
		return Period{}, ErrInvalidPeriod
	}
	s, err := time.Parse(dayLayout, start)
	if err != nil {
		return Period{}, ErrInvalidPeriod
	}
	e, err := time.Parse(dayLayout, end)
	if err != nil {
		return Period{}, ErrInvalidPeriod
	}
	if e.Before(s) {
		return Period{}, ErrInvalidPeriod
	}
	return Period{Kind: PeriodRange, Start: s, End: e.AddDate(0, 0, 1), Label: start + ".." + end}, nil
}

// MonthOf returns the calendar month containing t
func MonthOf(t time.Time) Period {
	t = t.UTC()
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return Period{Kind: PeriodMonth, Start: first, End: first.AddDate(0, 1, 0), Label: first.Format(monthLayout)}
}

// IsAllTime reports whether the period is unbounded
func (p Period) IsAllTime() bool {
	return p.Kind == PeriodAllTime || (p.Start.IsZero() && p.End.IsZero())
}

// Contains reports whether t falls in [Start, End)
func (p Period) Contains(t time.Time) bool {
	if p.IsAllTime() {
		return true
	}
	return !t.Before(p.Start) && t.Before(p.End)
}

// Previous returns the month before a month period
func (p Period) Previous() Period {
	return MonthOf(p.Start.AddDate(0, -1, 0))
}
