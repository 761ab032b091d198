package model

import (
	"fmt"
	"time"
)

// ISODate is the layout used for dates in folder names and CLI flags.
const ISODate = "2006-01-02"

// DateRange is an inclusive range of calendar days.
type DateRange struct {
	From time.Time
	To   time.Time
}

// NewDateRange builds a range, dropping the time of day of both bounds.
// Missing bounds or From after To are validation errors.
func NewDateRange(from, to time.Time) (DateRange, error) {
	if from.IsZero() || to.IsZero() {
		return DateRange{}, fmt.Errorf("%w: search dates are required", ErrValidation)
	}
	r := DateRange{From: Day(from), To: Day(to)}
	if r.From.After(r.To) {
		return DateRange{}, fmt.Errorf("%w: date from cannot be after date to", ErrValidation)
	}
	return r, nil
}

// ParseDateRange parses ISO dates; an empty to defaults to from.
func ParseDateRange(from, to string) (DateRange, error) {
	if from == "" {
		return DateRange{}, fmt.Errorf("%w: search dates are required", ErrValidation)
	}
	f, err := time.ParseInLocation(ISODate, from, time.Local)
	if err != nil {
		return DateRange{}, fmt.Errorf("%w: invalid from date %q", ErrValidation, from)
	}
	t := f
	if to != "" {
		if t, err = time.ParseInLocation(ISODate, to, time.Local); err != nil {
			return DateRange{}, fmt.Errorf("%w: invalid to date %q", ErrValidation, to)
		}
	}
	return NewDateRange(f, t)
}

// Day truncates t to midnight of its calendar day in its own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Days returns every day of the range in ascending order.
func (r DateRange) Days() []time.Time {
	var days []time.Time
	for d := r.From; !d.After(r.To); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// SingleDay reports whether From and To are the same day.
func (r DateRange) SingleDay() bool {
	return r.From.Equal(r.To)
}

func (r DateRange) String() string {
	if r.SingleDay() {
		return r.From.Format(ISODate)
	}
	return r.From.Format(ISODate) + "_" + r.To.Format(ISODate)
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
