// Package period maps a reporting period kind and an anchor date onto a calendar date range.
package period

import (
	"fmt"
	"strings"
	"time"
)

// Kind is a reporting period
type Kind string

const (
	Day     Kind = "day"
	Week    Kind = "week"
	Month   Kind = "month"
	Quarter Kind = "quarter"
	Year    Kind = "year"
)

// Bucket is the trend bucket width for a period
type Bucket string

const (
	BucketDay   Bucket = "day"
	BucketMonth Bucket = "month"
)

const dateLayout = "2006-01-02"

// ErrUnsupportedPeriod is returned for any kind outside day|week|month|quarter|year
type ErrUnsupportedPeriod struct {
	Kind string
}

func (e ErrUnsupportedPeriod) Error() string {
	return fmt.Sprintf("unsupported period: %q", e.Kind)
}

// Is matches any ErrUnsupportedPeriod when the target kind is empty
func (e ErrUnsupportedPeriod) Is(target error) bool {
	t, ok := target.(ErrUnsupportedPeriod)
	if !ok {
		return false
	}
	if t.Kind == "" {
		return true
	}
	return e.Kind == t.Kind
}

// Range is an inclusive pair of calendar dates, both at UTC midnight
type Range struct {
	Kind Kind
	From time.Time
	To   time.Time
}

// ParseKind validates a raw period kind
func ParseKind(raw string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(raw))); k {
	case Day, Week, Month, Quarter, Year:
		return k, nil
	default:
		return "", ErrUnsupportedPeriod{Kind: raw}
	}
}

// Resolve returns the inclusive date range of the given period containing anchor.
// Weeks start on Monday and quarters are calendar quarters.
func Resolve(kind string, anchor time.Time) (Range, error) {
	k, err := ParseKind(kind)
	if err != nil {
		return Range{}, err
	}

	d := truncateDate(anchor)
	var from, to time.Time

	switch k {
	case Day:
		from, to = d, d
	case Week:
		// time.Weekday counts from Sunday; shift so Monday is zero.
		offset := (int(d.Weekday()) + 6) % 7
		from = d.AddDate(0, 0, -offset)
		to = from.AddDate(0, 0, 6)
	case Month:
		from = time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
		to = from.AddDate(0, 1, -1)
	case Quarter:
		firstMonth := time.Month((int(d.Month())-1)/3*3 + 1)
		from = time.Date(d.Year(), firstMonth, 1, 0, 0, 0, 0, time.UTC)
		to = from.AddDate(0, 3, -1)
	case Year:
		from = time.Date(d.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		to = time.Date(d.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)
	}

	return Range{Kind: k, From: from, To: to}, nil
}

// Granularity returns the trend bucket width: days for day/week/month, months for quarter/year
func Granularity(kind Kind) Bucket {
	switch kind {
	case Quarter, Year:
		return BucketMonth
	default:
		return BucketDay
	}
}

// Bounds returns the half-open instant window [From, To+1day) for store queries
func (r Range) Bounds() (time.Time, time.Time) {
	return r.From, r.To.AddDate(0, 0, 1)
}

// Contains reports whether t falls on any calendar day of the range
func (r Range) Contains(t time.Time) bool {
	start, end := r.Bounds()
	t = t.UTC()
	return !t.Before(start) && t.Before(end)
}

// DateFrom formats the range start as YYYY-MM-DD
func (r Range) DateFrom() string {
	return r.From.Format(dateLayout)
}

// DateTo formats the range end as YYYY-MM-DD
func (r Range) DateTo() string {
	return r.To.Format(dateLayout)
}

// ParseDate parses a YYYY-MM-DD anchor
func ParseDate(raw string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, raw, time.UTC)
}

func truncateDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
