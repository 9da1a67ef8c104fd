// Package backup holds the retention decision engine: date parsing, the
// calendar index and the per-month pruning policies.
package backup

import (
	"cmp"
	"errors"
	"fmt"
	"time"
)

// ErrNotBackup marks a name that does not start with a YYYYMMDD date.
// It is a classification, not a failure: callers skip such entries.
var ErrNotBackup = errors.New("not a backup")

// minNameLen is the shortest accepted name, e.g. "yyyymmdd.gz".
const minNameLen = 11

// Date is a calendar day taken from a backup name.
// No calendar validation beyond month/day ranges is done (Feb 31 is accepted).
type Date struct {
	Year  int
	Month int
	Day   int
}

// DateOf returns the calendar date of t in its own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: int(m), Day: d}
}

// ParseDate extracts the leading YYYYMMDD of a backup name.
func ParseDate(s string) (Date, error) {
	if len(s) < minNameLen {
		return Date{}, ErrNotBackup
	}

	year, ok := atoi(s[0:4])
	if !ok {
		return Date{}, ErrNotBackup
	}
	month, ok := atoi(s[4:6])
	if !ok {
		return Date{}, ErrNotBackup
	}
	day, ok := atoi(s[6:8])
	if !ok {
		return Date{}, ErrNotBackup
	}

	// out of range values would not fit the calendar index
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return Date{}, ErrNotBackup
	}

	return Date{Year: year, Month: month, Day: day}, nil
}

// atoi accepts ASCII digits only (no sign, no spaces).
func atoi(s string) (int, bool) {
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

// Compare orders dates by year, month, then day.
func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return cmp.Compare(d.Year, o.Year)
	case d.Month != o.Month:
		return cmp.Compare(d.Month, o.Month)
	default:
		return cmp.Compare(d.Day, o.Day)
	}
}

// Before reports whether d is strictly earlier than o.
func (d Date) Before(o Date) bool {
	return d.Compare(o) < 0
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}
