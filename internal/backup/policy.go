package backup

// Policy decides which days of a month bucket survive.
type Policy int

const (
	Daily        Policy = iota // keep everything
	Weekly                     // keep 1, 8, 15, 22, 29
	BiMonthly                  // keep 1, 15
	MonthlyFirst               // keep 1
)

// Age thresholds in whole months.
const (
	weeklyAfter    = 2
	biMonthlyAfter = 4
	firstOnlyAfter = 9
)

func (p Policy) String() string {
	switch p {
	case Daily:
		return "daily"
	case Weekly:
		return "weekly"
	case BiMonthly:
		return "bimonthly"
	case MonthlyFirst:
		return "monthly-first"
	default:
		return "unknown"
	}
}

// PolicyFor picks the policy of the (year, month) bucket as seen from today.
// Buckets in the current month, the previous month or the future are kept
// daily; older ones get thinned as their age in months grows.
func PolicyFor(today Date, year, month int) Policy {
	if year > today.Year {
		return Daily
	}

	// bring today's month into the bucket's year frame so only the
	// month delta matters
	cur := today.Month
	if year < today.Year {
		cur += 12 * (today.Year - year)
	}
	if cur <= month {
		return Daily
	}

	age := cur - month
	switch {
	case age < weeklyAfter:
		return Daily
	case age < biMonthlyAfter:
		return Weekly
	case age < firstOnlyAfter:
		return BiMonthly
	default:
		return MonthlyFirst
	}
}
