package backup

// Anchor days per policy, ascending.
var (
	weeklyAnchors    = []int{1, 8, 15, 22, 29}
	biMonthlyAnchors = []int{1, 15}
	firstAnchors     = []int{1}
)

// Anchors returns the days-of-month a policy never removes.
// Daily has no anchors because it removes nothing.
func (p Policy) Anchors() []int {
	switch p {
	case Weekly:
		return weeklyAnchors
	case BiMonthly:
		return biMonthlyAnchors
	case MonthlyFirst:
		return firstAnchors
	default:
		return nil
	}
}

// ApplyPolicy returns the populated days of month that the policy removes.
func ApplyPolicy(p Policy, month *Month) []Day {
	if p == Daily {
		return nil
	}
	return KeepDays(month, p.Anchors())
}

// KeepDays walks the month against the sorted keep list and returns the
// populated days that are not kept. Walking stops at the last keep day:
// days after it are left alone.
func KeepDays(month *Month, keep []int) []Day {
	if len(keep) == 0 {
		return nil
	}

	result := make([]Day, 0, len(month.Days)-len(keep))
	next := 0
	for i, day := range month.Days {
		if next == len(keep) {
			break
		}
		if keep[next] == i+1 {
			next++
			continue
		}
		if day != nil {
			result = append(result, *day)
		}
	}
	return result
}
