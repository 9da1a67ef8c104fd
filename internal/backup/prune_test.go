package backup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// monthWith populates the given days; the slot index equals the day number.
func monthWith(days ...int) *Month {
	m := &Month{}
	for _, d := range days {
		m.Days[d-1] = &Day{Index: d}
	}
	return m
}

func fullMonth() *Month {
	days := make([]int, 31)
	for i := range days {
		days[i] = i + 1
	}
	return monthWith(days...)
}

func dayNums(days []Day) []int {
	out := make([]int, 0, len(days))
	for _, d := range days {
		out = append(out, d.Index)
	}
	return out
}

func span(from, to int) []int {
	var out []int
	for d := from; d <= to; d++ {
		out = append(out, d)
	}
	return out
}

func TestApplyPolicyFullMonth(t *testing.T) {
	weekly := append(append(append(span(2, 7), span(9, 14)...), span(16, 21)...), span(23, 28)...)

	tests := []struct {
		name   string
		policy Policy
		want   []int
	}{
		{name: "daily", policy: Daily, want: nil},
		{name: "weekly", policy: Weekly, want: weekly},
		{name: "bimonthly", policy: BiMonthly, want: span(2, 14)},
		{name: "monthly first", policy: MonthlyFirst, want: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyPolicy(tt.policy, fullMonth())
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, dayNums(got))
		})
	}
}

func TestKeepDaysNeverRemovesAnchors(t *testing.T) {
	for _, p := range []Policy{Weekly, BiMonthly, MonthlyFirst} {
		anchors := p.Anchors()
		last := anchors[len(anchors)-1]

		for _, d := range KeepDays(fullMonth(), anchors) {
			assert.NotContains(t, anchors, d.Index, "policy %s", p)
			assert.Less(t, d.Index, last, "policy %s proposed a day after its last anchor", p)
		}
	}
}

func TestKeepDaysSkipsEmptySlots(t *testing.T) {
	m := monthWith(1, 3, 10, 15, 20)

	assert.Equal(t, []int{3, 10}, dayNums(KeepDays(m, []int{1, 15})))
}

func TestKeepDaysMissingAnchorDay(t *testing.T) {
	// no backup on the 1st: the anchor is still consumed
	m := monthWith(2, 5, 16)

	assert.Equal(t, []int{2, 5}, dayNums(KeepDays(m, []int{1, 15})))
}

func TestKeepDaysEmptyKeepList(t *testing.T) {
	assert.Empty(t, KeepDays(fullMonth(), nil))
}

func TestKeepDaysEmptyMonth(t *testing.T) {
	assert.Empty(t, KeepDays(&Month{}, weeklyAnchors))
}
