package backup

// Day points back into the backup list the index was built from.
type Day struct {
	Index int
}

// Month holds one optional slot per day-of-month; Days[0] is the 1st.
type Month struct {
	Days [31]*Day
}

// Year groups the twelve months of one calendar year.
type Year struct {
	Num    int
	Months [12]Month
}

// Index buckets backups by year, month and day.
// It holds at most one backup per date: a later backup with the same date
// replaces the earlier one, whose position is then reported by Shadowed.
type Index struct {
	years    []*Year
	byNum    map[int]*Year
	shadowed []int
}

// BuildIndex buckets backups in a single pass. Dates must be in range,
// which ParseDate guarantees.
func BuildIndex(backups []Backup) *Index {
	idx := &Index{byNum: make(map[int]*Year)}

	for i, b := range backups {
		y, ok := idx.byNum[b.Date.Year]
		if !ok {
			y = &Year{Num: b.Date.Year}
			idx.byNum[y.Num] = y
			idx.years = append(idx.years, y)
		}

		slot := &y.Months[b.Date.Month-1].Days[b.Date.Day-1]
		if *slot != nil {
			idx.shadowed = append(idx.shadowed, (*slot).Index)
		}
		*slot = &Day{Index: i}
	}

	return idx
}

// Years returns the year buckets in first-seen order.
func (x *Index) Years() []*Year {
	return x.years
}

// Shadowed lists positions of backups dropped because another backup
// shares their date.
func (x *Index) Shadowed() []int {
	return x.shadowed
}
