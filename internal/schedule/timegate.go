package schedule

import "time"

const dateLayout = "2006-01-02"

// AddOneDay increments a YYYY-MM-DD date by one calendar day, rolling
// over month and year boundaries. It operates purely on calendar
// components; no timezone is involved. Unparseable input is returned
// unchanged so the function stays total.
func AddOneDay(date string) string {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, 1).Format(dateLayout)
}

// OutsideEditingPeriod reports whether today falls outside the closed
// window [opensForEditing, endDate+1]. All three values are fixed-width
// YYYY-MM-DD strings, so plain string comparison is calendar comparison.
func OutsideEditingPeriod(today, opensForEditing, endDate string) bool {
	return today < opensForEditing || today > AddOneDay(endDate)
}
