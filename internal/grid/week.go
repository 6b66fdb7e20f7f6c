package grid

import "time"

// WeekKey identifies an ISO-8601 week. Week 1 contains the year's first
// Thursday; weeks start on Monday. The year may differ from the calendar
// year at year boundaries.
type WeekKey struct {
	Year int `json:"year"`
	Week int `json:"week"`
}

// Week returns the ISO-8601 week bucket for t. Schedulers use it to decide
// when a recurring scan is due again.
func Week(t time.Time) WeekKey {
	year, week := t.ISOWeek()
	return WeekKey{Year: year, Week: week}
}
