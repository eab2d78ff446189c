package domain

import "time"

// TimeFrame is a relative window ending now
type TimeFrame string

// enum of supported time frames
const (
	LastHour    TimeFrame = "last_hour"
	Last3Hours  TimeFrame = "last_3_hours"
	Last5Hours  TimeFrame = "last_5_hours"
	Last12Hours TimeFrame = "last_12_hours"
	Last24Hours TimeFrame = "last_24_hours"
	Today       TimeFrame = "today"
	Last2Days   TimeFrame = "last_2_days"
	Last3Days   TimeFrame = "last_3_days"
	Last4Days   TimeFrame = "last_4_days"
	Last5Days   TimeFrame = "last_5_days"
	Last6Days   TimeFrame = "last_6_days"
	LastWeek    TimeFrame = "last_week"
	Last2Weeks  TimeFrame = "last_2_weeks"
	Last3Weeks  TimeFrame = "last_3_weeks"
	Last4Weeks  TimeFrame = "last_4_weeks"
	LastMonth   TimeFrame = "last_month"
	Last2Months TimeFrame = "last_2_months"
	Last3Months TimeFrame = "last_3_months"
	Last4Months TimeFrame = "last_4_months"
	Last5Months TimeFrame = "last_5_months"
	Last6Months TimeFrame = "last_6_months"
)

// TimeFrames lists all time frames in display order
var TimeFrames = []TimeFrame{
	LastHour, Last3Hours, Last5Hours, Last12Hours, Last24Hours, Today,
	Last2Days, Last3Days, Last4Days, Last5Days, Last6Days,
	LastWeek, Last2Weeks, Last3Weeks, Last4Weeks,
	LastMonth, Last2Months, Last3Months, Last4Months, Last5Months, Last6Months,
}

// window lengths for fixed-size frames, month frames are calendar based
var timeFrameWindows = map[TimeFrame]time.Duration{
	LastHour:    time.Hour,
	Last3Hours:  3 * time.Hour,
	Last5Hours:  5 * time.Hour,
	Last12Hours: 12 * time.Hour,
	Last24Hours: 24 * time.Hour,
	Today:       24 * time.Hour,
	Last2Days:   2 * 24 * time.Hour,
	Last3Days:   3 * 24 * time.Hour,
	Last4Days:   4 * 24 * time.Hour,
	Last5Days:   5 * 24 * time.Hour,
	Last6Days:   6 * 24 * time.Hour,
	LastWeek:    7 * 24 * time.Hour,
	Last2Weeks:  14 * 24 * time.Hour,
	Last3Weeks:  21 * 24 * time.Hour,
	Last4Weeks:  28 * 24 * time.Hour,
}

var timeFrameMonths = map[TimeFrame]int{
	LastMonth: 1, Last2Months: 2, Last3Months: 3, Last4Months: 4, Last5Months: 5, Last6Months: 6,
}

// legacyTimeFrames maps labels stored by older versions to current codes
var legacyTimeFrames = map[string]TimeFrame{
	"Letzte Stunde":     LastHour,
	"Letzte 3 Stunden":  Last3Hours,
	"Letzte 5 Stunden":  Last5Hours,
	"Letzte 12 Stunden": Last12Hours,
	"Letzte 24 Stunden": Last24Hours,
	"Heute":             Today,
	"Letzte 2 Tage":     Last2Days,
	"Letzte 3 Tage":     Last3Days,
	"Letzte 4 Tage":     Last4Days,
	"Letzte 5 Tage":     Last5Days,
	"Letzte 6 Tage":     Last6Days,
	"Letzte Woche":      LastWeek,
	"Letzter Monat":     LastMonth,
	"Letzte 2 Monate":   Last2Months,
	"Letzte 3 Monate":   Last3Months,
	"Letzte 4 Monate":   Last4Months,
	"Letzte 5 Monate":   Last5Months,
	"Letzte 6 Monate":   Last6Months,
}

// Valid reports whether tf is one of the known codes
func (tf TimeFrame) Valid() bool {
	if _, ok := timeFrameWindows[tf]; ok {
		return true
	}
	_, ok := timeFrameMonths[tf]
	return ok
}

// Cutoff returns the oldest publish time still inside the window. Unknown frames use 24 hours.
func (tf TimeFrame) Cutoff(now time.Time) time.Time {
	if months, ok := timeFrameMonths[tf]; ok {
		return now.AddDate(0, -months, 0)
	}
	if d, ok := timeFrameWindows[tf]; ok {
		return now.Add(-d)
	}
	return now.Add(-24 * time.Hour)
}

// PublishedAfter formats the cutoff the way the provider's publishedAfter parameter expects
func (tf TimeFrame) PublishedAfter(now time.Time) string {
	return tf.Cutoff(now).UTC().Format(time.RFC3339)
}

// CoerceTimeFrame maps a stored value, including legacy labels, to a known time frame
func CoerceTimeFrame(v string) TimeFrame {
	if tf := TimeFrame(v); tf.Valid() {
		return tf
	}
	if tf, ok := legacyTimeFrames[v]; ok {
		return tf
	}
	return Last24Hours
}
