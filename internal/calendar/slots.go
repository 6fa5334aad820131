// Package calendar schedules social posts at platform-optimal times and
// creates the corresponding calendar events.
package calendar

import "time"

// postingWindow is one recurring posting opportunity: a start hour on either
// weekdays or weekends.
type postingWindow struct {
	weekend bool
	hour    int
	minute  int
}

// Optimal posting windows per platform. Hours are in the scheduling
// timezone.
var platformWindows = map[string][]postingWindow{
	"LinkedIn": {
		{weekend: false, hour: 7},
		{weekend: false, hour: 17},
	},
	"TikTok": {
		{weekend: false, hour: 8},
		{weekend: false, hour: 18},
		{weekend: true, hour: 10},
	},
	"Instagram": {
		{weekend: false, hour: 11},
		{weekend: false, hour: 19},
		{weekend: true, hour: 10},
	},
}

func isWeekend(d time.Weekday) bool {
	return d == time.Saturday || d == time.Sunday
}

// NextSlot returns the next optimal posting time for the platform strictly
// after the given instant. Slots that have already passed today roll over to
// the next matching day. Unknown platforms get the next 9am.
func NextSlot(platform string, after time.Time) time.Time {
	windows, ok := platformWindows[platform]
	if !ok {
		windows = []postingWindow{{weekend: false, hour: 9}, {weekend: true, hour: 9}}
	}

	// Two weeks of day offsets always contain a matching window.
	var best time.Time
	for offset := 0; offset <= 14; offset++ {
		day := after.AddDate(0, 0, offset)
		for _, w := range windows {
			if w.weekend != isWeekend(day.Weekday()) {
				continue
			}
			slot := time.Date(day.Year(), day.Month(), day.Day(), w.hour, w.minute, 0, 0, after.Location())
			if !slot.After(after) {
				continue
			}
			if best.IsZero() || slot.Before(best) {
				best = slot
			}
		}
		if !best.IsZero() {
			return best
		}
	}
	return best
}
