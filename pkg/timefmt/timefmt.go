// Package timefmt renders the relative-time labels shown next to job
// listings, conversations and chat messages. The rules are shared by every
// surface that shows them: same day shows the clock time, the previous day
// shows "yesterday", up to a week back shows a day count, anything older
// shows the absolute date.
package timefmt

import (
	"fmt"
	"time"
)

const (
	clockLayout = "15:04"
	dateLayout  = "02 Jan 2006"
)

func RelativeLabel(now, t time.Time) string {

	switch days := daysBetween(t, now); {
	case days <= 0:
		return t.Format(clockLayout)
	case days == 1:
		return "yesterday"
	case days <= 7:
		return fmt.Sprintf("%d days ago", days)
	default:
		return t.Format(dateLayout)
	}
}

// DayLabel is the coarser variant used for date separators inside a chat
// thread.
func DayLabel(now, t time.Time) string {

	switch days := daysBetween(t, now); {
	case days <= 0:
		return "today"
	case days == 1:
		return "yesterday"
	default:
		return t.Format(dateLayout)
	}
}

// daysBetween counts calendar-day boundaries between t and now, in now's
// location. Same calendar day yields 0 even when the clock difference is
// almost 24 hours.
func daysBetween(t, now time.Time) int {
	t = t.In(now.Location())
	ty, tm, td := t.Date()
	ny, nm, nd := now.Date()
	start := time.Date(ty, tm, td, 0, 0, 0, 0, now.Location())
	end := time.Date(ny, nm, nd, 0, 0, 0, 0, now.Location())
	return int(end.Sub(start) / (24 * time.Hour))
}
