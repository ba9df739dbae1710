package playlake

import (
	"sort"
	"time"
)

// ExtractTime derives the time dimension from the activity logs: one row per
// distinct timestamp among song-play events, broken down on the UTC calendar.
// The result is sorted by start_time.
func ExtractTime(logs []LogRecord) []TimeRow {
	seen := make(map[int64]struct{})
	var rows []TimeRow
	for _, lr := range logs {
		if !lr.IsPlay() {
			continue
		}
		if _, ok := seen[lr.TS]; ok {
			continue
		}
		seen[lr.TS] = struct{}{}
		rows = append(rows, BreakdownTS(lr.TS))
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].StartTime < rows[j].StartTime })
	return rows
}

// BreakdownTS converts an epoch-millisecond timestamp into its UTC calendar
// breakdown. Week is the ISO week number; weekday runs 1=Sunday through
// 7=Saturday. No timezone shift beyond UTC is ever applied.
func BreakdownTS(ms int64) TimeRow {
	t := msToTime(ms)
	_, week := t.ISOWeek()
	return TimeRow{
		StartTime: ms,
		Hour:      int32(t.Hour()),
		Day:       int32(t.Day()),
		Week:      int32(week),
		Month:     int32(t.Month()),
		Year:      int32(t.Year()),
		Weekday:   int32(t.Weekday()) + 1,
	}
}

func msToTime(ms int64) time.Time {
	return time.Unix(ms/1000, (ms%1000)*int64(time.Millisecond)).UTC()
}
