package playlake

import "sort"

// ExtractUsers derives the users dimension from the activity logs. Only
// song-play events are considered - other actions can carry partial user
// attributes and must not pollute the profile. The snapshot for each user
// comes from the record with the greatest timestamp (last write wins, as an
// explicit aggregation rather than a processing-order side effect); equal
// timestamps keep the earlier record in input order. Anonymous events with a
// blank userId never produce a user row. The result is sorted by user_id.
func ExtractUsers(logs []LogRecord) []UserRow {
	latest := make(map[string]LogRecord)
	for _, lr := range logs {
		if !lr.IsPlay() || lr.UserID == "" {
			continue
		}
		if cur, ok := latest[lr.UserID]; ok && lr.TS <= cur.TS {
			continue
		}
		latest[lr.UserID] = lr
	}
	rows := make([]UserRow, 0, len(latest))
	for _, lr := range latest {
		rows = append(rows, UserRow{
			UserID:    lr.UserID,
			FirstName: lr.FirstName,
			LastName:  lr.LastName,
			Gender:    lr.Gender,
			Level:     lr.Level,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].UserID < rows[j].UserID })
	return rows
}
