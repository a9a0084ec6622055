// utils/dates.go
package utils

import "time"

// WAT is the fixed reference timezone for all date comparisons and log
// partition keys (West Africa Time, UTC+1, no DST).
var WAT = time.FixedZone("WAT", 60*60)

// SameMonthDay reports whether two dates share month and day-of-month,
// ignoring the year.
func SameMonthDay(a, b time.Time) bool {
	return a.Month() == b.Month() && a.Day() == b.Day()
}

// DateKey formats t as the ISO date key used for log partitions, in WAT.
func DateKey(t time.Time) string {
	return t.In(WAT).Format("2006-01-02")
}
