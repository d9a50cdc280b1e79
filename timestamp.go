/*
	GDSII's date/time sub-records are six consecutive int16 values:
	year, month, day, hour, minute, second, always in local-to-the-
	writer wall clock terms with no timezone recorded (spec.md §3).
*/
package gdsii

import "time"

func timeToShorts(t time.Time) []int16 {
	return []int16{
		int16(t.Year()), int16(t.Month()), int16(t.Day()),
		int16(t.Hour()), int16(t.Minute()), int16(t.Second()),
	}
}

func shortsToTime(v []int16) time.Time {
	if len(v) < 6 {
		return time.Time{}
	}
	return time.Date(int(v[0]), time.Month(v[1]), int(v[2]), int(v[3]), int(v[4]), int(v[5]), 0, time.UTC)
}
