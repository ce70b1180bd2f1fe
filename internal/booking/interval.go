package booking

import "time"

// Overlaps reports whether the half-open ranges [aStart, aEnd) and
// [bStart, bEnd) intersect. Sharing a boundary is not an overlap, so a
// checkout and a checkin on the same day are compatible.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// ValidRange reports whether start and end form a usable booking range.
func ValidRange(start, end time.Time) bool {
	return !start.IsZero() && !end.IsZero() && end.After(start)
}
