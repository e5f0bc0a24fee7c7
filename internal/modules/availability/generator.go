package availability

import (
	"time"

	"servicebooking/internal/domain"
)

// Interval is an occupied [Start, End) range.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// Generator enumerates bookable start times for one provider day. Step is the
// distance between candidate starts; zero means step = service duration, so
// slots sit back to back.
type Generator struct {
	Step time.Duration
}

// Slots derives the available start times for a service of the given duration
// on date, given the provider's weekly schedule and the already occupied
// intervals for that day. Results are ascending and recomputed on every call;
// occupancy changes between calls, so nothing here is cached.
//
// A candidate survives when its full interval fits inside one schedule
// segment, overlaps no occupied interval, and does not start in the past when
// date is today.
func (g Generator) Slots(ws domain.WeeklySchedule, date time.Time, duration time.Duration, occupied []Interval, now time.Time) ([]time.Time, error) {
	if duration <= 0 {
		return nil, ErrInvalidDuration
	}

	day, open := ws.Day(date.Weekday())
	if !open {
		return []time.Time{}, nil
	}

	step := g.Step
	if step <= 0 {
		step = duration
	}

	sameDay := date.UTC().Truncate(24 * time.Hour).Equal(now.UTC().Truncate(24 * time.Hour))

	out := make([]time.Time, 0)
	for _, seg := range day.Segments {
		segStart := seg.Start.At(date)
		segEnd := seg.End.At(date)

		for cand := segStart; !cand.Add(duration).After(segEnd); cand = cand.Add(step) {
			if sameDay && cand.Before(now) {
				continue
			}
			if overlapsAny(cand, cand.Add(duration), occupied) {
				continue
			}
			out = append(out, cand)
		}
	}
	return out, nil
}

func overlapsAny(start, end time.Time, occupied []Interval) bool {
	for _, occ := range occupied {
		if Overlaps(start, end, occ.Start, occ.End) {
			return true
		}
	}
	return false
}
