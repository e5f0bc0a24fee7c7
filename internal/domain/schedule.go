package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

var ErrMalformedSchedule = errors.New("malformed schedule")

// TimeOfDay is a clock time expressed as minutes since midnight. 1440 is a
// valid segment end, meaning end of day.
type TimeOfDay int

const minutesPerDay = 24 * 60

// ParseTimeOfDay parses "HH:MM". "24:00" is accepted as the end-of-day mark.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("%w: bad time %q", ErrMalformedSchedule, s)
	}
	if m < 0 || m > 59 || h < 0 || h > 24 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("%w: bad time %q", ErrMalformedSchedule, s)
	}
	return TimeOfDay(h*60 + m), nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// At anchors the time of day onto the given date, in the date's location.
func (t TimeOfDay) At(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location()).
		Add(time.Duration(t) * time.Minute)
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", t.String())), nil
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	v, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// TimeSegment is a half-open [Start, End) working window within one day.
type TimeSegment struct {
	Start TimeOfDay `json:"start"`
	End   TimeOfDay `json:"end"`
}

type DaySchedule struct {
	Closed   bool          `json:"closed,omitempty"`
	Segments []TimeSegment `json:"segments,omitempty"`
}

// WeeklySchedule maps lowercase weekday names ("monday".."sunday") to the
// working windows for that day. A missing day counts as closed.
type WeeklySchedule map[string]DaySchedule

var weekdayKeys = map[string]bool{
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
}

// WeekdayKey returns the schedule map key for a weekday.
func WeekdayKey(d time.Weekday) string {
	return strings.ToLower(d.String())
}

// Day returns the schedule for the given weekday and whether the provider is
// open at all that day.
func (ws WeeklySchedule) Day(d time.Weekday) (DaySchedule, bool) {
	day, ok := ws[WeekdayKey(d)]
	if !ok || day.Closed || len(day.Segments) == 0 {
		return DaySchedule{Closed: true}, false
	}
	return day, true
}

// Validate rejects unknown day keys, out-of-range times, empty or inverted
// segments, unsorted segments, and overlap between segments of the same day.
func (ws WeeklySchedule) Validate() error {
	for key, day := range ws {
		if !weekdayKeys[key] {
			return fmt.Errorf("%w: unknown day %q", ErrMalformedSchedule, key)
		}
		if day.Closed && len(day.Segments) > 0 {
			return fmt.Errorf("%w: %s is closed but has segments", ErrMalformedSchedule, key)
		}
		if !sort.SliceIsSorted(day.Segments, func(i, j int) bool {
			return day.Segments[i].Start < day.Segments[j].Start
		}) {
			return fmt.Errorf("%w: %s segments are not sorted", ErrMalformedSchedule, key)
		}
		for i, seg := range day.Segments {
			if seg.Start < 0 || seg.End > minutesPerDay {
				return fmt.Errorf("%w: %s segment %s-%s is out of range", ErrMalformedSchedule, key, seg.Start, seg.End)
			}
			if seg.Start >= seg.End {
				return fmt.Errorf("%w: %s segment %s-%s is empty or inverted", ErrMalformedSchedule, key, seg.Start, seg.End)
			}
			if i > 0 && day.Segments[i-1].End > seg.Start {
				return fmt.Errorf("%w: %s segments overlap at %s", ErrMalformedSchedule, key, seg.Start)
			}
		}
	}
	return nil
}

// DefaultWeeklySchedule is the fallback used when a provider has not
// configured hours yet: 09:00-21:00 every day.
func DefaultWeeklySchedule() WeeklySchedule {
	ws := make(WeeklySchedule, 7)
	for key := range weekdayKeys {
		ws[key] = DaySchedule{Segments: []TimeSegment{{Start: 9 * 60, End: 21 * 60}}}
	}
	return ws
}
