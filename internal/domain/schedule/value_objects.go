package schedule

import (
	"errors"
	"fmt"
)

var ErrInvalidTime = errors.New("invalid time of day")

// TimeOfDay is an hour:minute pair within a single day.
type TimeOfDay struct {
	hour   int
	minute int
}

func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return TimeOfDay{}, ErrInvalidTime
	}
	return TimeOfDay{hour: hour, minute: minute}, nil
}

// TimeFromMinute converts a minute-of-day (0-1439) back to an hour:minute pair.
func TimeFromMinute(minuteOfDay int) TimeOfDay {
	return TimeOfDay{hour: minuteOfDay / 60, minute: minuteOfDay % 60}
}

func (t TimeOfDay) Hour() int {
	return t.hour
}

func (t TimeOfDay) Minute() int {
	return t.minute
}

func (t TimeOfDay) MinuteOfDay() int {
	return t.hour*60 + t.minute
}

// String renders without zero padding, matching the historical record format.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%d:%d", t.hour, t.minute)
}
