package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// TimeOfDay is a wall-clock time with no date component, stored as a MySQL
// TIME column. Job start/end times are times of day; spans crossing midnight
// are resolved by the calculation engine, not here.
type TimeOfDay struct {
	minutes int
}

func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay{minutes: hour*60 + minute}
}

// ParseTimeOfDay accepts "HH:MM" and "HH:MM:SS"; seconds are dropped.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return TimeOfDay{}, fmt.Errorf("invalid time of day: %q", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day: %q", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day: %q", s)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("time of day out of range: %q", s)
	}
	return NewTimeOfDay(hour, minute), nil
}

func (t TimeOfDay) Minutes() int {
	return t.minutes
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.minutes/60, t.minutes%60)
}

func (t TimeOfDay) Value() (driver.Value, error) {
	return t.String() + ":00", nil
}

func (t *TimeOfDay) Scan(value interface{}) error {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	case nil:
		return nil
	default:
		return errors.New("time of day must be string")
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
