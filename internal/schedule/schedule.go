// Package schedule handles booking dates and one-hour time slots derived from
// a provider's working hours.
package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	dateLayout = "2006-01-02"
	slotSep    = " - "

	// SlotLength is the width of every generated slot.
	SlotLength = time.Hour
)

var (
	ErrNoDate     = errors.New("booking date is required")
	ErrDateInPast = errors.New("booking date cannot be in the past")
	ErrNoSlot     = errors.New("time slot is required")
	ErrSlotInPast = errors.New("selected time slot has already started")
)

// clockLayouts are tried in order; providers send 12-hour strings but 24-hour
// input is accepted from the keyboard.
var clockLayouts = []string{"3:04 PM", "3:04PM", "15:04"}

// Clock is a time of day as an offset from midnight.
type Clock time.Duration

// ParseClock parses strings such as "9:00 AM", "09:00 am" or "17:30".
func ParseClock(s string) (Clock, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	for _, layout := range clockLayouts {
		t, err := time.Parse(layout, v)
		if err == nil {
			return Clock(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute), nil
		}
	}
	return 0, fmt.Errorf("invalid time of day %q", s)
}

// String formats the clock as "3:04 PM".
func (c Clock) String() string {
	return time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(c)).Format("3:04 PM")
}

// On places the clock on the given date in loc.
func (c Clock) On(d Date, loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc).Add(time.Duration(c))
}

// GenerateSlots returns one-hour slot labels such as "9:00 AM - 10:00 AM"
// covering workingFrom to workingTo on a single day. Only slots that end at or
// before workingTo are produced, and ranges that end at or before their start
// produce none.
func GenerateSlots(workingFrom, workingTo string) ([]string, error) {
	from, err := ParseClock(workingFrom)
	if err != nil {
		return nil, fmt.Errorf("working from: %w", err)
	}
	to, err := ParseClock(workingTo)
	if err != nil {
		return nil, fmt.Errorf("working to: %w", err)
	}

	var slots []string
	for start := from; start+Clock(SlotLength) <= to; start += Clock(SlotLength) {
		slots = append(slots, start.String()+slotSep+(start+Clock(SlotLength)).String())
	}
	return slots, nil
}

// ParseSlot splits a slot label into its start and end.
func ParseSlot(label string) (start, end Clock, err error) {
	parts := strings.Split(label, slotSep)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time slot %q", label)
	}
	if start, err = ParseClock(parts[0]); err != nil {
		return 0, 0, err
	}
	if end, err = ParseClock(parts[1]); err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// ValidateDate rejects dates strictly before the day of now. Today is valid.
func ValidateDate(d Date, now time.Time) error {
	if d.IsZero() {
		return ErrNoDate
	}
	if d.Before(DateOf(now)) {
		return ErrDateInPast
	}
	return nil
}

// ValidateSlot requires the slot's start on date d to be strictly after now.
func ValidateSlot(d Date, slot string, now time.Time) error {
	if strings.TrimSpace(slot) == "" {
		return ErrNoSlot
	}
	if d.IsZero() {
		return ErrNoDate
	}
	start, _, err := ParseSlot(slot)
	if err != nil {
		return err
	}
	if !start.On(d, now.Location()).After(now) {
		return ErrSlotInPast
	}
	return nil
}

// Validate runs both checks; the date error wins when both fail.
func Validate(d Date, slot string, now time.Time) error {
	if err := ValidateDate(d, now); err != nil {
		return err
	}
	return ValidateSlot(d, slot, now)
}
