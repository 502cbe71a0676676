package booking

import (
	"strings"
	"time"

	"github.com/mark3labs/handyhire/internal/schedule"
	"github.com/mark3labs/handyhire/internal/wizard"
)

// Step names, in order.
const (
	StepPersonal = "Personal details"
	StepService  = "Service"
	StepProvider = "Provider"
	StepSchedule = "Schedule"
	StepReview   = "Review"
)

// Steps returns the five booking steps. now is consulted by the schedule and
// review steps.
func Steps(now func() time.Time) []wizard.Step[FormData] {
	if now == nil {
		now = time.Now
	}
	return []wizard.Step[FormData]{
		PersonalStep{},
		ServiceStep{},
		ProviderStep{},
		ScheduleStep{Now: now},
		ReviewStep{Now: now},
	}
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

// PersonalStep requires name, phone and address.
type PersonalStep struct{}

func (PersonalStep) Name() string { return StepPersonal }

func (PersonalStep) Validate(f FormData) error {
	switch {
	case blank(f.Name):
		return wizard.Required("name")
	case blank(f.Phone):
		return wizard.Required("phone")
	case blank(f.Address) || !f.AddressSelected:
		return wizard.Required("address")
	}
	return nil
}

// ServiceStep requires a known service type.
type ServiceStep struct{}

func (ServiceStep) Name() string { return StepService }

func (ServiceStep) Validate(f FormData) error {
	if f.ServiceType == "" {
		return wizard.Required("service type")
	}
	if !f.ServiceType.Valid() {
		return wizard.Invalid("service type", "choose Electrician or Plumber")
	}
	return nil
}

// ProviderStep requires a selected provider.
type ProviderStep struct{}

func (ProviderStep) Name() string { return StepProvider }

func (ProviderStep) Validate(f FormData) error {
	if blank(f.ProviderID) || f.Provider == nil {
		return wizard.Invalid("provider", "select a provider")
	}
	return nil
}

// ScheduleStep requires a date no earlier than today and a slot that has not
// started yet.
type ScheduleStep struct {
	Now func() time.Time
}

func (ScheduleStep) Name() string { return StepSchedule }

func (s ScheduleStep) Validate(f FormData) error {
	now := s.Now()
	if err := schedule.ValidateDate(f.BookingDate, now); err != nil {
		return wizard.Invalid("booking date", err.Error())
	}
	if err := schedule.ValidateSlot(f.BookingDate, f.TimeSlot, now); err != nil {
		return wizard.Invalid("time slot", err.Error())
	}
	return nil
}

// ReviewStep re-checks every required field before submission.
type ReviewStep struct {
	Now func() time.Time
}

func (ReviewStep) Name() string { return StepReview }

func (s ReviewStep) Validate(f FormData) error {
	checks := []wizard.Step[FormData]{PersonalStep{}, ServiceStep{}, ProviderStep{}, ScheduleStep{Now: s.Now}}
	for _, c := range checks {
		if err := c.Validate(f); err != nil {
			return err
		}
	}
	if f.RateCharge <= 0 {
		return wizard.Invalid("rate", "selected provider has no rate")
	}
	return nil
}
