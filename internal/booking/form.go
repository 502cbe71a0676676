// Package booking holds the customer booking flow: its form record, the
// per-step validation and the submission to the backend.
package booking

import (
	"strings"

	"github.com/mark3labs/handyhire/internal/api"
	"github.com/mark3labs/handyhire/internal/schedule"
)

// ServiceType is the trade being booked.
type ServiceType = api.ServiceType

const (
	Electrician = api.Electrician
	Plumber     = api.Plumber
)

// ParseServiceType accepts a trade name in any case.
func ParseServiceType(s string) (ServiceType, error) {
	return api.ParseServiceType(s)
}

// FormData is the booking record accumulated across the wizard.
type FormData struct {
	Name        string
	Phone       string
	Address     string
	ServiceType ServiceType
	ProviderID  string
	BookingDate schedule.Date
	TimeSlot    string
	RateCharge  float64

	// Provider is a snapshot of the chosen provider.
	Provider *api.Provider
	// AddressSelected is set once an address came from the profile or was typed in.
	AddressSelected bool
}

// Order converts the record into the create-order payload.
func (f FormData) Order() api.OrderRequest {
	return api.OrderRequest{
		Name:        f.Name,
		Phone:       f.Phone,
		Address:     f.Address,
		ServiceType: string(f.ServiceType),
		ProviderID:  f.ProviderID,
		BookingDate: f.BookingDate,
		TimeSlot:    f.TimeSlot,
		RateCharge:  f.RateCharge,
	}
}

// ProviderName returns the chosen provider's name, or "" if none.
func (f FormData) ProviderName() string {
	if f.Provider == nil {
		return ""
	}
	return f.Provider.Name
}

// Patches. Each returns a function to hand to the wizard controller.

// ApplyProfile overwrites the personal fields from the user's profile.
func ApplyProfile(p api.Profile) func(*FormData) {
	return func(f *FormData) {
		f.Name = p.Name
		f.Phone = p.PhoneNo
		f.Address = p.Address()
		f.AddressSelected = true
	}
}

// SetName sets the customer name.
func SetName(name string) func(*FormData) {
	return func(f *FormData) { f.Name = name }
}

// SetPhone sets the contact number.
func SetPhone(phone string) func(*FormData) {
	return func(f *FormData) { f.Phone = phone }
}

// SetAddress sets the service address.
func SetAddress(addr string) func(*FormData) {
	return func(f *FormData) {
		f.Address = addr
		f.AddressSelected = strings.TrimSpace(addr) != ""
	}
}

// SetServiceType changes the trade. A different trade invalidates the chosen
// provider, its rate and the schedule.
func SetServiceType(st ServiceType) func(*FormData) {
	return func(f *FormData) {
		if f.ServiceType == st {
			return
		}
		f.ServiceType = st
		f.ProviderID = ""
		f.Provider = nil
		f.RateCharge = 0
		f.BookingDate = schedule.Date{}
		f.TimeSlot = ""
	}
}

// SelectProvider records the provider, its snapshot and rate. Switching to a
// different provider clears the schedule since working hours differ.
func SelectProvider(p api.Provider) func(*FormData) {
	return func(f *FormData) {
		if f.ProviderID != p.ID {
			f.BookingDate = schedule.Date{}
			f.TimeSlot = ""
		}
		snapshot := p
		f.ProviderID = p.ID
		f.Provider = &snapshot
		f.RateCharge = p.RateCharge
	}
}

// SetDate sets the booking date.
func SetDate(d schedule.Date) func(*FormData) {
	return func(f *FormData) { f.BookingDate = d }
}

// SetSlot sets the time slot label.
func SetSlot(slot string) func(*FormData) {
	return func(f *FormData) { f.TimeSlot = slot }
}
