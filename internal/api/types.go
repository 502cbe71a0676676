package api

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/handyhire/internal/schedule"
)

// ServiceType is a trade offered on the marketplace.
type ServiceType string

const (
	Electrician ServiceType = "Electrician"
	Plumber     ServiceType = "Plumber"
)

// ServiceTypes lists the trades in display order.
var ServiceTypes = []ServiceType{Electrician, Plumber}

// ParseServiceType accepts a trade name in any case.
func ParseServiceType(s string) (ServiceType, error) {
	for _, st := range ServiceTypes {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown service type %q (want Electrician or Plumber)", s)
}

// Valid reports whether st is one of ServiceTypes.
func (st ServiceType) Valid() bool {
	_, err := ParseServiceType(string(st))
	return err == nil
}

// Profile is the signed-in user's account as returned by auth/profile.
type Profile struct {
	Name         string `json:"name"`
	PhoneNo      string `json:"phoneNo"`
	Province     string `json:"province"`
	District     string `json:"district"`
	Municipality string `json:"municipality"`
	AccountID    string `json:"accountId"`
	Email        string `json:"email"`
}

// Address joins municipality, district and province, skipping empty parts.
func (p Profile) Address() string {
	var parts []string
	for _, s := range []string{p.Municipality, p.District, p.Province} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

// Provider is a bookable service professional.
type Provider struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	ServiceType  string  `json:"serviceType"`
	Experience   int     `json:"experience"`
	WorkingFrom  string  `json:"workingFrom"`
	WorkingTo    string  `json:"workingTo"`
	RateCharge   float64 `json:"rateCharge"`
	ProfilePhoto string  `json:"profilePhoto,omitempty"`
}

// OrderRequest is the body of book-provider/create-order.
type OrderRequest struct {
	Name        string        `json:"name"`
	Phone       string        `json:"phone"`
	Address     string        `json:"address"`
	ServiceType string        `json:"serviceType"`
	ProviderID  string        `json:"providerId"`
	BookingDate schedule.Date `json:"bookingDate"`
	TimeSlot    string        `json:"timeSlot"`
	RateCharge  float64       `json:"rateCharge"`
}

// Booking is the server side record created for an order.
type Booking struct {
	BookingID string `json:"bookingId"`
}

// OrderResponse is returned on a successful order.
type OrderResponse struct {
	Message string  `json:"message"`
	Booking Booking `json:"booking"`
}

// RegistrationRequest carries the multipart fields of service-provider/register.
// CertificatePath is read when the request is sent.
type RegistrationRequest struct {
	Name            string
	Email           string
	Phone           string
	Address         string
	ServiceType     string
	Experience      int
	HourlyRate      float64
	WorkingFrom     string
	WorkingTo       string
	Score           int
	Pass            bool
	CertificatePath string
}

// Fields returns the scalar form fields in the order they are sent. The
// certificate file part is not included.
func (r RegistrationRequest) Fields() [][2]string {
	return [][2]string{
		{"name", r.Name},
		{"email", r.Email},
		{"phone", r.Phone},
		{"address", r.Address},
		{"serviceType", r.ServiceType},
		{"experience", strconv.Itoa(r.Experience)},
		{"hourlyRate", strconv.FormatFloat(r.HourlyRate, 'f', -1, 64)},
		{"workingFrom", r.WorkingFrom},
		{"workingTo", r.WorkingTo},
		{"score", strconv.Itoa(r.Score)},
		{"pass", strconv.FormatBool(r.Pass)},
	}
}

// MessageResponse is the generic {message} reply.
type MessageResponse struct {
	Message string `json:"message"`
}

// FeedbackSummary is returned by booked/provider-feedbacks/{id}.
type FeedbackSummary struct {
	AverageRating float64 `json:"averageRating"`
}

// OTPRequest starts a password reset.
type OTPRequest struct {
	Email string `json:"email"`
}

// VerifyOTPRequest checks the code sent by SendOTP.
type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// ResetPasswordRequest sets a new password after OTP verification.
type ResetPasswordRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}
