// Package registration holds the service provider registration flow.
package registration

import (
	"strings"

	"github.com/mark3labs/handyhire/internal/api"
)

// FormData is the registration record accumulated across the wizard.
type FormData struct {
	Name            string
	Email           string
	Phone           string
	Address         string
	AddressSelected bool

	ServiceType api.ServiceType
	Experience  int
	HourlyRate  float64
	WorkingFrom string
	WorkingTo   string

	ExamAnswers   []string
	ExamSubmitted bool
	Score         int
	Pass          bool

	// CertificatePath is read from disk at submission time.
	CertificatePath string
}

// Request converts the record into the multipart registration payload.
// Exam answers stay local; only the score and result are sent.
func (f FormData) Request() api.RegistrationRequest {
	return api.RegistrationRequest{
		Name:            f.Name,
		Email:           f.Email,
		Phone:           f.Phone,
		Address:         f.Address,
		ServiceType:     string(f.ServiceType),
		Experience:      f.Experience,
		HourlyRate:      f.HourlyRate,
		WorkingFrom:     f.WorkingFrom,
		WorkingTo:       f.WorkingTo,
		Score:           f.Score,
		Pass:            f.Pass,
		CertificatePath: f.CertificatePath,
	}
}

// ApplyProfile overwrites the personal fields from the user's profile.
func ApplyProfile(p api.Profile) func(*FormData) {
	return func(f *FormData) {
		f.Name = p.Name
		f.Email = p.Email
		f.Phone = p.PhoneNo
		f.Address = p.Address()
		f.AddressSelected = true
	}
}

func SetName(v string) func(*FormData)  { return func(f *FormData) { f.Name = v } }
func SetEmail(v string) func(*FormData) { return func(f *FormData) { f.Email = v } }
func SetPhone(v string) func(*FormData) { return func(f *FormData) { f.Phone = v } }

func SetAddress(v string) func(*FormData) {
	return func(f *FormData) {
		f.Address = v
		f.AddressSelected = strings.TrimSpace(v) != ""
	}
}

// SetServiceType changes the trade. A different trade swaps the question bank,
// so previous answers and the grade are dropped.
func SetServiceType(st api.ServiceType) func(*FormData) {
	return func(f *FormData) {
		if f.ServiceType == st {
			return
		}
		f.ServiceType = st
		f.ExamAnswers = nil
		f.ExamSubmitted = false
		f.Score = 0
		f.Pass = false
	}
}

func SetExperience(years int) func(*FormData)   { return func(f *FormData) { f.Experience = years } }
func SetHourlyRate(rate float64) func(*FormData) { return func(f *FormData) { f.HourlyRate = rate } }

// SetWorkingHours sets both ends of the working day.
func SetWorkingHours(from, to string) func(*FormData) {
	return func(f *FormData) {
		f.WorkingFrom = from
		f.WorkingTo = to
	}
}

// Answer records the answer to question i. Changing an answer after the exam
// was submitted requires submitting it again.
func Answer(i int, answer string) func(*FormData) {
	return func(f *FormData) {
		if i < 0 {
			return
		}
		if i >= len(f.ExamAnswers) {
			grown := make([]string, i+1)
			copy(grown, f.ExamAnswers)
			f.ExamAnswers = grown
		} else {
			f.ExamAnswers = append([]string(nil), f.ExamAnswers...)
		}
		if f.ExamAnswers[i] != answer {
			f.ExamSubmitted = false
		}
		f.ExamAnswers[i] = answer
	}
}

// SubmitExam grades the current answers against the trade's question bank.
func SubmitExam(threshold int) func(*FormData) {
	return func(f *FormData) {
		f.Score, f.Pass = Grade(Questions(f.ServiceType), f.ExamAnswers, threshold)
		f.ExamSubmitted = true
	}
}

// SetCertificate sets the certificate file path.
func SetCertificate(path string) func(*FormData) {
	return func(f *FormData) { f.CertificatePath = strings.TrimSpace(path) }
}
