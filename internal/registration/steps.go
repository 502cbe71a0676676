package registration

import (
	"fmt"
	"net/mail"
	"os"
	"path/filepath"
	"strings"

	"github.com/mark3labs/handyhire/internal/schedule"
	"github.com/mark3labs/handyhire/internal/wizard"
)

// Step names, in order.
const (
	StepPersonal     = "Personal details"
	StepProfessional = "Professional details"
	StepExam         = "Assessment"
	StepCertificate  = "Certificate"
	StepReview       = "Review"
)

// MaxCertificateSize bounds the uploaded certificate.
const MaxCertificateSize = 5 << 20

// CertificateExtensions are the accepted certificate file types.
var CertificateExtensions = []string{".pdf", ".jpg", ".jpeg", ".png"}

// Steps returns the five registration steps.
func Steps() []wizard.Step[FormData] {
	return []wizard.Step[FormData]{
		PersonalStep{},
		ProfessionalStep{},
		ExamStep{},
		CertificateStep{},
		ReviewStep{},
	}
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

// PersonalStep requires name, a valid email, phone and address.
type PersonalStep struct{}

func (PersonalStep) Name() string { return StepPersonal }

func (PersonalStep) Validate(f FormData) error {
	switch {
	case blank(f.Name):
		return wizard.Required("name")
	case blank(f.Email):
		return wizard.Required("email")
	case blank(f.Phone):
		return wizard.Required("phone")
	case blank(f.Address) || !f.AddressSelected:
		return wizard.Required("address")
	}
	if _, err := mail.ParseAddress(f.Email); err != nil {
		return wizard.Invalid("email", "enter a valid email address")
	}
	return nil
}

// ProfessionalStep requires the trade, experience, rate and a working day
// that ends after it starts.
type ProfessionalStep struct{}

func (ProfessionalStep) Name() string { return StepProfessional }

func (ProfessionalStep) Validate(f FormData) error {
	if f.ServiceType == "" {
		return wizard.Required("service type")
	}
	if !f.ServiceType.Valid() {
		return wizard.Invalid("service type", "choose Electrician or Plumber")
	}
	if f.Experience < 0 || f.Experience > 60 {
		return wizard.Invalid("experience", "experience must be between 0 and 60 years")
	}
	if f.HourlyRate <= 0 {
		return wizard.Invalid("hourly rate", "hourly rate must be greater than 0")
	}
	if blank(f.WorkingFrom) {
		return wizard.Required("working from")
	}
	if blank(f.WorkingTo) {
		return wizard.Required("working to")
	}
	from, err := schedule.ParseClock(f.WorkingFrom)
	if err != nil {
		return wizard.Invalid("working from", "use a time like 9:00 AM")
	}
	to, err := schedule.ParseClock(f.WorkingTo)
	if err != nil {
		return wizard.Invalid("working to", "use a time like 5:00 PM")
	}
	if to <= from {
		return wizard.Invalid("working to", "working hours must end after they start")
	}
	return nil
}

// ExamStep requires every question answered and the exam submitted.
type ExamStep struct{}

func (ExamStep) Name() string { return StepExam }

func (ExamStep) Validate(f FormData) error {
	qs := Questions(f.ServiceType)
	if len(qs) == 0 {
		return wizard.Invalid("exam", "choose a service type first")
	}
	if !AllAnswered(qs, f.ExamAnswers) {
		return wizard.Invalid("exam", "answer every question")
	}
	if !f.ExamSubmitted {
		return wizard.Invalid("exam", "submit your answers before continuing")
	}
	return nil
}

// CertificateStep requires a readable certificate of an accepted type and size.
type CertificateStep struct{}

func (CertificateStep) Name() string { return StepCertificate }

func (CertificateStep) Validate(f FormData) error {
	if blank(f.CertificatePath) {
		return wizard.Required("certificate")
	}
	return CheckCertificate(f.CertificatePath)
}

// CheckCertificate validates a certificate file on disk.
func CheckCertificate(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	okExt := false
	for _, e := range CertificateExtensions {
		if ext == e {
			okExt = true
			break
		}
	}
	if !okExt {
		return wizard.Invalid("certificate", "certificate must be a PDF, JPG or PNG file")
	}

	info, err := os.Stat(path)
	if err != nil {
		return wizard.Invalid("certificate", "certificate file not found")
	}
	if !info.Mode().IsRegular() {
		return wizard.Invalid("certificate", "certificate must be a regular file")
	}
	if info.Size() == 0 {
		return wizard.Invalid("certificate", "certificate file is empty")
	}
	if info.Size() > MaxCertificateSize {
		return wizard.Invalid("certificate", fmt.Sprintf("certificate must be at most %d MB", MaxCertificateSize>>20))
	}
	return nil
}

// ReviewStep re-checks every earlier step.
type ReviewStep struct{}

func (ReviewStep) Name() string { return StepReview }

func (ReviewStep) Validate(f FormData) error {
	for _, s := range []wizard.Step[FormData]{PersonalStep{}, ProfessionalStep{}, ExamStep{}, CertificateStep{}} {
		if err := s.Validate(f); err != nil {
			return err
		}
	}
	return nil
}
