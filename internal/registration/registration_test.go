package registration

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mark3labs/handyhire/internal/api"
	"github.com/mark3labs/handyhire/internal/store"
	"github.com/mark3labs/handyhire/internal/wizard"
)

type fakeRegistrar struct {
	calls []api.RegistrationRequest
	err   error
}

func (f *fakeRegistrar) RegisterProvider(_ context.Context, reg api.RegistrationRequest) (*api.MessageResponse, error) {
	f.calls = append(f.calls, reg)
	if f.err != nil {
		return nil, f.err
	}
	return &api.MessageResponse{Message: "Registration received"}, nil
}

type fakeRecorder struct{ events []store.Event }

func (f *fakeRecorder) Record(_ context.Context, ev store.Event) error {
	f.events = append(f.events, ev)
	return nil
}

func writeCert(t *testing.T, name string, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x", size)), 0o600))
	return path
}

func complete(t *testing.T) FormData {
	t.Helper()
	f := FormData{}
	SetName("Hari")(&f)
	SetEmail("hari@example.com")(&f)
	SetPhone("9801")(&f)
	SetAddress("Lalitpur")(&f)
	SetServiceType(api.Plumber)(&f)
	SetExperience(4)(&f)
	SetHourlyRate(450)(&f)
	SetWorkingHours("8:00 AM", "4:00 PM")(&f)
	for i, q := range Questions(api.Plumber) {
		Answer(i, q.Answer)(&f)
	}
	SubmitExam(3)(&f)
	SetCertificate(writeCert(t, "licence.pdf", 128))(&f)
	return f
}

func TestGrade(t *testing.T) {
	qs := Questions(api.Electrician)
	require.Len(t, qs, 4)

	answers := []string{qs[0].Answer, "wrong", " " + strings.ToLower(qs[2].Answer) + " ", ""}
	score, pass := Grade(qs, answers, 1)
	require.Equal(t, 2, score)
	require.True(t, pass)

	score, pass = Grade(qs, answers, 3)
	require.Equal(t, 2, score)
	require.False(t, pass)

	score, _ = Grade(qs, nil, 1)
	require.Zero(t, score)
}

func TestAllAnswered(t *testing.T) {
	qs := Questions(api.Plumber)
	require.False(t, AllAnswered(qs, []string{"a", "b"}))
	require.False(t, AllAnswered(qs, []string{"a", "b", " ", "d"}))
	require.True(t, AllAnswered(qs, []string{"a", "b", "c", "d"}))
	require.Nil(t, Questions(api.ServiceType("Carpenter")))
}

func TestSetServiceType_ClearsExam(t *testing.T) {
	f := complete(t)
	require.True(t, f.ExamSubmitted)

	SetServiceType(api.Plumber)(&f)
	require.True(t, f.ExamSubmitted, "same trade keeps the exam")

	SetServiceType(api.Electrician)(&f)
	require.Nil(t, f.ExamAnswers)
	require.False(t, f.ExamSubmitted)
	require.Zero(t, f.Score)
	require.False(t, f.Pass)
}

func TestAnswer_CopiesAndResetsSubmission(t *testing.T) {
	f := complete(t)
	before := f.ExamAnswers

	Answer(1, f.ExamAnswers[1])(&f)
	require.True(t, f.ExamSubmitted, "same answer keeps submission")

	Answer(1, "Duct tape")(&f)
	require.False(t, f.ExamSubmitted)
	require.Equal(t, "PTFE tape", before[1], "earlier snapshot is not mutated")

	Answer(-1, "x")(&f)
	Answer(6, "x")(&f)
	require.Len(t, f.ExamAnswers, 7)
}

func TestSteps_Validate(t *testing.T) {
	tests := []struct {
		name   string
		step   wizard.Step[FormData]
		mutate func(*FormData)
		field  string
	}{
		{"personal ok", PersonalStep{}, func(*FormData) {}, ""},
		{"missing name", PersonalStep{}, func(f *FormData) { f.Name = " " }, "name"},
		{"bad email", PersonalStep{}, func(f *FormData) { f.Email = "not-an-email" }, "email"},
		{"missing address", PersonalStep{}, SetAddress(""), "address"},
		{"professional ok", ProfessionalStep{}, func(*FormData) {}, ""},
		{"unknown trade", ProfessionalStep{}, func(f *FormData) { f.ServiceType = "Carpenter" }, "service type"},
		{"negative experience", ProfessionalStep{}, SetExperience(-1), "experience"},
		{"zero rate", ProfessionalStep{}, SetHourlyRate(0), "hourly rate"},
		{"unparseable hours", ProfessionalStep{}, SetWorkingHours("soon", "4:00 PM"), "working from"},
		{"inverted hours", ProfessionalStep{}, SetWorkingHours("4:00 PM", "8:00 AM"), "working to"},
		{"exam ok", ExamStep{}, func(*FormData) {}, ""},
		{"exam not submitted", ExamStep{}, Answer(0, "Low pressure"), "exam"},
		{"exam unanswered", ExamStep{}, func(f *FormData) { f.ExamAnswers = f.ExamAnswers[:2] }, "exam"},
		{"certificate ok", CertificateStep{}, func(*FormData) {}, ""},
		{"no certificate", CertificateStep{}, SetCertificate(""), "certificate"},
		{"review ok", ReviewStep{}, func(*FormData) {}, ""},
		{"review catches earlier step", ReviewStep{}, SetHourlyRate(0), "hourly rate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := complete(t)
			tt.mutate(&f)
			err := tt.step.Validate(f)
			if tt.field == "" {
				require.NoError(t, err)
				return
			}
			var verr *wizard.ValidationError
			require.ErrorAs(t, err, &verr)
			require.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestCheckCertificate(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"pdf", writeCert(t, "a.pdf", 10), false},
		{"upper case jpg", writeCert(t, "a.JPG", 10), false},
		{"png", writeCert(t, "a.png", 10), false},
		{"wrong extension", writeCert(t, "a.docx", 10), true},
		{"empty", writeCert(t, "empty.pdf", 0), true},
		{"too large", writeCert(t, "big.pdf", MaxCertificateSize+1), true},
		{"missing", filepath.Join(dir, "nope.pdf"), true},
		{"directory", func() string {
			p := filepath.Join(dir, "folder.pdf")
			require.NoError(t, os.Mkdir(p, 0o700))
			return p
		}(), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckCertificate(tt.path)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestRequest_OmitsAnswers(t *testing.T) {
	f := complete(t)
	req := f.Request()
	require.Equal(t, "Plumber", req.ServiceType)
	require.Equal(t, 4, req.Score)
	require.True(t, req.Pass)
	require.Equal(t, f.CertificatePath, req.CertificatePath)
}

func TestChanges(t *testing.T) {
	f := complete(t)
	require.Empty(t, Changes(f, f))

	edited := f
	SetHourlyRate(500)(&edited)
	diff := Changes(f, edited)
	require.Contains(t, diff, "-Hourly rate:   450.00")
	require.Contains(t, diff, "+Hourly rate:   500.00")
	require.NotContains(t, diff, "+Name:")
}

func TestController_EndToEnd(t *testing.T) {
	reg := &fakeRegistrar{}
	rec := &fakeRecorder{}
	at := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	sub := &Submitter{Registrar: reg, Recorder: rec, Now: func() time.Time { return at }}

	ctrl, err := wizard.New(context.Background(), complete(t), Steps(), sub.Func())
	require.NoError(t, err)
	defer ctrl.Close()

	for !ctrl.IsLast() {
		require.NoError(t, ctrl.Advance())
	}
	require.Equal(t, StepReview, ctrl.StepName(ctrl.Current()))

	st, err := ctrl.Submit(context.Background())
	require.NoError(t, err)
	require.Len(t, reg.calls, 1)
	require.Equal(t, "Registration received", st.Message)
	require.Equal(t, at, st.SubmittedAt)
	require.Equal(t, wizard.Submitted, ctrl.State())
	require.Len(t, rec.events, 1)
	require.Equal(t, "submitted", rec.events[0].Action)

	// Editing after submission starts again from the first step.
	require.NoError(t, ctrl.Restart())
	require.Equal(t, 1, ctrl.Current())
	require.Equal(t, wizard.Editing, ctrl.State())
	require.NoError(t, ctrl.Apply(SetHourlyRate(520)))
	require.Contains(t, Changes(st.Snapshot, ctrl.Form()), "+Hourly rate:   520.00")
}

func TestController_SubmitFailureKeepsState(t *testing.T) {
	reg := &fakeRegistrar{err: &api.Error{Status: 400, Message: "Email already registered"}}
	rec := &fakeRecorder{}
	sub := &Submitter{Registrar: reg, Recorder: rec}

	ctrl, err := wizard.New(context.Background(), complete(t), Steps(), sub.Func())
	require.NoError(t, err)
	defer ctrl.Close()
	for !ctrl.IsLast() {
		require.NoError(t, ctrl.Advance())
	}

	_, err = ctrl.Submit(context.Background())
	var apiErr *api.Error
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, wizard.Editing, ctrl.State())
	require.Equal(t, StepReview, ctrl.StepName(ctrl.Current()))
	require.Equal(t, "hari@example.com", ctrl.Form().Email)
	require.Len(t, rec.events, 1)
	require.Equal(t, "failed", rec.events[0].Action)
	require.Contains(t, rec.events[0].Summary, "Email already registered")
}
