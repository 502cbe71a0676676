package registration

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/handyhire/internal/api"
	"github.com/mark3labs/handyhire/internal/logger"
	"github.com/mark3labs/handyhire/internal/nats"
	"github.com/mark3labs/handyhire/internal/store"
	"github.com/mark3labs/handyhire/internal/wizard"
)

// Registrar posts a registration to the backend.
type Registrar interface {
	RegisterProvider(ctx context.Context, reg api.RegistrationRequest) (*api.MessageResponse, error)
}

// Recorder keeps a local log of submissions.
type Recorder interface {
	Record(ctx context.Context, event store.Event) error
}

// Status describes an accepted registration. The backend verifies documents
// later and offers no endpoint to poll, so an accepted registration is
// always shown as pending.
type Status struct {
	Message     string
	SubmittedAt time.Time
	// Snapshot is the record as it was sent, used to show later edits.
	Snapshot FormData
}

// Submitter sends a completed registration.
type Submitter struct {
	Registrar Registrar
	Recorder  Recorder // optional
	Now       func() time.Time
}

// Submit posts the registration once.
func (s *Submitter) Submit(ctx context.Context, f FormData) (Status, error) {
	resp, err := s.Registrar.RegisterProvider(ctx, f.Request())
	if err != nil {
		s.record(ctx, f, "failed", api.UserMessage(err))
		return Status{}, err
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	st := Status{Message: resp.Message, SubmittedAt: now(), Snapshot: f}
	st.Snapshot.ExamAnswers = append([]string(nil), f.ExamAnswers...)

	logger.Info("registration submitted for %s (%s)", f.Email, f.ServiceType)
	s.record(ctx, f, "submitted", "")
	return st, nil
}

// Func adapts the submitter to the wizard controller.
func (s *Submitter) Func() wizard.SubmitFunc[FormData, Status] {
	return s.Submit
}

func (s *Submitter) record(ctx context.Context, f FormData, action, reason string) {
	if s.Recorder == nil {
		return
	}
	summary := fmt.Sprintf("%s registration for %s, score %d", f.ServiceType, f.Email, f.Score)
	if reason != "" {
		summary += ": " + reason
	}
	ev := store.Event{Type: nats.EventTypeRegistration, Action: action, Reference: f.Email, Summary: summary}
	if err := s.Recorder.Record(context.WithoutCancel(ctx), ev); err != nil {
		logger.Warn("recording registration event: %v", err)
	}
}
