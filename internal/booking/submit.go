package booking

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

// OrderCreator posts a booking to the backend.
type OrderCreator interface {
	CreateOrder(ctx context.Context, order api.OrderRequest) (*api.OrderResponse, error)
}

// Recorder keeps a local log of submissions.
type Recorder interface {
	Record(ctx context.Context, event store.Event) error
}

// Confirmation is the outcome of a successful booking.
type Confirmation struct {
	BookingID   string
	Message     string
	ReceiptPath string
}

// MissingIDNote is recorded when the backend accepted an order without
// identifying it.
const MissingIDNote = "backend did not return a booking id"

// Submitter sends a completed booking and handles the local side effects.
type Submitter struct {
	Orders     OrderCreator
	Recorder   Recorder // optional
	ReceiptDir string   // empty disables receipts
	Now        func() time.Time
}

// Submit posts the order once. Recording and receipt generation are best
// effort and never turn a confirmed booking into a failure.
func (s *Submitter) Submit(ctx context.Context, f FormData) (Confirmation, error) {
	resp, err := s.Orders.CreateOrder(ctx, f.Order())
	if err != nil {
		s.record(ctx, f, "failed", "", api.UserMessage(err))
		return Confirmation{}, err
	}

	// The order exists once the backend answers 2xx, so a missing id is
	// still a confirmation. Retrying would book twice.
	conf := Confirmation{BookingID: resp.Booking.BookingID, Message: resp.Message}
	if conf.BookingID == "" {
		logger.Warn("booking with provider %s accepted without a booking id", f.ProviderID)
		s.record(ctx, f, "submitted", "", MissingIDNote)
		return conf, nil
	}
	logger.Info("booking %s confirmed with provider %s", conf.BookingID, f.ProviderID)
	s.record(ctx, f, "submitted", conf.BookingID, "")

	if s.ReceiptDir != "" {
		path, err := WriteReceipt(s.ReceiptDir, f, conf, s.now())
		if err != nil {
			logger.Warn("writing receipt for %s: %v", conf.BookingID, err)
		} else {
			conf.ReceiptPath = path
		}
	}
	return conf, nil
}

// Func adapts the submitter to the wizard controller.
func (s *Submitter) Func() wizard.SubmitFunc[FormData, Confirmation] {
	return s.Submit
}

func (s *Submitter) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Submitter) record(ctx context.Context, f FormData, action, ref, reason string) {
	if s.Recorder == nil {
		return
	}
	summary := fmt.Sprintf("%s with %s on %s, %s", f.ServiceType, f.ProviderName(), f.BookingDate, f.TimeSlot)
	if reason != "" {
		summary += ": " + reason
	}
	ev := store.Event{
		Type:      nats.EventTypeBooking,
		Action:    action,
		Reference: ref,
		Summary:   summary,
	}
	if err := s.Recorder.Record(context.WithoutCancel(ctx), ev); err != nil {
		logger.Warn("recording booking event: %v", err)
	}
}
