package bookingui

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/mark3labs/handyhire/internal/booking"
	"github.com/mark3labs/handyhire/internal/tui"
)

// Run is the entry point for the booking wizard. It returns tui.ErrCancelled
// when the user leaves before booking.
func Run(ctx context.Context, opts Options) (booking.Confirmation, error) {
	m, err := New(ctx, opts)
	if err != nil {
		return booking.Confirmation{}, err
	}

	p := tea.NewProgram(m, tea.WithContext(ctx))
	finalModel, err := p.Run()
	if err != nil {
		return booking.Confirmation{}, fmt.Errorf("booking wizard failed: %w", err)
	}

	result, ok := finalModel.(*Model)
	if !ok {
		return booking.Confirmation{}, fmt.Errorf("unexpected model type")
	}
	if result.Err() != nil {
		return booking.Confirmation{}, result.Err()
	}
	if conf, ok := result.Confirmation(); ok {
		return conf, nil
	}
	return booking.Confirmation{}, tui.ErrCancelled
}
