package registerui

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/mark3labs/handyhire/internal/registration"
	"github.com/mark3labs/handyhire/internal/tui"
)

// Run is the entry point for the registration wizard. It returns the latest
// accepted registration, or tui.ErrCancelled if none was submitted.
func Run(ctx context.Context, opts Options) (registration.Status, error) {
	m, err := New(ctx, opts)
	if err != nil {
		return registration.Status{}, err
	}

	p := tea.NewProgram(m, tea.WithContext(ctx))
	finalModel, err := p.Run()
	if err != nil {
		return registration.Status{}, fmt.Errorf("registration wizard failed: %w", err)
	}

	result, ok := finalModel.(*Model)
	if !ok {
		return registration.Status{}, fmt.Errorf("unexpected model type")
	}
	if result.Err() != nil {
		return registration.Status{}, result.Err()
	}
	if st, ok := result.Status(); ok {
		return st, nil
	}
	return registration.Status{}, tui.ErrCancelled
}
