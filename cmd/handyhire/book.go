package main

import (
	"errors"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/mark3labs/handyhire/internal/booking"
	"github.com/mark3labs/handyhire/internal/tui"
	"github.com/mark3labs/handyhire/internal/tui/bookingui"
	"github.com/mark3labs/handyhire/internal/tui/theme"
)

var bookCmd = &cobra.Command{
	Use:   "book",
	Short: "Book an electrician or plumber",
	Long: `Open the booking wizard.

The wizard walks through personal details, service type, provider, date and
time slot, then a review. Your profile pre-fills the personal details. A PDF
receipt is written to receipt_dir when it is configured.`,
	RunE: runBook,
}

func runBook(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	if err := a.requireSession(ctx); err != nil {
		return err
	}

	submitter := &booking.Submitter{
		Orders:     a.client,
		Recorder:   a.store,
		ReceiptDir: a.cfg.ReceiptDir,
	}
	conf, err := bookingui.Run(ctx, bookingui.Options{
		Backend: a.client,
		Submit:  submitter.Func(),
	})
	if errors.Is(err, tui.ErrCancelled) {
		lipgloss.Fprintln(cmd.OutOrStdout(), "Booking cancelled.")
		return nil
	}
	if err != nil {
		return explainAuth(err)
	}

	s := theme.Current().S()
	out := cmd.OutOrStdout()
	if conf.BookingID != "" {
		lipgloss.Fprintln(out, s.Success.Render("✓ Booking confirmed")+"  "+s.Value.Render(conf.BookingID))
	} else {
		lipgloss.Fprintln(out, s.Success.Render("✓ Booking confirmed")+"  "+s.Warning.Render("(no booking id returned)"))
	}
	if conf.Message != "" {
		lipgloss.Fprintln(out, conf.Message)
	}
	if conf.ReceiptPath != "" {
		lipgloss.Fprintf(out, "Receipt written to %s\n", conf.ReceiptPath)
	}
	return nil
}
