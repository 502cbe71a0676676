package main

import (
	"fmt"
	"io"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/mark3labs/handyhire/internal/store"
	"github.com/mark3labs/handyhire/internal/tui/theme"
)

var historyFlags struct {
	kind  string
	limit int
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past bookings and registrations",
	Long: `List the bookings and registrations sent from this machine, newest
last. Failed attempts are included with the reason the backend gave.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().StringVarP(&historyFlags.kind, "type", "t", "", "Only show booking or registration events")
	historyCmd.Flags().IntVarP(&historyFlags.limit, "limit", "n", 0, "Show only the last n events, 0=all")
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	events, err := a.store.History(ctx)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}
	events = filterEvents(events, historyFlags.kind, historyFlags.limit)

	out := cmd.OutOrStdout()
	if len(events) == 0 {
		lipgloss.Fprintln(out, "Nothing recorded yet.")
		return nil
	}
	printHistory(out, events)
	return nil
}

// filterEvents keeps events of kind ("" for all) and then the last limit of
// them (0 for all).
func filterEvents(events []store.Event, kind string, limit int) []store.Event {
	var kept []store.Event
	for _, ev := range events {
		if kind == "" || ev.Type == kind {
			kept = append(kept, ev)
		}
	}
	if limit > 0 && len(kept) > limit {
		kept = kept[len(kept)-limit:]
	}
	return kept
}

func printHistory(w io.Writer, events []store.Event) {
	s := theme.Current().S()
	for _, ev := range events {
		action := s.Success.Render(ev.Action)
		if ev.Action != "submitted" {
			action = s.Error.Render(ev.Action)
		}
		line := fmt.Sprintf("%s  %-12s %s",
			s.Muted.Render(ev.Timestamp.Local().Format("2006-01-02 15:04")),
			ev.Type,
			action,
		)
		if ev.Reference != "" {
			line += "  " + s.Value.Render(ev.Reference)
		}
		lipgloss.Fprintln(w, line)
		if ev.Summary != "" {
			lipgloss.Fprintln(w, "    "+ev.Summary)
		}
	}
}
