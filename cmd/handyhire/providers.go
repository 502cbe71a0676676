package main

import (
	"fmt"
	"io"
	"strconv"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/mark3labs/handyhire/internal/api"
	"github.com/mark3labs/handyhire/internal/export"
	"github.com/mark3labs/handyhire/internal/tui/theme"
)

var providersFlags struct {
	service string
	xlsx    string
}

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List service providers with their ratings",
	Long: `List the providers offering a service, with their average rating.

Without --service both trades are listed. Use --xlsx to also save the listing
as a spreadsheet.`,
	RunE: runProviders,
}

func init() {
	providersCmd.Flags().StringVarP(&providersFlags.service, "service", "s", "", "Service type: Electrician or Plumber (default: all)")
	providersCmd.Flags().StringVar(&providersFlags.xlsx, "xlsx", "", "Write the listing to this .xlsx file")
}

func runProviders(cmd *cobra.Command, args []string) error {
	services := api.ServiceTypes
	if providersFlags.service != "" {
		st, err := api.ParseServiceType(providersFlags.service)
		if err != nil {
			return err
		}
		services = []api.ServiceType{st}
	}

	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	var rows []export.ProviderRow
	for _, st := range services {
		providers, err := a.client.DisplayProviders(ctx, string(st))
		if err != nil {
			return explainAuth(fmt.Errorf("failed to list %s providers: %w", st, err))
		}
		ids := make([]string, len(providers))
		for i, p := range providers {
			ids[i] = p.ID
		}
		ratings := a.client.FetchRatings(ctx, ids)
		for _, p := range providers {
			rows = append(rows, export.ProviderRow{Provider: p, Rating: ratings[p.ID]})
		}
	}

	out := cmd.OutOrStdout()
	if len(rows) == 0 {
		lipgloss.Fprintln(out, "No providers found.")
	} else {
		printProviders(out, rows)
	}

	if providersFlags.xlsx != "" {
		if err := export.SaveProviders(providersFlags.xlsx, rows); err != nil {
			return err
		}
		lipgloss.Fprintf(out, "\nSaved %d providers to %s\n", len(rows), providersFlags.xlsx)
	}
	return nil
}

func printProviders(w io.Writer, rows []export.ProviderRow) {
	s := theme.Current().S()
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(s.Muted).
		Headers("Name", "Service", "Exp", "Hours", "Rate", "Rating").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.Label.Padding(0, 1)
			}
			return s.Value.Padding(0, 1)
		})

	for _, r := range rows {
		p := r.Provider
		rating := "-"
		if r.Rating > 0 {
			rating = "★ " + strconv.FormatFloat(r.Rating, 'f', 1, 64)
		}
		t.Row(
			p.Name,
			p.ServiceType,
			strconv.Itoa(p.Experience)+"y",
			p.WorkingFrom+" - "+p.WorkingTo,
			"Rs. "+strconv.FormatFloat(p.RateCharge, 'f', 2, 64),
			rating,
		)
	}
	lipgloss.Fprintln(w, t.Render())
}
