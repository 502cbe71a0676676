package main

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"

	"github.com/mark3labs/handyhire/internal/api"
	"github.com/mark3labs/handyhire/internal/export"
)

func TestPrintProviders(t *testing.T) {
	var out bytes.Buffer
	printProviders(&out, []export.ProviderRow{
		{Provider: api.Provider{Name: "Ram Thapa", ServiceType: "Plumber", Experience: 6, WorkingFrom: "09:00 AM", WorkingTo: "05:00 PM", RateCharge: 600}, Rating: 4.5},
		{Provider: api.Provider{Name: "Gita Rai", ServiceType: "Plumber", Experience: 2, WorkingFrom: "10:00 AM", WorkingTo: "02:00 PM", RateCharge: 450}},
	})

	text := ansi.Strip(out.String())
	require.Contains(t, text, "Ram Thapa")
	require.Contains(t, text, "09:00 AM - 05:00 PM")
	require.Contains(t, text, "Rs. 600.00")
	require.Contains(t, text, "★ 4.5")
	require.Contains(t, text, "Gita Rai")
}
