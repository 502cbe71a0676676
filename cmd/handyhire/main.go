package main

import (
	"context"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/mark3labs/handyhire/internal/logger"
	"github.com/mark3labs/handyhire/internal/tui/theme"
)

const (
	logoText1 = "█ █ ▄▀█ █▄ █ █▀▄ █▄█ █ █ █ █▀█ █▀▀"
	logoText2 = "█▀█ █▀█ █ ▀█ █▄▀  █  █▀█ █ █▀▄ ██▄"
)

// Version set via ldflags during build
var version = "dev"

func main() {
	defer func() { _ = logger.Close() }()

	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version)); err != nil {
		logger.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "handyhire",
	Short: "Book electricians and plumbers, or register as one, from the terminal",
}

func renderLogo() string {
	t := theme.NewCatppuccinMocha()
	line1 := theme.ApplyGradient(logoText1, t.Primary, t.Secondary)
	line2 := theme.ApplyGradient(logoText2, t.Primary, t.Secondary)
	return strings.Join([]string{line1, line2}, "\n")
}

func init() {
	rootCmd.Long = renderLogo() + `

handyhire is a terminal client for a home-services marketplace. Customers book
an electrician or plumber through a guided wizard; tradespeople register as
service providers, take a short assessment and upload a certificate.

The session token lives in an embedded NATS key-value store under the data
directory, alongside a local history of every submission.`

	rootCmd.AddCommand(bookCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(providersCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(passwordCmd)
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(devserverCmd)
}
