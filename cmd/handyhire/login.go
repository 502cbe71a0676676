package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/spf13/cobra"

	"github.com/mark3labs/handyhire/internal/auth"
	"github.com/mark3labs/handyhire/internal/tui/theme"
)

// errAborted is returned when the user interrupts a prompt.
var errAborted = errors.New("aborted")

var loginFlags struct {
	token string
	role  string
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store the token issued by the marketplace",
	Long: `Store a session token for the other commands.

Sign in on the marketplace website and paste the token it issues. The token
is kept in the local store until it expires or you run logout.`,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session token",
	RunE:  runLogout,
}

func init() {
	loginCmd.Flags().StringVarP(&loginFlags.token, "token", "t", "", "Session token (prompted when omitted)")
	loginCmd.Flags().StringVarP(&loginFlags.role, "role", "r", "user", "Account role: user or serviceProvider")
}

func runLogin(cmd *cobra.Command, args []string) error {
	token := loginFlags.token
	if token == "" {
		prompt := &survey.Password{
			Message: "Session token:",
			Help:    "Copy the token shown after signing in on the website",
		}
		if err := survey.AskOne(prompt, &token, survey.WithValidator(survey.Required)); err != nil {
			return surveyErr(err)
		}
	}

	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	if err := a.session.Login(ctx, strings.TrimSpace(token), loginFlags.role); err != nil {
		if errors.Is(err, auth.ErrSessionExpired) {
			return fmt.Errorf("that token has already expired, sign in again to get a new one")
		}
		return fmt.Errorf("failed to store token: %w", err)
	}

	s := theme.Current().S()
	msg := s.Success.Render("✓ Signed in") + " as " + loginFlags.role
	if exp, err := auth.Expiry(token); err == nil && !exp.IsZero() {
		msg += s.Muted.Render(fmt.Sprintf(" (expires %s)", exp.Local().Format(time.DateTime)))
	}
	lipgloss.Fprintln(cmd.OutOrStdout(), msg)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	if err := a.session.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	lipgloss.Fprintln(cmd.OutOrStdout(), "Signed out.")
	return nil
}

func surveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return errAborted
	}
	return err
}
