package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/mail"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/mark3labs/handyhire/internal/api"
	"github.com/mark3labs/handyhire/internal/config"
	"github.com/mark3labs/handyhire/internal/logger"
	"github.com/mark3labs/handyhire/internal/tui/theme"
)

// minPasswordLength matches what the backend accepts.
const minPasswordLength = 8

var passwordFlags struct {
	email string
}

var passwordCmd = &cobra.Command{
	Use:   "password",
	Short: "Manage your account password",
}

var passwordResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset a forgotten password with a one-time code",
	Long: `Reset your password.

A one-time code is emailed to you. Enter it when asked, then choose a new
password of at least 8 characters. No stored session is needed.`,
	RunE: runPasswordReset,
}

func init() {
	passwordResetCmd.Flags().StringVarP(&passwordFlags.email, "email", "e", "", "Account email (prompted when omitted)")
	passwordCmd.AddCommand(passwordResetCmd)
}

// resetBackend is the part of the API used by the reset flow.
type resetBackend interface {
	SendOTP(ctx context.Context, email string) (*api.MessageResponse, error)
	VerifyOTP(ctx context.Context, email, otp string) (*api.MessageResponse, error)
	ResetPassword(ctx context.Context, req api.ResetPasswordRequest) (*api.MessageResponse, error)
}

// resetPrompter asks for the values the flow needs.
type resetPrompter interface {
	Email() (string, error)
	OTP(email string) (string, error)
	NewPassword() (string, error)
}

func runPasswordReset(cmd *cobra.Command, args []string) error {
	// The reset endpoints are public, so no store or session is opened.
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Default.Configure(cfg.LogLevel, cfg.LogFile); err != nil {
		return fmt.Errorf("failed to configure logging: %w", err)
	}
	client, err := api.New(cfg.APIURL, api.WithTimeout(cfg.Timeout))
	if err != nil {
		return err
	}
	return resetPassword(cmd.Context(), cmd.OutOrStdout(), client, surveyPrompter{email: passwordFlags.email})
}

// resetPassword runs send, verify and reset in order. A wrong code can be
// retried; any other failure stops the flow.
func resetPassword(ctx context.Context, out io.Writer, backend resetBackend, p resetPrompter) error {
	s := theme.Current().S()

	email, err := p.Email()
	if err != nil {
		return err
	}
	email = strings.TrimSpace(email)

	resp, err := backend.SendOTP(ctx, email)
	if err != nil {
		return fmt.Errorf("could not send code: %s", api.UserMessage(err))
	}
	lipgloss.Fprintln(out, s.Muted.Render(resp.Message))

	var otp string
	const attempts = 3
	for i := 1; ; i++ {
		otp, err = p.OTP(email)
		if err != nil {
			return err
		}
		otp = strings.TrimSpace(otp)
		_, err = backend.VerifyOTP(ctx, email, otp)
		if err == nil {
			break
		}
		var apiErr *api.Error
		if !errors.As(err, &apiErr) || i == attempts {
			return fmt.Errorf("could not verify code: %s", api.UserMessage(err))
		}
		lipgloss.Fprintln(out, s.Error.Render("✗ "+api.UserMessage(err)))
	}

	password, err := p.NewPassword()
	if err != nil {
		return err
	}
	resp, err = backend.ResetPassword(ctx, api.ResetPasswordRequest{Email: email, OTP: otp, NewPassword: password})
	if err != nil {
		return fmt.Errorf("could not reset password: %s", api.UserMessage(err))
	}

	msg := "Password updated"
	if resp.Message != "" {
		msg = resp.Message
	}
	lipgloss.Fprintln(out, s.Success.Render("✓ "+msg))
	return nil
}

// surveyPrompter asks on the terminal. A preset email skips that question.
type surveyPrompter struct {
	email string
}

func (p surveyPrompter) Email() (string, error) {
	if p.email != "" {
		return p.email, validateEmail(p.email)
	}
	var out string
	prompt := &survey.Input{Message: "Account email:"}
	if err := survey.AskOne(prompt, &out, survey.WithValidator(func(v interface{}) error {
		s, _ := v.(string)
		return validateEmail(s)
	})); err != nil {
		return "", surveyErr(err)
	}
	return out, nil
}

func (p surveyPrompter) OTP(email string) (string, error) {
	var out string
	prompt := &survey.Input{
		Message: "Code:",
		Help:    "The 6 digit code sent to " + email,
	}
	if err := survey.AskOne(prompt, &out, survey.WithValidator(survey.Required)); err != nil {
		return "", surveyErr(err)
	}
	return out, nil
}

func (p surveyPrompter) NewPassword() (string, error) {
	var password string
	prompt := &survey.Password{Message: "New password:"}
	if err := survey.AskOne(prompt, &password, survey.WithValidator(func(v interface{}) error {
		s, _ := v.(string)
		return validatePassword(s)
	})); err != nil {
		return "", surveyErr(err)
	}

	var confirm string
	if err := survey.AskOne(&survey.Password{Message: "Repeat password:"}, &confirm, survey.WithValidator(func(v interface{}) error {
		if s, _ := v.(string); s != password {
			return errors.New("passwords do not match")
		}
		return nil
	})); err != nil {
		return "", surveyErr(err)
	}
	return password, nil
}

func validateEmail(s string) error {
	if _, err := mail.ParseAddress(strings.TrimSpace(s)); err != nil {
		return errors.New("enter a valid email address")
	}
	return nil
}

func validatePassword(s string) error {
	if len(s) < minPasswordLength {
		return fmt.Errorf("use at least %d characters", minPasswordLength)
	}
	return nil
}
