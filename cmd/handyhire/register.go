package main

import (
	"errors"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/mark3labs/handyhire/internal/registration"
	"github.com/mark3labs/handyhire/internal/tui"
	"github.com/mark3labs/handyhire/internal/tui/registerui"
	"github.com/mark3labs/handyhire/internal/tui/theme"
)

var registerFlags struct {
	dir string
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register as a service provider",
	Long: `Open the service provider registration wizard.

Fill in personal and professional details, answer the assessment for your
trade and attach a licence or training certificate. After submitting you can
press e to correct the record and send it again.`,
	RunE: runRegister,
}

func init() {
	registerCmd.Flags().StringVarP(&registerFlags.dir, "dir", "d", "", "Folder the certificate picker opens in (default: current directory)")
}

func runRegister(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	if err := a.requireSession(ctx); err != nil {
		return err
	}

	submitter := &registration.Submitter{
		Registrar: a.client,
		Recorder:  a.store,
	}
	st, err := registerui.Run(ctx, registerui.Options{
		Backend:       a.client,
		Submit:        submitter.Func(),
		PassThreshold: a.cfg.Exam.PassThreshold,
		StartDir:      registerFlags.dir,
	})
	if errors.Is(err, tui.ErrCancelled) {
		lipgloss.Fprintln(cmd.OutOrStdout(), "Registration cancelled.")
		return nil
	}
	if err != nil {
		return explainAuth(err)
	}

	s := theme.Current().S()
	out := cmd.OutOrStdout()
	lipgloss.Fprintln(out, s.Success.Render("✓ Registration submitted"))
	if st.Message != "" {
		lipgloss.Fprintln(out, st.Message)
	}
	lipgloss.Fprintln(out, "Verification is pending. You will be notified once your documents are reviewed.")
	return nil
}
