package main

import (
	"fmt"
	"net"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mark3labs/handyhire/internal/config"
	"github.com/mark3labs/handyhire/internal/devserver"
	"github.com/mark3labs/handyhire/internal/logger"
)

var devserverFlags struct {
	addr   string
	secret string
	role   string
	ttl    time.Duration
}

var devserverCmd = &cobra.Command{
	Use:   "devserver",
	Short: "Run an in-memory marketplace backend for local use",
	Long: `Run an in-memory implementation of the marketplace API.

The server seeds a profile and a few providers, accepts bookings and
registrations, and prints a signed token to use with 'handyhire login'.
Password reset codes are written to the log instead of being emailed.
Point api_url at the printed address to use it.`,
	RunE: runDevserver,
}

func init() {
	devserverCmd.Flags().StringVarP(&devserverFlags.addr, "addr", "a", "127.0.0.1:4000", "Listen address")
	devserverCmd.Flags().StringVar(&devserverFlags.secret, "secret", devserver.DefaultSecret, "Token signing secret")
	devserverCmd.Flags().StringVarP(&devserverFlags.role, "role", "r", "user", "Role put in the printed token")
	devserverCmd.Flags().DurationVar(&devserverFlags.ttl, "ttl", 24*time.Hour, "Lifetime of the printed token")
}

func runDevserver(cmd *cobra.Command, args []string) error {
	if cfg, err := config.Load(); err == nil {
		if err := logger.Default.Configure(cfg.LogLevel, cfg.LogFile); err != nil {
			return fmt.Errorf("failed to configure logging: %w", err)
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := devserver.New(devserver.WithSecret(devserverFlags.secret))
	token, err := srv.DevToken(devserverFlags.role, devserverFlags.ttl)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	return srv.ListenAndServe(ctx, devserverFlags.addr, func(addr net.Addr) {
		fmt.Fprintf(out, "Dev backend listening on http://%s/api/\n\n", addr)
		fmt.Fprintf(out, "  export HANDYHIRE_API_URL=http://%s/api/\n", addr)
		fmt.Fprintf(out, "  handyhire login --role %s --token %s\n\n", devserverFlags.role, token)
		fmt.Fprintln(out, "Press Ctrl+C to stop.")
	})
}
