package main

import (
	"context"
	"fmt"

	"github.com/mark3labs/handyhire/internal/api"
	"github.com/mark3labs/handyhire/internal/auth"
	"github.com/mark3labs/handyhire/internal/config"
	"github.com/mark3labs/handyhire/internal/logger"
	"github.com/mark3labs/handyhire/internal/store"
)

// app bundles what every command needs: settings, the local store, the
// session kept in it and an API client that authenticates through it.
type app struct {
	cfg     *config.Config
	store   *store.Store
	session *auth.Session
	client  *api.Client
}

func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Default.Configure(cfg.LogLevel, cfg.LogFile); err != nil {
		return nil, fmt.Errorf("failed to configure logging: %w", err)
	}

	st, err := store.Open(ctx, cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}
	sess := auth.NewSession(st)

	client, err := api.New(cfg.APIURL,
		api.WithTimeout(cfg.Timeout),
		api.WithTokenSource(sess),
		api.WithRatingLimits(cfg.RatingConcurrency, cfg.RatingRPS),
		api.WithUnauthorizedHandler(func(ctx context.Context) {
			if err := sess.Clear(ctx); err != nil {
				logger.Warn("clearing rejected session: %v", err)
			}
		}),
	)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	logger.Debug("using backend %s, data dir %s", cfg.APIURL, cfg.DataDir)
	return &app{cfg: cfg, store: st, session: sess, client: client}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

// explainAuth adds the login hint to errors that need a new sign in.
func explainAuth(err error) error {
	if err == nil || !auth.IsAuthError(err) {
		return err
	}
	return fmt.Errorf("%w\n\n%s", err, auth.LoginHint)
}

// requireSession fails early when no usable token is stored, so the wizard
// does not open only to close again.
func (a *app) requireSession(ctx context.Context) error {
	_, err := a.session.Token(ctx)
	return explainAuth(err)
}
