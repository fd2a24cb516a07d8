package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pandaloves/social-posts-app/internal/client"
	"github.com/pandaloves/social-posts-app/internal/config"
	"github.com/pandaloves/social-posts-app/internal/model"
)

// app is the state shared by every command of one invocation.
type app struct {
	v      *viper.Viper
	cfg    config.ClientConfig
	logger *zap.Logger
	api    *client.Client
}

// flagKeys maps persistent flags onto client config keys.
var flagKeys = map[string]string{
	"base-url":  "client.base_url",
	"token":     "client.token",
	"page-size": "client.page_size",
	"debug":     "client.debug",
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:               "feedctl",
		Short:             "Browse and edit the social posts feed",
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.String("base-url", "", "backend base URL (FEEDCTL_BASE_URL)")
	flags.String("token", "", "bearer token from login (FEEDCTL_TOKEN)")
	flags.Int("page-size", 0, "posts per page (FEEDCTL_PAGE_SIZE)")
	flags.Bool("debug", false, "log at debug level")

	root.AddCommand(
		a.loginCmd(),
		a.feedCmd(),
		a.wallCmd(),
		a.postCmd(),
		a.commentCmd(),
		a.friendCmd(),
		a.usersCmd(),
	)
	return root
}

// setup reads .env, app.yaml, FEEDCTL_* and the flags, in rising priority.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := config.LoadEnv(); err != nil {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	if err := config.ReadConfig(a.v); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read app.yaml: %w", err)
		}
	}

	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			a.v.Set(key, f.Value.String())
		}
	}

	cfg, err := config.ClientConfigFrom(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.logger, err = newLogger(cfg.Debug)
	if err != nil {
		return err
	}

	a.api = client.New(a.logger, cfg.BaseURL, cfg.Timeout)
	a.api.SetToken(cfg.Token)
	return nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// viewer is the logged in user, or "" for anonymous browsing.
func (a *app) viewer() model.ID {
	claims, err := a.api.Me()
	if err != nil {
		return ""
	}
	return model.ID(claims.UserID)
}

func (a *app) requireViewer() (model.ID, error) {
	claims, err := a.api.Me()
	if err != nil {
		return "", fmt.Errorf("log in first: %w", err)
	}
	if claims.UserID == "" {
		return "", fmt.Errorf("log in first: %w", client.ErrNotLoggedIn)
	}
	return model.ID(claims.UserID), nil
}
