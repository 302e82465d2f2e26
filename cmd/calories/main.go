// Package main provides the calories binary: the HTTP server and a terminal
// client operating on the same store.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"calories/internal/app"
	"calories/internal/config"
	"calories/internal/logging"
)

const appName = "calories"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// cli carries state shared by every subcommand once the root has loaded
// configuration.
type cli struct {
	envFile string
	cfg     config.Config
	log     *slog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Track calories consumed and burned",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(c.envFile); err != nil {
				return fmt.Errorf("load env file: %w", err)
			}
			c.cfg = config.Load()
			if err := c.cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			c.log = logging.New(logging.Config{
				Level:  c.cfg.LogLevel,
				Format: c.cfg.LogFormat,
				Output: cmd.ErrOrStderr(),
			})
			slog.SetDefault(c.log)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&c.envFile, "env-file", ".env", "Optional dotenv file loaded before reading the environment")

	cmd.AddCommand(
		c.serveCmd(),
		c.addCmd(),
		c.listCmd(),
		c.editCmd(),
		c.deleteCmd(),
		c.resetCmd(),
		c.summaryCmd(),
		c.categoriesCmd(),
		c.hashPasswordCmd(),
	)
	return cmd
}

// errMemoryBackend rejects local commands against a store that does not
// outlive the process.
var errMemoryBackend = errors.New("memory backend only lives inside `calories serve`; set STORE_BACKEND to file, sqlite, postgres or redis for local commands")

// withTracker opens the configured store, hydrates a tracker from it and
// runs fn. The store is closed when fn returns.
func (c *cli) withTracker(ctx context.Context, fn func(*app.Tracker) error) error {
	if c.cfg.StoreBackend == config.BackendMemory {
		return errMemoryBackend
	}
	st, err := openStores(c.cfg, c.log)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			c.log.Warn("close store", "error", err)
		}
	}()

	tracker := app.NewTracker(st.kv, c.log)
	tracker.Hydrate(ctx)
	return fn(tracker)
}

// checkPersisted turns a failed write of the activity list into a command
// error.
func checkPersisted(t *app.Tracker) error {
	if err := t.PersistErr(); err != nil {
		return fmt.Errorf("write store: %w", err)
	}
	return nil
}
