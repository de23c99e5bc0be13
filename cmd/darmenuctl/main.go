package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"darmenu/internal/config"
	"darmenu/internal/db"
	"darmenu/internal/logging"
)

var Version = "dev"

// app holds what every subcommand needs once the root command has loaded
// configuration.
type app struct {
	cfg   *config.Config
	flush func()
}

func main() {
	a := &app{flush: func() {}}
	rootCmd := newRootCmd(a)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	a.flush()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "darmenuctl",
		Short:         "Operator tooling for the darmenu backend",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a.cfg = cfg
			_, a.flush = logging.Setup(cfg)
			return nil
		},
	}

	rootCmd.AddCommand(migrateCmd(a))
	rootCmd.AddCommand(createAdminCmd(a))
	rootCmd.AddCommand(seedMenuCmd(a))
	rootCmd.AddCommand(tableLinksCmd(a))
	return rootCmd
}

// connect opens the pool. db.Connect also applies the schema.
func (a *app) connect(ctx context.Context) (*pgxpool.Pool, error) {
	if a.cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("%w: DATABASE_URL", config.ErrMissingSetting)
	}
	return db.Connect(ctx, a.cfg)
}
