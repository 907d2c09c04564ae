package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"metropolis/internal/city"
	"metropolis/internal/config"
	"metropolis/internal/store"

	"github.com/spf13/cobra"
)

func main() {
	// Flags may still fix an invalid environment, so validation waits for
	// PersistentPreRunE.
	cfg, _ := config.LoadFromEnv()

	root := &cobra.Command{
		Use:          "metro",
		Short:        "McGee Metropolis, a turn-based city builder",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cfg.Validate()
		},
	}
	root.PersistentFlags().StringVar(&cfg.Store, "store", cfg.Store, "where game data lives: memory, file or postgres")
	root.PersistentFlags().StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "directory for the file store (default ~/.metropolis)")
	root.PersistentFlags().StringVar(&cfg.DatabaseURL, "database-url", cfg.DatabaseURL, "postgres connection string")

	root.AddCommand(
		newPlayCmd(&cfg),
		newResetCmd(&cfg),
		newZonesCmd(),
		newEventsCmd(&cfg),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// openStore returns the configured store and a cleanup func.
func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (city.Store, func(), error) {
	switch cfg.Store {
	case config.StoreMemory:
		return store.NewMemory(), func() {}, nil
	case config.StorePostgres:
		pool, err := store.Connect(ctx, cfg.DatabaseURL, store.PostgresOptions{MaxConns: cfg.DBMaxConns})
		if err != nil {
			return nil, nil, err
		}
		pg := store.NewPostgres(pool, logger)
		if err := pg.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return pg, pool.Close, nil
	default:
		f, err := store.NewFile(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		logger.Debug("file store", "path", f.Path())
		return f, func() {}, nil
	}
}

func newPlayCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Start a new game",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(cfg.LogLevel)
			st, closeStore, err := openStore(cmd.Context(), *cfg, logger)
			if err != nil {
				return err
			}
			defer closeStore()
			sess := city.NewSession(cfg.Game, st, logger)
			return runGame(cmd.Context(), sess, cfg.SkipIntro)
		},
	}
	cmd.Flags().IntVar(&cfg.Game.GridSize, "grid-size", cfg.Game.GridSize, "width and height of the city grid")
	cmd.Flags().IntVar(&cfg.Game.Days, "days", cfg.Game.Days, "number of days in a game")
	cmd.Flags().IntVar(&cfg.Game.MaxZonesPerDay, "max-zones", cfg.Game.MaxZonesPerDay, "zones that may be built per day (0 = unlimited)")
	cmd.Flags().Float64Var(&cfg.Game.MonetaryGoal, "goal", cfg.Game.MonetaryGoal, "money needed to win")
	cmd.Flags().Int64Var(&cfg.Game.Seed, "seed", cfg.Game.Seed, "random seed (0 = random)")
	cmd.Flags().BoolVar(&cfg.SkipIntro, "skip-intro", cfg.SkipIntro, "go straight to the game")
	return cmd
}

func newResetCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Reset stored resources to their default values",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(cfg.LogLevel)
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			st, closeStore, err := openStore(ctx, *cfg, logger)
			if err != nil {
				return err
			}
			defer closeStore()
			if err := st.ResetDefaults(ctx); err != nil {
				return err
			}
			printSuccess("Resources have been reset to default values.")
			return nil
		},
	}
}

func newZonesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "zones",
		Short: "Show zone costs and income",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			renderZoneCatalog()
			return nil
		},
	}
}

func newEventsCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "List the random events the city can suffer",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(cfg.LogLevel)
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			st, closeStore, err := openStore(ctx, *cfg, logger)
			if err != nil {
				return err
			}
			defer closeStore()
			rows, err := st.LoadEventCatalog(ctx)
			if err != nil {
				return err
			}
			defs, errs := city.ParseEventCatalog(rows)
			for _, err := range errs {
				printWarn(err.Error())
			}
			renderEventCatalog(defs)
			return nil
		},
	}
}

func renderEventCatalog(defs []city.EventDefinition) {
	accent.Println("\n== EVENTS ==")
	if len(defs) == 0 {
		printInfo("No events configured.")
		return
	}
	header.Printf("%-46s %-12s %8s %6s\n", "EVENT", "RESOURCE", "IMPACT", "DAYS")
	for _, d := range defs {
		target := "ignored"
		if r, ok := city.ImpactTarget(d.ImpactType); ok {
			target = r.String()
		}
		fmt.Printf("%-46s %-12s %8s %6d\n", truncate(d.Description, 46), target, d.Impact, d.Duration)
	}
	fmt.Println()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
