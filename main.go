package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"benchboard/internal/config"
	"benchboard/internal/database"
	"benchboard/internal/fetch"
	"benchboard/internal/openrouter"
	"benchboard/internal/services"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := &cobra.Command{
		Use:     "benchboard",
		Short:   "Cached provider catalog and benchmark result store",
		Version: version,
	}

	root.AddCommand(
		newRefreshCmd(),
		newModelsCmd(),
		newEndpointsCmd(),
		newSweepCmd(),
		newInvalidateCmd(),
		newStatsCmd(),
		newTopCmd(),
		newBenchmarksCmd(),
		newKeyCmd(),
	)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openApp wires config, database and services for one command invocation.
// The returned cleanup must be called before exit.
func openApp(ctx context.Context) (*services.Services, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	apiKey := cfg.APIKey
	if apiKey == "" {
		// Fall back to the OS keyring when the environment has no key.
		apiKey, _ = services.NewKeyringService().GetApiKey("openrouter")
	}

	db, err := database.Init(database.Config{Path: cfg.DBPath})
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { _ = database.Close(db) }

	fetcher := fetch.NewClient(fetch.Config{
		Timeout:    cfg.HTTPTimeout,
		MaxRetries: cfg.MaxRetries,
		BaseDelay:  cfg.RetryBaseDelay,
	})
	api := openrouter.NewClient(cfg.APIBaseURL, apiKey, fetcher)

	svcs := services.NewServices(db, api, services.TTLs{
		Model:    cfg.ModelTTL,
		Endpoint: cfg.EndpointTTL,
	})
	if err := svcs.Benchmarks.Startup(ctx); err != nil {
		cleanup()
		return nil, nil, err
	}
	return svcs, cleanup, nil
}

func newRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh [model]",
		Short: "Refresh the cached model catalog, or one model's endpoints",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, cleanup, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			if len(args) == 1 {
				endpoints, err := svcs.Catalog.RefreshEndpoints(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("%s: %w", fetch.UserMessage(err), err)
				}
				fmt.Printf("Refreshed %d endpoints for %s.\n", len(endpoints), args[0])
				return nil
			}

			refreshed, err := svcs.Catalog.RefreshModels(cmd.Context())
			if err != nil {
				return fmt.Errorf("%s: %w", fetch.UserMessage(err), err)
			}
			fmt.Printf("Refreshed %d models.\n", len(refreshed))
			return nil
		},
	}
}

func newModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List fresh cached models, refreshing on a miss",
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, cleanup, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			list, err := svcs.Catalog.ListModels(cmd.Context())
			if err != nil {
				return fmt.Errorf("%s: %w", fetch.UserMessage(err), err)
			}
			for _, m := range list {
				fmt.Printf("%-50s ctx=%-8d prompt=%s completion=%s\n", m.ID, m.ContextLength, m.PricePrompt, m.PriceCompletion)
			}
			return nil
		},
	}
}

func newEndpointsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "endpoints <model>",
		Short: "List fresh provider endpoints for a model, refreshing on a miss",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, cleanup, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			endpoints, err := svcs.Catalog.ListEndpoints(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", fetch.UserMessage(err), err)
			}
			for _, e := range endpoints {
				health := "healthy"
				if e.Status != 0 {
					health = fmt.Sprintf("status=%d", e.Status)
				}
				fmt.Printf("%-30s uptime30m=%5.1f%% %s\n", e.ProviderName, e.Uptime30m, health)
			}
			return nil
		},
	}
}

func newSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Delete cache rows past their expiry",
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, cleanup, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			report, err := svcs.Catalog.SweepExpired(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Removed %d models and %d endpoints.\n", report.ModelsRemoved, report.EndpointsRemoved)
			return nil
		},
	}
}

func newInvalidateCmd() *cobra.Command {
	var endpointsOnly bool

	cmd := &cobra.Command{
		Use:   "invalidate [model]",
		Short: "Invalidate one cached model (and its endpoints) or the whole cache",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, cleanup, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			if len(args) == 1 {
				if err := svcs.Catalog.InvalidateEndpoints(cmd.Context(), args[0]); err != nil {
					return err
				}
				if !endpointsOnly {
					if err := svcs.Catalog.InvalidateModel(cmd.Context(), args[0]); err != nil {
						return err
					}
				}
				fmt.Printf("Invalidated %s.\n", args[0])
				return nil
			}

			if err := svcs.Catalog.InvalidateEndpoints(cmd.Context(), ""); err != nil {
				return err
			}
			if !endpointsOnly {
				if err := svcs.Catalog.InvalidateModels(cmd.Context()); err != nil {
					return err
				}
			}
			fmt.Println("Cache invalidated.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&endpointsOnly, "endpoints", false, "only invalidate endpoint entries")
	return cmd
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <model>",
		Short: "Show aggregate evaluation statistics for a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, cleanup, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			stats, err := svcs.Results.StatsFor(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Evals:      %d\nAvg score:  %.4f\nBenchmarks: %v\n", stats.TotalEvals, stats.AvgScore, stats.DistinctBenchmarks)
			return nil
		},
	}
}

func newTopCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "top <benchmark>",
		Short: "Show the best scores recorded for a benchmark",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, cleanup, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			results, err := svcs.Results.TopByScore(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			for i, r := range results {
				fmt.Printf("%2d. %-50s score=%.4f (%d/%d)\n", i+1, r.ModelID, r.Score, r.CorrectCount, r.SamplesEvaluated)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of results")
	return cmd
}

func newKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage upstream API keys in the OS keyring",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "set <provider> <api-key>",
			Short: "Store a provider's API key",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := services.NewKeyringService().StoreApiKey(args[0], args[1]); err != nil {
					return err
				}
				fmt.Printf("Stored key for %s.\n", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete <provider>",
			Short: "Remove a provider's stored API key",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := services.NewKeyringService().DeleteApiKey(args[0]); err != nil {
					return err
				}
				fmt.Printf("Removed key for %s.\n", args[0])
				return nil
			},
		},
	)
	return cmd
}

func newBenchmarksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "benchmarks",
		Short: "List runnable benchmarks by category",
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, cleanup, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			groups, err := svcs.Benchmarks.ListGroups()
			if err != nil {
				return err
			}
			for _, g := range groups {
				fmt.Printf("%s:\n", g.Category)
				for _, b := range g.Benchmarks {
					fmt.Printf("  %-15s %s\n", b.ID, b.Name)
				}
			}
			return nil
		},
	}
}
