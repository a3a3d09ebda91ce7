package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"energy-tools/internal/app"
	"energy-tools/internal/auth"
	"energy-tools/internal/config"
	"energy-tools/internal/logger"
	"energy-tools/internal/tools"

	"github.com/spf13/cobra"
)

// errFailed is returned after a failed tool result has been printed.
var errFailed = errors.New("tool call failed")

func main() {
	cfg := config.Load()

	rootCmd := &cobra.Command{
		Use:           "energytools",
		Short:         "Energy infrastructure analysis tools for streets and buildings",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(streetsCmd(cfg))
	rootCmd.AddCommand(buildingsCmd(cfg))
	rootCmd.AddCommand(hpCmd(cfg))
	rootCmd.AddCommand(dhCmd(cfg))
	rootCmd.AddCommand(compareCmd(cfg))
	rootCmd.AddCommand(kpiCmd(cfg))
	rootCmd.AddCommand(resultsCmd(cfg))
	rootCmd.AddCommand(serveCmd(cfg))
	rootCmd.AddCommand(tokenCmd(cfg))

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

// withToolkit builds the app, runs one tool call and prints its text.
func withToolkit(cmd *cobra.Command, cfg *config.Config, call func(context.Context, *tools.Toolkit) tools.Result) error {
	logr := logger.New(cfg)
	defer logr.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logr)
	if err != nil {
		return err
	}
	defer a.Close()

	res := call(ctx, a.Toolkit)
	fmt.Fprintln(cmd.OutOrStdout(), res.Text())
	for _, p := range res.Artifacts {
		fmt.Fprintln(cmd.OutOrStdout(), "  "+p)
	}
	if res.Status == tools.StatusError {
		return errFailed
	}
	return nil
}

func streetsCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "streets",
		Short: "List all street names in the buildings file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withToolkit(cmd, cfg, func(ctx context.Context, tk *tools.Toolkit) tools.Result {
				return tk.ListStreets(ctx)
			})
		},
	}
}

func buildingsCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "buildings [street]",
		Short: "List building identifiers on a street",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withToolkit(cmd, cfg, func(ctx context.Context, tk *tools.Toolkit) tools.Result {
				return tk.BuildingIDsForStreet(ctx, args[0])
			})
		},
	}
}

func hpCmd(cfg *config.Config) *cobra.Command {
	var scenario string

	cmd := &cobra.Command{
		Use:   "hp [street]",
		Short: "Run the heat pump feasibility analysis for a street",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withToolkit(cmd, cfg, func(ctx context.Context, tk *tools.Toolkit) tools.Result {
				return tk.RunHPAnalysis(ctx, args[0], scenario)
			})
		},
	}

	cmd.Flags().StringVarP(&scenario, "scenario", "s", "", "load scenario (default from the catalogue)")
	return cmd
}

func dhCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "dh [street]",
		Short: "Build and simulate a district heating network for a street",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withToolkit(cmd, cfg, func(ctx context.Context, tk *tools.Toolkit) tools.Result {
				return tk.RunDHAnalysis(ctx, args[0])
			})
		},
	}
}

func compareCmd(cfg *config.Config) *cobra.Command {
	var scenario string

	cmd := &cobra.Command{
		Use:   "compare [street]",
		Short: "Compare heat pumps and district heating for a street",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withToolkit(cmd, cfg, func(ctx context.Context, tk *tools.Toolkit) tools.Result {
				return tk.CompareScenarios(ctx, args[0], scenario)
			})
		},
	}

	cmd.Flags().StringVarP(&scenario, "hp-scenario", "s", "", "heat pump load scenario")
	return cmd
}

func kpiCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "kpi [report-path]",
		Short: "Summarise a CSV or JSON KPI report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withToolkit(cmd, cfg, func(ctx context.Context, tk *tools.Toolkit) tools.Result {
				return tk.AnalyzeKPIReport(ctx, args[0])
			})
		},
	}
}

func resultsCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "results",
		Short: "List generated result files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withToolkit(cmd, cfg, func(ctx context.Context, tk *tools.Toolkit) tools.Result {
				return tk.ListResults(ctx)
			})
		},
	}
}

func serveCmd(cfg *config.Config) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the tools over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if port != "" {
				cfg.Port = port
			}
			logr := logger.New(cfg)
			defer logr.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := app.New(ctx, cfg, logr)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.Serve(ctx)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "HTTP server port (default APP_PORT)")
	return cmd
}

func tokenCmd(cfg *config.Config) *cobra.Command {
	var (
		ttl    time.Duration
		scopes []string
	)

	cmd := &cobra.Command{
		Use:   "token [agent]",
		Short: "Mint an API token for an agent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := auth.NewJWTManager(cfg.JWTPrivateKeyPath, cfg.JWTPublicKeyPath, auth.Issuer)
			if err != nil {
				return err
			}
			tok, err := mgr.MintAgentToken(args[0], ttl, scopes)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok.Token)
			fmt.Fprintf(cmd.ErrOrStderr(), "jti=%s expires=%s\n", tok.JTI, tok.ExpiresAt.Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().DurationVar(&ttl, "ttl", cfg.TokenTTL, "token lifetime")
	cmd.Flags().StringSliceVar(&scopes, "scope", []string{auth.ScopeRead, auth.ScopeAnalyze}, "granted scopes")
	return cmd
}
