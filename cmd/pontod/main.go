// @title           Ponto API
// @version         1.0
// @description     Biometric time clock for cooperative hospital staff.
// @BasePath        /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/biohealth/ponto/internal/app"
	"github.com/biohealth/ponto/internal/pkg/config"
	"github.com/biohealth/ponto/pkg/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "pontod",
		Short:         "Biometric time clock server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newSeedCmd(), newRepairCmd())
	return root
}

// bootstrap loads configuration, initialises the logger and wires the app.
func bootstrap(ctx context.Context) (*app.App, *config.Config, zerolog.Logger, error) {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "pontod",
		Env:     cfg.Env,
	})
	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return nil, nil, log, err
	}
	return a, cfg, log, nil
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the offline scan workers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, cfg, log, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer func() {
				if err := a.Close(); err != nil {
					log.Error().Err(err).Msg("close backends")
				}
			}()

			if cfg.Seed.OnStart {
				if _, err := a.Seed(ctx); err != nil {
					return err
				}
			}
			log.Info().
				Str("env", cfg.Env).
				Str("store", cfg.Store.Backend).
				Str("scan_guard", cfg.Scan.Guard).
				Str("identification", cfg.Identification).
				Msg("starting pontod")

			return a.Serve(ctx)
		},
	}
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the demo hospitals, workers and logins into an empty store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, _, log, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			seeded, err := a.Seed(cmd.Context())
			if err != nil {
				return err
			}
			if !seeded {
				log.Info().Msg("store already has workers, nothing to do")
			}
			return nil
		},
	}
}

func newRepairCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repair",
		Short: "Fix entries left in the wrong state by an interrupted cascade",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, _, log, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.Repair.Run(cmd.Context())
			if err != nil {
				return err
			}
			log.Info().
				Strs("closed", report.Closed).
				Strs("reopened", report.Reopened).
				Msg("repair finished")
			return nil
		},
	}
}
