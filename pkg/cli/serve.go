package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/secmon-lab/briareus/pkg/cli/config"
	httpctrl "github.com/secmon-lab/briareus/pkg/controller/http"
	"github.com/secmon-lab/briareus/pkg/service/worker"
	"github.com/secmon-lab/briareus/pkg/usecase"
	"github.com/secmon-lab/briareus/pkg/utils/logging"
	"github.com/secmon-lab/briareus/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var snapshotInterval time.Duration
	var riskCfg config.Risk
	var repoCfg config.Repository

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("BRIAREUS_ADDR"),
			Destination: &addr,
		},
		&cli.DurationFlag{
			Name:        "snapshot-interval",
			Usage:       "Interval between periodic dashboard snapshots (0 disables the worker)",
			Sources:     cli.EnvVars("BRIAREUS_SNAPSHOT_INTERVAL"),
			Destination: &snapshotInterval,
		},
	}

	// Add shared config flags
	flags = append(flags, riskCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			// Load risk configuration if provided
			riskConfig, err := riskCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load risk configuration")
			}
			if riskConfig != nil {
				logging.Default().Info("Risk configuration loaded",
					"path", riskCfg.Path(),
					"high_impact_threshold", riskConfig.Threshold(),
					"appetite_bands", len(riskConfig.AppetiteBands),
				)
			}

			// Initialize repository based on backend type
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo)

			var ucOpts []usecase.Option
			if riskConfig != nil {
				ucOpts = append(ucOpts, usecase.WithRiskConfig(riskConfig))
			}
			uc := usecase.New(repo, ucOpts...)

			// Start the dashboard snapshot worker when an interval is configured
			var snapshotWorker *worker.SnapshotWorker
			if snapshotInterval > 0 {
				snapshotWorker = worker.NewSnapshotWorker(uc.Dashboard, snapshotInterval)
				if err := snapshotWorker.Start(ctx); err != nil {
					return goerr.Wrap(err, "failed to start snapshot worker")
				}
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc),
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			// Start server in goroutine
			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server",
					"addr", addr,
					"backend", repoCfg.Backend(),
				)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			// Wait for shutdown signal or server error
			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				// Stop the snapshot worker first
				if snapshotWorker != nil {
					snapshotWorker.Stop()
				}

				// Create shutdown context with timeout
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				// Attempt graceful shutdown
				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
