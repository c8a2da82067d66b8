package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/cli/config"
	"github.com/secmon-lab/briareus/pkg/repository/firestore"
	"github.com/secmon-lab/briareus/pkg/usecase"
	"github.com/secmon-lab/briareus/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdValidate() *cli.Command {
	var riskCfg config.Risk
	var firestoreProjectID string
	var firestoreDatabaseID string

	var flags []cli.Flag
	flags = append(flags, riskCfg.Flags()...)
	flags = append(flags, &cli.StringFlag{
		Name:        "firestore-project-id",
		Usage:       "Firestore Project ID (if specified, DB consistency check is performed)",
		Sources:     cli.EnvVars("BRIAREUS_FIRESTORE_PROJECT_ID"),
		Destination: &firestoreProjectID,
	})
	flags = append(flags, &cli.StringFlag{
		Name:        "firestore-database-id",
		Usage:       "Firestore Database ID",
		Sources:     cli.EnvVars("BRIAREUS_FIRESTORE_DATABASE_ID"),
		Destination: &firestoreDatabaseID,
	})

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate the risk configuration file and optionally check DB consistency",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			ok := color.New(color.FgGreen, color.Bold).SprintFunc()
			bad := color.New(color.FgRed, color.Bold).SprintFunc()
			head := color.New(color.FgCyan).SprintFunc()

			// Step 1: Load and validate the risk configuration file
			if riskCfg.Path() == "" {
				return goerr.New("risk-config is required")
			}

			cfg, err := riskCfg.Configure()
			if err != nil {
				fmt.Printf("%s %s\n", bad("FAIL"), "risk configuration validation failed")
				return err
			}

			fmt.Printf("%s %s\n", ok("PASS"), riskCfg.Path())
			fmt.Printf("%s likelihood levels: %d, impact levels: %d\n",
				head("scales"), len(cfg.Likelihood), len(cfg.Impact))
			fmt.Printf("%s high-impact threshold: %d\n", head("bia"), cfg.Threshold())
			fmt.Printf("%s appetite bands: %d\n", head("appetite"), len(cfg.AppetiteBands))
			for _, b := range cfg.AppetiteBands {
				fmt.Printf("  - %s [%d..%d] actions: %d\n",
					b.Label, b.MinScore, b.MaxScore, len(b.AuthorizedActions))
			}

			// Step 2: If Firestore project ID is specified, run DB consistency check
			if firestoreProjectID == "" {
				logger.Info("No Firestore project ID specified, skipping DB consistency check")
				return nil
			}

			repo, err := firestore.New(ctx, firestoreProjectID, firestoreDatabaseID)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize Firestore repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logger.Error("failed to close repository", "error", err.Error())
				}
			}()

			logger.Info("Using Firestore repository",
				"project_id", firestoreProjectID,
				"database_id", firestoreDatabaseID,
			)

			// Run DB consistency check
			uc := usecase.New(repo, usecase.WithRiskConfig(cfg))
			validationResult, err := uc.ValidateDB(ctx)
			if err != nil {
				return goerr.Wrap(err, "DB consistency check failed")
			}

			if validationResult.HasIssues() {
				for _, issue := range validationResult.Issues {
					fmt.Printf("%s %s/%d %s: expected %s, got %s\n",
						bad("DRIFT"),
						issue.Collection, issue.ID, issue.Field,
						issue.Expected, issue.Actual)
				}

				return fmt.Errorf("DB consistency check found %d issue(s)", len(validationResult.Issues))
			}

			fmt.Printf("%s DB consistency check passed\n", ok("PASS"))
			return nil
		},
	}
}
