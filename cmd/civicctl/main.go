// Command civicctl runs maintenance tasks against the CivicUX database:
// schema migration, demo seeding, log pruning and catalogue checks.
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/civicux/civicux-api/internal/catalog"
	"github.com/civicux/civicux-api/internal/config"
	"github.com/civicux/civicux-api/internal/database"
	"github.com/civicux/civicux-api/internal/logging"
	"github.com/civicux/civicux-api/internal/seed"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	logging.Setup()
	if err := newRootCmd(connect).Execute(); err != nil {
		os.Exit(1)
	}
}

// connect opens the configured Postgres database.
func connect() (*gorm.DB, error) {
	cfg := config.Load()
	if err := database.Connect(cfg); err != nil {
		return nil, err
	}
	return database.DB, nil
}

func newRootCmd(open func() (*gorm.DB, error)) *cobra.Command {
	root := &cobra.Command{
		Use:          "civicctl",
		Short:        "CivicUX maintenance tasks",
		SilenceUsage: true,
	}

	root.AddCommand(
		newMigrateCmd(open),
		newSeedCmd(open),
		newLogsCmd(open),
		newRewardsCmd(),
	)
	return root
}

func newMigrateCmd(open func() (*gorm.DB, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update every table",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := open()
			if err != nil {
				return err
			}
			defer database.Close(db)

			if err := database.Migrate(db); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrated", len(database.AllModels()), "tables")
			return nil
		},
	}
}

func newSeedCmd(open func() (*gorm.DB, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the demo users, reports and votes",
		Long: `Load the demo dataset. Existing rows are kept, so the command can run
more than once. Every demo account uses the password "` + seed.DemoPassword + `".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := open()
			if err != nil {
				return err
			}
			defer database.Close(db)

			if err := database.Migrate(db); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			res, err := seed.Run(db, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d users, %d reports, %d votes\n", res.Users, res.Reports, res.Votes)
			return nil
		},
	}
}

func newLogsCmd(open func() (*gorm.DB, error)) *cobra.Command {
	logs := &cobra.Command{
		Use:   "logs",
		Short: "Manage persisted system logs",
	}

	var days int
	prune := &cobra.Command{
		Use:   "prune",
		Short: "Delete system logs older than the retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := open()
			if err != nil {
				return err
			}
			defer database.Close(db)

			deleted, err := logging.PruneLogs(db, days, time.Now())
			if err != nil {
				return fmt.Errorf("prune failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d log rows older than %d days\n", deleted, days)
			return nil
		},
	}
	prune.Flags().IntVar(&days, "days", 30, "retention window in days")

	logs.AddCommand(prune)
	return logs
}

func newRewardsCmd() *cobra.Command {
	rewards := &cobra.Command{
		Use:   "rewards",
		Short: "Inspect the rewards catalogue",
	}

	var path string
	list := &cobra.Command{
		Use:   "list",
		Short: "Validate and print the catalogue",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := catalog.Load(path)
			if err != nil {
				return err
			}
			printCatalogue(cmd.OutOrStdout(), registry)
			return nil
		},
	}
	list.Flags().StringVar(&path, "config", os.Getenv("REWARDS_CONFIG_PATH"), "catalogue YAML file (default: embedded)")

	rewards.AddCommand(list)
	return rewards
}

func printCatalogue(w io.Writer, registry *catalog.Registry) {
	for _, cat := range registry.Categories() {
		fmt.Fprintf(w, "%s\n", cat.Title)
		for _, r := range registry.All() {
			if r.Category == cat.ID {
				fmt.Fprintf(w, "  %-4s %-40s %5d\n", r.ID, r.Title, r.Cost)
			}
		}
	}
}
