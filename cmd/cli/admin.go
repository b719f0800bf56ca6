package main

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/iho/gosettle/internal/adapter/http/dto"
	"github.com/iho/gosettle/internal/infrastructure/config"
	"github.com/iho/gosettle/internal/infrastructure/logger"
	"github.com/iho/gosettle/internal/infrastructure/postgres"
)

func newLedgerCmd(opts *options) *cobra.Command {
	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	ledgerCmd.AddCommand(&cobra.Command{
		Use:   "consistency",
		Short: "Check that settlements and residuals agree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result map[string]any
			raw, err := newAPIClient(opts).do(cmd.Context(), http.MethodGet, "/api/v1/ledger/consistency", nil, nil, &result)
			if err != nil {
				return fmt.Errorf("consistency check FAILED: %w", err)
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), raw)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Consistency check PASSED\n")
			if consistent, ok := result["consistent"].(bool); ok {
				fmt.Fprintf(cmd.OutOrStdout(), "Consistent: %v\n", consistent)
			}
			return nil
		},
	})

	return ledgerCmd
}

func newAuditCmd(opts *options) *cobra.Command {
	var (
		resourceType string
		resourceID   string
		actor        string
		since        time.Duration
		limit        int
	)

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "List audit log entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if resourceType != "" {
				q.Set("resource_type", resourceType)
			}
			if resourceID != "" {
				q.Set("resource_id", resourceID)
			}
			if actor != "" {
				q.Set("actor", actor)
			}
			if since > 0 {
				q.Set("from", time.Now().Add(-since).UTC().Format(time.RFC3339))
			}
			q.Set("limit", strconv.Itoa(limit))

			var logs []*dto.AuditLogResponse
			raw, err := newAPIClient(opts).do(cmd.Context(), http.MethodGet, "/api/v1/audit-logs?"+q.Encode(), nil, nil, &logs)
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), raw)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "TIME\tACTOR\tACTION\tRESOURCE\tSTATUS")
			for _, l := range logs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s/%s\t%s\n",
					l.CreatedAt.Format(time.RFC3339), truncate(l.Actor, 20), l.Action, l.ResourceType, l.ResourceID, l.Status)
			}
			return tw.Flush()
		},
	}

	f := cmd.Flags()
	f.StringVar(&resourceType, "resource-type", "", "Filter by resource type")
	f.StringVar(&resourceID, "resource-id", "", "Filter by resource ID")
	f.StringVar(&actor, "by", "", "Filter by actor")
	f.DurationVar(&since, "since", 0, "Only entries newer than this")
	f.IntVar(&limit, "limit", 50, "Maximum entries")

	return cmd
}

func newMigrateCmd() *cobra.Command {
	var databaseURL, path string

	open := func() (*postgres.Migrator, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		if databaseURL == "" {
			databaseURL = cfg.DatabaseURL
		}
		if path == "" {
			path = cfg.MigrationsPath
		}
		logr := logger.New(logger.Config{Level: cfg.LogLevel, Format: "console", Service: "gosettle-cli"})
		return postgres.NewMigrator(databaseURL, path, logr)
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database schema migrations",
	}
	migrateCmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "Database URL (defaults to DATABASE_URL)")
	migrateCmd.PersistentFlags().StringVar(&path, "path", "", "Migrations source (defaults to MIGRATIONS_PATH)")

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := open()
			if err != nil {
				return err
			}
			defer m.Close()
			return m.Up()
		},
	})

	var steps int
	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := open()
			if err != nil {
				return err
			}
			defer m.Close()
			return m.Down(steps)
		},
	}
	downCmd.Flags().IntVar(&steps, "steps", 1, "Number of migrations to roll back")
	migrateCmd.AddCommand(downCmd)

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := open()
			if err != nil {
				return err
			}
			defer m.Close()

			v, dirty, err := m.Version()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version %d dirty=%v\n", v, dirty)
			return nil
		},
	})

	return migrateCmd
}
