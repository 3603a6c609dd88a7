package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/velocart/app/catalog"
	"github.com/shashiranjanraj/velocart/app/repositories"
	"github.com/shashiranjanraj/velocart/app/repositories/sqlstore"
	"github.com/shashiranjanraj/velocart/config"
	"github.com/shashiranjanraj/velocart/database/seeders"
	"github.com/shashiranjanraj/velocart/internal/server"
	"github.com/shashiranjanraj/velocart/pkg/logger"
	"github.com/shashiranjanraj/velocart/pkg/migration"
)

var errNotSQL = errors.New("this command needs a SQL STORE_DRIVER (sqlite, postgres, mysql, sqlserver)")

// bootBackend loads config and opens the configured store.
func bootBackend(ctx context.Context) (*repositories.Backend, error) {
	if err := config.Load(); err != nil {
		return nil, err
	}
	logger.Reload()
	return server.OpenBackend(ctx)
}

// withBackend runs fn against the configured store and closes it after.
func withBackend(cmd *cobra.Command, fn func(ctx context.Context, b *repositories.Backend) error) error {
	ctx := cmd.Context()
	b, err := bootBackend(ctx)
	if err != nil {
		return err
	}
	defer b.Close(context.WithoutCancel(ctx)) //nolint:errcheck
	return fn(ctx, b)
}

func migrator(b *repositories.Backend, out io.Writer) (*migration.Runner, error) {
	if b.DB == nil {
		return nil, errNotSQL
	}
	return migration.New(b.DB, migration.Default, out), nil
}

// velocart migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBackend(cmd, func(ctx context.Context, b *repositories.Backend) error {
			r, err := migrator(b, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Running migrations…")
			_, err = r.Run(ctx)
			return err
		})
	},
}

// velocart migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Rollback the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBackend(cmd, func(ctx context.Context, b *repositories.Backend) error {
			r, err := migrator(b, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Rolling back last batch…")
			_, err = r.Rollback(ctx)
			return err
		})
	},
}

// velocart migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBackend(cmd, func(ctx context.Context, b *repositories.Backend) error {
			r, err := migrator(b, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			st, err := r.Status(ctx)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "MIGRATION\tRAN\tBATCH")
			for _, s := range st {
				batch := "-"
				if s.Ran {
					batch = fmt.Sprint(s.Batch)
				}
				fmt.Fprintf(w, "%s\t%t\t%s\n", s.Name, s.Ran, batch)
			}
			return w.Flush()
		})
	},
}

// velocart seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo catalog into the configured store",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBackend(cmd, func(ctx context.Context, b *repositories.Backend) error {
			fmt.Fprintln(cmd.OutOrStdout(), "Running seeders…")
			return seeders.RunAll(ctx, seeders.Target{Store: b.Store, Taxonomy: b.Taxonomy}, cmd.OutOrStdout())
		})
	},
}

var indexDDLFlag bool

// velocart index:list
var indexListCmd = &cobra.Command{
	Use:   "index:list",
	Short: "Print the composite indexes the listing endpoints need",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printIndexes(cmd.OutOrStdout(), indexDDLFlag)
	},
}

func printIndexes(out io.Writer, ddl bool) error {
	set := catalog.DefaultIndexes()
	if ddl {
		stmts := sqlstore.IndexDDL(set)
		for _, name := range slices.Sorted(maps.Keys(stmts)) {
			fmt.Fprintf(out, "%s;\n", stmts[name])
		}
		return nil
	}
	for _, ix := range set.All() {
		fmt.Fprintln(out, ix.Key())
	}
	fmt.Fprintf(out, "%d composite indexes\n", set.Len())
	return nil
}

// velocart index:ensure
var indexEnsureCmd = &cobra.Command{
	Use:   "index:ensure",
	Short: "Create missing composite indexes in the configured store",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBackend(cmd, func(ctx context.Context, b *repositories.Backend) error {
			created, err := b.EnsureIndexes(ctx, catalog.DefaultIndexes())
			for _, name := range created {
				fmt.Fprintln(cmd.OutOrStdout(), "  created", name)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d indexes created.\n", len(created))
			return nil
		})
	},
}

func init() {
	indexListCmd.Flags().BoolVar(&indexDDLFlag, "ddl", false, "print SQL CREATE INDEX statements")
}
