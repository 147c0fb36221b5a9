package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/weiihann/taipan/config"
	"github.com/weiihann/taipan/report"
	"github.com/weiihann/taipan/sink"
	"github.com/weiihann/taipan/workload"
)

func newKindsCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "kinds",
		Short: "List benchmark kinds with their sizes and divisors",
		RunE: func(*cobra.Command, []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			for _, kind := range workload.Kinds() {
				fmt.Fprintf(os.Stdout, "%-11s size %-13d divisor %-12.3f %s\n",
					kind, cfg.Size(kind), cfg.Divisor(kind), kind.Describe())
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to YAML config file")

	return cmd
}

func newHistoryCmd() *cobra.Command {
	var (
		path   string
		dbPath string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show averaged results from the history file",
		Long: `Render the averaged JSON history. With --db, also count the rows the
sqlite sink stored per kind.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := sink.Load(path)
			if err != nil {
				return err
			}

			if len(entries) > 0 || dbPath == "" {
				if err := report.GenerateHistory(os.Stdout, entries); err != nil {
					return fmt.Errorf("generate history report: %w", err)
				}
			}

			if dbPath == "" {
				return nil
			}

			return printStoredRuns(cmd.Context(), os.Stdout, dbPath)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&path, "file", config.Default().Sinks.HistoryFile,
		"Path to the JSON history file")
	flags.StringVar(&dbPath, "db", "",
		"Path to a sqlite sink database to count stored runs from")

	return cmd
}

func printStoredRuns(ctx context.Context, w io.Writer, dbPath string) error {
	db, err := sink.OpenSQLite(ctx, dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	total, err := db.Count(ctx, "")
	if err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Stored runs in %s: %d\n", dbPath, total)

	for _, kind := range workload.Kinds() {
		n, err := db.Count(ctx, string(kind))
		if err != nil {
			return err
		}

		fmt.Fprintf(w, "  %-11s %d\n", kind, n)
	}

	return nil
}
