package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/linkharvest/internal/config"
	"github.com/nao1215/linkharvest/internal/database"
)

// NewRunsCmd creates the runs command.
// This command inspects crawl history stored in the database.
func NewRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List and inspect past crawl runs",
		Long: `Runs displays crawl history stored in the local database.

Every crawl saves its summary, link records, and failures unless
--no-db was given. This command lists recent runs and shows the
links or failures recorded for a specific run.

Examples:
  # List the ten most recent runs
  linkharvest runs

  # List the last three runs
  linkharvest runs --limit 3

  # Show the links recorded by run 5
  linkharvest runs --links 5

  # Show the failures recorded by run 5
  linkharvest runs --failures 5`,
		Args: cobra.NoArgs,
		RunE: runRunsCmd,
	}

	cmd.Flags().IntP("limit", "l", 10,
		"Maximum number of runs to list")
	cmd.Flags().Int64("links", 0,
		"Show the (source, target) pairs recorded by a run ID")
	cmd.Flags().Int64("failures", 0,
		"Show the failures recorded by a run ID")

	return cmd
}

// runRunsCmd executes the runs command.
func runRunsCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	linksRunID, err := cmd.Flags().GetInt64("links")
	if err != nil {
		return err
	}
	failuresRunID, err := cmd.Flags().GetInt64("failures")
	if err != nil {
		return err
	}

	db, err := database.Open(config.XDGDataDir(), database.Options{
		CreateIfNotExists: false,
		EnableWAL:         true,
	})
	if err != nil {
		return fmt.Errorf("no crawl history found (run 'linkharvest crawl' first): %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()

	if linksRunID > 0 {
		return showLinks(cmd, db, linksRunID)
	}
	if failuresRunID > 0 {
		return showFailures(cmd, db, failuresRunID)
	}

	runs, err := db.RecentRuns(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTARTED\tELAPSED\tSEEDS\tFETCHED\tLINKS")
	for _, r := range runs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%d\n",
			r.ID,
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.Elapsed.Round(time.Millisecond),
			r.Seeds,
			r.Fetched,
			r.Links,
		)
	}
	return w.Flush()
}

// showLinks prints the link records stored for one run.
func showLinks(cmd *cobra.Command, db *database.CrawlDB, runID int64) error {
	ctx := cmd.Context()

	run, err := db.GetRun(ctx, runID)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("run %d not found (use 'linkharvest runs' to list run IDs)", runID)
	}

	records, err := db.LinksForRun(ctx, runID)
	if err != nil {
		return fmt.Errorf("failed to load links: %w", err)
	}
	if len(records) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Run %d recorded no links.\n", runID)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SOURCE\tTARGET")
	for _, rec := range records {
		fmt.Fprintf(w, "%s\t%s\n", rec.Source, rec.Target)
	}
	return w.Flush()
}

// showFailures prints the failures stored for one run.
func showFailures(cmd *cobra.Command, db *database.CrawlDB, runID int64) error {
	ctx := cmd.Context()

	run, err := db.GetRun(ctx, runID)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("run %d not found (use 'linkharvest runs' to list run IDs)", runID)
	}

	failures, err := db.FailuresForRun(ctx, runID)
	if err != nil {
		return fmt.Errorf("failed to load failures: %w", err)
	}
	if len(failures) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Run %d recorded no failures.\n", runID)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "URL\tKIND\tDETAIL")
	for _, f := range failures {
		fmt.Fprintf(w, "%s\t%s\t%s\n", f.URL, f.Kind, f.Detail)
	}
	return w.Flush()
}
