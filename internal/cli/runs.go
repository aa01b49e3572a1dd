package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/matthewdeaves/isrguard/internal/shared"
	"github.com/matthewdeaves/isrguard/internal/storage"
)

func newRunsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List saved analysis runs",
		RunE:  runRuns,
	}
	cmd.Flags().String("config", "", "Path to YAML config (optional)")
	cmd.Flags().String("db", "", "SQLite database path")
	cmd.Flags().Int("limit", 20, "Maximum runs to list")
	return cmd
}

func runRuns(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	dbPath, _ := cmd.Flags().GetString("db")
	limit, _ := cmd.Flags().GetInt("limit")

	cfg, _ := shared.LoadConfig(configPath)
	shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)
	if dbPath == "" {
		dbPath = cfg.Database.DSN
	}

	db, err := storage.OpenSQLite(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.CreateSchema(); err != nil {
		return err
	}

	rows, err := db.ListRuns(limit, 0)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tSTARTED\tTARGET\tVIOLATIONS")
	for _, rr := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", rr.ID, rr.StartedAt.Format(time.RFC3339), rr.Target, rr.Violations)
	}
	return tw.Flush()
}
