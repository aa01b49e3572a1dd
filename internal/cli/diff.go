package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matthewdeaves/isrguard/internal/reporting"
	"github.com/matthewdeaves/isrguard/internal/shared"
	"github.com/matthewdeaves/isrguard/internal/storage"
)

func newDiffCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Compare violations between two saved runs",
		RunE:  runDiff,
	}
	cmd.Flags().String("config", "", "Path to YAML config (optional)")
	cmd.Flags().String("base", "", "Base run ID")
	cmd.Flags().String("head", "", "Head run ID")
	cmd.Flags().String("db", "", "SQLite database path")
	cmd.Flags().String("out", "", "Output directory")
	return cmd
}

func runDiff(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	base, _ := cmd.Flags().GetString("base")
	head, _ := cmd.Flags().GetString("head")
	dbPath, _ := cmd.Flags().GetString("db")
	outDir, _ := cmd.Flags().GetString("out")

	cfg, _ := shared.LoadConfig(configPath)
	shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)
	if dbPath == "" {
		dbPath = cfg.Database.DSN
	}
	if outDir == "" {
		outDir = cfg.Reporting.OutDir
	}
	if base == "" || head == "" {
		return errors.New("diff: --base and --head are required")
	}

	db, err := storage.OpenSQLite(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	br, err := db.LoadRun(base)
	if err != nil {
		return fmt.Errorf("load base run: %w", err)
	}
	hr, err := db.LoadRun(head)
	if err != nil {
		return fmt.Errorf("load head run: %w", err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	path, err := reporting.WriteDiffJSON(base, head, outDir, &br, &hr)
	if err != nil {
		return err
	}
	fmt.Printf("Diff OK\n  %s\n", path)
	return nil
}
