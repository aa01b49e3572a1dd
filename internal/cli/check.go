package cli

import (
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/matthewdeaves/isrguard/internal/analyzer"
	"github.com/matthewdeaves/isrguard/internal/ir"
	"github.com/matthewdeaves/isrguard/internal/reporting"
	"github.com/matthewdeaves/isrguard/internal/shared"
	"github.com/matthewdeaves/isrguard/internal/storage"
)

func newCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [target]",
		Short: "Scan a file, directory, or literal content for ISR safety violations",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCheck,
	}
	cmd.Flags().StringP("content", "c", "", "Check code content directly (for hooks)")
	cmd.Flags().BoolP("quiet", "q", false, "Only output violations, no decoration")
	cmd.Flags().String("config", "", "Path to YAML config (optional)")
	cmd.Flags().String("rules", "", "Path to forbidden-call database")
	cmd.Flags().String("out", "", "Write a JSON report to this directory")
	cmd.Flags().String("db", "", "SQLite database path (with --save)")
	cmd.Flags().Bool("save", false, "Persist the run to the database")
	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	content, _ := cmd.Flags().GetString("content")
	quiet, _ := cmd.Flags().GetBool("quiet")
	configPath, _ := cmd.Flags().GetString("config")
	rulesPath, _ := cmd.Flags().GetString("rules")
	outDir, _ := cmd.Flags().GetString("out")
	dbPath, _ := cmd.Flags().GetString("db")
	save, _ := cmd.Flags().GetBool("save")

	cfg, _ := shared.LoadConfig(configPath)
	shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)

	// precedence: flags > config > defaults
	if rulesPath == "" {
		rulesPath = cfg.Database.RulesPath
	}
	if dbPath == "" {
		dbPath = cfg.Database.DSN
	}

	a, err := analyzer.New(rulesPath, analyzer.Settings{
		Globs:        cfg.Analysis.Globs,
		Workers:      cfg.Analysis.Workers,
		Suppressions: cfg.Suppressions,
	})
	if err != nil {
		return err
	}

	var run *ir.Run
	switch {
	case content != "":
		run = a.CheckContent(content)
	case len(args) == 1:
		run, err = a.Check(args[0])
	case len(cfg.Analysis.Sources) > 0:
		run, err = a.CheckTargets(cfg.Analysis.Sources)
	default:
		return errors.New("check: a target argument, --content, or analysis.sources in config is required")
	}
	if err != nil {
		return err
	}

	if quiet {
		reporting.PrintQuiet(os.Stdout, run)
	} else {
		reporting.Print(os.Stdout, run)
	}

	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return err
		}
		path, err := reporting.WriteJSON(run.ID, outDir, run)
		if err != nil {
			return err
		}
		slog.Info("report written", "json", path)
	}

	if save {
		db, err := storage.OpenSQLite(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.CreateSchema(); err != nil {
			return err
		}
		if err := db.SaveRun(run); err != nil {
			return err
		}
		slog.Info("run saved", "run", run.ID, "db", dbPath)
	}

	if len(run.Violations) > 0 {
		violationsFound = true
	}
	return nil
}
