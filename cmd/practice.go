package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sumrise/sumrise/internal/config"
	"github.com/sumrise/sumrise/internal/logger"
	"github.com/sumrise/sumrise/internal/store"
	"github.com/sumrise/sumrise/internal/tui"
)

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Start an interactive practice session",
	Long: `Start the full-screen practice session.

While the session runs, log output is appended to practice.log next to the
SQLite database instead of the terminal.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPractice(cmd)
	},
}

// runPractice opens the store, builds the service, and launches the TUI.
func runPractice(cmd *cobra.Command) error {
	ctx := cmd.Context()
	svc, b, err := newService(ctx)
	if err != nil {
		return err
	}
	defer b.Close()

	restore := divertLogs(appConfig)
	defer restore()

	return tui.Run(ctx, svc)
}

// divertLogs keeps log lines off the terminal while the TUI owns it.
func divertLogs(cfg config.Config) (restore func()) {
	return logger.DivertToFile(practiceLogPath(cfg))
}

// practiceLogPath is practice.log in the directory of the SQLite database.
func practiceLogPath(cfg config.Config) string {
	path := cfg.DBPath
	if path == "" {
		var err error
		if path, err = store.DefaultDBPath(); err != nil {
			return ""
		}
	} else if err := store.EnsureDir(path); err != nil {
		return ""
	}
	return filepath.Join(filepath.Dir(path), "practice.log")
}
