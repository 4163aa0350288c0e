package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sumrise/sumrise/internal/config"
	"github.com/sumrise/sumrise/internal/logger"
)

// appConfig is resolved once per invocation in PersistentPreRunE.
var appConfig config.Config

var rootCmd = &cobra.Command{
	Use:   "sumrise",
	Short: "AI math practice problems",
	Long:  "SumRise generates math practice problems with a language model and grades your answers.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(); err != nil {
			return err
		}
		v := config.New()
		if err := config.BindFlags(v, cmd.Flags()); err != nil {
			return fmt.Errorf("bind flags: %w", err)
		}
		cfg, err := config.Load(v)
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		appConfig = cfg
		logger.Init(cfg.LogLevel, logger.IsTerminal(os.Stderr))
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPractice(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("store", "", "Problem store backend: memory, sqlite or redis (overrides SUMRISE_STORE)")
	pf.String("db", "", "Path to SQLite database file (overrides SUMRISE_DB)")
	pf.String("redis-addr", "", "Redis address for the redis store (overrides SUMRISE_REDIS_ADDR)")
	pf.String("provider", "", "LLM provider: openai, anthropic, gemini, openrouter or mock")
	pf.String("log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(practiceCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(gradeCmd)
	rootCmd.AddCommand(recentCmd)
	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}
