package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sumrise/sumrise/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		svc, b, err := newService(ctx)
		if err != nil {
			return err
		}
		defer b.Close()

		return api.Serve(ctx, appConfig.Addr, api.NewEngine(svc))
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides SUMRISE_ADDR, default :8080)")
}
