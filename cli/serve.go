package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"biblioteca_portal/app"
	"biblioteca_portal/routes"
)

func (c *CLI) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Arranca el portal web",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := app.NewLogger(c.Config.App.Debug)
			if err != nil {
				return err
			}
			a, err := app.New(c.Config, log)
			if err != nil {
				return err
			}
			defer a.Close()
			routes.RegisterRoutes(a.Router, a)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.Run(ctx)
		},
	}
}
