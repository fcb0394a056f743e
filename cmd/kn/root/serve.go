package root

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/SicilyCialo/kannacs/internal/engine"
	"github.com/SicilyCialo/kannacs/internal/web"
)

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the progress API over HTTP with browser cookies",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			policy, err := engine.ParseResetPolicy(cfg.ResetPolicy)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Addr
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := web.NewServer(web.Options{
				ResetPolicy:   policy,
				CookieTTL:     cfg.CookieTTL,
				SecureCookies: cfg.SecureCookies,
			})
			return srv.ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default $KANNACS_ADDR or 127.0.0.1:8078)")

	return cmd
}
