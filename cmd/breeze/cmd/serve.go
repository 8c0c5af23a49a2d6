package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/go-breeze/breeze/pkg/config"
	"github.com/go-breeze/breeze/pkg/debugserver"
	"github.com/go-breeze/breeze/pkg/render"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve <scene.yaml>",
		Short: "Run a scene headless behind the debug server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openScene(args[0], func(settings *config.Resolved) render.Backend {
				return newRaster(settings)
			})
			if err != nil {
				return err
			}

			srv := debugserver.New(s.app)
			addr, err := srv.Start(s.settings.DebugAddr)
			if err != nil {
				return err
			}
			log.Printf("breeze: debug server listening on http://%s", addr)
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				if err := srv.Stop(ctx); err != nil {
					log.Printf("breeze: debug server shutdown: %v", err)
				}
			}()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := s.app.Run(ctx); err != nil && ctx.Err() == nil {
				return err
			}
			log.Printf("breeze: stopped after %d ticks", s.app.TickCount())
			return nil
		},
	}
	cmd.Flags().String("addr", "", "debug server listen address (overrides config)")
	_ = viper.BindPFlag("addr", cmd.Flags().Lookup("addr"))
	return cmd
}
