package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"step-bot/internal/api/rest"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP analysis API",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := buildRuntime(true, true)
		if err != nil {
			return err
		}
		defer rt.close()

		addr := rt.cfg.HTTPAddr
		if serveAddr != "" {
			addr = serveAddr
		}

		handler := rest.NewHandler(rt.container.AnalysisService, rt.cfg.MaxFileBytes(), rt.logger)
		srv := &http.Server{
			Addr:              addr,
			Handler:           handler.Router(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signalContext()
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			rt.logger.Info("http api listening", "addr", addr)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		rt.logger.Info("http api shutting down")
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides http_addr)")
}
