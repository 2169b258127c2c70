package cli

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scbrown/tmcheck/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API used by the browser extension",
	Long: `Start an HTTP server that exposes term checks, listing checks, text
extraction and page scans as a JSON API at /api/v1/. The browser
extension's background script calls it instead of checking terms itself.

Endpoints:
  GET    /api/v1/health          liveness
  POST   /api/v1/check           {"terms": [...]}
  POST   /api/v1/check/listing   {"title": "...", "tags": [...]}
  POST   /api/v1/extract         {"text": "...", "html": false}
  POST   /api/v1/scan            {"url": "...", "elements": [...]}
  GET    /api/v1/similar?term=   similar dictionary trademarks
  GET    /api/v1/dictionary      known trademarks
  DELETE /api/v1/cache           clear cached results
  GET    /api/v1/cache/stats     cache statistics
  GET    /metrics                Prometheus metrics

Use cache_backend=redis to share one cache between several servers.`,
	Example: `  # Start server on default port
  tmcheck serve

  # Start on a custom address with request logging
  tmcheck serve --addr localhost:9090 --verbose`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Graceful shutdown on SIGINT/SIGTERM.
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		srv := server.New(s.matcher,
			server.WithExtractor(s.extractor),
			server.WithMaxDetails(cfg.Details()),
			server.WithMetrics(s.metrics),
			server.WithLogger(logger),
		)

		// Listen first so we can report the actual address.
		ln, err := net.Listen("tcp", serveAddr)
		if err != nil {
			return fmt.Errorf("listen %s: %w", serveAddr, err)
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "tmcheck serve listening on %s (cache: %s)\n", ln.Addr(), cfg.Backend())
		if cfg.RegistryKey == "" {
			logger.Warn("registry_key not set; checking the local dictionary only")
		}

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Serve(ln)
		}()

		select {
		case <-ctx.Done():
			fmt.Fprintln(cmd.ErrOrStderr(), "shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("shutdown", zap.Error(err))
				return err
			}
			return nil
		case err := <-errCh:
			return err
		}
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", server.DefaultAddr, "address to listen on (host:port)")
	rootCmd.AddCommand(serveCmd)
}
