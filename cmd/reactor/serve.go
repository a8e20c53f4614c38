package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/vango-dev/reactor/internal/config"
	"github.com/vango-dev/reactor/pkg/metrics"
	"github.com/vango-dev/reactor/pkg/render"
	"github.com/vango-dev/reactor/pkg/vdom"
)

func serveCmd(configDir *string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the demo page with streaming SSR",
		Long: `Serve the demo todo list as a streamed HTML page.

When metrics are enabled in the configuration, Prometheus metrics are
exposed at /metrics.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(*configDir, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			var collector *metrics.Collector
			reg := prometheus.NewRegistry()
			if cfg.Metrics.Enabled {
				collector = metrics.New(metrics.WithRegistry(reg), metrics.WithNamespace(cfg.Metrics.Namespace))
			}

			srv := &http.Server{
				Addr:              addr,
				Handler:           newRouter(cfg, logger, collector, reg),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logger.Info("listening", "addr", addr, "metrics", collector != nil)
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

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			logger.Info("shutting down")
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "Address to listen on")

	return cmd
}

// newRouter routes the demo page, a health check and, when collector is
// non-nil, the metrics endpoint for reg.
func newRouter(cfg *config.Config, logger *slog.Logger, collector *metrics.Collector, reg *prometheus.Registry) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		title := req.URL.Query().Get("title")
		if title == "" {
			title = "Todos"
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		sr := render.NewStreamingRenderer(w, render.RendererConfig{
			NoMarkers: !cfg.Markers(),
			Logger:    logger,
		})

		start := time.Now()
		_, err := sr.RenderPage(render.PageData{
			Body:  vdom.Component(todoListDef, vdom.Props{"title": title}, nil),
			Title: title,
		})
		if collector != nil {
			collector.RecordSSR(start, err)
		}
		reqID := middleware.GetReqID(req.Context())
		if err != nil {
			logger.Error("render failed", "request_id", reqID, "error", err)
			return
		}
		logger.Debug("rendered", "request_id", reqID, "duration", time.Since(start))
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	if collector != nil {
		r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}
	return r
}
