package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/datasciencecampus/geosnap/internal/enrich"
)

var serveCmd = &cobra.Command{
	Use:   "serve <enriched.geojson>",
	Short: "Serve the interactive map over HTTP",
	Long:  "Starts an HTTP server with the rendered map at /, the dataset at /api/dataset.geojson, and a health endpoint.",
	Args:  cobra.ExactArgs(1),
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntP("port", "p", 0, "HTTP server port (0 uses the configured default)")
	serveCmd.Flags().String("snapped-col", enrich.DefaultSnappedColumn, "Property column holding the snapped point geometry")
	serveCmd.Flags().String("line-col", enrich.DefaultLineColumn, "Property column holding the connecting line geometry")
	serveCmd.Flags().Float64("zoom", 0, "Initial zoom level (0 uses the configured default)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	port, _ := cmd.Flags().GetInt("port")
	snappedCol, _ := cmd.Flags().GetString("snapped-col")
	lineCol, _ := cmd.Flags().GetString("line-col")
	zoom, _ := cmd.Flags().GetFloat64("zoom")
	if port == 0 {
		port = cfg.Server.Port
	}

	m, err := loadMap(args[0], snappedCol, lineCol, zoom)
	if err != nil {
		return err
	}

	dataset, err := os.ReadFile(args[0])
	if err != nil {
		return eris.Wrapf(err, "serve: read %s", args[0])
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet},
	}))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := m.WriteHTML(w); err != nil {
			zap.L().Error("render map", zap.Error(err))
		}
	})

	r.Get("/api/dataset.geojson", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/geo+json")
		_, _ = w.Write(dataset)
	})

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	addr := fmt.Sprintf(":%d", port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	zap.L().Info("starting map server", zap.String("addr", addr), zap.String("dataset", args[0]))

	go func() {
		<-ctx.Done()
		zap.L().Info("shutting down map server")
		_ = srv.Close()
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return eris.Wrap(err, "serve: map server")
	}
	return nil
}
