package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/localpulse/gridscan/internal/model"
	"github.com/localpulse/gridscan/internal/scan"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the scan API server",
	Long: `Expose the scan engine over HTTP. POST /v1/scans runs a scan
synchronously and returns the full result; the surrounding product persists
and renders it.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		engine := newEngine()
		log := zap.L().With(zap.String("command", "serve"))

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
		}))

		r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Post("/v1/scans", func(w http.ResponseWriter, req *http.Request) {
			var body struct {
				Keyword      string  `json:"keyword"`
				TargetDomain string  `json:"target_domain"`
				Lat          float64 `json:"lat"`
				Lng          float64 `json:"lng"`
				GridSize     int     `json:"grid_size"`
				RadiusMiles  float64 `json:"radius_miles"`
			}
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
				return
			}
			if body.Keyword == "" || body.TargetDomain == "" {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "keyword and target_domain are required"})
				return
			}
			if body.GridSize == 0 {
				body.GridSize = 5
			}
			if body.RadiusMiles == 0 {
				body.RadiusMiles = 5
			}

			result, err := engine.Run(req.Context(), scan.Request{
				Keyword:      body.Keyword,
				TargetDomain: body.TargetDomain,
				CenterLat:    body.Lat,
				CenterLng:    body.Lng,
				Config: model.GridConfig{
					GridSize:    body.GridSize,
					RadiusMiles: body.RadiusMiles,
				},
				NumResults: cfg.Scan.NumResults,
				Device:     model.Device(cfg.Scan.Device),
			}, nil)
			if err != nil {
				log.Error("scan failed", zap.String("keyword", body.Keyword), zap.Error(err))
				writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
				return
			}

			writeJSON(w, http.StatusOK, result)
		})

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Info("listening", zap.Int("port", cfg.Server.Port))
			errCh <- srv.ListenAndServe()
		}()

		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return eris.Wrap(err, "serve: shutdown")
			}
			log.Info("server stopped")
			return nil
		case err := <-errCh:
			if err != nil && err != http.ErrServerClosed {
				return eris.Wrap(err, "serve: listen")
			}
			return nil
		}
	},
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
