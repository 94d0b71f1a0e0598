package app

import (
	"net/http"
	"time"

	"github.com/fieldcal/fieldcal/internal/config"
	"github.com/fieldcal/fieldcal/internal/metrics"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router, cfg config.Application) {
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, req)
			log.Debugf("%s %s (%s)", req.Method, req.URL.Path, time.Since(start))
		})
	})

	if cfg.Metrics.Enabled {
		r.Use(metrics.Middleware)
	}
}
