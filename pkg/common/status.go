package common

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// NewStatusRouter serves /metrics and a /healthz liveness probe.
func NewStatusRouter() *mux.Router {
	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.Handler())
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	return router
}

// StartStatusServer serves the status router on addr in the background. A blank addr disables it.
func StartStatusServer(addr string, logger *zap.Logger) {
	if addr == "" {
		return
	}
	router := NewStatusRouter()
	go func() {
		logger.Info("status server listening", zap.String("addr", addr))
		logger.Error("status server crashed", zap.Error(http.ListenAndServe(addr, router)))
	}()
}
