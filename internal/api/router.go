// catalog-service/internal/api/router.go
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewRouter wires the content endpoints plus /healthz and /metrics. Extra
// middlewares apply to the /api routes only.
func NewRouter(handler *ContentHandler, pinger Pinger, logger *slog.Logger, apiMiddlewares ...mux.MiddlewareFunc) *mux.Router {
	router := mux.NewRouter()
	router.Use(requestIDMiddleware, accessLogMiddleware(logger), recoverMiddleware(logger))

	router.HandleFunc("/healthz", healthHandler(pinger, logger)).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.Use(apiMiddlewares...)

	contentRouter := apiRouter.PathPrefix("/content").Subrouter()
	contentRouter.HandleFunc("", handler.CreateContent).Methods(http.MethodPost)
	contentRouter.HandleFunc("", handler.ListContent).Methods(http.MethodGet)
	contentRouter.HandleFunc("/search", handler.SearchContent).Methods(http.MethodPost)
	contentRouter.HandleFunc("/by-title", handler.GetContentByTitle).Methods(http.MethodGet)
	contentRouter.HandleFunc("/{id:[0-9]+}", handler.GetContentByID).Methods(http.MethodGet)
	contentRouter.HandleFunc("/{id:[0-9]+}", handler.UpdateContent).Methods(http.MethodPut)
	contentRouter.HandleFunc("/{id:[0-9]+}", handler.DeleteContent).Methods(http.MethodDelete)

	return router
}

func healthHandler(pinger Pinger, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if err := pinger.Ping(ctx); err != nil {
			logger.WarnContext(ctx, "Health check failed", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unavailable"}` + "\n"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}` + "\n"))
	}
}
