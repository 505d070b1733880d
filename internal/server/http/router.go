package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"gitlab.lucky-team.pro/luckyads/go.cert-dashboard/internal/environment"
)

func (s *Server) router(ctx context.Context) http.Handler {
	mux := chi.NewRouter()

	mux.Use(
		middleware.Recoverer,
		middleware.Heartbeat("/check"),
	)

	mux.Get("/deploy/info", deployInfoHandlerFunc(ctx))

	mux.Route("/api", func(r chi.Router) {
		r.Get("/status", s.statusHandler)
		r.Get("/check/{domain}", s.checkHandler)
		r.Post("/domains/bulk", s.bulkAddHandler)
		r.Delete("/domains/{domain}", s.deleteHandler)
	})

	return mux
}

func deployInfoHandlerFunc(ctx context.Context) http.HandlerFunc {
	info := map[string]string{
		"service":     environment.ServiceName,
		"environment": environment.EnvFromCtx(ctx).String(),
		"version":     environment.VersionFromCtx(ctx),
		"build_time":  environment.BuildTimeFromCtx(ctx),
	}

	return func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(info) //nolint:errcheck,gosec
	}
}
