package routes

import (
	"net/http"

	"energy-tools/internal/auth"
	"energy-tools/internal/config"
	"energy-tools/internal/handlers"
	"energy-tools/internal/logger"
	mdlwr "energy-tools/internal/middleware"
	"energy-tools/internal/services"
	"energy-tools/internal/tools"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func NewRouter(tk *tools.Toolkit, runs services.RunRecorder, cfg *config.Config, logr *logger.Logger) http.Handler {
	r := chi.NewRouter()

	// Basic middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	toolHandler := handlers.NewToolHandler(tk, logr.Logger)
	runHandler := handlers.NewRunHandler(runs, logr.Logger)
	authHandler := handlers.NewAuthHandler()

	var authMW *mdlwr.AuthMiddleware
	if cfg.RequireAuth {
		jwtMgr, err := auth.NewJWTManager(cfg.JWTPrivateKeyPath, cfg.JWTPublicKeyPath, auth.Issuer)
		if err != nil {
			logr.Fatal("failed to init jwt manager", zap.Error(err))
		}
		authMW = mdlwr.NewAuthMiddleware(jwtMgr, logr.Logger)
	} else {
		logr.Warn("API authentication disabled")
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if authMW != nil {
			r.Use(authMW.JWTAuth)
			r.Get("/auth/whoami", authHandler.WhoAmI)
		}

		scope := func(s string) func(http.Handler) http.Handler {
			if authMW == nil {
				return func(next http.Handler) http.Handler { return next }
			}
			return authMW.RequireScope(s)
		}

		r.Group(func(r chi.Router) {
			r.Use(scope(auth.ScopeRead))
			r.Get("/streets", toolHandler.ListStreets)
			r.Get("/streets/{street}/buildings", toolHandler.BuildingIDs)
			r.Get("/scenarios", toolHandler.Scenarios)
			r.Get("/results", toolHandler.ListResults)
			r.Get("/runs", runHandler.ListRuns)
		})

		r.Group(func(r chi.Router) {
			r.Use(scope(auth.ScopeAnalyze))
			r.Route("/analysis", func(r chi.Router) {
				r.Post("/hp", toolHandler.RunHP)
				r.Post("/dh", toolHandler.RunDH)
				r.Post("/compare", toolHandler.Compare)
			})
			r.Post("/kpi/analyze", toolHandler.AnalyzeKPI)
		})
	})

	return r
}
