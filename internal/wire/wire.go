package wire

import (
	"context"
	"net/http"

	"pizza-service/internal/adaptor"
	"pizza-service/internal/usecase"
	"pizza-service/pkg/metrics"
	"pizza-service/pkg/middleware"
	"pizza-service/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// App holds the assembled HTTP surface
type App struct {
	Router  http.Handler
	Service *usecase.Service
}

// Observability carries the collectors the router records into. Ping checks the
// backing store for /health and may be nil.
type Observability struct {
	Metrics   *metrics.Metrics
	Collector *metrics.HTTPCollector
	Ping      func(ctx context.Context) error
}

// Wiring builds handlers and routes on top of the services
func Wiring(service *usecase.Service, config *utils.Config, obs Observability, logger *zap.Logger) *App {
	handler := adaptor.NewHandler(service, config, logger)
	router := setupRouter(handler, service, config, obs, logger)

	return &App{
		Router:  otelhttp.NewHandler(router, config.App.Name),
		Service: service,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	service *usecase.Service,
	config *utils.Config,
	obs Observability,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.App.CORSOrigins))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics(obs.Metrics, obs.Collector))
	r.Use(middleware.SetAuthUser(service.Token, logger))

	r.NotFound(handler.Docs.NotFound)
	r.MethodNotAllowed(handler.Docs.NotFound)

	r.Get("/", handler.Docs.Root)
	r.Get("/api/docs", handler.Docs.Docs)
	r.Get("/health", health(obs.Ping, logger))
	r.Method(http.MethodGet, "/metrics", obs.Collector.Handler())

	wireAuth(r, handler.Auth)
	wireUser(r, handler.User)
	wireFranchise(r, handler.Franchise)
	wireOrder(r, handler.Order)

	return r
}

func health(ping func(ctx context.Context) error, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ping != nil {
			if err := ping(r.Context()); err != nil {
				logger.Error("Health check failed", zap.Error(err))
				utils.ResponseError(w, http.StatusServiceUnavailable, "database unavailable")
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}
}
