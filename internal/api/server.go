package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/fitassist/internal/advisor"
	"github.com/2beens/fitassist/internal/analysis"
	"github.com/2beens/fitassist/internal/config"
	"github.com/2beens/fitassist/internal/db"
	"github.com/2beens/fitassist/internal/garmin"
	"github.com/2beens/fitassist/internal/middleware"
	"github.com/2beens/fitassist/internal/pipeline"
	"github.com/2beens/fitassist/internal/storage"
	"github.com/2beens/fitassist/internal/telemetry/metrics"
	"github.com/2beens/fitassist/internal/telemetry/tracing"

	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const serviceName = "fitassist-api"

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server

	config      *config.Config
	dbPool      *pgxpool.Pool // nil with the disk storage backend
	repo        storage.Repository
	redisClient *redis.Client
	ingestor    *pipeline.Ingestor
	runStatuses *pipeline.RunStatusStore
	analyzer    *analysis.Analyzer
	advisor     advisor.Advisor

	// telemetry
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	RedisPassword           string
	PostgresPassword        string
	GarminToken             string
	HoneycombTracingEnabled bool
	// resolved once at startup, see cmd/service
	UseMockAdvisor bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config

	var collectors []prometheus.Collector
	var dbPool *pgxpool.Pool
	var repo storage.Repository
	switch cfg.StorageBackend {
	case config.StorageBackendPostgres:
		pool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:         cfg.PostgresHost,
			DBPort:         cfg.PostgresPort,
			DBName:         cfg.PostgresDBName,
			DBPassword:     params.PostgresPassword,
			TracingEnabled: params.HoneycombTracingEnabled,
		})
		if err != nil {
			return nil, fmt.Errorf("new db pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			log.Warnf("failed to ping db: %s", err)
		}

		psqlRepo := storage.NewPsqlRepo(pool)
		if err := psqlRepo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		dbPool = pool
		repo = psqlRepo
		collectors = append(collectors, db.NewPoolCollector(pool, cfg.PostgresDBName))
	default:
		diskRepo, err := storage.NewDiskRepo(cfg.StorageDir)
		if err != nil {
			return nil, fmt.Errorf("new disk repo: %w", err)
		}
		repo = diskRepo
	}
	log.Infof("storage backend: %s", cfg.StorageBackend)

	promRegistry := metrics.SetupPrometheus(collectors...)
	metricsManager := metrics.NewManager("fitassist", "api", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: params.RedisPassword,
		DB:       0,
	})
	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, serviceName, rdb)
	if err != nil {
		return nil, err
	}

	tracedHttpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   5 * time.Minute,
	}

	runStatuses := pipeline.NewRunStatusStore(rdb, pipeline.DefaultStatusTTL)
	var ingestor *pipeline.Ingestor
	if cfg.GarminApiURL != "" {
		cache, err := garmin.NewCache(cfg.CacheDir, garmin.DefaultMemorySize, metricsManager)
		if err != nil {
			return nil, fmt.Errorf("new fetch cache: %w", err)
		}
		fetcher := garmin.NewFetcher(
			garmin.NewHTTPDataSource(cfg.GarminApiURL, params.GarminToken, tracedHttpClient),
			cache,
			metricsManager,
		)
		ingestor = pipeline.NewIngestor(repo, fetcher, runStatuses, metricsManager)
	} else {
		log.Warnln("garmin_api_url not set, remote fetching disabled")
		ingestor = pipeline.NewIngestor(repo, nil, runStatuses, metricsManager)
	}

	return &Server{
		config:      cfg,
		dbPool:      dbPool,
		repo:        repo,
		redisClient: rdb,
		ingestor:    ingestor,
		runStatuses: runStatuses,
		analyzer:    analysis.NewAnalyzer(repo),
		advisor: advisor.New(advisor.Params{
			UseMock:    params.UseMockAdvisor,
			ModelName:  cfg.ModelName,
			Endpoint:   cfg.ModelEndpoint,
			HTTPClient: tracedHttpClient,
		}),

		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("fitassist-router"))

	handler := NewHandler(s.repo, s.analyzer, s.advisor, s.ingestor, s.runStatuses, s.config.UploadDir)
	handler.SetupRoutes(
		r,
		redis_rate.NewLimiter(s.redisClient),
		s.metricsManager,
		s.config.UploadRateLimitPerMinute,
	)

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "DELETE", "OPTIONS").Name("unknown")

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.CorsAllowedOrigins...))
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) Serve(host string, port int) {
	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      s.routerSetup(),
		Addr:         ipAndPort,
		WriteTimeout: 10 * time.Minute, // advisor calls can be slow
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.InstrumentMetricHandler(
		s.promRegistry,
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")
	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	// uploads still being ingested are canceled, their temp dirs removed
	s.ingestor.Close()
	log.Debugln("ingestor closed")

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
