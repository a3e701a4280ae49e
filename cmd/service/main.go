package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/2beens/fitassist/internal/api"
	"github.com/2beens/fitassist/internal/config"
	"github.com/2beens/fitassist/internal/logging"
	"github.com/2beens/fitassist/pkg"

	log "github.com/sirupsen/logrus"
)

func main() {
	fmt.Println("starting ...")

	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	flag.Parse()

	log.Warnf("---->> running in [%s] environment", *env)

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToStdout:      cfg.LogToStdout,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    cfg.LogFormatJSON,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        os.Getenv("SENTRY_DSN"),
		SentryServerName: "fitassist-api",
	})

	log.Debugf("using port: %d", cfg.Port)
	log.Debugf("using server logs path: [%s]", cfg.LogsPath)

	redisPassword := os.Getenv("FITASSIST_REDIS_PASS")
	if redisPassword == "" {
		log.Errorf("redis password not set. use FITASSIST_REDIS_PASS")
	}

	postgresPassword := os.Getenv("FITASSIST_POSTGRES_PASS")
	if cfg.StorageBackend == config.StorageBackendPostgres && postgresPassword == "" {
		log.Errorf("postgres password not set. use FITASSIST_POSTGRES_PASS")
	}

	garminToken := os.Getenv("FITASSIST_GARMIN_TOKEN")
	if cfg.GarminApiURL != "" && garminToken == "" {
		log.Warnln("garmin api token not set. use FITASSIST_GARMIN_TOKEN")
	}

	useMockAdvisor := resolveUseMockAdvisor(cfg.UseMockAdvisor, os.Getenv("FITASSIST_USE_MOCK_ADVISOR"))
	log.Infof("advisor: mock=%t, model=%s", useMockAdvisor, cfg.ModelName)

	honeycombEnabled := os.Getenv("HONEYCOMB_ENABLED") == "true"
	if honeycombEnabled {
		if honeycombApiKey := os.Getenv("HONEYCOMB_API_KEY"); honeycombApiKey == "" {
			log.Warnln("HONEYCOMB_API_KEY env var not set")
		}
	} else {
		log.Debugln("honeycomb tracing disabled")
	}

	for _, dir := range []string{cfg.UploadDir, cfg.CacheDir} {
		if err := pkg.EnsureDir(dir); err != nil {
			log.Fatalf("ensure dir %s: %s", dir, err)
		}
	}

	chOsInterrupt := make(chan os.Signal, 1)
	signal.Notify(chOsInterrupt, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())

	server, err := api.NewServer(
		ctx,
		api.NewServerParams{
			Config:                  cfg,
			RedisPassword:           redisPassword,
			PostgresPassword:        postgresPassword,
			GarminToken:             garminToken,
			HoneycombTracingEnabled: honeycombEnabled,
			UseMockAdvisor:          useMockAdvisor,
		},
	)
	if err != nil {
		log.Fatalf("new server: %s", err)
	}

	server.Serve(cfg.Host, cfg.Port)

	receivedSig := <-chOsInterrupt
	log.Warnf("signal [%s] received, killing everything ...", receivedSig)
	cancel()

	server.GracefulShutdown()
}

// resolveUseMockAdvisor lets FITASSIST_USE_MOCK_ADVISOR override the config flag.
func resolveUseMockAdvisor(configured bool, envValue string) bool {
	if envValue == "" {
		return configured
	}
	v, err := strconv.ParseBool(envValue)
	if err != nil {
		log.Warnf("ignoring invalid FITASSIST_USE_MOCK_ADVISOR value [%s]", envValue)
		return configured
	}
	return v
}
