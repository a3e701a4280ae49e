//go:build integration_test || all_tests

package integration_testing

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/2beens/fitassist/internal/api"
	"github.com/2beens/fitassist/internal/config"

	"github.com/go-redis/redis/v8"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
)

const (
	serverPort = 9100
	serverHost = "127.0.0.1"
	// low enough to hit it within one test
	uploadRateLimit = 2
)

var serverEndpoint = fmt.Sprintf("http://%s:%d", serverHost, serverPort)

func getTestConfig(redisPort, dataDir string) *config.Config {
	return &config.Config{
		Host:                     serverHost,
		Port:                     serverPort,
		LogLevel:                 "debug",
		StorageBackend:           config.StorageBackendDisk,
		StorageDir:               dataDir + "/storage",
		CacheDir:                 dataDir + "/cache",
		UploadDir:                dataDir,
		RedisHost:                "localhost",
		RedisPort:                redisPort,
		UploadRateLimitPerMinute: uploadRateLimit,
		PrometheusMetricsHost:    serverHost,
		PrometheusMetricsPort:    "9101",
		CorsAllowedOrigins:       []string{"http://localhost:3000"},
	}
}

func redisSetup(ctx context.Context, pool *dockertest.Pool) (string, func(), error) {
	redisResource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Name:       "fitassist-smoke-redis",
		Tag:        "6.2",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
	})
	if err != nil {
		return "", nil, fmt.Errorf("run redis: %s", err)
	}
	cleanup := func() {
		_ = redisResource.Close()
	}

	redisPort := redisResource.GetPort("6379/tcp")
	rdb := redis.NewClient(&redis.Options{Addr: net.JoinHostPort("localhost", redisPort)})
	defer rdb.Close()
	if err := pool.Retry(func() error {
		return rdb.Ping(ctx).Err()
	}); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("connect to redis: %w", err)
	}

	return redisPort, cleanup, nil
}

// serverSetup starts the api server with the disk storage backend,
// so only redis runs in docker.
func serverSetup(ctx context.Context, dataDir string) (*api.Server, func(), error) {
	// uses a sensible default on windows (tcp/http) and linux/osx (socket)
	pool, err := dockertest.NewPool("")
	if err != nil {
		return nil, nil, fmt.Errorf("could not create new dockertest pool: %s", err)
	}

	// uses pool to try to connect to Docker
	if err = pool.Client.Ping(); err != nil {
		return nil, nil, fmt.Errorf("could not ping dockertest pool: %s", err)
	}

	redisPort, redisCleanup, err := redisSetup(ctx, pool)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to setup redis: %s", err.Error())
	}

	cfg := getTestConfig(redisPort, dataDir)
	server, err := api.NewServer(
		ctx,
		api.NewServerParams{
			Config:                  cfg,
			RedisPassword:           "",
			HoneycombTracingEnabled: false,
			UseMockAdvisor:          true,
		},
	)
	if err != nil {
		redisCleanup()
		return nil, nil, err
	}

	server.Serve(cfg.Host, cfg.Port)

	if err := pool.Retry(func() error {
		resp, err := http.Get(serverEndpoint + "/")
		if err != nil {
			return err
		}
		return resp.Body.Close()
	}); err != nil {
		server.GracefulShutdown()
		redisCleanup()
		return nil, nil, fmt.Errorf("server not reachable: %w", err)
	}

	return server, func() {
		server.GracefulShutdown()
		redisCleanup()
	}, nil
}
