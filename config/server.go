package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Addr               string
	AppEnv             string
	JwksUrl            string
	WorkerPoolSize     int
	RateLimitPerSecond float64
	RateLimitBurst     int
	ResultTtl          time.Duration
}

func GetServerConfig(src *Source) (*ServerConfig, error) {
	workerPoolSize, err := src.GetInt("WORKER_POOL_SIZE", 16)
	if err != nil {
		return nil, err
	}
	if workerPoolSize <= 0 {
		return nil, fmt.Errorf("WORKER_POOL_SIZE must be positive")
	}

	rateLimit, err := src.GetFloat("RATE_LIMIT_PER_SECOND", 2)
	if err != nil {
		return nil, err
	}

	rateLimitBurst, err := src.GetInt("RATE_LIMIT_BURST", 4)
	if err != nil {
		return nil, err
	}

	resultTtl, err := src.GetDuration("RESULT_TTL", 30*time.Minute)
	if err != nil {
		return nil, err
	}

	return &ServerConfig{
		Addr:               src.GetOrDefault("SERVER_ADDR", ":8080"),
		AppEnv:             src.GetOrDefault("APP_ENV", "production"),
		JwksUrl:            src.Get("JWKS_URL"),
		WorkerPoolSize:     workerPoolSize,
		RateLimitPerSecond: rateLimit,
		RateLimitBurst:     rateLimitBurst,
		ResultTtl:          resultTtl,
	}, nil
}
