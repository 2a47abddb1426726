package app

import (
	"github.com/filecanvas/filecanvas-backend/internal/platform/logger"
	"github.com/filecanvas/filecanvas-backend/internal/utils"
)

type Config struct {
	HTTPAddr         string
	LogMode          string
	SearchMaxResults int

	// RedisAddr enables the cross-instance SSE bus when set.
	RedisAddr string

	OtelServiceName string
	OtelEnvironment string
	OtelVersion     string
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		HTTPAddr:         utils.GetEnv("HTTP_ADDR", ":8080", log),
		LogMode:          utils.GetEnv("LOG_MODE", "development", log),
		SearchMaxResults: utils.GetEnvAsInt("SEARCH_MAX_RESULTS", 100, log),
		RedisAddr:        utils.GetEnv("REDIS_ADDR", "", log),
		OtelServiceName:  utils.GetEnv("OTEL_SERVICE_NAME", "filecanvas-backend", log),
		OtelEnvironment:  utils.GetEnv("OTEL_ENVIRONMENT", "development", log),
		OtelVersion:      utils.GetEnv("SERVICE_VERSION", "", log),
	}
}
