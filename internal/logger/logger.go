// Package logger builds the process-wide zap logger for facturad.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/chapinas/facturacloud/internal/config"
)

// New builds the structured logger from the application config. Every entry
// carries the service name and version so logs aggregated across deployments
// stay separable.
func New(appCfg config.Config) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	zcfg.Encoding = "json"
	zcfg.EncoderConfig.TimeKey = "ts"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	level := appCfg.LogLevel
	if level == "" {
		level = "info"
	}
	if err := zcfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	logger, err := zcfg.Build(zap.Fields(
		zap.String("service", appCfg.AppName),
		zap.String("version", appCfg.AppVersion),
	))
	if err != nil {
		return nil, err
	}

	zap.ReplaceGlobals(logger)
	return logger, nil
}
