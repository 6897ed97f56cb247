package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// Init builds the global logger for the given environment and installs
// it via zap.ReplaceGlobals, so the rest of the code logs through
// zap.L().
func Init(env string) error {
	var (
		logger *zap.Logger
		err    error
	)

	switch env {
	case "production":
		logger, err = zap.NewProduction()
	default:
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return fmt.Errorf("zap.New -> %w", err)
	}

	zap.ReplaceGlobals(logger)

	return nil
}
