package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// Init replaces the global zap logger. Development environments get the
// human readable console encoder, everything else the production JSON one.
func Init(environment string) error {
	var (
		l   *zap.Logger
		err error
	)

	switch environment {
	case "development", "local", "test":
		l, err = zap.NewDevelopment()
	default:
		l, err = zap.NewProduction()
	}
	if err != nil {
		return fmt.Errorf("failed to build zap logger -> %w", err)
	}

	zap.ReplaceGlobals(l)
	zap.L().Info("logger initialized", zap.String("environment", environment))

	return nil
}
