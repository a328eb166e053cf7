package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// Init replaces zap's global logger: JSON production logging in
// "production", console development logging otherwise.
func Init(environment string) error {
	var (
		l   *zap.Logger
		err error
	)

	if environment == "production" {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return fmt.Errorf("zap.New -> %w", err)
	}

	zap.ReplaceGlobals(l)

	return nil
}
