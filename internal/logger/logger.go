// Package logger builds the zap logger shared by the CLI and the server.
package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// New returns a production logger, or a development logger when verbose
// is set.
func New(verbose bool) (*zap.Logger, error) {
	var (
		log *zap.Logger
		err error
	)
	if verbose {
		log, err = zap.NewDevelopment()
	} else {
		cfg := zap.NewProductionConfig()
		cfg.DisableStacktrace = true
		log, err = cfg.Build()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return log, nil
}
