// Package clilog builds the zap.Logger used by cmd/calcore.
package clilog

import "go.uber.org/zap"

// New builds a logger suited to CLI use: development encoding (human
// readable, colorized level names) when verbose is set, production JSON
// encoding otherwise so calcore's own logs can be piped into log
// aggregation without getting mixed into the tool's stdout output.
func New(verbose bool) (*zap.Logger, error) {
	if verbose {
		cfg := zap.NewDevelopmentConfig()
		cfg.DisableStacktrace = true
		return cfg.Build()
	}
	cfg := zap.NewProductionConfig()
	cfg.DisableStacktrace = true
	return cfg.Build()
}
