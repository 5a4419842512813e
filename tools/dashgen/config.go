package main

import "errors"

// KnownMetrics is the set of metric names exported by relister
// plus recording rule names referenced in dashboards and alerts.
var KnownMetrics = map[string]bool{
	// HTTP metrics.
	"relister_http_request_duration_seconds": true,
	"relister_http_requests_total":           true,

	// Health metrics.
	"relister_healthz_up": true,
	"relister_readyz_up":  true,

	// Generation metrics.
	"relister_generation_attempts_total":   true,
	"relister_generation_failures_total":   true,
	"relister_generation_duration_seconds": true,
	"relister_batch_duration_seconds":      true,

	// Vision backend metrics.
	"relister_vision_calls_total":            true,
	"relister_vision_call_duration_seconds":  true,
	"relister_vision_daily_usage":            true,
	"relister_vision_daily_limit_hits_total": true,

	// Sweep metrics.
	"relister_sweep_demotions_total": true,
	"relister_sweep_runs_total":      true,

	// Recording rules.
	"relister:http_requests:rate5m":       true,
	"relister:http_errors:rate5m":         true,
	"relister:generation_attempts:rate5m": true,
	"relister:generation_failures:rate5m": true,
	"relister:vision_calls:rate5m":        true,
	"relister:sweep_demotions:rate5m":     true,

	// Standard Prometheus metrics referenced in dashboards.
	"up":                         true,
	"process_start_time_seconds": true,
}

// Config controls which artifacts the generator produces and where they go.
type Config struct {
	OutputDir        string
	DashboardEnabled bool
	RulesEnabled     bool
}

// DefaultConfig returns a Config that generates all artifacts into ../../deploy
// (relative to tools/dashgen/).
func DefaultConfig() Config {
	return Config{
		OutputDir:        "../../deploy",
		DashboardEnabled: true,
		RulesEnabled:     true,
	}
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output directory must be set")
	}
	if !c.DashboardEnabled && !c.RulesEnabled {
		return errors.New("at least one of dashboard or rules must be enabled")
	}
	return nil
}
