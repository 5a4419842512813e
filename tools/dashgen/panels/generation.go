package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// GenerationAttemptRate returns a timeseries panel showing item generation
// attempts per minute.
func GenerationAttemptRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Attempts / min").
		Description("Rate of item generation attempts per minute").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(`relister:generation_attempts:rate5m * 60`, "attempts/min", "A")).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// GenerationFailureRate returns a timeseries panel showing generation
// failures per minute broken down by cause.
func GenerationFailureRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Failures / min").
		Description("Rate of generation failures per minute, by cause").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			`sum(rate(relister_generation_failures_total{job="relister"}[5m])) by (cause) * 60`,
			"{{cause}}", "A",
		)).
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenYellowRed(0.1, 1)).
		ColorScheme(ColorSchemeThresholds()).
		DrawStyle(common.GraphDrawStyleLine)
}

// GenerationDuration returns a timeseries panel showing p50 and p95
// per-candidate generation latencies.
func GenerationDuration() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Generation Duration").
		Description("Per-candidate generation duration percentiles").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			`histogram_quantile(0.50, sum(rate(relister_generation_duration_seconds_bucket{job="relister"}[5m])) by (le))`,
			"p50",
			"A",
		)).
		WithTarget(PromQuery(
			`histogram_quantile(0.95, sum(rate(relister_generation_duration_seconds_bucket{job="relister"}[5m])) by (le))`,
			"p95",
			"B",
		)).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// BatchDuration returns a timeseries panel showing the p95 bulk generation
// batch duration.
func BatchDuration() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Batch Duration (p95)").
		Description("95th percentile bulk generation batch duration").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			`histogram_quantile(0.95, sum(rate(relister_batch_duration_seconds_bucket{job="relister"}[5m])) by (le))`,
			"p95",
			"A",
		)).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}
