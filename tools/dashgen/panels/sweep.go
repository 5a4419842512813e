package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// SweepRuns returns a timeseries panel showing stuck-item sweep runs per hour.
func SweepRuns() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Sweep Runs / hour").
		Description("Rate of stuck-item sweep executions per hour").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			`rate(relister_sweep_runs_total{job="relister"}[1h]) * 3600`,
			"runs/h", "A",
		)).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// SweepDemotions returns a stat panel showing items demoted out of the
// analyzing state in the past 24 hours.
func SweepDemotions() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Demotions (24h)").
		Description("Stuck items demoted to needs_attention in the last 24 hours").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(`increase(relister_sweep_demotions_total{job="relister"}[24h])`, "", "A")).
		Thresholds(ThresholdsGreenYellowRed(1, 5)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeArea)
}
