// Package dashboards assembles Grafana dashboard definitions from panel builders.
package dashboards

import (
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"

	"github.com/donaldgifford/relister/tools/dashgen/panels"
)

// BuildOverview constructs the Relister Overview dashboard with all metric rows.
func BuildOverview() *dashboard.DashboardBuilder {
	b := dashboard.NewDashboardBuilder("Relister Overview").
		Uid("relister-overview").
		Tags([]string{"relister"}).
		Refresh("30s").
		Time("now-6h", "now").
		Timezone("browser").
		Editable().
		Tooltip(dashboard.DashboardCursorSyncCrosshair).
		WithVariable(datasourceVar())

	// Row 1: Overview.
	b.WithRow(dashboard.NewRowBuilder("Overview").
		WithPanel(panels.HealthzStat()).
		WithPanel(panels.ReadyzStat()).
		WithPanel(panels.QuotaGauge()).
		WithPanel(panels.UptimeStat()))

	// Row 2: HTTP.
	b.WithRow(dashboard.NewRowBuilder("HTTP").
		WithPanel(panels.RequestRate()).
		WithPanel(panels.LatencyPercentiles()).
		WithPanel(panels.ErrorRate()))

	// Row 3: Generation.
	b.WithRow(dashboard.NewRowBuilder("Generation").
		WithPanel(panels.GenerationAttemptRate()).
		WithPanel(panels.GenerationFailureRate()).
		WithPanel(panels.GenerationDuration()).
		WithPanel(panels.BatchDuration()))

	// Row 4: Vision.
	b.WithRow(dashboard.NewRowBuilder("Vision").
		WithPanel(panels.VisionCallsRate()).
		WithPanel(panels.VisionCallLatency()).
		WithPanel(panels.VisionDailyUsage()).
		WithPanel(panels.VisionLimitHits()))

	// Row 5: Sweep.
	b.WithRow(dashboard.NewRowBuilder("Sweep").
		WithPanel(panels.SweepRuns()).
		WithPanel(panels.SweepDemotions()))

	return b
}

func datasourceVar() *dashboard.DatasourceVariableBuilder {
	return dashboard.NewDatasourceVariableBuilder("datasource").
		Label("Datasource").
		Type("prometheus")
}
