// Command dashgen generates the Grafana dashboard and Prometheus rule
// artifacts committed under deploy/. Run it after changing any metric,
// panel, or rule definition so the committed files stay in sync.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/donaldgifford/relister/tools/dashgen/dashboards"
	"github.com/donaldgifford/relister/tools/dashgen/rules"
	"github.com/donaldgifford/relister/tools/dashgen/validate"
)

// generatedHeader marks YAML artifacts as machine-generated.
const generatedHeader = "# Code generated by tools/dashgen. DO NOT EDIT.\n"

func main() {
	validateOnly := flag.Bool("validate", false, "validate generated artifacts without writing files")
	outputDir := flag.String("output", "", "override output directory")
	flag.Parse()

	cfg := DefaultConfig()
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, *validateOnly); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg Config, validateOnly bool) error {
	dash, err := dashboards.BuildOverview().Build()
	if err != nil {
		return fmt.Errorf("building overview dashboard: %w", err)
	}

	recording := rules.RecordingRules()
	alerts := rules.AlertRules()

	for _, check := range []struct {
		name   string
		result validate.Result
	}{
		{"dashboard", validate.Dashboard(dash, KnownMetrics)},
		{"recording rules", validate.Rules(recording, KnownMetrics)},
		{"alert rules", validate.Rules(alerts, KnownMetrics)},
	} {
		for _, w := range check.result.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %s: %s\n", check.name, w)
		}
		if !check.result.Ok() {
			return fmt.Errorf("%s validation failed: %v", check.name, check.result.Errors)
		}
	}

	if validateOnly {
		fmt.Println("validation passed")
		return nil
	}

	if cfg.DashboardEnabled {
		data, err := json.MarshalIndent(dash, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling dashboard: %w", err)
		}
		data = append(data, '\n')
		path := filepath.Join(cfg.OutputDir, "grafana", "data", "relister-overview.json")
		if err := writeArtifact(path, data); err != nil {
			return err
		}
	}

	if cfg.RulesEnabled {
		for _, art := range []struct {
			name string
			cr   rules.PrometheusRule
		}{
			{"relister-recording-rules.yaml", recording},
			{"relister-alerts.yaml", alerts},
		} {
			data, err := yaml.Marshal(art.cr)
			if err != nil {
				return fmt.Errorf("marshaling %s: %w", art.name, err)
			}
			path := filepath.Join(cfg.OutputDir, "prometheus", art.name)
			if err := writeArtifact(path, append([]byte(generatedHeader), data...)); err != nil {
				return err
			}
		}
	}

	return nil
}

func writeArtifact(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
