// Package validate checks generated dashboards and rule files against the
// set of metrics the server actually exports. It parses every PromQL
// expression and flags references to unknown metric names, which catches
// dashboard typos and metrics that were renamed or removed.
package validate

import (
	"fmt"
	"strings"

	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	"github.com/grafana/grafana-foundation-sdk/go/prometheus"
	"github.com/prometheus/prometheus/promql/parser"

	"github.com/donaldgifford/relister/tools/dashgen/rules"
)

// Result collects validation errors and warnings.
type Result struct {
	Errors   []string
	Warnings []string
}

// Ok reports whether validation produced no errors.
func (r Result) Ok() bool {
	return len(r.Errors) == 0
}

func (r *Result) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Result) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Dashboard validates every Prometheus query target in the dashboard:
// each expression must parse as PromQL and reference only known metrics.
func Dashboard(dash dashboard.Dashboard, known map[string]bool) Result {
	var res Result
	for _, p := range dash.Panels {
		if p.Panel != nil {
			checkPanel(*p.Panel, known, &res)
		}
		if p.RowPanel != nil {
			for _, inner := range p.RowPanel.Panels {
				checkPanel(inner, known, &res)
			}
		}
	}
	return res
}

// Rules validates every expression in a PrometheusRule CR the same way.
func Rules(cr rules.PrometheusRule, known map[string]bool) Result {
	var res Result
	for _, group := range cr.Spec.Groups {
		for _, rule := range group.Rules {
			name := rule.Record
			if name == "" {
				name = rule.Alert
			}
			checkExpr(fmt.Sprintf("rule %q", name), rule.Expr, known, &res)
		}
	}
	return res
}

func checkPanel(p dashboard.Panel, known map[string]bool, res *Result) {
	title := "untitled"
	if p.Title != nil && *p.Title != "" {
		title = *p.Title
	}
	if len(p.Targets) == 0 {
		res.warnf("panel %q has no query targets", title)
		return
	}
	for _, target := range p.Targets {
		var expr string
		switch q := target.(type) {
		case prometheus.Dataquery:
			expr = q.Expr
		case *prometheus.Dataquery:
			expr = q.Expr
		default:
			res.warnf("panel %q has a non-Prometheus target", title)
			continue
		}
		checkExpr(fmt.Sprintf("panel %q", title), expr, known, res)
	}
}

func checkExpr(where, expr string, known map[string]bool, res *Result) {
	if strings.TrimSpace(expr) == "" {
		res.errorf("%s: empty PromQL expression", where)
		return
	}
	node, err := parser.ParseExpr(expr)
	if err != nil {
		res.errorf("%s: invalid PromQL %q: %v", where, expr, err)
		return
	}
	parser.Inspect(node, func(n parser.Node, _ []parser.Node) error {
		vs, ok := n.(*parser.VectorSelector)
		if !ok || vs.Name == "" {
			return nil
		}
		if !knownMetric(vs.Name, known) {
			res.errorf("%s: unknown metric %q", where, vs.Name)
		}
		return nil
	})
}

// knownMetric checks a metric name against the known set, allowing the
// histogram series suffixes Prometheus appends to a base histogram name.
func knownMetric(name string, known map[string]bool) bool {
	if known[name] {
		return true
	}
	for _, suffix := range []string{"_bucket", "_sum", "_count"} {
		if base, ok := strings.CutSuffix(name, suffix); ok && known[base] {
			return true
		}
	}
	return false
}
