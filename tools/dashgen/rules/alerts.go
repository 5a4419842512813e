package rules

// AlertRules returns a PrometheusRule CR containing alert rules for
// relister operational monitoring.
func AlertRules() PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata: PrometheusRuleMetadata{
			Name: "relister-alerts",
			Labels: map[string]string{
				"prometheus": "system-rules-prometheus",
			},
		},
		Spec: PrometheusRuleSpec{
			Groups: []RuleGroup{
				{
					Name: "relister-alerts",
					Rules: []Rule{
						{
							Alert: "RelisterDown",
							Expr:  `absent(up{job="relister"})`,
							For:   "2m",
							Labels: map[string]string{
								"severity": "critical",
							},
							Annotations: map[string]string{
								"summary":     "Relister is down",
								"description": "The relister job has been absent for more than 2 minutes.",
							},
						},
						{
							Alert: "RelisterReadinessDown",
							Expr:  `relister_readyz_up == 0`,
							For:   "2m",
							Labels: map[string]string{
								"severity": "critical",
							},
							Annotations: map[string]string{
								"summary":     "Relister readiness check is failing",
								"description": "The readiness probe has been reporting not-ready for more than 2 minutes.",
							},
						},
						{
							Alert: "RelisterHighErrorRate",
							Expr:  `relister:http_errors:rate5m / relister:http_requests:rate5m > 0.05`,
							For:   "5m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "High HTTP error rate on Relister",
								"description": "More than 5% of HTTP requests are returning 5xx errors over the last 5 minutes.",
							},
						},
						{
							Alert: "RelisterGenerationFailures",
							Expr:  `relister:generation_failures:rate5m > 0.1`,
							For:   "5m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "Item generation failure rate is elevated",
								"description": "Generation failures are occurring at more than 0.1/s for the last 5 minutes.",
							},
						},
						{
							Alert: "RelisterVisionQuotaHigh",
							Expr:  `relister_vision_daily_usage > 800`,
							For:   "5m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "Vision backend daily usage is above 80% of the quota",
								"description": "Daily vision call usage has exceeded 800 calls (limit is 1000).",
							},
						},
						{
							Alert: "RelisterVisionLimitReached",
							Expr:  `increase(relister_vision_daily_limit_hits_total[5m]) > 0`,
							For:   "0m",
							Labels: map[string]string{
								"severity": "critical",
							},
							Annotations: map[string]string{
								"summary":     "Vision backend daily limit has been reached",
								"description": "The vision API daily quota has been exhausted. Generation is paused until reset.",
							},
						},
						{
							Alert: "RelisterStuckItems",
							Expr:  `increase(relister_sweep_demotions_total[30m]) > 0`,
							For:   "0m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "Stuck items were demoted by the sweeper",
								"description": "One or more items sat in the analyzing state past the stuck threshold and were moved to needs_attention.",
							},
						},
					},
				},
			},
		},
	}
}
