package app

import (
	"biosense/domain/biometrics"
	"biosense/domain/causality"
	"biosense/domain/core"
	"biosense/internal/analysis"
)

// AnalyzerConfig exposes the profile-building thresholds as tunables
type AnalyzerConfig struct {
	Regression analysis.RegressionConfig
	// DegradationThresholds define, per metric, the drop considered a
	// meaningful degradation when deriving safe limits.
	DegradationThresholds map[biometrics.MetricKind]float64
}

// DefaultAnalyzerConfig uses a 5-point drop as meaningful degradation on
// every score metric.
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		Regression: analysis.DefaultRegressionConfig(),
		DegradationThresholds: map[biometrics.MetricKind]float64{
			biometrics.MetricSleep:     5,
			biometrics.MetricReadiness: 5,
			biometrics.MetricHRV:       5,
		},
	}
}

// CausalityAnalyzer fits per-domain dose-response lines from resolved
// events. BuildProfile is pure and deterministic: the same resolved-event
// set always produces the same patterns, so a profile can be reproduced by
// replaying the event log at any time.
type CausalityAnalyzer struct {
	cfg AnalyzerConfig
	now func() core.Timestamp
}

// NewCausalityAnalyzer creates an analyzer with the given thresholds
func NewCausalityAnalyzer(cfg AnalyzerConfig) *CausalityAnalyzer {
	if cfg.Regression.MinSamples <= 0 {
		cfg.Regression = analysis.DefaultRegressionConfig()
	}
	return &CausalityAnalyzer{cfg: cfg, now: core.Now}
}

// BuildProfile groups resolved events by domain, forms (magnitude, delta)
// pairs against each domain's primary metric, and emits a pattern for every
// domain that clears the minimum-sample threshold. Domains below the
// threshold are absent from the profile rather than guessed.
func (a *CausalityAnalyzer) BuildProfile(userID core.UserID, resolved []causality.Event) causality.Profile {
	profile := causality.Profile{
		UserID:      userID,
		TotalEvents: len(resolved),
		Patterns:    []causality.PersonalPattern{},
		UpdatedAt:   a.now(),
	}

	// Iterate domains in canonical order so pattern ordering is stable
	for _, domain := range causality.Domains() {
		var xs, ys []float64
		for _, event := range resolved {
			if event.Domain != domain || event.Status != causality.StatusResolved {
				continue
			}
			delta, ok := event.PrimaryDelta()
			if !ok {
				// The outcome metric was unmeasured on one side; the
				// sample carries no usable signal for this domain.
				continue
			}
			xs = append(xs, event.ActionMagnitude)
			ys = append(ys, delta)
		}

		if len(xs) < a.cfg.Regression.MinSamples {
			continue
		}

		fit, err := analysis.LinearRegression(xs, ys)
		if err != nil {
			// Degenerate sample (e.g. every magnitude identical): a
			// reportable absence, not a failure.
			continue
		}

		metric := domain.PrimaryMetric()
		profile.Patterns = append(profile.Patterns, causality.PersonalPattern{
			Domain:      domain,
			Metric:      metric,
			SampleSize:  fit.N,
			Sensitivity: fit.Slope,
			Intercept:   fit.Intercept,
			Confidence:  analysis.Confidence(fit, a.cfg.Regression),
			SafeLimit:   analysis.SafeLimit(fit, a.cfg.DegradationThresholds[metric]),
		})
	}

	return profile
}
