package causality

import (
	"biosense/domain/biometrics"
	"biosense/domain/core"
)

// PersonalPattern is one domain's fitted dose-response line for an individual
type PersonalPattern struct {
	Domain     ActionDomain          `json:"domain"`
	Metric     biometrics.MetricKind `json:"metric"`
	SampleSize int                   `json:"sample_size"`
	// Sensitivity is the regression slope: expected change in the outcome
	// metric per unit of action magnitude.
	Sensitivity float64 `json:"sensitivity"`
	Intercept   float64 `json:"intercept"`
	// Confidence is 0-1, derived from sample size and residual spread.
	Confidence float64 `json:"confidence"`
	// SafeLimit is the smallest magnitude at which the fitted line crosses
	// the degradation threshold for the metric; nil when the fit never
	// crosses it (non-negative sensitivity).
	SafeLimit *float64 `json:"safe_limit,omitempty"`
}

// Profile is the personalized causal model for one user. It is a pure
// function of the user's resolved-event set: replaying the event log always
// reproduces it exactly, and it carries no state of its own.
type Profile struct {
	UserID      core.UserID       `json:"user_id"`
	TotalEvents int               `json:"total_events"`
	Patterns    []PersonalPattern `json:"patterns"`
	UpdatedAt   core.Timestamp    `json:"updated_at"`
}

// EmptyProfile is the non-personalized fallback consumers use when no
// resolved history exists or the profile store is unreachable.
func EmptyProfile(userID core.UserID) Profile {
	return Profile{UserID: userID, Patterns: []PersonalPattern{}}
}

// Pattern returns the fitted pattern for a domain, if one was emitted
func (p Profile) Pattern(domain ActionDomain) (PersonalPattern, bool) {
	for _, pat := range p.Patterns {
		if pat.Domain == domain {
			return pat, true
		}
	}
	return PersonalPattern{}, false
}

// IsPersonalized reports whether any domain reached the sample threshold
func (p Profile) IsPersonalized() bool {
	return len(p.Patterns) > 0
}
