package app

import (
	"context"
	"time"

	"biosense/domain/biometrics"
	"biosense/domain/causality"
	"biosense/domain/core"
	"biosense/internal"
	"biosense/internal/analysis"
)

// Intent is an action-intent tuple handed over by the external
// natural-language/command router. Magnitude carries the raw declared
// quantity (drink count, cups, session intensity); DrinkType refines
// alcohol intents.
type Intent struct {
	UserID     core.UserID              `json:"user_id"`
	Domain     causality.ActionDomain   `json:"domain"`
	Magnitude  float64                  `json:"magnitude"`
	DrinkType  string                   `json:"drink_type,omitempty"`
	OccurredAt core.Timestamp           `json:"occurred_at"`
}

// CaptureConfig holds the per-user context capture normalizes against
type CaptureConfig struct {
	// SleepHour/SleepMinute is the declared habitual sleep time used to
	// weight caffeine intents by time-of-day proximity.
	SleepHour   int
	SleepMinute int
}

// DefaultCaptureConfig declares a 23:00 habitual sleep time
func DefaultCaptureConfig() CaptureConfig {
	return CaptureConfig{SleepHour: 23, SleepMinute: 0}
}

// CaptureService turns action intents into pending causality events.
// Magnitudes are normalized at capture time (standard drink units, caffeine
// time-of-day weighting), so the event log alone reproduces every profile.
// Capture never waits on resolution of earlier events.
type CaptureService struct {
	events eventPutter
	locks  *UserLocks
	cfg    CaptureConfig
	log    *internal.Logger
}

type eventPutter interface {
	PutEvent(ctx context.Context, event causality.Event) error
}

// NewCaptureService creates a capture service over an event store
func NewCaptureService(events eventPutter, locks *UserLocks, cfg CaptureConfig, log *internal.Logger) *CaptureService {
	return &CaptureService{events: events, locks: locks, cfg: cfg, log: log}
}

// Capture records an action taken while in the given biometric state. The
// returned event is pending; its outcome arrives with later biometric data.
func (s *CaptureService) Capture(ctx context.Context, intent Intent, before biometrics.Snapshot) (causality.Event, error) {
	magnitude := s.normalize(intent)

	occurredAt := intent.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = core.Now()
	}

	event, err := causality.NewEvent(intent.UserID, intent.Domain, magnitude, occurredAt, before)
	if err != nil {
		return causality.Event{}, err
	}

	release := s.locks.acquire(intent.UserID)
	defer release()

	if err := s.events.PutEvent(ctx, event); err != nil {
		return causality.Event{}, err
	}
	s.log.Debug("captured %s event %s for user %s (magnitude %.2f)",
		intent.Domain, event.ID, intent.UserID, magnitude)
	return event, nil
}

func (s *CaptureService) normalize(intent Intent) float64 {
	switch intent.Domain {
	case causality.DomainAlcohol:
		return analysis.AlcoholMagnitude(intent.DrinkType, intent.Magnitude)
	case causality.DomainCaffeine:
		consumedAt := intent.OccurredAt.Time()
		if consumedAt.IsZero() {
			consumedAt = time.Now()
		}
		sleepAt := analysis.SleepTimeOn(consumedAt, s.cfg.SleepHour, s.cfg.SleepMinute)
		return analysis.CaffeineMagnitude(intent.Magnitude, consumedAt, sleepAt)
	default:
		return intent.Magnitude
	}
}
