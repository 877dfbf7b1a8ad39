package app

import (
	"context"

	"biosense/domain/biometrics"
	"biosense/domain/core"
	"biosense/internal"
	"biosense/ports"
)

// IntakeService is the glue between the external biometric provider and the
// causal pipeline: it records a fresh snapshot into history and triggers an
// opportunistic resolution scan for that user. Intake is the only place
// resolution is initiated; there is no schedule.
type IntakeService struct {
	history  ports.SnapshotHistory
	resolver *OutcomeResolver
	log      *internal.Logger
}

// NewIntakeService creates an intake service
func NewIntakeService(history ports.SnapshotHistory, resolver *OutcomeResolver, log *internal.Logger) *IntakeService {
	return &IntakeService{history: history, resolver: resolver, log: log}
}

// Ingest records a snapshot and scans the user's pending events against it
func (s *IntakeService) Ingest(ctx context.Context, userID core.UserID, snapshot biometrics.Snapshot) (ResolveResult, error) {
	if err := snapshot.Validate(); err != nil {
		return ResolveResult{}, err
	}
	if err := s.history.PutSnapshot(ctx, userID, snapshot); err != nil {
		return ResolveResult{}, err
	}

	result, err := s.resolver.Resolve(ctx, userID, snapshot)
	if err != nil {
		return result, err
	}
	if result.Resolved > 0 || result.Expired > 0 {
		s.log.Info("snapshot %s for user %s: %d resolved, %d expired, %d still pending",
			snapshot.Date, userID, result.Resolved, result.Expired, result.Skipped)
	}
	return result, nil
}

// FetchAndIngest pulls the latest snapshot from the provider abstraction
// and ingests it. Provider failures surface to the caller; pending events
// simply wait for the next successful fetch.
func (s *IntakeService) FetchAndIngest(ctx context.Context, userID core.UserID, provider ports.BiometricProvider, token string) (ResolveResult, error) {
	snapshot, err := provider.Fetch(ctx, token)
	if err != nil {
		return ResolveResult{}, err
	}
	return s.Ingest(ctx, userID, snapshot)
}
