package app

import (
	"context"

	"biosense/domain/biometrics"
	"biosense/domain/causality"
	"biosense/domain/core"
	"biosense/internal"
	"biosense/ports"

	"golang.org/x/sync/errgroup"
)

// ResolverConfig holds the causality lifecycle horizons in calendar days
type ResolverConfig struct {
	// ResolutionDays is how many calendar days after the action a snapshot
	// must be dated to count as the event's outcome.
	ResolutionDays int
	// ExpiryDays is how many calendar days a pending event waits for data
	// before it is marked expired, terminally, and excluded from analysis.
	ExpiryDays int
	// Sweep concurrency for multi-user resolution.
	MaxParallelUsers int
}

// DefaultResolverConfig resolves at +1 day and expires after 7
func DefaultResolverConfig() ResolverConfig {
	return ResolverConfig{ResolutionDays: 1, ExpiryDays: 7, MaxParallelUsers: 8}
}

// ResolveResult summarizes one resolution scan
type ResolveResult struct {
	Resolved int
	Expired  int
	Skipped  int
}

// OutcomeResolver completes pending causality events when fresh biometric
// data arrives. Resolution is pull-based: nothing pushes outcomes at the
// store; a scan runs whenever a new snapshot shows up, which tolerates
// arbitrary gaps between action and data, multiple pending events per user,
// and re-delivery of the same snapshot (terminal events are skipped, so
// re-running a scan is a no-op).
type OutcomeResolver struct {
	events   ports.EventStore
	analyzer *CausalityAnalyzer
	profiles *ProfileCache
	locks    *UserLocks
	cfg      ResolverConfig
	log      *internal.Logger
}

// NewOutcomeResolver creates a resolver that rebuilds profiles on completion
func NewOutcomeResolver(events ports.EventStore, analyzer *CausalityAnalyzer, profiles *ProfileCache, locks *UserLocks, cfg ResolverConfig, log *internal.Logger) *OutcomeResolver {
	if cfg.ResolutionDays <= 0 {
		cfg = DefaultResolverConfig()
	}
	return &OutcomeResolver{
		events:   events,
		analyzer: analyzer,
		profiles: profiles,
		locks:    locks,
		cfg:      cfg,
		log:      log,
	}
}

// Resolve scans the user's pending events against a newly arrived snapshot.
// Events past the expiry horizon are terminally expired; events whose
// resolution horizon the snapshot satisfies are completed with an outcome
// delta. If anything resolved, the user's profile is recomputed from the
// full resolved-event set and atomically replaced.
func (r *OutcomeResolver) Resolve(ctx context.Context, userID core.UserID, snapshot biometrics.Snapshot) (ResolveResult, error) {
	release := r.locks.acquire(userID)
	defer release()

	var result ResolveResult

	pending, err := r.events.GetPendingEvents(ctx, userID)
	if err != nil {
		return result, err
	}

	day := snapshot.Date
	for _, event := range pending {
		switch {
		case event.ExpiredBy(day, r.cfg.ExpiryDays):
			if err := r.events.MarkExpired(ctx, event.ID); err != nil {
				return result, err
			}
			result.Expired++
			r.log.Info("expired event %s for user %s (no snapshot within %d days)",
				event.ID, userID, r.cfg.ExpiryDays)

		case event.ResolvableBy(day, r.cfg.ResolutionDays):
			outcome := causality.Outcome{
				After:      snapshot,
				Delta:      biometrics.DeltaBetween(snapshot, event.Before),
				ResolvedAt: core.Now(),
			}
			if err := r.events.MarkResolved(ctx, event.ID, outcome); err != nil {
				return result, err
			}
			result.Resolved++

		default:
			// Snapshot predates the event's resolution horizon; the
			// event stays pending for a later scan.
			result.Skipped++
		}
	}

	if result.Resolved > 0 {
		if err := r.rebuildProfile(ctx, userID); err != nil {
			return result, err
		}
	}
	return result, nil
}

// ResolveAll fans a batch of per-user snapshots out across users. Users are
// independent, so they run in parallel; each user's scan stays serialized
// behind that user's lock.
func (r *OutcomeResolver) ResolveAll(ctx context.Context, snapshots map[core.UserID]biometrics.Snapshot) (ResolveResult, error) {
	var (
		g, gctx = errgroup.WithContext(ctx)
		results = make(chan ResolveResult, len(snapshots))
	)
	g.SetLimit(r.cfg.MaxParallelUsers)

	for userID, snapshot := range snapshots {
		userID, snapshot := userID, snapshot
		g.Go(func() error {
			res, err := r.Resolve(gctx, userID, snapshot)
			if err != nil {
				return err
			}
			results <- res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return ResolveResult{}, err
	}
	close(results)

	var total ResolveResult
	for res := range results {
		total.Resolved += res.Resolved
		total.Expired += res.Expired
		total.Skipped += res.Skipped
	}
	return total, nil
}

func (r *OutcomeResolver) rebuildProfile(ctx context.Context, userID core.UserID) error {
	resolved, err := r.events.GetResolvedEvents(ctx, userID)
	if err != nil {
		return err
	}
	profile := r.analyzer.BuildProfile(userID, resolved)
	if err := r.profiles.Replace(ctx, profile); err != nil {
		return err
	}
	r.log.Debug("rebuilt profile for user %s: %d resolved events, %d patterns",
		userID, profile.TotalEvents, len(profile.Patterns))
	return nil
}
