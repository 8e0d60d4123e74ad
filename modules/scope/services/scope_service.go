package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"

	"github.com/salescope/salescope/modules/directory/domain/aggregates/employee"
	directoryservices "github.com/salescope/salescope/modules/directory/services"
	"github.com/salescope/salescope/modules/scope/domain/hierarchy"
	"github.com/salescope/salescope/modules/scope/domain/visibility"
	"github.com/salescope/salescope/modules/scope/filter"
	"github.com/salescope/salescope/modules/scope/ranking"
)

var resolutionsByLevel = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "scope",
	Subsystem: "resolver",
	Name:      "resolutions_total",
	Help:      "Total number of scope resolutions, labeled by resolved access level.",
}, []string{"level"})

// PerformanceFactsProvider is the read contract against the analytics store.
// Implementations return one fact per (employee, period) at most.
type PerformanceFactsProvider interface {
	ForEmployees(ctx context.Context, ids []uuid.UUID, period string) ([]ranking.Fact, error)
}

// ScopeService is the entry point for its collaborators: resolve a scope,
// apply it to queries or result sets, rank within it. It keeps the hierarchy
// index current by rebuilding on roster changes.
type ScopeService struct {
	holder       *hierarchy.Holder
	roster       *directoryservices.RosterService
	entitlements *directoryservices.EntitlementService
	facts        PerformanceFactsProvider
	filter       *filter.Filter
	log          *logrus.Logger
}

func NewScopeService(
	roster *directoryservices.RosterService,
	entitlements *directoryservices.EntitlementService,
	facts PerformanceFactsProvider,
	f *filter.Filter,
	log *logrus.Logger,
) *ScopeService {
	return &ScopeService{
		holder:       hierarchy.NewHolder(),
		roster:       roster,
		entitlements: entitlements,
		facts:        facts,
		filter:       f,
		log:          log,
	}
}

// ResolveScope computes the visible set for requesterID as of asOf. The
// resolution itself is synchronous and in-memory; the only reads are the
// roster snapshot (on a cold index) and the entitlement lookup.
func (s *ScopeService) ResolveScope(ctx context.Context, requesterID uuid.UUID, asOf time.Time) (visibility.ScopeResult, error) {
	idx, err := s.currentIndex(ctx)
	if err != nil {
		return visibility.ScopeResult{}, err
	}

	record, err := s.entitlements.ActiveRecord(ctx, requesterID, asOf)
	if err != nil {
		return visibility.ScopeResult{}, err
	}

	scope, err := Resolve(idx, requesterID, record)
	if err != nil {
		return visibility.ScopeResult{}, err
	}

	resolutionsByLevel.WithLabelValues(scope.Level().String()).Inc()
	return scope, nil
}

// ApplyScopeToQuery restricts a structured query to the scope's visible set
// via a bound predicate. Preferred whenever the query shape is owned by us.
func (s *ScopeService) ApplyScopeToQuery(scope visibility.ScopeResult, q filter.Query) filter.Query {
	return filter.InjectPredicate(q, scope)
}

// ApplyScopeToResult post-filters a materialized result set. Required for
// externally generated queries whose shape cannot be rewritten safely.
func (s *ScopeService) ApplyScopeToResult(scope visibility.ScopeResult, rs filter.ResultSet) (filter.ResultSet, error) {
	return s.filter.ApplyToResult(scope, rs)
}

// Rank computes the subject's standing on metric within the chosen peer
// group, period given as YYYY-MM. Facts are fetched for the visible set
// only, so out-of-scope peers cannot leak through the ranking.
func (s *ScopeService) Rank(
	ctx context.Context,
	scope visibility.ScopeResult,
	subjectID uuid.UUID,
	group ranking.PeerGroup,
	metric ranking.Metric,
	period string,
) (ranking.RankedList, error) {
	idx, err := s.currentIndex(ctx)
	if err != nil {
		return ranking.RankedList{}, err
	}

	facts, err := s.facts.ForEmployees(ctx, scope.VisibleIDs(), period)
	if err != nil {
		return ranking.RankedList{}, err
	}
	return ranking.Rank(idx, scope, subjectID, group, metric, period, facts)
}

// RebuildIndex re-reads the roster and swaps in a fresh index. On failure
// the previous index stays published.
func (s *ScopeService) RebuildIndex(ctx context.Context) error {
	roster, err := s.roster.Snapshot(ctx)
	if err != nil {
		return err
	}
	if err := s.holder.Rebuild(roster); err != nil {
		s.log.WithError(err).Error("hierarchy rebuild failed, keeping previous index")
		return err
	}
	s.log.WithField("size", len(roster)).Info("hierarchy index rebuilt")
	return nil
}

// OnRosterChanged is the event handler wired to the roster refresh event.
func (s *ScopeService) OnRosterChanged(event *employee.RosterChangedEvent) {
	if err := s.holder.Rebuild(event.Roster); err != nil {
		s.log.WithError(err).Error("hierarchy rebuild failed, keeping previous index")
	}
}

func (s *ScopeService) currentIndex(ctx context.Context) (*hierarchy.Index, error) {
	if idx, ok := s.holder.Current(); ok {
		return idx, nil
	}
	if err := s.RebuildIndex(ctx); err != nil {
		return nil, err
	}
	idx, _ := s.holder.Current()
	return idx, nil
}
