package visibility

import (
	"bytes"
	"sort"

	"github.com/google/uuid"

	"github.com/salescope/salescope/modules/directory/domain/entities/entitlement"
)

// ScopeResult is the ephemeral outcome of scope resolution: the exact set of
// employee ids the requester may see, plus the capability flags to apply.
// It lives for one request and is never persisted.
type ScopeResult struct {
	requesterID  uuid.UUID
	level        entitlement.AccessLevel
	capabilities entitlement.Capabilities
	visible      map[uuid.UUID]struct{}
}

func NewScopeResult(
	requesterID uuid.UUID,
	level entitlement.AccessLevel,
	caps entitlement.Capabilities,
	visibleIDs []uuid.UUID,
) ScopeResult {
	visible := make(map[uuid.UUID]struct{}, len(visibleIDs))
	for _, id := range visibleIDs {
		visible[id] = struct{}{}
	}
	return ScopeResult{
		requesterID:  requesterID,
		level:        level,
		capabilities: caps,
		visible:      visible,
	}
}

func (s ScopeResult) RequesterID() uuid.UUID                 { return s.requesterID }
func (s ScopeResult) Level() entitlement.AccessLevel         { return s.level }
func (s ScopeResult) Capabilities() entitlement.Capabilities { return s.capabilities }

func (s ScopeResult) Contains(id uuid.UUID) bool {
	_, ok := s.visible[id]
	return ok
}

func (s ScopeResult) Size() int {
	return len(s.visible)
}

// VisibleIDs returns the scope as a sorted slice, stable across calls so
// injected predicates are deterministic for identical snapshots.
func (s ScopeResult) VisibleIDs() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(s.visible))
	for id := range s.visible {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool {
		return bytes.Compare(out[i][:], out[j][:]) < 0
	})
	return out
}
