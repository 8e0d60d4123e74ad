package ranking

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/salescope/salescope/modules/scope/domain/hierarchy"
	"github.com/salescope/salescope/modules/scope/domain/visibility"
)

// Metric names one measurable column of a monthly performance fact.
type Metric string

const (
	MetricSalesAmount     Metric = "sales_amount"
	MetricUnitsSold       Metric = "units_sold"
	MetricDealsClosed     Metric = "deals_closed"
	MetricQuotaAttainment Metric = "quota_attainment"
)

// PeerGroup selects the population a rank is computed against.
type PeerGroup int

const (
	PeerGroupTeam PeerGroup = iota + 1
	PeerGroupRegion
)

func (g PeerGroup) String() string {
	switch g {
	case PeerGroupTeam:
		return "team"
	case PeerGroupRegion:
		return "region"
	default:
		return fmt.Sprintf("PeerGroup(%d)", int(g))
	}
}

// Fact is one employee's measurements for one monthly period (YYYY-MM).
// Read-only input owned by the analytics store.
type Fact struct {
	EmployeeID uuid.UUID
	Period     string
	Values     map[Metric]decimal.Decimal
}

// Entry is one employee's position in a ranked list. Ranked is false when
// the employee has no fact for the period; such entries carry no rank number
// and do not displace anyone else's.
type Entry struct {
	EmployeeID uuid.UUID
	Value      decimal.Decimal
	Rank       int
	Ranked     bool
}

type RankedList struct {
	Metric    Metric
	Period    string
	PeerGroup PeerGroup
	Entries   []Entry
}

// Rank computes standard competition ranking of metric within the subject's
// peer group for the given period. The population is the peer group
// intersected with the viewer's visible set: an employee outside the scope
// never contributes to any rank, so the same employee may hold different
// ranks depending on who is asking.
func Rank(
	idx *hierarchy.Index,
	scope visibility.ScopeResult,
	subjectID uuid.UUID,
	group PeerGroup,
	metric Metric,
	period string,
	facts []Fact,
) (RankedList, error) {
	subject, ok := idx.Employee(subjectID)
	if !ok {
		return RankedList{}, fmt.Errorf("ranking: employee %s not in hierarchy index", subjectID)
	}

	population := peerGroupOf(idx, subject.ID(), group)

	values := make(map[uuid.UUID]decimal.Decimal, len(facts))
	for _, fact := range facts {
		if fact.Period != period {
			continue
		}
		if v, ok := fact.Values[metric]; ok {
			values[fact.EmployeeID] = v
		}
	}

	entries := make([]Entry, 0, len(population))
	for _, id := range population {
		if !scope.Contains(id) {
			continue
		}
		emp, ok := idx.Employee(id)
		if !ok || !emp.Active() {
			continue
		}
		v, ok := values[id]
		entries = append(entries, Entry{EmployeeID: id, Value: v, Ranked: ok})
	}

	assignRanks(entries)
	return RankedList{Metric: metric, Period: period, PeerGroup: group, Entries: entries}, nil
}

// peerGroupOf returns the subject's team (employees sharing the subject's
// direct manager, the subject included) or region cohort.
func peerGroupOf(idx *hierarchy.Index, subjectID uuid.UUID, group PeerGroup) []uuid.UUID {
	subject, ok := idx.Employee(subjectID)
	if !ok {
		return nil
	}

	var out []uuid.UUID
	switch group {
	case PeerGroupRegion:
		for _, emp := range idx.Roster() {
			if emp.Region() == subject.Region() {
				out = append(out, emp.ID())
			}
		}
	default:
		if subject.HasManager() {
			out = append(out, idx.ChildrenOf(subject.ManagerID())...)
		} else {
			out = append(out, subjectID)
		}
	}
	return out
}

// assignRanks sorts ranked entries by value descending (ties broken by id for
// a stable listing) and applies standard competition ranking: equal values
// share a rank, and the next distinct value's rank is 1 plus the count of
// strictly better entries. Unranked entries sort after all ranked ones.
func assignRanks(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Ranked != b.Ranked {
			return a.Ranked
		}
		if a.Ranked && !a.Value.Equal(b.Value) {
			return a.Value.GreaterThan(b.Value)
		}
		return bytes.Compare(a.EmployeeID[:], b.EmployeeID[:]) < 0
	})

	better := 0
	for i := range entries {
		if !entries[i].Ranked {
			continue
		}
		if i > 0 && entries[i-1].Ranked && entries[i].Value.Equal(entries[i-1].Value) {
			entries[i].Rank = entries[i-1].Rank
		} else {
			entries[i].Rank = better + 1
		}
		better++
	}
}
