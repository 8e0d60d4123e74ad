package entitlement

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AccessLevel is ordered by increasing breadth of visibility.
type AccessLevel int

const (
	AccessSelfOnly AccessLevel = iota + 1
	AccessDirectReports
	AccessTeam
	AccessRegion
	AccessAll
)

func (l AccessLevel) String() string {
	switch l {
	case AccessSelfOnly:
		return "self_only"
	case AccessDirectReports:
		return "direct_reports"
	case AccessTeam:
		return "team"
	case AccessRegion:
		return "region"
	case AccessAll:
		return "all"
	default:
		return "unknown"
	}
}

func ParseAccessLevel(v string) (AccessLevel, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "self_only":
		return AccessSelfOnly, nil
	case "direct_reports":
		return AccessDirectReports, nil
	case "team":
		return AccessTeam, nil
	case "region":
		return AccessRegion, nil
	case "all":
		return AccessAll, nil
	default:
		return 0, fmt.Errorf("unknown access level %q", v)
	}
}

// Capabilities gate columns, not rows. They are carried through scope
// resolution unchanged.
type Capabilities struct {
	ViewCompensation          bool
	ViewIndividualPerformance bool
	ViewTeamPerformance       bool
	ViewCustomerData          bool
}

// Record is one entitlement entry for an employee. Superseded records keep
// their history: EffectiveTo is set instead of deleting the row.
type Record struct {
	employeeID    uuid.UUID
	level         AccessLevel
	capabilities  Capabilities
	effectiveFrom time.Time
	effectiveTo   *time.Time
}

func New(employeeID uuid.UUID, level AccessLevel, caps Capabilities, from time.Time) Record {
	return Record{
		employeeID:    employeeID,
		level:         level,
		capabilities:  caps,
		effectiveFrom: from,
	}
}

func Hydrate(
	employeeID uuid.UUID,
	level AccessLevel,
	caps Capabilities,
	from time.Time,
	to *time.Time,
) Record {
	return Record{
		employeeID:    employeeID,
		level:         level,
		capabilities:  caps,
		effectiveFrom: from,
		effectiveTo:   to,
	}
}

// DefaultFor is the documented fallback when no record is in effect:
// SELF_ONLY with only individual performance visible.
func DefaultFor(employeeID uuid.UUID) Record {
	return Record{
		employeeID: employeeID,
		level:      AccessSelfOnly,
		capabilities: Capabilities{
			ViewIndividualPerformance: true,
		},
	}
}

func (r Record) EmployeeID() uuid.UUID      { return r.employeeID }
func (r Record) Level() AccessLevel         { return r.level }
func (r Record) Capabilities() Capabilities { return r.capabilities }
func (r Record) EffectiveFrom() time.Time   { return r.effectiveFrom }
func (r Record) EffectiveTo() *time.Time    { return r.effectiveTo }

// ActiveAt reports whether the record's effective window covers t.
// A nil EffectiveTo means open-ended.
func (r Record) ActiveAt(t time.Time) bool {
	if t.Before(r.effectiveFrom) {
		return false
	}
	if r.effectiveTo != nil && !t.Before(*r.effectiveTo) {
		return false
	}
	return true
}
