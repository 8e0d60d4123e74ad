package employee

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role is ordered by seniority: higher values sit higher in the hierarchy.
type Role int

const (
	RoleIndividualContributor Role = iota + 1
	RoleTeamManager
	RoleRegionalManager
	RoleVP
	RoleTopExecutive
)

func (r Role) String() string {
	switch r {
	case RoleIndividualContributor:
		return "individual_contributor"
	case RoleTeamManager:
		return "team_manager"
	case RoleRegionalManager:
		return "regional_manager"
	case RoleVP:
		return "vp"
	case RoleTopExecutive:
		return "top_executive"
	default:
		return "unknown"
	}
}

func ParseRole(v string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "individual_contributor":
		return RoleIndividualContributor, nil
	case "team_manager":
		return RoleTeamManager, nil
	case "regional_manager":
		return RoleRegionalManager, nil
	case "vp":
		return RoleVP, nil
	case "top_executive":
		return RoleTopExecutive, nil
	default:
		return 0, fmt.Errorf("unknown role %q", v)
	}
}

// Employee is one organizational member. ManagerID is uuid.Nil only for a
// hierarchy root. The roster is owned by an external process; the core only
// reads it.
type Employee struct {
	id          uuid.UUID
	displayName string
	role        Role
	region      string
	managerID   uuid.UUID
	active      bool
	createdAt   time.Time
	updatedAt   time.Time
}

func New(id uuid.UUID, displayName string, role Role, region string, managerID uuid.UUID) Employee {
	return Employee{
		id:          id,
		displayName: strings.TrimSpace(displayName),
		role:        role,
		region:      strings.TrimSpace(region),
		managerID:   managerID,
		active:      true,
	}
}

func Hydrate(
	id uuid.UUID,
	displayName string,
	role Role,
	region string,
	managerID uuid.UUID,
	active bool,
	createdAt time.Time,
	updatedAt time.Time,
) Employee {
	return Employee{
		id:          id,
		displayName: strings.TrimSpace(displayName),
		role:        role,
		region:      strings.TrimSpace(region),
		managerID:   managerID,
		active:      active,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (e Employee) ID() uuid.UUID        { return e.id }
func (e Employee) DisplayName() string  { return e.displayName }
func (e Employee) Role() Role           { return e.role }
func (e Employee) Region() string       { return e.region }
func (e Employee) ManagerID() uuid.UUID { return e.managerID }
func (e Employee) HasManager() bool     { return e.managerID != uuid.Nil }
func (e Employee) Active() bool         { return e.active }
func (e Employee) CreatedAt() time.Time { return e.createdAt }
func (e Employee) UpdatedAt() time.Time { return e.updatedAt }
func (e Employee) IsZero() bool         { return e.id == uuid.Nil }
