package hierarchy

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/salescope/salescope/modules/directory/domain/aggregates/employee"
)

func newEmployee(id uuid.UUID, name string, role employee.Role, region string, managerID uuid.UUID) employee.Employee {
	return employee.New(id, name, role, region, managerID)
}

// fiveNodeRoster builds the canonical tree A -> (B, C); B -> (D, E).
func fiveNodeRoster() (map[string]uuid.UUID, []employee.Employee) {
	ids := map[string]uuid.UUID{
		"A": uuid.New(),
		"B": uuid.New(),
		"C": uuid.New(),
		"D": uuid.New(),
		"E": uuid.New(),
	}
	roster := []employee.Employee{
		newEmployee(ids["A"], "Alice", employee.RoleTopExecutive, "west", uuid.Nil),
		newEmployee(ids["B"], "Bob", employee.RoleTeamManager, "west", ids["A"]),
		newEmployee(ids["C"], "Carol", employee.RoleTeamManager, "east", ids["A"]),
		newEmployee(ids["D"], "Dan", employee.RoleIndividualContributor, "west", ids["B"]),
		newEmployee(ids["E"], "Eve", employee.RoleIndividualContributor, "west", ids["B"]),
	}
	return ids, roster
}

func TestBuildComputesLevelsAndPaths(t *testing.T) {
	ids, roster := fiveNodeRoster()

	idx, err := Build(roster)
	require.NoError(t, err)

	levelA, ok := idx.LevelOf(ids["A"])
	require.True(t, ok)
	require.Equal(t, 1, levelA)

	levelD, ok := idx.LevelOf(ids["D"])
	require.True(t, ok)
	require.Equal(t, 3, levelD)

	path, ok := idx.PathOf(ids["E"])
	require.True(t, ok)
	require.Equal(t, []uuid.UUID{ids["A"], ids["B"], ids["E"]}, path)

	top, ok := idx.TopManagerOf(ids["D"])
	require.True(t, ok)
	require.Equal(t, ids["A"], top)
}

func TestDescendantsOf(t *testing.T) {
	ids, roster := fiveNodeRoster()

	idx, err := Build(roster)
	require.NoError(t, err)

	require.ElementsMatch(t,
		[]uuid.UUID{ids["B"], ids["C"], ids["D"], ids["E"]},
		idx.DescendantsOf(ids["A"]),
	)
	require.ElementsMatch(t,
		[]uuid.UUID{ids["D"], ids["E"]},
		idx.DescendantsOf(ids["B"]),
	)
	require.Empty(t, idx.DescendantsOf(ids["D"]))

	// Memoized: a second call returns the identical answer.
	require.ElementsMatch(t,
		idx.DescendantsOf(ids["A"]),
		idx.DescendantsOf(ids["A"]),
	)
}

func TestBuildFailsOnSelfManager(t *testing.T) {
	id := uuid.New()
	roster := []employee.Employee{
		newEmployee(id, "Loop", employee.RoleTeamManager, "west", id),
	}

	_, err := Build(roster)
	require.ErrorIs(t, err, ErrCycleDetected)
}

func TestBuildFailsOnTwoNodeCycle(t *testing.T) {
	x, y := uuid.New(), uuid.New()
	roster := []employee.Employee{
		newEmployee(x, "X", employee.RoleTeamManager, "west", y),
		newEmployee(y, "Y", employee.RoleTeamManager, "west", x),
	}

	_, err := Build(roster)
	require.ErrorIs(t, err, ErrCycleDetected)
}

func TestBuildFailsOnDanglingManager(t *testing.T) {
	roster := []employee.Employee{
		newEmployee(uuid.New(), "Orphan", employee.RoleIndividualContributor, "west", uuid.New()),
	}

	_, err := Build(roster)
	require.ErrorIs(t, err, ErrDanglingManagerReference)
}

func TestBuildAcceptsForest(t *testing.T) {
	rootA, rootB := uuid.New(), uuid.New()
	childB := uuid.New()
	roster := []employee.Employee{
		newEmployee(rootA, "Root A", employee.RoleTopExecutive, "west", uuid.Nil),
		newEmployee(rootB, "Root B", employee.RoleTopExecutive, "east", uuid.Nil),
		newEmployee(childB, "Child", employee.RoleIndividualContributor, "east", rootB),
	}

	idx, err := Build(roster)
	require.NoError(t, err)

	top, ok := idx.TopManagerOf(childB)
	require.True(t, ok)
	require.Equal(t, rootB, top)
	require.Empty(t, idx.DescendantsOf(rootA))
}

func TestHolderKeepsPreviousIndexOnFailedRebuild(t *testing.T) {
	ids, roster := fiveNodeRoster()

	holder := NewHolder()
	require.NoError(t, holder.Rebuild(roster))

	good, ok := holder.Current()
	require.True(t, ok)

	// A cyclic roster must not replace the published index.
	x, y := uuid.New(), uuid.New()
	broken := []employee.Employee{
		newEmployee(x, "X", employee.RoleTeamManager, "west", y),
		newEmployee(y, "Y", employee.RoleTeamManager, "west", x),
	}
	require.ErrorIs(t, holder.Rebuild(broken), ErrCycleDetected)

	current, ok := holder.Current()
	require.True(t, ok)
	require.Same(t, good, current)
	require.ElementsMatch(t,
		[]uuid.UUID{ids["D"], ids["E"]},
		current.DescendantsOf(ids["B"]),
	)
}

func TestHolderEmptyUntilFirstBuild(t *testing.T) {
	holder := NewHolder()
	_, ok := holder.Current()
	require.False(t, ok)
}
