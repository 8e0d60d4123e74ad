package hierarchy

import (
	"sync"

	"github.com/google/uuid"

	"github.com/salescope/salescope/modules/directory/domain/aggregates/employee"
	"github.com/salescope/salescope/pkg/serrors"
)

var (
	// ErrCycleDetected means a manager chain does not terminate at a root.
	// The build fails closed: no partial index is ever served.
	ErrCycleDetected = serrors.NewError(
		"SCOPE_CYCLE_DETECTED",
		"manager chain forms a cycle",
		"Scope.CycleDetected",
	)
	// ErrDanglingManagerReference means an employee references a manager id
	// that is not present in the roster snapshot.
	ErrDanglingManagerReference = serrors.NewError(
		"SCOPE_DANGLING_MANAGER",
		"manager id is not present in the roster",
		"Scope.DanglingManager",
	)
)

// Index answers descendant/ancestor queries over the employee forest.
// It is immutable after Build and safe to share read-only across requests;
// the descendant memo has its own lock.
type Index struct {
	employees map[uuid.UUID]employee.Employee
	children  map[uuid.UUID][]uuid.UUID
	levels    map[uuid.UUID]int
	paths     map[uuid.UUID][]uuid.UUID
	roster    []employee.Employee

	mu          sync.Mutex
	descendants map[uuid.UUID][]uuid.UUID
}

// Build indexes the full roster snapshot, inactive employees included:
// they stay valid as historical manager references and are filtered out of
// visibility computations later, not here.
func Build(roster []employee.Employee) (*Index, error) {
	idx := &Index{
		employees:   make(map[uuid.UUID]employee.Employee, len(roster)),
		children:    make(map[uuid.UUID][]uuid.UUID),
		levels:      make(map[uuid.UUID]int, len(roster)),
		paths:       make(map[uuid.UUID][]uuid.UUID, len(roster)),
		descendants: make(map[uuid.UUID][]uuid.UUID),
		roster:      roster,
	}

	for _, e := range roster {
		idx.employees[e.ID()] = e
	}

	for _, e := range roster {
		if !e.HasManager() {
			continue
		}
		if _, ok := idx.employees[e.ManagerID()]; !ok {
			return nil, ErrDanglingManagerReference.WithTemplateData(map[string]string{
				"employee": e.ID().String(),
				"manager":  e.ManagerID().String(),
			})
		}
		idx.children[e.ManagerID()] = append(idx.children[e.ManagerID()], e.ID())
	}

	for _, e := range roster {
		if err := idx.resolvePath(e.ID(), len(roster)); err != nil {
			return nil, err
		}
	}

	return idx, nil
}

// resolvePath walks the manager chain up to the root, memoizing levels and
// paths. The hop bound is defensive: any chain longer than the roster must
// contain a cycle (a self-manager is the one-hop case).
func (idx *Index) resolvePath(id uuid.UUID, maxHops int) error {
	if _, done := idx.paths[id]; done {
		return nil
	}

	chain := make([]uuid.UUID, 0, 8)
	cursor := id
	for hops := 0; ; hops++ {
		if hops > maxHops {
			return ErrCycleDetected.WithTemplateData(map[string]string{
				"employee": id.String(),
			})
		}
		if _, done := idx.paths[cursor]; done {
			break
		}

		chain = append(chain, cursor)
		e := idx.employees[cursor]
		if !e.HasManager() {
			idx.paths[cursor] = []uuid.UUID{cursor}
			idx.levels[cursor] = 1
			break
		}
		if e.ManagerID() == cursor {
			return ErrCycleDetected.WithTemplateData(map[string]string{
				"employee": cursor.String(),
			})
		}
		cursor = e.ManagerID()
	}

	// Unwind the collected chain from the last resolved ancestor downwards.
	for i := len(chain) - 1; i >= 0; i-- {
		cur := chain[i]
		if _, done := idx.paths[cur]; done {
			continue
		}
		parent := idx.employees[cur].ManagerID()
		parentPath := idx.paths[parent]
		path := make([]uuid.UUID, 0, len(parentPath)+1)
		path = append(path, parentPath...)
		path = append(path, cur)
		idx.paths[cur] = path
		idx.levels[cur] = len(path)
	}
	return nil
}

// DescendantsOf returns every employee transitively reporting to id,
// inactive ones included. Results are memoized: across many requests on a
// fixed roster the total traversal work stays O(n).
func (idx *Index) DescendantsOf(id uuid.UUID) []uuid.UUID {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.descendantsLocked(id)
}

func (idx *Index) descendantsLocked(id uuid.UUID) []uuid.UUID {
	if memo, ok := idx.descendants[id]; ok {
		return memo
	}

	var out []uuid.UUID
	for _, child := range idx.children[id] {
		out = append(out, child)
		out = append(out, idx.descendantsLocked(child)...)
	}
	idx.descendants[id] = out
	return out
}

// ChildrenOf returns the immediate reports of id.
func (idx *Index) ChildrenOf(id uuid.UUID) []uuid.UUID {
	return idx.children[id]
}

// LevelOf returns the hierarchy level of id (root = 1).
func (idx *Index) LevelOf(id uuid.UUID) (int, bool) {
	level, ok := idx.levels[id]
	return level, ok
}

// TopManagerOf returns the root of the employee's branch.
func (idx *Index) TopManagerOf(id uuid.UUID) (uuid.UUID, bool) {
	path, ok := idx.paths[id]
	if !ok || len(path) == 0 {
		return uuid.Nil, false
	}
	return path[0], true
}

// PathOf returns the ordered ancestor chain from root to id, id included.
func (idx *Index) PathOf(id uuid.UUID) ([]uuid.UUID, bool) {
	path, ok := idx.paths[id]
	if !ok {
		return nil, false
	}
	out := make([]uuid.UUID, len(path))
	copy(out, path)
	return out, true
}

// Employee looks up a roster member by id.
func (idx *Index) Employee(id uuid.UUID) (employee.Employee, bool) {
	e, ok := idx.employees[id]
	return e, ok
}

// Roster returns the snapshot the index was built from.
func (idx *Index) Roster() []employee.Employee {
	return idx.roster
}

func (idx *Index) Size() int {
	return len(idx.employees)
}
