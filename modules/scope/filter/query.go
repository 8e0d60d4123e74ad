package filter

import (
	"strings"

	"github.com/salescope/salescope/modules/scope/domain/visibility"
)

// Query is a structured analytic query whose shape the core owns, so a scope
// predicate can be injected safely before execution. Clauses use `?`
// placeholders; the executor expands and rebinds them for the warehouse
// driver. Identifier values are always bound as parameters, never
// interpolated into the text.
type Query struct {
	Select []string
	From   string
	Where  []string
	Args   []any
	// EmployeeIDExpr is the column expression holding the employee
	// identifier. Defaults to "employee_id".
	EmployeeIDExpr string
	OrderBy        string
	Limit          int
}

// EmployeeColumn is the effective employee-identifier expression.
func (q Query) EmployeeColumn() string {
	if strings.TrimSpace(q.EmployeeIDExpr) == "" {
		return "employee_id"
	}
	return q.EmployeeIDExpr
}

// InjectPredicate returns a copy of q restricted to the scope's visible set,
// expressed as a bound closed list.
func InjectPredicate(q Query, scope visibility.ScopeResult) Query {
	ids := scope.VisibleIDs()
	bound := make([]string, 0, len(ids))
	for _, id := range ids {
		bound = append(bound, id.String())
	}

	out := q
	out.Where = append(append([]string{}, q.Where...), out.EmployeeColumn()+" IN (?)")
	out.Args = append(append([]any{}, q.Args...), bound)
	return out
}
