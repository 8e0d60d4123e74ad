package serrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWithTemplateDataDoesNotMutateSentinel(t *testing.T) {
	sentinel := NewError("SCOPE_VIOLATION", "scope violation", "Scope.Violation")

	enriched := sentinel.WithTemplateData(map[string]string{"requester": "abc"})

	require.Empty(t, sentinel.TemplateData())
	require.Equal(t, "abc", enriched.TemplateData()["requester"])
	require.Equal(t, sentinel.Code(), enriched.Code())
}

func TestIsMatchesByCode(t *testing.T) {
	sentinel := NewError("SCOPE_CYCLE_DETECTED", "manager cycle", "")
	enriched := sentinel.WithTemplateData(map[string]string{"employee": "x"})
	wrapped := fmt.Errorf("building index: %w", enriched)

	require.ErrorIs(t, wrapped, sentinel)
	require.NotErrorIs(t, wrapped, NewError("OTHER", "other", ""))
}

func TestErrorStringIncludesCode(t *testing.T) {
	err := NewError("SCOPE_EMPLOYEE_UNKNOWN", "employee unknown", "")
	require.Contains(t, err.Error(), "SCOPE_EMPLOYEE_UNKNOWN")
	var base *BaseError
	require.True(t, errors.As(err.WithTemplateData(nil), &base))
}
