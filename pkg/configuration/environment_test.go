package configuration

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScopeOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    ScopeOptions
		wantErr bool
	}{
		{"defaults", ScopeOptions{ViolationThreshold: 0.5, RedactionMarker: "[REDACTED]"}, false},
		{"zero threshold allowed", ScopeOptions{ViolationThreshold: 0, RedactionMarker: "x"}, false},
		{"one threshold allowed", ScopeOptions{ViolationThreshold: 1, RedactionMarker: "x"}, false},
		{"negative threshold", ScopeOptions{ViolationThreshold: -0.1, RedactionMarker: "x"}, true},
		{"threshold above one", ScopeOptions{ViolationThreshold: 1.1, RedactionMarker: "x"}, true},
		{"empty marker", ScopeOptions{ViolationThreshold: 0.5, RedactionMarker: "  "}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestDatabaseConnectionString(t *testing.T) {
	d := DatabaseOptions{Name: "salescope", Host: "db", Port: "5433", User: "app", Password: "secret"}
	require.Equal(t,
		"host=db port=5433 user=app dbname=salescope password=secret sslmode=disable",
		d.ConnectionString(),
	)
}
