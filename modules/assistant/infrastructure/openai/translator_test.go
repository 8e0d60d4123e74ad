package openai

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStripFences(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare sql", "SELECT 1", "SELECT 1"},
		{"fenced", "```\nSELECT 1\n```", "SELECT 1"},
		{"fenced with language", "```sql\nSELECT employee_id FROM performance_facts\n```", "SELECT employee_id FROM performance_facts"},
		{"surrounding whitespace", "  \nSELECT 1\n ", "SELECT 1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, stripFences(tc.in))
		})
	}
}
