package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTables_SortedAndComplete(t *testing.T) {
	t.Parallel()

	names := Tables()
	assert.Len(t, names, 10)
	assert.IsIncreasing(t, names)
	assert.Contains(t, names, TableProvinces)
}

func TestLookup(t *testing.T) {
	t.Parallel()

	opts, ok := Lookup(TableLanguages)
	require.True(t, ok)
	assert.Equal(t, "english", opts[0].Value)

	// Returned slice is a copy.
	opts[0].Value = "mutated"
	again, _ := Lookup(TableLanguages)
	assert.Equal(t, "english", again[0].Value)

	_, ok = Lookup("nope")
	assert.False(t, ok)
}

func TestLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		table, value, want string
	}{
		{TableProvinces, "ON", "Ontario"},
		{TableFeeStructures, "fee-only", "Fee-Only"},
		{TableProvinces, "XX", "XX"},
		{"unknown", "ON", "ON"},
	}
	for _, tt := range tests {
		t.Run(tt.table+"/"+tt.value, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Label(tt.table, tt.value))
		})
	}
}

func TestContains(t *testing.T) {
	t.Parallel()

	assert.True(t, Contains(TableServiceCategories, "tax"))
	assert.False(t, Contains(TableServiceCategories, "crypto"))
}

func TestPlans(t *testing.T) {
	t.Parallel()

	plans := Plans()
	require.Len(t, plans, 3)

	p, ok := PlanByID("professional")
	require.True(t, ok)
	assert.True(t, p.Recommended)
	assert.InDelta(t, 99.0, p.MonthlyPrice, 0.001)

	_, ok = PlanByID("enterprise")
	assert.False(t, ok)
}
