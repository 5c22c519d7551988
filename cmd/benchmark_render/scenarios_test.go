package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestDefaultScenariosParse(t *testing.T) {
	scenarios, err := loadScenarios("")
	require.NoError(t, err)
	require.NotEmpty(t, scenarios)
	for _, s := range scenarios {
		assert.NoError(t, s.Validate(), s.Name)
	}
}

func TestParseScenariosRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{"empty", "scenarios: []", ErrNoScenarios},
		{"unknown op", "scenarios:\n  - name: x\n    rows: 1\n    op: explode\n    iterations: 1\n", ErrUnknownOp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseScenarios([]byte(tt.yaml))
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := parseScenarios([]byte("scenarios:\n  - rows: 1\n    op: swap\n    iterations: 1\n"))
	assert.Error(t, err)
	_, err = parseScenarios([]byte("scenarios: {"))
	assert.Error(t, err)
}

func TestValidateFillsDefaults(t *testing.T) {
	s := Scenario{Name: "u", Op: OpUpdate, Iterations: 1}
	require.NoError(t, s.Validate())
	assert.Equal(t, 1, s.Stride)

	s = Scenario{Name: "a", Op: OpAppend, Iterations: 1}
	require.NoError(t, s.Validate())
	assert.Equal(t, 1, s.Count)
}

// Every edit, with and without row components, leaves a document that
// matches a fresh render of the final rows.
func TestScenariosConverge(t *testing.T) {
	ops := []Op{OpReplace, OpUpdate, OpSwap, OpReverse, OpShuffle, OpAppend, OpRemove}
	for _, components := range []bool{false, true} {
		for _, op := range ops {
			name := string(op)
			if components {
				name += " components"
			}
			s := Scenario{Name: name, Rows: 20, Op: op, Iterations: 5, Seed: 1, Components: components}
			require.NoError(t, s.Validate())

			t.Run(s.Name, func(t *testing.T) {
				res, err := runScenario(s, zaptest.NewLogger(t))
				require.NoError(t, err)
				assert.True(t, res.verified)
				assert.Equal(t, float64(s.Iterations), res.flushes)
				assert.Positive(t, res.renders)
				assert.Positive(t, res.mutations)
			})
		}
	}
}
