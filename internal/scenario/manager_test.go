package scenario

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeScenarios(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenarios.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestManagerLoadSkipsInvalid(t *testing.T) {
	path := writeScenarios(t, `
scenarios:
  - name: base
    asset: y
    amount: 1000
    price: 1.0
    lower_bound: 0.8
    upper_bound: 1.2
  - name: inverted
    asset: y
    amount: 1000
    price: 1.0
    lower_bound: 1.2
    upper_bound: 0.8
  - name: base
    asset: x
    amount: 500
    price: 1.0
    lower_bound: 0.8
    upper_bound: 1.2
  - name: wide
    asset: x
    amount: 250
    price: 2.0
    lower_bound: 0.5
    upper_bound: 8.0
    eval_price: 1.5
`)

	m := NewManager(zap.NewNop())
	scenarios, err := m.Load(path)
	require.NoError(t, err)
	require.Len(t, scenarios, 2)

	assert.Equal(t, "base", scenarios[0].Name)
	assert.Equal(t, "y", scenarios[0].Asset)
	assert.Equal(t, 1000.0, scenarios[0].Amount)
	assert.False(t, scenarios[0].CreatedAt.IsZero())

	assert.Equal(t, "wide", scenarios[1].Name)
	assert.Equal(t, 1.5, scenarios[1].Target())
}

func TestManagerLoadMissingFile(t *testing.T) {
	m := NewManager(zap.NewNop())
	scenarios, err := m.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Empty(t, scenarios)
}

func TestManagerLoadParseError(t *testing.T) {
	path := writeScenarios(t, "scenarios: [not: valid: yaml")

	m := NewManager(zap.NewNop())
	_, err := m.Load(path)
	require.Error(t, err)
}

func TestManagerSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book", "scenarios.yaml")
	m := NewManager(zap.NewNop())

	in := []*Scenario{
		NewScenario("base", "y", 1000, 1.0, 0.8, 1.2),
		NewScenario("tight", "x", 42.5, 1.0, 0.95, 1.05),
	}
	in[1].EvalPrice = 0.9

	require.NoError(t, m.Save(path, in))

	out, err := m.Load(path)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "base", out[0].Name)
	assert.Equal(t, "tight", out[1].Name)
	assert.Equal(t, 42.5, out[1].Amount)
	assert.Equal(t, 0.9, out[1].EvalPrice)
	assert.WithinDuration(t, in[0].CreatedAt, out[0].CreatedAt, time.Second)
}

func TestManagerSaveRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenarios.yaml")
	m := NewManager(zap.NewNop())

	err := m.Save(path, []*Scenario{NewScenario("", "y", 1000, 1.0, 0.8, 1.2)})
	require.Error(t, err)
	assert.NoFileExists(t, path)
}

func TestManagerAddReplacesByName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenarios.yaml")
	m := NewManager(zap.NewNop())

	_, err := m.Add(path, NewScenario("base", "y", 1000, 1.0, 0.8, 1.2))
	require.NoError(t, err)

	updated, err := m.Add(path, NewScenario("base", "y", 2500, 1.0, 0.8, 1.2))
	require.NoError(t, err)
	require.Len(t, updated, 1)
	assert.Equal(t, 2500.0, updated[0].Amount)

	updated, err = m.Add(path, NewScenario("other", "x", 10, 1.0, 0.8, 1.2))
	require.NoError(t, err)
	assert.Len(t, updated, 2)
}

func TestManagerRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenarios.yaml")
	m := NewManager(zap.NewNop())

	_, err := m.Add(path, NewScenario("base", "y", 1000, 1.0, 0.8, 1.2))
	require.NoError(t, err)
	_, err = m.Add(path, NewScenario("other", "x", 10, 1.0, 0.8, 1.2))
	require.NoError(t, err)

	kept, err := m.Remove(path, "base")
	require.NoError(t, err)
	require.Len(t, kept, 1)
	assert.Equal(t, "other", kept[0].Name)

	_, err = m.Remove(path, "absent")
	require.Error(t, err)
}

func TestScenarioValidate(t *testing.T) {
	tests := []struct {
		name     string
		scenario *Scenario
	}{
		{"empty name", NewScenario("", "y", 1000, 1.0, 0.8, 1.2)},
		{"unknown asset", NewScenario("s", "sol", 1000, 1.0, 0.8, 1.2)},
		{"zero amount", NewScenario("s", "y", 0, 1.0, 0.8, 1.2)},
		{"inverted range", NewScenario("s", "y", 1000, 1.0, 1.2, 0.8)},
		{"zero price", NewScenario("s", "y", 1000, 0, 0.8, 1.2)},
		{"y funding below range", NewScenario("s", "y", 1000, 0.5, 0.8, 1.2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.scenario.Validate())
		})
	}

	assert.NoError(t, NewScenario("ok", "Y", 1000, 1.0, 0.8, 1.2).Validate())
}

func TestScenarioOpen(t *testing.T) {
	sc := NewScenario("base", "y", 1000, 1.0, 0.8, 1.2)

	pos, err := sc.Open()
	require.NoError(t, err)
	assert.Greater(t, pos.Liquidity, 0.0)
	assert.Equal(t, 0.8, pos.Range.Lower)
	assert.Equal(t, 1.2, pos.Range.Upper)
}
