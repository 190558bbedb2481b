package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aqasim81/reservation-provisioner/internal/analyzer"
	"github.com/aqasim81/reservation-provisioner/internal/analyzer/rules"
	"github.com/aqasim81/reservation-provisioner/internal/schema"
)

func TestNewDefaultRegistry_registersAllRules(t *testing.T) {
	t.Parallel()

	r := rules.NewDefaultRegistry()
	require.NotNil(t, r)
	assert.Len(t, r.Rules(), 9)
}

func TestNewDefaultRegistry_uniqueIDs(t *testing.T) {
	t.Parallel()

	r := rules.NewDefaultRegistry()
	seen := make(map[string]bool)

	for _, rule := range r.Rules() {
		id := rule.ID()
		assert.False(t, seen[id], "duplicate rule ID: %s", id)
		seen[id] = true
	}
}

func TestDefaultSchema_isRerunnable(t *testing.T) {
	t.Parallel()

	stmts, err := schema.Default()
	require.NoError(t, err)

	result, err := analyzer.New(analyzer.WithRegistry(rules.NewDefaultRegistry())).Analyze(stmts)
	require.NoError(t, err)

	assert.Empty(t, result.Findings)
	assert.True(t, result.Rerunnable())
}
