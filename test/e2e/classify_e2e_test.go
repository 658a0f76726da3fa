//go:build e2e

package e2e_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyDryRun(t *testing.T) {
	ctx := testContext(t)

	result, err := env.sdk.Ops().Classify(ctx, "water supply has been cut in my colony for two weeks")
	require.NoError(t, err)

	assert.Equal(t, "water_supply", result.Classification.CategoryID)
	assert.Greater(t, result.Classification.Confidence, 0.0)
	assert.NotEmpty(t, result.OfficeID)
	assert.NotEmpty(t, result.OfficeName)
}

func TestClassifyGibberishFallsBackToCatchAll(t *testing.T) {
	ctx := testContext(t)

	result, err := env.sdk.Ops().Classify(ctx, "zxqv plomb wrt asdf")
	require.NoError(t, err)

	assert.Equal(t, "other", result.Classification.CategoryID)
	assert.Equal(t, 0.0, result.Classification.Confidence)
}

func TestManualSweepIsIdempotent(t *testing.T) {
	ctx := testContext(t)

	first, err := env.sdk.Ops().RunSweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, first.Failures)

	// A second pass over the same open set must not repeat any escalation.
	second, err := env.sdk.Ops().RunSweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, second.Reminders)
	assert.Zero(t, second.Appeals)
	assert.Zero(t, second.Failures)
}
