package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBatch() *Batch {
	return &Batch{
		Code:         "MY-0001",
		Strain:       "Pleurotus ostreatus",
		Status:       StatusInoculated,
		Units:        12,
		InoculatedAt: time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestBatch_Validate(t *testing.T) {
	assert.NoError(t, newBatch().Validate())

	b := newBatch()
	b.Units = 0
	assert.ErrorIs(t, b.Validate(), ErrInvalidBatch)

	b = newBatch()
	b.Status = "ASLEEP"
	assert.ErrorIs(t, b.Validate(), ErrInvalidBatch)
}

func TestBatch_Transitions(t *testing.T) {
	now := time.Date(2025, 4, 10, 9, 0, 0, 0, time.UTC)
	b := newBatch()

	require.NoError(t, b.TransitionTo(StatusIncubating, "", now))
	require.NoError(t, b.TransitionTo(StatusFruiting, "primordios visibles", now))
	require.NoError(t, b.TransitionTo(StatusHarvested, "", now))
	require.NoError(t, b.TransitionTo(StatusFruiting, "segunda oleada", now))
	assert.Equal(t, "[2025-04-10 FRUITING] primordios visibles\n[2025-04-10 FRUITING] segunda oleada", b.Notes)

	assert.ErrorIs(t, b.TransitionTo(StatusInoculated, "", now), ErrInvalidTransition)

	require.NoError(t, b.TransitionTo(StatusContaminated, "trichoderma", now))
	assert.ErrorIs(t, b.TransitionTo(StatusFruiting, "", now), ErrInvalidTransition)
	require.NoError(t, b.TransitionTo(StatusDiscarded, "", now))
	assert.ErrorIs(t, b.TransitionTo(StatusDiscarded, "", now), ErrInvalidTransition)
}

func TestBatch_AgeDays(t *testing.T) {
	b := newBatch()
	assert.Equal(t, 0, b.AgeDays(b.InoculatedAt.Add(-time.Hour)))
	assert.Equal(t, 0, b.AgeDays(b.InoculatedAt.Add(23*time.Hour)))
	assert.Equal(t, 9, b.AgeDays(b.InoculatedAt.Add(9*24*time.Hour+time.Minute)))
}
