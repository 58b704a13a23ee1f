package infrastructure

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"mycelium/internal/service/production/domain"
)

func TestBatchMapperRoundTrip(t *testing.T) {
	b := &domain.Batch{
		ID: 7, Code: "MY-7A2B", ProductID: 3, Strain: "Hericium erinaceus", FormulationID: 2,
		Status: domain.StatusFruiting, Units: 24,
		InoculatedAt: time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC),
		Notes:        "sala 2",
	}
	assert.Equal(t, b, ToDomainBatch(FromDomainBatch(b)))
}

func TestFormulationMapperRoundTrip(t *testing.T) {
	f := &domain.SubstrateFormulation{
		ID: 2, Name: "Master mix", HydrationPc: 60,
		Ingredients: []domain.Ingredient{{Name: "aserrín", Percent: 50}, {Name: "soya", Percent: 50}},
	}
	assert.Equal(t, f, ToDomainFormulation(FromDomainFormulation(f)))
}
