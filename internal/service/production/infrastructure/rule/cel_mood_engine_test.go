package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mycelium/internal/service/production/domain"
)

func TestCELMoodEngine_DefaultRules(t *testing.T) {
	e, err := NewCELMoodEngine(nil)
	require.NoError(t, err)

	cases := []struct {
		status domain.BatchStatus
		age    int
		want   domain.Mood
	}{
		{domain.StatusInoculated, 0, domain.MoodSleepy},
		{domain.StatusIncubating, 1, domain.MoodSleepy},
		{domain.StatusIncubating, 10, domain.MoodGrowing},
		{domain.StatusFruiting, 20, domain.MoodHappy},
		{domain.StatusHarvested, 30, domain.MoodProud},
		{domain.StatusContaminated, 5, domain.MoodSick},
		{domain.StatusDiscarded, 40, domain.MoodGone},
	}
	for _, tc := range cases {
		got, err := e.Evaluate(domain.MoodFacts{Status: tc.status, AgeDays: tc.age, Units: 10})
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "%s at %d days", tc.status, tc.age)
	}
}

func TestCELMoodEngine_CustomRules(t *testing.T) {
	e, err := NewCELMoodEngine([]MoodRule{
		{Mood: domain.MoodSick, Expr: `status == "FRUITING" && age_days > 45`},
		{Mood: domain.MoodHappy, Expr: `strain.startsWith("Pleurotus") && units >= 10`},
	})
	require.NoError(t, err)

	mood, err := e.Evaluate(domain.MoodFacts{Status: domain.StatusFruiting, AgeDays: 50})
	require.NoError(t, err)
	assert.Equal(t, domain.MoodSick, mood)

	mood, err = e.Evaluate(domain.MoodFacts{Status: domain.StatusIncubating, Strain: "Pleurotus djamor", Units: 12})
	require.NoError(t, err)
	assert.Equal(t, domain.MoodHappy, mood)

	mood, err = e.Evaluate(domain.MoodFacts{Status: domain.StatusIncubating, Strain: "Lentinula edodes", Units: 12})
	require.NoError(t, err)
	assert.Equal(t, domain.MoodGrowing, mood)
}

func TestCELMoodEngine_RejectsBadRules(t *testing.T) {
	e, err := NewCELMoodEngine(nil)
	require.NoError(t, err)

	assert.Error(t, e.Reload([]MoodRule{{Mood: domain.MoodHappy, Expr: `status ==`}}))
	assert.Error(t, e.Reload([]MoodRule{{Mood: domain.MoodHappy, Expr: `age_days + 1`}}))
	assert.Error(t, e.Reload([]MoodRule{{Mood: "grumpy", Expr: `true`}}))

	// 失败的 Reload 不影响旧规则
	mood, err := e.Evaluate(domain.MoodFacts{Status: domain.StatusDiscarded})
	require.NoError(t, err)
	assert.Equal(t, domain.MoodGone, mood)

	_, err = NewCELMoodEngine([]MoodRule{{Mood: domain.MoodHappy, Expr: `missing_var > 1`}})
	assert.Error(t, err)
}
