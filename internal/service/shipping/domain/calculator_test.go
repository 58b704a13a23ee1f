package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCalculator(t *testing.T) *Calculator {
	t.Helper()
	calc, err := NewCalculator("Valparaíso", DefaultCostTable())
	require.NoError(t, err)
	return calc
}

func TestClassifyWeight(t *testing.T) {
	cases := []struct {
		grams int64
		want  SizeClass
	}{
		{0, SizeXS},
		{1, SizeXS},
		{1000, SizeXS},
		{1001, SizeS},
		{3000, SizeS},
		{3001, SizeM},
		{5000, SizeM},
		{5001, SizeL},
		{25000, SizeL},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ClassifyWeight(tc.grams), "grams=%d", tc.grams)
	}
}

func TestCalculator_Cost(t *testing.T) {
	calc := newTestCalculator(t)

	cases := []struct {
		name   string
		region string
		grams  int64
		want   int64
	}{
		{"same region S", "Valparaíso", 2000, 4200},
		{"same region L", "Valparaíso", 9000, 6900},
		{"centro other region XS", "Maule", 500, 4300},
		{"centro other region M", "Los Lagos", 5000, 6300},
		{"santiago M", "Metropolitana", 4000, 7300},
		{"santiago XS", "Metropolitana", 0, 4500},
		{"extremo L", "Magallanes", 6000, 17000},
		{"extremo S", "Arica y Parinacota", 1001, 10200},
		{"empty region", "", 2000, 0},
		{"misspelled region", "Valparaiso", 2000, 0},
		{"wrong case", "metropolitana", 4000, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, calc.Cost(tc.region, tc.grams))
		})
	}
}

func TestCalculator_QuoteDetermined(t *testing.T) {
	calc := newTestCalculator(t)

	q := calc.Quote("Biobío", 1500)
	assert.True(t, q.Determined)
	assert.Equal(t, ZoneCentro, q.Zone)
	assert.Equal(t, SizeS, q.SizeClass)
	assert.Equal(t, int64(5100), q.Cost)

	unknown := calc.Quote("Narnia", 1500)
	assert.False(t, unknown.Determined)
	assert.Zero(t, unknown.Cost)
	assert.Empty(t, unknown.Zone)
}

func TestCalculator_Idempotent(t *testing.T) {
	calc := newTestCalculator(t)
	for _, r := range Regions() {
		first := calc.Quote(r.Name, 3200)
		second := calc.Quote(r.Name, 3200)
		assert.Equal(t, first, second, r.Name)
		assert.True(t, first.Determined, r.Name)
	}
}

func TestCalculator_MissingRateDegradesToZero(t *testing.T) {
	table := CostTable{
		ZoneCentro: {
			ZoneCentro: {LocalityOtherRegion: {SizeXS: 4300}},
		},
	}
	calc, err := NewCalculator("Maule", table)
	require.NoError(t, err)

	assert.Equal(t, int64(4300), calc.Cost("Ñuble", 100))
	// 缺少 same-region 子表
	q := calc.Quote("Maule", 100)
	assert.False(t, q.Determined)
	assert.Zero(t, q.Cost)
	// 缺少尺寸档位
	assert.Zero(t, calc.Cost("Ñuble", 4000))
	// 缺少目的 Zone
	assert.Zero(t, calc.Cost("Metropolitana", 100))
}

func TestCalculator_TableIsCopied(t *testing.T) {
	table := DefaultCostTable()
	calc, err := NewCalculator("Valparaíso", table)
	require.NoError(t, err)

	table[ZoneCentro][ZoneSantiago][LocalityOtherRegion][SizeM] = 1
	assert.Equal(t, int64(7300), calc.Cost("Metropolitana", 4000))
}

func TestNewCalculator_Origin(t *testing.T) {
	_, err := NewCalculator("Atlantis", DefaultCostTable())
	assert.ErrorIs(t, err, ErrUnknownOrigin)

	_, err = NewCalculator("Metropolitana", DefaultCostTable())
	assert.ErrorIs(t, err, ErrOriginNotServed)

	calc := newTestCalculator(t)
	assert.Equal(t, Region{Name: "Valparaíso", Zone: ZoneCentro}, calc.Origin())
}

func TestRegions(t *testing.T) {
	rs := Regions()
	require.Len(t, rs, 16)

	seen := map[string]bool{}
	for _, r := range rs {
		assert.False(t, seen[r.Name], "duplicate region %s", r.Name)
		seen[r.Name] = true
		assert.True(t, isKnownZone(r.Zone))
	}

	zone, ok := LookupZone("Metropolitana")
	assert.True(t, ok)
	assert.Equal(t, ZoneSantiago, zone)

	rs[0].Name = "changed"
	assert.Equal(t, "Arica y Parinacota", Regions()[0].Name)
}

func TestParseCostTable(t *testing.T) {
	raw := map[string]map[string]map[string]map[string]int64{
		"Centro": {
			"Centro":   {"same": {"XS": 1000, "S": 2000}, "other": {"XS": 1500}},
			"Santiago": {"other": {"L": 9000}},
		},
	}
	table, err := ParseCostTable(raw)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), table[ZoneCentro][ZoneCentro][LocalitySameRegion][SizeS])
	assert.Equal(t, int64(9000), table[ZoneCentro][ZoneSantiago][LocalityOtherRegion][SizeL])

	bad := []map[string]map[string]map[string]map[string]int64{
		{"Norte": {"Centro": {"same": {"XS": 1}}}},
		{"Centro": {"Sur": {"same": {"XS": 1}}}},
		{"Centro": {"Centro": {"near": {"XS": 1}}}},
		{"Centro": {"Centro": {"same": {"XL": 1}}}},
		{"Centro": {"Centro": {"same": {"XS": -1}}}},
	}
	for _, b := range bad {
		_, err := ParseCostTable(b)
		assert.ErrorIs(t, err, ErrInvalidCostTable)
	}
}
