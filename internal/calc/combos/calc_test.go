package combos

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Keystone/internal/model"
)

func TestLRFDGravityGoverning(t *testing.T) {
	v := LoadValues{D: 100, L: 80}
	gov := Governing(LRFD, v)
	// 1.2*100 + 1.6*80 = 248 beats 1.4*100 and the rest.
	assert.Equal(t, "LRFD-2", gov.Combination.ID)
	assert.InDelta(t, 248.0, gov.Value, 1e-12)
}

func TestLRFDUpliftGoverning(t *testing.T) {
	// Dead load stabilizes; strong suction drives the envelope negative.
	v := LoadValues{D: 20, W: -80}
	gov := Governing(LRFD, v)
	assert.Equal(t, "LRFD-6", gov.Combination.ID)
	assert.InDelta(t, 0.9*20-80, gov.Value, 1e-12)

	max, min := Envelope(LRFD, v)
	assert.InDelta(t, -62.0, min, 1e-12)
	assert.GreaterOrEqual(t, max, 1.4*20)
}

func TestASDCatalog(t *testing.T) {
	v := LoadValues{D: 50, L: 30, S: 10}
	results := EvaluateAll(ASD, v)
	require.Len(t, results, len(ASD))

	byID := map[string]float64{}
	for _, r := range results {
		byID[r.Combination.ID] = r.Value
	}
	assert.InDelta(t, 80.0, byID["ASD-2"], 1e-12)
	assert.InDelta(t, 50+0.75*30+0.75*10, byID["ASD-4"], 1e-12)
}

func TestCombinationJSONRoundTrip(t *testing.T) {
	v := LoadValues{D: 100, L: 80, W: 25}
	gov := Governing(LRFD, v)

	raw, err := json.Marshal(gov.Combination)
	require.NoError(t, err)
	var back Combination
	require.NoError(t, json.Unmarshal(raw, &back))

	assert.Equal(t, gov.Combination.Formula, back.Formula)
	assert.InDelta(t, gov.Value, back.Evaluate(v), 1e-12)
}

func TestDriftLimit(t *testing.T) {
	h := 3.0
	assert.InDelta(t, h/500, DriftLimit(true, h), 1e-12)
	assert.InDelta(t, h/400, DriftLimit(false, h), 1e-12)
	assert.Less(t, DriftLimit(true, h), DriftLimit(false, h))
}

func TestByID(t *testing.T) {
	c, ok := ByID("LRFD-2")
	require.True(t, ok)
	assert.InDelta(t, 1.6, c.L, 1e-12)

	c, ok = ByID("ASD-2")
	require.True(t, ok)
	assert.InDelta(t, 1.0, c.D, 1e-12)

	_, ok = ByID("LRFD-99")
	assert.False(t, ok)
}

func TestExpandCombination(t *testing.T) {
	cases := []model.LoadCase{
		{ID: 1, Name: "D", Category: model.CategoryDead},
		{ID: 2, Name: "L", Category: model.CategoryLive},
		{ID: 3, Name: "W", Category: model.CategoryWind},
	}
	c, ok := ByID("LRFD-2")
	require.True(t, ok)

	lc := Expand(c, cases)
	assert.Equal(t, "LRFD-2", lc.ID)
	assert.Equal(t, c.Formula, lc.Formula)
	// Wind carries no factor in LRFD-2 and is dropped.
	require.Len(t, lc.Terms, 2)
	assert.Equal(t, model.CombinationTerm{Case: 1, Factor: 1.2}, lc.Terms[0])
	assert.Equal(t, model.CombinationTerm{Case: 2, Factor: 1.6}, lc.Terms[1])

	factors := lc.CaseFactors()
	assert.InDelta(t, 1.2, factors[1], 1e-12)
	assert.InDelta(t, 1.6, factors[2], 1e-12)
	_, present := factors[3]
	assert.False(t, present)
}

func TestExpandedCombinationJSONRoundTrip(t *testing.T) {
	c, ok := ByID("ASD-5")
	require.True(t, ok)
	lc := Expand(c, []model.LoadCase{
		{ID: 1, Category: model.CategoryDead},
		{ID: 2, Category: model.CategoryWind},
	})

	raw, err := json.Marshal(lc)
	require.NoError(t, err)
	var back model.LoadCombination
	require.NoError(t, json.Unmarshal(raw, &back))

	assert.Equal(t, lc, back)
	assert.InDelta(t, 0.6, back.CaseFactors()[2], 1e-12)
}
