package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/pull-estimator/internal/gacha"
)

func TestTokensForDraws(t *testing.T) {
	c := DrawCost{TokenName: "Stellar Jade", PerDraw: 160, PerTenDraw: 1500}
	assert.Equal(t, 0, c.TokensForDraws(0))
	assert.Equal(t, 160, c.TokensForDraws(1))
	assert.Equal(t, 1500, c.TokensForDraws(10))
	assert.Equal(t, 1500+3*160, c.TokensForDraws(13))

	flat := DrawCost{PerDraw: 160}
	assert.Equal(t, 1600, flat.TokensForDraws(10))
}

func TestDrawsForConfidence(t *testing.T) {
	dist := gacha.Distribution{Entries: []gacha.Entry{
		{Draws: 10, CumPct: 20},
		{Draws: 50, CumPct: 75},
		{Draws: 80, CumPct: 100},
	}}
	assert.Equal(t, 10, DrawsForConfidence(dist, 15))
	assert.Equal(t, 50, DrawsForConfidence(dist, 75))
	assert.Equal(t, 80, DrawsForConfidence(dist, 90))
	assert.Equal(t, 0, DrawsForConfidence(gacha.Distribution{}, 50))
}

func testCatalog() Catalog {
	return Catalog{
		Currency: "USD",
		Packs: []Pack{
			{ID: "60", Name: "60 Pack", Tokens: 60, PriceCents: 99},
			{ID: "300", Name: "300 Pack", Tokens: 300, BonusTokens: 30, PriceCents: 499},
			{ID: "980", Name: "980 Pack", Tokens: 980, BonusTokens: 110, PriceCents: 1499, FirstTimeX2: true},
		},
	}
}

func TestCheapestPlanPrefersBulk(t *testing.T) {
	plan := CheapestPlanForTokens(testCatalog(), 330, nil)
	require.Len(t, plan.Purchases, 1)
	assert.Equal(t, "300", plan.Purchases[0].PackID)
	assert.Equal(t, 499, plan.TotalCents)
	assert.GreaterOrEqual(t, plan.TotalTokens, 330)
}

func TestCheapestPlanUsesFirstTimeDouble(t *testing.T) {
	first := FirstTimeState{"980": true}
	plan := CheapestPlanForTokens(testCatalog(), 2000, first)
	require.NotEmpty(t, plan.Purchases)
	assert.Equal(t, "980#x2", plan.Purchases[len(plan.Purchases)-1].PackID)
	assert.GreaterOrEqual(t, plan.TotalTokens, 2000)
	// the doubled pack alone grants 2070 for 14.99
	assert.Equal(t, 1499, plan.TotalCents)
}

func TestCheapestPlanTax(t *testing.T) {
	cat := testCatalog()
	cat.TaxRate = 0.13
	plan := CheapestPlanForTokens(cat, 60, nil)
	require.Len(t, plan.Purchases, 1)
	assert.Equal(t, 99, plan.SubCents)
	assert.Equal(t, 13, plan.TaxCents)
	assert.Equal(t, 112, plan.TotalCents)
}

func TestCheapestPlanDegenerate(t *testing.T) {
	assert.Empty(t, CheapestPlanForTokens(testCatalog(), 0, nil).Purchases)
	assert.Empty(t, CheapestPlanForTokens(Catalog{Currency: "USD"}, 100, nil).Purchases)
}
