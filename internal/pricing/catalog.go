package pricing

import "math"

// Pack is a purchasable token SKU.
type Pack struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Tokens      int    `json:"tokens" yaml:"tokens"`             // base tokens granted
	BonusTokens int    `json:"bonus_tokens" yaml:"bonus_tokens"` // permanent extra tokens
	FirstTimeX2 bool   `json:"first_time_x2" yaml:"first_time_x2"`
	PriceCents  int    `json:"price_cents" yaml:"price_cents"`
}

// Catalog is a regional store catalog. TaxRate applies to the pre-tax
// subtotal; tax-inclusive pricing uses TaxRate = 0.
type Catalog struct {
	Currency string  `json:"currency" yaml:"currency"`
	TaxRate  float64 `json:"tax_rate" yaml:"tax_rate"`
	Packs    []Pack  `json:"packs" yaml:"packs"`
}

// FirstTimeState marks which packs still have the first-purchase double.
type FirstTimeState map[string]bool

// Purchase is one line item of a Plan.
type Purchase struct {
	PackID     string `json:"pack_id"`
	Name       string `json:"name"`
	Qty        int    `json:"qty"`
	UnitPrice  int    `json:"unit_price_cents"`
	UnitTokens int    `json:"unit_tokens"`
	Subtotal   int    `json:"subtotal_cents"`
}

// Plan is the cheapest purchase combination covering a token need.
type Plan struct {
	Purchases   []Purchase `json:"purchases"`
	SubCents    int        `json:"subtotal_cents"`
	TaxCents    int        `json:"tax_cents"`
	TotalCents  int        `json:"total_cents"`
	TotalTokens int        `json:"total_tokens"`
	Currency    string     `json:"currency"`
}

func applyTax(sub int, rate float64) (tax, total int) {
	if rate <= 0 {
		return 0, sub
	}
	t := int(math.Round(float64(sub) * rate))
	return t, sub + t
}
