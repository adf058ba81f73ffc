package pricing

import "sort"

// variant is a pack expanded for DP: an eligible first-purchase double
// becomes a second SKU with the doubled base grant. The DP is unbounded
// per variant, so callers clear FirstTimeState entries once consumed
// rather than the optimizer rationing them.
type variant struct {
	id     string
	name   string
	tokens int
	price  int
}

func expandVariants(cat Catalog, first FirstTimeState) []variant {
	var vs []variant
	for _, p := range cat.Packs {
		if p.Tokens <= 0 && p.BonusTokens <= 0 {
			continue
		}
		if p.FirstTimeX2 && first != nil && first[p.ID] {
			vs = append(vs, variant{
				id:     p.ID + "#x2",
				name:   p.Name + " (x2)",
				tokens: p.Tokens*2 + p.BonusTokens, // double applies to the base grant only
				price:  p.PriceCents,
			})
		}
		vs = append(vs, variant{
			id:     p.ID,
			name:   p.Name,
			tokens: p.Tokens + p.BonusTokens,
			price:  p.PriceCents,
		})
	}
	return vs
}

// CheapestPlanForTokens finds the minimum-cost pack combination granting
// at least targetTokens. Unbounded quantities per pack; slight token
// overshoot is allowed whenever it is cheaper.
func CheapestPlanForTokens(cat Catalog, targetTokens int, first FirstTimeState) Plan {
	if targetTokens <= 0 {
		return Plan{Currency: cat.Currency}
	}
	vs := expandVariants(cat, first)
	if len(vs) == 0 {
		return Plan{Currency: cat.Currency}
	}

	maxTok := 0
	for _, v := range vs {
		if v.tokens > maxTok {
			maxTok = v.tokens
		}
	}
	// dp[t] = min cost to hold exactly t tokens (capped at limit so one
	// oversized pack can still cover the target)
	limit := targetTokens + maxTok
	const inf = int(^uint(0) >> 1)
	dp := make([]int, limit+1)
	pick := make([]int, limit+1)
	prev := make([]int, limit+1)
	for t := 1; t <= limit; t++ {
		dp[t] = inf
		pick[t] = -1
		prev[t] = -1
	}

	for t := 0; t <= limit; t++ {
		if dp[t] == inf {
			continue
		}
		for i, v := range vs {
			nt := t + v.tokens
			if nt > limit {
				nt = limit
			}
			if cost := dp[t] + v.price; cost < dp[nt] {
				dp[nt] = cost
				pick[nt] = i
				prev[nt] = t
			}
		}
	}

	bestT := targetTokens
	for t := targetTokens; t <= limit; t++ {
		if dp[t] < dp[bestT] {
			bestT = t
		}
	}
	if dp[bestT] == inf {
		return Plan{Currency: cat.Currency}
	}

	counts := make(map[int]int) // variant index -> qty
	for t := bestT; t > 0 && pick[t] != -1; t = prev[t] {
		counts[pick[t]]++
	}

	plan := Plan{Currency: cat.Currency}
	idxs := make([]int, 0, len(counts))
	for i := range counts {
		idxs = append(idxs, i)
	}
	sort.Ints(idxs) // stable line-item order
	for _, i := range idxs {
		v, qty := vs[i], counts[i]
		sub := v.price * qty
		plan.Purchases = append(plan.Purchases, Purchase{
			PackID:     v.id,
			Name:       v.name,
			Qty:        qty,
			UnitPrice:  v.price,
			UnitTokens: v.tokens,
			Subtotal:   sub,
		})
		plan.SubCents += sub
		plan.TotalTokens += v.tokens * qty
	}
	plan.TaxCents, plan.TotalCents = applyTax(plan.SubCents, cat.TaxRate)
	return plan
}
