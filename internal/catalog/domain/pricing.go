package domain

import "github.com/shopspring/decimal"

// BestTierFor 在激活且覆盖给定数量的梯度中选出最具体的一档：
// min_quantity 最大者优先，相同 min_quantity 时优先级数值更小者优先。
// 无匹配时返回 nil。纯函数，无副作用。
func BestTierFor(tiers []PriceTier, quantity int) *PriceTier {
	var best *PriceTier
	for i := range tiers {
		t := &tiers[i]
		if !t.Active || !t.AppliesTo(quantity) {
			continue
		}
		if best == nil ||
			t.MinQuantity > best.MinQuantity ||
			(t.MinQuantity == best.MinQuantity && t.Priority < best.Priority) {
			best = t
		}
	}
	return best
}

// PriceFor 解析给定数量下的单价（最小货币单位）。
// 数量不超过 1 时直接使用基础单价；无匹配梯度时回退到基础单价。
func PriceFor(p *Product, quantity int) int64 {
	if quantity <= 1 {
		return p.PriceCents
	}
	if tier := BestTierFor(p.PriceTiers, quantity); tier != nil {
		return tier.PriceCents
	}
	return p.PriceCents
}

// SavingsPercent 梯度价相对基础价的节省百分比，保留两位小数。
// 梯度价不低于基础价时返回 0。仅用于展示，不参与结算。
func SavingsPercent(baseCents, tierCents int64) decimal.Decimal {
	if baseCents <= 0 || tierCents >= baseCents {
		return decimal.Zero
	}
	base := decimal.NewFromInt(baseCents)
	tier := decimal.NewFromInt(tierCents)
	return base.Sub(tier).Div(base).Mul(decimal.NewFromInt(100)).Round(2)
}
