package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func tieredProduct() *Product {
	return &Product{
		Name:       "Tapioka perly",
		PriceCents: 25000,
		Currency:   CurrencyCZK,
		Available:  true,
		PriceTiers: []PriceTier{
			{TierName: TierPack, MinQuantity: 12, MaxQuantity: intPtr(119), PriceCents: 22000, Currency: CurrencyCZK, Priority: 10, Active: true},
			{TierName: TierCarton, MinQuantity: 120, MaxQuantity: nil, PriceCents: 20000, Currency: CurrencyCZK, Priority: 20, Active: true},
		},
	}
}

func TestPriceForBasePrice(t *testing.T) {
	p := tieredProduct()

	assert.Equal(t, int64(25000), PriceFor(p, 1))
	assert.Equal(t, int64(25000), PriceFor(p, 0))
	// 无匹配梯度时回退到基础单价
	assert.Equal(t, int64(25000), PriceFor(p, 5))
}

func TestPriceForTierSelection(t *testing.T) {
	p := tieredProduct()

	tests := []struct {
		quantity int
		want     int64
	}{
		{1, 25000},
		{11, 25000},
		{12, 22000},
		{50, 22000},
		{119, 22000},
		{120, 20000},
		{500, 20000},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, PriceFor(p, tt.quantity), "quantity %d", tt.quantity)
	}
}

func TestPriceForIsDeterministic(t *testing.T) {
	p := tieredProduct()

	first := PriceFor(p, 50)
	second := PriceFor(p, 50)
	assert.Equal(t, first, second)
}

func TestBestTierForOverlappingRanges(t *testing.T) {
	tiers := []PriceTier{
		{TierName: TierPack, MinQuantity: 10, MaxQuantity: intPtr(200), PriceCents: 22000, Priority: 10, Active: true},
		{TierName: TierCarton, MinQuantity: 100, MaxQuantity: nil, PriceCents: 20000, Priority: 20, Active: true},
	}

	// 重叠区间内选 min_quantity 最大的一档
	best := BestTierFor(tiers, 150)
	require.NotNil(t, best)
	assert.Equal(t, 100, best.MinQuantity)

	// 相同 min_quantity 时取优先级数值更小者
	tiers = []PriceTier{
		{TierName: TierCustom, MinQuantity: 10, PriceCents: 21000, Priority: 50, Active: true},
		{TierName: TierPack, MinQuantity: 10, PriceCents: 22000, Priority: 10, Active: true},
	}
	best = BestTierFor(tiers, 20)
	require.NotNil(t, best)
	assert.Equal(t, TierPack, best.TierName)
}

func TestBestTierForIgnoresInactive(t *testing.T) {
	tiers := []PriceTier{
		{TierName: TierPack, MinQuantity: 10, PriceCents: 20000, Priority: 10, Active: false},
	}
	assert.Nil(t, BestTierFor(tiers, 50))
}

func TestSavingsPercent(t *testing.T) {
	assert.True(t, SavingsPercent(25000, 22000).Equal(decimal.NewFromFloat(12)))
	assert.True(t, SavingsPercent(25000, 20000).Equal(decimal.NewFromFloat(20)))
	// 梯度价不低于基础价时不显示负节省
	assert.True(t, SavingsPercent(25000, 25000).IsZero())
	assert.True(t, SavingsPercent(25000, 30000).IsZero())
	assert.True(t, SavingsPercent(0, 100).IsZero())
}

func TestPriceTierValidate(t *testing.T) {
	valid := PriceTier{TierName: TierPack, MinQuantity: 12, MaxQuantity: intPtr(119), PriceCents: 22000, Currency: CurrencyCZK}
	assert.NoError(t, valid.Validate())

	inverted := PriceTier{TierName: TierPack, MinQuantity: 12, MaxQuantity: intPtr(5), PriceCents: 22000, Currency: CurrencyCZK}
	assert.Error(t, inverted.Validate())

	badCurrency := PriceTier{TierName: TierPack, MinQuantity: 12, PriceCents: 22000, Currency: "USD"}
	assert.Error(t, badCurrency.Validate())

	zeroQty := PriceTier{TierName: TierPack, MinQuantity: 0, PriceCents: 22000, Currency: CurrencyCZK}
	assert.Error(t, zeroQty.Validate())
}

func TestDefaultPriority(t *testing.T) {
	assert.Equal(t, 0, DefaultPriority(TierSingle))
	assert.Equal(t, 10, DefaultPriority(TierPack))
	assert.Equal(t, 20, DefaultPriority(TierCarton))
	assert.Equal(t, 50, DefaultPriority(TierCustom))
	assert.Equal(t, 100, DefaultPriority("other"))
}

func TestQuantityRangeDescription(t *testing.T) {
	open := PriceTier{MinQuantity: 120}
	assert.Equal(t, "120+ ks", open.QuantityRangeDescription())

	bounded := PriceTier{MinQuantity: 12, MaxQuantity: intPtr(119)}
	assert.Equal(t, "12-119 ks", bounded.QuantityRangeDescription())

	exact := PriceTier{MinQuantity: 12, MaxQuantity: intPtr(12)}
	assert.Equal(t, "12 ks", exact.QuantityRangeDescription())
}
