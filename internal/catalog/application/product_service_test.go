package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lootea/commerce/internal/catalog/domain"
)

type fakeProducts struct {
	products map[uint]*domain.Product
}

func (f *fakeProducts) GetByID(ctx context.Context, id uint) (*domain.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (f *fakeProducts) ListAvailableByIDs(ctx context.Context, ids []uint) (map[uint]*domain.Product, error) {
	return f.products, nil
}

func (f *fakeProducts) List(ctx context.Context, offset, limit int) ([]*domain.Product, int64, error) {
	var result []*domain.Product
	for _, p := range f.products {
		result = append(result, p)
	}
	return result, int64(len(result)), nil
}

func tieredProduct() *domain.Product {
	max119 := 119
	p := &domain.Product{
		Name:       "Matcha Premium",
		PriceCents: 25000,
		Currency:   domain.CurrencyCZK,
		Available:  true,
		Quantity:   500,
		PriceTiers: []domain.PriceTier{
			{ProductID: 1, TierName: "1bal", Currency: domain.CurrencyCZK, MinQuantity: 12, MaxQuantity: &max119, PriceCents: 22000, Priority: 20, Active: true},
			{ProductID: 1, TierName: "10bal", Currency: domain.CurrencyCZK, MinQuantity: 120, PriceCents: 20000, Priority: 50, Active: true},
		},
	}
	p.ID = 1
	return p
}

func TestQuotePriceWithTier(t *testing.T) {
	svc := NewProductService(&fakeProducts{products: map[uint]*domain.Product{1: tieredProduct()}})

	quote, err := svc.QuotePrice(context.Background(), 1, 50)
	require.NoError(t, err)

	assert.Equal(t, int64(22000), quote.UnitPriceCents)
	assert.Equal(t, int64(50*22000), quote.TotalCents)
	assert.Equal(t, int64(25000), quote.BasePriceCents)
	assert.Equal(t, "1bal", quote.TierName)
	// 22000 相对 25000 优惠 12%
	assert.Equal(t, "12.00", quote.SavingsPercent)
}

func TestQuotePriceSingleUnitUsesBasePrice(t *testing.T) {
	svc := NewProductService(&fakeProducts{products: map[uint]*domain.Product{1: tieredProduct()}})

	quote, err := svc.QuotePrice(context.Background(), 1, 1)
	require.NoError(t, err)

	assert.Equal(t, int64(25000), quote.UnitPriceCents)
	assert.Empty(t, quote.TierName)
	assert.Equal(t, "0.00", quote.SavingsPercent)
}

func TestQuotePriceUnknownProduct(t *testing.T) {
	svc := NewProductService(&fakeProducts{products: map[uint]*domain.Product{}})

	_, err := svc.QuotePrice(context.Background(), 99, 1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
