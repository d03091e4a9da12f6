// Package application 商品目录用例：列表、详情与批量报价
package application

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/lootea/commerce/internal/catalog/domain"
)

// PriceQuote 指定数量下的价格报价
type PriceQuote struct {
	ProductID      uint   `json:"product_id"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	TotalCents     int64  `json:"total_cents"`
	BasePriceCents int64  `json:"base_price_cents"`
	Currency       string `json:"currency"`
	TierName       string `json:"tier_name,omitempty"`
	QuantityRange  string `json:"quantity_range,omitempty"`
	SavingsPercent string `json:"savings_percent"`
}

// ProductService 商品查询服务
type ProductService struct {
	products domain.ProductRepository
}

// NewProductService 创建商品查询服务
func NewProductService(products domain.ProductRepository) *ProductService {
	return &ProductService{products: products}
}

// GetProduct 获取商品详情（含价格梯度）
func (s *ProductService) GetProduct(ctx context.Context, id uint) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}

// ListProducts 分页列出商品
func (s *ProductService) ListProducts(ctx context.Context, page, pageSize int) ([]*domain.Product, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.products.List(ctx, (page-1)*pageSize, pageSize)
}

// QuotePrice 计算指定数量下的单价、总价与相对基础价的优惠幅度
func (s *ProductService) QuotePrice(ctx context.Context, id uint, quantity int) (*PriceQuote, error) {
	if quantity < 1 {
		quantity = 1
	}

	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	unitPrice := domain.PriceFor(product, quantity)
	quote := &PriceQuote{
		ProductID:      product.ID,
		Quantity:       quantity,
		UnitPriceCents: unitPrice,
		TotalCents:     unitPrice * int64(quantity),
		BasePriceCents: product.PriceCents,
		Currency:       product.Currency,
		SavingsPercent: decimal.Zero.StringFixed(2),
	}

	if tier := domain.BestTierFor(product.PriceTiers, quantity); tier != nil && quantity > 1 {
		quote.TierName = tier.TierName
		quote.QuantityRange = tier.QuantityRangeDescription()
		quote.SavingsPercent = domain.SavingsPercent(product.PriceCents, unitPrice).StringFixed(2)
	}

	return quote, nil
}
