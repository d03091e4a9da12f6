package domain

import (
	"context"

	"gorm.io/gorm"
)

// Currency 支持的结算货币
const (
	CurrencyCZK = "CZK"
	CurrencyEUR = "EUR"
)

// SupportedCurrency 校验货币是否受支持
func SupportedCurrency(currency string) bool {
	return currency == CurrencyCZK || currency == CurrencyEUR
}

// Product 商品实体
// 金额一律以最小货币单位（haléř/cent）的整数表示，库存量只允许通过库存台账变更
type Product struct {
	gorm.Model
	Name              string      `gorm:"column:name;type:varchar(100);not null" json:"name"`
	Description       string      `gorm:"column:description;type:text" json:"description"`
	PriceCents        int64       `gorm:"column:price_cents;not null" json:"price_cents"`
	Currency          string      `gorm:"column:currency;type:varchar(3);not null;default:'CZK'" json:"currency"`
	Available         bool        `gorm:"column:available;not null;default:true" json:"available"`
	Quantity          int         `gorm:"column:quantity;not null;default:0" json:"quantity"`
	LowStockThreshold int         `gorm:"column:low_stock_threshold;not null;default:5" json:"low_stock_threshold"`
	PriceTiers        []PriceTier `gorm:"foreignKey:ProductID" json:"price_tiers,omitempty"`
}

func (Product) TableName() string { return "products" }

// InStock 是否有库存
func (p *Product) InStock() bool { return p.Quantity > 0 }

// OutOfStock 是否无库存
func (p *Product) OutOfStock() bool { return p.Quantity == 0 }

// LowStock 库存是否已降至阈值及以下（但仍非零）
func (p *Product) LowStock() bool {
	return p.Quantity > 0 && p.Quantity <= p.LowStockThreshold
}

// SufficientStock 库存是否满足请求数量
func (p *Product) SufficientStock(quantity int) bool {
	return p.Quantity >= quantity
}

// CanFulfill 商品上架且库存充足
func (p *Product) CanFulfill(quantity int) bool {
	return p.Available && p.SufficientStock(quantity)
}

// ProductRepository 商品仓储接口
type ProductRepository interface {
	GetByID(ctx context.Context, id uint) (*Product, error)
	// ListAvailableByIDs 按 ID 批量加载上架商品（含价格梯度），以 ID 为键
	ListAvailableByIDs(ctx context.Context, ids []uint) (map[uint]*Product, error)
	List(ctx context.Context, offset, limit int) ([]*Product, int64, error)
}
