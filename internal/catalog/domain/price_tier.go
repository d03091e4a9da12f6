package domain

import (
	"fmt"

	"gorm.io/gorm"
)

// 价格梯度名称
const (
	TierSingle = "1ks"    // 单件
	TierPack   = "1bal"   // 单包
	TierCarton = "10bal"  // 整箱
	TierCustom = "custom" // 自定义数量折扣
)

// PriceTier 数量区间价格梯度，覆盖商品基础单价
// MaxQuantity 为 nil 时表示区间无上界
type PriceTier struct {
	gorm.Model
	ProductID   uint   `gorm:"column:product_id;index;not null" json:"product_id"`
	TierName    string `gorm:"column:tier_name;type:varchar(20);not null" json:"tier_name"`
	MinQuantity int    `gorm:"column:min_quantity;not null" json:"min_quantity"`
	MaxQuantity *int   `gorm:"column:max_quantity" json:"max_quantity,omitempty"`
	PriceCents  int64  `gorm:"column:price_cents;not null" json:"price_cents"`
	Currency    string `gorm:"column:currency;type:varchar(3);not null;default:'CZK'" json:"currency"`
	Priority    int    `gorm:"column:priority;not null;default:0" json:"priority"`
	Active      bool   `gorm:"column:active;not null;default:true" json:"active"`
}

func (PriceTier) TableName() string { return "product_price_tiers" }

// AppliesTo 梯度是否覆盖给定数量
func (t *PriceTier) AppliesTo(quantity int) bool {
	if quantity < t.MinQuantity {
		return false
	}
	return t.MaxQuantity == nil || quantity <= *t.MaxQuantity
}

// Validate 校验梯度定义
func (t *PriceTier) Validate() error {
	if t.MinQuantity <= 0 {
		return fmt.Errorf("min_quantity must be positive")
	}
	if t.MaxQuantity != nil && *t.MaxQuantity < t.MinQuantity {
		return fmt.Errorf("max_quantity must be greater than or equal to min_quantity")
	}
	if t.PriceCents <= 0 {
		return fmt.Errorf("price_cents must be positive")
	}
	if !SupportedCurrency(t.Currency) {
		return fmt.Errorf("unsupported currency: %s", t.Currency)
	}
	return nil
}

// DefaultPriority 按梯度名称推导默认优先级，数值越小优先级越高
func DefaultPriority(tierName string) int {
	switch tierName {
	case TierSingle:
		return 0
	case TierPack:
		return 10
	case TierCarton:
		return 20
	case TierCustom:
		return 50
	default:
		return 100
	}
}

// QuantityRangeDescription 数量区间的展示文案
func (t *PriceTier) QuantityRangeDescription() string {
	if t.MaxQuantity == nil {
		return fmt.Sprintf("%d+ ks", t.MinQuantity)
	}
	if t.MinQuantity == *t.MaxQuantity {
		return fmt.Sprintf("%d ks", t.MinQuantity)
	}
	return fmt.Sprintf("%d-%d ks", t.MinQuantity, *t.MaxQuantity)
}
