// Package mysql 基于 GORM 行锁实现库存台账
package mysql

import (
	"context"

	catalogdomain "github.com/lootea/commerce/internal/catalog/domain"
	"github.com/lootea/commerce/internal/inventory/domain"
	"github.com/lootea/commerce/pkg/db"
	"github.com/lootea/commerce/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StockLedger domain.StockLedger 的 MySQL 实现
// 调用方已开启事务时（ctx 中携带事务句柄）复用该事务，否则自行开启
type StockLedger struct {
	base     *gorm.DB
	notifier domain.LowStockNotifier
}

// NewStockLedger 创建库存台账；notifier 可为 nil
func NewStockLedger(base *gorm.DB, notifier domain.LowStockNotifier) *StockLedger {
	return &StockLedger{base: base, notifier: notifier}
}

func (l *StockLedger) getDB(ctx context.Context) *gorm.DB {
	if tx := db.TxFrom(ctx); tx != nil {
		return tx
	}
	return l.base
}

// Reserve 实现 domain.StockLedger.Reserve。
// SELECT ... FOR UPDATE 锁定商品行后重新检查库存，再原子扣减，
// 保证并发预留同一商品时串行执行而不是基于过期读数双双通过检查。
func (l *StockLedger) Reserve(ctx context.Context, productID uint, quantity int) error {
	if quantity <= 0 {
		return domain.ErrInvalidQuantity
	}

	run := func(tx *gorm.DB) error {
		var p catalogdomain.Product
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, productID).Error; err != nil {
			return err
		}

		if p.Quantity < quantity {
			return &domain.InsufficientStockError{
				ProductID:   p.ID,
				ProductName: p.Name,
				Requested:   quantity,
				Available:   p.Quantity,
			}
		}

		wasLow := p.LowStock()

		if err := tx.Model(&catalogdomain.Product{}).
			Where("id = ?", productID).
			UpdateColumn("quantity", gorm.Expr("quantity - ?", quantity)).Error; err != nil {
			return err
		}

		remaining := p.Quantity - quantity
		logger.Info(ctx, "Stock reserved",
			"product_id", p.ID,
			"quantity", quantity,
			"remaining", remaining,
		)

		// 跨过阈值时告警，不阻塞预留
		if !wasLow && remaining <= p.LowStockThreshold {
			logger.Warn(ctx, "Low stock threshold crossed",
				"product_id", p.ID,
				"product_name", p.Name,
				"remaining", remaining,
				"threshold", p.LowStockThreshold,
			)
			if l.notifier != nil {
				l.notifier.NotifyLowStock(ctx, domain.LowStockAlert{
					ProductID:   p.ID,
					ProductName: p.Name,
					Quantity:    remaining,
					Threshold:   p.LowStockThreshold,
				})
			}
		}

		return nil
	}

	if tx := db.TxFrom(ctx); tx != nil {
		return run(tx)
	}
	return l.base.WithContext(ctx).Transaction(run)
}

// Release 实现 domain.StockLedger.Release。
// 单调递增不需要行锁，但仍走原子更新路径避免丢失更新。
func (l *StockLedger) Release(ctx context.Context, productID uint, quantity int) error {
	if quantity <= 0 {
		return domain.ErrInvalidQuantity
	}

	result := l.getDB(ctx).WithContext(ctx).Model(&catalogdomain.Product{}).
		Where("id = ?", productID).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.Info(ctx, "Stock released",
		"product_id", productID,
		"quantity", quantity,
	)
	return nil
}
