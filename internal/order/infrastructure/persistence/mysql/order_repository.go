// Package mysql 订单仓储的 MySQL 实现
package mysql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lootea/commerce/internal/order/domain"
	"github.com/lootea/commerce/pkg/db"
)

// OrderRepository domain.OrderRepository 的 GORM 实现
type OrderRepository struct {
	db *db.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(database *db.DB) *OrderRepository {
	return &OrderRepository{db: database}
}

// getDB 优先使用 context 中的事务句柄
func (r *OrderRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := db.TxFrom(ctx); tx != nil {
		return tx
	}
	return r.db.DB.WithContext(ctx)
}

// queryDB 单条读取用；事务内读订单行加 FOR UPDATE，
// 串行化对同一订单的并发状态变更（如回调与取消同时到达）。
func (r *OrderRepository) queryDB(ctx context.Context) *gorm.DB {
	q := r.getDB(ctx)
	if db.TxFrom(ctx) != nil {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return q
}

// Create 实现 domain.OrderRepository.Create，行项随订单级联写入
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	if err := r.getDB(ctx).Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// GetByID 实现 domain.OrderRepository.GetByID
func (r *OrderRepository) GetByID(ctx context.Context, orderID uint) (*domain.Order, error) {
	var order domain.Order
	err := r.queryDB(ctx).Preload("Items").First(&order, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &order, nil
}

// GetByIDForUser 实现 domain.OrderRepository.GetByIDForUser
// 归属校验并入查询条件，他人订单与不存在的订单不可区分
func (r *OrderRepository) GetByIDForUser(ctx context.Context, userID, orderID uint) (*domain.Order, error) {
	var order domain.Order
	err := r.queryDB(ctx).
		Preload("Items").
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &order, nil
}

// GetByPaymentID 实现 domain.OrderRepository.GetByPaymentID
func (r *OrderRepository) GetByPaymentID(ctx context.Context, paymentID string) (*domain.Order, error) {
	if paymentID == "" {
		return nil, domain.ErrOrderNotFound
	}
	var order domain.Order
	err := r.queryDB(ctx).
		Preload("Items").
		Where("payment_id = ?", paymentID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order by payment id: %w", err)
	}
	return &order, nil
}

// Save 实现 domain.OrderRepository.Save
// 只更新状态与支付字段，行项与金额在创建后不可变更
func (r *OrderRepository) Save(ctx context.Context, order *domain.Order) error {
	result := r.getDB(ctx).Model(&domain.Order{}).
		Where("id = ?", order.ID).
		Updates(map[string]interface{}{
			"status":         order.Status,
			"payment_status": order.PaymentStatus,
			"payment_id":     order.PaymentID,
			"payment_url":    order.PaymentURL,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to save order: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// ListByUser 实现 domain.OrderRepository.ListByUser
func (r *OrderRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*domain.Order, int64, error) {
	var total int64
	if err := r.getDB(ctx).Model(&domain.Order{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []*domain.Order
	err := r.getDB(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&orders).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, total, nil
}

// Transaction 实现 domain.OrderRepository.Transaction
func (r *OrderRepository) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.db.Transaction(ctx, fn)
}
