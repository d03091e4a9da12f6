package application

import (
	"context"

	"github.com/lootea/commerce/internal/order/domain"
)

// OrderQueryService 订单查询服务
type OrderQueryService struct {
	orders domain.OrderRepository
}

// NewOrderQueryService 创建订单查询服务
func NewOrderQueryService(orders domain.OrderRepository) *OrderQueryService {
	return &OrderQueryService{orders: orders}
}

// GetOrder 获取指定用户的订单详情
func (s *OrderQueryService) GetOrder(ctx context.Context, userID, orderID uint) (*domain.Order, error) {
	return s.orders.GetByIDForUser(ctx, userID, orderID)
}

// ListOrders 分页列出用户订单
func (s *OrderQueryService) ListOrders(ctx context.Context, userID uint, page, pageSize int) ([]*domain.Order, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.orders.ListByUser(ctx, userID, pageSize, (page-1)*pageSize)
}
