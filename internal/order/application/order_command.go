// Package application 实现订单用例：下单、发起支付、取消
package application

import (
	"context"
	"fmt"
	"time"

	catalogdomain "github.com/lootea/commerce/internal/catalog/domain"
	inventorydomain "github.com/lootea/commerce/internal/inventory/domain"
	"github.com/lootea/commerce/internal/order/domain"
	"github.com/lootea/commerce/pkg/logger"
	"github.com/lootea/commerce/pkg/metrics"
)

// OrderItemInput 下单行项输入
type OrderItemInput struct {
	ProductID uint
	Quantity  int
}

// CreateOrderCommand 下单命令
type CreateOrderCommand struct {
	UserID        uint
	CustomerEmail string
	CustomerName  string
	Currency      string
	Items         []OrderItemInput
}

// OrderCommandService 订单命令服务
type OrderCommandService struct {
	orders    domain.OrderRepository
	products  catalogdomain.ProductRepository
	ledger    inventorydomain.StockLedger
	gateway   domain.PaymentGateway
	publisher domain.EventPublisher
	metrics   *metrics.Metrics
}

// NewOrderCommandService 创建订单命令服务；publisher 与 metrics 可为 nil
func NewOrderCommandService(
	orders domain.OrderRepository,
	products catalogdomain.ProductRepository,
	ledger inventorydomain.StockLedger,
	gateway domain.PaymentGateway,
	publisher domain.EventPublisher,
	m *metrics.Metrics,
) *OrderCommandService {
	return &OrderCommandService{
		orders:    orders,
		products:  products,
		ledger:    ledger,
		gateway:   gateway,
		publisher: publisher,
		metrics:   m,
	}
}

func (s *OrderCommandService) validateCreate(cmd CreateOrderCommand) error {
	var messages []string
	if len(cmd.Items) == 0 {
		messages = append(messages, "order must contain at least one item")
	}
	if !catalogdomain.SupportedCurrency(cmd.Currency) {
		messages = append(messages, fmt.Sprintf("unsupported currency %q, supported: CZK, EUR", cmd.Currency))
	}
	if cmd.CustomerEmail == "" {
		messages = append(messages, "customer email is required")
	}
	for _, item := range cmd.Items {
		if item.Quantity <= 0 {
			messages = append(messages, fmt.Sprintf("quantity for product %d must be positive", item.ProductID))
		}
	}
	if len(messages) > 0 {
		return &domain.ValidationError{Messages: messages}
	}
	return nil
}

// CreateOrder 创建订单。
// 加载商品、解析梯度单价、预检库存、写入订单与行项、逐项预留库存，
// 全部步骤在单个数据库事务内完成；任一步失败则整体回滚，调用方永远看不到半成品订单。
// 预检只是快速失败的优化，真正的防超卖保证来自台账 Reserve 的行锁扣减。
func (s *OrderCommandService) CreateOrder(ctx context.Context, cmd CreateOrderCommand) (*domain.Order, error) {
	if err := s.validateCreate(cmd); err != nil {
		return nil, err
	}

	var order *domain.Order

	err := s.orders.Transaction(ctx, func(txCtx context.Context) error {
		ids := make([]uint, len(cmd.Items))
		for i, item := range cmd.Items {
			ids[i] = item.ProductID
		}

		products, err := s.products.ListAvailableByIDs(txCtx, ids)
		if err != nil {
			return fmt.Errorf("failed to load products: %w", err)
		}

		var missing []uint
		for _, id := range ids {
			if _, ok := products[id]; !ok {
				missing = append(missing, id)
			}
		}
		if len(missing) > 0 {
			return &domain.ProductUnavailableError{ProductIDs: missing}
		}

		var totalCents int64
		orderItems := make([]domain.OrderItem, 0, len(cmd.Items))
		for _, item := range cmd.Items {
			product := products[item.ProductID]

			if !product.CanFulfill(item.Quantity) {
				return &inventorydomain.InsufficientStockError{
					ProductID:   product.ID,
					ProductName: product.Name,
					Requested:   item.Quantity,
					Available:   product.Quantity,
				}
			}

			unitPrice := catalogdomain.PriceFor(product, item.Quantity)
			totalCents += unitPrice * int64(item.Quantity)
			orderItems = append(orderItems, domain.OrderItem{
				ProductID:      item.ProductID,
				Quantity:       item.Quantity,
				UnitPriceCents: unitPrice,
			})
		}

		order = &domain.Order{
			UserID:        cmd.UserID,
			TotalCents:    totalCents,
			Currency:      cmd.Currency,
			Status:        domain.OrderStatusPending,
			PaymentStatus: domain.PaymentStatusNone,
			CustomerEmail: cmd.CustomerEmail,
			CustomerName:  cmd.CustomerName,
			Items:         orderItems,
		}

		if err := s.orders.Create(txCtx, order); err != nil {
			return fmt.Errorf("failed to persist order: %w", err)
		}

		for _, item := range cmd.Items {
			if err := s.ledger.Reserve(txCtx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "Order created",
		"order_id", order.ID,
		"user_id", order.UserID,
		"total_cents", order.TotalCents,
		"currency", order.Currency,
	)

	if s.metrics != nil {
		s.metrics.OrdersTotal.Inc()
		s.metrics.StockReservedTotal.Add(float64(len(order.Items)))
	}
	if s.publisher != nil {
		s.publisher.PublishOrderCreated(ctx, domain.OrderCreatedEvent{
			OrderID:    order.ID,
			UserID:     order.UserID,
			TotalCents: order.TotalCents,
			Currency:   order.Currency,
			ItemCount:  len(order.Items),
			CreatedAt:  time.Now(),
		})
	}

	return order, nil
}

// PayOrder 为既有订单发起支付。
// 网关失败直接上报，不在此处自动重试。
func (s *OrderCommandService) PayOrder(ctx context.Context, userID, orderID uint) (*domain.PaymentResult, error) {
	order, err := s.orders.GetByIDForUser(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}

	if !order.IsPending() {
		return nil, &domain.OrderNotPayableError{OrderID: order.ID, Status: order.Status}
	}
	if order.HasActivePayment() {
		return nil, domain.ErrPaymentAlreadyExists
	}

	result, err := s.gateway.CreatePayment(ctx, order)
	if err != nil {
		logger.Error(ctx, "Payment creation failed",
			"order_id", order.ID,
			"error", err,
		)
		return nil, err
	}

	order.PaymentID = result.PaymentID
	order.PaymentURL = result.PaymentURL
	order.PaymentStatus = domain.PaymentStatusPending
	if err := s.orders.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to persist payment info: %w", err)
	}

	logger.Info(ctx, "Payment created",
		"order_id", order.ID,
		"payment_id", result.PaymentID,
	)
	if s.metrics != nil {
		s.metrics.PaymentsTotal.Inc()
	}

	return result, nil
}

// CancelOrder 取消订单并归还库存。
// 状态变更与库存释放在同一事务内完成，不依赖提交后回调。
func (s *OrderCommandService) CancelOrder(ctx context.Context, userID, orderID uint) error {
	var cancelled *domain.Order
	var hadPendingPayment bool

	err := s.orders.Transaction(ctx, func(txCtx context.Context) error {
		order, err := s.orders.GetByIDForUser(txCtx, userID, orderID)
		if err != nil {
			return err
		}

		if !order.CanBeCancelled() {
			return domain.ErrOrderNotCancellable
		}

		hadPendingPayment = order.PaymentStatus == domain.PaymentStatusPending
		order.Status = domain.OrderStatusCancelled
		order.PaymentStatus = domain.PaymentStatusCancelled
		if err := s.orders.Save(txCtx, order); err != nil {
			return fmt.Errorf("failed to persist cancellation: %w", err)
		}

		for _, item := range order.Items {
			if err := s.ledger.Release(txCtx, item.ProductID, item.Quantity); err != nil {
				return fmt.Errorf("failed to release stock for product %d: %w", item.ProductID, err)
			}
		}

		cancelled = order
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "Order cancelled",
		"order_id", cancelled.ID,
		"user_id", cancelled.UserID,
	)

	// 网关侧取消是尽力而为：失败只记录，本地取消已生效
	if hadPendingPayment && cancelled.PaymentID != "" {
		if err := s.gateway.CancelPayment(ctx, cancelled.PaymentID); err != nil {
			logger.Warn(ctx, "Gateway payment cancellation failed",
				"order_id", cancelled.ID,
				"payment_id", cancelled.PaymentID,
				"error", err,
			)
		}
	}

	if s.metrics != nil {
		s.metrics.OrdersCancelledTotal.Inc()
	}
	if s.publisher != nil {
		s.publisher.PublishOrderCancelled(ctx, domain.OrderCancelledEvent{
			OrderID:     cancelled.ID,
			UserID:      cancelled.UserID,
			CancelledAt: time.Now(),
		})
	}

	return nil
}
