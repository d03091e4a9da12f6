package domain

import "context"

// OrderRepository 订单仓储接口
type OrderRepository interface {
	// Create 持久化订单及其全部行项
	Create(ctx context.Context, order *Order) error
	// GetByID 按主键获取订单（含行项）
	GetByID(ctx context.Context, orderID uint) (*Order, error)
	// GetByIDForUser 按主键获取指定用户的订单（含行项）
	GetByIDForUser(ctx context.Context, userID, orderID uint) (*Order, error)
	// GetByPaymentID 按网关交易号获取订单（含行项）
	GetByPaymentID(ctx context.Context, paymentID string) (*Order, error)
	// Save 保存订单状态字段的变更
	Save(ctx context.Context, order *Order) error
	// ListByUser 分页列出用户订单，最新优先
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*Order, int64, error)
	// Transaction 在单个数据库事务内执行回调；回调返回错误时整体回滚
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// PaymentResult 网关创建支付的结果
type PaymentResult struct {
	PaymentID  string
	PaymentURL string
}

// PaymentGateway 支付网关接口（外部 HTTP 协作方的抽象）
type PaymentGateway interface {
	// CreatePayment 为订单创建支付，返回网关交易号与跳转地址
	CreatePayment(ctx context.Context, order *Order) (*PaymentResult, error)
	// CancelPayment 取消网关侧支付
	CancelPayment(ctx context.Context, paymentID string) error
}
