// Package domain 包含订单聚合的领域模型：订单、订单行项与支付状态机
package domain

import (
	"gorm.io/gorm"
)

// OrderStatus 订单状态
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// PaymentStatus 支付状态
type PaymentStatus string

const (
	PaymentStatusNone      PaymentStatus = "no_payment"
	PaymentStatusPending   PaymentStatus = "payment_pending"
	PaymentStatusCompleted PaymentStatus = "payment_completed"
	PaymentStatusFailed    PaymentStatus = "payment_failed"
	PaymentStatusCancelled PaymentStatus = "payment_cancelled"
)

// Order 订单实体
// 创建后 total_cents 与行项不可变更；取消/退款建模为状态变化而非行项修改。
// payment_id / payment_url 为空字符串时表示尚未发起支付。
type Order struct {
	gorm.Model
	UserID        uint          `gorm:"column:user_id;index;not null" json:"user_id"`
	TotalCents    int64         `gorm:"column:total_cents;not null" json:"total_cents"`
	Currency      string        `gorm:"column:currency;type:varchar(3);not null" json:"currency"`
	Status        OrderStatus   `gorm:"column:status;type:varchar(20);index;not null;default:'pending'" json:"status"`
	PaymentStatus PaymentStatus `gorm:"column:payment_status;type:varchar(20);index;not null;default:'no_payment'" json:"payment_status"`
	PaymentID     string        `gorm:"column:payment_id;type:varchar(64);index" json:"payment_id,omitempty"`
	PaymentURL    string        `gorm:"column:payment_url;type:varchar(512)" json:"payment_url,omitempty"`
	CustomerEmail string        `gorm:"column:customer_email;type:varchar(255);not null" json:"customer_email"`
	CustomerName  string        `gorm:"column:customer_name;type:varchar(255)" json:"customer_name"`
	Items         []OrderItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

func (Order) TableName() string { return "orders" }

// OrderItem 订单行项，单价在下单时刻快照，不随后续调价变化
type OrderItem struct {
	gorm.Model
	OrderID        uint  `gorm:"column:order_id;index;not null" json:"order_id"`
	ProductID      uint  `gorm:"column:product_id;index;not null" json:"product_id"`
	Quantity       int   `gorm:"column:quantity;not null" json:"quantity"`
	UnitPriceCents int64 `gorm:"column:unit_price_cents;not null" json:"unit_price_cents"`
}

func (OrderItem) TableName() string { return "order_items" }

// TotalCents 行项小计
func (i *OrderItem) TotalCents() int64 {
	return int64(i.Quantity) * i.UnitPriceCents
}

// IsPending 是否待支付
func (o *Order) IsPending() bool { return o.Status == OrderStatusPending }

// CanBeCancelled 仅待处理或支付进行中的订单可以取消
func (o *Order) CanBeCancelled() bool {
	return o.Status == OrderStatusPending || o.PaymentStatus == PaymentStatusPending
}

// HasActivePayment 是否已存在进行中或已完成的支付
func (o *Order) HasActivePayment() bool {
	return o.PaymentStatus == PaymentStatusPending || o.PaymentStatus == PaymentStatusCompleted
}
