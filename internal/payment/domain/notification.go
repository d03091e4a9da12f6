// Package domain 支付回调的领域模型：通知结构、状态映射与签名校验
package domain

import (
	"strings"

	orderdomain "github.com/lootea/commerce/internal/order/domain"
)

// 网关侧支付状态词汇
const (
	GatewayStatusPaid      = "PAID"
	GatewayStatusCancelled = "CANCELLED"
	GatewayStatusTimeout   = "TIMEOUT"
	GatewayStatusPending   = "PENDING"
)

// Notification 网关支付回调通知
// 九个字段的顺序即签名串的拼接顺序，不可调整
type Notification struct {
	TransactionID string `form:"transId" json:"transId"`
	ReferenceID   string `form:"refId" json:"refId"`
	Status        string `form:"status" json:"status"`
	Price         string `form:"price" json:"price"`
	Currency      string `form:"curr" json:"curr"`
	Label         string `form:"label" json:"label"`
	Method        string `form:"method" json:"method"`
	Email         string `form:"email" json:"email"`
	Test          string `form:"test" json:"test"`
}

// Validate 校验必填字段，缺失时返回 MalformedWebhookError
func (n *Notification) Validate() error {
	var missing []string
	if n.TransactionID == "" {
		missing = append(missing, "transId")
	}
	if n.ReferenceID == "" {
		missing = append(missing, "refId")
	}
	if n.Status == "" {
		missing = append(missing, "status")
	}
	if len(missing) > 0 {
		return &MalformedWebhookError{MissingFields: missing}
	}
	return nil
}

// SignatureData 返回参与 HMAC 计算的签名串：九个字段按固定顺序以竖线连接
func (n *Notification) SignatureData() string {
	return strings.Join([]string{
		n.TransactionID,
		n.ReferenceID,
		n.Status,
		n.Price,
		n.Currency,
		n.Label,
		n.Method,
		n.Email,
		n.Test,
	}, "|")
}

// IsTest 回调是否来自测试支付
func (n *Notification) IsTest() bool {
	return n.Test == "true"
}

// MapStatus 将网关状态词汇映射为内部支付状态，大小写不敏感
func MapStatus(gatewayStatus string) (orderdomain.PaymentStatus, error) {
	switch strings.ToUpper(gatewayStatus) {
	case GatewayStatusPaid:
		return orderdomain.PaymentStatusCompleted, nil
	case GatewayStatusCancelled:
		return orderdomain.PaymentStatusCancelled, nil
	case GatewayStatusTimeout:
		return orderdomain.PaymentStatusFailed, nil
	case GatewayStatusPending:
		return orderdomain.PaymentStatusPending, nil
	default:
		return "", &UnknownStatusError{Status: gatewayStatus}
	}
}
