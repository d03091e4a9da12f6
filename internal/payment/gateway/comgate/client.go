// Package comgate Comgate 支付网关的 HTTP 客户端
package comgate

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	orderdomain "github.com/lootea/commerce/internal/order/domain"
	"github.com/lootea/commerce/pkg/logger"
)

// DefaultBaseURL Comgate API 地址
const DefaultBaseURL = "https://payments.comgate.cz/v2.0"

// 错误类别
const (
	ErrKindConfig = "config"
	ErrKindAPI    = "api"
)

// GatewayError 网关调用错误
type GatewayError struct {
	Kind    string
	Message string
	Err     error
}

func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("comgate %s error: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("comgate %s error: %s", e.Kind, e.Message)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// Config 网关配置
type Config struct {
	BaseURL        string
	MerchantID     string
	Secret         string
	TestMode       bool
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
}

// Client orderdomain.PaymentGateway 的 Comgate 实现
type Client struct {
	http     *resty.Client
	testMode bool
}

// NewClient 创建网关客户端，凭据缺失时直接报配置错误
func NewClient(cfg Config) (*Client, error) {
	var missing []string
	if cfg.MerchantID == "" {
		missing = append(missing, "merchant_id")
	}
	if cfg.Secret == "" {
		missing = append(missing, "secret")
	}
	if len(missing) > 0 {
		return nil, &GatewayError{
			Kind:    ErrKindConfig,
			Message: "missing credentials: " + strings.Join(missing, ", "),
		}
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 30 * time.Second
	}

	http := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetBasicAuth(cfg.MerchantID, cfg.Secret).
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.ReadTimeout)
	http.GetClient().Transport = transportWithConnectTimeout(cfg.ConnectTimeout)

	return &Client{http: http, testMode: cfg.TestMode}, nil
}

// transportWithConnectTimeout 连接超时与读超时分开控制
func transportWithConnectTimeout(timeout time.Duration) *http.Transport {
	return &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: timeout,
	}
}

type createPaymentRequest struct {
	Test     bool   `json:"test"`
	Price    int64  `json:"price"`
	Curr     string `json:"curr"`
	Label    string `json:"label"`
	RefID    string `json:"refId"`
	Method   string `json:"method"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Lang     string `json:"lang"`
	Country  string `json:"country"`
}

type createPaymentResponse struct {
	Code     int    `json:"code"`
	Message  string `json:"message"`
	TransID  string `json:"transId"`
	Redirect string `json:"redirect"`
}

// PaymentStatus 网关侧支付状态快照
type PaymentStatus struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Test     bool   `json:"test"`
	Price    string `json:"price"`
	Currency string `json:"curr"`
}

type verifyPaymentResponse struct {
	Code     int    `json:"code"`
	Message  string `json:"message"`
	Status   string `json:"status"`
	Test     bool   `json:"test"`
	Price    string `json:"price"`
	Currency string `json:"curr"`
}

type cancelPaymentResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// CreatePayment 实现 orderdomain.PaymentGateway.CreatePayment
func (c *Client) CreatePayment(ctx context.Context, order *orderdomain.Order) (*orderdomain.PaymentResult, error) {
	if order == nil || order.TotalCents <= 0 || order.Currency == "" || order.CustomerEmail == "" {
		return nil, &GatewayError{Kind: ErrKindConfig, Message: "order is not payable via gateway"}
	}

	fullName := order.CustomerName
	if fullName == "" {
		fullName = order.CustomerEmail
	}

	payload := createPaymentRequest{
		Test:     c.testMode,
		Price:    order.TotalCents,
		Curr:     order.Currency,
		Label:    fmt.Sprintf("Order #%d", order.ID),
		RefID:    fmt.Sprintf("%d", order.ID),
		Method:   "ALL",
		Email:    order.CustomerEmail,
		FullName: fullName,
		Lang:     "cs",
		Country:  "CZ",
	}

	var result createPaymentResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&result).
		Post("/payment.json")
	if err != nil {
		return nil, &GatewayError{Kind: ErrKindAPI, Message: "payment creation request failed", Err: err}
	}
	if !resp.IsSuccess() {
		return nil, &GatewayError{Kind: ErrKindAPI, Message: fmt.Sprintf("HTTP %d", resp.StatusCode())}
	}
	if result.Code != 0 {
		msg := result.Message
		if msg == "" {
			msg = "unknown payment error"
		}
		return nil, &GatewayError{Kind: ErrKindAPI, Message: msg}
	}

	logger.Info(ctx, "Comgate payment created",
		"order_id", order.ID,
		"transaction_id", result.TransID,
		"test", c.testMode,
	)

	return &orderdomain.PaymentResult{
		PaymentID:  result.TransID,
		PaymentURL: result.Redirect,
	}, nil
}

// VerifyPayment 查询网关侧支付状态
func (c *Client) VerifyPayment(ctx context.Context, paymentID string) (*PaymentStatus, error) {
	if paymentID == "" {
		return nil, &GatewayError{Kind: ErrKindConfig, Message: "payment id cannot be blank"}
	}

	var result verifyPaymentResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&result).
		Get(fmt.Sprintf("/payment/transId/%s.json", paymentID))
	if err != nil {
		return nil, &GatewayError{Kind: ErrKindAPI, Message: "payment verification request failed", Err: err}
	}
	if !resp.IsSuccess() {
		return nil, &GatewayError{Kind: ErrKindAPI, Message: fmt.Sprintf("HTTP %d", resp.StatusCode())}
	}
	if result.Code != 0 {
		msg := result.Message
		if msg == "" {
			msg = "payment verification failed"
		}
		return nil, &GatewayError{Kind: ErrKindAPI, Message: msg}
	}

	return &PaymentStatus{
		Status:   result.Status,
		Message:  result.Message,
		Test:     result.Test,
		Price:    result.Price,
		Currency: result.Currency,
	}, nil
}

// CancelPayment 实现 orderdomain.PaymentGateway.CancelPayment
func (c *Client) CancelPayment(ctx context.Context, paymentID string) error {
	if paymentID == "" {
		return &GatewayError{Kind: ErrKindConfig, Message: "payment id cannot be blank"}
	}

	var result cancelPaymentResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&result).
		Delete(fmt.Sprintf("/payment/transId/%s.json", paymentID))
	if err != nil {
		return &GatewayError{Kind: ErrKindAPI, Message: "payment cancellation request failed", Err: err}
	}
	if !resp.IsSuccess() {
		return &GatewayError{Kind: ErrKindAPI, Message: fmt.Sprintf("HTTP %d", resp.StatusCode())}
	}
	if result.Code != 0 {
		msg := result.Message
		if msg == "" {
			msg = "payment cancellation failed"
		}
		return &GatewayError{Kind: ErrKindAPI, Message: msg}
	}

	logger.Info(ctx, "Comgate payment cancelled", "transaction_id", paymentID)
	return nil
}
