package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderdomain "github.com/lootea/commerce/internal/order/domain"
	"github.com/lootea/commerce/internal/payment/application"
	"github.com/lootea/commerce/internal/payment/domain"
)

type singleOrderRepo struct {
	order *orderdomain.Order
}

func (r *singleOrderRepo) Create(ctx context.Context, order *orderdomain.Order) error { return nil }

func (r *singleOrderRepo) GetByID(ctx context.Context, orderID uint) (*orderdomain.Order, error) {
	if r.order != nil && r.order.ID == orderID {
		return r.order, nil
	}
	return nil, orderdomain.ErrOrderNotFound
}

func (r *singleOrderRepo) GetByIDForUser(ctx context.Context, userID, orderID uint) (*orderdomain.Order, error) {
	return r.GetByID(ctx, orderID)
}

func (r *singleOrderRepo) GetByPaymentID(ctx context.Context, paymentID string) (*orderdomain.Order, error) {
	if r.order != nil && paymentID != "" && r.order.PaymentID == paymentID {
		return r.order, nil
	}
	return nil, orderdomain.ErrOrderNotFound
}

func (r *singleOrderRepo) Save(ctx context.Context, order *orderdomain.Order) error {
	r.order = order
	return nil
}

func (r *singleOrderRepo) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*orderdomain.Order, int64, error) {
	return nil, 0, nil
}

func (r *singleOrderRepo) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

const testSecret = "webhook-secret"

func newTestRouter(repo *singleOrderRepo, verify bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	service := application.NewWebhookService(repo, nil, nil)
	handler := NewWebhookHandler(service, testSecret, verify, nil)

	router := gin.New()
	handler.RegisterRoutes(router.Group("/api/v1"))
	return router
}

func paidForm() (*domain.Notification, url.Values) {
	n := &domain.Notification{
		TransactionID: "AB12-CD34-EF56",
		ReferenceID:   "1",
		Status:        "PAID",
		Price:         "110000",
		Currency:      "CZK",
		Label:         "Order #1",
		Method:        "CARD_CZ_CSOB_2",
		Email:         "objednavky@example.cz",
		Test:          "false",
	}
	form := url.Values{}
	form.Set("transId", n.TransactionID)
	form.Set("refId", n.ReferenceID)
	form.Set("status", n.Status)
	form.Set("price", n.Price)
	form.Set("curr", n.Currency)
	form.Set("label", n.Label)
	form.Set("method", n.Method)
	form.Set("email", n.Email)
	form.Set("test", n.Test)
	return n, form
}

func postWebhook(router *gin.Engine, form url.Values, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/comgate", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if signature != "" {
		req.Header.Set(SignatureHeader, signature)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func pendingOrder() *orderdomain.Order {
	o := &orderdomain.Order{
		UserID:        7,
		TotalCents:    110000,
		Currency:      "CZK",
		Status:        orderdomain.OrderStatusPending,
		PaymentStatus: orderdomain.PaymentStatusPending,
		PaymentID:     "AB12-CD34-EF56",
	}
	o.ID = 1
	return o
}

func TestWebhookAcceptsSignedNotification(t *testing.T) {
	repo := &singleOrderRepo{order: pendingOrder()}
	router := newTestRouter(repo, true)

	n, form := paidForm()
	w := postWebhook(router, form, domain.SignNotification(testSecret, n))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, orderdomain.PaymentStatusCompleted, repo.order.PaymentStatus)
	assert.Equal(t, orderdomain.OrderStatusPaid, repo.order.Status)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	repo := &singleOrderRepo{order: pendingOrder()}
	router := newTestRouter(repo, true)

	_, form := paidForm()
	w := postWebhook(router, form, "deadbeef")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, orderdomain.PaymentStatusPending, repo.order.PaymentStatus)

	w = postWebhook(router, form, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWebhookVerificationCanBeDisabledForTests(t *testing.T) {
	repo := &singleOrderRepo{order: pendingOrder()}
	router := newTestRouter(repo, false)

	_, form := paidForm()
	w := postWebhook(router, form, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, orderdomain.PaymentStatusCompleted, repo.order.PaymentStatus)
}

func TestWebhookUnknownOrderReturns404(t *testing.T) {
	router := newTestRouter(&singleOrderRepo{}, false)

	_, form := paidForm()
	w := postWebhook(router, form, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWebhookIllegalTransitionReturns422(t *testing.T) {
	order := pendingOrder()
	order.PaymentStatus = orderdomain.PaymentStatusCompleted
	order.Status = orderdomain.OrderStatusPaid
	router := newTestRouter(&singleOrderRepo{order: order}, false)

	_, form := paidForm()
	form.Set("status", "PENDING")
	w := postWebhook(router, form, "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestWebhookMissingFieldsReturns400(t *testing.T) {
	router := newTestRouter(&singleOrderRepo{order: pendingOrder()}, false)

	form := url.Values{}
	form.Set("status", "PAID")
	w := postWebhook(router, form, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
