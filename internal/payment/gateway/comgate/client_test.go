package comgate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderdomain "github.com/lootea/commerce/internal/order/domain"
)

func testOrder() *orderdomain.Order {
	o := &orderdomain.Order{
		UserID:        7,
		TotalCents:    110000,
		Currency:      "CZK",
		Status:        orderdomain.OrderStatusPending,
		CustomerEmail: "objednavky@example.cz",
		CustomerName:  "Lootea s.r.o.",
	}
	o.ID = 42
	return o
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{
		BaseURL:    server.URL,
		MerchantID: "merchant-1",
		Secret:     "topsecret",
		TestMode:   true,
	})
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresCredentials(t *testing.T) {
	_, err := NewClient(Config{})
	var gwErr *GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, ErrKindConfig, gwErr.Kind)
	assert.Contains(t, gwErr.Message, "merchant_id")
	assert.Contains(t, gwErr.Message, "secret")
}

func TestCreatePayment(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/payment.json", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "merchant-1", user)
		assert.Equal(t, "topsecret", pass)

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, float64(110000), payload["price"])
		assert.Equal(t, "CZK", payload["curr"])
		assert.Equal(t, "Order #42", payload["label"])
		assert.Equal(t, "42", payload["refId"])
		assert.Equal(t, "ALL", payload["method"])
		assert.Equal(t, "objednavky@example.cz", payload["email"])
		assert.Equal(t, "Lootea s.r.o.", payload["fullName"])
		assert.Equal(t, "cs", payload["lang"])
		assert.Equal(t, "CZ", payload["country"])
		assert.Equal(t, true, payload["test"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":0,"message":"OK","transId":"AB12-CD34-EF56","redirect":"https://payments.comgate.cz/client/instructions/index?id=AB12-CD34-EF56"}`))
	})

	result, err := client.CreatePayment(context.Background(), testOrder())
	require.NoError(t, err)
	assert.Equal(t, "AB12-CD34-EF56", result.PaymentID)
	assert.Contains(t, result.PaymentURL, "AB12-CD34-EF56")
}

func TestCreatePaymentAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":1400,"message":"wrong query"}`))
	})

	_, err := client.CreatePayment(context.Background(), testOrder())
	var gwErr *GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, ErrKindAPI, gwErr.Kind)
	assert.Equal(t, "wrong query", gwErr.Message)
}

func TestCreatePaymentHTTPError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.CreatePayment(context.Background(), testOrder())
	var gwErr *GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, ErrKindAPI, gwErr.Kind)
	assert.Contains(t, gwErr.Message, "502")
}

func TestCreatePaymentRejectsUnpayableOrder(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	order := testOrder()
	order.TotalCents = 0
	_, err := client.CreatePayment(context.Background(), order)
	var gwErr *GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, ErrKindConfig, gwErr.Kind)
}

func TestVerifyPayment(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/payment/transId/AB12-CD34-EF56.json", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":0,"message":"OK","status":"PAID","test":true,"price":"110000","curr":"CZK"}`))
	})

	status, err := client.VerifyPayment(context.Background(), "AB12-CD34-EF56")
	require.NoError(t, err)
	assert.Equal(t, "PAID", status.Status)
	assert.Equal(t, "110000", status.Price)
	assert.Equal(t, "CZK", status.Currency)
	assert.True(t, status.Test)
}

func TestCancelPayment(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/payment/transId/AB12-CD34-EF56.json", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":0,"message":"OK"}`))
	})

	require.NoError(t, client.CancelPayment(context.Background(), "AB12-CD34-EF56"))

	assert.Error(t, client.CancelPayment(context.Background(), ""))
}

func TestCancelPaymentAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":1200,"message":"payment not found"}`))
	})

	err := client.CancelPayment(context.Background(), "MISSING")
	var gwErr *GatewayError
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, "payment not found", gwErr.Message)
}
