package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderdomain "github.com/lootea/commerce/internal/order/domain"
)

func sampleNotification() *Notification {
	return &Notification{
		TransactionID: "AB12-CD34-EF56",
		ReferenceID:   "42",
		Status:        "PAID",
		Price:         "110000",
		Currency:      "CZK",
		Label:         "Order #42",
		Method:        "CARD_CZ_CSOB_2",
		Email:         "objednavky@example.cz",
		Test:          "false",
	}
}

func TestSignatureDataJoinsNineFieldsInOrder(t *testing.T) {
	n := sampleNotification()
	expected := "AB12-CD34-EF56|42|PAID|110000|CZK|Order #42|CARD_CZ_CSOB_2|objednavky@example.cz|false"
	assert.Equal(t, expected, n.SignatureData())
}

func TestVerifySignature(t *testing.T) {
	n := sampleNotification()
	secret := "webhook-secret"

	signature := SignNotification(secret, n)
	assert.NoError(t, VerifySignature(secret, n, signature))

	// 错误密钥、被篡改的字段、缺失签名均拒绝
	assert.ErrorIs(t, VerifySignature("other-secret", n, signature), ErrUnauthorized)

	tampered := sampleNotification()
	tampered.Price = "1"
	assert.ErrorIs(t, VerifySignature(secret, tampered, signature), ErrUnauthorized)

	assert.ErrorIs(t, VerifySignature(secret, n, ""), ErrUnauthorized)
}

func TestMapStatus(t *testing.T) {
	tests := []struct {
		gateway string
		mapped  orderdomain.PaymentStatus
	}{
		{"PAID", orderdomain.PaymentStatusCompleted},
		{"paid", orderdomain.PaymentStatusCompleted},
		{"CANCELLED", orderdomain.PaymentStatusCancelled},
		{"TIMEOUT", orderdomain.PaymentStatusFailed},
		{"Pending", orderdomain.PaymentStatusPending},
	}
	for _, tt := range tests {
		mapped, err := MapStatus(tt.gateway)
		require.NoError(t, err, tt.gateway)
		assert.Equal(t, tt.mapped, mapped)
	}

	_, err := MapStatus("AUTHORIZED")
	var unknown *UnknownStatusError
	require.ErrorAs(t, err, &unknown)
}

func TestNotificationValidate(t *testing.T) {
	assert.NoError(t, sampleNotification().Validate())

	n := &Notification{}
	err := n.Validate()
	var malformed *MalformedWebhookError
	require.ErrorAs(t, err, &malformed)
	assert.ElementsMatch(t, []string{"transId", "refId", "status"}, malformed.MissingFields)
}
