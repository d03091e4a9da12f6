package domain

import (
	"github.com/lootea/commerce/pkg/utils"
)

// SignNotification 计算通知的 HMAC-SHA256 十六进制签名
func SignNotification(secret string, n *Notification) string {
	return utils.HMACSHA256Hex(secret, n.SignatureData())
}

// VerifySignature 常数时间比较回调签名，防御时序侧信道
func VerifySignature(secret string, n *Notification, signature string) error {
	if signature == "" {
		return ErrUnauthorized
	}
	expected := SignNotification(secret, n)
	if !utils.SecureCompare(expected, signature) {
		return ErrUnauthorized
	}
	return nil
}
