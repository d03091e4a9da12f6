// Package response 提供统一的 HTTP JSON 响应格式
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Body 统一响应结构
type Body struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Body{
		Code:    0,
		Message: "ok",
		Data:    data,
	})
}

// Error 业务错误响应（HTTP 200，业务码非 0）
func Error(c *gin.Context, code int, message string) {
	c.JSON(http.StatusOK, Body{
		Code:    code,
		Message: message,
	})
}

// ErrorWithStatus 带 HTTP 状态码的错误响应
func ErrorWithStatus(c *gin.Context, status int, message string, errorCode string) {
	c.JSON(status, gin.H{
		"code":       status,
		"message":    message,
		"error_code": errorCode,
	})
}
