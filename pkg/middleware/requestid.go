package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// headerKeyRequestID はリクエストIDを伝播するためのHTTPヘッダーキー。
const headerKeyRequestID = "X-Request-ID"

// RequestID は各リクエストに一意のIDを割り当てるGinミドルウェアを返す。
// クライアントがX-Request-IDを指定した場合はその値を引き継ぎ、
// 未指定の場合はUUIDを新規に生成する。割り当てたIDはレスポンス
// ヘッダーにも設定する。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerKeyRequestID)
		if id == "" {
			id = uuid.New().String()
		}

		c.Set("request_id", id)
		c.Header(headerKeyRequestID, id)
		c.Next()
	}
}

// GetRequestID はGinコンテキストからリクエストIDを取得する。
// RequestIDミドルウェアが事前に適用されている必要がある。
func GetRequestID(c *gin.Context) string {
	requestID, _ := c.Get("request_id")
	if id, ok := requestID.(string); ok {
		return id
	}
	return ""
}
