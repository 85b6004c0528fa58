package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// newRequestIDRouter はRequestIDミドルウェアを適用した検証用ルーターを構築する。
func newRequestIDRouter() *gin.Engine {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/resource", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})
	return router
}

// TestRequestID はRequestIDミドルウェアを検証する。
func TestRequestID(t *testing.T) {
	t.Parallel()

	t.Run("ヘッダー未指定の場合はUUIDが生成されること", func(t *testing.T) {
		t.Parallel()

		router := newRequestIDRouter()

		req := httptest.NewRequest(http.MethodGet, "/resource", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		id := w.Header().Get("X-Request-ID")
		if _, err := uuid.Parse(id); err != nil {
			t.Errorf("X-Request-IDがUUIDでない: %q: %v", id, err)
		}
		if w.Body.String() != id {
			t.Errorf("コンテキストのID = %q, ヘッダーのID = %q", w.Body.String(), id)
		}
	})

	t.Run("クライアント指定のIDが引き継がれること", func(t *testing.T) {
		t.Parallel()

		router := newRequestIDRouter()

		req := httptest.NewRequest(http.MethodGet, "/resource", nil)
		req.Header.Set("X-Request-ID", "client-supplied-id")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if got := w.Header().Get("X-Request-ID"); got != "client-supplied-id" {
			t.Errorf("X-Request-ID = %q, want %q", got, "client-supplied-id")
		}
		if w.Body.String() != "client-supplied-id" {
			t.Errorf("GetRequestID() = %q, want %q", w.Body.String(), "client-supplied-id")
		}
	})
}
