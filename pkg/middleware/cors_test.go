package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

// newCORSRouter はCORSミドルウェアを適用した検証用ルーターを構築する。
func newCORSRouter(allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(CORS(allowedOrigins))
	router.GET("/resource", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

// TestCORS はCORSミドルウェアを検証する。
func TestCORS(t *testing.T) {
	t.Parallel()

	t.Run("許可されたオリジンにはCORSヘッダーが付与されること", func(t *testing.T) {
		t.Parallel()

		router := newCORSRouter([]string{"http://localhost:3000"})

		req := httptest.NewRequest(http.MethodGet, "/resource", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
			t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, "http://localhost:3000")
		}
	})

	t.Run("許可されていないオリジンにはCORSヘッダーが付与されないこと", func(t *testing.T) {
		t.Parallel()

		router := newCORSRouter([]string{"http://localhost:3000"})

		req := httptest.NewRequest(http.MethodGet, "/resource", nil)
		req.Header.Set("Origin", "http://evil.example.com")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("Access-Control-Allow-Origin = %q, want 空文字列", got)
		}
	})

	t.Run("OPTIONSリクエストは204で即座に応答すること", func(t *testing.T) {
		t.Parallel()

		router := newCORSRouter([]string{"http://localhost:3000"})

		req := httptest.NewRequest(http.MethodOptions, "/resource", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusNoContent {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusNoContent)
		}
	})
}
