package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenClaims はJWTトークンのクレーム（ペイロード）を表す。
// Subjectに認証済みユーザーのユーザー名を格納する。
type TokenClaims struct {
	jwt.RegisteredClaims
}

// tokenLifetime はトークンの有効期間。発行時刻から1時間。
const tokenLifetime = time.Hour

// tokenIssuer はトークンのIssuerクレームに設定する値。
const tokenIssuer = "todo-api"

// GenerateJWT はユーザー名を埋め込んだJWTトークンを生成する。
// 入力・秘密鍵・現在時刻のみから決まる純粋な関数であり、状態を持たない。
func GenerateJWT(secret, username string) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("JWTトークンの署名に失敗: %w", err)
	}
	return signed, nil
}

// JWTAuth はJWTトークンを検証するGinミドルウェアを返す。
// ヘッダーの欠落・スキーム不正と、署名不正・期限切れを区別して
// 401をプレーンテキストで返す。検証に成功した場合はコンテキストに
// "username" を設定する。有効期限は呼び出しのたびに現在時刻で
// 評価され、結果がキャッシュされることはない。
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "トークンがありません、または形式が不正です")
			return
		}

		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			abortUnauthorized(c, "トークンがありません、または形式が不正です")
			return
		}

		claims := &TokenClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			abortUnauthorized(c, "トークンが無効、または期限切れです")
			return
		}

		c.Set("username", claims.Subject)
		c.Next()
	}
}

// abortUnauthorized は401をプレーンテキストの理由付きで返し、
// 後続のハンドラが実行されないようにリクエストを中断する。
func abortUnauthorized(c *gin.Context, reason string) {
	c.String(http.StatusUnauthorized, reason)
	c.Abort()
}

// GetUsername はGinコンテキストから認証済みユーザー名を取得する。
// JWTAuthミドルウェアが事前に適用されている必要がある。
func GetUsername(c *gin.Context) string {
	username, _ := c.Get("username")
	if name, ok := username.(string); ok {
		return name
	}
	return ""
}
