package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/user/movielist/internal/utils"
)

// Claims 写操作令牌声明
type Claims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

const writeScope = "watchlist:write"

// RequireWriteToken 片单写操作鉴权，enabled 为 false 时直接放行
func RequireWriteToken(secret string, enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled {
			c.Next()
			return
		}
		claims, err := extractClaims(c, secret)
		if err != nil || claims.Scope != writeScope {
			utils.Abort(c, http.StatusUnauthorized, "缺少有效的写入令牌")
			return
		}
		c.Set("token_subject", claims.Subject)
		c.Next()
	}
}

// extractClaims 从 Authorization Header 中提取 JWT Claims
func extractClaims(c *gin.Context, secret string) (*Claims, error) {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, jwt.ErrTokenMalformed
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// GenerateWriteToken 生成写操作令牌
func GenerateWriteToken(subject, secret string, expiry time.Duration) (string, error) {
	claims := &Claims{
		Scope: writeScope,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
