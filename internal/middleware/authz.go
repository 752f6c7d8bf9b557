package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type AuthzConfig struct {
	JWTSecret string
	Role      string
}

// AuthzMiddleware validates the Bearer token and optionally requires a
// role. Admin passes any role gate; webmaster passes admin gates.
func AuthzMiddleware(config AuthzConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "missing_token",
				"message": "Authorization header is required",
			})
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "invalid_token_format",
				"message": "Authorization header must use Bearer token",
			})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(config.JWTSecret), nil
		})

		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "invalid_token",
				"message": "Token validation failed",
			})
			return
		}

		if !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "expired_token",
				"message": "Token has expired",
			})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "invalid_claims",
				"message": "Token claims are invalid",
			})
			return
		}

		if exp, ok := claims["exp"].(float64); ok {
			if time.Unix(int64(exp), 0).Before(time.Now()) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error":   "expired_token",
					"message": "Token has expired",
				})
				return
			}
		}

		if iss, ok := claims["iss"].(string); ok && iss != "volunteer-hub-backend" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "invalid_issuer",
				"message": "Token issuer is invalid",
			})
			return
		}

		role, _ := claims["role"].(string)

		if config.Role != "" && !roleSatisfies(role, config.Role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":   "insufficient_role",
				"message": "User role does not have access to this resource",
			})
			return
		}

		c.Set("user_id", claims["user_id"])
		c.Set("user_role", role)

		c.Next()
	}
}

func roleSatisfies(have, want string) bool {
	if have == want {
		return true
	}
	switch have {
	case "webmaster":
		return true
	case "admin":
		return want != "webmaster"
	default:
		return false
	}
}
