package middleware

import (
	"strings"

	"mekong-be/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware parses an optional bearer token and, when valid, places the
// user id, email and role into the request context. Invalid or missing tokens
// leave the request anonymous; enforcement happens at the handler/service level.
func AuthMiddleware(secret string) gin.HandlerFunc {
	key := []byte(secret)

	return func(c *gin.Context) {
		tokenStr := extractAccessToken(c)
		if tokenStr == "" {
			c.Next()
			return
		}

		token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
			return key, nil
		})
		if err != nil || !token.Valid {
			c.Next()
			return
		}

		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			var userID uint
			if uid, ok := claims["user_id"].(float64); ok {
				userID = uint(uid)
			}
			email, _ := claims["email"].(string)
			role, _ := claims["role"].(string)

			ctx := utils.SetUserContext(c.Request.Context(), userID, email, role)
			c.Request = c.Request.WithContext(ctx)
		}

		c.Next()
	}
}

func extractAccessToken(c *gin.Context) string {
	// Cookie first, Authorization header as fallback
	if cookie, err := c.Cookie("access_token"); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	return ""
}
