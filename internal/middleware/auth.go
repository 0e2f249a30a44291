package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"wallpaper-catalog/internal/apperrors"
	"wallpaper-catalog/internal/config"
	"wallpaper-catalog/internal/models"
)

// UserKey holds the authenticated identity in the gin context.
const UserKey = "user"

// AuthMiddleware requires a valid admin token in the Authorization header.
// A missing token is a 401; a token that fails verification is a 403.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	secret := []byte(cfg.JWTSecret)

	return func(c *gin.Context) {
		tokenString := bearerToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			abort(c, apperrors.ErrNoToken)
			return
		}

		claims := &models.Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return secret, nil
		}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired())
		if err != nil || !token.Valid || claims.User != models.AdminUser {
			abort(c, apperrors.ErrInvalidToken.WithError(err))
			return
		}

		c.Set(UserKey, claims.User)
		c.Next()
	}
}

// bearerToken extracts the token from "Bearer <token>".
func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func abort(c *gin.Context, err *apperrors.AppError) {
	c.AbortWithStatusJSON(err.HTTPCode, models.ErrorResponse{
		Error: err.Message,
		Code:  string(err.Code),
	})
}
