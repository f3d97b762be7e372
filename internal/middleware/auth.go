package middleware

import (
	"net/http"
	"os"

	"github.com/golang-jwt/jwt/v5"

	"shopcore-payments/internal/auth"
	"shopcore-payments/internal/utils"
)

// AuthMiddleware attaches the shopper identity from a storefront access token.
// Anonymous requests pass through; a token that is present must verify.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := auth.ExtractAccessToken(r)
		if tokenStr == "" {
			next.ServeHTTP(w, r)
			return
		}

		token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(os.Getenv("JWT_SECRET")), nil
		})
		if err != nil || !token.Valid {
			utils.WriteJSONError(w, "invalid access token", http.StatusUnauthorized)
			return
		}

		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			if uid, ok := claims["user_id"].(float64); ok {
				email, _ := claims["email"].(string)
				role, _ := claims["role"].(string)
				r = r.WithContext(utils.SetUserContext(r.Context(), uint(uid), email, role))
			}
		}

		next.ServeHTTP(w, r)
	})
}
