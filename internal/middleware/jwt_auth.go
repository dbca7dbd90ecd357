package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/Marvellousz/Minimal/internal/models"
)

// ContextUserKey is the echo context key holding the authenticated
// requester's claims.
const ContextUserKey = "user"

// JWTAuth checks for a valid JWT and stores the user claims in the
// request context. Requests without a valid token are rejected.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := parseToken(c, secret)
			if err != nil {
				return err
			}
			c.Set(ContextUserKey, claims)
			return next(c)
		}
	}
}

// OptionalJWTAuth resolves the requester when a valid token is present
// but lets anonymous callers through. Used on public read endpoints that
// annotate responses with viewer-specific data.
func OptionalJWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if claims, err := parseToken(c, secret); err == nil {
				c.Set(ContextUserKey, claims)
			}
			return next(c)
		}
	}
}

// CurrentUser returns the claims of the authenticated requester, or nil
// for anonymous callers.
func CurrentUser(c echo.Context) *models.JwtCustomClaims {
	claims, _ := c.Get(ContextUserKey).(*models.JwtCustomClaims)
	return claims
}

func parseToken(c echo.Context, secret string) (*models.JwtCustomClaims, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Missing Authorization header")
	}

	// Expecting "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization header format")
	}

	claims := &models.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, echo.NewHTTPError(http.StatusUnauthorized, "Unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	}

	return claims, nil
}
