package auth

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
)

// ContextKey is where the JWT middleware stores the validated *Claims.
const ContextKey = "user"

// ErrTokenRevoked is returned for blacklisted access tokens.
var ErrTokenRevoked = errors.New("token revoked")

// ParseTokenFunc adapts JWTService to echojwt.Config.ParseTokenFunc. Only
// access tokens that have not been revoked are accepted.
func ParseTokenFunc(jwtService *JWTService, store TokenStoreInterface) func(c echo.Context, auth string) (interface{}, error) {
	return func(c echo.Context, auth string) (interface{}, error) {
		claims, err := jwtService.ValidateToken(auth)
		if err != nil {
			return nil, err
		}
		if claims.Type != TokenTypeAccess {
			return nil, errors.New("not an access token")
		}
		if claims.ID != "" && store != nil {
			revoked, _ := store.IsAccessTokenBlacklisted(c.Request().Context(), claims.ID)
			if revoked {
				return nil, ErrTokenRevoked
			}
		}
		return claims, nil
	}
}

// ClaimsFromContext returns the claims stored by the JWT middleware.
func ClaimsFromContext(c echo.Context) (*Claims, bool) {
	claims, ok := c.Get(ContextKey).(*Claims)
	return claims, ok && claims != nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(header string) string {
	const prefix = "bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
