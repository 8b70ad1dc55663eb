package middleware

// identity.go defines helpers shared across middleware files for
// reading the authenticated identity JWTAuth stored in the context.

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// CurrentUserID extracts the authenticated user's id from the context.
// JWT numeric claims decode as float64; some issuers encode numbers as
// strings, so both forms are accepted.  The second return value is
// false when no authenticated user is present.
func CurrentUserID(c echo.Context) (uint64, bool) {
	switch v := c.Get("user_id").(type) {
	case float64:
		return uint64(v), v > 0
	case uint64:
		return v, v > 0
	case string:
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			return n, n > 0
		}
	}
	return 0, false
}

// CurrentRole returns the authenticated user's role, or "" when absent.
func CurrentRole(c echo.Context) string {
	if s, ok := c.Get("role").(string); ok {
		return s
	}
	return ""
}

// rateKeyUserID renders the user id for rate-limit keys, "anon" for
// unauthenticated requests.
func rateKeyUserID(c echo.Context) string {
	if id, ok := CurrentUserID(c); ok {
		return strconv.FormatUint(id, 10)
	}
	return "anon"
}
