package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_cart/pkg/logging"
	"github.com/Skotchmaster/shop_cart/pkg/tokens"
)

const (
	AccessCookie  = "accessToken"
	SessionCookie = "cartSession"

	// OwnerKey is the echo context key holding the resolved cart owner.
	OwnerKey = "owner_id"
	RoleKey  = "role"

	sessionTTL = 30 * 24 * time.Hour
)

// CartOwnerMiddleware resolves who owns the cart a request operates on.
// Authenticated users are identified by the access token subject; everyone
// else gets an anonymous session cookie.
type CartOwnerMiddleware struct {
	JWTSecret    []byte
	SecureCookie bool
}

func NewCartOwnerMiddleware(secret []byte) *CartOwnerMiddleware {
	return &CartOwnerMiddleware{JWTSecret: secret}
}

func (m *CartOwnerMiddleware) ResolveOwner(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if token := accessToken(c); token != "" {
			if len(m.JWTSecret) == 0 {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication is disabled")
			}
			claims, err := tokens.AccessClaimsFromToken(token, m.JWTSecret)
			if err != nil {
				c.SetCookie(deleteCookie(AccessCookie))
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
			}
			setOwner(c, "user:"+claims.Subject)
			c.Set(RoleKey, claims.Role)
			return next(c)
		}

		sid, err := sessionID(c)
		if err != nil {
			sid = uuid.NewString()
			c.SetCookie(&http.Cookie{
				Name:     SessionCookie,
				Value:    sid,
				Path:     "/",
				Expires:  time.Now().Add(sessionTTL),
				HttpOnly: true,
				Secure:   m.SecureCookie,
				SameSite: http.SameSiteLaxMode,
			})
		}
		setOwner(c, "session:"+sid)
		return next(c)
	}
}

func setOwner(c echo.Context, owner string) {
	c.Set(OwnerKey, owner)
	c.SetRequest(c.Request().WithContext(logging.WithOwner(c.Request().Context(), owner)))
}

// Owner returns the cart owner set by ResolveOwner.
func Owner(c echo.Context) (string, error) {
	v, ok := c.Get(OwnerKey).(string)
	if !ok || v == "" {
		return "", errors.New("cart owner not resolved")
	}
	return v, nil
}

func accessToken(c echo.Context) string {
	if h := c.Request().Header.Get(echo.HeaderAuthorization); h != "" {
		if rest, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(rest)
		}
	}
	if ck, err := c.Cookie(AccessCookie); err == nil {
		return ck.Value
	}
	return ""
}

func sessionID(c echo.Context) (string, error) {
	ck, err := c.Cookie(SessionCookie)
	if err != nil {
		return "", err
	}
	id, err := uuid.Parse(ck.Value)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

func deleteCookie(name string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
	}
}
