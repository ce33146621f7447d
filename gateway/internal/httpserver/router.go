package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Deps struct {
	CartURL    string
	CatalogURL string

	Middleware []echo.MiddlewareFunc
}

// Register mounts the storefront API under /api/v1. Catalog routes are read
// only; everything under /cart goes to the cart service.
func Register(e *echo.Echo, d *Deps) error {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	catalogProxy, err := newProxy(d.CatalogURL, "/api/v1")
	if err != nil {
		return err
	}

	cartProxy, err := newProxy(d.CartURL, "/api/v1")
	if err != nil {
		return err
	}

	api := e.Group("/api/v1", d.Middleware...)

	api.GET("/products", catalogProxy)
	api.GET("/products/*", catalogProxy)
	api.GET("/stock/*", catalogProxy)

	api.Any("/cart", cartProxy)
	api.Any("/cart/*", cartProxy)

	return nil
}
