package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Deps struct {
	CatalogHandler *CatalogHTTP
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	e.GET("/products", d.CatalogHandler.GetProducts)
	e.GET("/products/:id", d.CatalogHandler.GetProduct)
	e.GET("/stock/:id", d.CatalogHandler.GetStock)
}
