package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	middleware "github.com/Skotchmaster/shop_cart/pkg/middleware/auth"
)

type Deps struct {
	CartHandler *CartHTTP
	JWTSecret   []byte
	Ready       func() error
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(); err != nil {
				return c.NoContent(http.StatusServiceUnavailable)
			}
		}
		return c.NoContent(http.StatusOK)
	})

	ownerMW := middleware.NewCartOwnerMiddleware(d.JWTSecret)

	cart := e.Group("/cart")
	cart.Use(ownerMW.ResolveOwner)

	cart.GET("", d.CartHandler.GetCart)
	cart.POST("/products", d.CartHandler.AddProduct)
	cart.DELETE("/products/:id", d.CartHandler.RemoveProduct)
	cart.PATCH("/products/:id", d.CartHandler.UpdateProductAmount)
}
