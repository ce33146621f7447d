package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_cart/pkg/logging"
	"github.com/Skotchmaster/shop_cart/services/catalog/internal/service"
	"github.com/Skotchmaster/shop_cart/services/catalog/internal/util"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_product")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		l.Warn("get_product_failed", "status", 400, "reason", "id is not integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not integer")
	}

	product, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("get_product_failed", "status", 404, "product_id", id)
			return c.JSON(http.StatusNotFound, map[string]any{})
		}
		l.Error("get_product_failed", "status", 500, "reason", "cannot get product", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get product")
	}

	return c.JSON(http.StatusOK, product)
}

// GetProducts lists the catalog. _page and _limit page the result the way
// json-server does, with the total in X-Total-Count.
func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_products")

	page := util.ParseIntDefault(c.QueryParam("_page"), 1)
	limit := util.ParseIntDefault(c.QueryParam("_limit"), 0)
	offset, limit := util.Calculate(page, limit)

	total, items, err := h.Svc.GetProducts(ctx, offset, limit)
	if err != nil {
		l.Error("get_products_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get products")
	}

	c.Response().Header().Set("X-Total-Count", strconv.FormatInt(total, 10))
	return c.JSON(http.StatusOK, items)
}

func (h *CatalogHTTP) GetStock(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_stock")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		l.Warn("get_stock_failed", "status", 400, "reason", "id is not integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not integer")
	}

	stock, err := h.Svc.GetStock(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("get_stock_failed", "status", 404, "product_id", id)
			return c.JSON(http.StatusNotFound, map[string]any{})
		}
		l.Error("get_stock_failed", "status", 500, "reason", "cannot get stock", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get stock")
	}

	return c.JSON(http.StatusOK, stock)
}
