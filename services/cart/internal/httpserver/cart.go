package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"golang.org/x/text/language"

	"github.com/Skotchmaster/shop_cart/pkg/logging"
	middleware "github.com/Skotchmaster/shop_cart/pkg/middleware/auth"
	"github.com/Skotchmaster/shop_cart/services/cart/internal/models"
	"github.com/Skotchmaster/shop_cart/services/cart/internal/notify"
	"github.com/Skotchmaster/shop_cart/services/cart/internal/service"
	"github.com/Skotchmaster/shop_cart/services/cart/internal/transport"
)

type CartHTTP struct {
	Carts  *service.Registry
	Locale language.Tag
}

func (h *CartHTTP) owner(c echo.Context, l *slog.Logger) (string, error) {
	owner, err := middleware.Owner(c)
	if err != nil {
		l.Error("cart_owner_error", "status", 401, "error", err)
		return "", echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return owner, nil
}

func (h *CartHTTP) cart(c echo.Context, l *slog.Logger) (*service.CartService, error) {
	owner, err := h.owner(c, l)
	if err != nil {
		return nil, err
	}

	svc, err := h.Carts.Get(c.Request().Context(), owner)
	if err != nil {
		l.Error("cart_load_error", "status", 500, "owner", owner, "error", err)
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "cart unavailable")
	}
	return svc, nil
}

// GetCart reads without registering the cart, so browsing with a fresh
// session keeps nothing in memory.
func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	owner, err := h.owner(c, l)
	if err != nil {
		return err
	}

	snap, err := h.Carts.Snapshot(ctx, owner)
	if err != nil {
		l.Error("cart_load_error", "status", 500, "owner", owner, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cart unavailable")
	}
	return c.JSON(http.StatusOK, snap)
}

func (h *CartHTTP) AddProduct(c echo.Context) error {
	ctx := notify.WithLocale(c.Request().Context(), h.requestLocale(c))
	l := logging.FromContext(ctx).With("handler", "cart.add_product")

	var req transport.AddProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_product_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.ProductID <= 0 {
		l.Warn("add_product_error", "status", 400, "reason", "product_id required")
		return echo.NewHTTPError(http.StatusBadRequest, "product_id required")
	}

	svc, err := h.cart(c, l)
	if err != nil {
		return err
	}

	if err := svc.AddProduct(ctx, req.ProductID); err != nil {
		return h.fail(c, svc, err)
	}
	return c.JSON(http.StatusOK, svc.Snapshot())
}

func (h *CartHTTP) RemoveProduct(c echo.Context) error {
	ctx := notify.WithLocale(c.Request().Context(), h.requestLocale(c))
	l := logging.FromContext(ctx).With("handler", "cart.remove_product")

	id, err := productID(c)
	if err != nil {
		l.Warn("remove_product_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a positive integer")
	}

	svc, err := h.cart(c, l)
	if err != nil {
		return err
	}

	if err := svc.RemoveProduct(ctx, id); err != nil {
		return h.fail(c, svc, err)
	}
	return c.JSON(http.StatusOK, svc.Snapshot())
}

func (h *CartHTTP) UpdateProductAmount(c echo.Context) error {
	ctx := notify.WithLocale(c.Request().Context(), h.requestLocale(c))
	l := logging.FromContext(ctx).With("handler", "cart.update_amount")

	id, err := productID(c)
	if err != nil {
		l.Warn("update_amount_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a positive integer")
	}

	var req transport.UpdateAmountRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_amount_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	svc, err := h.cart(c, l)
	if err != nil {
		return err
	}

	if err := svc.UpdateProductAmount(ctx, models.UpdateProductAmount{ProductID: id, Amount: req.Amount}); err != nil {
		return h.fail(c, svc, err)
	}
	return c.JSON(http.StatusOK, svc.Snapshot())
}

// fail turns a cart error into the toast payload the storefront renders.
func (h *CartHTTP) fail(c echo.Context, svc *service.CartService, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrInsufficientStock):
		status = http.StatusConflict
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	}

	kind := service.KindOf(err)
	snap := svc.Snapshot()

	return c.JSON(status, transport.ErrorResponse{
		Error:   string(kind),
		Message: notify.Message(kind, h.requestLocale(c)),
		Cart:    &snap,
	})
}

// requestLocale negotiates Accept-Language against the service default.
func (h *CartHTTP) requestLocale(c echo.Context) language.Tag {
	fallback := h.Locale
	if fallback == language.Und {
		fallback = notify.DefaultLocale
	}
	return notify.Negotiate(c.Request().Header.Get("Accept-Language"), fallback)
}

func productID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, errors.New("id must be positive")
	}
	return id, nil
}
