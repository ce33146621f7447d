package service

import (
	"errors"

	"github.com/Skotchmaster/shop_cart/services/cart/internal/notify"
)

var (
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrNotFound          = errors.New("not found")

	ErrAddFailed    = errors.New("failed to add product")
	ErrRemoveFailed = errors.New("failed to remove product")
	ErrUpdateFailed = errors.New("failed to update product amount")
)

// KindOf maps an error returned by CartService to the notification shown to
// the user. It returns "" for errors that did not come from a cart operation.
func KindOf(err error) notify.Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInsufficientStock):
		return notify.KindInsufficientStock
	case errors.Is(err, ErrAddFailed):
		return notify.KindAddFailed
	case errors.Is(err, ErrRemoveFailed):
		return notify.KindRemoveFailed
	case errors.Is(err, ErrUpdateFailed):
		return notify.KindUpdateFailed
	default:
		return ""
	}
}
