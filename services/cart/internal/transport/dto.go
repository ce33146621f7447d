package transport

import "github.com/Skotchmaster/shop_cart/services/cart/internal/models"

type AddProductRequest struct {
	ProductID int `json:"product_id"`
}

type UpdateAmountRequest struct {
	Amount int `json:"amount"`
}

// ErrorResponse carries the toast text in Message and the cart as it stands
// after the rejected operation.
type ErrorResponse struct {
	Error   string           `json:"error"`
	Message string           `json:"message"`
	Cart    *models.Snapshot `json:"cart,omitempty"`
}
