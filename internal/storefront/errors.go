package storefront

import "errors"

var (
	ErrOutOfStock            = errors.New("product is out of stock")
	ErrStockLimit            = errors.New("cannot add more than stock")
	ErrUnknownVariant        = errors.New("product has no such variant")
	ErrWhatsAppNotConfigured = errors.New("whatsapp number not configured")
	ErrEmptyCart             = errors.New("cart is empty")
	ErrItemNotInCart         = errors.New("item is not in the cart")
)
