package domain

import "time"

type OrderSource string

const (
	OrderSourceBuyNow OrderSource = "buy_now"
	OrderSourceCart   OrderSource = "cart_checkout"
)

type OrderItem struct {
	ProductID   string   `json:"product"`
	ProductName string   `json:"productName"`
	Variant     *Variant `json:"selectedVariant,omitempty"`
	Quantity    int      `json:"quantity"`
	Price       float64  `json:"price"`
}

// Order is the record sent to orderAPI.create after a WhatsApp handoff so the
// shop can follow up. Payment is not part of it.
type Order struct {
	Reference   string      `json:"reference"`
	Customer    UserProfile `json:"customer"`
	Items       []OrderItem `json:"items"`
	TotalAmount float64     `json:"totalAmount"`
	Source      OrderSource `json:"source"`
	Channel     string      `json:"channel"`
	CreatedAt   time.Time   `json:"createdAt"`
}
