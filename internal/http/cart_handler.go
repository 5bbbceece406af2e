package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Anand-247/FE-VF/internal/domain"
	"github.com/Anand-247/FE-VF/internal/storefront"
)

const maxQuantity = 99

// CartService is the part of the storefront the cart routes use.
type CartService interface {
	Cart() storefront.CartView
	AddToCart(ctx context.Context, slug string, quantity int, variant *domain.Variant) (domain.CartLineItem, error)
	UpdateQuantity(ctx context.Context, productID string, quantity int, variant *domain.Variant) error
	RemoveFromCart(ctx context.Context, productID string, variant *domain.Variant) error
	ClearCart(ctx context.Context)
	CheckoutCart(ctx context.Context, user domain.UserProfile) (storefront.CheckoutResult, error)
}

type CartHandler struct {
	clients ClientResolver
	timeout time.Duration
}

func NewCartHandler(clients ClientResolver, timeout time.Duration) *CartHandler {
	return &CartHandler{
		clients: clients,
		timeout: timeout,
	}
}

func (h *CartHandler) cart(r *http.Request) CartService {
	return resolveClient(r, h.clients).Cart
}

type AddItemRequestDTO struct {
	ProductSlug     string          `json:"product_slug"`
	Quantity        int             `json:"quantity"`
	SelectedVariant *domain.Variant `json:"selected_variant,omitempty"`
}

type UpdateQuantityRequestDTO struct {
	Quantity        int             `json:"quantity"`
	SelectedVariant *domain.Variant `json:"selected_variant,omitempty"`
}

type RemoveItemRequestDTO struct {
	SelectedVariant *domain.Variant `json:"selected_variant,omitempty"`
}

type CheckoutRequestDTO struct {
	Customer domain.UserProfile `json:"customer"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.cart(r).Cart())
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()
	svc := h.cart(r)

	var req AddItemRequestDTO
	if err := decodeBody(r, &req, false); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	req.ProductSlug = strings.TrimSpace(req.ProductSlug)
	if req.ProductSlug == "" {
		respondError(w, http.StatusBadRequest, "invalid_product", "product_slug is required")
		return
	}
	if req.Quantity <= 0 || req.Quantity > maxQuantity {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	if _, err := svc.AddToCart(ctx, req.ProductSlug, req.Quantity, req.SelectedVariant); err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, svc.Cart())
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()
	svc := h.cart(r)

	productID := chi.URLParam(r, "product_id")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := decodeBody(r, &req, false); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	// zero removes the line, like the quantity stepper does
	if req.Quantity < 0 || req.Quantity > maxQuantity {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 0 and 99")
		return
	}

	if err := svc.UpdateQuantity(ctx, productID, req.Quantity, req.SelectedVariant); err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, svc.Cart())
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()
	svc := h.cart(r)

	productID := chi.URLParam(r, "product_id")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	var req RemoveItemRequestDTO
	if err := decodeBody(r, &req, true); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := svc.RemoveFromCart(ctx, productID, req.SelectedVariant); err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, svc.Cart())
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()
	svc := h.cart(r)

	svc.ClearCart(ctx)
	respondJSON(w, http.StatusOK, svc.Cart())
}

func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()
	svc := h.cart(r)

	var req CheckoutRequestDTO
	if err := decodeBody(r, &req, false); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	res, err := svc.CheckoutCart(ctx, req.Customer)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, res)
}
