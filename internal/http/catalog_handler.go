package http

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Anand-247/FE-VF/internal/api"
	"github.com/Anand-247/FE-VF/internal/catalog"
	"github.com/Anand-247/FE-VF/internal/domain"
	"github.com/Anand-247/FE-VF/internal/storefront"
)

const defaultPageSize = 12

type CatalogService interface {
	Products(ctx context.Context, q api.ProductQuery) (domain.ProductPage, error)
	Product(ctx context.Context, slug string) (domain.Product, error)
	RelatedProducts(ctx context.Context, product domain.Product, limit int) ([]domain.Product, error)
	Categories(ctx context.Context) ([]domain.Category, error)
	Category(ctx context.Context, slug string) (domain.Category, error)
	Banners(ctx context.Context) ([]domain.Banner, error)
	Settings(ctx context.Context) domain.Settings
	Home(ctx context.Context) (catalog.HomePage, error)
}

// ShopService covers the storefront actions that do not touch the cart.
type ShopService interface {
	BuyNow(ctx context.Context, slug string, quantity int, variant *domain.Variant, user domain.UserProfile) (storefront.CheckoutResult, error)
	SubmitContact(ctx context.Context, msg domain.ContactMessage) error
}

type CatalogHandler struct {
	catalog CatalogService
	clients ClientResolver
	timeout time.Duration
}

func NewCatalogHandler(catalog CatalogService, clients ClientResolver, timeout time.Duration) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, clients: clients, timeout: timeout}
}

func (h *CatalogHandler) shop(r *http.Request) ShopService {
	return resolveClient(r, h.clients).Shop
}

type ProductDetailResponse struct {
	Product domain.Product   `json:"product"`
	Related []domain.Product `json:"related"`
}

type BuyNowRequestDTO struct {
	Quantity        int                `json:"quantity"`
	SelectedVariant *domain.Variant    `json:"selected_variant,omitempty"`
	Customer        domain.UserProfile `json:"customer"`
}

func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	q, err := parseProductQuery(r.URL.Query())
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_query", err.Error())
		return
	}

	page, err := h.catalog.Products(ctx, q)
	if err != nil {
		handleError(w, err)
		return
	}
	if page.Products == nil {
		page.Products = []domain.Product{}
	}
	respondJSON(w, http.StatusOK, page)
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	product, err := h.catalog.Product(ctx, chi.URLParam(r, "slug"))
	if err != nil {
		handleError(w, err)
		return
	}

	// related products are decoration; the detail page works without them
	related, err := h.catalog.RelatedProducts(ctx, product, catalog.RelatedLimit)
	if err != nil || related == nil {
		related = []domain.Product{}
	}
	respondJSON(w, http.StatusOK, ProductDetailResponse{Product: product, Related: related})
}

func (h *CatalogHandler) BuyNow(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req BuyNowRequestDTO
	if err := decodeBody(r, &req, false); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 0 || req.Quantity > maxQuantity {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	res, err := h.shop(r).BuyNow(ctx, chi.URLParam(r, "slug"), req.Quantity, req.SelectedVariant, req.Customer)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	categories, err := h.catalog.Categories(ctx)
	if err != nil {
		handleError(w, err)
		return
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	respondJSON(w, http.StatusOK, categories)
}

func (h *CatalogHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	category, err := h.catalog.Category(ctx, chi.URLParam(r, "slug"))
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, category)
}

func (h *CatalogHandler) ListBanners(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	banners, err := h.catalog.Banners(ctx)
	if err != nil {
		handleError(w, err)
		return
	}
	if banners == nil {
		banners = []domain.Banner{}
	}
	respondJSON(w, http.StatusOK, banners)
}

func (h *CatalogHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	respondJSON(w, http.StatusOK, h.catalog.Settings(ctx))
}

// GetHome always answers 200; failed sections come back empty.
func (h *CatalogHandler) GetHome(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	page, _ := h.catalog.Home(ctx)
	respondJSON(w, http.StatusOK, page)
}

func (h *CatalogHandler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var msg domain.ContactMessage
	if err := decodeBody(r, &msg, false); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.shop(r).SubmitContact(ctx, msg); err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"message": "Message sent successfully! We'll get back to you soon."})
}

func parseProductQuery(values url.Values) (api.ProductQuery, error) {
	q := api.ProductQuery{
		Search:    values.Get("search"),
		Category:  values.Get("category"),
		SortBy:    values.Get("sortBy"),
		SortOrder: values.Get("sortOrder"),
		Exclude:   values.Get("exclude"),
		InStock:   values.Get("inStock") == "true",
		Featured:  values.Get("featured") == "true",
		Page:      1,
		Limit:     defaultPageSize,
	}

	floats := map[string]*float64{"minPrice": &q.MinPrice, "maxPrice": &q.MaxPrice, "rating": &q.Rating}
	for key, dst := range floats {
		raw := values.Get(key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			return api.ProductQuery{}, errInvalidParam(key)
		}
		*dst = v
	}

	ints := map[string]*int{"page": &q.Page, "limit": &q.Limit}
	for key, dst := range ints {
		raw := values.Get(key)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return api.ProductQuery{}, errInvalidParam(key)
		}
		*dst = v
	}
	return q, nil
}

type errInvalidParam string

func (e errInvalidParam) Error() string {
	return string(e) + " must be a positive number"
}
