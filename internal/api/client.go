package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/Anand-247/FE-VF/internal/config"
	"github.com/Anand-247/FE-VF/internal/domain"
	"github.com/Anand-247/FE-VF/internal/logger"
	"github.com/Anand-247/FE-VF/internal/storage"
)

const maxBodySize = 4 << 20

type response struct {
	status int
	body   []byte
}

// Client talks to the shop's REST API. Requests carry the admin bearer token
// when one is stored; a 401 answer removes it.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[*response]
	tokens  storage.Store
	log     *zap.Logger
}

func NewClient(cfg config.APIConfig, tokens storage.Store, log *zap.Logger) *Client {
	log = logger.OrNop(log)

	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 5
	}
	breaker := gobreaker.NewCircuitBreaker[*response](gobreaker.Settings{
		Name:    "shop-api",
		Timeout: cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		breaker: breaker,
		tokens:  tokens,
		log:     log,
	}
}

func (c *Client) ListProducts(ctx context.Context, q ProductQuery) (domain.ProductPage, error) {
	var page domain.ProductPage
	err := c.do(ctx, http.MethodGet, "/products", q.Values(), nil, &page)
	return page, err
}

func (c *Client) GetProductBySlug(ctx context.Context, slug string) (domain.Product, error) {
	var p domain.Product
	err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(slug), nil, nil, &p)
	return p, err
}

func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	err := c.do(ctx, http.MethodGet, "/categories", nil, nil, &categories)
	return categories, err
}

func (c *Client) GetCategoryBySlug(ctx context.Context, slug string) (domain.Category, error) {
	var category domain.Category
	err := c.do(ctx, http.MethodGet, "/categories/"+url.PathEscape(slug), nil, nil, &category)
	return category, err
}

func (c *Client) ListBanners(ctx context.Context) ([]domain.Banner, error) {
	var banners []domain.Banner
	err := c.do(ctx, http.MethodGet, "/banners", nil, nil, &banners)
	return banners, err
}

func (c *Client) GetPublicSettings(ctx context.Context) (domain.Settings, error) {
	var s domain.Settings
	err := c.do(ctx, http.MethodGet, "/settings/public", nil, nil, &s)
	return s, err
}

func (c *Client) CreateContact(ctx context.Context, msg domain.ContactMessage) error {
	return c.do(ctx, http.MethodPost, "/contact", nil, msg, nil)
}

func (c *Client) CreateOrder(ctx context.Context, order domain.Order) error {
	return c.do(ctx, http.MethodPost, "/orders", nil, order, nil)
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Admin struct {
	ID    string `json:"_id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

type LoginResult struct {
	Token string `json:"token"`
	Admin Admin  `json:"admin"`
}

// Login authenticates and stores the returned token for later requests.
func (c *Client) Login(ctx context.Context, creds Credentials) (LoginResult, error) {
	var res LoginResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, creds, &res); err != nil {
		return LoginResult{}, err
	}
	if res.Token == "" {
		return LoginResult{}, errors.New("login response has no token")
	}
	if err := c.tokens.Set(ctx, storage.AdminTokenKey, []byte(res.Token)); err != nil {
		return LoginResult{}, fmt.Errorf("failed to store token: %w", err)
	}
	return res, nil
}

func (c *Client) Me(ctx context.Context) (Admin, error) {
	var admin Admin
	err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &admin)
	return admin, err
}

// Logout tells the API and drops the local token even if the call fails.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
	if derr := c.tokens.Delete(ctx, storage.AdminTokenKey); derr != nil {
		c.log.Error("error deleting admin token", zap.Error(derr))
	}
	return err
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	req, err := c.newRequest(ctx, method, path, query, in)
	if err != nil {
		return err
	}

	resp, err := c.breaker.Execute(func() (*response, error) {
		return c.send(req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("%w: %s %s: %v", ErrUnavailable, method, path, err)
		}
		var apiErr *Error
		if errors.As(err, &apiErr) {
			return apiErr
		}
		return fmt.Errorf("%s %s failed: %w", method, path, err)
	}

	if resp.status == http.StatusUnauthorized {
		if derr := c.tokens.Delete(ctx, storage.AdminTokenKey); derr != nil {
			c.log.Error("error deleting admin token", zap.Error(derr))
		}
	}
	if resp.status < 200 || resp.status > 299 {
		return &Error{StatusCode: resp.status, Message: errorMessage(resp.body)}
	}

	if out == nil || len(resp.body) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, in any) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token, err := c.tokens.Get(ctx, storage.AdminTokenKey)
	switch {
	case err == nil && len(token) > 0:
		req.Header.Set("Authorization", "Bearer "+string(token))
	case err != nil && !errors.Is(err, storage.ErrNotFound):
		c.log.Warn("error reading admin token", zap.Error(err))
	}
	return req, nil
}

// send performs one round trip. Transport failures and 5xx answers count
// against the breaker; other statuses are returned as responses.
func (c *Client) send(req *http.Request) (*response, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.log.Debug("api call",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)))

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, &Error{StatusCode: resp.StatusCode, Message: errorMessage(body)}
	}
	return &response{status: resp.StatusCode, body: body}, nil
}

func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}
