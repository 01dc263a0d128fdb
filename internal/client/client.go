// Package client is a typed SDK for the shop API. Authenticated calls take
// an explicit *Session; the client itself holds no per-user state.
package client

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
)

// ErrNoSession is returned by authenticated calls made without a session.
var ErrNoSession = errors.New("not logged in")

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New builds a client for the API rooted at baseURL. A nil httpClient
// gets a default with a 15s timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *Client) do(ctx context.Context, method, path string, s *Session, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s != nil {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if json.Unmarshal(raw, &e) != nil || e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: e.Error}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) authed(ctx context.Context, method, path string, s *Session, in, out any) error {
	if s == nil || s.Token == "" {
		return ErrNoSession
	}
	return c.do(ctx, method, path, s, in, out)
}

// RegisterRequest is the sign-up payload. There is no role field.
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
}

func (c *Client) Register(ctx context.Context, in RegisterRequest) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", nil, in, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// Login exchanges credentials for a new Session.
func (c *Client) Login(ctx context.Context, username, password string) (*Session, error) {
	in := map[string]string{"username": username, "password": password}
	var out Session
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	err := c.do(ctx, http.MethodPost, "/api/auth/forgot-password", nil, map[string]string{"email": email}, &out)
	return out.Message, err
}

func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) error {
	in := map[string]string{"reset_token": token, "new_password": newPassword}
	return c.do(ctx, http.MethodPost, "/api/auth/reset-password", nil, in, nil)
}

func (c *Client) Me(ctx context.Context, s *Session) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	if err := c.authed(ctx, http.MethodGet, "/api/users/me", s, nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// ProfileUpdate holds optional profile changes; nil fields are left alone.
type ProfileUpdate struct {
	Username   *string `json:"username,omitempty"`
	Email      *string `json:"email,omitempty"`
	FirstName  *string `json:"first_name,omitempty"`
	LastName   *string `json:"last_name,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Address    *string `json:"address,omitempty"`
	CreditCard *string `json:"credit_card,omitempty"`
}

func (c *Client) UpdateProfile(ctx context.Context, s *Session, in ProfileUpdate) (*User, error) {
	if s == nil {
		return nil, ErrNoSession
	}
	var out struct {
		User User `json:"user"`
	}
	if err := c.authed(ctx, http.MethodPut, "/api/users/"+url.PathEscape(s.User.ID), s, in, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// ProductQuery filters catalog listings; empty fields are omitted.
type ProductQuery struct {
	Search   string
	Category string
	MinPrice string
	MaxPrice string
}

func (q ProductQuery) encode() string {
	v := url.Values{}
	for key, val := range map[string]string{
		"search":    q.Search,
		"category":  q.Category,
		"min_price": q.MinPrice,
		"max_price": q.MaxPrice,
	} {
		if val != "" {
			v.Set(key, val)
		}
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

func (c *Client) Products(ctx context.Context, q ProductQuery) ([]Product, error) {
	var out struct {
		Products []Product `json:"products"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/products"+q.encode(), nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Products, nil
}

func (c *Client) Product(ctx context.Context, id string) (*Product, error) {
	var out struct {
		Product Product `json:"product"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/products/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.Product, nil
}

func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var out struct {
		Categories []string `json:"categories"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/products/categories", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Categories, nil
}

func (c *Client) Cart(ctx context.Context, s *Session) (*Cart, error) {
	var out Cart
	if err := c.authed(ctx, http.MethodGet, "/api/cart", s, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AddToCart(ctx context.Context, s *Session, productID string, quantity int) (*CartItem, error) {
	in := map[string]any{"product_id": productID, "quantity": quantity}
	var out struct {
		Item CartItem `json:"item"`
	}
	if err := c.authed(ctx, http.MethodPost, "/api/cart/items", s, in, &out); err != nil {
		return nil, err
	}
	return &out.Item, nil
}

func (c *Client) UpdateCartItem(ctx context.Context, s *Session, itemID string, quantity int) (*CartItem, error) {
	var out struct {
		Item CartItem `json:"item"`
	}
	in := map[string]int{"quantity": quantity}
	if err := c.authed(ctx, http.MethodPut, "/api/cart/items/"+url.PathEscape(itemID), s, in, &out); err != nil {
		return nil, err
	}
	return &out.Item, nil
}

func (c *Client) RemoveCartItem(ctx context.Context, s *Session, itemID string) error {
	return c.authed(ctx, http.MethodDelete, "/api/cart/items/"+url.PathEscape(itemID), s, nil, nil)
}

func (c *Client) ClearCart(ctx context.Context, s *Session) error {
	return c.authed(ctx, http.MethodDelete, "/api/cart", s, nil, nil)
}

// Checkout places an order for the caller's cart. The server computes the
// total; the client never sends one.
func (c *Client) Checkout(ctx context.Context, s *Session, shippingAddress string) (*Order, error) {
	var out struct {
		Order Order `json:"order"`
	}
	in := map[string]string{"shipping_address": shippingAddress}
	if err := c.authed(ctx, http.MethodPost, "/api/orders", s, in, &out); err != nil {
		return nil, err
	}
	return &out.Order, nil
}

func (c *Client) Orders(ctx context.Context, s *Session) ([]Order, error) {
	var out struct {
		Orders []Order `json:"orders"`
	}
	if err := c.authed(ctx, http.MethodGet, "/api/orders", s, nil, &out); err != nil {
		return nil, err
	}
	return out.Orders, nil
}

func (c *Client) Order(ctx context.Context, s *Session, id string) (*Order, error) {
	var out struct {
		Order Order `json:"order"`
	}
	if err := c.authed(ctx, http.MethodGet, "/api/orders/"+url.PathEscape(id), s, nil, &out); err != nil {
		return nil, err
	}
	return &out.Order, nil
}

func (c *Client) CancelOrder(ctx context.Context, s *Session, id string) (*Order, error) {
	var out struct {
		Order Order `json:"order"`
	}
	if err := c.authed(ctx, http.MethodDelete, "/api/orders/"+url.PathEscape(id), s, nil, &out); err != nil {
		return nil, err
	}
	return &out.Order, nil
}

func (c *Client) ProductReviews(ctx context.Context, productID string) ([]Review, error) {
	var out struct {
		Reviews []Review `json:"reviews"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/reviews/product/"+url.PathEscape(productID), nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Reviews, nil
}

func (c *Client) CreateReview(ctx context.Context, s *Session, productID string, rating int, comment string) (*Review, error) {
	in := map[string]any{"product_id": productID, "rating": rating, "comment": comment}
	var out struct {
		Review Review `json:"review"`
	}
	if err := c.authed(ctx, http.MethodPost, "/api/reviews", s, in, &out); err != nil {
		return nil, err
	}
	return &out.Review, nil
}

func (c *Client) Stats(ctx context.Context, s *Session) (*Stats, error) {
	var out Stats
	if err := c.authed(ctx, http.MethodGet, "/api/admin/stats", s, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AdminOrders(ctx context.Context, s *Session, status string) ([]Order, error) {
	path := "/api/admin/orders"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	var out struct {
		Orders []Order `json:"orders"`
	}
	if err := c.authed(ctx, http.MethodGet, path, s, nil, &out); err != nil {
		return nil, err
	}
	return out.Orders, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, s *Session, id, status string) (*Order, error) {
	var out struct {
		Order Order `json:"order"`
	}
	in := map[string]string{"status": status}
	if err := c.authed(ctx, http.MethodPut, "/api/orders/"+url.PathEscape(id), s, in, &out); err != nil {
		return nil, err
	}
	return &out.Order, nil
}
