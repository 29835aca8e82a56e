// Package productclient wraps outbound calls to the product service. It holds
// no local state; stock and price are observed as point-in-time snapshots.
package productclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Jerico2530/Micro-E-Commerce-Platform/internal/auth"
	"github.com/Jerico2530/Micro-E-Commerce-Platform/internal/order"
)

// Client implements order.Inventory over the product service HTTP API. Every
// call forwards the caller's bearer token unchanged and carries an explicit
// timeout; expiry surfaces as order.ErrRemoteUnavailable. No call is retried.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	timeout time.Duration
}

func New(baseURL string, httpClient *http.Client, timeout time.Duration) *Client {
	u, err := url.Parse(baseURL)
	if err != nil {
		// Fail fast: config error
		panic(fmt.Sprintf("invalid product service base url %q: %v", baseURL, err))
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{baseURL: u, http: httpClient, timeout: timeout}
}

type envelope struct {
	StatusCode int             `json:"statusCode"`
	IsSuccess  bool            `json:"isSuccess"`
	Result     json.RawMessage `json:"result"`
}

type stockPayload struct {
	ProductID   int64 `json:"productId"`
	StockActual int   `json:"stockActual"`
	Disponible  bool  `json:"disponible"`
}

type productPayload struct {
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
}

type reduceRequest struct {
	ProductID int64 `json:"productId"`
	Cantidad  int   `json:"cantidad"`
}

// CheckStock reports whether current remote stock covers the requested quantity.
func (c *Client) CheckStock(ctx context.Context, productID int64, quantity int, token string) (bool, error) {
	var st stockPayload
	path := fmt.Sprintf("/api/stock/%d", productID)
	if err := c.do(ctx, http.MethodGet, path, nil, token, &st); err != nil {
		return false, err
	}
	return st.StockActual >= quantity, nil
}

// FetchPrice returns the current unit price of the product.
func (c *Client) FetchPrice(ctx context.Context, productID int64, token string) (float64, error) {
	var p productPayload
	path := fmt.Sprintf("/api/producto/%d", productID)
	if err := c.do(ctx, http.MethodGet, path, nil, token, &p); err != nil {
		return 0, err
	}
	if p.Price <= 0 {
		return 0, fmt.Errorf("%w: got %.2f", order.ErrInvalidPrice, p.Price)
	}
	return p.Price, nil
}

// ReduceStock asks the product service to commit a decrement. On return
// without error the remote decrement has already happened.
func (c *Client) ReduceStock(ctx context.Context, productID int64, quantity int, token string) error {
	body, err := json.Marshal(reduceRequest{ProductID: productID, Cantidad: quantity})
	if err != nil {
		return fmt.Errorf("marshal reduce request: %w", err)
	}
	var st stockPayload
	return c.do(ctx, http.MethodPost, "/api/stock/reducir", body, token, &st)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, token string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := c.baseURL.ResolveReference(&url.URL{Path: path})

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", order.ErrRemoteUnavailable, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	// Forward the caller's claims so the product service sees the same
	// identity that entered the order service.
	if uid := auth.UserID(ctx); uid > 0 {
		req.Header.Set(auth.HeaderUserID, strconv.FormatInt(uid, 10))
	}
	if perms := auth.Permissions(ctx); len(perms) > 0 {
		req.Header.Set(auth.HeaderPermissions, strings.Join(perms, ","))
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", order.ErrRemoteUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s %s returned %d", order.ErrRemoteUnavailable, method, path, resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%w: decode %s: %v", order.ErrRemoteContract, path, err)
	}
	if !env.IsSuccess || env.Result == nil {
		return fmt.Errorf("%w: %s reported failure", order.ErrRemoteContract, path)
	}
	if err := json.Unmarshal(env.Result, out); err != nil {
		return fmt.Errorf("%w: decode %s result: %v", order.ErrRemoteContract, path, err)
	}
	return nil
}
