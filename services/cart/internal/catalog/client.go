package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Skotchmaster/shop_cart/services/cart/internal/models"
)

var ErrNotFound = errors.New("catalog: not found")

// Client reads product details and stock from the catalog service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(catalogServiceURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(catalogServiceURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

func (c *Client) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	var p models.Product
	if err := c.getJSON(ctx, "/products/"+strconv.Itoa(id), &p); err != nil {
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	return &p, nil
}

func (c *Client) GetStock(ctx context.Context, id int) (*models.Stock, error) {
	var s models.Stock
	if err := c.getJSON(ctx, "/stock/"+strconv.Itoa(id), &s); err != nil {
		return nil, fmt.Errorf("get stock %d: %w", id, err)
	}
	return &s, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("catalog responded with status: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
