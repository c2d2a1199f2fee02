// Package client talks to the remote catalog REST API.
package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/goccy/go-json"

	"catalog-browser/internal/catalog"
	"catalog-browser/internal/models"
)

// DefaultBaseURL is the public catalog API.
const DefaultBaseURL = "https://api.escuelajs.co/api/v1"

// maxErrorBody caps how much of an error response is kept.
const maxErrorBody = 512

// Client fetches products and categories. Every call issues a fresh
// request; nothing is cached between calls.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchProducts returns every product in the catalog.
func (c *Client) FetchProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.get(ctx, "/products", &products); err != nil {
		return nil, err
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

// FetchProductByID returns a single product. It fails with ErrInvalidID
// for non-positive ids and with an error matching ErrNotFound when the
// product does not exist.
func (c *Client) FetchProductByID(ctx context.Context, id int) (*models.Product, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}

	var product models.Product
	if err := c.get(ctx, fmt.Sprintf("/products/%d", id), &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// FetchCategories returns every category.
func (c *Client) FetchCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := c.get(ctx, "/categories", &categories); err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []models.Category{}
	}
	return categories, nil
}

// FetchCategoryNames returns the category names sorted ascending.
func (c *Client) FetchCategoryNames(ctx context.Context) ([]string, error) {
	categories, err := c.FetchCategories(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.CategoryNames(categories), nil
}

func (c *Client) get(ctx context.Context, path string, dest interface{}) error {
	url := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Op: http.MethodGet, URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &HTTPStatusError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
			notFound:   isEntityNotFound(resp.StatusCode, body),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		if ctx.Err() != nil {
			return &NetworkError{Op: http.MethodGet, URL: url, Err: err}
		}
		return errors.Wrapf(err, "decode %s", path)
	}
	return nil
}

// isEntityNotFound recognises the API's answer for a missing id, which
// comes back as a 400 with an EntityNotFoundError body instead of a 404.
func isEntityNotFound(status int, body []byte) bool {
	if status != http.StatusBadRequest {
		return false
	}
	var payload struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return false
	}
	return payload.Name == "EntityNotFoundError"
}
