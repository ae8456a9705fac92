// Package client talks to a running rango server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"

	"github.com/go-sod/rango/internal/catalog"
	"github.com/go-sod/rango/internal/geom"
	"github.com/go-sod/rango/internal/httputil"
)

type Config struct {
	Addr      string        `envconfig:"RANGO_CLIENT_ADDR" default:"http://localhost:8787"`
	Timeout   time.Duration `envconfig:"RANGO_CLIENT_TIMEOUT" default:"30s"`
	AuthToken string        `envconfig:"RANGO_AUTH_TOKEN"`
}

type Client struct {
	base string
	http *http.Client
}

func New(cfg Config) (*Client, error) {
	if _, err := url.ParseRequestURI(cfg.Addr); err != nil {
		return nil, fmt.Errorf("invalid server address %q: %w", cfg.Addr, err)
	}
	return &Client{
		base: cfg.Addr,
		http: httputil.NewClient(httputil.ClientConfig{Timeout: cfg.Timeout, BearerToken: cfg.AuthToken}),
	}, nil
}

// Error is a non 2xx answer of the server.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("rango: status %d: %s", e.StatusCode, e.Message)
}

type Result struct {
	Points []geom.Point[float64] `json:"points,omitempty"`
	Count  int                   `json:"count"`
}

type rangeRequest struct {
	Dataset    string                    `json:"dataset"`
	Rectangles []geom.Rectangle[float64] `json:"rectangles"`
	CountOnly  bool                      `json:"countOnly"`
}

type rangeResponse struct {
	Results []Result `json:"results"`
}

type pointsRequest struct {
	Points []geom.Point[float64] `json:"points"`
}

// PutDataset replaces the points of dataset name.
func (c *Client) PutDataset(ctx context.Context, name string, points []geom.Point[float64]) (catalog.Stats, error) {
	var stats catalog.Stats
	err := c.do(ctx, http.MethodPut, datasetsPath(name), pointsRequest{Points: points}, &stats)
	return stats, err
}

func (c *Client) Dataset(ctx context.Context, name string) (catalog.Stats, error) {
	var stats catalog.Stats
	err := c.do(ctx, http.MethodGet, datasetsPath(name), nil, &stats)
	return stats, err
}

func (c *Client) Datasets(ctx context.Context) ([]string, error) {
	var resp struct {
		Datasets []string `json:"datasets"`
	}
	if err := c.do(ctx, http.MethodGet, "/datasets", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Datasets, nil
}

func (c *Client) DeleteDataset(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodDelete, datasetsPath(name), nil, nil)
}

// Range answers every rectangle against dataset, results follow the order of
// rects. With countOnly the results carry counts only.
func (c *Client) Range(ctx context.Context, dataset string, countOnly bool, rects ...geom.Rectangle[float64]) ([]Result, error) {
	var resp rangeResponse
	req := rangeRequest{Dataset: dataset, Rectangles: rects, CountOnly: countOnly}
	if err := c.do(ctx, http.MethodPost, "/range", req, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

func datasetsPath(name string) string {
	return "/datasets?" + url.Values{"name": []string{name}}.Encode()
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := gjson.GetBytes(payload, "error").String()
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &Error{StatusCode: resp.StatusCode, Message: msg}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
