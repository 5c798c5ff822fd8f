// Package notion implements the record store on top of the Notion REST API.
// Each instrument group lives in its own Notion database; rows are pages.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"notion-price-sync/internal/application"
	"notion-price-sync/internal/domain"
	"notion-price-sync/internal/infrastructure/httpx"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const service = "notion"

type Client struct {
	BaseURL string
	HTTP    *httpx.Client
	// Limiter paces every call; nil means unpaced.
	Limiter *rate.Limiter
	Log     *zap.Logger
}

var _ application.RecordStore = (*Client)(nil)

func NewClient(baseURL, token, version string, rps float64, hc *http.Client, log *zap.Logger) *Client {
	var lim *rate.Limiter
	if rps > 0 {
		lim = rate.NewLimiter(rate.Limit(rps), 1)
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &httpx.Client{
			Service: service,
			HTTP:    hc,
			Token:   token,
			Header:  http.Header{"Notion-Version": []string{version}},
		},
		Limiter: lim,
		Log:     log,
	}
}

type databaseResp struct {
	Properties map[string]struct {
		Type string `json:"type"`
	} `json:"properties"`
}

type titleFilter struct {
	Property string `json:"property"`
	Title    struct {
		Equals string `json:"equals"`
	} `json:"title"`
}

type queryReq struct {
	Filter   titleFilter `json:"filter"`
	PageSize int         `json:"page_size"`
}

type queryResp struct {
	Results []struct {
		ID string `json:"id"`
	} `json:"results"`
}

type numberValue struct {
	Number float64 `json:"number"`
}

type dateValue struct {
	Date struct {
		Start string `json:"start"`
	} `json:"date"`
}

type patchReq struct {
	Properties map[string]any `json:"properties"`
}

// Schema returns the property names and types of a database.
func (c *Client) Schema(ctx context.Context, databaseID string) (domain.Schema, error) {
	var out databaseResp
	if err := c.call(ctx, http.MethodGet, "/v1/databases/"+url.PathEscape(databaseID), nil, &out); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstreamFailed, err)
	}
	schema := make(domain.Schema, len(out.Properties))
	for name, p := range out.Properties {
		schema[name] = p.Type
	}
	return schema, nil
}

// QueryByTitle returns the ids of pages whose title equals title.
// At most two are requested: enough to tell one match from several.
func (c *Client) QueryByTitle(ctx context.Context, databaseID, titleField, title string) ([]string, error) {
	body := queryReq{PageSize: 2}
	body.Filter.Property = titleField
	body.Filter.Title.Equals = title

	var out queryResp
	if err := c.call(ctx, http.MethodPost, "/v1/databases/"+url.PathEscape(databaseID)+"/query", body, &out); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstreamFailed, err)
	}
	ids := make([]string, 0, len(out.Results))
	for _, r := range out.Results {
		ids = append(ids, r.ID)
	}
	return ids, nil
}

// PatchRow writes the patch into a page's properties. A rejected write is
// logged with its status and body before the error is returned.
func (c *Client) PatchRow(ctx context.Context, pageID string, patch domain.RowPatch) error {
	props := make(map[string]any, len(patch.Numbers)+len(patch.Dates))
	for name, v := range patch.Numbers {
		props[name] = numberValue{Number: v}
	}
	for name, t := range patch.Dates {
		var dv dateValue
		dv.Date.Start = t.UTC().Format(time.RFC3339Nano)
		props[name] = dv
	}

	err := c.call(ctx, http.MethodPatch, "/v1/pages/"+url.PathEscape(pageID), patchReq{Properties: props}, nil)
	if err == nil {
		return nil
	}
	var se *httpx.StatusError
	if errors.As(err, &se) {
		c.logger().Error("notion.update_failed",
			zap.String("page_id", pageID),
			zap.Int("status", se.StatusCode),
			zap.String("body", se.Body),
		)
	}
	return fmt.Errorf("%w: page %s: %w", domain.ErrWriteFailed, pageID, err)
}

func (c *Client) call(ctx context.Context, method, path string, in, out any) error {
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return fmt.Errorf("notion: rate limiter: %w", err)
		}
	}
	var body *bytes.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("notion: encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, c.BaseURL+path, nil)
	}
	if err != nil {
		return fmt.Errorf("notion: create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.HTTP.DoJSON(ctx, req, out)
}

func (c *Client) logger() *zap.Logger {
	if c.Log == nil {
		return zap.NewNop()
	}
	return c.Log
}
