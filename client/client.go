// Package client is a small REST client for the portal API, used by the
// admin CLI and integration tests. ListView builds on it to mirror the
// admin site's list pages: filter + pagination state driving refetches.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pkg/errors"

	"github.com/trezcool/idara/core/activity"
)

type (
	Client struct {
		baseURL string
		token   string
		http    *http.Client
	}

	// Query is the list request state kept as one cohesive value: scattering
	// page/limit/filters across independent variables invites partial-update
	// races.
	Query struct {
		Search  string
		Filters map[string]string
		Page    int
		Limit   int
	}

	ListResult struct {
		Data       []activity.Record
		Pagination activity.Pagination
	}

	// APIError carries the server's status code and error payload.
	APIError struct {
		StatusCode int
		Message    string
	}
)

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

func New(baseURL, token string) *Client {
	return &Client{baseURL: baseURL, token: token, http: http.DefaultClient}
}

func (c *Client) List(ctx context.Context, resource string, q Query) (ListResult, error) {
	v := make(url.Values)
	if q.Search != "" {
		v.Set("query", q.Search)
	}
	for key, val := range q.Filters {
		v.Set(key, val)
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}

	path := "/api/admin/" + resource
	if c.token == "" {
		path = "/api/public/" + resource
	}
	if enc := v.Encode(); enc != "" {
		path += "?" + enc
	}

	var res struct {
		Success    bool                `json:"success"`
		Data       []activity.Record   `json:"data"`
		Pagination activity.Pagination `json:"pagination"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &res); err != nil {
		return ListResult{}, err
	}
	return ListResult{Data: res.Data, Pagination: res.Pagination}, nil
}

func (c *Client) Create(ctx context.Context, resource string, rec activity.Record) (activity.Record, error) {
	var res struct {
		Data activity.Record `json:"data"`
	}
	err := c.do(ctx, http.MethodPost, "/api/admin/"+resource, rec, &res)
	return res.Data, err
}

func (c *Client) Update(ctx context.Context, resource, id string, rec activity.Record) (activity.Record, error) {
	var res struct {
		Data activity.Record `json:"data"`
	}
	err := c.do(ctx, http.MethodPut, "/api/admin/"+resource+"?id="+url.QueryEscape(id), rec, &res)
	return res.Data, err
}

func (c *Client) Delete(ctx context.Context, resource, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/admin/"+resource+"?id="+url.QueryEscape(id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return errors.Wrap(err, "encoding request body")
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "sending request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		var payload struct {
			Error json.RawMessage `json:"error"`
		}
		msg := resp.Status
		if err = json.NewDecoder(resp.Body).Decode(&payload); err == nil && len(payload.Error) > 0 {
			msg = string(payload.Error)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}
	if out != nil {
		if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
			return errors.Wrap(err, "decoding response")
		}
	}
	return nil
}
