package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/ahmadqo/campus-console/internal/logger"
	"github.com/ahmadqo/campus-console/internal/model"
)

// Client talks to the school backend. It holds no per-page state; every
// call is a single HTTP round trip.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

type Option func(*Client)

// WithToken sends "Authorization: Bearer <token>" on every call.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient replaces the default client (used by tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Resource binds the client to one entity's endpoints.
func (c *Client) Resource(name string, ep Endpoints) *Resource {
	return &Resource{client: c, name: name, endpoints: ep}
}

// Resource issues list/get/add/update/remove calls for one entity.
type Resource struct {
	client    *Client
	name      string
	endpoints Endpoints
}

func (r *Resource) Name() string {
	return r.name
}

func (r *Resource) Endpoints() Endpoints {
	return r.endpoints
}

func (r *Resource) List(ctx context.Context) ([]model.Record, error) {
	var body any
	if err := r.client.do(ctx, r.name, "list", http.MethodGet, r.endpoints.List, nil, &body); err != nil {
		return nil, err
	}
	return PickArray(body), nil
}

func (r *Resource) Get(ctx context.Context, id string) (model.Record, error) {
	var body any
	if err := r.client.do(ctx, r.name, "get", http.MethodGet, WithID(r.endpoints.Get, id), nil, &body); err != nil {
		return nil, err
	}
	rec := PickObject(body)
	if rec == nil {
		// some modules answer a detail call with a one-element list
		if list := PickArray(body); len(list) > 0 {
			rec = list[0]
		}
	}
	if rec == nil {
		return nil, &APIError{StatusCode: http.StatusNotFound, Message: fmt.Sprintf("%s %s not found", r.name, id)}
	}
	return rec, nil
}

func (r *Resource) Add(ctx context.Context, payload model.Record) (model.Record, error) {
	var body any
	if err := r.client.do(ctx, r.name, "add", http.MethodPost, r.endpoints.Add, payload, &body); err != nil {
		return nil, err
	}
	return PickObject(body), nil
}

func (r *Resource) Update(ctx context.Context, id string, payload model.Record) (model.Record, error) {
	var body any
	if err := r.client.do(ctx, r.name, "update", http.MethodPut, WithID(r.endpoints.Update, id), payload, &body); err != nil {
		return nil, err
	}
	return PickObject(body), nil
}

func (r *Resource) Remove(ctx context.Context, id string) error {
	return r.client.do(ctx, r.name, "delete", http.MethodDelete, WithID(r.endpoints.Delete, id), nil, nil)
}

// GetJSON fetches an arbitrary backend path and decodes the body into out.
func (c *Client) GetJSON(ctx context.Context, resource, path string, out any) error {
	return c.do(ctx, resource, "get", http.MethodGet, path, nil, out)
}

func (c *Client) do(ctx context.Context, resource, op, method, path string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode %s payload: %w", resource, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.send(req, resource, op)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading %s response: %v", ErrTransport, resource, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Message: extractMessage(data), Body: data}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	if err := decodeJSON(data, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", resource, err)
	}
	return nil
}

// decodeJSON keeps numbers as json.Number so numeric ids survive intact.
func decodeJSON(data []byte, out any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, JoinURL(c.baseURL, path), body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	reqID := chiMiddleware.GetReqID(ctx)
	if reqID == "" {
		reqID = uuid.New().String()
	}
	req.Header.Set("X-Request-ID", reqID)

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// send performs the round trip and records metrics. Transport failures
// are wrapped in ErrTransport.
func (c *Client) send(req *http.Request, resource, op string) (*http.Response, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	elapsed := time.Since(start)

	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	requestsTotal.WithLabelValues(resource, op, outcomeOf(status, err)).Inc()
	requestSeconds.WithLabelValues(resource, op).Observe(elapsed.Seconds())

	logger.Debug().
		Str("resource", resource).
		Str("op", op).
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Int("status", status).
		Dur("elapsed", elapsed).
		Msg("backend call")

	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrTransport, ctxErr)
		}
		return nil, fmt.Errorf("%w: %s %s: %v", ErrTransport, req.Method, strings.TrimPrefix(req.URL.Path, "/"), err)
	}
	return resp, nil
}
