// Package remote talks to the POS backend that owns products, suppliers,
// users, maintenance records, payments and returns.
package remote

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
)

// Error is a non-2xx answer from the backend.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned %d", e.Status)
	}
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type Client struct {
	http *resty.Client
}

// New builds a client for the backend at baseURL. Requests are not retried.
func New(baseURL string, timeout time.Duration) *Client {
	hc := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")
	return &Client{http: hc}
}

// As returns a view of the client that authenticates with token.
func (c *Client) As(token string) *Session {
	return &Session{client: c, token: token}
}

type Session struct {
	client *Client
	token  string
}

type call struct {
	method string
	path   string
	params map[string]string
	body   any
	out    any
}

func (c *Client) do(ctx context.Context, token string, cl call) error {
	req := c.http.R().SetContext(ctx).SetError(&errorBody{})
	if token != "" {
		req.SetAuthToken(token)
	}
	if cl.params != nil {
		req.SetPathParams(cl.params)
	}
	if cl.body != nil {
		req.SetBody(cl.body)
	}
	if cl.out != nil {
		req.SetResult(cl.out)
	}

	resp, err := req.Execute(cl.method, cl.path)
	if err != nil {
		return errors.Wrapf(err, "%s %s", cl.method, cl.path)
	}
	if resp.IsError() {
		apiErr := &Error{Status: resp.StatusCode()}
		if body, ok := resp.Error().(*errorBody); ok && body != nil {
			apiErr.Message = body.Error
			if apiErr.Message == "" {
				apiErr.Message = body.Message
			}
		}
		return apiErr
	}
	return nil
}

func (s *Session) do(ctx context.Context, cl call) error {
	return s.client.do(ctx, s.token, cl)
}
