// Package client is a small typed client for the lifeclock HTTP API.
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

const defaultTimeout = 10 * time.Second

// APIError is a non-2xx response decoded from the error envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s (%d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("%s (%d)", e.Code, e.Status)
}

// IsUnauthorized reports whether err is a 401 from the server.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// Person mirrors the server's person payload.
type Person struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Sex           string `json:"sex"`
	BirthDate     string `json:"birthDate"`
	IsAccountUser bool   `json:"isAccountUser"`
	RemainTime    int64  `json:"remainTime"`
}

type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	Sex       string `json:"sex"`
	BirthDate string `json:"birthDate"`
}

// Token is an issued access token.
type Token struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.http = c
	}
}

// WithToken authenticates every request with a bearer token.
func WithToken(token string) Option {
	return func(cl *Client) {
		cl.token = token
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, email, password string) (*Token, error) {
	var out Token
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/createAuthToken", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Signout revokes the client's token on the server.
func (c *Client) Signout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/signout", nil, nil)
}

// RemainTime fetches remaining seconds for sex and a birth date or year.
func (c *Client) RemainTime(ctx context.Context, sex, birth string) (int64, error) {
	q := url.Values{}
	q.Set("sex", sex)
	q.Set("year", birth)
	var out struct {
		RemainTime int64 `json:"remainTime"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/life/lifespan?"+q.Encode(), nil, &out); err != nil {
		return 0, err
	}
	return out.RemainTime, nil
}

// Persons lists the signed-in user's persons with their remaining time.
func (c *Client) Persons(ctx context.Context) ([]Person, error) {
	var out struct {
		FormattedPersons []Person `json:"formattedPersons"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/persons/findAll", nil, &out); err != nil {
		return nil, err
	}
	return out.FormattedPersons, nil
}

// Person returns one person without remaining time.
func (c *Client) Person(ctx context.Context, id string) (*Person, error) {
	var out struct {
		Person Person `json:"person"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/persons/find/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out.Person, nil
}

// Me returns the signed-in user's profile.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/users/find", nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Code: http.StatusText(resp.StatusCode)}
		var envelope struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&envelope) == nil && envelope.Error != "" {
			apiErr.Code, apiErr.Message = envelope.Error, envelope.Message
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
