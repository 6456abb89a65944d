// Package client talks to the MoneyMap REST API on behalf of one signed-in
// user.
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
	"sync"
	"time"

	"moneymap/src/models"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("moneymap api: %d %s", e.Status, e.Message)
}

// Unwrap exposes the model sentinel matching the status, so callers can use
// errors.Is(err, models.ErrNotFound).
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusBadRequest:
		return models.ErrValidation
	case http.StatusUnauthorized:
		return models.ErrUnauthorized
	case http.StatusNotFound:
		return models.ErrNotFound
	}
	return nil
}

type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Register(ctx context.Context, email, password string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/register", models.Credentials{Email: email, Password: password}, nil)
}

// Login exchanges credentials for a bearer token and keeps it for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp models.TokenResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", models.Credentials{Email: email, Password: password}, &resp); err != nil {
		return "", err
	}
	c.SetToken(resp.Token)
	return resp.Token, nil
}

func (c *Client) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	return c.do(ctx, http.MethodPut, "/api/auth/change-password",
		models.ChangePasswordRequest{OldPassword: oldPassword, NewPassword: newPassword}, nil)
}

// DeleteAccount removes the account and forgets the token.
func (c *Client) DeleteAccount(ctx context.Context, password string) error {
	if err := c.do(ctx, http.MethodDelete, "/api/auth/account", models.DeleteAccountRequest{Password: password}, nil); err != nil {
		return err
	}
	c.SetToken("")
	return nil
}

func (c *Client) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	var out []models.Transaction
	err := c.do(ctx, http.MethodGet, "/api/transactions", nil, &out)
	return out, err
}

func (c *Client) CreateTransaction(ctx context.Context, t models.Transaction) (models.Transaction, error) {
	var out models.Transaction
	err := c.do(ctx, http.MethodPost, "/api/transactions", t, &out)
	return out, err
}

func (c *Client) UpdateTransaction(ctx context.Context, t models.Transaction) (models.Transaction, error) {
	var out models.Transaction
	err := c.do(ctx, http.MethodPut, "/api/transactions/"+url.PathEscape(t.ID), t, &out)
	return out, err
}

func (c *Client) DeleteTransaction(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/transactions/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ListBudgets(ctx context.Context) ([]models.Budget, error) {
	var out []models.Budget
	err := c.do(ctx, http.MethodGet, "/api/budgets", nil, &out)
	return out, err
}

func (c *Client) CreateBudget(ctx context.Context, b models.Budget) (models.Budget, error) {
	var out models.Budget
	err := c.do(ctx, http.MethodPost, "/api/budgets", b, &out)
	return out, err
}

func (c *Client) UpdateBudget(ctx context.Context, b models.Budget) (models.Budget, error) {
	var out models.Budget
	err := c.do(ctx, http.MethodPut, "/api/budgets/"+url.PathEscape(b.ID), b, &out)
	return out, err
}

func (c *Client) DeleteBudget(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/budgets/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ListReminders(ctx context.Context) ([]models.Reminder, error) {
	var out []models.Reminder
	err := c.do(ctx, http.MethodGet, "/api/reminders", nil, &out)
	return out, err
}

func (c *Client) CreateReminder(ctx context.Context, r models.Reminder) (models.Reminder, error) {
	var out models.Reminder
	err := c.do(ctx, http.MethodPost, "/api/reminders", r, &out)
	return out, err
}

func (c *Client) UpdateReminder(ctx context.Context, r models.Reminder) (models.Reminder, error) {
	var out models.Reminder
	err := c.do(ctx, http.MethodPut, "/api/reminders/"+url.PathEscape(r.ID), r, &out)
	return out, err
}

func (c *Client) DeleteReminder(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/reminders/"+url.PathEscape(id), nil, nil)
}

// ResetAll deletes every record of the signed-in user on the server.
func (c *Client) ResetAll(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/reset", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var msg models.MessageResponse
	if err := json.Unmarshal(data, &msg); err == nil && msg.Message != "" {
		apiErr.Message = msg.Message
	} else {
		apiErr.Message = strings.TrimSpace(string(data))
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}
