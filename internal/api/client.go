// Package api is the HTTP client for the Controle Financeiro API. It is
// purely request/response: every operation performs exactly one request,
// holds no state beyond the base URL, and converts any non-2xx response into
// a typed failure. Retry and caching policy belong to callers.
package api

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

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Wellerson-M/controle-financeiro/internal/core"
	applog "github.com/Wellerson-M/controle-financeiro/internal/log"
)

type Client struct {
	base string
	http *http.Client
	log  *applog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient swaps the underlying HTTP client, e.g. to insert the offline
// cache transport.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New creates a client for the API at base, e.g. "http://127.0.0.1:8000".
func New(base string, opts ...Option) *Client {
	c := &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: 30 * time.Second},
		log:  applog.Default().WithComponent(applog.ComponentAPI),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// Overview is the server-computed headline aggregate.
type Overview struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}

// Register creates an account and returns the issued bearer token.
func (c *Client) Register(ctx context.Context, email, password string) (string, error) {
	body := map[string]string{"email": email, "password": password}
	var out tokenResponse
	if err := c.doJSON(ctx, "register", http.MethodPost, "/auth/register", "", body, &out, authFailure); err != nil {
		return "", err
	}
	return out.AccessToken, nil
}

// Login exchanges credentials for a bearer token. The endpoint expects a
// form-encoded body with username/password fields.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	req, err := c.newRequest(ctx, http.MethodPost, "/auth/token", "", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var out tokenResponse
	if err := c.send(req, "login", &out, authFailure); err != nil {
		return "", err
	}
	return out.AccessToken, nil
}

// Me resolves the identity behind a token.
func (c *Client) Me(ctx context.Context, token string) (core.User, error) {
	var u core.User
	err := c.doJSON(ctx, "me", http.MethodGet, "/me", token, nil, &u, authFailure)
	return u, err
}

// CreateTransaction records a new transaction and returns the stored record.
func (c *Client) CreateTransaction(ctx context.Context, token string, in core.TransactionInput) (core.Transaction, error) {
	var tr core.Transaction
	err := c.doJSON(ctx, "create transaction", http.MethodPost, "/transactions", token, in, &tr, validationFailure)
	return tr, err
}

// ListTransactions returns all transactions, newest first per the server
// contract.
func (c *Client) ListTransactions(ctx context.Context, token string) ([]core.Transaction, error) {
	var txs []core.Transaction
	err := c.doJSON(ctx, "list transactions", http.MethodGet, "/transactions", token, nil, &txs, fetchFailure)
	return txs, err
}

// UpdateTransaction replaces the fields of an existing transaction.
func (c *Client) UpdateTransaction(ctx context.Context, token string, id int64, in core.TransactionInput) (core.Transaction, error) {
	var tr core.Transaction
	err := c.doJSON(ctx, "update transaction", http.MethodPut, "/transactions/"+strconv.FormatInt(id, 10), token, in, &tr, validationFailure)
	return tr, err
}

// DeleteTransaction removes a transaction by id.
func (c *Client) DeleteTransaction(ctx context.Context, token string, id int64) error {
	return c.doJSON(ctx, "delete transaction", http.MethodDelete, "/transactions/"+strconv.FormatInt(id, 10), token, nil, nil, notFoundFailure)
}

// MarkPaid flags a transaction as settled.
func (c *Client) MarkPaid(ctx context.Context, token string, id int64) (core.Transaction, error) {
	var tr core.Transaction
	err := c.doJSON(ctx, "mark paid", http.MethodPatch, "/transactions/"+strconv.FormatInt(id, 10)+"/pay", token, nil, &tr, notFoundFailure)
	return tr, err
}

// GetOverview fetches the server-side income/expense/balance aggregate.
func (c *Client) GetOverview(ctx context.Context, token string) (Overview, error) {
	var ov Overview
	err := c.doJSON(ctx, "analytics overview", http.MethodGet, "/analytics/overview", token, nil, &ov, fetchFailure)
	return ov, err
}

// GetMonthlyAnalytics fetches the period -> flow aggregate.
func (c *Client) GetMonthlyAnalytics(ctx context.Context, token string) (core.MonthlyAggregate, error) {
	var agg core.MonthlyAggregate
	err := c.doJSON(ctx, "monthly analytics", http.MethodGet, "/analytics/monthly", token, nil, &agg, fetchFailure)
	return agg, err
}

// GetCategoryAnalytics fetches the category -> flow aggregate.
func (c *Client) GetCategoryAnalytics(ctx context.Context, token string) (core.CategoryAggregate, error) {
	var agg core.CategoryAggregate
	err := c.doJSON(ctx, "category analytics", http.MethodGet, "/analytics/categories", token, nil, &agg, fetchFailure)
	return agg, err
}

// CreateBudget creates a category budget for a period.
func (c *Client) CreateBudget(ctx context.Context, token string, in core.BudgetInput) (core.Budget, error) {
	var b core.Budget
	err := c.doJSON(ctx, "create budget", http.MethodPost, "/budgets", token, in, &b, fetchFailure)
	return b, err
}

// ListBudgets returns every budget of the current user.
func (c *Client) ListBudgets(ctx context.Context, token string) ([]core.Budget, error) {
	var bs []core.Budget
	err := c.doJSON(ctx, "list budgets", http.MethodGet, "/budgets", token, nil, &bs, fetchFailure)
	return bs, err
}

// UpdateBudget replaces the fields of an existing budget.
func (c *Client) UpdateBudget(ctx context.Context, token string, id int64, in core.BudgetInput) (core.Budget, error) {
	var b core.Budget
	err := c.doJSON(ctx, "update budget", http.MethodPut, "/budgets/"+strconv.FormatInt(id, 10), token, in, &b, fetchFailure)
	return b, err
}

// DeleteBudget removes a budget by id.
func (c *Client) DeleteBudget(ctx context.Context, token string, id int64) error {
	return c.doJSON(ctx, "delete budget", http.MethodDelete, "/budgets/"+strconv.FormatInt(id, 10), token, nil, nil, notFoundFailure)
}

// failureKind maps a failed response to the typed error of the operation.
type failureKind func(op string, status int, message string) error

func authFailure(op string, status int, message string) error {
	return &AuthError{Op: op, Status: status, Message: message}
}

func validationFailure(op string, status int, message string) error {
	return &ValidationError{Op: op, Status: status, Message: message}
}

func fetchFailure(op string, status int, message string) error {
	if status == http.StatusNotFound {
		return &NotFoundError{Op: op, Status: status, Message: message}
	}
	return &FetchError{Op: op, Status: status, Message: message}
}

func notFoundFailure(op string, status int, message string) error {
	if status == http.StatusNotFound {
		return &NotFoundError{Op: op, Status: status, Message: message}
	}
	return &FetchError{Op: op, Status: status, Message: message}
}

func (c *Client) newRequest(ctx context.Context, method, path, token string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request %s %s: %w", method, path, err)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// doJSON performs one request with an optional JSON body and decodes a JSON
// response into out (which may be nil for operations without a useful body).
func (c *Client) doJSON(ctx context.Context, op, method, path, token string, body, out any, failure failureKind) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode payload: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := c.newRequest(ctx, method, path, token, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, op, out, failure)
}

func (c *Client) send(req *http.Request, op string, out any, failure failureKind) error {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	logger := c.log.With(applog.FieldRequestID, req.Header.Get("X-Request-ID"))
	logger.DebugContext(req.Context(), "api request",
		applog.FieldOperation, op,
		applog.FieldMethod, req.Method,
		applog.FieldEndpoint, req.URL.Path,
		applog.FieldStatus, resp.StatusCode,
		applog.FieldDuration, time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return failure(op, resp.StatusCode, errorMessage(resp.Body))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

// errorMessage extracts the server's {"detail": ...} message when present.
func errorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(raw) == 0 {
		return "request failed"
	}
	var detail struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &detail); err == nil && detail.Detail != "" {
		return detail.Detail
	}
	return strings.TrimSpace(string(raw))
}
