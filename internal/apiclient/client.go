package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"imagestyle/internal/earnings"
	"imagestyle/internal/scheduling"
)

// APIError is any non-2xx answer from the server.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: status %d: %s: %s", e.Status, e.Code, e.Message)
}

// IsUnauthorized reports whether err is a 401 from the server.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type Client struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
}

type NewClient struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
}

type Slots struct {
	Date            string   `json:"date"`
	StaffID         int64    `json:"staff_id"`
	DurationMinutes int      `json:"duration_minutes"`
	Slots           []string `json:"slots"`
}

// HTTPClient is a typed client for the salon API. The token is sent as a
// bearer credential on every call once set.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	token   string
}

func New(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *HTTPClient) SetToken(token string) { c.token = token }
func (c *HTTPClient) Token() string         { return c.token }

// Login posts the password form and returns the bearer token. The client
// keeps the token for later calls.
func (c *HTTPClient) Login(ctx context.Context, email, password string) (string, error) {
	form := url.Values{"username": {email}, "password": {password}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var out struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := c.send(req, &out); err != nil {
		return "", err
	}
	c.token = out.AccessToken
	return out.AccessToken, nil
}

func (c *HTTPClient) Me(ctx context.Context) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) ListClients(ctx context.Context) ([]Client, error) {
	var out []Client
	if err := c.do(ctx, http.MethodGet, "/clients/", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) CreateClient(ctx context.Context, in NewClient) (*Client, error) {
	var out Client
	if err := c.do(ctx, http.MethodPost, "/clients/", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListAppointments fetches appointments within [start, end]. Prices are
// decoded leniently so the result can be fed to earnings.Aggregate.
func (c *HTTPClient) ListAppointments(ctx context.Context, start, end string) ([]earnings.Appointment, error) {
	q := url.Values{}
	if start != "" {
		q.Set("start", start)
	}
	if end != "" {
		q.Set("end", end)
	}
	var out []earnings.Appointment
	if err := c.do(ctx, http.MethodGet, "/appointments/", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) CreateAppointment(ctx context.Context, b scheduling.Booking) (*earnings.Appointment, error) {
	var out earnings.Appointment
	if err := c.do(ctx, http.MethodPost, "/appointments/", nil, b, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Slots(ctx context.Context, date string, staffID int64, durationMinutes int) (*Slots, error) {
	q := url.Values{
		"date":     {date},
		"staff_id": {strconv.FormatInt(staffID, 10)},
	}
	if durationMinutes > 0 {
		q.Set("duration", strconv.Itoa(durationMinutes))
	}
	var out Slots
	if err := c.do(ctx, http.MethodGet, "/appointments/slots", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Earnings aggregates the appointments of rng locally.
func (c *HTTPClient) Earnings(ctx context.Context, rng earnings.Range) (earnings.Summary, error) {
	start, end := rng.StartString(), rng.EndString()
	list, err := c.ListAppointments(ctx, start, end)
	if err != nil {
		return earnings.Summary{}, err
	}
	return earnings.Aggregate(list, start, end), nil
}

// ServerEarnings asks the server to aggregate a preset window.
func (c *HTTPClient) ServerEarnings(ctx context.Context, preset string) (*earnings.Summary, error) {
	var out earnings.Summary
	if err := c.do(ctx, http.MethodGet, "/earnings", url.Values{"preset": {preset}}, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Catalog(ctx context.Context) ([]scheduling.CatalogListing, error) {
	var out []scheduling.CatalogListing
	if err := c.do(ctx, http.MethodGet, "/catalog", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return c.send(req, out)
}

func (c *HTTPClient) send(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp.StatusCode, raw)
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(status int, raw []byte) error {
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	apiErr := &APIError{Status: status}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error.Code != "" {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
		return apiErr
	}
	apiErr.Message = strings.TrimSpace(string(raw))
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}
