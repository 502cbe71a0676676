// Package api is the HTTP client for the marketplace backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/mark3labs/handyhire/internal/logger"
)

// TokenSource yields the bearer token for authenticated calls.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Client talks to the backend REST API.
type Client struct {
	baseURL        *url.URL
	httpClient     *http.Client
	tokens         TokenSource
	onUnauthorized func(ctx context.Context)

	ratingWorkers int
	ratingLimiter *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the request timeout of the underlying http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithTokenSource enables bearer authentication.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithUnauthorizedHandler registers fn to run whenever the backend answers 401.
func WithUnauthorizedHandler(fn func(ctx context.Context)) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// WithRatingLimits bounds the rating fan-out to workers concurrent requests
// issued at no more than rps per second.
func WithRatingLimits(workers int, rps float64) Option {
	return func(c *Client) {
		if workers > 0 {
			c.ratingWorkers = workers
		}
		if rps > 0 {
			c.ratingLimiter = rate.NewLimiter(rate.Limit(rps), c.ratingWorkers)
		}
	}
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing api url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("api url %q must be absolute", baseURL)
	}

	c := &Client{
		baseURL:       u,
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		ratingWorkers: 4,
		ratingLimiter: rate.NewLimiter(rate.Limit(10), 4),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Profile returns the signed-in user's profile.
func (c *Client) Profile(ctx context.Context) (*Profile, error) {
	var p Profile
	if err := c.getJSON(ctx, "auth/profile", nil, true, &p); err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	return &p, nil
}

// DisplayProviders lists providers offering serviceType.
func (c *Client) DisplayProviders(ctx context.Context, serviceType string) ([]Provider, error) {
	q := url.Values{"serviceType": {serviceType}}
	var providers []Provider
	if err := c.getJSON(ctx, "book-provider/display-providers", q, false, &providers); err != nil {
		return nil, fmt.Errorf("list providers: %w", err)
	}
	return providers, nil
}

// ProviderRating returns the average feedback rating of one provider.
func (c *Client) ProviderRating(ctx context.Context, providerID string) (float64, error) {
	var fs FeedbackSummary
	path := "booked/provider-feedbacks/" + url.PathEscape(providerID)
	if err := c.getJSON(ctx, path, nil, false, &fs); err != nil {
		return 0, fmt.Errorf("fetch rating for %s: %w", providerID, err)
	}
	return fs.AverageRating, nil
}

// CreateOrder books a provider.
func (c *Client) CreateOrder(ctx context.Context, order OrderRequest) (*OrderResponse, error) {
	var out OrderResponse
	if err := c.postJSON(ctx, "book-provider/create-order", order, true, &out, http.StatusOK, http.StatusCreated); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return &out, nil
}

// RegisterProvider submits a provider registration as multipart form data.
// Only 201 Created counts as success.
func (c *Client) RegisterProvider(ctx context.Context, reg RegistrationRequest) (*MessageResponse, error) {
	body, contentType, err := registrationBody(reg)
	if err != nil {
		return nil, fmt.Errorf("register provider: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "service-provider/register", nil, body)
	if err != nil {
		return nil, fmt.Errorf("register provider: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	var out MessageResponse
	if err := c.do(req, true, &out, http.StatusCreated); err != nil {
		return nil, fmt.Errorf("register provider: %w", err)
	}
	return &out, nil
}

// SendOTP asks the backend to email a one-time code.
func (c *Client) SendOTP(ctx context.Context, email string) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.postJSON(ctx, "auth/send-otp", OTPRequest{Email: email}, false, &out, http.StatusOK); err != nil {
		return nil, fmt.Errorf("send otp: %w", err)
	}
	return &out, nil
}

// VerifyOTP checks a one-time code.
func (c *Client) VerifyOTP(ctx context.Context, email, otp string) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.postJSON(ctx, "auth/verify-otp", VerifyOTPRequest{Email: email, OTP: otp}, false, &out, http.StatusOK); err != nil {
		return nil, fmt.Errorf("verify otp: %w", err)
	}
	return &out, nil
}

// ResetPassword sets a new password using a verified code.
func (c *Client) ResetPassword(ctx context.Context, req ResetPasswordRequest) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.postJSON(ctx, "auth/reset-password", req, false, &out, http.StatusOK); err != nil {
		return nil, fmt.Errorf("reset password: %w", err)
	}
	return &out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, auth bool, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	return c.do(req, auth, out, http.StatusOK)
}

func (c *Client) postJSON(ctx context.Context, path string, body any, auth bool, out any, ok ...int) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, nil, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, auth, out, ok...)
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	u := c.baseURL.JoinPath(path)
	if query != nil {
		u.RawQuery = query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	return req, nil
}

// do sends req and decodes the body into out when the status is one of ok.
func (c *Client) do(req *http.Request, auth bool, out any, ok ...int) error {
	// Only a rejected bearer token ends the session.
	bearer := auth && c.tokens != nil
	if bearer {
		token, err := c.tokens.Token(req.Context())
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	logger.Debug("%s %s -> %d in %s (request %s)", req.Method, req.URL.Path, resp.StatusCode,
		time.Since(start).Round(time.Millisecond), req.Header.Get("X-Request-ID"))

	if !statusIn(resp.StatusCode, ok) {
		apiErr := parseError(resp)
		if bearer && errors.Is(apiErr, ErrUnauthorized) && c.onUnauthorized != nil {
			c.onUnauthorized(req.Context())
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func statusIn(code int, ok []int) bool {
	for _, s := range ok {
		if code == s {
			return true
		}
	}
	return false
}

// registrationBody encodes every scalar field plus the certificate file.
func registrationBody(reg RegistrationRequest) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range reg.Fields() {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}

	if reg.CertificatePath != "" {
		f, err := os.Open(reg.CertificatePath)
		if err != nil {
			return nil, "", fmt.Errorf("opening certificate: %w", err)
		}
		defer func() { _ = f.Close() }()

		part, err := w.CreateFormFile("certificate", filepath.Base(reg.CertificatePath))
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, f); err != nil {
			return nil, "", fmt.Errorf("reading certificate: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
