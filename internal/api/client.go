package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/yildizm/careminder/internal/logger"
)

const (
	DefaultTimeout       = 30 * time.Second
	DefaultUploadTimeout = 5 * time.Minute
	DefaultUserAgent     = "careminder"

	// maxErrorBody caps how much of an error response is read
	maxErrorBody = 64 << 10
)

// Config configures a Client
type Config struct {
	BaseURL       string
	Timeout       time.Duration
	UploadTimeout time.Duration
	UserAgent     string
}

// Client issues requests against one API base URL
type Client struct {
	baseURL      *url.URL
	client       *http.Client
	uploadClient *http.Client
	userAgent    string
	log          *logger.Logger
}

// New creates a Client. A nil logger discards output.
func New(config Config, log *logger.Logger) (*Client, error) {
	if config.BaseURL == "" {
		return nil, NewValidationError("base URL is required")
	}

	baseURL, err := url.Parse(config.BaseURL)
	if err != nil || baseURL.Scheme == "" || baseURL.Host == "" {
		return nil, NewValidationError(fmt.Sprintf("invalid base URL: %s", config.BaseURL))
	}

	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}
	if config.UploadTimeout == 0 {
		config.UploadTimeout = DefaultUploadTimeout
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}
	if log == nil {
		log = logger.Nop()
	}

	return &Client{
		baseURL:      baseURL,
		client:       &http.Client{Timeout: config.Timeout},
		uploadClient: &http.Client{Timeout: config.UploadTimeout},
		userAgent:    config.UserAgent,
		log:          log.WithComponent("api"),
	}, nil
}

// BaseURL returns the configured base URL
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Health checks that the API is reachable
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var status HealthStatus
	if err := c.getJSON(ctx, "health", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// endpoint joins path segments onto the base URL, escaping each one
func (c *Client) endpoint(segments ...string) *url.URL {
	escaped := make([]string, 0, len(segments))
	for _, s := range segments {
		escaped = append(escaped, url.PathEscape(s))
	}
	return c.baseURL.JoinPath(escaped...)
}

func (c *Client) newRequest(ctx context.Context, method string, query url.Values, body io.Reader, segments ...string) (*http.Request, error) {
	endpoint := c.endpoint(segments...)
	if len(query) > 0 {
		endpoint.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), body)
	if err != nil {
		return nil, &Error{Kind: KindValidation, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	return req, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, query, nil, strings.Split(path, "/")...)
	if err != nil {
		return err
	}
	return c.do(c.client, req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return &Error{Kind: KindValidation, Message: "failed to encode request", Cause: err}
	}

	req, err := c.newRequest(ctx, http.MethodPost, nil, bytes.NewReader(body), strings.Split(path, "/")...)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(c.client, req, out)
}

func (c *Client) delete(ctx context.Context, segments ...string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, nil, nil, segments...)
	if err != nil {
		return err
	}
	return c.do(c.client, req, nil)
}

// formFile is one file part of a multipart upload
type formFile struct {
	field       string
	filename    string
	contentType string
	data        []byte
}

func (c *Client) postMultipart(ctx context.Context, path string, file formFile, fields map[string]string, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, file.field, file.filename))
	header.Set("Content-Type", file.contentType)
	part, err := w.CreatePart(header)
	if err != nil {
		return &Error{Kind: KindValidation, Message: "failed to build upload", Cause: err}
	}
	if _, err := part.Write(file.data); err != nil {
		return &Error{Kind: KindValidation, Message: "failed to build upload", Cause: err}
	}

	for name, value := range fields {
		if value == "" {
			continue
		}
		if err := w.WriteField(name, value); err != nil {
			return &Error{Kind: KindValidation, Message: "failed to build upload", Cause: err}
		}
	}
	if err := w.Close(); err != nil {
		return &Error{Kind: KindValidation, Message: "failed to build upload", Cause: err}
	}

	req, err := c.newRequest(ctx, http.MethodPost, nil, &buf, strings.Split(path, "/")...)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.do(c.uploadClient, req, out)
}

func (c *Client) do(client *http.Client, req *http.Request, out any) error {
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		c.log.DebugWithFields("request failed", []logger.Field{
			logger.F("method", req.Method),
			logger.F("url", req.URL.String()),
			logger.Error(err),
		})
		return NewNetworkError("unable to reach the server", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.DebugWithFields("request completed", []logger.Field{
		logger.F("method", req.Method),
		logger.F("url", req.URL.String()),
		logger.F("status", resp.StatusCode),
		logger.Duration(time.Since(start)),
	})

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.handleErrorResponse(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return NewDecodeError(err)
	}
	return nil
}

// errorResponse covers both error body shapes the API emits
type errorResponse struct {
	Error  string          `json:"error"`
	Detail json.RawMessage `json:"detail"`
}

func (c *Client) handleErrorResponse(resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return NewServerError(resp.StatusCode, "")
	}

	var errorResp errorResponse
	if err := json.Unmarshal(body, &errorResp); err != nil {
		return NewServerError(resp.StatusCode, "")
	}

	message := errorResp.Error
	if message == "" && len(errorResp.Detail) > 0 {
		var detail string
		if err := json.Unmarshal(errorResp.Detail, &detail); err == nil {
			message = detail
		}
	}

	return NewServerError(resp.StatusCode, message)
}
