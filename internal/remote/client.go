package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Payload is a decoded remote resource object. Field naming varies between
// deployments (snake_case and camelCase aliases), so payloads stay untyped
// and the mapper layer resolves aliases.
type Payload map[string]any

// String returns the first key present as a string.
func (p Payload) String(keys ...string) (string, bool) {
	for _, k := range keys {
		if v, ok := p[k]; ok {
			if s, ok := v.(string); ok {
				return s, true
			}
		}
	}
	return "", false
}

// Int returns the first key present as an int. JSON numbers decode as
// float64, so both shapes are accepted.
func (p Payload) Int(keys ...string) (int, bool) {
	for _, k := range keys {
		if v, ok := p[k]; ok {
			switch n := v.(type) {
			case float64:
				return int(n), true
			case int:
				return n, true
			}
		}
	}
	return 0, false
}

// ID returns the remote identifier, or empty when absent.
func (p Payload) ID() string {
	s, _ := p.String("id")
	return s
}

// Client is a typed gateway to one remote knowledge-service instance.
// It performs no retries and touches no local state; retry policy belongs
// to callers.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// envelope is the remote response convention: code 0 means success, any
// other value (or a missing code) is a business failure.
type envelope struct {
	Code    *int            `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// listPage is the standard listing wrapper inside envelope data.
type listPage struct {
	Items []Payload `json:"items"`
	Total int       `json:"total"`
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s request failed: %w", op, err)
		}
		reader = bytes.NewReader(raw)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build %s request failed: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	return c.send(req, op, out)
}

func (c *Client) send(req *http.Request, op string, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return &MalformedResponseError{Op: op, Err: fmt.Errorf("status %d: %w", resp.StatusCode, err)}
	}
	if env.Code == nil {
		return &BusinessError{Op: op, Code: -1, Message: "response has no code field"}
	}
	if *env.Code != 0 {
		return &BusinessError{Op: op, Code: *env.Code, Message: env.Message}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &MalformedResponseError{Op: op, Err: err}
		}
	}
	return nil
}

// upload posts one file as multipart form data.
func (c *Client) upload(ctx context.Context, op, path, filename string, content []byte, out any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("build %s form failed: %w", op, err)
	}
	if _, err := part.Write(content); err != nil {
		return fmt.Errorf("write %s form failed: %w", op, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close %s form failed: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("build %s request failed: %w", op, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	return c.send(req, op, out)
}

func pageQuery(page, pageSize int) url.Values {
	q := url.Values{}
	if page > 0 {
		q.Set("page", fmt.Sprintf("%d", page))
	}
	if pageSize > 0 {
		q.Set("page_size", fmt.Sprintf("%d", pageSize))
	}
	return q
}
