package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/html"
)

const (
	csrfCookie = "csrftoken"
	csrfField  = "csrfmiddlewaretoken"
	csrfHeader = "X-CSRFToken"
)

// Endpoint paths of the allocation backend
const (
	PathClaimAllocation       = "/api/wallet/claim-allocation/"
	PathAddAllocations        = "/api/wallet/add-allocations/"
	PathReclaimAllocations    = "/api/wallet/reclaim-allocations/"
	PathAllocationsSuccessful = "/api/wallet/allocations-successful/"
	PathClaimSuccessful       = "/api/wallet/claim-successful/"
	PathReclaimSuccessful     = "/api/wallet/reclaim-successful/"
)

// StatusError is returned for any non-2xx response
type StatusError struct {
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: HTTP %d", e.Path, e.Status)
	}
	return fmt.Sprintf("%s: HTTP %d: %s", e.Path, e.Status, e.Body)
}

// Client talks to the allocation backend
type Client struct {
	base *url.URL
	http *http.Client

	mu        sync.Mutex
	formToken string
}

// New creates a backend client with its own cookie jar
func New(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("backend url %q must include scheme and host", baseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	return &Client{
		base: u,
		http: &http.Client{Jar: jar, Timeout: timeout},
	}, nil
}

// URL returns the backend base URL
func (c *Client) URL() string {
	return c.base.String()
}

// Prime loads the backend landing page so the anti-forgery cookie and the
// hidden form field are available before the first POST.
func (c *Client) Prime(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base.String()+"/", nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("prime session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Path: "/", Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	token := findFormToken(resp.Body)
	c.mu.Lock()
	c.formToken = token
	c.mu.Unlock()
	return nil
}

// CSRFToken returns the cookie token, falling back to the hidden form
// field, or "" when neither is known.
func (c *Client) CSRFToken() string {
	for _, ck := range c.http.Jar.Cookies(c.base) {
		if ck.Name == csrfCookie && ck.Value != "" {
			return ck.Value
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.formToken
}

func findFormToken(r io.Reader) string {
	z := html.NewTokenizer(r)
	for {
		switch z.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken, html.SelfClosingTagToken:
			t := z.Token()
			if t.Data != "input" {
				continue
			}
			var name, value string
			for _, a := range t.Attr {
				switch a.Key {
				case "name":
					name = a.Val
				case "value":
					value = a.Val
				}
			}
			if name == csrfField {
				return value
			}
		}
	}
}

// post sends body as JSON and decodes the JSON response into out
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base.String()+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(csrfHeader, c.CSRFToken())
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Path: path, Status: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", path, err)
	}
	return nil
}
