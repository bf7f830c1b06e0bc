package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backend records the last request per path and serves canned responses
type backend struct {
	mu       sync.Mutex
	bodies   map[string]map[string]any
	headers  map[string]http.Header
	replies  map[string]string
	status   map[string]int
	landing  string
	setToken string
}

func newBackend() *backend {
	return &backend{
		bodies:  map[string]map[string]any{},
		headers: map[string]http.Header{},
		replies: map[string]string{},
		status:  map[string]int{},
	}
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if r.Method == http.MethodGet {
		if b.setToken != "" {
			http.SetCookie(w, &http.Cookie{Name: csrfCookie, Value: b.setToken, Path: "/"})
		}
		_, _ = w.Write([]byte(b.landing))
		return
	}

	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)
	b.bodies[r.URL.Path] = body
	b.headers[r.URL.Path] = r.Header.Clone()

	if code, ok := b.status[r.URL.Path]; ok {
		w.WriteHeader(code)
		_, _ = w.Write([]byte("nope"))
		return
	}
	_, _ = w.Write([]byte(b.replies[r.URL.Path]))
}

func (b *backend) body(path string) map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bodies[path]
}

func (b *backend) header(path string) http.Header {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.headers[path]
}

func newTestClient(t *testing.T, b *backend) *Client {
	t.Helper()
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, 5*time.Second)
	require.NoError(t, err)
	return c
}

func TestNewRejectsRelativeURL(t *testing.T) {
	_, err := New("/api", time.Second)
	assert.Error(t, err)
}

func TestClaimAllocation(t *testing.T) {
	b := newBackend()
	b.replies[PathClaimAllocation] = `{"claimable": true}`
	c := newTestClient(t, b)

	ok, err := c.ClaimAllocation(context.Background(), "addr-X")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "addr-X", b.body(PathClaimAllocation)["address"])
	assert.Equal(t, "application/json", b.header(PathClaimAllocation).Get("Content-Type"))
	assert.NotEmpty(t, b.header(PathClaimAllocation).Get("X-Request-ID"))
}

func TestAddAllocations(t *testing.T) {
	t.Run("parsed verbatim", func(t *testing.T) {
		b := newBackend()
		b.replies[PathAddAllocations] = `{"addresses":["a","b"],"amounts":[1,2]}`
		c := newTestClient(t, b)

		got, err := c.AddAllocations(context.Background(), "addr-X")
		require.NoError(t, err)
		assert.Equal(t, Allocations{Addresses: []string{"a", "b"}, Amounts: []float64{1, 2}}, got)
	})

	t.Run("mismatched lengths", func(t *testing.T) {
		b := newBackend()
		b.replies[PathAddAllocations] = `{"addresses":["a","b"],"amounts":[1]}`
		c := newTestClient(t, b)

		got, err := c.AddAllocations(context.Background(), "addr-X")
		assert.Error(t, err)
		assert.Empty(t, got.Addresses)
	})

	t.Run("negative amount", func(t *testing.T) {
		b := newBackend()
		b.replies[PathAddAllocations] = `{"addresses":["a"],"amounts":[-1]}`
		c := newTestClient(t, b)

		_, err := c.AddAllocations(context.Background(), "addr-X")
		assert.ErrorContains(t, err, "negative amount")
	})
}

func TestNon2xxIsStatusError(t *testing.T) {
	b := newBackend()
	b.status[PathReclaimAllocations] = http.StatusForbidden
	c := newTestClient(t, b)

	_, err := c.ReclaimAllocations(context.Background(), "addr-X")
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusForbidden, se.Status)
	assert.Equal(t, PathReclaimAllocations, se.Path)
}

func TestSuccessNotifications(t *testing.T) {
	b := newBackend()
	b.replies[PathAllocationsSuccessful] = `{"success": true}`
	b.replies[PathClaimSuccessful] = `{"success": true}`
	b.replies[PathReclaimSuccessful] = `{"success": false}`
	c := newTestClient(t, b)
	ctx := context.Background()

	ok, err := c.AllocationsSuccessful(ctx, []string{"a", "b"}, []string{"0x01"})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []any{"a", "b"}, b.body(PathAllocationsSuccessful)["addresses"])
	assert.Equal(t, []any{"0x01"}, b.body(PathAllocationsSuccessful)["txIDs"])

	ok, err = c.ClaimSuccessful(ctx, "addr-X", "0x02")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "0x02", b.body(PathClaimSuccessful)["txID"])

	ok, err = c.ReclaimSuccessful(ctx, "a", "0x03")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCSRFToken(t *testing.T) {
	t.Run("empty before priming", func(t *testing.T) {
		b := newBackend()
		b.replies[PathClaimAllocation] = `{"claimable": false}`
		c := newTestClient(t, b)

		_, err := c.ClaimAllocation(context.Background(), "addr-X")
		require.NoError(t, err)
		assert.Equal(t, "", b.header(PathClaimAllocation).Get(csrfHeader))
	})

	t.Run("cookie wins over form field", func(t *testing.T) {
		b := newBackend()
		b.setToken = "cookie-token"
		b.landing = `<form><input type="hidden" name="csrfmiddlewaretoken" value="form-token"></form>`
		b.replies[PathClaimAllocation] = `{"claimable": false}`
		c := newTestClient(t, b)

		require.NoError(t, c.Prime(context.Background()))
		_, err := c.ClaimAllocation(context.Background(), "addr-X")
		require.NoError(t, err)
		assert.Equal(t, "cookie-token", b.header(PathClaimAllocation).Get(csrfHeader))
	})

	t.Run("form field fallback", func(t *testing.T) {
		b := newBackend()
		b.landing = `<html><body><input name="other" value="x"/><input type="hidden" name="csrfmiddlewaretoken" value="form-token"/></body></html>`
		c := newTestClient(t, b)

		require.NoError(t, c.Prime(context.Background()))
		assert.Equal(t, "form-token", c.CSRFToken())
	})
}
