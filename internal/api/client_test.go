package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type product struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// newTestClient points a Client at srv with instant backoff and records the waits.
func newTestClient(t *testing.T, srv *httptest.Server, opts Options) (*Client, *[]time.Duration) {
	t.Helper()
	opts.BaseURL = srv.URL
	c, err := New(opts)
	require.NoError(t, err)

	var waits []time.Duration
	c.sleep = func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return ctx.Err()
	}
	return c, &waits
}

func TestNew_InvalidOptions(t *testing.T) {
	_, err := New(Options{BaseURL: "not a url"})
	assert.Error(t, err)

	_, err = New(Options{BaseURL: "http://localhost:8080", ServerVersion: "~~nope"})
	assert.ErrorContains(t, err, "invalid server version constraint")
}

func TestClient_Headers(t *testing.T) {
	var got http.Header
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		gotQuery = r.URL.Query()
		assert.Equal(t, "/api/products/search", r.URL.Path)
		_, _ = w.Write([]byte(`{"content":[],"totalElements":0,"totalPages":0,"number":0,"size":20}`))
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv, Options{Token: "abc", UserAgent: "stockdesk/test"})

	var page Page[product]
	err := c.Get(context.Background(), "/api/products/search", url.Values{"page": {"0"}, "size": {"20"}}, &page)
	require.NoError(t, err)

	assert.Equal(t, "Bearer abc", got.Get("Authorization"))
	assert.Equal(t, "stockdesk/test", got.Get("User-Agent"))
	assert.Len(t, got.Get(HeaderRequestID), 26)
	assert.Empty(t, got.Get("Content-Type"), "no body, no content type")
	assert.Equal(t, "20", gotQuery.Get("size"))
}

func TestClient_PostBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var in product
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		in.ID = 7
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "message": "created", "data": in})
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv, Options{})

	var out product
	require.NoError(t, c.Post(context.Background(), "/api/products", product{Code: "P1", Name: "Pen"}, &out))
	assert.Equal(t, product{ID: 7, Code: "P1", Name: "Pen"}, out)
}

func TestClient_EnvelopeTolerance(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "raw", body: `{"id":42,"code":"P42","name":"Stapler"}`},
		{name: "wrapped", body: `{"success":true,"message":"ok","data":{"id":42,"code":"P42","name":"Stapler"}}`},
		{name: "wrapped without success", body: `{"message":"ok","data":{"id":42,"code":"P42","name":"Stapler"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()
			c, _ := newTestClient(t, srv, Options{})

			var out product
			require.NoError(t, c.Get(context.Background(), "/api/products/42", nil, &out))
			assert.Equal(t, int64(42), out.ID)
			assert.Equal(t, "Stapler", out.Name)
		})
	}
}

func TestClient_EnvelopeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"message":"Phiếu đã được duyệt","data":null}`))
	}))
	defer srv.Close()
	c, _ := newTestClient(t, srv, Options{})

	err := c.Post(context.Background(), "/api/imports/3/approve", nil, nil)

	require.ErrorIs(t, err, ErrValidation)
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Phiếu đã được duyệt", apiErr.Message)
	assert.Equal(t, "/api/imports/3/approve", apiErr.Path)
}

func TestClient_NoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()
	c, _ := newTestClient(t, srv, Options{})

	out := product{ID: 1}
	require.NoError(t, c.Get(context.Background(), "/api/units/1", nil, &out))
	assert.Equal(t, int64(1), out.ID, "204 leaves out untouched")
	require.NoError(t, c.Delete(context.Background(), "/api/units/1"))
}

func TestClient_ErrorClassification(t *testing.T) {
	tests := []struct {
		status  int
		body    string
		want    error
		message string
	}{
		{status: 401, body: `{"message":"Token expired"}`, want: ErrUnauthorized, message: "Token expired"},
		{status: 403, body: ``, want: ErrUnauthorized, message: "HTTP 403"},
		{status: 404, body: `{"message":"Product not found"}`, want: ErrNotFound, message: "Product not found"},
		{status: 400, body: `{"message":"Code already exists"}`, want: ErrValidation, message: "Code already exists"},
		{status: 422, body: `{"error":"Unprocessable"}`, want: ErrValidation, message: "Unprocessable"},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()
			c, _ := newTestClient(t, srv, Options{MaxRetries: 3})

			err := c.Get(context.Background(), "/api/products/1", nil, &product{})

			require.ErrorIs(t, err, tt.want)
			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.message, apiErr.Message)
			assert.Len(t, apiErr.RequestID, 26)
			assert.Equal(t, int32(1), calls.Load(), "4xx is never retried")
		})
	}
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"id":1,"code":"C","name":"Cable"}`))
	}))
	defer srv.Close()

	c, waits := newTestClient(t, srv, Options{
		MaxRetries: 3,
		RetryBase:  100 * time.Millisecond,
		RetryMax:   time.Second,
	})

	var out product
	require.NoError(t, c.Get(context.Background(), "/api/products/1", nil, &out))
	assert.Equal(t, "Cable", out.Name)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}, *waits)
}

func TestClient_BackoffCapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c, waits := newTestClient(t, srv, Options{
		MaxRetries: 4,
		RetryBase:  100 * time.Millisecond,
		RetryMax:   250 * time.Millisecond,
	})

	err := c.Get(context.Background(), "/api/stores", nil, nil)

	require.ErrorIs(t, err, ErrServer)
	assert.ErrorContains(t, err, "failed after 5 attempts")
	assert.Equal(t, []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		250 * time.Millisecond,
		250 * time.Millisecond,
	}, *waits)
}

func TestClient_RateLimitHonorsRetryAfter(t *testing.T) {
	tests := []struct {
		name       string
		retryAfter string
		retryMax   time.Duration
		want       time.Duration
	}{
		{name: "header below the cap", retryAfter: "1", retryMax: 5 * time.Second, want: time.Second},
		{name: "header above the cap", retryAfter: "1", retryMax: 300 * time.Millisecond, want: 300 * time.Millisecond},
		{name: "no header uses backoff", retryAfter: "", retryMax: 5 * time.Second, want: 100 * time.Millisecond},
		{name: "unparseable header uses backoff", retryAfter: "soon", retryMax: 5 * time.Second, want: 100 * time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				if calls.Add(1) == 1 {
					if tt.retryAfter != "" {
						w.Header().Set(HeaderRetryAfter, tt.retryAfter)
					}
					w.WriteHeader(http.StatusTooManyRequests)
					return
				}
				w.WriteHeader(http.StatusCreated)
				_, _ = w.Write([]byte(`{"id":9}`))
			}))
			defer srv.Close()

			c, waits := newTestClient(t, srv, Options{
				MaxRetries: 2,
				RetryBase:  100 * time.Millisecond,
				RetryMax:   tt.retryMax,
			})

			var out product
			require.NoError(t, c.Post(context.Background(), "/api/exports", product{Code: "X"}, &out), "a 429 POST is safe to repeat")
			assert.Equal(t, int64(9), out.ID)
			assert.Equal(t, int32(2), calls.Load())
			assert.Equal(t, []time.Duration{tt.want}, *waits)
		})
	}
}

func TestClient_PostNotRetriedOnServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	c, _ := newTestClient(t, srv, Options{MaxRetries: 3})

	err := c.Post(context.Background(), "/api/imports/1/confirm", nil, nil)

	require.ErrorIs(t, err, ErrServer)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c, waits := newTestClient(t, srv, Options{Timeout: 20 * time.Millisecond, MaxRetries: 1})

	err := c.Get(context.Background(), "/api/categories", nil, nil)

	require.ErrorIs(t, err, ErrTimeout)
	assert.Len(t, *waits, 1)
}

func TestClient_ParentCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()
	c, _ := newTestClient(t, srv, Options{MaxRetries: 5})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Get(ctx, "/api/customers", nil, nil)
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
}

func TestClient_ServerVersion(t *testing.T) {
	handler := func(version string) http.HandlerFunc {
		return func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set(HeaderAPIVersion, version)
			_, _ = w.Write([]byte(`{"id":1}`))
		}
	}

	t.Run("compatible", func(t *testing.T) {
		srv := httptest.NewServer(handler("1.4.2"))
		defer srv.Close()
		c, _ := newTestClient(t, srv, Options{ServerVersion: ">= 1.0.0, < 2.0.0", Strict: true})
		assert.NoError(t, c.Get(context.Background(), "/api/units/1", nil, &product{}))
	})

	t.Run("incompatible warns", func(t *testing.T) {
		srv := httptest.NewServer(handler("2.1.0"))
		defer srv.Close()
		c, _ := newTestClient(t, srv, Options{ServerVersion: ">= 1.0.0, < 2.0.0"})
		assert.NoError(t, c.Get(context.Background(), "/api/units/1", nil, &product{}))
		assert.NoError(t, c.Get(context.Background(), "/api/units/1", nil, &product{}))
	})

	t.Run("incompatible strict", func(t *testing.T) {
		srv := httptest.NewServer(handler("2.1.0"))
		defer srv.Close()
		c, _ := newTestClient(t, srv, Options{ServerVersion: ">= 1.0.0, < 2.0.0", Strict: true})
		err := c.Get(context.Background(), "/api/units/1", nil, &product{})
		assert.ErrorIs(t, err, ErrIncompatibleServer)
	})

	t.Run("missing header accepted", func(t *testing.T) {
		srv := httptest.NewServer(handler(""))
		defer srv.Close()
		c, _ := newTestClient(t, srv, Options{ServerVersion: ">= 9.0.0", Strict: true})
		assert.NoError(t, c.Get(context.Background(), "/api/units/1", nil, &product{}))
	})
}

func TestClient_DecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id":"not-a-number"}`))
	}))
	defer srv.Close()
	c, _ := newTestClient(t, srv, Options{})

	err := c.Get(context.Background(), "/api/products/1", nil, &product{})
	assert.ErrorIs(t, err, ErrDecode)
}

func TestPage_Last(t *testing.T) {
	assert.True(t, Page[product]{Number: 2, TotalPages: 3}.Last())
	assert.False(t, Page[product]{Number: 0, TotalPages: 3}.Last())
	assert.True(t, Page[product]{}.Last())
}

func TestUnwrap_PlainRecordWithDataField(t *testing.T) {
	body := []byte(`{"id":1,"data":"payload"}`)
	got, err := Unwrap(body)
	require.NoError(t, err)
	assert.JSONEq(t, string(body), string(got))
}
