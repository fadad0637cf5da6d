package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/api/middleware"
)

// NewRequestWithURLParams creates an HTTP request with chi URL parameters.
// This helper simplifies testing chi handlers that use chi.URLParam() to extract path parameters.
//
// Example:
//
//	req := testutil.NewRequestWithURLParams(
//	    http.MethodGet,
//	    "/api/portfolio/123-456",
//	    map[string]string{"uuid": "123-456"},
//	)
func NewRequestWithURLParams(method, path string, params map[string]string) *http.Request {
	return withURLParams(httptest.NewRequest(method, path, nil), params)
}

// NewRequestWithQueryParams creates an HTTP request with query parameters.
// This helper simplifies testing handlers that use r.URL.Query() to extract query string parameters.
//
// Example:
//
//	req := testutil.NewRequestWithQueryParams(
//	    http.MethodGet,
//	    "/api/trades",
//	    map[string]string{
//	        "from": "2024-01-01",
//	        "to": "2024-12-31",
//	    },
//	)
func NewRequestWithQueryParams(method, path string, queryParams map[string]string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	addQuery(req, queryParams)
	return req
}

// NewRequestWithQueryAndURLParams creates an HTTP request with both chi URL parameters and query parameters.
func NewRequestWithQueryAndURLParams(method, path string, urlParams, queryParams map[string]string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	addQuery(req, queryParams)
	return withURLParams(req, urlParams)
}

// NewRequestWithBody creates an HTTP request whose body is body marshaled as JSON.
// A string or []byte body is sent as is.
func NewRequestWithBody(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()

	req := httptest.NewRequest(method, path, jsonBody(t, body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// NewRequestWithURLParamsAndBody creates an HTTP request with chi URL parameters and a JSON body.
func NewRequestWithURLParamsAndBody(t *testing.T, method, path string, params map[string]string, body any) *http.Request {
	t.Helper()
	return withURLParams(NewRequestWithBody(t, method, path, body), params)
}

// AsOwner returns req with ownerID attached as the authenticated caller,
// as the identity middleware would.
func AsOwner(req *http.Request, ownerID string) *http.Request {
	return req.WithContext(middleware.WithOwnerID(req.Context(), ownerID))
}

func withURLParams(req *http.Request, params map[string]string) *http.Request {
	if len(params) == 0 {
		return req
	}

	rctx := chi.RouteContext(req.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func addQuery(req *http.Request, queryParams map[string]string) {
	if len(queryParams) == 0 {
		return
	}
	q := req.URL.Query()
	for key, value := range queryParams {
		q.Add(key, value)
	}
	req.URL.RawQuery = q.Encode()
}

func jsonBody(t *testing.T, body any) io.Reader {
	t.Helper()

	switch b := body.(type) {
	case nil:
		return http.NoBody
	case string:
		return bytes.NewBufferString(b)
	case []byte:
		return bytes.NewReader(b)
	}

	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to marshal request body: %v", err)
	}
	return bytes.NewReader(data)
}
