package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorsMiddleware(t *testing.T) {
	testCases := []struct {
		name           string
		origin         string
		method         string
		allowed        []string
		expectCors     bool
		expectNext     bool
		expectedStatus int
	}{
		{
			name:           "NoOrigin",
			method:         "GET",
			allowed:        []string{"http://localhost:3000"},
			expectNext:     true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "AllowedOrigin",
			origin:         "http://localhost:3000",
			method:         "GET",
			allowed:        []string{"http://localhost:3000/"},
			expectCors:     true,
			expectNext:     true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Preflight",
			origin:         "http://localhost:3000",
			method:         "OPTIONS",
			allowed:        []string{"http://localhost:3000"},
			expectCors:     true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Wildcard",
			origin:         "https://dashboard.example.org",
			method:         "GET",
			allowed:        []string{"*"},
			expectCors:     true,
			expectNext:     true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "NotAllowedOrigin",
			origin:         "https://www.notallowed.com",
			method:         "GET",
			allowed:        []string{"http://localhost:3000"},
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req, err := http.NewRequest(tc.method, "/data/list", nil)
			require.NoError(t, err)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}

			nextCalled := false
			nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
			})
			Cors(tc.allowed...)(nextHandler).ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.Equal(t, tc.expectNext, nextCalled)
			if tc.expectCors {
				assert.Equal(t, tc.origin, rr.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}
