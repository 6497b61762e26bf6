package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scholar-retriever/internal/auth"
)

func TestRequireAuth(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user := UserFromContext(r.Context()); user != nil {
			w.Header().Set("X-Test-Sub", user.Sub)
		}
		w.WriteHeader(http.StatusOK)
	})

	t.Run("disabled validation passes everything through", func(t *testing.T) {
		mw := NewAuthMiddleware(nil, false)

		rec := httptest.NewRecorder()
		mw.RequireAuth(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/retrieval", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing authorization header is rejected", func(t *testing.T) {
		mw := NewAuthMiddleware(auth.NewClient(auth.Config{}), true)

		rec := httptest.NewRecorder()
		mw.RequireAuth(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/retrieval", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token reaches the handler with caller identity", func(t *testing.T) {
		idp := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(auth.UserContext{Sub: "user-1"})
		}))
		defer idp.Close()

		mw := NewAuthMiddleware(auth.NewClient(auth.Config{UserInfoEndpoint: idp.URL}), true)

		req := httptest.NewRequest(http.MethodGet, "/retrieval", nil)
		req.Header.Set("Authorization", "Bearer caller-token")
		rec := httptest.NewRecorder()
		mw.RequireAuth(next).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "user-1", rec.Header().Get("X-Test-Sub"))
	})

	t.Run("rejected token is 401", func(t *testing.T) {
		idp := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer idp.Close()

		mw := NewAuthMiddleware(auth.NewClient(auth.Config{UserInfoEndpoint: idp.URL}), true)

		req := httptest.NewRequest(http.MethodGet, "/retrieval", nil)
		req.Header.Set("Authorization", "Bearer caller-token")
		rec := httptest.NewRecorder()
		mw.RequireAuth(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
