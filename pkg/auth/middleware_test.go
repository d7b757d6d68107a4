package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/GlebRadaev/freelancehub/internal/domain"
)

func TestAuthMiddleware(t *testing.T) {
	jwtService := NewJWTService("test-secret")
	valid, _ := jwtService.GenerateJWT(testPrincipal, time.Now().Add(time.Hour))

	tests := []struct {
		name         string
		header       string
		expectedCode int
	}{
		{"Missing header", "", http.StatusUnauthorized},
		{"Not a bearer token", "Basic abc", http.StatusUnauthorized},
		{"Invalid token", "Bearer nope", http.StatusUnauthorized},
		{"Valid token", "Bearer " + valid, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got domain.Principal
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got, _ = PrincipalFrom(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			AuthMiddleware(jwtService)(next).ServeHTTP(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedCode == http.StatusOK {
				assert.Equal(t, testPrincipal, got)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name         string
		principal    *domain.Principal
		expectedCode int
	}{
		{"No principal", nil, http.StatusUnauthorized},
		{"Wrong role", &domain.Principal{ID: testPrincipal.ID, Role: domain.RoleClient}, http.StatusForbidden},
		{"Admin", &domain.Principal{ID: testPrincipal.ID, Role: domain.RoleAdmin}, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			})
			r := httptest.NewRequest(http.MethodPost, "/", nil)
			if tt.principal != nil {
				r = r.WithContext(WithPrincipal(r.Context(), *tt.principal))
			}
			w := httptest.NewRecorder()
			RequireRole(domain.RoleAdmin)(next).ServeHTTP(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
		})
	}
}
