package auth

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/GlebRadaev/freelancehub/internal/domain"
	"github.com/GlebRadaev/freelancehub/internal/dto"
	pkgauth "github.com/GlebRadaev/freelancehub/pkg/auth"
	"github.com/GlebRadaev/freelancehub/pkg/utils"
)

var userID = uuid.MustParse("4a000000-0000-4000-8000-000000000001")

func NewMock(t *testing.T) (*AuthHandler, *MockService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	handler := New(service)
	return handler, service
}

func TestRegisterHandler(t *testing.T) {
	handler, service := NewMock(t)
	freelancer := domain.Principal{ID: userID, Role: domain.RoleFreelancer}

	tests := []struct {
		name          string
		body          string
		prepareMock   func()
		expectedCode  int
		expectedError string
	}{
		{
			name: "Successful registration",
			body: `{"login":"newuser","password":"password123","role":"FREELANCER"}`,
			prepareMock: func() {
				service.EXPECT().Register(gomock.Any(), "newuser", "password123", domain.RoleFreelancer).Return(&domain.User{
					ID:    userID,
					Login: "newuser",
					Role:  domain.RoleFreelancer,
				}, nil)
				service.EXPECT().GenerateToken(freelancer).Return("some-jwt-token", nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "User already exists",
			body: `{"login":"existinguser","password":"password123","role":"CLIENT"}`,
			prepareMock: func() {
				service.EXPECT().Register(gomock.Any(), "existinguser", "password123", domain.RoleClient).
					Return(nil, fmt.Errorf("username already taken: %w", domain.ErrConflict))
			},
			expectedCode:  http.StatusConflict,
			expectedError: "username already taken: conflict",
		},
		{
			name: "Admin cannot self-register",
			body: `{"login":"root","password":"password123","role":"ADMIN"}`,
			prepareMock: func() {
				service.EXPECT().Register(gomock.Any(), "root", "password123", domain.RoleAdmin).
					Return(nil, domain.ErrForbidden)
			},
			expectedCode: http.StatusForbidden,
		},
		{
			name:          "Unknown role",
			body:          `{"login":"newuser","password":"password123","role":"OWNER"}`,
			prepareMock:   func() {},
			expectedCode:  http.StatusBadRequest,
			expectedError: `unknown role "OWNER"`,
		},
		{
			name:          "Invalid request body",
			body:          `{invalid json`,
			prepareMock:   func() {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "Invalid request body",
		},
		{
			name: "Error generating token",
			body: `{"login":"newuser","password":"password123","role":"FREELANCER"}`,
			prepareMock: func() {
				service.EXPECT().Register(gomock.Any(), "newuser", "password123", domain.RoleFreelancer).Return(&domain.User{
					ID:    userID,
					Login: "newuser",
					Role:  domain.RoleFreelancer,
				}, nil)
				service.EXPECT().GenerateToken(freelancer).Return("", errors.New("token generation error"))
			},
			expectedCode:  http.StatusInternalServerError,
			expectedError: "Error generating token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			req := httptest.NewRequest("POST", "/api/user/register", bytes.NewReader([]byte(tt.body)))
			rr := httptest.NewRecorder()

			handler.Register(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			if tt.expectedCode == http.StatusOK {
				assert.Equal(t, "Bearer some-jwt-token", rr.Header().Get("Authorization"))
				var resp dto.RegisterResponseDTO
				assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
				assert.Equal(t, userID.String(), resp.UserID)
			}
			if tt.expectedError != "" {
				var resp utils.Response
				err := json.NewDecoder(rr.Body).Decode(&resp)
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedError, resp.Error)
			}
		})
	}
}

func TestLoginHandler(t *testing.T) {
	handler, service := NewMock(t)
	client := domain.Principal{ID: userID, Role: domain.RoleClient}

	tests := []struct {
		name          string
		body          string
		prepareMock   func()
		expectedCode  int
		expectedError string
	}{
		{
			name: "Successful login",
			body: `{"login":"testuser","password":"password123"}`,
			prepareMock: func() {
				service.EXPECT().
					Authenticate(gomock.Any(), "testuser", "password123").
					Return(&domain.User{ID: userID, Login: "testuser", Role: domain.RoleClient}, nil)
				service.EXPECT().
					GenerateToken(client).
					Return("some-jwt-token", nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "Invalid credentials",
			body: `{"login":"testuser","password":"wrongpassword"}`,
			prepareMock: func() {
				service.EXPECT().
					Authenticate(gomock.Any(), "testuser", "wrongpassword").
					Return(nil, domain.ErrUnauthenticated)
			},
			expectedCode:  http.StatusUnauthorized,
			expectedError: "Invalid credentials",
		},
		{
			name:          "Invalid request body",
			body:          `{invalid json`,
			prepareMock:   func() {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "Invalid request body",
		},
		{
			name: "Error generating token",
			body: `{"login":"testuser","password":"password123"}`,
			prepareMock: func() {
				service.EXPECT().
					Authenticate(gomock.Any(), "testuser", "password123").
					Return(&domain.User{ID: userID, Login: "testuser", Role: domain.RoleClient}, nil)
				service.EXPECT().
					GenerateToken(client).
					Return("", errors.New("token generation error"))
			},
			expectedCode:  http.StatusInternalServerError,
			expectedError: "Error generating token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			req := httptest.NewRequest("POST", "/api/user/login", bytes.NewReader([]byte(tt.body)))
			rr := httptest.NewRecorder()

			handler.Login(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			if tt.expectedError != "" {
				var resp utils.Response
				err := json.NewDecoder(rr.Body).Decode(&resp)
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedError, resp.Error)
			}
		})
	}
}

func TestExchangeTokenHandler(t *testing.T) {
	handler, service := NewMock(t)
	principal := domain.Principal{ID: userID, Role: domain.RoleFreelancer}

	t.Run("Issued", func(t *testing.T) {
		service.EXPECT().IssueExchangeToken(gomock.Any(), principal).Return("one-time", nil)

		req := httptest.NewRequest("POST", "/api/user/exchange-token", nil)
		req = req.WithContext(pkgauth.WithPrincipal(req.Context(), principal))
		rr := httptest.NewRecorder()
		handler.ExchangeToken(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var resp dto.ExchangeTokenResponseDTO
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(t, "one-time", resp.Token)
	})

	t.Run("Store down", func(t *testing.T) {
		service.EXPECT().IssueExchangeToken(gomock.Any(), principal).Return("", fmt.Errorf("issue: %w", domain.ErrUpstream))

		req := httptest.NewRequest("POST", "/api/user/exchange-token", nil)
		req = req.WithContext(pkgauth.WithPrincipal(req.Context(), principal))
		rr := httptest.NewRecorder()
		handler.ExchangeToken(rr, req)

		assert.Equal(t, http.StatusBadGateway, rr.Code)
	})

	t.Run("Anonymous", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ExchangeToken(rr, httptest.NewRequest("POST", "/api/user/exchange-token", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestExchangeHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name         string
		body         string
		prepareMock  func()
		expectedCode int
	}{
		{
			name: "Redeemed",
			body: `{"token":"one-time"}`,
			prepareMock: func() {
				service.EXPECT().RedeemExchangeToken(gomock.Any(), "one-time").Return("jwt", nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "Already used",
			body: `{"token":"one-time"}`,
			prepareMock: func() {
				service.EXPECT().RedeemExchangeToken(gomock.Any(), "one-time").Return("", domain.ErrUnauthenticated)
			},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "Missing token",
			body:         `{}`,
			prepareMock:  func() {},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			rr := httptest.NewRecorder()
			handler.Exchange(rr, httptest.NewRequest("POST", "/api/user/exchange", bytes.NewReader([]byte(tt.body))))

			assert.Equal(t, tt.expectedCode, rr.Code)
			if tt.expectedCode == http.StatusOK {
				assert.Equal(t, "Bearer jwt", rr.Header().Get("Authorization"))
			}
		})
	}
}
