package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GlebRadaev/freelancehub/internal/domain"
)

var testPrincipal = domain.Principal{
	ID:   uuid.MustParse("7f1f9a52-8a0e-4a3c-9d1b-0d7c5e2b9a11"),
	Role: domain.RoleFreelancer,
}

func TestGenerateJWT(t *testing.T) {
	jwtService := NewJWTService("test-secret")

	tests := []struct {
		name           string
		principal      domain.Principal
		expirationTime time.Time
	}{
		{
			name:           "Valid token",
			principal:      testPrincipal,
			expirationTime: time.Now().Add(time.Hour),
		},
		{
			name:           "Expired token is still signed",
			principal:      testPrincipal,
			expirationTime: time.Now().Add(-time.Hour),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := jwtService.GenerateJWT(tt.principal, tt.expirationTime)

			assert.NoError(t, err)
			assert.NotEmpty(t, token)
		})
	}
}

func TestValidateToken(t *testing.T) {
	jwtService := NewJWTService("test-secret")

	tests := []struct {
		name        string
		tokenString string
		setup       func() string
		expectError bool
	}{
		{
			name: "Valid token",
			setup: func() string {
				token, _ := jwtService.GenerateJWT(testPrincipal, time.Now().Add(time.Hour))
				return token
			},
			expectError: false,
		},
		{
			name:        "Malformed token",
			tokenString: "invalid.token.string",
			expectError: true,
		},
		{
			name: "Expired token",
			setup: func() string {
				token, _ := jwtService.GenerateJWT(testPrincipal, time.Now().Add(-time.Hour))
				return token
			},
			expectError: true,
		},
		{
			name: "Signed with another secret",
			setup: func() string {
				token, _ := NewJWTService("other-secret").GenerateJWT(testPrincipal, time.Now().Add(time.Hour))
				return token
			},
			expectError: true,
		},
		{
			name: "Claims without user",
			setup: func() string {
				token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
					ExpiresAt: time.Now().Add(time.Hour).Unix(),
					Issuer:    issuer,
				})
				signedToken, _ := token.SignedString([]byte("test-secret"))
				return signedToken
			},
			expectError: true,
		},
		{
			name: "Unknown role",
			setup: func() string {
				token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
					UserID: testPrincipal.ID.String(),
					Role:   "SUPERUSER",
					StandardClaims: jwt.StandardClaims{
						ExpiresAt: time.Now().Add(time.Hour).Unix(),
						Issuer:    issuer,
					},
				})
				signedToken, _ := token.SignedString([]byte("test-secret"))
				return signedToken
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokenString := tt.tokenString
			if tt.setup != nil {
				tokenString = tt.setup()
			}

			claims, err := jwtService.ValidateToken(tokenString)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			principal, err := claims.Principal()
			require.NoError(t, err)
			assert.Equal(t, testPrincipal, principal)
		})
	}
}
