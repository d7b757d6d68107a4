package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"

	"github.com/GlebRadaev/freelancehub/internal/domain"
)

const issuer = "freelancehub"

type JWTServiceInterface interface {
	GenerateJWT(principal domain.Principal, expirationTime time.Time) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.StandardClaims
}

// Principal converts validated claims into the caller identity.
func (c *Claims) Principal() (domain.Principal, error) {
	id, err := uuid.Parse(c.UserID)
	if err != nil {
		return domain.Principal{}, err
	}
	role, err := domain.ParseRole(c.Role)
	if err != nil {
		return domain.Principal{}, err
	}
	return domain.Principal{ID: id, Role: role}, nil
}

type JWTService struct {
	secretKey []byte
}

func NewJWTService(secret string) *JWTService {
	return &JWTService{secretKey: []byte(secret)}
}

func (s *JWTService) GenerateJWT(principal domain.Principal, expirationTime time.Time) (string, error) {
	claims := Claims{
		UserID: principal.ID.String(),
		Role:   string(principal.Role),
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: expirationTime.Unix(),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secretKey, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || claims.UserID == "" || claims.Issuer != issuer {
		return nil, errors.New("invalid token claims")
	}
	if _, err := claims.Principal(); err != nil {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}
