package authservice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GlebRadaev/freelancehub/internal/domain"
	"github.com/GlebRadaev/freelancehub/internal/pg"
	"github.com/GlebRadaev/freelancehub/pkg/auth"
)

const tokenTTL = 15 * time.Minute

var ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", domain.ErrUnauthenticated)

type Repo interface {
	FindByLogin(ctx context.Context, login string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}

type Ledger interface {
	Grant(ctx context.Context, ownerID uuid.UUID, kind domain.LedgerKind, amount int64, expiresAt *time.Time) (*domain.LedgerEntry, error)
}

type Service struct {
	userRepo       Repo
	ledger         Ledger
	txManager      pg.TXManager
	hashService    auth.HashServiceInterface
	jwtService     auth.JWTServiceInterface
	exchangeStore  auth.ExchangeStoreInterface
	signupConnects int64
}

func New(repo Repo, ledger Ledger, txManager pg.TXManager, hashService auth.HashServiceInterface, jwtService auth.JWTServiceInterface, exchangeStore auth.ExchangeStoreInterface, signupConnects int64) *Service {
	return &Service{
		userRepo:       repo,
		ledger:         ledger,
		txManager:      txManager,
		hashService:    hashService,
		jwtService:     jwtService,
		exchangeStore:  exchangeStore,
		signupConnects: signupConnects,
	}
}

// Register creates a freelancer or client account. Freelancers start with
// the configured signup connects, granted in the same transaction.
func (s *Service) Register(ctx context.Context, login, password string, role domain.Role) (*domain.User, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, fmt.Errorf("login and password are required: %w", domain.ErrInvalidInput)
	}
	switch role {
	case domain.RoleFreelancer, domain.RoleClient:
	case domain.RoleAdmin:
		return nil, fmt.Errorf("admin accounts are provisioned, not registered: %w", domain.ErrForbidden)
	default:
		return nil, fmt.Errorf("unknown role %q: %w", role, domain.ErrInvalidInput)
	}

	var user *domain.User
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		existingUser, err := s.userRepo.FindByLogin(ctx, login)
		if err != nil {
			zap.L().Error("can't find user: ", zap.Error(err))
			return err
		}
		if existingUser != nil {
			zap.L().Info("user already exists, login: ", zap.String("login", login))
			return fmt.Errorf("username already taken: %w", domain.ErrConflict)
		}
		hashedPassword, err := s.hashService.HashPassword(password)
		if auth.IsPasswordRejected(err) {
			return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		if err != nil {
			zap.L().Error("can't hash password: ", zap.Error(err))
			return err
		}
		user, err = s.userRepo.Create(ctx, &domain.User{
			ID:           uuid.New(),
			Login:        login,
			PasswordHash: hashedPassword,
			Role:         role,
		})
		if err != nil {
			zap.L().Error("can't create user: ", zap.Error(err))
			return err
		}
		if role == domain.RoleFreelancer && s.signupConnects > 0 {
			if _, err := s.ledger.Grant(ctx, user.ID, domain.KindConnect, s.signupConnects, nil); err != nil {
				zap.L().Error("can't grant signup connects: ", zap.Error(err))
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("user successfully registered", zap.String("login", login), zap.String("role", string(role)))
	return user, nil
}

func (s *Service) Authenticate(ctx context.Context, login, password string) (*domain.User, error) {
	user, err := s.userRepo.FindByLogin(ctx, login)
	if err != nil || user == nil {
		zap.L().Error("invalid credentials", zap.Error(err))
		return nil, ErrInvalidCredentials
	}
	if ok := s.hashService.ComparePassword(user.PasswordHash, password); !ok {
		zap.L().Error("invalid credentials", zap.String("login", login))
		return nil, ErrInvalidCredentials
	}
	zap.L().Info("user successfully authenticated", zap.String("login", login))
	return user, nil
}

func (s *Service) GenerateToken(principal domain.Principal) (string, error) {
	expirationTime := time.Now().Add(tokenTTL)

	token, err := s.jwtService.GenerateJWT(principal, expirationTime)
	if err != nil {
		zap.L().Error("can't generate token: ", zap.Error(err))
		return "", err
	}
	return token, nil
}

// IssueExchangeToken returns a short-lived one-time token that another
// client can trade for a JWT of the same principal.
func (s *Service) IssueExchangeToken(ctx context.Context, principal domain.Principal) (string, error) {
	token, err := s.exchangeStore.Issue(ctx, principal)
	if err != nil {
		zap.L().Error("can't issue exchange token: ", zap.Error(err))
		return "", fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	return token, nil
}

func (s *Service) RedeemExchangeToken(ctx context.Context, token string) (string, error) {
	principal, err := s.exchangeStore.Redeem(ctx, token)
	if err != nil {
		if errors.Is(err, auth.ErrExchangeTokenNotFound) {
			return "", fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
		}
		zap.L().Error("can't redeem exchange token: ", zap.Error(err))
		return "", fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	return s.GenerateToken(principal)
}
