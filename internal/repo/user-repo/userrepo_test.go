package userrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"

	"github.com/GlebRadaev/freelancehub/internal/domain"
)

var userID = uuid.MustParse("3f1e2d3c-4b5a-4968-8776-655443322110")

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB)
	defer mockDB.Close()

	return repo, mockDB
}

func TestRepository_FindByLogin(t *testing.T) {
	repo, mock := NewMock(t)
	createdAt := time.Now()
	query := regexp.QuoteMeta("SELECT id, login, password_hash, role, created_at FROM users WHERE login = $1")

	tests := []struct {
		name      string
		login     string
		mockSetup func()
		expectErr bool
		result    *domain.User
	}{
		{
			name:  "User found",
			login: "test_user",
			mockSetup: func() {
				rows := pgxmock.NewRows([]string{"id", "login", "password_hash", "role", "created_at"}).
					AddRow(userID.String(), "test_user", "hashed_password", "FREELANCER", createdAt)
				mock.ExpectQuery(query).
					WithArgs("test_user").
					WillReturnRows(rows)
			},
			expectErr: false,
			result: &domain.User{
				ID:           userID,
				Login:        "test_user",
				PasswordHash: "hashed_password",
				Role:         domain.RoleFreelancer,
				CreatedAt:    createdAt,
			},
		},
		{
			name:  "User not found",
			login: "non_existing_user",
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs("non_existing_user").
					WillReturnError(pgx.ErrNoRows)
			},
			expectErr: false,
			result:    nil,
		},
		{
			name:  "Database error",
			login: "test_user",
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs("test_user").
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
			result:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.FindByLogin(context.Background(), tt.login)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.result, result)
			}
		})
	}
}

func TestRepository_FindByID(t *testing.T) {
	repo, mock := NewMock(t)
	query := regexp.QuoteMeta("SELECT id, login, password_hash, role, created_at FROM users WHERE id = $1")

	mock.ExpectQuery(query).
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "login", "password_hash", "role", "created_at"}).
			AddRow(userID.String(), "boss", "hash", "ADMIN", time.Now()))
	user, err := repo.FindByID(context.Background(), userID)
	assert.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, user.Role)

	mock.ExpectQuery(query).WithArgs(userID).WillReturnError(pgx.ErrNoRows)
	_, err = repo.FindByID(context.Background(), userID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	mock.ExpectQuery(query).WithArgs(userID).WillReturnError(errors.New("database error"))
	_, err = repo.FindByID(context.Background(), userID)
	assert.EqualError(t, err, "database error")
}

func TestRepository_Create(t *testing.T) {
	repo, mock := NewMock(t)
	createdAt := time.Now()
	query := regexp.QuoteMeta(`
		INSERT INTO users (id, login, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`)

	tests := []struct {
		name      string
		mockSetup func()
		expectErr error
		result    *domain.User
	}{
		{
			name: "Create user successfully",
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs(userID, "new_user", "hashed_password", domain.RoleClient).
					WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(createdAt))
			},
			result: &domain.User{
				ID:           userID,
				Login:        "new_user",
				PasswordHash: "hashed_password",
				Role:         domain.RoleClient,
				CreatedAt:    createdAt,
			},
		},
		{
			name: "Login taken",
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs(userID, "new_user", "hashed_password", domain.RoleClient).
					WillReturnError(&pgconn.PgError{Code: "23505"})
			},
			expectErr: domain.ErrConflict,
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs(userID, "new_user", "hashed_password", domain.RoleClient).
					WillReturnError(errors.New("database error"))
			},
			expectErr: errors.New("database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			user := &domain.User{ID: userID, Login: "new_user", PasswordHash: "hashed_password", Role: domain.RoleClient}
			result, err := repo.Create(context.Background(), user)
			if tt.expectErr != nil {
				assert.EqualError(t, err, tt.expectErr.Error())
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.result, result)
			}
		})
	}
}
