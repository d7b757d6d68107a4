package jobrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GlebRadaev/freelancehub/internal/domain"
)

var (
	jobID    = uuid.MustParse("a1b2c3d4-e5f6-4a7b-8c9d-0e1f2a3b4c5d")
	clientID = uuid.MustParse("b2c3d4e5-f6a7-4b8c-9d0e-1f2a3b4c5d6e")
	columns  = []string{"id", "client_id", "title", "description", "budget", "status", "created_at"}
)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB)
	defer mockDB.Close()

	return repo, mockDB
}

func TestRepository_Create(t *testing.T) {
	repo, mock := NewMock(t)
	now := time.Now()
	job := &domain.Job{ID: jobID, ClientID: clientID, Title: "Logo", Description: "Vector logo", Budget: 300, Status: domain.JobOpen, CreatedAt: now}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO jobs")).
		WithArgs(jobID, clientID, "Logo", "Vector logo", int64(300), domain.JobOpen, now).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	assert.NoError(t, repo.Create(context.Background(), job))

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO jobs")).WillReturnError(errors.New("database error"))
	assert.Error(t, repo.Create(context.Background(), job))
}

func TestRepository_Get(t *testing.T) {
	repo, mock := NewMock(t)
	now := time.Now()

	tests := []struct {
		name      string
		forUpdate bool
		mockSetup func()
		expectErr error
		result    *domain.Job
	}{
		{
			name: "Job found",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta("FROM jobs WHERE id = $1")).
					WithArgs(jobID).
					WillReturnRows(pgxmock.NewRows(columns).
						AddRow(jobID.String(), clientID.String(), "Logo", "Vector logo", int64(300), "OPEN", now))
			},
			result: &domain.Job{ID: jobID, ClientID: clientID, Title: "Logo", Description: "Vector logo", Budget: 300, Status: domain.JobOpen, CreatedAt: now},
		},
		{
			name:      "Locked read",
			forUpdate: true,
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta("FROM jobs WHERE id = $1 FOR UPDATE")).
					WithArgs(jobID).
					WillReturnRows(pgxmock.NewRows(columns).
						AddRow(jobID.String(), clientID.String(), "Logo", "", int64(0), "IN_PROGRESS", now))
			},
			result: &domain.Job{ID: jobID, ClientID: clientID, Title: "Logo", Status: domain.JobInProgress, CreatedAt: now},
		},
		{
			name: "Job not found",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta("FROM jobs WHERE id = $1")).
					WithArgs(jobID).
					WillReturnError(pgx.ErrNoRows)
			},
			expectErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			get := repo.Get
			if tt.forUpdate {
				get = repo.GetForUpdate
			}
			result, err := get(context.Background(), jobID)
			if tt.expectErr != nil {
				assert.ErrorIs(t, err, tt.expectErr)
				assert.Nil(t, result)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.result, result)
		})
	}
}

func TestRepository_UpdateStatus(t *testing.T) {
	repo, mock := NewMock(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE jobs SET status = $1 WHERE id = $2")).
		WithArgs(domain.JobCompleted, jobID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	assert.NoError(t, repo.UpdateStatus(context.Background(), jobID, domain.JobCompleted))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE jobs SET status = $1 WHERE id = $2")).
		WithArgs(domain.JobCompleted, jobID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	assert.ErrorIs(t, repo.UpdateStatus(context.Background(), jobID, domain.JobCompleted), domain.ErrNotFound)
}

func TestRepository_ListByClient(t *testing.T) {
	repo, mock := NewMock(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM jobs WHERE client_id = $1 ORDER BY created_at DESC")).
		WithArgs(clientID).
		WillReturnRows(pgxmock.NewRows(columns).
			AddRow(jobID.String(), clientID.String(), "Logo", "", int64(10), "OPEN", now).
			AddRow(uuid.New().String(), clientID.String(), "Site", "", int64(20), "CANCELLED", now))

	jobs, err := repo.ListByClient(context.Background(), clientID)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, domain.JobCancelled, jobs[1].Status)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE status = 'OPEN'")).
		WillReturnError(errors.New("database error"))
	_, err = repo.ListOpen(context.Background())
	assert.Error(t, err)
}
