package proposalrepo

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
	"github.com/stretchr/testify/require"

	"github.com/GlebRadaev/freelancehub/internal/domain"
)

var (
	proposalID   = uuid.MustParse("c3d4e5f6-a7b8-4c9d-8e0f-1a2b3c4d5e6f")
	jobID        = uuid.MustParse("d4e5f6a7-b8c9-4d0e-9f1a-2b3c4d5e6f70")
	freelancerID = uuid.MustParse("e5f6a7b8-c9d0-4e1f-8a2b-3c4d5e6f7081")
	columns      = []string{"id", "job_id", "freelancer_id", "amount", "cover_letter", "status", "created_at"}
)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB)
	defer mockDB.Close()

	return repo, mockDB
}

func TestRepository_Insert(t *testing.T) {
	repo, mock := NewMock(t)
	now := time.Now()
	p := &domain.Proposal{ID: proposalID, JobID: jobID, FreelancerID: freelancerID, Amount: 200, CoverLetter: "hi", Status: domain.ProposalPending, CreatedAt: now}

	tests := []struct {
		name      string
		mockSetup func()
		expectErr error
	}{
		{
			name: "Inserted",
			mockSetup: func() {
				mock.ExpectExec(regexp.QuoteMeta("INSERT INTO proposals")).
					WithArgs(proposalID, jobID, freelancerID, int64(200), "hi", domain.ProposalPending, now).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
			},
		},
		{
			name: "Duplicate submission",
			mockSetup: func() {
				mock.ExpectExec(regexp.QuoteMeta("INSERT INTO proposals")).
					WillReturnError(&pgconn.PgError{Code: "23505"})
			},
			expectErr: domain.ErrConflict,
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectExec(regexp.QuoteMeta("INSERT INTO proposals")).
					WillReturnError(errors.New("database error"))
			},
			expectErr: errors.New("database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			err := repo.Insert(context.Background(), p)
			if tt.expectErr != nil {
				assert.EqualError(t, err, tt.expectErr.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRepository_Get(t *testing.T) {
	repo, mock := NewMock(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM proposals WHERE id = $1 FOR UPDATE")).
		WithArgs(proposalID).
		WillReturnRows(pgxmock.NewRows(columns).
			AddRow(proposalID.String(), jobID.String(), freelancerID.String(), int64(200), "hi", "PENDING", now))
	p, err := repo.GetForUpdate(context.Background(), proposalID)
	require.NoError(t, err)
	assert.Equal(t, &domain.Proposal{ID: proposalID, JobID: jobID, FreelancerID: freelancerID, Amount: 200, CoverLetter: "hi", Status: domain.ProposalPending, CreatedAt: now}, p)

	mock.ExpectQuery(regexp.QuoteMeta("FROM proposals WHERE id = $1")).
		WithArgs(proposalID).
		WillReturnError(pgx.ErrNoRows)
	_, err = repo.Get(context.Background(), proposalID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRepository_ExistsFor(t *testing.T) {
	repo, mock := NewMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs(jobID, freelancerID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	exists, err := repo.ExistsFor(context.Background(), jobID, freelancerID)
	require.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WillReturnError(errors.New("database error"))
	_, err = repo.ExistsFor(context.Background(), jobID, freelancerID)
	assert.Error(t, err)
}

func TestRepository_UpdateStatus(t *testing.T) {
	repo, mock := NewMock(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE proposals SET status = $1 WHERE id = $2")).
		WithArgs(domain.ProposalRejected, proposalID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	assert.NoError(t, repo.UpdateStatus(context.Background(), proposalID, domain.ProposalRejected))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE proposals")).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	assert.ErrorIs(t, repo.UpdateStatus(context.Background(), proposalID, domain.ProposalRejected), domain.ErrNotFound)
}

func TestRepository_List(t *testing.T) {
	repo, mock := NewMock(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE job_id = $1 ORDER BY created_at ASC")).
		WithArgs(jobID).
		WillReturnRows(pgxmock.NewRows(columns).
			AddRow(proposalID.String(), jobID.String(), freelancerID.String(), int64(200), "", "PENDING", now).
			AddRow(uuid.New().String(), jobID.String(), uuid.New().String(), int64(150), "", "REJECTED", now))
	proposals, err := repo.ListByJob(context.Background(), jobID)
	require.NoError(t, err)
	assert.Len(t, proposals, 2)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE freelancer_id = $1")).
		WithArgs(freelancerID).
		WillReturnError(errors.New("database error"))
	_, err = repo.ListByFreelancer(context.Background(), freelancerID)
	assert.Error(t, err)
}
