package contractservice

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"

	"github.com/GlebRadaev/freelancehub/internal/domain"
	"github.com/GlebRadaev/freelancehub/internal/pg"
)

var (
	client     = domain.Principal{ID: uuid.MustParse("1a000000-0000-4000-8000-000000000001"), Role: domain.RoleClient}
	freelancer = domain.Principal{ID: uuid.MustParse("1b000000-0000-4000-8000-000000000002"), Role: domain.RoleFreelancer}
	stranger   = domain.Principal{ID: uuid.MustParse("1c000000-0000-4000-8000-000000000003"), Role: domain.RoleFreelancer}
	admin      = domain.Principal{ID: uuid.MustParse("1d000000-0000-4000-8000-000000000004"), Role: domain.RoleAdmin}
	contractID = uuid.MustParse("1e000000-0000-4000-8000-000000000005")
	jobID      = uuid.MustParse("1f000000-0000-4000-8000-000000000006")
)

type mocks struct {
	contracts *MockContractRepo
	jobs      *MockJobRepo
	tickets   *MockTicketRepo
	files     *MockFileStore
	tx        *pg.MockTXManager
	notifier  *MockNotifier
}

func NewMock(t *testing.T) (*Service, mocks) {
	ctrl := gomock.NewController(t)
	m := mocks{
		contracts: NewMockContractRepo(ctrl),
		jobs:      NewMockJobRepo(ctrl),
		tickets:   NewMockTicketRepo(ctrl),
		files:     NewMockFileStore(ctrl),
		tx:        pg.NewMockTXManager(ctrl),
		notifier:  NewMockNotifier(ctrl),
	}
	return New(m.contracts, m.jobs, m.tickets, m.files, m.tx, m.notifier), m
}

func (m mocks) passThroughTx() {
	m.tx.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, fn pg.TransactionalFn) error {
		return fn(ctx)
	})
}

func contractIn(s domain.ContractStatus) *domain.Contract {
	return &domain.Contract{
		ID:           contractID,
		JobID:        jobID,
		ClientID:     client.ID,
		FreelancerID: freelancer.ID,
		Status:       s,
		Amount:       800,
		Terms:        "Mobile app",
	}
}

func TestGet(t *testing.T) {
	tests := []struct {
		name      string
		principal domain.Principal
		expectErr error
	}{
		{name: "Client", principal: client},
		{name: "Freelancer", principal: freelancer},
		{name: "Admin", principal: admin},
		{name: "Stranger", principal: stranger, expectErr: domain.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := NewMock(t)
			m.contracts.EXPECT().Get(gomock.Any(), contractID).Return(contractIn(domain.ContractActive), nil)
			c, err := service.Get(context.Background(), tt.principal, contractID)
			if tt.expectErr != nil {
				assert.ErrorIs(t, err, tt.expectErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, contractID, c.ID)
		})
	}
}

func TestAccept(t *testing.T) {
	service, m := NewMock(t)
	m.passThroughTx()
	m.contracts.EXPECT().GetForUpdate(gomock.Any(), contractID).Return(contractIn(domain.ContractFreelancerAccepted), nil)
	m.contracts.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, c *domain.Contract) error {
		assert.Equal(t, domain.ContractActive, c.Status)
		return nil
	})
	m.notifier.EXPECT().Dispatch(gomock.Any(), gomock.Any())

	c, err := service.Accept(context.Background(), client, contractID)
	require.NoError(t, err)
	assert.Equal(t, domain.ContractActive, c.Status)
}

func TestDeclineActiveContract(t *testing.T) {
	service, m := NewMock(t)
	m.passThroughTx()
	m.contracts.EXPECT().GetForUpdate(gomock.Any(), contractID).Return(contractIn(domain.ContractActive), nil)
	m.contracts.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
	m.tickets.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, ticket *domain.Ticket) error {
		assert.NotEqual(t, uuid.Nil, ticket.ID)
		assert.False(t, ticket.CreatedAt.IsZero())
		assert.Equal(t, domain.PriorityHigh, ticket.Priority)
		assert.Equal(t, contractID, *ticket.ContractID)
		return nil
	})
	m.notifier.EXPECT().Dispatch(gomock.Any(), gomock.Any()).Do(func(_ context.Context, notes ...domain.Notification) {
		require.Len(t, notes, 1)
		assert.Equal(t, freelancer.ID, notes[0].UserID)
		assert.Contains(t, notes[0].Message, "budget cut")
	})

	c, err := service.Decline(context.Background(), client, contractID, "budget cut")
	require.NoError(t, err)
	assert.Equal(t, domain.ContractUnderAdminReview, c.Status)
	assert.Contains(t, c.Terms, "budget cut")
}

func TestSubmitWork(t *testing.T) {
	file := &Upload{Data: []byte("%PDF-1.7"), MimeType: "application/pdf"}

	t.Run("With file", func(t *testing.T) {
		service, m := NewMock(t)
		m.contracts.EXPECT().Get(gomock.Any(), contractID).Return(contractIn(domain.ContractActive), nil)
		m.files.EXPECT().Store(gomock.Any(), file.Data, "application/pdf", submissionFolder).Return("http://storage/submissions/x.pdf", nil)
		m.passThroughTx()
		m.contracts.EXPECT().GetForUpdate(gomock.Any(), contractID).Return(contractIn(domain.ContractActive), nil)
		m.contracts.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
		m.tickets.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
		m.notifier.EXPECT().Dispatch(gomock.Any(), gomock.Any())

		c, err := service.SubmitWork(context.Background(), freelancer, contractID, "Done", file)
		require.NoError(t, err)
		assert.Equal(t, domain.ContractPendingReview, c.Status)
		assert.Contains(t, *c.SubmissionData, "http://storage/submissions/x.pdf")
	})

	t.Run("Upload failure persists nothing", func(t *testing.T) {
		service, m := NewMock(t)
		m.contracts.EXPECT().Get(gomock.Any(), contractID).Return(contractIn(domain.ContractActive), nil)
		m.files.EXPECT().Store(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("", errors.New("503"))

		c, err := service.SubmitWork(context.Background(), freelancer, contractID, "Done", file)
		assert.ErrorIs(t, err, domain.ErrUpstream)
		assert.Nil(t, c)
	})

	t.Run("Client is refused before upload", func(t *testing.T) {
		service, m := NewMock(t)
		m.contracts.EXPECT().Get(gomock.Any(), contractID).Return(contractIn(domain.ContractActive), nil)

		_, err := service.SubmitWork(context.Background(), client, contractID, "Done", file)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("Without file", func(t *testing.T) {
		service, m := NewMock(t)
		m.contracts.EXPECT().Get(gomock.Any(), contractID).Return(contractIn(domain.ContractActive), nil)
		m.passThroughTx()
		m.contracts.EXPECT().GetForUpdate(gomock.Any(), contractID).Return(contractIn(domain.ContractActive), nil)
		m.contracts.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
		m.tickets.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
		m.notifier.EXPECT().Dispatch(gomock.Any(), gomock.Any())

		_, err := service.SubmitWork(context.Background(), freelancer, contractID, "Link in description", nil)
		require.NoError(t, err)
	})
}

func TestReviewWork(t *testing.T) {
	t.Run("Accepted completes the job", func(t *testing.T) {
		service, m := NewMock(t)
		m.passThroughTx()
		m.contracts.EXPECT().GetForUpdate(gomock.Any(), contractID).Return(contractIn(domain.ContractPendingReview), nil)
		m.contracts.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
		m.jobs.EXPECT().UpdateStatus(gomock.Any(), jobID, domain.JobCompleted).Return(nil)
		m.notifier.EXPECT().Dispatch(gomock.Any(), gomock.Any())

		c, err := service.ReviewWork(context.Background(), client, contractID, true, "")
		require.NoError(t, err)
		assert.Equal(t, domain.ContractCompleted, c.Status)
	})

	t.Run("Rejected opens two tickets", func(t *testing.T) {
		service, m := NewMock(t)
		m.passThroughTx()
		m.contracts.EXPECT().GetForUpdate(gomock.Any(), contractID).Return(contractIn(domain.ContractPendingReview), nil)
		m.contracts.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
		m.tickets.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil).Times(2)
		m.notifier.EXPECT().Dispatch(gomock.Any(), gomock.Any()).Do(func(_ context.Context, notes ...domain.Notification) {
			require.Len(t, notes, 2)
			assert.ElementsMatch(t, []uuid.UUID{client.ID, freelancer.ID}, []uuid.UUID{notes[0].UserID, notes[1].UserID})
		})

		c, err := service.ReviewWork(context.Background(), client, contractID, false, "Fix the header")
		require.NoError(t, err)
		assert.Equal(t, domain.ContractActive, c.Status)
	})

	t.Run("Job update failure rolls back and notifies nobody", func(t *testing.T) {
		service, m := NewMock(t)
		m.passThroughTx()
		m.contracts.EXPECT().GetForUpdate(gomock.Any(), contractID).Return(contractIn(domain.ContractPendingReview), nil)
		m.contracts.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
		m.jobs.EXPECT().UpdateStatus(gomock.Any(), jobID, domain.JobCompleted).Return(errors.New("database error"))

		_, err := service.ReviewWork(context.Background(), client, contractID, true, "")
		assert.EqualError(t, err, "database error")
	})
}

func TestComplete(t *testing.T) {
	service, m := NewMock(t)
	m.passThroughTx()
	m.contracts.EXPECT().GetForUpdate(gomock.Any(), contractID).Return(contractIn(domain.ContractUnderAdminReview), nil)
	m.contracts.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
	m.jobs.EXPECT().UpdateStatus(gomock.Any(), jobID, domain.JobCompleted).Return(nil)
	m.notifier.EXPECT().Dispatch(gomock.Any(), gomock.Any(), gomock.Any())

	c, err := service.Complete(context.Background(), admin, contractID)
	require.NoError(t, err)
	assert.Equal(t, domain.ContractCompleted, c.Status)

	m.passThroughTx()
	m.contracts.EXPECT().GetForUpdate(gomock.Any(), contractID).Return(contractIn(domain.ContractActive), nil)
	_, err = service.Complete(context.Background(), client, contractID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
