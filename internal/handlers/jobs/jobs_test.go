package jobs

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/GlebRadaev/freelancehub/internal/domain"
	"github.com/GlebRadaev/freelancehub/internal/dto"
	"github.com/GlebRadaev/freelancehub/pkg/auth"
)

var (
	client = domain.Principal{ID: uuid.MustParse("11111111-1111-1111-1111-111111111111"), Role: domain.RoleClient}
	jobID  = uuid.MustParse("66666666-6666-6666-6666-666666666666")
)

func NewMock(t *testing.T) (*JobHandler, *MockService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	handler := New(service)
	return handler, service
}

func newRequest(method, target, id string, body io.Reader) *http.Request {
	r := httptest.NewRequest(method, target, body)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	ctx := context.WithValue(auth.WithPrincipal(r.Context(), client), chi.RouteCtxKey, rctx)
	return r.WithContext(ctx)
}

func TestCreateJobHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name         string
		body         string
		prepareMock  func()
		expectedCode int
	}{
		{
			name: "Created",
			body: `{"title":"Landing page","description":"One page","budget":500}`,
			prepareMock: func() {
				service.EXPECT().Create(gomock.Any(), client, "Landing page", "One page", int64(500)).
					Return(&domain.Job{ID: jobID, ClientID: client.ID, Title: "Landing page", Budget: 500, Status: domain.JobOpen}, nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name: "Freelancer cannot post",
			body: `{"title":"Landing page","budget":500}`,
			prepareMock: func() {
				service.EXPECT().Create(gomock.Any(), client, "Landing page", "", int64(500)).Return(nil, domain.ErrForbidden)
			},
			expectedCode: http.StatusForbidden,
		},
		{
			name:         "Invalid request body",
			body:         `{"title":`,
			prepareMock:  func() {},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			w := httptest.NewRecorder()
			handler.CreateJob(w, newRequest(http.MethodPost, "/api/jobs", "", strings.NewReader(tt.body)))
			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedCode == http.StatusCreated {
				var body dto.JobDTO
				assert.NoError(t, json.NewDecoder(w.Body).Decode(&body))
				assert.Equal(t, jobID, body.ID)
				assert.Equal(t, "OPEN", body.Status)
			}
		})
	}
}

func TestListJobsHandler(t *testing.T) {
	handler, service := NewMock(t)
	service.EXPECT().List(gomock.Any(), client).Return([]domain.Job{{ID: jobID, Status: domain.JobOpen}}, nil)

	w := httptest.NewRecorder()
	handler.ListJobs(w, newRequest(http.MethodGet, "/api/jobs", "", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var body []dto.JobDTO
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Len(t, body, 1)
}

func TestGetJobHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name         string
		id           string
		prepareMock  func()
		expectedCode int
	}{
		{
			name: "Found",
			id:   jobID.String(),
			prepareMock: func() {
				service.EXPECT().Get(gomock.Any(), jobID).Return(&domain.Job{ID: jobID}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "Not found",
			id:   jobID.String(),
			prepareMock: func() {
				service.EXPECT().Get(gomock.Any(), jobID).Return(nil, domain.ErrNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name:         "Malformed id",
			id:           "7",
			prepareMock:  func() {},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			w := httptest.NewRecorder()
			handler.GetJob(w, newRequest(http.MethodGet, "/api/jobs/"+tt.id, tt.id, nil))
			assert.Equal(t, tt.expectedCode, w.Code)
		})
	}
}

func TestCancelJobHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name         string
		prepareMock  func()
		expectedCode int
	}{
		{
			name: "Cancelled",
			prepareMock: func() {
				service.EXPECT().Cancel(gomock.Any(), client, jobID).Return(&domain.Job{ID: jobID, Status: domain.JobCancelled}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "Already in progress",
			prepareMock: func() {
				service.EXPECT().Cancel(gomock.Any(), client, jobID).Return(nil, domain.ErrInvalidState)
			},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			w := httptest.NewRecorder()
			handler.CancelJob(w, newRequest(http.MethodPost, "/api/jobs/"+jobID.String()+"/cancel", jobID.String(), nil))
			assert.Equal(t, tt.expectedCode, w.Code)
		})
	}
}
