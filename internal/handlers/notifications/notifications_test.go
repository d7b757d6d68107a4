package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/GlebRadaev/freelancehub/internal/domain"
	"github.com/GlebRadaev/freelancehub/pkg/auth"
)

var freelancer = domain.Principal{ID: uuid.MustParse("22222222-2222-2222-2222-222222222222"), Role: domain.RoleFreelancer}

func NewMock(t *testing.T) (*NotificationHandler, *MockService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	handler := New(service)
	return handler, service
}

func newRequest(method string, id string) *http.Request {
	r := httptest.NewRequest(method, "/api/notifications", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	ctx := context.WithValue(auth.WithPrincipal(r.Context(), freelancer), chi.RouteCtxKey, rctx)
	return r.WithContext(ctx)
}

func TestListNotificationsHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name         string
		prepareMock  func()
		expectedCode int
		expectedLen  int
	}{
		{
			name: "Found",
			prepareMock: func() {
				service.EXPECT().ListForUser(gomock.Any(), freelancer.ID).Return([]domain.Notification{
					{ID: uuid.New(), UserID: freelancer.ID, Title: "Proposal accepted"},
				}, nil)
			},
			expectedCode: http.StatusOK,
			expectedLen:  1,
		},
		{
			name: "Empty list",
			prepareMock: func() {
				service.EXPECT().ListForUser(gomock.Any(), freelancer.ID).Return(nil, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "Internal server error",
			prepareMock: func() {
				service.EXPECT().ListForUser(gomock.Any(), freelancer.ID).Return(nil, errors.New("db down"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			w := httptest.NewRecorder()
			handler.ListNotifications(w, newRequest(http.MethodGet, ""))
			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedCode == http.StatusOK {
				var body []domain.Notification
				assert.NoError(t, json.NewDecoder(w.Body).Decode(&body))
				assert.NotNil(t, body)
				assert.Len(t, body, tt.expectedLen)
			}
		})
	}
}

func TestMarkReadHandler(t *testing.T) {
	handler, service := NewMock(t)
	id := uuid.New()

	service.EXPECT().MarkRead(gomock.Any(), freelancer.ID, id).Return(nil)
	w := httptest.NewRecorder()
	handler.MarkRead(w, newRequest(http.MethodPost, id.String()))
	assert.Equal(t, http.StatusNoContent, w.Code)

	service.EXPECT().MarkRead(gomock.Any(), freelancer.ID, id).Return(domain.ErrNotFound)
	w = httptest.NewRecorder()
	handler.MarkRead(w, newRequest(http.MethodPost, id.String()))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
