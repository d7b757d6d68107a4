package contracts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"

	"github.com/GlebRadaev/freelancehub/internal/domain"
	"github.com/GlebRadaev/freelancehub/internal/dto"
	"github.com/GlebRadaev/freelancehub/internal/service/contractservice"
	"github.com/GlebRadaev/freelancehub/pkg/auth"
)

var (
	client     = domain.Principal{ID: uuid.MustParse("11111111-1111-1111-1111-111111111111"), Role: domain.RoleClient}
	freelancer = domain.Principal{ID: uuid.MustParse("22222222-2222-2222-2222-222222222222"), Role: domain.RoleFreelancer}
	admin      = domain.Principal{ID: uuid.MustParse("44444444-4444-4444-4444-444444444444"), Role: domain.RoleAdmin}
	contractID = uuid.MustParse("55555555-5555-5555-5555-555555555555")
)

func NewMock(t *testing.T) (*ContractHandler, *MockService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	handler := New(service)
	return handler, service
}

func newRequest(method string, who domain.Principal, body io.Reader) *http.Request {
	r := httptest.NewRequest(method, "/api/contracts/"+contractID.String(), body)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", contractID.String())
	ctx := context.WithValue(auth.WithPrincipal(r.Context(), who), chi.RouteCtxKey, rctx)
	return r.WithContext(ctx)
}

func contractIn(s domain.ContractStatus) *domain.Contract {
	return &domain.Contract{ID: contractID, ClientID: client.ID, FreelancerID: freelancer.ID, Status: s}
}

func decodeStatus(t *testing.T, w *httptest.ResponseRecorder) string {
	var body dto.ContractDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body.Status
}

func TestGetAndListHandlers(t *testing.T) {
	handler, service := NewMock(t)

	t.Run("Get", func(t *testing.T) {
		service.EXPECT().Get(gomock.Any(), client, contractID).Return(contractIn(domain.ContractActive), nil)
		w := httptest.NewRecorder()
		handler.GetContract(w, newRequest(http.MethodGet, client, nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ACTIVE", decodeStatus(t, w))
	})

	t.Run("Get by stranger", func(t *testing.T) {
		service.EXPECT().Get(gomock.Any(), admin, contractID).Return(nil, domain.ErrForbidden)
		w := httptest.NewRecorder()
		handler.GetContract(w, newRequest(http.MethodGet, admin, nil))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("List", func(t *testing.T) {
		service.EXPECT().ListMine(gomock.Any(), freelancer).Return([]domain.Contract{*contractIn(domain.ContractPending)}, nil)
		w := httptest.NewRecorder()
		handler.ListContracts(w, newRequest(http.MethodGet, freelancer, nil))
		assert.Equal(t, http.StatusOK, w.Code)
		var body []dto.ContractDTO
		assert.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Len(t, body, 1)
	})
}

func TestAcceptHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name           string
		caller         domain.Principal
		prepareMock    func()
		expectedCode   int
		expectedStatus string
	}{
		{
			name:   "Freelancer first",
			caller: freelancer,
			prepareMock: func() {
				service.EXPECT().Accept(gomock.Any(), freelancer, contractID).Return(contractIn(domain.ContractFreelancerAccepted), nil)
			},
			expectedCode:   http.StatusOK,
			expectedStatus: "FREELANCER_ACCEPTED",
		},
		{
			name:   "Same party twice",
			caller: freelancer,
			prepareMock: func() {
				service.EXPECT().Accept(gomock.Any(), freelancer, contractID).Return(nil, fmt.Errorf("accept: %w", domain.ErrInvalidState))
			},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			w := httptest.NewRecorder()
			handler.Accept(w, newRequest(http.MethodPost, tt.caller, nil))
			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedStatus != "" {
				assert.Equal(t, tt.expectedStatus, decodeStatus(t, w))
			}
		})
	}
}

func TestDeclineHandler(t *testing.T) {
	handler, service := NewMock(t)

	service.EXPECT().Decline(gomock.Any(), client, contractID, "budget cut").Return(contractIn(domain.ContractUnderAdminReview), nil)
	w := httptest.NewRecorder()
	handler.Decline(w, newRequest(http.MethodPost, client, strings.NewReader(`{"reason":"budget cut"}`)))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "UNDER_ADMIN_REVIEW", decodeStatus(t, w))

	w = httptest.NewRecorder()
	handler.Decline(w, newRequest(http.MethodPost, client, strings.NewReader(`reason`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func multipartBody(t *testing.T, description string, file []byte, mimeType string) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("description", description))
	if file != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="file"; filename="draft.pdf"`)
		if mimeType != "" {
			h.Set("Content-Type", mimeType)
		}
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestSubmitWorkHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name         string
		file         []byte
		mimeType     string
		prepareMock  func()
		expectedCode int
	}{
		{
			name:     "With file",
			file:     []byte("%PDF-1.4"),
			mimeType: "application/pdf",
			prepareMock: func() {
				service.EXPECT().SubmitWork(gomock.Any(), freelancer, contractID, "first draft", &contractservice.Upload{
					Data:     []byte("%PDF-1.4"),
					MimeType: "application/pdf",
				}).Return(contractIn(domain.ContractPendingReview), nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:     "Mime type sniffed",
			file:     []byte("plain notes"),
			mimeType: "",
			prepareMock: func() {
				service.EXPECT().SubmitWork(gomock.Any(), freelancer, contractID, "first draft", gomock.Any()).
					DoAndReturn(func(_ context.Context, _ domain.Principal, _ uuid.UUID, _ string, file *contractservice.Upload) (*domain.Contract, error) {
						assert.Equal(t, "text/plain; charset=utf-8", file.MimeType)
						return contractIn(domain.ContractPendingReview), nil
					})
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "Without file",
			prepareMock: func() {
				service.EXPECT().SubmitWork(gomock.Any(), freelancer, contractID, "first draft", gomock.Nil()).
					Return(contractIn(domain.ContractPendingReview), nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:     "Storage down",
			file:     []byte("x"),
			mimeType: "text/plain",
			prepareMock: func() {
				service.EXPECT().SubmitWork(gomock.Any(), freelancer, contractID, "first draft", gomock.Any()).
					Return(nil, fmt.Errorf("%w: connection refused", domain.ErrUpstream))
			},
			expectedCode: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			body, contentType := multipartBody(t, "first draft", tt.file, tt.mimeType)
			r := newRequest(http.MethodPost, freelancer, body)
			r.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()
			handler.SubmitWork(w, r)
			assert.Equal(t, tt.expectedCode, w.Code)
		})
	}

	t.Run("Not multipart", func(t *testing.T) {
		r := newRequest(http.MethodPost, freelancer, strings.NewReader(`{"description":"x"}`))
		r.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		handler.SubmitWork(w, r)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestReviewWorkHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name           string
		body           string
		prepareMock    func()
		expectedStatus string
	}{
		{
			name: "Accepted",
			body: `{"accepted":true,"feedback":"great"}`,
			prepareMock: func() {
				service.EXPECT().ReviewWork(gomock.Any(), client, contractID, true, "great").Return(contractIn(domain.ContractCompleted), nil)
			},
			expectedStatus: "COMPLETED",
		},
		{
			name: "Rejected",
			body: `{"accepted":false,"feedback":"wrong colours"}`,
			prepareMock: func() {
				service.EXPECT().ReviewWork(gomock.Any(), client, contractID, false, "wrong colours").Return(contractIn(domain.ContractActive), nil)
			},
			expectedStatus: "ACTIVE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			w := httptest.NewRecorder()
			handler.ReviewWork(w, newRequest(http.MethodPost, client, strings.NewReader(tt.body)))
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.expectedStatus, decodeStatus(t, w))
		})
	}
}

func TestCompleteHandler(t *testing.T) {
	handler, service := NewMock(t)

	service.EXPECT().Complete(gomock.Any(), admin, contractID).Return(contractIn(domain.ContractCompleted), nil)
	w := httptest.NewRecorder()
	handler.Complete(w, newRequest(http.MethodPost, admin, nil))
	assert.Equal(t, http.StatusOK, w.Code)

	service.EXPECT().Complete(gomock.Any(), client, contractID).Return(nil, domain.ErrForbidden)
	w = httptest.NewRecorder()
	handler.Complete(w, newRequest(http.MethodPost, client, nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}
