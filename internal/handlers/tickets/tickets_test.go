package tickets

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
	"github.com/GlebRadaev/freelancehub/internal/service/ticketservice"
	"github.com/GlebRadaev/freelancehub/pkg/auth"
)

var (
	client   = domain.Principal{ID: uuid.MustParse("11111111-1111-1111-1111-111111111111"), Role: domain.RoleClient}
	ticketID = uuid.MustParse("88888888-8888-8888-8888-888888888888")
)

func NewMock(t *testing.T) (*TicketHandler, *MockService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	handler := New(service)
	return handler, service
}

func newRequest(method string, body io.Reader) *http.Request {
	r := httptest.NewRequest(method, "/api/tickets/"+ticketID.String(), body)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", ticketID.String())
	ctx := context.WithValue(auth.WithPrincipal(r.Context(), client), chi.RouteCtxKey, rctx)
	return r.WithContext(ctx)
}

func TestListTicketsHandler(t *testing.T) {
	handler, service := NewMock(t)
	service.EXPECT().ListMine(gomock.Any(), client).Return([]domain.Ticket{{ID: ticketID, Status: domain.TicketOpen}}, nil)

	w := httptest.NewRecorder()
	handler.ListTickets(w, newRequest(http.MethodGet, nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var body []dto.TicketDTO
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Len(t, body, 1)
}

func TestListContractTicketsHandler(t *testing.T) {
	tests := []struct {
		name         string
		prepareMock  func(service *MockService)
		expectedCode int
	}{
		{
			name: "History",
			prepareMock: func(service *MockService) {
				service.EXPECT().ListForContract(gomock.Any(), client, ticketID).Return([]domain.Ticket{{ID: uuid.New(), Status: domain.TicketOpen}}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "Not a party",
			prepareMock: func(service *MockService) {
				service.EXPECT().ListForContract(gomock.Any(), client, ticketID).Return(nil, domain.ErrForbidden)
			},
			expectedCode: http.StatusForbidden,
		},
		{
			name: "Unknown contract",
			prepareMock: func(service *MockService) {
				service.EXPECT().ListForContract(gomock.Any(), client, ticketID).Return(nil, domain.ErrNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, service := NewMock(t)
			tt.prepareMock(service)

			w := httptest.NewRecorder()
			handler.ListContractTickets(w, newRequest(http.MethodGet, nil))
			assert.Equal(t, tt.expectedCode, w.Code)
		})
	}
}

func TestCreateTicketHandler(t *testing.T) {
	handler, service := NewMock(t)
	contractID := uuid.New()

	tests := []struct {
		name         string
		body         string
		prepareMock  func()
		expectedCode int
	}{
		{
			name: "Created",
			body: `{"contract_id":"` + contractID.String() + `","title":"Payment question","priority":"LOW"}`,
			prepareMock: func() {
				service.EXPECT().Create(gomock.Any(), client, ticketservice.CreateInput{
					ContractID: &contractID,
					Title:      "Payment question",
					Priority:   domain.PriorityLow,
				}).Return(&domain.Ticket{ID: ticketID, CreatedByID: client.ID, Status: domain.TicketOpen, Priority: domain.PriorityLow}, nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name: "Foreign contract",
			body: `{"contract_id":"` + contractID.String() + `","title":"spam","priority":"HIGH"}`,
			prepareMock: func() {
				service.EXPECT().Create(gomock.Any(), client, gomock.Any()).Return(nil, domain.ErrForbidden)
			},
			expectedCode: http.StatusForbidden,
		},
		{
			name: "Missing title",
			body: `{"description":"no title"}`,
			prepareMock: func() {
				service.EXPECT().Create(gomock.Any(), client, gomock.Any()).Return(nil, domain.ErrInvalidInput)
			},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			w := httptest.NewRecorder()
			handler.CreateTicket(w, newRequest(http.MethodPost, strings.NewReader(tt.body)))
			assert.Equal(t, tt.expectedCode, w.Code)
		})
	}
}

func TestGetTicketHandler(t *testing.T) {
	handler, service := NewMock(t)

	t.Run("Thread", func(t *testing.T) {
		service.EXPECT().Get(gomock.Any(), client, ticketID).Return(
			&domain.Ticket{ID: ticketID, Status: domain.TicketInProgress},
			[]domain.TicketResponse{{ID: uuid.New(), TicketID: ticketID, AuthorID: client.ID, Message: "hello"}},
			nil,
		)
		w := httptest.NewRecorder()
		handler.GetTicket(w, newRequest(http.MethodGet, nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var body dto.TicketThreadDTO
		assert.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, ticketID, body.Ticket.ID)
		assert.Len(t, body.Responses, 1)
		assert.Equal(t, "hello", body.Responses[0].Message)
	})

	t.Run("Not involved", func(t *testing.T) {
		service.EXPECT().Get(gomock.Any(), client, ticketID).Return(nil, nil, domain.ErrForbidden)
		w := httptest.NewRecorder()
		handler.GetTicket(w, newRequest(http.MethodGet, nil))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestRespondHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name         string
		body         string
		prepareMock  func()
		expectedCode int
	}{
		{
			name: "Replied",
			body: `{"message":"on it"}`,
			prepareMock: func() {
				service.EXPECT().Respond(gomock.Any(), client, ticketID, "on it").
					Return(&domain.TicketResponse{ID: uuid.New(), TicketID: ticketID, AuthorID: client.ID, Message: "on it"}, nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name: "Closed ticket",
			body: `{"message":"anyone?"}`,
			prepareMock: func() {
				service.EXPECT().Respond(gomock.Any(), client, ticketID, "anyone?").Return(nil, domain.ErrInvalidState)
			},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "Invalid request body",
			body:         `"on it"`,
			prepareMock:  func() {},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			w := httptest.NewRecorder()
			handler.Respond(w, newRequest(http.MethodPost, strings.NewReader(tt.body)))
			assert.Equal(t, tt.expectedCode, w.Code)
		})
	}
}
