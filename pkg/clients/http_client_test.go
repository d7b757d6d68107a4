package clients

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestHTTPClient_Put(t *testing.T) {
	var gotBody []byte
	var gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		gotType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("stored"))
	}))
	defer srv.Close()

	client := NewHTTPClient()
	headers := http.Header{}
	headers.Set("Content-Type", "text/plain")

	code, body, err := client.Put(context.Background(), srv.URL+"/work/file.txt", []byte("hello"), headers)

	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "stored", string(body))
	assert.Equal(t, "hello", string(gotBody))
	assert.Equal(t, "text/plain", gotType)
}

func TestHTTPClient_PutRetries(t *testing.T) {
	tests := []struct {
		name          string
		statuses      []int
		expectedCode  int
		expectedCalls int32
	}{
		{"Recovers after 503", []int{http.StatusServiceUnavailable, http.StatusCreated}, http.StatusCreated, 2},
		{"Gives up after attempts", []int{http.StatusBadGateway, http.StatusBadGateway, http.StatusBadGateway, http.StatusCreated}, http.StatusBadGateway, putAttempts},
		{"Client errors are final", []int{http.StatusForbidden, http.StatusCreated}, http.StatusForbidden, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				body, _ := io.ReadAll(r.Body)
				assert.Equal(t, "payload", string(body))
				n := calls.Add(1)
				w.WriteHeader(tt.statuses[n-1])
			}))
			defer srv.Close()

			adapter := &HTTPClientAdapter{client: srv.Client(), backoff: time.Millisecond}
			code, _, err := adapter.Put(context.Background(), srv.URL, []byte("payload"), nil)

			require.NoError(t, err)
			assert.Equal(t, tt.expectedCode, code)
			assert.Equal(t, tt.expectedCalls, calls.Load())
		})
	}
}

func TestHTTPClient_PutCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	adapter := &HTTPClientAdapter{client: http.DefaultClient, backoff: time.Hour}
	_, _, err := adapter.Put(ctx, "http://127.0.0.1:0/nowhere", []byte("a"), nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHTTPClient_PutDeadlineDuringBackoff(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	adapter := &HTTPClientAdapter{client: srv.Client(), backoff: time.Hour}
	code, _, err := adapter.Put(ctx, srv.URL, []byte("a"), nil)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, int32(1), calls.Load())
}

func TestHTTPClient_PutUnreachable(t *testing.T) {
	adapter := &HTTPClientAdapter{client: http.DefaultClient, backoff: time.Millisecond}
	_, _, err := adapter.Put(context.Background(), "http://127.0.0.1:0/nowhere", nil, nil)
	assert.Error(t, err)
}

func TestHTTPClient_SetClient(t *testing.T) {
	ctrl := gomock.NewController(t)
	mock := NewMockHTTPClientI(ctrl)
	mock.EXPECT().Put(gomock.Any(), "http://storage/x", []byte("a"), gomock.Nil()).Return(http.StatusOK, nil, nil)

	client := NewHTTPClient()
	client.SetClient(mock)

	code, _, err := client.Put(context.Background(), "http://storage/x", []byte("a"), nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, code)
}
