package storage

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/GlebRadaev/freelancehub/pkg/clients"
)

func TestHTTPStore_Store(t *testing.T) {
	tests := []struct {
		name        string
		data        []byte
		mimeType    string
		prepareMock func(client *clients.MockHTTPClientI)
		expectErr   bool
	}{
		{
			name:     "Successful upload",
			data:     []byte("%PDF-1.4"),
			mimeType: "application/pdf",
			prepareMock: func(client *clients.MockHTTPClientI) {
				client.EXPECT().Put(gomock.Any(), gomock.Any(), []byte("%PDF-1.4"), gomock.Any()).
					DoAndReturn(func(_ context.Context, url string, _ []byte, headers http.Header) (int, []byte, error) {
						assert.True(t, strings.HasPrefix(url, "http://storage/submissions/"))
						assert.True(t, strings.HasSuffix(url, ".pdf"))
						assert.Equal(t, "application/pdf", headers.Get("Content-Type"))
						return http.StatusCreated, nil, nil
					})
			},
		},
		{
			name:        "Empty file",
			data:        nil,
			mimeType:    "text/plain",
			prepareMock: func(client *clients.MockHTTPClientI) {},
			expectErr:   true,
		},
		{
			name:     "Transport error",
			data:     []byte("x"),
			mimeType: "text/plain",
			prepareMock: func(client *clients.MockHTTPClientI) {
				client.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(0, nil, errors.New("connection reset"))
			},
			expectErr: true,
		},
		{
			name:     "Rejected by store",
			data:     []byte("x"),
			mimeType: "text/plain",
			prepareMock: func(client *clients.MockHTTPClientI) {
				client.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(http.StatusForbidden, []byte("denied"), nil)
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := clients.NewMockHTTPClientI(ctrl)
			tt.prepareMock(client)

			store := NewHTTPStore("http://storage/", client)
			url, err := store.Store(context.Background(), tt.data, tt.mimeType, "/submissions/")

			if tt.expectErr {
				assert.Error(t, err)
				assert.Empty(t, url)
				return
			}
			assert.NoError(t, err)
			assert.NotEmpty(t, url)
		})
	}
}
