// Package storage uploads submitted work files to an HTTP object store.
package storage

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GlebRadaev/freelancehub/pkg/clients"
)

type HTTPStore struct {
	baseURL string
	client  clients.HTTPClientI
}

func NewHTTPStore(baseURL string, client clients.HTTPClientI) *HTTPStore {
	return &HTTPStore{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  client,
	}
}

// Store writes data under folder with a generated name and returns its public URL.
func (s *HTTPStore) Store(ctx context.Context, data []byte, mimeType, folder string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("refusing to store empty file")
	}
	name := uuid.NewString()
	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		name += exts[0]
	}
	url := fmt.Sprintf("%s/%s/%s", s.baseURL, strings.Trim(folder, "/"), name)

	headers := http.Header{}
	headers.Set("Content-Type", mimeType)
	statusCode, _, err := s.client.Put(ctx, url, data, headers)
	if err != nil {
		zap.L().Error("upload failed", zap.String("url", url), zap.Error(err))
		return "", fmt.Errorf("upload %s: %w", url, err)
	}
	if statusCode != http.StatusOK && statusCode != http.StatusCreated && statusCode != http.StatusNoContent {
		zap.L().Error("upload rejected", zap.String("url", url), zap.Int("status", statusCode))
		return "", fmt.Errorf("upload %s: unexpected status %d", url, statusCode)
	}
	return url, nil
}
