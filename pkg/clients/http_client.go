package clients

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

const (
	timeout      = time.Second * 15
	putAttempts  = 3
	retryBackoff = 200 * time.Millisecond
)

var (
	ErrFailedCloseResponseBody = errors.New("failed close response body")

	errServerStatus = errors.New("server answered with 5xx")
)

type HTTPClientI interface {
	Do(req *http.Request) (*http.Response, error)
	Put(ctx context.Context, url string, body []byte, headers http.Header) (statusCode int, respBody []byte, err error)
}

type HTTPClientAdapter struct {
	client  *http.Client
	backoff time.Duration
}

func (h *HTTPClientAdapter) Do(req *http.Request) (*http.Response, error) {
	return h.client.Do(req)
}

// Put uploads body, retrying transport errors and 5xx answers with an
// exponential backoff. The last attempt's result is returned as is.
func (h *HTTPClientAdapter) Put(ctx context.Context, url string, body []byte, headers http.Header) (statusCode int, respBody []byte, err error) {
	attempt := 0
	backoff := retry.WithMaxRetries(putAttempts-1, retry.NewExponential(h.backoff))

	doErr := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		statusCode, respBody, err = h.put(ctx, url, body, headers)
		if !retryable(statusCode, err) {
			return err
		}
		if attempt < putAttempts {
			zap.L().Warn("put failed, retrying",
				zap.String("url", url), zap.Int("attempt", attempt), zap.Int("status", statusCode), zap.Error(err))
		}
		if err == nil {
			return retry.RetryableError(errServerStatus)
		}
		return retry.RetryableError(err)
	})

	switch {
	case doErr == nil, errors.Is(doErr, errServerStatus):
		return statusCode, respBody, nil
	case err != nil && !errors.Is(doErr, err):
		return statusCode, respBody, errors.Join(err, doErr)
	}
	return statusCode, respBody, doErr
}

func (h *HTTPClientAdapter) put(ctx context.Context, url string, body []byte, headers http.Header) (statusCode int, respBody []byte, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return
	}
	if headers != nil {
		req.Header = headers.Clone()
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return
	}

	defer func() {
		if e := resp.Body.Close(); e != nil {
			err = errors.Join(err, ErrFailedCloseResponseBody)
		}
	}()

	respBody, err = io.ReadAll(resp.Body)
	statusCode = resp.StatusCode
	return
}

func retryable(statusCode int, err error) bool {
	if err != nil {
		return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
	}
	return statusCode >= http.StatusInternalServerError
}

type HTTPClient struct {
	client HTTPClientI
}

func NewHTTPClient() *HTTPClient {
	return &HTTPClient{
		client: &HTTPClientAdapter{
			client:  &http.Client{Timeout: timeout},
			backoff: retryBackoff,
		},
	}
}

func (h *HTTPClient) Put(ctx context.Context, url string, body []byte, headers http.Header) (int, []byte, error) {
	return h.client.Put(ctx, url, body, headers)
}

func (h *HTTPClient) Do(req *http.Request) (*http.Response, error) {
	return h.client.Do(req)
}

func (h *HTTPClient) SetClient(mock HTTPClientI) {
	h.client = mock
}
