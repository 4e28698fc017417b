package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-leadrelay/core"
)

const defaultClientTimeout = 30 * time.Second
const defaultResponseBodyLimit int64 = 1 << 20 // 1 MiB

type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// WebhookDispatcher performs one synchronous JSON POST per record. There is
// no retry, no queuing, and no signing: each call is a best-effort,
// fire-once notification.
type WebhookDispatcher struct {
	Client               HTTPDoer
	DefaultHeaders       map[string]string
	MaxResponseBodyBytes int64
}

func NewWebhookDispatcher(client HTTPDoer) *WebhookDispatcher {
	if client == nil {
		client = &http.Client{Timeout: defaultClientTimeout}
	}
	return &WebhookDispatcher{
		Client:               client,
		DefaultHeaders:       map[string]string{},
		MaxResponseBodyBytes: defaultResponseBodyLimit,
	}
}

// Dispatch serializes the record and POSTs it to the endpoint. Transport
// failures never escape as errors: any failure after the request is formed
// resolves into a DeliveryResult with Success false. The error return is
// reserved for unusable configuration (nil dispatcher, blank or unparsable
// endpoint).
func (d *WebhookDispatcher) Dispatch(
	ctx context.Context,
	record core.LeadRecord,
	endpoint string,
) (core.DeliveryResult, error) {
	if d == nil || d.Client == nil {
		return core.DeliveryResult{}, dispatchError(
			"transport: webhook dispatcher requires an http client",
			goerrors.CategoryInternal,
			http.StatusInternalServerError,
			nil,
		)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	parsedURL, err := url.Parse(strings.TrimSpace(endpoint))
	if err != nil {
		return core.DeliveryResult{}, dispatchWrapError(
			err,
			goerrors.CategoryBadInput,
			"transport: invalid webhook endpoint",
			http.StatusBadRequest,
			map[string]any{"endpoint": strings.TrimSpace(endpoint)},
		)
	}
	if parsedURL.String() == "" || parsedURL.Scheme == "" {
		return core.DeliveryResult{}, dispatchError(
			"transport: webhook endpoint is required",
			goerrors.CategoryBadInput,
			http.StatusBadRequest,
			nil,
		)
	}

	body, err := json.Marshal(record)
	if err != nil {
		return core.DeliveryResult{}, dispatchWrapError(
			err,
			goerrors.CategoryInternal,
			"transport: encode lead record",
			http.StatusInternalServerError,
			map[string]any{"endpoint": parsedURL.String()},
		)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, parsedURL.String(), bytes.NewReader(body))
	if err != nil {
		return core.DeliveryResult{}, dispatchWrapError(
			err,
			goerrors.CategoryBadInput,
			"transport: create webhook request",
			http.StatusBadRequest,
			map[string]any{"endpoint": parsedURL.String()},
		)
	}
	for key, value := range d.DefaultHeaders {
		if strings.TrimSpace(key) == "" {
			continue
		}
		httpReq.Header.Set(strings.TrimSpace(key), strings.TrimSpace(value))
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpRes, err := d.Client.Do(httpReq)
	if err != nil {
		return core.DeliveryResult{
			Success: false,
			Error:   err.Error(),
		}, nil
	}
	defer httpRes.Body.Close()

	maxBodyBytes := d.MaxResponseBodyBytes
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultResponseBodyLimit
	}
	responseBody, err := io.ReadAll(io.LimitReader(httpRes.Body, maxBodyBytes))
	if err != nil {
		return core.DeliveryResult{
			Success:    false,
			StatusCode: httpRes.StatusCode,
			Error:      err.Error(),
		}, nil
	}

	if httpRes.StatusCode >= http.StatusOK && httpRes.StatusCode < http.StatusMultipleChoices {
		return core.DeliveryResult{
			Success:    true,
			StatusCode: httpRes.StatusCode,
			Response:   string(responseBody),
		}, nil
	}
	return core.DeliveryResult{
		Success:    false,
		StatusCode: httpRes.StatusCode,
		Error:      string(responseBody),
	}, nil
}

var _ core.Dispatcher = (*WebhookDispatcher)(nil)
