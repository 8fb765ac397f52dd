package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TurneroService/pkg/logger"
)

// newTestClient returns a client whose backoff sleeps are recorded instead of slept
func newTestClient(maxAttempts int) (*Client, *[]time.Duration) {
	c := NewClient(time.Second, maxAttempts, time.Second, logger.NewNop())
	sleeps := make([]time.Duration, 0)
	c.sleep = func(_ context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return nil
	}
	return c, &sleeps
}

func TestSend_AlwaysFailing(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c, sleeps := newTestClient(3)
	result := c.Send(context.Background(), srv.URL, map[string]string{"event": "webhook.test"}, "secret")

	assert.False(t, result.Success)
	assert.Equal(t, 3, result.Attempts)
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
	require.NotNil(t, result.StatusCode)
	assert.Equal(t, http.StatusInternalServerError, *result.StatusCode)
	assert.Contains(t, result.Error, "HTTP 500")
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, *sleeps)
}

func TestSend_SuccessOnFirstAttempt(t *testing.T) {
	var received Payload
	var headers http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers = r.Header.Clone()
		_ = json.NewDecoder(r.Body).Decode(&received)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, sleeps := newTestClient(3)
	payload := &Payload{Event: "webhook.test", Message: TestMessage}
	result := c.Send(context.Background(), srv.URL, payload, "s3cr3t")

	assert.True(t, result.Success)
	assert.Equal(t, 1, result.Attempts)
	assert.Empty(t, result.Error)
	require.NotNil(t, result.StatusCode)
	assert.Equal(t, http.StatusOK, *result.StatusCode)
	assert.Empty(t, *sleeps)

	assert.Equal(t, "s3cr3t", headers.Get("X-Webhook-Secret"))
	assert.Equal(t, "application/json", headers.Get("Content-Type"))
	assert.Equal(t, "TurneroSaaS/1.0", headers.Get("User-Agent"))
	assert.Equal(t, TestMessage, received.Message)
}

func TestSend_RecoversAfterFailure(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c, sleeps := newTestClient(3)
	result := c.Send(context.Background(), srv.URL, struct{}{}, "secret")

	assert.True(t, result.Success)
	assert.Equal(t, 2, result.Attempts)
	assert.Equal(t, http.StatusAccepted, *result.StatusCode)
	assert.Equal(t, []time.Duration{time.Second}, *sleeps)
}

func TestSend_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, _ := newTestClient(2)
	result := c.Send(context.Background(), url, struct{}{}, "secret")

	assert.False(t, result.Success)
	assert.Equal(t, 2, result.Attempts)
	assert.Nil(t, result.StatusCode)
	assert.NotEmpty(t, result.Error)
}

func TestSend_AbortsWhenContextDone(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c, _ := newTestClient(3)
	c.sleep = func(context.Context, time.Duration) error { return context.Canceled }

	result := c.Send(context.Background(), srv.URL, struct{}{}, "secret")

	assert.False(t, result.Success)
	assert.Equal(t, 1, result.Attempts)
}

func TestSend_UnmarshalablePayload(t *testing.T) {
	c, _ := newTestClient(3)
	result := c.Send(context.Background(), "http://127.0.0.1:1", make(chan int), "secret")

	assert.False(t, result.Success)
	assert.Equal(t, 0, result.Attempts)
	assert.Contains(t, result.Error, ErrMarshalPayload.Error())
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(0, 0, -1, logger.NewNop())
	assert.Equal(t, DefaultMaxAttempts, c.MaxAttempts())
	assert.Equal(t, DefaultTimeout, c.httpClient.Timeout)
	assert.Equal(t, DefaultBackoffStep, c.backoffStep)
}

func TestSleepContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.True(t, errors.Is(sleepContext(ctx, time.Hour), context.Canceled))
	assert.NoError(t, sleepContext(context.Background(), 0))
}
