package aep_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aepio/aep-client/pkg/aep"
)

var errInterceptorRejected = errors.New("rejected")

func TestInterceptorChain_Order(t *testing.T) {
	t.Parallel()

	chain := aep.NewInterceptorChain()

	var calls []string

	chain.AddRequestInterceptor(func(ctx context.Context, req *aep.InterceptedRequest) error {
		calls = append(calls, "first")

		return nil
	})
	chain.AddRequestInterceptor(func(ctx context.Context, req *aep.InterceptedRequest) error {
		calls = append(calls, "second")

		return nil
	})

	req := &aep.InterceptedRequest{Method: "GET", Path: "/test"}
	require.NoError(t, chain.ExecuteRequestInterceptors(context.Background(), req))
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestInterceptorChain_RequestFailureStopsChain(t *testing.T) {
	t.Parallel()

	chain := aep.NewInterceptorChain()

	chain.AddRequestInterceptor(func(ctx context.Context, req *aep.InterceptedRequest) error {
		return errInterceptorRejected
	})

	reached := false

	chain.AddRequestInterceptor(func(ctx context.Context, req *aep.InterceptedRequest) error {
		reached = true

		return nil
	})

	err := chain.ExecuteRequestInterceptors(context.Background(), &aep.InterceptedRequest{})
	require.ErrorIs(t, err, errInterceptorRejected)
	assert.False(t, reached)
}

func TestInterceptorChain_ResponseInterceptors(t *testing.T) {
	t.Parallel()

	chain := aep.NewInterceptorChain()

	var seenStatus int

	chain.AddResponseInterceptor(func(ctx context.Context, req *aep.InterceptedRequest, resp *aep.InterceptedResponse) error {
		seenStatus = resp.StatusCode

		return nil
	})

	err := chain.ExecuteResponseInterceptors(context.Background(),
		&aep.InterceptedRequest{Method: "GET", Path: "/test"},
		&aep.InterceptedResponse{StatusCode: 201})
	require.NoError(t, err)
	assert.Equal(t, 201, seenStatus)
}

func TestSandboxInterceptor(t *testing.T) {
	t.Parallel()

	interceptor := aep.SandboxInterceptor("dev")

	req := &aep.InterceptedRequest{Method: "GET", Path: "/test"}
	require.NoError(t, interceptor(context.Background(), req))
	assert.Equal(t, "dev", req.Headers.Get("x-sandbox-name"))
}

func TestHeaderInterceptor(t *testing.T) {
	t.Parallel()

	interceptor := aep.HeaderInterceptor(map[string]string{
		"X-Request-Id": "req-1",
	})

	req := &aep.InterceptedRequest{Headers: http.Header{}}
	require.NoError(t, interceptor(context.Background(), req))
	assert.Equal(t, "req-1", req.Headers.Get("X-Request-Id"))
}

func TestRateLimitInterceptor(t *testing.T) {
	t.Parallel()

	interceptor := aep.RateLimitInterceptor(2)
	ctx := context.Background()
	req := &aep.InterceptedRequest{}

	// The first two tokens are available immediately.
	require.NoError(t, interceptor(ctx, req))
	require.NoError(t, interceptor(ctx, req))

	// A cancelled context fails instead of blocking on an empty bucket.
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	err := interceptor(cancelled, req)
	require.ErrorIs(t, err, context.Canceled)
}

func TestMetricsInterceptors(t *testing.T) {
	t.Parallel()

	collector := aep.NewMetricsCollector()
	ctx := context.Background()

	req := &aep.InterceptedRequest{Method: "GET", Path: "/data/foundation/schemaregistry/stats"}
	require.NoError(t, aep.MetricsRequestInterceptor(collector)(ctx, req))

	respInterceptor := aep.MetricsResponseInterceptor(collector)
	require.NoError(t, respInterceptor(ctx, req, &aep.InterceptedResponse{StatusCode: 200}))
	require.NoError(t, respInterceptor(ctx, req, &aep.InterceptedResponse{StatusCode: 500}))

	metrics := collector.GetMetrics("GET /data/foundation/schemaregistry/stats")
	require.NotNil(t, metrics)
	assert.Equal(t, int64(2), metrics.TotalRequests)
	assert.Equal(t, int64(1), metrics.TotalErrors)
	assert.False(t, metrics.LastRequestTime.IsZero())

	assert.Nil(t, collector.GetMetrics("GET /unknown"))
}

func TestMetricsCollector_OnChange(t *testing.T) {
	t.Parallel()

	collector := aep.NewMetricsCollector()

	var notified string

	collector.SetOnChange(func(endpoint string, metrics *aep.Metrics) {
		notified = endpoint
	})

	req := &aep.InterceptedRequest{Method: "POST", Path: "/x"}
	require.NoError(t, aep.MetricsResponseInterceptor(collector)(context.Background(), req,
		&aep.InterceptedResponse{StatusCode: 201}))
	assert.Equal(t, "POST /x", notified)
}

func TestCircuitBreaker(t *testing.T) {
	t.Parallel()

	breaker := aep.NewCircuitBreaker(&aep.CircuitBreakerConfig{
		Threshold:        2,
		Timeout:          50 * time.Millisecond,
		SuccessThreshold: 1,
	})

	reqInterceptor := aep.CircuitBreakerRequestInterceptor(breaker)
	respInterceptor := aep.CircuitBreakerResponseInterceptor(breaker)
	ctx := context.Background()
	req := &aep.InterceptedRequest{Method: "GET", Path: "/test"}

	// Two failures open the circuit.
	require.NoError(t, respInterceptor(ctx, req, &aep.InterceptedResponse{StatusCode: 500}))
	require.NoError(t, respInterceptor(ctx, req, &aep.InterceptedResponse{StatusCode: 503}))

	err := reqInterceptor(ctx, req)
	require.ErrorIs(t, err, aep.ErrCircuitBreakerOpen)

	// After the timeout the breaker half-opens and a success closes it.
	time.Sleep(60 * time.Millisecond)

	require.NoError(t, reqInterceptor(ctx, req))
	require.NoError(t, respInterceptor(ctx, req, &aep.InterceptedResponse{StatusCode: 200}))
	require.NoError(t, reqInterceptor(ctx, req))
}

func TestRateLimitInterceptor_Refill(t *testing.T) {
	t.Parallel()

	interceptor := aep.RateLimitInterceptor(20)
	ctx := context.Background()
	req := &aep.InterceptedRequest{}

	for n := 0; n < 20; n++ {
		require.NoError(t, interceptor(ctx, req))
	}

	// The bucket is empty, so the next request waits for a refill.
	start := time.Now()
	require.NoError(t, interceptor(ctx, req))
	assert.Less(t, time.Since(start), time.Second)
}

func TestCircuitBreaker_Concurrent(t *testing.T) {
	t.Parallel()

	breaker := aep.NewCircuitBreaker(&aep.CircuitBreakerConfig{
		Threshold:        5,
		Timeout:          time.Minute,
		SuccessThreshold: 1,
	})

	reqInterceptor := aep.CircuitBreakerRequestInterceptor(breaker)
	respInterceptor := aep.CircuitBreakerResponseInterceptor(breaker)
	ctx := context.Background()

	var wg sync.WaitGroup

	for n := 0; n < 20; n++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			req := &aep.InterceptedRequest{Method: "GET", Path: "/test"}
			_ = reqInterceptor(ctx, req)
			_ = respInterceptor(ctx, req, &aep.InterceptedResponse{StatusCode: 503})
		}()
	}

	wg.Wait()

	err := reqInterceptor(ctx, &aep.InterceptedRequest{Method: "GET", Path: "/test"})
	require.ErrorIs(t, err, aep.ErrCircuitBreakerOpen)
}
