// Package dispatcher implements the HTTP Dispatcher (§4.6): a thin,
// replaceable abstraction around issuing the outbound call and reading
// back its response. Request composition grounded on the teacher's
// configprovider.validateToken (internal/providers/configprovider/provider.go),
// generalised from a fixed validation GET to an arbitrary method/body call
// and widened from a single shared *http.Client to an injectable Dispatcher
// interface so tests can substitute a recording fake (§4.6, §8 scenario 6).
package dispatcher

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/majorcontext/butterknife/internal/broker"
)

// DefaultTimeout is the dispatcher's default request timeout (§6).
const DefaultTimeout = 30 * time.Second

// Request is the dispatcher's input.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte // nil for GET / bodyless requests
}

// Response is the dispatcher's output on a completed round trip (any HTTP
// status, including non-2xx — those are not dispatcher errors per §4.5
// step 6).
type Response struct {
	Status  int
	Headers http.Header
	Body    []byte
}

// Dispatcher issues outbound HTTP requests. The default implementation
// wraps *http.Client; tests substitute a Func.
type Dispatcher interface {
	Dispatch(ctx context.Context, req Request) (Response, error)
}

// Func adapts a plain function to Dispatcher.
type Func func(ctx context.Context, req Request) (Response, error)

func (f Func) Dispatch(ctx context.Context, req Request) (Response, error) {
	return f(ctx, req)
}

// HTTPDispatcher is the production Dispatcher backed by net/http.
type HTTPDispatcher struct {
	Client *http.Client
}

// New returns an HTTPDispatcher with DefaultTimeout.
func New() *HTTPDispatcher {
	return &HTTPDispatcher{Client: &http.Client{Timeout: DefaultTimeout}}
}

// Dispatch issues req and reads back the full response body. Any transport
// failure — including a cancelled context or timeout (§5 "Cancellation &
// timeout") — is wrapped as a broker.Error with KindNetworkError.
func (d *HTTPDispatcher) Dispatch(ctx context.Context, req Request) (Response, error) {
	var bodyReader io.Reader
	if req.Body != nil {
		bodyReader = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, bodyReader)
	if err != nil {
		return Response{}, broker.NewNetworkError(fmt.Errorf("building request: %w", err))
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := d.Client.Do(httpReq)
	if err != nil {
		return Response{}, broker.NewNetworkError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, broker.NewNetworkError(fmt.Errorf("reading response body: %w", err))
	}

	return Response{Status: resp.StatusCode, Headers: resp.Header, Body: body}, nil
}
