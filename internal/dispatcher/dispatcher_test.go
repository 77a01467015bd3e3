package dispatcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPDispatcher_RoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("Authorization header = %q, want %q", got, "Bearer sk-test")
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	d := New()
	resp, err := d.Dispatch(context.Background(), Request{
		Method:  "GET",
		URL:     srv.URL,
		Headers: map[string]string{"Authorization": "Bearer sk-test"},
	})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if resp.Status != 200 {
		t.Errorf("Status = %d, want 200", resp.Status)
	}
	if string(resp.Body) != `{"ok":true}` {
		t.Errorf("Body = %q, want %q", resp.Body, `{"ok":true}`)
	}
}

func TestHTTPDispatcher_NonOKStatusIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":"rate limited"}`))
	}))
	defer srv.Close()

	d := New()
	resp, err := d.Dispatch(context.Background(), Request{Method: "GET", URL: srv.URL})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if resp.Status != http.StatusTooManyRequests {
		t.Errorf("Status = %d, want 429", resp.Status)
	}
}

func TestHTTPDispatcher_UnreachableHostIsNetworkError(t *testing.T) {
	d := New()
	_, err := d.Dispatch(context.Background(), Request{Method: "GET", URL: "http://127.0.0.1:1"})
	if err == nil {
		t.Fatal("Dispatch() to unreachable host = nil error, want NETWORK_ERROR")
	}
}

func TestFunc_SatisfiesDispatcher(t *testing.T) {
	var d Dispatcher = Func(func(ctx context.Context, req Request) (Response, error) {
		return Response{Status: 204}, nil
	})
	resp, err := d.Dispatch(context.Background(), Request{Method: "GET", URL: "http://example.invalid"})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if resp.Status != 204 {
		t.Errorf("Status = %d, want 204", resp.Status)
	}
}
