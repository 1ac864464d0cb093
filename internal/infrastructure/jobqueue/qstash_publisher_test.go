package jobqueue

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/riskibarqy/effort-league/internal/platform/logging"
)

func TestQStashPublisher_Enqueue(t *testing.T) {
	t.Parallel()

	var captured *http.Request
	var capturedBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Clone(context.Background())
		_ = json.NewDecoder(r.Body).Decode(&capturedBody)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"messageId":"msg-1"}`))
	}))
	defer srv.Close()

	publisher := NewQStashPublisher(QStashPublisherConfig{
		BaseURL:          srv.URL,
		Token:            "qstash-token",
		TargetBaseURL:    "https://api.effort.example",
		Retries:          3,
		InternalJobToken: "job-secret",
	}, logging.NewNop())

	err := publisher.Enqueue(context.Background(),
		"/v1/internal/jobs/league-completion-sweep",
		map[string]any{"source": "scheduler"},
		30*time.Minute,
		"league-completion-sweep-1234",
	)
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	if captured == nil {
		t.Fatalf("expected a publish request")
	}
	wantPath := "/v2/publish/https://api.effort.example/v1/internal/jobs/league-completion-sweep"
	if captured.URL.Path != wantPath {
		t.Fatalf("unexpected publish path: %s", captured.URL.Path)
	}
	if got := captured.Header.Get("Authorization"); got != "Bearer qstash-token" {
		t.Fatalf("unexpected authorization header: %s", got)
	}
	if got := captured.Header.Get("Upstash-Delay"); got != "1800s" {
		t.Fatalf("unexpected delay header: %s", got)
	}
	if got := captured.Header.Get("Upstash-Retries"); got != "3" {
		t.Fatalf("unexpected retries header: %s", got)
	}
	if got := captured.Header.Get("Upstash-Deduplication-Id"); got != "league-completion-sweep-1234" {
		t.Fatalf("unexpected deduplication header: %s", got)
	}
	if got := captured.Header.Get("Upstash-Forward-X-Internal-Job-Token"); got != "job-secret" {
		t.Fatalf("unexpected forwarded job token: %s", got)
	}
	if capturedBody["source"] != "scheduler" {
		t.Fatalf("unexpected payload: %v", capturedBody)
	}
}

func TestQStashPublisher_EnqueueRejectsBadInput(t *testing.T) {
	t.Parallel()

	publisher := NewQStashPublisher(QStashPublisherConfig{
		BaseURL:       "https://qstash.example",
		Token:         "tok",
		TargetBaseURL: "ftp://not-http",
	}, logging.NewNop())

	if err := publisher.Enqueue(context.Background(), "", nil, 0, ""); err == nil {
		t.Fatalf("expected error for empty path")
	}
	if err := publisher.Enqueue(context.Background(), "/v1/internal/jobs/x", nil, 0, ""); err == nil {
		t.Fatalf("expected error for non-http target base url")
	}
}

func TestQStashPublisher_EnqueueSurfacesUpstreamFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"quota exceeded"}`))
	}))
	defer srv.Close()

	publisher := NewQStashPublisher(QStashPublisherConfig{
		BaseURL:       srv.URL,
		Token:         "tok",
		TargetBaseURL: "https://api.effort.example",
	}, logging.NewNop())

	err := publisher.Enqueue(context.Background(), "/v1/internal/jobs/x", nil, 0, "")
	if err == nil {
		t.Fatalf("expected error for non-2xx response")
	}
}

func TestNormalizeDelay(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   time.Duration
		want string
	}{
		{in: 0, want: "0s"},
		{in: -time.Second, want: "0s"},
		{in: 90 * time.Second, want: "90s"},
		{in: time.Hour, want: "3600s"},
	}
	for _, tc := range cases {
		if got := normalizeDelay(tc.in); got != tc.want {
			t.Fatalf("normalizeDelay(%v) = %s, want %s", tc.in, got, tc.want)
		}
	}
}
