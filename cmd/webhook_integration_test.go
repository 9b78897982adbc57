package cmd

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/jessicarod7/envsh/internal/output"
)

func TestCreate_WithWebhook(t *testing.T) {
	svc := newFakeService(t, http.StatusOK, "https://envs.sh/abc.txt", map[string]string{
		"X-Token": "tok123",
	})

	var receivedPayload output.Receipt
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST method, got %s", r.Method)
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("Failed to read body: %v", err)
		}
		if err := json.Unmarshal(body, &receivedPayload); err != nil {
			t.Errorf("Failed to unmarshal payload: %v", err)
		}

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	stdout, _, err := runCLI(t, svc.httpClient(t),
		"--json",
		"--display-secret",
		"--webhook-url", server.URL,
		"--webhook-retries", "0",
		"https://example.com/a.txt",
	)
	if err != nil {
		t.Fatalf("Command failed: %v", err)
	}

	var stdoutReceipt output.Receipt
	if err := json.Unmarshal([]byte(stdout), &stdoutReceipt); err != nil {
		t.Fatalf("Failed to parse stdout JSON: %v", err)
	}

	if !stdoutReceipt.WebhookSent {
		t.Error("Expected webhook_sent to be true")
	}

	if receivedPayload.Body != "https://envs.sh/abc.txt" {
		t.Errorf("Expected body 'https://envs.sh/abc.txt', got %s", receivedPayload.Body)
	}
	if receivedPayload.Token != "tok123" {
		t.Errorf("Expected token 'tok123', got %s", receivedPayload.Token)
	}

	// Webhook payload should not include delivery status fields
	if receivedPayload.WebhookSent {
		t.Error("Webhook payload should not include WebhookSent field")
	}
}

func TestCreate_WithWebhookAuth(t *testing.T) {
	tests := []struct {
		name           string
		authType       string
		authToken      string
		expectedHeader string
		expectedValue  string
	}{
		{
			name:           "bearer auth",
			authType:       "bearer",
			authToken:      "test-bearer-token",
			expectedHeader: "Authorization",
			expectedValue:  "Bearer test-bearer-token",
		},
		{
			name:           "api-key auth",
			authType:       "api-key",
			authToken:      "test-api-key",
			expectedHeader: "X-API-Key",
			expectedValue:  "test-api-key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newFakeService(t, http.StatusOK, "https://envs.sh/abc.txt", nil)

			var called atomic.Bool
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called.Store(true)
				value := r.Header.Get(tt.expectedHeader)
				if value != tt.expectedValue {
					t.Errorf("Expected %s header to be '%s', got '%s'",
						tt.expectedHeader, tt.expectedValue, value)
				}
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			_, _, err := runCLI(t, svc.httpClient(t),
				"--webhook-url", server.URL,
				"--webhook-auth-type", tt.authType,
				"--webhook-auth-token", tt.authToken,
				"--webhook-retries", "0",
				"https://example.com/a.txt",
			)
			if err != nil {
				t.Fatalf("Command failed: %v", err)
			}
			if !called.Load() {
				t.Error("Expected webhook to be called")
			}
		})
	}
}

func TestManage_WebhookRetry(t *testing.T) {
	svc := newFakeService(t, http.StatusOK, "ok", nil)

	var attempts int32
	var receivedPayload output.Receipt
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		count := atomic.AddInt32(&attempts, 1)
		if count <= 2 {
			// Fail first two attempts
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &receivedPayload)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	stdout, _, err := runCLI(t, svc.httpClient(t),
		"--json",
		"--webhook-url", server.URL,
		"--webhook-retries", "2",
		"--webhook-retry-delay", "10ms",
		"manage", "https://envs.sh/abc.txt", "tok123", "--delete",
	)
	if err != nil {
		t.Fatalf("Command failed: %v", err)
	}

	var result output.Receipt
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}

	if !result.WebhookSent {
		t.Error("Expected webhook to be sent after retries")
	}

	finalAttempts := atomic.LoadInt32(&attempts)
	if finalAttempts != 3 {
		t.Errorf("Expected 3 attempts (initial + 2 retries), got %d", finalAttempts)
	}

	if receivedPayload.Operation != "manage" || receivedPayload.Field != "delete" {
		t.Errorf("Unexpected payload operation/field: %s/%s", receivedPayload.Operation, receivedPayload.Field)
	}
}

func TestCreate_WebhookFailure(t *testing.T) {
	svc := newFakeService(t, http.StatusOK, "https://envs.sh/abc.txt", nil)

	// Server always returns error
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	stdout, stderr, err := runCLI(t, svc.httpClient(t),
		"--json",
		"--webhook-url", server.URL,
		"--webhook-retries", "0",
		"https://example.com/a.txt",
	)
	// Command should still succeed even if webhook fails
	if err != nil {
		t.Fatalf("Command should not fail due to webhook error: %v", err)
	}

	var result output.Receipt
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}

	if result.WebhookSent {
		t.Error("Expected webhook_sent to be false")
	}
	if result.WebhookError == "" {
		t.Error("Expected webhook_error to be set")
	}

	if !strings.Contains(stderr, "webhook delivery failed") {
		t.Errorf("Expected webhook error to be logged to stderr, got:\n%s", stderr)
	}
}

func TestCreate_InvalidWebhookConfig(t *testing.T) {
	svc := newFakeService(t, http.StatusOK, "unused", nil)

	_, _, err := runCLI(t, svc.httpClient(t),
		"--webhook-url", "http://localhost:9",
		"--webhook-auth-type", "bearer",
		"https://example.com/a.txt",
	)
	if err == nil {
		t.Fatal("Expected error for bearer auth without token, got nil")
	}
	if n := svc.requests.Load(); n != 0 {
		t.Errorf("Expected no requests, got %d", n)
	}
}
