package integrations

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/matzehuels/recipegen/pkg/observability"
)

func TestNewClient(t *testing.T) {
	headers := map[string]string{"User-Agent": "recipegen/test"}
	client := NewClient(nil, headers)

	if client == nil {
		t.Fatal("NewClient() returned nil")
	}
	if client.http == nil {
		t.Error("NewClient() http client is nil")
	}
	if client.http.Timeout != 0 {
		t.Errorf("default timeout = %v, want transport default (0)", client.http.Timeout)
	}
	if client.headers["User-Agent"] != "recipegen/test" {
		t.Error("NewClient() headers not set correctly")
	}
}

func TestClientGetText(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte("package:\n  name: foo\n"))
	}))
	defer server.Close()

	client := NewClient(server.Client(), map[string]string{"User-Agent": "recipegen/test"})

	text, err := client.GetText(context.Background(), server.URL+"/meta.yaml")
	if err != nil {
		t.Fatalf("GetText() error: %v", err)
	}
	if text != "package:\n  name: foo\n" {
		t.Errorf("GetText() = %q", text)
	}
	if gotUA != "recipegen/test" {
		t.Errorf("User-Agent = %q, want %q", gotUA, "recipegen/test")
	}
}

func TestClientGetText_Status(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"not found", http.StatusNotFound, ErrNotFound},
		{"server error", http.StatusInternalServerError, ErrNetwork},
		{"forbidden", http.StatusForbidden, ErrNetwork},
		{"no content", http.StatusNoContent, ErrNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := NewClient(server.Client(), nil)
			_, err := client.GetText(context.Background(), server.URL)
			if !errors.Is(err, tt.want) {
				t.Errorf("GetText() error = %v, want %v", err, tt.want)
			}
			if calls != 1 {
				t.Errorf("server called %d times, want exactly 1 (no retry)", calls)
			}
		})
	}
}

func TestClientGetText_TransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewClient(nil, nil)
	_, err := client.GetText(context.Background(), url)
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("GetText() error = %v, want ErrNetwork", err)
	}
}

func TestClientGetText_Hooks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	client := NewClient(server.Client(), nil)
	if _, err := client.GetText(context.Background(), server.URL+"/x/meta.yaml"); err != nil {
		t.Fatalf("GetText() error: %v", err)
	}

	if hooks.requests != 1 || hooks.responses != 1 {
		t.Errorf("hooks saw %d requests, %d responses; want 1, 1", hooks.requests, hooks.responses)
	}
	if hooks.lastPath != "/x/meta.yaml" || hooks.lastStatus != http.StatusOK {
		t.Errorf("last response = %s %d", hooks.lastPath, hooks.lastStatus)
	}
}

func TestNormalizePkgName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Django", "django"},
		{"typing_extensions", "typing-extensions"},
		{" PyYAML ", "pyyaml"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizePkgName(tt.input); got != tt.expected {
				t.Errorf("NormalizePkgName(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

type recordingHTTPHooks struct {
	observability.NoopHTTPHooks
	requests   int
	responses  int
	lastPath   string
	lastStatus int
}

func (h *recordingHTTPHooks) OnRequest(_ context.Context, _, _, _ string) { h.requests++ }

func (h *recordingHTTPHooks) OnResponse(_ context.Context, _, _, path string, status int, _ time.Duration) {
	h.responses++
	h.lastPath = path
	h.lastStatus = status
}
