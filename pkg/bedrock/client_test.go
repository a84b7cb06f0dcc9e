package bedrock

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	apperrors "github.com/minescope/bedrockver/pkg/errors"
	"github.com/minescope/bedrockver/pkg/observability"
)

const linksDocument = `{
  "result": {
    "links": [
      {"downloadType": "serverBedrockLinux", "downloadUrl": "https://www.minecraft.net/bedrockdedicatedserver/bin-linux/bedrock-server-1.20.81.1.zip"},
      {"downloadType": "serverBedrockWindows", "downloadUrl": "https://www.minecraft.net/bedrockdedicatedserver/bin-win/bedrock-server-1.20.81.1.zip"},
      {"downloadType": "serverBedrockLinux", "downloadUrl": "https://www.minecraft.net/bedrockdedicatedserver/bin-linux/bedrock-server-1.20.73.2.zip"},
      {"downloadType": "serverBedrockPreviewLinux", "downloadUrl": "https://www.minecraft.net/bedrockdedicatedserver/bin-linux-preview/bedrock-server-1.21.0.23.zip"},
      {"downloadType": "serverBedrockPreviewWindows", "downloadUrl": "https://www.minecraft.net/bedrockdedicatedserver/bin-win-preview/bedrock-server-1.21.0.23.zip"},
      {"downloadType": "serverJar", "downloadUrl": "https://piston-data.mojang.com/v1/objects/8dd1a28015f51b1803213892b50b7b4fc76e594d/server.jar"}
    ]
  }
}`

func serveDocument(t *testing.T, doc string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, doc)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestClientLatestStable(t *testing.T) {
	server := serveDocument(t, linksDocument)
	c := NewClient(Options{Endpoint: server.URL})

	got, err := c.LatestStable(context.Background())
	if err != nil {
		t.Fatalf("LatestStable failed: %v", err)
	}
	if got != "1.20.81" {
		t.Errorf("LatestStable = %s, want 1.20.81", got)
	}
}

func TestClientLatestPreview(t *testing.T) {
	server := serveDocument(t, linksDocument)
	c := NewClient(Options{Endpoint: server.URL})

	got, err := c.LatestPreview(context.Background())
	if err != nil {
		t.Fatalf("LatestPreview failed: %v", err)
	}
	if got != "1.21.0" {
		t.Errorf("LatestPreview = %s, want 1.21.0", got)
	}
}

func TestClientAllChannels(t *testing.T) {
	server := serveDocument(t, linksDocument)
	c := NewClient(Options{Endpoint: server.URL})

	stable, err := c.AllStable(context.Background())
	if err != nil {
		t.Fatalf("AllStable failed: %v", err)
	}
	if len(stable) != 2 || stable[0].Version != "1.20.73.2" || stable[1].Version != "1.20.81.1" {
		t.Errorf("AllStable = %v, want [1.20.73.2 1.20.81.1]", stable)
	}

	preview, err := c.AllPreview(context.Background())
	if err != nil {
		t.Fatalf("AllPreview failed: %v", err)
	}
	if len(preview) != 1 || preview[0].Version != "1.21.0.23" {
		t.Errorf("AllPreview = %v, want [1.21.0.23]", preview)
	}
}

func TestClientEmptyChannel(t *testing.T) {
	previewOnly := `{
	  "result": {
	    "links": [
	      {"downloadType": "serverBedrockPreviewLinux", "downloadUrl": "https://example.com/bin-linux-preview/bedrock-server-1.21.0.23.zip"}
	    ]
	  }
	}`
	server := serveDocument(t, previewOnly)
	c := NewClient(Options{Endpoint: server.URL})

	// An empty channel is not an error for the list operation.
	stable, err := c.AllStable(context.Background())
	if err != nil {
		t.Fatalf("AllStable failed: %v", err)
	}
	if len(stable) != 0 {
		t.Errorf("AllStable = %v, want empty", stable)
	}

	// But it is for the latest operation.
	_, err = c.LatestStable(context.Background())
	if !apperrors.Is(err, apperrors.ErrCodeNotFound) {
		t.Errorf("LatestStable error = %v, want NOT_FOUND", err)
	}
	if got := apperrors.UserMessage(err); got != "no stable versions found" {
		t.Errorf("message = %q, want %q", got, "no stable versions found")
	}
}

func TestClientMissingLinks(t *testing.T) {
	// A structurally empty document yields empty channels, not an error.
	server := serveDocument(t, `{"result": {}}`)
	c := NewClient(Options{Endpoint: server.URL})

	stable, err := c.AllStable(context.Background())
	if err != nil {
		t.Fatalf("AllStable failed: %v", err)
	}
	if len(stable) != 0 {
		t.Errorf("AllStable = %v, want empty", stable)
	}
}

func TestClientRetriesUntilSuccess(t *testing.T) {
	var attempts atomic.Int32
	var mu sync.Mutex
	var requestIDs []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requestIDs = append(requestIDs, r.Header.Get("X-Request-Id"))
		mu.Unlock()

		if attempts.Add(1) < 3 {
			http.Error(w, "upstream unavailable", http.StatusBadGateway)
			return
		}
		io.WriteString(w, linksDocument)
	}))
	defer server.Close()

	cooldown := 30 * time.Millisecond
	c := NewClient(Options{Endpoint: server.URL, Retries: 2, Cooldown: cooldown})

	start := time.Now()
	got, err := c.LatestStable(context.Background())
	if err != nil {
		t.Fatalf("LatestStable failed: %v", err)
	}
	if got != "1.20.81" {
		t.Errorf("LatestStable = %s, want 1.20.81", got)
	}
	if n := attempts.Load(); n != 3 {
		t.Errorf("server saw %d attempts, want 3", n)
	}
	if elapsed := time.Since(start); elapsed < 2*cooldown {
		t.Errorf("elapsed %v, want at least two cooldowns (%v)", elapsed, 2*cooldown)
	}

	mu.Lock()
	defer mu.Unlock()
	for _, id := range requestIDs {
		if id == "" || id != requestIDs[0] {
			t.Fatalf("attempts should share one non-empty request id, got %v", requestIDs)
		}
	}
}

func TestClientRetriesNotFoundStatus(t *testing.T) {
	// Non-2xx responses are attempt failures like any other, including 404.
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			http.NotFound(w, r)
			return
		}
		io.WriteString(w, linksDocument)
	}))
	defer server.Close()

	c := NewClient(Options{Endpoint: server.URL, Retries: 1})

	if _, err := c.LatestStable(context.Background()); err != nil {
		t.Fatalf("LatestStable failed: %v", err)
	}
	if n := attempts.Load(); n != 2 {
		t.Errorf("server saw %d attempts, want 2", n)
	}
}

func TestClientTimeoutPerAttempt(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer server.Close()

	c := NewClient(Options{
		Endpoint: server.URL,
		Retries:  2,
		Cooldown: 5 * time.Millisecond,
		Timeout:  25 * time.Millisecond,
	})

	_, err := c.Fetch(context.Background())
	if err == nil {
		t.Fatal("expected error from timing out endpoint")
	}
	if !apperrors.Is(err, apperrors.ErrCodeNetwork) {
		t.Errorf("expected NETWORK_ERROR, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("cause should be the attempt deadline, got %v", err)
	}
	if n := attempts.Load(); n != 3 {
		t.Errorf("server saw %d attempts, want 3", n)
	}
}

func TestClientExhaustedReturnsNetworkError(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewClient(Options{Endpoint: server.URL, Retries: 1})

	_, err := c.AllStable(context.Background())
	if !apperrors.Is(err, apperrors.ErrCodeNetwork) {
		t.Fatalf("expected NETWORK_ERROR, got %v", err)
	}
	if n := attempts.Load(); n != 2 {
		t.Errorf("server saw %d attempts, want 2", n)
	}
}

func TestClientNegativeRetries(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
	}))
	defer server.Close()

	c := NewClient(Options{Endpoint: server.URL, Retries: -1})

	_, err := c.Fetch(context.Background())
	if !apperrors.Is(err, apperrors.ErrCodeNetwork) {
		t.Fatalf("expected NETWORK_ERROR, got %v", err)
	}
	if got := apperrors.UserMessage(err); got != "unknown fetch error" {
		t.Errorf("message = %q, want %q", got, "unknown fetch error")
	}
	if n := attempts.Load(); n != 0 {
		t.Errorf("server saw %d attempts, want 0", n)
	}
}

func TestClientCancelDuringCooldown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewClient(Options{Endpoint: server.URL, Retries: 5, Cooldown: 5 * time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := c.Fetch(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("cancellation took %v, cooldown was not interrupted", elapsed)
	}
}

func TestClientMalformedBodyRetries(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			io.WriteString(w, "<html>not json</html>")
			return
		}
		io.WriteString(w, linksDocument)
	}))
	defer server.Close()

	c := NewClient(Options{Endpoint: server.URL, Retries: 1})

	if _, err := c.LatestStable(context.Background()); err != nil {
		t.Fatalf("LatestStable failed: %v", err)
	}
	if n := attempts.Load(); n != 2 {
		t.Errorf("server saw %d attempts, want 2", n)
	}
}

func TestClientReport(t *testing.T) {
	server := serveDocument(t, linksDocument)
	c := NewClient(Options{Endpoint: server.URL})

	report, err := c.Report(context.Background(), false)
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}
	if report.Latest != "1.20.81" {
		t.Errorf("Latest = %s, want 1.20.81", report.Latest)
	}
	if report.Preview {
		t.Error("Preview = true, want false")
	}
	if len(report.List) != 2 {
		t.Errorf("List has %d records, want 2", len(report.List))
	}

	report, err = c.Report(context.Background(), true)
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}
	if report.Latest != "1.21.0" || !report.Preview || len(report.List) != 1 {
		t.Errorf("preview report = %+v", report)
	}
}

type countingFetchHooks struct {
	observability.NoopFetchHooks
	starts    atomic.Int32
	completes atomic.Int32
	finished  atomic.Int32
}

func (h *countingFetchHooks) OnAttemptStart(context.Context, int, string) { h.starts.Add(1) }
func (h *countingFetchHooks) OnAttemptComplete(context.Context, int, int, time.Duration, error) {
	h.completes.Add(1)
}
func (h *countingFetchHooks) OnFetchComplete(context.Context, int, time.Duration, error) {
	h.finished.Add(1)
}

func TestClientFetchHooks(t *testing.T) {
	hooks := &countingFetchHooks{}
	observability.SetFetchHooks(hooks)
	defer observability.Reset()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewClient(Options{Endpoint: server.URL, Retries: 1})

	if _, err := c.Fetch(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if n := hooks.starts.Load(); n != 2 {
		t.Errorf("OnAttemptStart fired %d times, want 2", n)
	}
	if n := hooks.completes.Load(); n != 2 {
		t.Errorf("OnAttemptComplete fired %d times, want 2", n)
	}
	if n := hooks.finished.Load(); n != 1 {
		t.Errorf("OnFetchComplete fired %d times, want 1", n)
	}
}
