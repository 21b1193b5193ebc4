package tts

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"kslingo/internal/services"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) (*Client, string) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	dir := t.TempDir()
	cfg := Config{BaseURL: server.URL + "/translate_tts", UserAgent: "kslingo/test", OutputDir: dir}
	opts = append([]Option{WithSleeper(func(time.Duration) {})}, opts...)
	return NewClient(cfg, opts...), dir
}

func TestSynthesizeWritesClip(t *testing.T) {
	client, dir := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/translate_tts" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("q") != "Jó napot" || q.Get("tl") != "hu" || q.Get("client") != "tw-ob" || q.Get("ie") != "UTF-8" {
			t.Errorf("unexpected query %v", q)
		}
		if q.Get("total") != "1" || q.Get("idx") != "0" || q.Get("textlen") != "8" {
			t.Errorf("unexpected chunk params %v", q)
		}
		if r.Header.Get("User-Agent") != "kslingo/test" {
			t.Errorf("user agent = %q", r.Header.Get("User-Agent"))
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("ID3-audio"))
	})

	clip, err := client.Synthesize(context.Background(), "  Jó napot ", "hu")
	if err != nil {
		t.Fatalf("Synthesize returned error: %v", err)
	}
	if filepath.Dir(clip.Path) != dir || !strings.HasPrefix(filepath.Base(clip.Path), "hu_") {
		t.Fatalf("unexpected clip path %s", clip.Path)
	}
	data, err := os.ReadFile(clip.Path)
	if err != nil {
		t.Fatalf("read clip: %v", err)
	}
	if string(data) != "ID3-audio" {
		t.Fatalf("clip content = %q", data)
	}
}

func TestSynthesizeDistinctFiles(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("audio"))
	})
	a, err := client.Synthesize(context.Background(), "Zdravo", "sr")
	if err != nil {
		t.Fatal(err)
	}
	b, err := client.Synthesize(context.Background(), "Zdravo", "sr")
	if err != nil {
		t.Fatal(err)
	}
	if a.Path == b.Path {
		t.Fatal("expected unique clip paths per call")
	}
}

func TestSynthesizeChunksLongText(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Query().Get("total") != "2" {
			t.Errorf("total = %s", r.URL.Query().Get("total"))
		}
		_, _ = w.Write([]byte(r.URL.Query().Get("idx")))
	})
	client.cfg.MaxTextLength = 20

	clip, err := client.Synthesize(context.Background(), "Hello there. General Kenobi", "en")
	if err != nil {
		t.Fatalf("Synthesize returned error: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("calls = %d, want 2", calls.Load())
	}
	data, _ := os.ReadFile(clip.Path)
	if string(data) != "01" {
		t.Fatalf("chunks written out of order: %q", data)
	}
}

func TestSynthesizeRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("audio"))
	})

	if _, err := client.Synthesize(context.Background(), "Ciao", "it"); err != nil {
		t.Fatalf("Synthesize returned error: %v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("calls = %d, want 3", calls.Load())
	}
}

func TestSynthesizeFailureCleansUp(t *testing.T) {
	var calls atomic.Int32
	client, dir := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "unsupported language", http.StatusBadRequest)
	})

	_, err := client.Synthesize(context.Background(), "Bonjour", "xx")
	if !errors.Is(err, services.ErrSynthesis) {
		t.Fatalf("expected ErrSynthesis, got %v", err)
	}
	if !strings.Contains(err.Error(), "http 400") {
		t.Fatalf("error should carry status: %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("client errors must not be retried, calls = %d", calls.Load())
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("expected partial clip to be removed, found %d files", len(entries))
	}
}

func TestSynthesizeRejectsEmptyInput(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})
	if _, err := client.Synthesize(context.Background(), "   ", "hu"); !errors.Is(err, services.ErrSynthesis) {
		t.Fatalf("expected ErrSynthesis, got %v", err)
	}
	if _, err := client.Synthesize(context.Background(), "text", ""); !errors.Is(err, services.ErrSynthesis) {
		t.Fatalf("expected ErrSynthesis, got %v", err)
	}
}

func TestSynthesizeRejectsHTMLResponse(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>captcha</html>"))
	})
	if _, err := client.Synthesize(context.Background(), "Hallo", "en"); err == nil {
		t.Fatal("expected error for html response")
	}
}

func TestSynthesizeCanceledContext(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("audio"))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := client.Synthesize(ctx, "Hallo", "en"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestParseRetryAfter(t *testing.T) {
	if d, ok := parseRetryAfter("3"); !ok || d != 3*time.Second {
		t.Fatalf("parseRetryAfter(3) = %s %v", d, ok)
	}
	if _, ok := parseRetryAfter("-1"); ok {
		t.Fatal("negative retry-after accepted")
	}
	if _, ok := parseRetryAfter(""); ok {
		t.Fatal("empty retry-after accepted")
	}
}
