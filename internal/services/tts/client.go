package tts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"kslingo/internal/audioplan"
	"kslingo/internal/services"
)

const (
	defaultBaseURL        = "https://translate.google.com/translate_tts"
	defaultClientParam    = "tw-ob"
	defaultHTTPTimeout    = 30 * time.Second
	defaultMaxTextLength  = 200
	defaultRetryAttempts  = 3
	defaultRetryBaseDelay = 500 * time.Millisecond
	defaultRetryMaxDelay  = 5 * time.Second
	maxResponseBytes      = 16 << 20
)

// Config captures the endpoint settings and where clips are written.
type Config struct {
	BaseURL        string
	Client         string
	UserAgent      string
	TimeoutSeconds int
	MaxTextLength  int
	// OutputDir receives one <lang>_<uuid>.mp3 per Synthesize call.
	OutputDir string
}

// Client synthesizes speech over HTTP. It implements audioplan.Synthesizer.
type Client struct {
	cfg        Config
	httpClient *http.Client

	retryMaxAttempts int
	retryBaseDelay   time.Duration
	retryMaxDelay    time.Duration
	sleeper          func(time.Duration)
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL points the client at a different endpoint.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if strings.TrimSpace(base) != "" {
			c.cfg.BaseURL = strings.TrimSpace(base)
		}
	}
}

// WithRetryMaxAttempts overrides the default retry count (defaults to 3).
func WithRetryMaxAttempts(attempts int) Option {
	return func(c *Client) {
		c.retryMaxAttempts = attempts
	}
}

// WithSleeper overrides how retry sleeps are performed (useful for tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(c *Client) {
		c.sleeper = sleeper
	}
}

// NewClient constructs a speech client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			BaseURL:        strings.TrimSpace(cfg.BaseURL),
			Client:         strings.TrimSpace(cfg.Client),
			UserAgent:      strings.TrimSpace(cfg.UserAgent),
			TimeoutSeconds: cfg.TimeoutSeconds,
			MaxTextLength:  cfg.MaxTextLength,
			OutputDir:      cfg.OutputDir,
		},
		httpClient:       &http.Client{Timeout: timeout},
		retryMaxAttempts: defaultRetryAttempts,
		retryBaseDelay:   defaultRetryBaseDelay,
		retryMaxDelay:    defaultRetryMaxDelay,
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = defaultBaseURL
	}
	if client.cfg.Client == "" {
		client.cfg.Client = defaultClientParam
	}
	if client.cfg.MaxTextLength <= 0 {
		client.cfg.MaxTextLength = defaultMaxTextLength
	}
	if client.cfg.OutputDir == "" {
		client.cfg.OutputDir = os.TempDir()
	}
	return client
}

type httpStatusError struct {
	StatusCode int
	Body       string
	RetryAfter time.Duration
}

func (e *httpStatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("tts request: http %d: %s", e.StatusCode, body)
}

// Synthesize fetches speech for text in lang and writes it to a new file.
func (c *Client) Synthesize(ctx context.Context, text, lang string) (audioplan.Clip, error) {
	text = strings.TrimSpace(text)
	lang = strings.TrimSpace(lang)
	if text == "" {
		return audioplan.Clip{}, services.Wrap(services.ErrSynthesis, "tts", "synthesize", "empty text", nil)
	}
	if lang == "" {
		return audioplan.Clip{}, services.Wrap(services.ErrSynthesis, "tts", "synthesize", "language required", nil)
	}

	chunks := SplitText(text, c.cfg.MaxTextLength)
	if err := os.MkdirAll(c.cfg.OutputDir, 0o755); err != nil {
		return audioplan.Clip{}, fmt.Errorf("tts: create output dir: %w", err)
	}
	path := filepath.Join(c.cfg.OutputDir, fmt.Sprintf("%s_%s.mp3", lang, uuid.NewString()))
	file, err := os.Create(path)
	if err != nil {
		return audioplan.Clip{}, fmt.Errorf("tts: create clip: %w", err)
	}

	for idx, chunk := range chunks {
		audio, err := c.fetchWithRetry(ctx, chunk, lang, idx, len(chunks))
		if err == nil {
			_, err = file.Write(audio)
		}
		if err != nil {
			file.Close()
			_ = os.Remove(path)
			return audioplan.Clip{}, services.Wrap(services.ErrSynthesis, "tts", "synthesize",
				fmt.Sprintf("lang=%s chunk %d/%d", lang, idx+1, len(chunks)), err)
		}
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(path)
		return audioplan.Clip{}, fmt.Errorf("tts: close clip: %w", err)
	}
	return audioplan.Clip{Path: path}, nil
}

// HealthCheck synthesizes a single word to confirm the endpoint answers.
func (c *Client) HealthCheck(ctx context.Context, lang string) error {
	_, err := c.fetchWithRetry(ctx, "ok", lang, 0, 1)
	return err
}

func (c *Client) fetchWithRetry(ctx context.Context, text, lang string, idx, total int) ([]byte, error) {
	attempts := c.retryAttempts()
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		audio, err := c.fetchOnce(ctx, text, lang, idx, total)
		if err == nil {
			return audio, nil
		}
		delay, retry := c.retryDelay(ctx, err, attempt, attempts)
		if !retry {
			return nil, err
		}
		if err := c.sleep(ctx, delay); err != nil {
			return nil, err
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = errors.New("unknown retry failure")
	}
	return nil, fmt.Errorf("tts request: failed after %d attempts: %w", attempts, lastErr)
}

func (c *Client) fetchOnce(ctx context.Context, text, lang string, idx, total int) ([]byte, error) {
	endpoint, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("tts request: build url: %w", err)
	}
	query := endpoint.Query()
	query.Set("ie", "UTF-8")
	query.Set("q", text)
	query.Set("tl", lang)
	query.Set("client", c.cfg.Client)
	query.Set("total", strconv.Itoa(total))
	query.Set("idx", strconv.Itoa(idx))
	query.Set("textlen", strconv.Itoa(len([]rune(text))))
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("tts request: new request: %w", err)
	}
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts request: http error (timeout=%s): %w", c.httpClient.Timeout, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("tts request: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		retryAfter, _ := parseRetryAfter(resp.Header.Get("Retry-After"))
		return nil, &httpStatusError{StatusCode: resp.StatusCode, Body: string(body), RetryAfter: retryAfter}
	}
	if len(body) == 0 {
		return nil, errors.New("tts request: empty audio response")
	}
	if ct := resp.Header.Get("Content-Type"); strings.HasPrefix(ct, "text/") {
		return nil, fmt.Errorf("tts request: unexpected content type %q", ct)
	}
	return body, nil
}

func (c *Client) retryAttempts() int {
	if c.retryMaxAttempts <= 0 {
		return 1
	}
	return c.retryMaxAttempts
}

func (c *Client) retryDelay(ctx context.Context, err error, attempt, maxAttempts int) (time.Duration, bool) {
	if attempt >= maxAttempts || err == nil || ctx.Err() != nil {
		return 0, false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return 0, false
	}

	var statusErr *httpStatusError
	if errors.As(err, &statusErr) {
		switch {
		case statusErr.StatusCode == http.StatusRequestTimeout,
			statusErr.StatusCode == http.StatusTooManyRequests,
			statusErr.StatusCode >= http.StatusInternalServerError:
			if statusErr.RetryAfter > 0 {
				return c.capDelay(statusErr.RetryAfter), true
			}
			return c.backoffDelay(attempt), true
		default:
			return 0, false
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return c.backoffDelay(attempt), true
	}
	return 0, false
}

// backoffDelay doubles from the base delay: attempt 1 -> base, 2 -> 2*base.
func (c *Client) backoffDelay(attempt int) time.Duration {
	delay := c.retryBaseDelay
	if delay <= 0 {
		return 0
	}
	for i := 1; i < attempt; i++ {
		if delay > c.retryMaxDelay/2 {
			return c.capDelay(c.retryMaxDelay)
		}
		delay *= 2
	}
	return c.capDelay(delay)
}

func (c *Client) capDelay(delay time.Duration) time.Duration {
	if delay < 0 {
		return 0
	}
	if c.retryMaxDelay > 0 && delay > c.retryMaxDelay {
		return c.retryMaxDelay
	}
	return delay
}

func (c *Client) sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	if c.sleeper != nil {
		c.sleeper(delay)
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func parseRetryAfter(value string) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return 0, false
		}
		return time.Duration(seconds) * time.Second, true
	}
	if when, err := http.ParseTime(value); err == nil {
		if delay := time.Until(when); delay > 0 {
			return delay, true
		}
	}
	return 0, false
}
