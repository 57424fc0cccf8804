package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/spacesedan/corenlp-sentiment/config"
	"github.com/spacesedan/corenlp-sentiment/internal/models"
)

var ErrPipelineNotReady = errors.New("corenlp pipeline is not ready")

// CoreNLPClient is a handle on a Stanford CoreNLP server configured for
// sentence sentiment. The annotator properties are fixed when the client is
// built, so one client always runs the same pipeline.
type CoreNLPClient struct {
	Client     *http.Client
	baseURL    string
	username   string
	password   string
	properties string
	backoff    time.Duration
	attempts   int
}

func NewCoreNLPClient(cfg config.CoreNLPConfig, oneSentence bool) *CoreNLPClient {
	props := map[string]string{
		"annotators":   CORENLP_ANNOTATORS,
		"outputFormat": "json",
	}
	if oneSentence {
		props["ssplit.isOneSentence"] = "true"
	}
	// json.Marshal sorts map keys, which keeps Fingerprint stable
	encoded, _ := json.Marshal(props)

	slog.Info("[CoreNLPClient] Creating client",
		slog.String("url", cfg.URL),
		slog.Duration("timeout", cfg.Timeout),
		slog.Bool("one_sentence", oneSentence))

	return &CoreNLPClient{
		Client:     &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		username:   cfg.Username,
		password:   cfg.Password,
		properties: string(encoded),
		backoff:    INITIAL_BACKOFF,
		attempts:   MAX_RETRIES,
	}
}

// Fingerprint identifies the configured pipeline.
func (c *CoreNLPClient) Fingerprint() string {
	return c.properties
}

// Initialize blocks until the server reports ready and then runs one warm-up
// annotation, which makes the server load its parser and sentiment models
// before the first real batch.
func (c *CoreNLPClient) Initialize(ctx context.Context) error {
	slog.Info("[CoreNLPClient] Initializing pipeline", slog.String("url", c.baseURL))
	start := time.Now()

	backoff := c.backoff
	ready := false
	for attempt := 0; attempt < c.attempts; attempt++ {
		if c.Ready(ctx) {
			ready = true
			break
		}

		slog.Warn("[CoreNLPClient] Server not ready, waiting",
			slog.Int("attempt", attempt+1),
			slog.Duration("backoff", backoff))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > MAX_BACKOFF {
			backoff = MAX_BACKOFF
		}
	}
	if !ready {
		return fmt.Errorf("%w after %d attempts", ErrPipelineNotReady, c.attempts)
	}

	if _, err := c.Annotate(ctx, CORENLP_WARMUP); err != nil {
		return fmt.Errorf("warm-up annotation failed: %w", err)
	}

	slog.Info("[CoreNLPClient] Pipeline initialized",
		slog.Duration("elapsed", time.Since(start)))
	return nil
}

// Annotate runs the pipeline over text. Failures are returned as is; the
// caller decides what a failed document means for its batch.
func (c *CoreNLPClient) Annotate(ctx context.Context, text string) (models.CoreNLPDocument, error) {
	var doc models.CoreNLPDocument

	endpoint := c.baseURL + "/?properties=" + url.QueryEscape(c.properties)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(text))
	if err != nil {
		return doc, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	req.Header.Set("User-Agent", USER_AGENT)
	c.authorize(req)

	start := time.Now()
	resp, err := c.Client.Do(req)
	if err != nil {
		return doc, fmt.Errorf("annotation request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return doc, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		slog.Error("[CoreNLPClient] Annotation rejected",
			slog.Int("status", resp.StatusCode),
			getPreview(body))
		return doc, fmt.Errorf("corenlp returned status %d: %s", resp.StatusCode, preview(body))
	}

	if err := json.Unmarshal(body, &doc); err != nil {
		slog.Error("[CoreNLPClient] Failed to unmarshal response",
			slog.String("error", err.Error()),
			getPreview(body),
			slog.Int("raw_response_length", len(body)))
		return doc, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	slog.Debug("[CoreNLPClient] Annotation complete",
		slog.Int("sentences", len(doc.Sentences)),
		slog.Duration("elapsed", time.Since(start)))

	return doc, nil
}

func (c *CoreNLPClient) Ready(ctx context.Context) bool {
	return c.probe(ctx, "/ready")
}

func (c *CoreNLPClient) probe(ctx context.Context, path string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", USER_AGENT)
	c.authorize(req)

	resp, err := c.Client.Do(req)
	if err != nil {
		slog.Debug("[CoreNLPClient] Probe failed",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode == http.StatusOK
}

func (c *CoreNLPClient) authorize(req *http.Request) {
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}
}

func preview(respBody []byte) string {
	raw := string(bytes.TrimSpace(respBody))
	if len(raw) > 50 {
		raw = raw[:50]
	}
	return raw
}

func getPreview(respBody []byte) slog.Attr {
	return slog.String("raw_response", preview(respBody))
}
