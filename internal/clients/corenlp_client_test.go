package clients

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spacesedan/corenlp-sentiment/config"
)

const sampleResponse = `{"sentences":[{"index":0,"sentimentValue":"4","sentiment":"Verypositive",
"sentimentDistribution":[0.01,0.02,0.07,0.3,0.6],
"tokens":[{"index":1,"word":"I","originalText":"I","before":"","after":" "},
{"index":2,"word":"love","originalText":"love","before":" ","after":" "},
{"index":3,"word":"this","originalText":"this","before":" ","after":""},
{"index":4,"word":".","originalText":".","before":"","after":""}]}]}`

func newTestClient(url string, oneSentence bool) *CoreNLPClient {
	c := NewCoreNLPClient(config.CoreNLPConfig{URL: url, Timeout: 5 * time.Second}, oneSentence)
	c.backoff = time.Millisecond
	c.attempts = 3
	return c
}

func TestAnnotateSendsPipelineProperties(t *testing.T) {
	tests := []struct {
		name        string
		oneSentence bool
	}{
		{"built-in splitter", false},
		{"one sentence per document", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("expected POST, got %s", r.Method)
				}
				var props map[string]string
				if err := json.Unmarshal([]byte(r.URL.Query().Get("properties")), &props); err != nil {
					t.Errorf("bad properties: %v", err)
					return
				}
				if props["annotators"] != CORENLP_ANNOTATORS {
					t.Errorf("annotators = %q", props["annotators"])
				}
				if props["outputFormat"] != "json" {
					t.Errorf("outputFormat = %q", props["outputFormat"])
				}
				_, hasSplit := props["ssplit.isOneSentence"]
				if hasSplit != tt.oneSentence {
					t.Errorf("ssplit.isOneSentence present = %v, want %v", hasSplit, tt.oneSentence)
				}
				body, _ := io.ReadAll(r.Body)
				if string(body) != "I love this." {
					t.Errorf("body = %q", body)
				}
				_, _ = w.Write([]byte(sampleResponse))
			}))
			defer srv.Close()

			doc, err := newTestClient(srv.URL, tt.oneSentence).Annotate(context.Background(), "I love this.")
			if err != nil {
				t.Fatalf("Annotate: %v", err)
			}
			if len(doc.Sentences) != 1 {
				t.Fatalf("expected 1 sentence, got %d", len(doc.Sentences))
			}
			if doc.Sentences[0].SentimentValue != "4" {
				t.Errorf("sentimentValue = %q", doc.Sentences[0].SentimentValue)
			}
			if len(doc.Sentences[0].SentimentDistribution) != 5 {
				t.Errorf("distribution = %v", doc.Sentences[0].SentimentDistribution)
			}
		})
	}
}

func TestAnnotateErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"server error", http.StatusInternalServerError, "java.lang.OutOfMemoryError", "status 500"},
		{"bad json", http.StatusOK, "not json", "unmarshal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newTestClient(srv.URL, false).Annotate(context.Background(), "text")
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
			if n := atomic.LoadInt32(&calls); n != 1 {
				t.Errorf("expected exactly one request, got %d", n)
			}
		})
	}
}

func TestInitializeWaitsForReady(t *testing.T) {
	var probes, annotations int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ready":
			if atomic.AddInt32(&probes, 1) < 2 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte("ready"))
		default:
			atomic.AddInt32(&annotations, 1)
			_, _ = w.Write([]byte(sampleResponse))
		}
	}))
	defer srv.Close()

	if err := newTestClient(srv.URL, false).Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if atomic.LoadInt32(&probes) != 2 {
		t.Errorf("expected 2 readiness probes, got %d", probes)
	}
	if atomic.LoadInt32(&annotations) != 1 {
		t.Errorf("expected 1 warm-up annotation, got %d", annotations)
	}
}

func TestInitializeGivesUp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	err := newTestClient(srv.URL, false).Initialize(context.Background())
	if !errors.Is(err, ErrPipelineNotReady) {
		t.Fatalf("expected ErrPipelineNotReady, got %v", err)
	}
}

func TestBasicAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "nlp" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte("ready"))
	}))
	defer srv.Close()

	c := NewCoreNLPClient(config.CoreNLPConfig{URL: srv.URL + "/", Timeout: time.Second, Username: "nlp", Password: "secret"}, false)
	if !c.Ready(context.Background()) {
		t.Fatal("expected authenticated probe to succeed")
	}
}

func TestFingerprintDependsOnSplitMode(t *testing.T) {
	cfg := config.CoreNLPConfig{URL: "http://localhost:9000"}
	a := NewCoreNLPClient(cfg, false).Fingerprint()
	b := NewCoreNLPClient(cfg, true).Fingerprint()
	if a == b {
		t.Fatalf("fingerprints should differ, both %q", a)
	}
	if a != NewCoreNLPClient(cfg, false).Fingerprint() {
		t.Fatal("fingerprint should be stable")
	}
}
