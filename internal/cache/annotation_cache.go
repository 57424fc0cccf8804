package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/spacesedan/corenlp-sentiment/internal/models"
	"github.com/spacesedan/corenlp-sentiment/internal/monitoring"
)

const KEY_PREFIX = "corenlp:annotation"

type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

type Annotator interface {
	Annotate(ctx context.Context, text string) (models.CoreNLPDocument, error)
}

// CachedAnnotator remembers pipeline output per document text. The
// namespace must change whenever the pipeline configuration does, otherwise
// documents annotated with the other sentence splitting mode are served.
type CachedAnnotator struct {
	inner     Annotator
	store     Store
	namespace string
	ttl       time.Duration
}

func NewCachedAnnotator(inner Annotator, store Store, namespace string, ttl time.Duration) *CachedAnnotator {
	sum := sha256.Sum256([]byte(namespace))
	return &CachedAnnotator{
		inner:     inner,
		store:     store,
		namespace: hex.EncodeToString(sum[:8]),
		ttl:       ttl,
	}
}

func (c *CachedAnnotator) Key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return KEY_PREFIX + ":" + c.namespace + ":" + hex.EncodeToString(sum[:])
}

// Annotate serves from the store when it can. Store failures only cost the
// cache, never the annotation.
func (c *CachedAnnotator) Annotate(ctx context.Context, text string) (models.CoreNLPDocument, error) {
	key := c.Key(text)

	raw, found, err := c.store.Get(ctx, key)
	switch {
	case err != nil:
		monitoring.CacheLookupsTotal.WithLabelValues("error").Inc()
		slog.Warn("[AnnotationCache] Lookup failed",
			slog.String("key", key),
			slog.String("error", err.Error()))
	case found:
		var doc models.CoreNLPDocument
		if err := json.Unmarshal([]byte(raw), &doc); err == nil {
			monitoring.CacheLookupsTotal.WithLabelValues("hit").Inc()
			return doc, nil
		}
		monitoring.CacheLookupsTotal.WithLabelValues("corrupt").Inc()
		slog.Warn("[AnnotationCache] Discarding unreadable entry", slog.String("key", key))
	default:
		monitoring.CacheLookupsTotal.WithLabelValues("miss").Inc()
	}

	doc, err := c.inner.Annotate(ctx, text)
	if err != nil {
		return doc, err
	}

	encoded, err := json.Marshal(doc)
	if err != nil {
		return doc, nil
	}
	if err := c.store.Set(ctx, key, string(encoded), c.ttl); err != nil {
		slog.Warn("[AnnotationCache] Failed to store annotation",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}

	return doc, nil
}
