package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spacesedan/corenlp-sentiment/config"
	"github.com/spacesedan/corenlp-sentiment/internal/cache"
	"github.com/spacesedan/corenlp-sentiment/internal/clients"
	"github.com/spacesedan/corenlp-sentiment/internal/sentiment"
	"github.com/spacesedan/corenlp-sentiment/internal/settings"
)

// Pipeline owns the CoreNLP handle and everything built on it. It replaces
// any process-wide pipeline: create one, pass it where it is needed and
// Close it when done.
type Pipeline struct {
	Client    *clients.CoreNLPClient
	Processor *sentiment.Processor
	valkey    *clients.ValkeyClient
}

// Build creates and initializes the pipeline for the given settings. The
// sentence splitting mode is fixed here; changing it means building a new
// Pipeline.
func Build(ctx context.Context, cfg config.AppConfig, s settings.Settings, opts ...sentiment.ProcessorOpt) (*Pipeline, error) {
	policy, err := sentiment.ParseFailurePolicy(cfg.FailurePolicy)
	if err != nil {
		return nil, err
	}

	client := NewClient(cfg.CoreNLP, s)
	if err := client.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize corenlp pipeline: %w", err)
	}

	p := &Pipeline{Client: client}

	var annotator sentiment.Annotator = client
	if cfg.Valkey.Address != "" {
		vc, err := clients.NewValkeyClient(cfg.Valkey)
		if err != nil {
			slog.Warn("[Pipeline] Annotation cache unavailable, continuing without it",
				slog.String("error", err.Error()))
		} else {
			p.valkey = vc
			annotator = cache.NewCachedAnnotator(client, vc, client.Fingerprint(), cfg.Valkey.TTL)
		}
	}

	all := []sentiment.ProcessorOpt{sentiment.WithFailurePolicy(policy)}
	if cfg.InputFormat == config.INPUT_FORMAT_MARKDOWN {
		all = append(all, sentiment.WithTextCleaner(sentiment.ConvertMarkdownToText))
	}
	all = append(all, opts...)

	p.Processor = sentiment.NewProcessor(sentiment.NewClassifier(annotator), s, all...)
	return p, nil
}

// NewClient builds an uninitialized CoreNLP handle for the settings.
func NewClient(cfg config.CoreNLPConfig, s settings.Settings) *clients.CoreNLPClient {
	return clients.NewCoreNLPClient(cfg, !s.UseBuiltInSentenceSplitter)
}

func (p *Pipeline) Close() {
	if p.valkey != nil {
		p.valkey.Close()
	}
}
