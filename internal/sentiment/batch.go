package sentiment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spacesedan/corenlp-sentiment/internal/models"
	"github.com/spacesedan/corenlp-sentiment/internal/monitoring"
	"github.com/spacesedan/corenlp-sentiment/internal/settings"
)

var ErrMisalignedPayload = errors.New("payload lists are not aligned")

type FailurePolicy int

const (
	// Degrade records the failure, emits a placeholder row for the document
	// and moves on to the next one.
	Degrade FailurePolicy = iota
	// FailFast aborts the batch on the first failed document.
	FailFast
)

func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch s {
	case "", "degrade":
		return Degrade, nil
	case "fail-fast":
		return FailFast, nil
	default:
		return Degrade, fmt.Errorf("unknown failure policy %q", s)
	}
}

type ProcessorOpt func(*Processor)

func WithFailurePolicy(p FailurePolicy) ProcessorOpt {
	return func(proc *Processor) {
		proc.policy = p
	}
}

// WithProgressCallback is called after every document with the number of
// documents done and the batch size.
func WithProgressCallback(callback func(done, total int)) ProcessorOpt {
	return func(proc *Processor) {
		proc.progress = callback
	}
}

// WithTextCleaner rewrites every non-blank document before annotation.
func WithTextCleaner(clean func(string) string) ProcessorOpt {
	return func(proc *Processor) {
		proc.clean = clean
	}
}

// Processor turns a payload of documents into sentence rows. It is not safe
// for concurrent use; documents are annotated one at a time.
type Processor struct {
	classifier *Classifier
	settings   settings.Settings
	policy     FailurePolicy
	progress   func(done, total int)
	clean      func(string) string
}

func NewProcessor(classifier *Classifier, s settings.Settings, opts ...ProcessorOpt) *Processor {
	p := &Processor{
		classifier: classifier,
		settings:   s,
		policy:     Degrade,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Processor) ProcessBatch(ctx context.Context, input models.Payload) (models.Payload, error) {
	out := models.Payload{FileID: input.FileID}

	if err := validatePayload(input); err != nil {
		monitoring.BatchesTotal.WithLabelValues("rejected").Inc()
		return out, err
	}

	trackSegmentID := len(input.SegmentID) > 0
	if !trackSegmentID {
		out.SegmentID = input.SegmentID
	}

	slog.Info("[Processor] Processing batch",
		slog.String("file_id", input.FileID),
		slog.Int("documents", len(input.StringList)),
		slog.Bool("track_segment_id", trackSegmentID))
	start := time.Now()

	emit := func(doc models.Document, row models.Row) {
		out.StringArrayList = append(out.StringArrayList, row)
		out.SegmentNumber = append(out.SegmentNumber, doc.SegmentNumber)
		if trackSegmentID {
			out.SegmentID = append(out.SegmentID, doc.SegmentID)
		}
	}

	docs := input.Documents()
	total := len(docs)
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			monitoring.BatchesTotal.WithLabelValues("canceled").Inc()
			return out, err
		}

		text := doc.Text
		if p.clean != nil && !IsBlank(text) {
			text = p.clean(text)
		}

		if IsBlank(text) {
			emit(doc, EmptyRow())
			monitoring.DocumentsTotal.WithLabelValues("blank").Inc()
			p.report(doc.Index+1, total)
			continue
		}

		docStart := time.Now()
		sentences, err := p.classifier.Classify(ctx, text)
		monitoring.AnnotationSeconds.Observe(time.Since(docStart).Seconds())
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				monitoring.BatchesTotal.WithLabelValues("canceled").Inc()
				return out, ctxErr
			}
			monitoring.DocumentsTotal.WithLabelValues("failed").Inc()

			if p.policy == FailFast {
				monitoring.BatchesTotal.WithLabelValues("failed").Inc()
				return out, fmt.Errorf("document %d (segment %d): %w", doc.Index, doc.SegmentNumber, err)
			}

			slog.Error("[Processor] Document failed, emitting placeholder row",
				slog.String("file_id", doc.FileID),
				slog.Int("index", doc.Index),
				slog.String("error", err.Error()))
			out.Errors = append(out.Errors, models.DocumentError{
				Index:         doc.Index,
				SegmentNumber: doc.SegmentNumber,
				Error:         err.Error(),
			})
			emit(doc, EmptyRow())
			p.report(doc.Index+1, total)
			continue
		}

		// CoreNLP returns no sentences for input made only of ignorable
		// characters; keep the one-row-per-document minimum.
		if len(sentences) == 0 {
			emit(doc, EmptyRow())
		}
		for _, s := range sentences {
			emit(doc, FormatSentence(s, p.settings.IncludeSentenceText))
		}
		monitoring.DocumentsTotal.WithLabelValues("classified").Inc()
		monitoring.SentencesTotal.Add(float64(len(sentences)))
		p.report(doc.Index+1, total)
	}

	monitoring.BatchesTotal.WithLabelValues("ok").Inc()
	slog.Info("[Processor] Batch complete",
		slog.String("file_id", input.FileID),
		slog.Int("rows", len(out.StringArrayList)),
		slog.Int("failed_documents", len(out.Errors)),
		slog.Duration("elapsed", time.Since(start)))

	return out, nil
}

func (p *Processor) report(done, total int) {
	if p.progress != nil {
		p.progress(done, total)
	}
}

func validatePayload(input models.Payload) error {
	if len(input.SegmentNumber) < len(input.StringList) {
		return fmt.Errorf("%w: %d documents, %d segment numbers",
			ErrMisalignedPayload, len(input.StringList), len(input.SegmentNumber))
	}
	if len(input.SegmentID) > 0 && len(input.SegmentID) < len(input.StringList) {
		return fmt.Errorf("%w: %d documents, %d segment ids",
			ErrMisalignedPayload, len(input.StringList), len(input.SegmentID))
	}
	return nil
}
