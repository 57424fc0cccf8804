package consumers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/spacesedan/corenlp-sentiment/internal/clients/kafka_client"
	"github.com/spacesedan/corenlp-sentiment/internal/models"
	"github.com/spacesedan/corenlp-sentiment/internal/monitoring"
	"github.com/spacesedan/corenlp-sentiment/internal/sentiment"
)

const (
	MAX_HANDLE_ATTEMPTS = 3
	RETRY_DELAY         = 2 * time.Second
)

// ErrRejected marks requests that can never succeed: bad JSON or lists that
// do not line up.
var ErrRejected = errors.New("batch request rejected")

type BatchProcessor interface {
	ProcessBatch(ctx context.Context, input models.Payload) (models.Payload, error)
}

type Publisher interface {
	Publish(ctx context.Context, topic string, key string, value []byte) error
}

type RowStore interface {
	StorePayload(ctx context.Context, out models.Payload) error
}

// BatchRequestHandler turns one request message into one published result.
type BatchRequestHandler struct {
	processor   BatchProcessor
	publisher   Publisher
	store       RowStore
	resultTopic string
}

// NewBatchRequestHandler builds a handler; store may be nil.
func NewBatchRequestHandler(processor BatchProcessor, publisher Publisher, store RowStore, resultTopic string) *BatchRequestHandler {
	return &BatchRequestHandler{
		processor:   processor,
		publisher:   publisher,
		store:       store,
		resultTopic: resultTopic,
	}
}

// Handle decodes, processes and publishes one request.
func (h *BatchRequestHandler) Handle(ctx context.Context, value []byte) error {
	var input models.Payload
	if err := json.Unmarshal(value, &input); err != nil {
		monitoring.MessagesTotal.WithLabelValues("rejected").Inc()
		return fmt.Errorf("%w: %v", ErrRejected, err)
	}

	out, err := h.processor.ProcessBatch(ctx, input)
	if errors.Is(err, sentiment.ErrMisalignedPayload) {
		monitoring.MessagesTotal.WithLabelValues("rejected").Inc()
		return fmt.Errorf("%w: file %s: %v", ErrRejected, input.FileID, err)
	}
	if err != nil {
		monitoring.MessagesTotal.WithLabelValues("failed").Inc()
		return fmt.Errorf("[BatchRequestConsumer] failed to process file %s: %w", input.FileID, err)
	}

	if h.store != nil {
		if err := h.store.StorePayload(ctx, out); err != nil {
			monitoring.MessagesTotal.WithLabelValues("failed").Inc()
			return fmt.Errorf("[BatchRequestConsumer] failed to store rows for file %s: %w", out.FileID, err)
		}
	}

	data, err := json.Marshal(out)
	if err != nil {
		monitoring.MessagesTotal.WithLabelValues("failed").Inc()
		return fmt.Errorf("[BatchRequestConsumer] failed to encode result for file %s: %w", out.FileID, err)
	}

	if err := h.publisher.Publish(ctx, h.resultTopic, out.FileID, data); err != nil {
		monitoring.MessagesTotal.WithLabelValues("failed").Inc()
		return err
	}

	monitoring.MessagesTotal.WithLabelValues("processed").Inc()
	return nil
}

// HandleWithRetry retries transient failures. Rejected requests are not
// retried.
func (h *BatchRequestHandler) HandleWithRetry(ctx context.Context, value []byte, delay time.Duration) error {
	var err error
	for attempt := 1; attempt <= MAX_HANDLE_ATTEMPTS; attempt++ {
		err = h.Handle(ctx, value)
		if err == nil || errors.Is(err, ErrRejected) || ctx.Err() != nil {
			return err
		}
		if attempt == MAX_HANDLE_ATTEMPTS {
			break
		}
		slog.Warn("[BatchRequestConsumer] Handling failed, retrying...",
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return err
}

// StartBatchRequestConsumer reads requests until ctx is done. The offset is
// committed once the request has been published, rejected, or has used up
// its attempts.
func StartBatchRequestConsumer(ctx context.Context, consumer *kafka.Consumer, handler *BatchRequestHandler, healthy *atomic.Bool) {
	iterator := kafka_client.NewKafkaMessageIterator(ctx, consumer)
	committer := kafka_client.NewCommitHandler(ctx, consumer)

	for {
		select {
		case <-ctx.Done():
			slog.Warn("[BatchRequestConsumer] Consumer shutting down...")
			return
		default:
		}

		if !WaitHealthy(ctx, HEALTH_WAIT, healthy) {
			return
		}

		msg, err := iterator.Next()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.Error("[BatchRequestConsumer] Failed to read message",
				slog.String("error", err.Error()))
			continue
		}

		offset := slog.String("offset", msg.TopicPartition.Offset.String())
		if err := handler.HandleWithRetry(ctx, msg.Value, RETRY_DELAY); err != nil {
			if ctx.Err() != nil {
				return
			}
			if errors.Is(err, ErrRejected) {
				slog.Error("[BatchRequestConsumer] Skipping rejected message", offset,
					slog.String("error", err.Error()))
			} else {
				slog.Error("[BatchRequestConsumer] Dropping message after retries", offset,
					slog.String("error", err.Error()))
			}
		}

		if err := committer.Commit(msg); err != nil {
			slog.Error("[BatchRequestConsumer] Failed to commit offset",
				slog.String("error", err.Error()))
		}
	}
}
