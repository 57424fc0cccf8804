package consumers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/spacesedan/corenlp-sentiment/internal/models"
	"github.com/spacesedan/corenlp-sentiment/internal/sentiment"
)

type fakeProcessor struct {
	err   error
	calls int
}

func (f *fakeProcessor) ProcessBatch(ctx context.Context, input models.Payload) (models.Payload, error) {
	f.calls++
	if f.err != nil {
		return models.Payload{}, f.err
	}
	out := models.Payload{FileID: input.FileID}
	for i := range input.StringList {
		out.StringArrayList = append(out.StringArrayList, models.Row{"1", "Positive"})
		out.SegmentNumber = append(out.SegmentNumber, input.SegmentNumber[i])
	}
	return out, nil
}

type published struct {
	topic string
	key   string
	value []byte
}

type fakePublisher struct {
	messages []published
	failures int
}

func (f *fakePublisher) Publish(ctx context.Context, topic string, key string, value []byte) error {
	if f.failures > 0 {
		f.failures--
		return errors.New("broker unavailable")
	}
	f.messages = append(f.messages, published{topic: topic, key: key, value: value})
	return nil
}

type fakeStore struct {
	stored []models.Payload
	err    error
}

func (f *fakeStore) StorePayload(ctx context.Context, out models.Payload) error {
	if f.err != nil {
		return f.err
	}
	f.stored = append(f.stored, out)
	return nil
}

func request(t *testing.T) []byte {
	t.Helper()
	data, err := json.Marshal(models.NewPayload("file-7", []string{"good.", "bad."}, nil))
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	return data
}

func TestHandlePublishesResult(t *testing.T) {
	proc := &fakeProcessor{}
	pub := &fakePublisher{}
	store := &fakeStore{}
	h := NewBatchRequestHandler(proc, pub, store, "sentiment-results")

	if err := h.Handle(context.Background(), request(t)); err != nil {
		t.Fatalf("Handle: %v", err)
	}

	if len(pub.messages) != 1 {
		t.Fatalf("expected 1 published message, got %d", len(pub.messages))
	}
	msg := pub.messages[0]
	if msg.topic != "sentiment-results" || msg.key != "file-7" {
		t.Errorf("unexpected topic/key %q/%q", msg.topic, msg.key)
	}

	var out models.Payload
	if err := json.Unmarshal(msg.value, &out); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if len(out.StringArrayList) != 2 || out.SegmentNumber[1] != 1 {
		t.Errorf("unexpected result payload %+v", out)
	}
	if len(store.stored) != 1 {
		t.Errorf("expected rows to be stored once, got %d", len(store.stored))
	}
}

func TestHandleWithoutStore(t *testing.T) {
	pub := &fakePublisher{}
	h := NewBatchRequestHandler(&fakeProcessor{}, pub, nil, "out")
	if err := h.Handle(context.Background(), request(t)); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(pub.messages) != 1 {
		t.Errorf("expected 1 published message, got %d", len(pub.messages))
	}
}

func TestHandleRejectsUndecodable(t *testing.T) {
	proc := &fakeProcessor{}
	pub := &fakePublisher{}
	h := NewBatchRequestHandler(proc, pub, nil, "out")

	err := h.Handle(context.Background(), []byte("{not json"))
	if !errors.Is(err, ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
	if proc.calls != 0 || len(pub.messages) != 0 {
		t.Error("undecodable message should not be processed or published")
	}
}

func TestHandleRejectsMisaligned(t *testing.T) {
	proc := &fakeProcessor{err: fmt.Errorf("%w: 2 documents, 1 segment numbers", sentiment.ErrMisalignedPayload)}
	h := NewBatchRequestHandler(proc, &fakePublisher{}, nil, "out")

	if err := h.Handle(context.Background(), request(t)); !errors.Is(err, ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
}

func TestHandleStoreFailureSkipsPublish(t *testing.T) {
	pub := &fakePublisher{}
	h := NewBatchRequestHandler(&fakeProcessor{}, pub, &fakeStore{err: errors.New("throttled")}, "out")

	err := h.Handle(context.Background(), request(t))
	if err == nil || errors.Is(err, ErrRejected) {
		t.Fatalf("expected a transient error, got %v", err)
	}
	if len(pub.messages) != 0 {
		t.Error("result should not be published when storing fails")
	}
}

func TestHandleWithRetry(t *testing.T) {
	t.Run("recovers from transient failure", func(t *testing.T) {
		pub := &fakePublisher{failures: 2}
		h := NewBatchRequestHandler(&fakeProcessor{}, pub, nil, "out")
		if err := h.HandleWithRetry(context.Background(), request(t), time.Millisecond); err != nil {
			t.Fatalf("HandleWithRetry: %v", err)
		}
		if len(pub.messages) != 1 {
			t.Errorf("expected 1 published message, got %d", len(pub.messages))
		}
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		proc := &fakeProcessor{}
		pub := &fakePublisher{failures: MAX_HANDLE_ATTEMPTS + 1}
		h := NewBatchRequestHandler(proc, pub, nil, "out")
		if err := h.HandleWithRetry(context.Background(), request(t), time.Millisecond); err == nil {
			t.Fatal("expected error after retries")
		}
		if proc.calls != MAX_HANDLE_ATTEMPTS {
			t.Errorf("expected %d attempts, got %d", MAX_HANDLE_ATTEMPTS, proc.calls)
		}
	})

	t.Run("does not retry rejected", func(t *testing.T) {
		proc := &fakeProcessor{}
		h := NewBatchRequestHandler(proc, &fakePublisher{}, nil, "out")
		err := h.HandleWithRetry(context.Background(), []byte("[]"), time.Millisecond)
		if !errors.Is(err, ErrRejected) {
			t.Fatalf("expected ErrRejected, got %v", err)
		}
		if proc.calls != 0 {
			t.Errorf("expected no processing, got %d calls", proc.calls)
		}
	})
}

func TestWaitHealthy(t *testing.T) {
	var healthy atomic.Bool
	healthy.Store(true)
	if !WaitHealthy(context.Background(), time.Millisecond, &healthy, nil) {
		t.Error("expected healthy flags to pass")
	}

	healthy.Store(false)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if WaitHealthy(ctx, time.Millisecond, &healthy) {
		t.Error("expected WaitHealthy to give up when context ends")
	}

	go func() {
		time.Sleep(5 * time.Millisecond)
		healthy.Store(true)
	}()
	if !WaitHealthy(context.Background(), time.Millisecond, &healthy) {
		t.Error("expected WaitHealthy to return once the flag flips")
	}
}

func TestConsumerWrapperHealthChecks(t *testing.T) {
	t.Run("runs once healthy", func(t *testing.T) {
		var healthy atomic.Bool
		healthy.Store(true)
		ran := false
		handler := WrapConsumer(func(ctx context.Context, consumer *kafka.Consumer) {
			ran = true
		}).WithHealthCheck(&healthy).Handler()

		handler(context.Background(), nil)
		if !ran {
			t.Error("expected wrapped consumer to run")
		}
	})

	t.Run("every added check must pass", func(t *testing.T) {
		var up, down atomic.Bool
		up.Store(true)
		ran := false
		handler := WrapConsumer(func(ctx context.Context, consumer *kafka.Consumer) {
			ran = true
		}, &up).WithHealthCheck(&down).Handler()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		handler(ctx, nil)
		if ran {
			t.Error("wrapped consumer should not run while a check is failing")
		}
	})
}
