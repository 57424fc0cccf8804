package consumers

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
)

const HEALTH_WAIT = 5 * time.Second

type ConsumerWrapper struct {
	fn     func(ctx context.Context, consumer *kafka.Consumer)
	health []*atomic.Bool
}

func WrapConsumer(fn func(ctx context.Context, consumer *kafka.Consumer), health ...*atomic.Bool) ConsumerWrapper {
	return ConsumerWrapper{
		fn:     fn,
		health: health,
	}
}

func (cw ConsumerWrapper) WithHealthCheck(health *atomic.Bool) ConsumerWrapper {
	cw.health = append(cw.health, health)
	return cw
}

// Handler waits until every health flag is up before starting the wrapped
// consumer loop.
func (cw ConsumerWrapper) Handler() func(ctx context.Context, consumer *kafka.Consumer) {
	return func(ctx context.Context, consumer *kafka.Consumer) {
		if !WaitHealthy(ctx, HEALTH_WAIT, cw.health...) {
			return
		}
		cw.fn(ctx, consumer)
	}
}

// WaitHealthy blocks until all flags are true. It returns false if the
// context ends first.
func WaitHealthy(ctx context.Context, interval time.Duration, health ...*atomic.Bool) bool {
	for !allHealthy(health) {
		slog.Warn("[ConsumerWrapper] Dependencies unhealthy, waiting...")
		select {
		case <-ctx.Done():
			return false
		case <-time.After(interval):
		}
	}
	return true
}

func allHealthy(health []*atomic.Bool) bool {
	for _, h := range health {
		if h != nil && !h.Load() {
			return false
		}
	}
	return true
}
