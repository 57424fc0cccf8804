package utils

import "sync"

// BatchBuffer queues items and hands them out in chunks of at most size.
type BatchBuffer[T any] struct {
	mu    sync.Mutex
	items []T
	size  int
}

func NewBatchBuffer[T any](size int) *BatchBuffer[T] {
	return &BatchBuffer[T]{
		items: make([]T, 0, size),
		size:  size,
	}
}

func (b *BatchBuffer[T]) Add(item T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = append(b.items, item)
}

// Take removes and returns the oldest chunk, or nil when empty.
func (b *BatchBuffer[T]) Take() []T {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.items) == 0 {
		return nil
	}
	n := min(len(b.items), b.size)
	chunk := append([]T(nil), b.items[:n]...)
	b.items = append(make([]T, 0, b.size), b.items[n:]...)
	return chunk
}

// GetAndClear drops everything still queued and returns it.
func (b *BatchBuffer[T]) GetAndClear() []T {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.items) == 0 {
		return nil
	}
	rest := b.items
	b.items = make([]T, 0, b.size)
	return rest
}

func (b *BatchBuffer[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

func (b *BatchBuffer[T]) HasData() bool {
	return b.Len() > 0
}
