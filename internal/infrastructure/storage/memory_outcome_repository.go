package storage

import (
	"context"
	"sync"

	"cook-bot/internal/domain/entity"
	"cook-bot/internal/domain/port"
)

const defaultCapacity = 50

// MemoryOutcomeRepository in-memory кольцо последних результатов обработки кадров
type MemoryOutcomeRepository struct {
	mu       sync.RWMutex
	results  []*entity.FrameResult
	next     int
	size     int
	capacity int
}

// NewMemoryOutcomeRepository создаёт хранилище на capacity последних результатов
func NewMemoryOutcomeRepository(capacity int) *MemoryOutcomeRepository {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &MemoryOutcomeRepository{
		results:  make([]*entity.FrameResult, capacity),
		capacity: capacity,
	}
}

// Save сохраняет результат, вытесняя самый старый при переполнении
func (r *MemoryOutcomeRepository) Save(ctx context.Context, result *entity.FrameResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.results[r.next] = result
	r.next = (r.next + 1) % r.capacity
	if r.size < r.capacity {
		r.size++
	}

	return nil
}

// Latest возвращает последний сохранённый результат
func (r *MemoryOutcomeRepository) Latest(ctx context.Context) (*entity.FrameResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.size == 0 {
		return nil, nil
	}
	return r.results[(r.next-1+r.capacity)%r.capacity], nil
}

// List возвращает до limit последних результатов, новые первыми
func (r *MemoryOutcomeRepository) List(ctx context.Context, limit int) ([]*entity.FrameResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 || limit > r.size {
		limit = r.size
	}
	out := make([]*entity.FrameResult, 0, limit)
	for i := 1; i <= limit; i++ {
		out = append(out, r.results[(r.next-i+r.capacity)%r.capacity])
	}

	return out, nil
}

// Проверка реализации интерфейса
var _ port.OutcomeRepository = (*MemoryOutcomeRepository)(nil)
