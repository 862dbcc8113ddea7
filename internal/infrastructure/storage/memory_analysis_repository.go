package storage

import (
	"context"
	"sync"

	"step-bot/internal/domain/entity"
	"step-bot/internal/domain/port"
)

// MemoryAnalysisRepository in-memory история анализов
type MemoryAnalysisRepository struct {
	mu      sync.RWMutex
	records map[string]*entity.AnalysisRecord
	byUser  map[int64][]string // ID записей в порядке сохранения
}

// NewMemoryAnalysisRepository создаёт новое in-memory хранилище истории
func NewMemoryAnalysisRepository() *MemoryAnalysisRepository {
	return &MemoryAnalysisRepository{
		records: make(map[string]*entity.AnalysisRecord),
		byUser:  make(map[int64][]string),
	}
}

// Save сохраняет копию записи
func (r *MemoryAnalysisRepository) Save(ctx context.Context, record *entity.AnalysisRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[record.ID]; !exists {
		r.byUser[record.UserID] = append(r.byUser[record.UserID], record.ID)
	}
	rec := *record
	r.records[record.ID] = &rec

	return nil
}

// Get возвращает запись по ID
func (r *MemoryAnalysisRepository) Get(ctx context.Context, id string) (*entity.AnalysisRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, exists := r.records[id]
	if !exists {
		return nil, ErrNotFound
	}
	out := *rec
	return &out, nil
}

// Last возвращает последнюю запись пользователя
func (r *MemoryAnalysisRepository) Last(ctx context.Context, userID int64) (*entity.AnalysisRecord, error) {
	list, err := r.List(ctx, userID, 1)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrNotFound
	}
	return list[0], nil
}

// List возвращает до limit последних записей пользователя, новые первыми
func (r *MemoryAnalysisRepository) List(ctx context.Context, userID int64, limit int) ([]*entity.AnalysisRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.byUser[userID]
	out := make([]*entity.AnalysisRecord, 0, min(len(ids), max(limit, 0)))
	for i := len(ids) - 1; i >= 0 && len(out) < limit; i-- {
		rec := *r.records[ids[i]]
		out = append(out, &rec)
	}
	return out, nil
}

// Проверка реализации интерфейса
var _ port.AnalysisRepository = (*MemoryAnalysisRepository)(nil)
