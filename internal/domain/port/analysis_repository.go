package port

import (
	"context"

	"step-bot/internal/domain/entity"
)

// AnalysisRepository интерфейс хранилища истории анализов
type AnalysisRepository interface {
	// Save сохраняет запись анализа
	Save(ctx context.Context, record *entity.AnalysisRecord) error

	// Get возвращает запись по ID
	Get(ctx context.Context, id string) (*entity.AnalysisRecord, error)

	// Last возвращает последнюю запись пользователя
	Last(ctx context.Context, userID int64) (*entity.AnalysisRecord, error)

	// List возвращает последние записи пользователя, новые первыми
	List(ctx context.Context, userID int64, limit int) ([]*entity.AnalysisRecord, error)
}
