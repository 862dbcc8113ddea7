package port

import (
	"context"

	"step-bot/internal/domain/entity"
)

// DrawingSuggester интерфейс генератора предложений по чертежу
type DrawingSuggester interface {
	// Suggest запрашивает у ИИ размеры и примечания для результата анализа
	Suggest(ctx context.Context, result entity.AnalysisResult) (*entity.DrawingResult, error)
}
