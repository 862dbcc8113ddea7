package port

import "step-bot/internal/domain/entity"

// StepAnalyzer интерфейс анализатора STEP-файлов
type StepAnalyzer interface {
	// Analyze извлекает габариты и элементы детали из текста файла.
	// Неудачный анализ возвращается как результат с Success=false, а не ошибкой.
	Analyze(content, filename string) entity.AnalysisResult
}
