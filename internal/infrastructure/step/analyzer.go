// Package step извлекает геометрию и технологические элементы из текста STEP-файлов (ISO 10303-21).
package step

import (
	"path/filepath"
	"strings"

	"step-bot/internal/domain/entity"
	"step-bot/internal/domain/port"
)

// Analyzer собирает сканер, агрегатор и классификатор в одну операцию.
// Не хранит состояние между вызовами, безопасен для параллельного использования.
type Analyzer struct {
	scanner Scanner
}

// NewAnalyzer создаёт анализатор. nil означает HeuristicScanner.
func NewAnalyzer(scanner Scanner) *Analyzer {
	if scanner == nil {
		scanner = HeuristicScanner{}
	}
	return &Analyzer{scanner: scanner}
}

// Analyze анализирует текст файла. Имя файла возвращается в результате без изменений.
func (a *Analyzer) Analyze(content, filename string) entity.AnalysisResult {
	scan := a.scanner.Scan(content)
	return Assemble(filename, scan, Classify(content, scan))
}

// AnalyzeStepContent анализирует текст эвристическим сканером по умолчанию.
func AnalyzeStepContent(content, filename string) entity.AnalysisResult {
	return defaultAnalyzer.Analyze(content, filename)
}

var defaultAnalyzer = NewAnalyzer(nil)

// Assemble формирует итог: без единой точки анализ считается неудачным.
func Assemble(filename string, scan ScanResult, features entity.FeatureSummary) entity.AnalysisResult {
	box, ok := Aggregate(scan.Points)
	if !ok {
		return entity.AnalysisResult{
			Success:    false,
			Error:      entity.NoGeometryMessage,
			Filename:   filename,
			PartsCount: 0,
		}
	}

	return entity.AnalysisResult{
		Success:     true,
		Filename:    filename,
		BoundingBox: &box,
		PartsCount:  scan.PartsCount(),
		Features:    &features,
	}
}

// IsStepFilename проверяет расширение .step или .stp без учёта регистра.
func IsStepFilename(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".step", ".stp":
		return true
	}
	return false
}

// Проверка реализации интерфейса
var _ port.StepAnalyzer = (*Analyzer)(nil)
