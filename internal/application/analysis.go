package app

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"

	"step-bot/internal/domain/entity"
	"step-bot/internal/domain/port"
	"step-bot/internal/infrastructure/step"
	"step-bot/internal/infrastructure/storage"
)

var (
	ErrFileTooLarge           = errors.New("file is too large")
	ErrUnsupportedFile        = errors.New("file is not a STEP file")
	ErrNoAnalysis             = errors.New("no analysis found")
	ErrSuggesterNotConfigured = errors.New("drawing suggester is not configured")
)

// AnalysisService управляет анализом STEP-файлов и историей результатов.
type AnalysisService struct {
	users     *UserService
	analyzer  port.StepAnalyzer
	history   port.AnalysisRepository
	suggester port.DrawingSuggester
	maxBytes  int
	logger    *slog.Logger
	now       func() time.Time
}

// AnalysisOptions необязательные зависимости сервиса.
type AnalysisOptions struct {
	Suggester    port.DrawingSuggester // nil: предложения по чертежу недоступны
	MaxFileBytes int                   // 0: без ограничения
	Logger       *slog.Logger
}

// NewAnalysisService создаёт сервис анализа.
func NewAnalysisService(users *UserService, analyzer port.StepAnalyzer, history port.AnalysisRepository, opts AnalysisOptions) *AnalysisService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisService{
		users:     users,
		analyzer:  analyzer,
		history:   history,
		suggester: opts.Suggester,
		maxBytes:  opts.MaxFileBytes,
		logger:    logger,
		now:       time.Now,
	}
}

// CheckUpload проверяет размер и расширение до скачивания файла.
// Имя без расширения допускается: его присылают клиенты, которые не знают имени файла.
func (s *AnalysisService) CheckUpload(filename string, size int) error {
	if s.maxBytes > 0 && size > s.maxBytes {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrFileTooLarge, size, s.maxBytes)
	}
	if filepath.Ext(filename) != "" && !step.IsStepFilename(filename) {
		return fmt.Errorf("%w: %s", ErrUnsupportedFile, filename)
	}
	return nil
}

// Analyze анализирует файл и сохраняет запись в истории пользователя.
// Файл без геометрии даёт успешный вызов с Result.Success=false.
func (s *AnalysisService) Analyze(ctx context.Context, userID int64, filename string, content []byte) (*entity.AnalysisRecord, error) {
	if err := s.CheckUpload(filename, len(content)); err != nil {
		return nil, err
	}

	sum := blake2b.Sum256(content)
	record := &entity.AnalysisRecord{
		ID:          uuid.NewString(),
		UserID:      userID,
		Filename:    filename,
		ContentHash: hex.EncodeToString(sum[:]),
		Size:        len(content),
		Result:      s.analyzer.Analyze(string(content), filename),
		CreatedAt:   s.now(),
	}

	s.logger.Info("step file analysed",
		"record_id", record.ID,
		"user_id", userID,
		"filename", filename,
		"size", record.Size,
		"success", record.Result.Success,
	)

	if s.history != nil {
		if err := s.history.Save(ctx, record); err != nil {
			return nil, fmt.Errorf("save analysis: %w", err)
		}
	}
	return record, nil
}

// AcceptFile проводит пользователя через анализ: processing, затем главное меню.
func (s *AnalysisService) AcceptFile(ctx context.Context, userID, chatID int64, filename string, content []byte) (*entity.AnalysisRecord, error) {
	if _, err := s.users.SetState(ctx, userID, chatID, entity.StateProcessing); err != nil {
		return nil, err
	}

	record, err := s.Analyze(ctx, userID, filename, content)

	if _, stateErr := s.users.SetState(ctx, userID, chatID, entity.StateMainMenu); stateErr != nil {
		s.logger.Error("failed to reset user state", "user_id", userID, "error", stateErr)
	}
	return record, err
}

// Get возвращает запись истории по ID.
func (s *AnalysisService) Get(ctx context.Context, id string) (*entity.AnalysisRecord, error) {
	if s.history == nil {
		return nil, ErrNoAnalysis
	}
	record, err := s.history.Get(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNoAnalysis
	}
	return record, err
}

// History возвращает последние анализы пользователя.
func (s *AnalysisService) History(ctx context.Context, userID int64, limit int) ([]*entity.AnalysisRecord, error) {
	if s.history == nil {
		return nil, nil
	}
	return s.history.List(ctx, userID, limit)
}

// SuggestDrawing запрашивает предложения по чертежу для записи истории.
func (s *AnalysisService) SuggestDrawing(ctx context.Context, recordID string) (*entity.DrawingResult, error) {
	record, err := s.Get(ctx, recordID)
	if err != nil {
		return nil, err
	}
	return s.suggest(ctx, record)
}

// SuggestLatest запрашивает предложения по последнему анализу пользователя.
func (s *AnalysisService) SuggestLatest(ctx context.Context, userID int64) (*entity.DrawingResult, error) {
	if s.history == nil {
		return nil, ErrNoAnalysis
	}
	record, err := s.history.Last(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNoAnalysis
	}
	if err != nil {
		return nil, err
	}
	return s.suggest(ctx, record)
}

func (s *AnalysisService) suggest(ctx context.Context, record *entity.AnalysisRecord) (*entity.DrawingResult, error) {
	if s.suggester == nil {
		return nil, ErrSuggesterNotConfigured
	}
	if err := record.Result.Err(); err != nil {
		return nil, err
	}

	drawing, err := s.suggester.Suggest(ctx, record.Result)
	if err != nil {
		s.logger.Warn("drawing suggestion failed", "record_id", record.ID, "error", err)
		return nil, fmt.Errorf("suggest drawing: %w", err)
	}
	return drawing, nil
}
