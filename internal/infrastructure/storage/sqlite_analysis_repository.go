package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"step-bot/internal/domain/entity"
	"step-bot/internal/domain/port"
)

const analysisSchema = `
CREATE TABLE IF NOT EXISTS analyses (
    id           TEXT PRIMARY KEY,
    user_id      INTEGER NOT NULL,
    filename     TEXT NOT NULL,
    content_hash TEXT NOT NULL,
    size         INTEGER NOT NULL,
    success      INTEGER NOT NULL,
    result_json  TEXT NOT NULL,
    created_at   INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_analyses_user ON analyses(user_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_analyses_hash ON analyses(content_hash);
`

// SQLiteAnalysisRepository хранит историю анализов в SQLite
type SQLiteAnalysisRepository struct {
	db *sql.DB
}

// OpenSQLiteAnalysisRepository открывает базу по пути и применяет схему.
// Путь ":memory:" даёт временную базу в памяти.
func OpenSQLiteAnalysisRepository(path string) (*SQLiteAnalysisRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// Одно соединение: база :memory: живёт только внутри него.
	db.SetMaxOpenConns(1)

	repo, err := NewSQLiteAnalysisRepository(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return repo, nil
}

// NewSQLiteAnalysisRepository создаёт хранилище поверх открытой базы
func NewSQLiteAnalysisRepository(db *sql.DB) (*SQLiteAnalysisRepository, error) {
	if _, err := db.Exec(analysisSchema); err != nil {
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLiteAnalysisRepository{db: db}, nil
}

// Close закрывает базу
func (r *SQLiteAnalysisRepository) Close() error {
	return r.db.Close()
}

// Save сохраняет запись, повторное сохранение с тем же ID заменяет её
func (r *SQLiteAnalysisRepository) Save(ctx context.Context, record *entity.AnalysisRecord) error {
	resultJSON, err := json.Marshal(record.Result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO analyses (id, user_id, filename, content_hash, size, success, result_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.UserID, record.Filename, record.ContentHash, record.Size,
		record.Result.Success, string(resultJSON), record.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}
	return nil
}

// Get возвращает запись по ID
func (r *SQLiteAnalysisRepository) Get(ctx context.Context, id string) (*entity.AnalysisRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, filename, content_hash, size, result_json, created_at
		FROM analyses WHERE id = ?`, id)
	return scanRecord(row)
}

// Last возвращает последнюю запись пользователя
func (r *SQLiteAnalysisRepository) Last(ctx context.Context, userID int64) (*entity.AnalysisRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, filename, content_hash, size, result_json, created_at
		FROM analyses WHERE user_id = ? ORDER BY created_at DESC, rowid DESC LIMIT 1`, userID)
	return scanRecord(row)
}

// List возвращает до limit последних записей пользователя
func (r *SQLiteAnalysisRepository) List(ctx context.Context, userID int64, limit int) ([]*entity.AnalysisRecord, error) {
	// В SQLite LIMIT -1 снимает ограничение, поэтому неположительный limit обрабатывается до запроса.
	if limit <= 0 {
		return []*entity.AnalysisRecord{}, nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, filename, content_hash, size, result_json, created_at
		FROM analyses WHERE user_id = ? ORDER BY created_at DESC, rowid DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	defer rows.Close()

	var out []*entity.AnalysisRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*entity.AnalysisRecord, error) {
	var (
		rec        entity.AnalysisRecord
		resultJSON string
		createdAt  int64
	)
	err := row.Scan(&rec.ID, &rec.UserID, &rec.Filename, &rec.ContentHash, &rec.Size, &resultJSON, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan analysis: %w", err)
	}
	if err := json.Unmarshal([]byte(resultJSON), &rec.Result); err != nil {
		return nil, fmt.Errorf("decode result %s: %w", rec.ID, err)
	}
	rec.CreatedAt = time.UnixMilli(createdAt)
	return &rec, nil
}

// Проверка реализации интерфейса
var _ port.AnalysisRepository = (*SQLiteAnalysisRepository)(nil)
