// Package rest отдаёт анализ STEP-файлов по HTTP.
package rest

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	app "step-bot/internal/application"
	"step-bot/internal/domain/entity"
)

// Пользователь HTTP-запросов без заголовка X-User-ID.
const anonymousUser int64 = 0

// Handler HTTP-обработчики сервиса анализа
type Handler struct {
	analyses *app.AnalysisService
	maxBytes int64
	logger   *slog.Logger
}

// NewHandler создаёт обработчики. maxBytes ограничивает тело запроса.
func NewHandler(analyses *app.AnalysisService, maxBytes int, logger *slog.Logger) *Handler {
	return &Handler{analyses: analyses, maxBytes: int64(maxBytes), logger: logger}
}

// Router собирает chi-роутер со стандартными middleware.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.handleHealth)
	h.RegisterHTTP(r)
	return r
}

// RegisterHTTP регистрирует эндпоинты API на роутере
func (h *Handler) RegisterHTTP(r chi.Router) {
	r.Post("/api/v1/analyze", h.handleAnalyze)
	r.Get("/api/v1/analyses/{id}", h.handleGet)
	r.Post("/api/v1/analyses/{id}/drawing", h.handleDrawing)
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type analyzeResponse struct {
	ID          string `json:"id"`
	ContentHash string `json:"contentHash"`
	entity.AnalysisResult
}

// handleAnalyze принимает файл multipart-полем file либо сырым телом с ?filename=.
func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if h.maxBytes > 0 {
		// Запас на заголовки multipart; точный предел проверяет сервис.
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+64<<10)
	}

	filename, content, err := readUpload(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, app.ErrFileTooLarge.Error())
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rec, err := h.analyses.Analyze(r.Context(), userID(r), filename, content)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, analyzeResponse{ID: rec.ID, ContentHash: rec.ContentHash, AnalysisResult: rec.Result})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	rec, err := h.analyses.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) handleDrawing(w http.ResponseWriter, r *http.Request) {
	drawing, err := h.analyses.SuggestDrawing(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, drawing)
}

// readUpload берёт файл из multipart-поля file; любой другой тип тела читается как сам файл.
// ParseForm не вызывается для остальных типов: он съел бы тело application/x-www-form-urlencoded.
func readUpload(r *http.Request) (string, []byte, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		data, err := io.ReadAll(r.Body)
		return r.URL.Query().Get("filename"), data, err
	}

	if err := r.ParseMultipartForm(1 << 20); err != nil {
		return "", nil, err
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return "", nil, errors.New("multipart field \"file\" is required")
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	return header.Filename, data, err
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, app.ErrFileTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, app.ErrUnsupportedFile):
		writeError(w, http.StatusUnsupportedMediaType, err.Error())
	case errors.Is(err, app.ErrNoAnalysis):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, entity.ErrNoGeometryFound):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, app.ErrSuggesterNotConfigured):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		h.logger.Error("request failed", "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()), "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
