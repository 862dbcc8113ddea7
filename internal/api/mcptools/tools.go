// Package mcptools публикует анализ STEP-файлов как инструменты MCP.
package mcptools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	app "step-bot/internal/application"
	"step-bot/internal/infrastructure/step"
)

// Пользователь, от имени которого MCP-клиент сохраняет анализы.
const mcpUser int64 = -1

// Tools регистрирует инструменты анализа на MCP-сервере
type Tools struct {
	analyses *app.AnalysisService
}

func New(analyses *app.AnalysisService) *Tools {
	return &Tools{analyses: analyses}
}

// RegisterMCP регистрирует все инструменты
func (t *Tools) RegisterMCP(srv *mcp.Server) {
	t.registerAnalyzeTool(srv)
	t.registerAnalyzeFileTool(srv)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

type analyzeReq struct {
	Content  string `json:"content"`
	Filename string `json:"filename"`
}

func (t *Tools) registerAnalyzeTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "step_analyze",
		Description: "Analyze STEP (ISO 10303-21) file content: bounding box, part count, holes, fillets, chamfers and surface count.",
		InputSchema: inputSchema(map[string]any{
			"content":  map[string]any{"type": "string", "description": "Full text of the STEP file"},
			"filename": map[string]any{"type": "string", "description": "Label echoed in the result"},
		}, []string{"content"}),
	}

	addTool(srv, tool, func(ctx context.Context, raw json.RawMessage) (any, error) {
		var r analyzeReq
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		rec, err := t.analyses.Analyze(ctx, mcpUser, r.Filename, []byte(r.Content))
		if err != nil {
			return nil, err
		}
		return rec.Result, nil
	})
}

type analyzeFileReq struct {
	Path string `json:"path"`
}

func (t *Tools) registerAnalyzeFileTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "step_analyze_file",
		Description: "Read a .step/.stp file from disk and analyze it.",
		InputSchema: inputSchema(map[string]any{
			"path": map[string]any{"type": "string", "description": "Path to the STEP file"},
		}, []string{"path"}),
	}

	addTool(srv, tool, func(ctx context.Context, raw json.RawMessage) (any, error) {
		var r analyzeFileReq
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		if r.Path == "" {
			return nil, errors.New("path is required")
		}
		// С диска читаются только файлы с расширением .step или .stp.
		if !step.IsStepFilename(r.Path) {
			return nil, fmt.Errorf("%w: %s", app.ErrUnsupportedFile, r.Path)
		}

		info, err := os.Stat(r.Path)
		if err != nil {
			return nil, err
		}
		// Проверяем размер до чтения, чтобы не загружать в память огромный файл.
		if err := t.analyses.CheckUpload(r.Path, int(info.Size())); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(r.Path)
		if err != nil {
			return nil, err
		}

		rec, err := t.analyses.Analyze(ctx, mcpUser, filepath.Base(r.Path), data)
		if err != nil {
			return nil, err
		}
		return rec.Result, nil
	})
}

// addTool оборачивает обработчик: ошибки уходят в результат инструмента, ответ отдаётся JSON-текстом.
func addTool(srv *mcp.Server, tool *mcp.Tool, handle func(context.Context, json.RawMessage) (any, error)) {
	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		resp, err := handle(ctx, req.Params.Arguments)
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(err)
			return &res, nil
		}

		data, err := json.Marshal(resp)
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(fmt.Errorf("marshal: %w", err))
			return &res, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
		}, nil
	})
}
