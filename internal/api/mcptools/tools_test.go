package mcptools

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	app "step-bot/internal/application"
	"step-bot/internal/domain/entity"
	"step-bot/internal/infrastructure/step"
	"step-bot/internal/infrastructure/storage"
)

var testMCPImpl = &mcp.Implementation{Name: "stepbot-test", Version: "0.1.0"}

const validStep = "#1=CARTESIAN_POINT('',(0.,0.,0.));#2=CARTESIAN_POINT('',(4.,3.,1.));#3=chamfer"

func mcpSession(t *testing.T, maxBytes int) *mcp.ClientSession {
	t.Helper()
	users := app.NewUserService(storage.NewMemoryUserRepository())
	svc := app.NewAnalysisService(users, step.NewAnalyzer(nil), storage.NewMemoryAnalysisRepository(),
		app.AnalysisOptions{MaxFileBytes: maxBytes})

	srv := mcp.NewServer(testMCPImpl, nil)
	New(svc).RegisterMCP(srv)

	serverT, clientT := mcp.NewInMemoryTransports()
	ctx := context.Background()
	go func() { _ = srv.Run(ctx, serverT) }()

	client := mcp.NewClient(testMCPImpl, nil)
	session, err := client.Connect(ctx, clientT, nil)
	require.NoError(t, err)
	t.Cleanup(func() { session.Close() })
	return session
}

func callTool(t *testing.T, session *mcp.ClientSession, name string, args any) *mcp.CallToolResult {
	t.Helper()
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	require.NoError(t, err)
	return result
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	tc, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected TextContent")
	return tc.Text
}

func TestMCP_Analyze(t *testing.T) {
	session := mcpSession(t, 0)

	result := callTool(t, session, "step_analyze", map[string]any{"content": validStep, "filename": "tiny.step"})
	require.NoError(t, result.GetError())

	var got entity.AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &got))
	require.True(t, got.Success)
	require.Equal(t, "tiny.step", got.Filename)
	require.Equal(t, 4.0, got.BoundingBox.Width)
	require.True(t, got.Features.HasChamfers)
}

func TestMCP_AnalyzeNoGeometry(t *testing.T) {
	session := mcpSession(t, 0)

	result := callTool(t, session, "step_analyze", map[string]any{"content": "ISO-10303-21;"})
	require.NoError(t, result.GetError())

	var got entity.AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &got))
	require.False(t, got.Success)
	require.Equal(t, entity.NoGeometryMessage, got.Error)
}

func TestMCP_AnalyzeFile(t *testing.T) {
	session := mcpSession(t, 128)
	dir := t.TempDir()

	path := filepath.Join(dir, "part.stp")
	require.NoError(t, os.WriteFile(path, []byte(validStep), 0o600))

	result := callTool(t, session, "step_analyze_file", map[string]any{"path": path})
	require.NoError(t, result.GetError())
	var got entity.AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &got))
	require.Equal(t, "part.stp", got.Filename)
	require.True(t, got.Success)

	big := filepath.Join(dir, "big.step")
	require.NoError(t, os.WriteFile(big, make([]byte, 129), 0o600))
	result = callTool(t, session, "step_analyze_file", map[string]any{"path": big})
	require.True(t, result.IsError)

	result = callTool(t, session, "step_analyze_file", map[string]any{"path": filepath.Join(dir, "missing.step")})
	require.True(t, result.IsError)
}

func TestMCP_AnalyzeFileRequiresStepExtension(t *testing.T) {
	session := mcpSession(t, 1<<20)
	dir := t.TempDir()

	for _, name := range []string{"notes.txt", "secret", "part.step.bak"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(validStep), 0o600))

		result := callTool(t, session, "step_analyze_file", map[string]any{"path": path})
		require.True(t, result.IsError, name)
		require.Contains(t, resultText(t, result), app.ErrUnsupportedFile.Error(), name)
	}

	upper := filepath.Join(dir, "PART.STP")
	require.NoError(t, os.WriteFile(upper, []byte(validStep), 0o600))
	result := callTool(t, session, "step_analyze_file", map[string]any{"path": upper})
	require.NoError(t, result.GetError())
}
