package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"step-bot/internal/domain/entity"
)

var analysed = entity.AnalysisResult{
	Success:     true,
	Filename:    "bracket.step",
	BoundingBox: &entity.BoundingBox{MaxX: 40, MaxY: 25, MaxZ: 8, Width: 40, Height: 25, Depth: 8},
	PartsCount:  1,
	Features:    &entity.FeatureSummary{HoleCount: 1, SurfaceCount: 3},
}

const drawingJSON = `{"success":true,"dimensions":[{"dimensionType":"linear","value":40,"view":"front",
"position":{"startX":0,"startY":0,"endX":40,"endY":0},"label":"40","isCritical":true,"tolerancePlus":0.1}],
"notes":["Break sharp edges"],"titleBlock":{"partName":"Bracket","partNumber":"BR-1","material":"AL6061",
"scale":"1:1","drawnBy":"ai","date":"2024-05-14"}}`

func server(t *testing.T, status int, reply any, seen *entity.ChatRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/messages", r.URL.Path)
		require.Equal(t, "secret", r.Header.Get("x-api-key"))
		require.Equal(t, apiVersion, r.Header.Get("anthropic-version"))
		if seen != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(reply)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func textReply(text string) map[string]any {
	return map[string]any{"content": []map[string]any{{"type": "text", "text": text}}}
}

func TestClient_Suggest(t *testing.T) {
	var seen entity.ChatRequest
	srv := server(t, http.StatusOK, textReply("Here it is:\n```json\n"+drawingJSON+"\n```"), &seen)
	c := NewClient(Config{BaseURL: srv.URL + "/", APIKey: "secret", Model: "test-model", MaxTokens: 512}, nil)

	drawing, err := c.Suggest(context.Background(), analysed)
	require.NoError(t, err)
	require.True(t, drawing.Success)
	require.Len(t, drawing.Dimensions, 1)
	require.Equal(t, entity.DimensionLinear, drawing.Dimensions[0].DimensionType)
	require.Equal(t, 0.1, *drawing.Dimensions[0].TolerancePlus)
	require.Nil(t, drawing.Dimensions[0].ToleranceMinus)
	require.Equal(t, "Bracket", drawing.TitleBlock.PartName)
	require.Equal(t, []string{"Break sharp edges"}, drawing.Notes)

	require.Equal(t, "test-model", seen.Model)
	require.Equal(t, 512, seen.MaxTokens)
	require.NotEmpty(t, seen.System)
	require.Len(t, seen.Messages, 1)
	require.Equal(t, "user", seen.Messages[0].Role)
	require.Contains(t, seen.Messages[0].Content, `"partsCount": 1`)
	require.Contains(t, seen.Messages[0].Content, `"hasHoles": true`)
}

func TestClient_SuggestRejectsFailedAnalysis(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://unused"}, nil)
	_, err := c.Suggest(context.Background(), entity.AnalysisResult{Error: entity.NoGeometryMessage})
	require.ErrorIs(t, err, entity.ErrNoGeometryFound)
}

func TestClient_ServiceError(t *testing.T) {
	reply := map[string]any{"type": "error", "error": map[string]any{"type": "overloaded_error", "message": "busy"}}
	srv := server(t, 529, reply, nil)
	c := NewClient(Config{BaseURL: srv.URL, APIKey: "secret"}, nil)

	_, err := c.Suggest(context.Background(), analysed)
	require.ErrorContains(t, err, "overloaded_error: busy")
}

func TestClient_InvalidDrawing(t *testing.T) {
	srv := server(t, http.StatusOK, textReply(`{"success":true,"dimensions":[{"dimensionType":"arc","view":"front"}]}`), nil)
	c := NewClient(Config{BaseURL: srv.URL, APIKey: "secret"}, nil)

	_, err := c.Suggest(context.Background(), analysed)
	require.ErrorContains(t, err, "unknown type")
}

func TestParseDrawing_NoJSON(t *testing.T) {
	_, err := parseDrawing("sorry, I cannot help")
	require.Error(t, err)
}
