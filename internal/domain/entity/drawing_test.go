package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDrawingResult_Validate(t *testing.T) {
	ok := &DrawingResult{Success: true, Dimensions: []DimensionSuggestion{
		{DimensionType: DimensionDiameter, Value: 8, View: ViewFront, Label: "Ø8"},
		{DimensionType: DimensionLinear, Value: 100, View: ViewTop, Label: "100"},
	}}
	require.NoError(t, ok.Validate())

	badType := &DrawingResult{Dimensions: []DimensionSuggestion{{DimensionType: "chord", View: ViewFront}}}
	require.ErrorContains(t, badType.Validate(), "unknown type")

	badView := &DrawingResult{Dimensions: []DimensionSuggestion{{DimensionType: DimensionRadius, View: "back"}}}
	require.ErrorContains(t, badView.Validate(), "unknown view")
}
