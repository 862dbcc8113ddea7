package step

import (
	"strings"

	"step-bot/internal/domain/entity"
)

// Classify переводит счётчики сканера в набор технологических элементов.
// Фаска определяется отдельно, простым поиском подстроки в тексте.
func Classify(content string, scan ScanResult) entity.FeatureSummary {
	return entity.FeatureSummary{
		HasFillets:            scan.HasFilletIndicator,
		HasChamfers:           strings.Contains(content, "CHAMFER") || strings.Contains(content, "chamfer"),
		HoleCount:             scan.CircleCount,
		SurfaceCount:          scan.AdvancedFaceCount,
		HasCylindricalSurface: scan.HasCylindricalSurface,
	}
}
