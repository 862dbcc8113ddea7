package entity

import (
	"encoding/json"
	"errors"
	"time"
)

// NoGeometryMessage текст ошибки, когда в файле не найдено ни одной точки.
const NoGeometryMessage = "No geometry data found in STEP file"

// ErrNoGeometryFound единственная доменная ошибка анализа.
var ErrNoGeometryFound = errors.New(NoGeometryMessage)

// Point координата CARTESIAN_POINT в единицах файла.
type Point struct {
	X, Y, Z float64
}

// BoundingBox описывает габаритный параллелепипед детали.
type BoundingBox struct {
	MinX   float64 `json:"minX"`
	MinY   float64 `json:"minY"`
	MinZ   float64 `json:"minZ"`
	MaxX   float64 `json:"maxX"`
	MaxY   float64 `json:"maxY"`
	MaxZ   float64 `json:"maxZ"`
	Width  float64 `json:"width"`  // MaxX - MinX
	Height float64 `json:"height"` // MaxY - MinY
	Depth  float64 `json:"depth"`  // MaxZ - MinZ
}

// Contains проверяет, что точка лежит внутри габаритов (границы включительно).
func (b BoundingBox) Contains(p Point) bool {
	return p.X >= b.MinX && p.X <= b.MaxX &&
		p.Y >= b.MinY && p.Y <= b.MaxY &&
		p.Z >= b.MinZ && p.Z <= b.MaxZ
}

// FeatureSummary найденные технологические элементы детали.
type FeatureSummary struct {
	HasFillets   bool `json:"hasFillets"`   // эвристика EDGE_CURVE/CIRCLE или B_SPLINE_CURVE
	HasChamfers  bool `json:"hasChamfers"`  // в тексте есть CHAMFER или chamfer
	HoleCount    int  `json:"holeCount"`    // число CIRCLE(
	SurfaceCount int  `json:"surfaceCount"` // число ADVANCED_FACE(

	// HasCylindricalSurface промежуточный флаг сканера: в файле есть CYLINDRICAL_SURFACE(.
	HasCylindricalSurface bool `json:"cylindricalSurface"`
}

// HasHoles вычисляется из числа окружностей и наличия цилиндрической поверхности.
func (f FeatureSummary) HasHoles() bool {
	return f.HoleCount > 0 || f.HasCylindricalSurface
}

// MarshalJSON добавляет производное поле hasHoles.
func (f FeatureSummary) MarshalJSON() ([]byte, error) {
	type plain FeatureSummary
	return json.Marshal(struct {
		HasHoles bool `json:"hasHoles"`
		plain
	}{
		HasHoles: f.HasHoles(),
		plain:    plain(f),
	})
}

// AnalysisResult итог анализа STEP-файла.
//
// Успешный результат всегда содержит BoundingBox и Features, неуспешный содержит только Error.
type AnalysisResult struct {
	Success     bool            `json:"success"`
	Error       string          `json:"error,omitempty"`
	Filename    string          `json:"filename"`
	BoundingBox *BoundingBox    `json:"boundingBox,omitempty"`
	PartsCount  int             `json:"partsCount"`
	Features    *FeatureSummary `json:"features,omitempty"`
}

// Err возвращает ErrNoGeometryFound для неуспешного результата и nil для успешного.
func (r AnalysisResult) Err() error {
	if r.Success {
		return nil
	}
	return ErrNoGeometryFound
}

// AnalysisRecord запись истории анализов пользователя.
type AnalysisRecord struct {
	ID          string         `json:"id"`
	UserID      int64          `json:"userId"`
	Filename    string         `json:"filename"`
	ContentHash string         `json:"contentHash"` // blake2b-256, hex
	Size        int            `json:"size"`        // размер файла в байтах
	Result      AnalysisResult `json:"result"`
	CreatedAt   time.Time      `json:"createdAt"`
}
