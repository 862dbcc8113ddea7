package step

import (
	"math"

	"step-bot/internal/domain/entity"
)

// Aggregate вычисляет габариты по всем точкам. ok=false для пустого набора.
func Aggregate(points []entity.Point) (entity.BoundingBox, bool) {
	if len(points) == 0 {
		return entity.BoundingBox{}, false
	}

	minX, minY, minZ := math.Inf(1), math.Inf(1), math.Inf(1)
	maxX, maxY, maxZ := math.Inf(-1), math.Inf(-1), math.Inf(-1)
	for _, p := range points {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		minZ, maxZ = math.Min(minZ, p.Z), math.Max(maxZ, p.Z)
	}

	return entity.BoundingBox{
		MinX:   minX,
		MinY:   minY,
		MinZ:   minZ,
		MaxX:   maxX,
		MaxY:   maxY,
		MaxZ:   maxZ,
		Width:  maxX - minX,
		Height: maxY - minY,
		Depth:  maxZ - minZ,
	}, true
}
