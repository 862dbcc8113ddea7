package step

import (
	"regexp"
	"strconv"

	"step-bot/internal/domain/entity"
)

// Шаблоны ключевых слов STEP. Это текстовая эвристика, а не разбор схемы EXPRESS:
// совпадения ищутся по всему файлу независимо от того, к какой сущности они относятся.
var (
	cartesianPointRe = regexp.MustCompile(
		`CARTESIAN_POINT\s*\(\s*'[^']*'\s*,\s*\(\s*([-+\d.Ee]+)\s*,\s*([-+\d.Ee]+)\s*,\s*([-+\d.Ee]+)\s*\)`)
	circleRe       = regexp.MustCompile(`CIRCLE\s*\(`)
	cylindricalRe  = regexp.MustCompile(`CYLINDRICAL_SURFACE\s*\(`)
	advancedFaceRe = regexp.MustCompile(`ADVANCED_FACE\s*\(`)
	productRe      = regexp.MustCompile(`PRODUCT\s*\(`)

	// EDGE_CURVE и CIRCLE в одной строке либо любой B_SPLINE_CURVE.
	// Совпадение не ограничено одной сущностью, поэтому возможны ложные срабатывания.
	filletRe = regexp.MustCompile(`EDGE_CURVE.*CIRCLE|B_SPLINE_CURVE`)
)

// ScanResult сырые данные сканера до классификации.
type ScanResult struct {
	Points                []entity.Point // координаты в порядке появления в файле
	CircleCount           int
	HasCylindricalSurface bool
	HasFilletIndicator    bool
	AdvancedFaceCount     int
	ProductCount          int // число PRODUCT( как есть, может быть 0
}

// PartsCount число деталей: файл без PRODUCT считается одной неявной деталью.
func (s ScanResult) PartsCount() int {
	return max(s.ProductCount, 1)
}

// Scanner находит примитивы STEP в тексте файла.
type Scanner interface {
	Scan(content string) ScanResult
}

// HeuristicScanner ищет ключевые слова STEP регулярными выражениями.
// Он не падает на битых записях: тройка с нечисловым полем просто пропускается.
type HeuristicScanner struct{}

// Scan проходит по тексту и собирает точки и счётчики сущностей.
func (HeuristicScanner) Scan(content string) ScanResult {
	matches := cartesianPointRe.FindAllStringSubmatch(content, -1)
	points := make([]entity.Point, 0, len(matches))
	for _, m := range matches {
		if p, ok := parseTriple(m[1], m[2], m[3]); ok {
			points = append(points, p)
		}
	}

	return ScanResult{
		Points:                points,
		CircleCount:           len(circleRe.FindAllStringIndex(content, -1)),
		HasCylindricalSurface: cylindricalRe.MatchString(content),
		HasFilletIndicator:    filletRe.MatchString(content),
		AdvancedFaceCount:     len(advancedFaceRe.FindAllStringIndex(content, -1)),
		ProductCount:          len(productRe.FindAllStringIndex(content, -1)),
	}
}

// parseTriple разбирает три поля координаты. ok=false, если хотя бы одно не число.
func parseTriple(xs, ys, zs string) (entity.Point, bool) {
	x, okX := parseCoord(xs)
	y, okY := parseCoord(ys)
	z, okZ := parseCoord(zs)
	if !okX || !okY || !okZ {
		return entity.Point{}, false
	}
	return entity.Point{X: x, Y: y, Z: z}, true
}

// parseCoord отбрасывает и нечисловые значения, и выходящие за диапазон float64.
// Точку с 1E400 пропускаем намеренно: ±Inf в габаритах дал бы Inf/NaN в ширине.
func parseCoord(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
