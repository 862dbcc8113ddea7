package entity

import "fmt"

// ChatMessage одно сообщение диалога с ИИ.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest запрос к сервису ИИ в формате messages API.
type ChatRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	Messages  []ChatMessage `json:"messages"`
	System    string        `json:"system,omitempty"`
}

// DimensionType вид размера на чертеже
type DimensionType string

const (
	DimensionLinear   DimensionType = "linear"
	DimensionDiameter DimensionType = "diameter"
	DimensionRadius   DimensionType = "radius"
	DimensionAngular  DimensionType = "angular"
)

// Valid сообщает, входит ли значение в допустимый набор.
func (t DimensionType) Valid() bool {
	switch t {
	case DimensionLinear, DimensionDiameter, DimensionRadius, DimensionAngular:
		return true
	}
	return false
}

// View вид (проекция) чертежа
type View string

const (
	ViewFront     View = "front"
	ViewTop       View = "top"
	ViewRight     View = "right"
	ViewIsometric View = "isometric"
)

func (v View) Valid() bool {
	switch v {
	case ViewFront, ViewTop, ViewRight, ViewIsometric:
		return true
	}
	return false
}

// DimensionPosition координаты выносной линии размера на листе.
type DimensionPosition struct {
	StartX float64 `json:"startX"`
	StartY float64 `json:"startY"`
	EndX   float64 `json:"endX"`
	EndY   float64 `json:"endY"`
}

// DimensionSuggestion размер, предложенный ИИ.
type DimensionSuggestion struct {
	DimensionType  DimensionType     `json:"dimensionType"`
	Value          float64           `json:"value"`
	TolerancePlus  *float64          `json:"tolerancePlus,omitempty"`
	ToleranceMinus *float64          `json:"toleranceMinus,omitempty"`
	View           View              `json:"view"`
	Position       DimensionPosition `json:"position"`
	Label          string            `json:"label"`
	IsCritical     bool              `json:"isCritical"`
}

// TitleBlock основная надпись чертежа.
type TitleBlock struct {
	PartName   string `json:"partName"`
	PartNumber string `json:"partNumber"`
	Material   string `json:"material"`
	Scale      string `json:"scale"`
	DrawnBy    string `json:"drawnBy"`
	Date       string `json:"date"`
}

// DrawingResult ответ ИИ с предложениями по оформлению чертежа.
type DrawingResult struct {
	Success    bool                  `json:"success"`
	Error      string                `json:"error,omitempty"`
	Dimensions []DimensionSuggestion `json:"dimensions"`
	Notes      []string              `json:"notes"`
	TitleBlock *TitleBlock           `json:"titleBlock,omitempty"`
}

// Validate проверяет значения перечислений во всех размерах.
func (r *DrawingResult) Validate() error {
	for i, d := range r.Dimensions {
		if !d.DimensionType.Valid() {
			return fmt.Errorf("dimension %d: unknown type %q", i, d.DimensionType)
		}
		if !d.View.Valid() {
			return fmt.Errorf("dimension %d: unknown view %q", i, d.View)
		}
	}
	return nil
}
