package telegram

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"step-bot/internal/domain/entity"
)

// escape экранирует текст для HTML-сообщения Telegram, не меняя его содержимого.
func escape(s string) string {
	return html.EscapeString(s)
}

// Ответ ИИ может содержать разметку: из него теги вырезаются целиком.
var strict = bluemonday.StrictPolicy()

func stripMarkup(s string) string {
	return strict.Sanitize(s)
}

func yesNo(v bool) string {
	if v {
		return "да"
	}
	return "нет"
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatAnalysis строит ответ на загруженный файл.
func formatAnalysis(rec *entity.AnalysisRecord) string {
	r := rec.Result
	var b strings.Builder
	fmt.Fprintf(&b, "📄 <b>%s</b>\n", escape(r.Filename))

	if !r.Success {
		fmt.Fprintf(&b, "⚠️ %s", escape(r.Error))
		return b.String()
	}

	box := r.BoundingBox
	f := r.Features
	fmt.Fprintf(&b, "\n📦 Габариты: %s × %s × %s\n", num(box.Width), num(box.Height), num(box.Depth))
	fmt.Fprintf(&b, "   min (%s; %s; %s)\n", num(box.MinX), num(box.MinY), num(box.MinZ))
	fmt.Fprintf(&b, "   max (%s; %s; %s)\n", num(box.MaxX), num(box.MaxY), num(box.MaxZ))
	fmt.Fprintf(&b, "🧩 Деталей: %d\n", r.PartsCount)
	fmt.Fprintf(&b, "🔩 Отверстия: %s (окружностей: %d)\n", yesNo(f.HasHoles()), f.HoleCount)
	fmt.Fprintf(&b, "◠ Скругления: %s\n", yesNo(f.HasFillets))
	fmt.Fprintf(&b, "◣ Фаски: %s\n", yesNo(f.HasChamfers))
	fmt.Fprintf(&b, "▦ Поверхностей: %d\n", f.SurfaceCount)
	fmt.Fprintf(&b, "\n<code>%s</code>", rec.ID)
	return b.String()
}

// formatHistory строит список последних анализов.
func formatHistory(records []*entity.AnalysisRecord) string {
	if len(records) == 0 {
		return msgNoHistory
	}

	var b strings.Builder
	b.WriteString("🗂 Последние анализы:\n")
	for i, rec := range records {
		status := "✅"
		if !rec.Result.Success {
			status = "⚠️"
		}
		fmt.Fprintf(&b, "%d. %s %s — %s\n", i+1, status, escape(rec.Filename), rec.CreatedAt.Format("02.01.2006 15:04"))
	}
	return b.String()
}

// formatDrawing строит ответ с предложениями по чертежу.
func formatDrawing(d *entity.DrawingResult) string {
	if !d.Success {
		return "⚠️ " + stripMarkup(d.Error)
	}

	var b strings.Builder
	b.WriteString("📐 <b>Размеры</b>\n")
	for _, dim := range d.Dimensions {
		critical := ""
		if dim.IsCritical {
			critical = " ❗"
		}
		fmt.Fprintf(&b, "• %s %s (%s, %s)%s\n", stripMarkup(dim.Label), num(dim.Value), dim.DimensionType, dim.View, critical)
	}
	if len(d.Notes) > 0 {
		b.WriteString("\n📝 <b>Примечания</b>\n")
		for _, note := range d.Notes {
			fmt.Fprintf(&b, "• %s\n", stripMarkup(note))
		}
	}
	if tb := d.TitleBlock; tb != nil {
		fmt.Fprintf(&b, "\n🏷 %s %s, %s, М %s", stripMarkup(tb.PartName), stripMarkup(tb.PartNumber), stripMarkup(tb.Material), stripMarkup(tb.Scale))
	}
	return b.String()
}
