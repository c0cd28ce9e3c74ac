package server

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"math"

	"github.com/labstack/echo/v4"

	"MarketPulse/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer executes the embedded page templates for echo.
type Renderer struct {
	templates *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	t, err := template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{templates: t}, nil
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

var templateFuncs = template.FuncMap{
	"num": func(v float64) string {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return "n/a"
		}
		return fmt.Sprintf("%.2f", v)
	},
	"signed": func(v float64) string {
		return fmt.Sprintf("%+.2f", v)
	},
	"signalClass": func(s model.Signal) string {
		switch s {
		case model.SignalStrongBuy:
			return "up"
		case model.SignalSell:
			return "down"
		default:
			return "flat"
		}
	},
	"labelClass": func(l model.SentimentLabel) string {
		switch l {
		case model.LabelBullish:
			return "up"
		case model.LabelBearish:
			return "down"
		default:
			return "flat"
		}
	},
	"changeClass": func(v float64) string {
		switch {
		case v > 0:
			return "up"
		case v < 0:
			return "down"
		default:
			return "flat"
		}
	},
}
