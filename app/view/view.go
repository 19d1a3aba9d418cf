package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "templates/layout.html"

// Page is the data every template receives.
type Page struct {
	Title         string
	CSRFToken     string
	Authenticated bool
	Form          map[string]string
	Errors        map[string]string
	Data          interface{}
}

// Error returns the message for field, or "".
func (p Page) Error(field string) string {
	if p.Errors == nil {
		return ""
	}
	return p.Errors[field]
}

// Value returns the submitted value for field, or "".
func (p Page) Value(field string) string {
	if p.Form == nil {
		return ""
	}
	return p.Form[field]
}

type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses every page template together with the shared layout.
func NewRenderer() (*Renderer, error) {
	funcs := template.FuncMap{
		"money": FormatMoney,
		"upper": strings.ToUpper,
	}

	layout, err := fs.ReadFile(templateFS, layoutFile)
	if err != nil {
		return nil, err
	}

	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		if file == layoutFile {
			continue
		}
		name := strings.TrimSuffix(path.Base(file), ".html")
		body, err := fs.ReadFile(templateFS, file)
		if err != nil {
			return nil, err
		}

		tmpl, err := template.New(name).Funcs(funcs).Parse(string(layout))
		if err != nil {
			return nil, fmt.Errorf("parse layout: %w", err)
		}
		if _, err := tmpl.Parse(string(body)); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return &Renderer{pages: pages}, nil
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	return tmpl.ExecuteTemplate(w, "layout", data)
}

// FormatMoney renders an amount in minor units, e.g. 1000 usd -> "$10.00".
func FormatMoney(amount int64, currency string) string {
	symbol := strings.ToUpper(currency) + " "
	switch strings.ToLower(currency) {
	case "usd":
		symbol = "$"
	case "eur":
		symbol = "€"
	}
	return fmt.Sprintf("%s%d.%02d", symbol, amount/100, amount%100)
}
