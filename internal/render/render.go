// Package render собирает HTML-тело письма из шаблона.
package render

import (
	_ "embed"
	"fmt"
	"html/template"
	"os"
	"strings"

	"github.com/dimk00z/woocommerce-orders-sender/internal/model"
)

//go:embed email_template.html
var defaultTemplate string

// Renderer подставляет поля заказа в HTML-шаблон.
type Renderer struct {
	tmpl *template.Template
}

// New загружает шаблон из файла; при пустом пути используется встроенный.
func New(path string) (*Renderer, error) {
	text := defaultTemplate
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read template: %w", err)
		}
		text = string(raw)
	}
	return Parse(text)
}

// Parse разбирает текст шаблона.
func Parse(text string) (*Renderer, error) {
	tmpl, err := template.New("email").Option("missingkey=zero").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render возвращает готовое тело письма. EmailMessage вставляется как доверенный HTML.
func (r *Renderer) Render(f model.EmailFields) (string, error) {
	data := map[string]any{
		"first_name":    f.FirstName,
		"last_name":     f.LastName,
		"id":            f.ID,
		"email_message": template.HTML(f.EmailMessage),
	}

	var b strings.Builder
	if err := r.tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return b.String(), nil
}
