package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/jhoicas/vendofy-api/pkg/money"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Nombres de plantilla, uno por tipo de notificación.
const (
	KindOrderPlaced         = "order_placed"
	KindDeliveryDateChanged = "delivery_date_changed"
	KindQuantityRequest     = "quantity_request"
)

var funcs = template.FuncMap{
	"money": money.Format,
	"date":  func(t time.Time) string { return t.Format("02/01/2006") },
	"join":  strings.Join,
}

func parseTemplates() (*template.Template, error) {
	return template.New("mail").Funcs(funcs).ParseFS(templatesFS, "templates/*.html")
}

func render(tpl *template.Template, kind string, data any) (string, error) {
	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, kind+".html", data); err != nil {
		return "", fmt.Errorf("render %s: %w", kind, err)
	}
	return buf.String(), nil
}
