package catalog

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/mytheresa/catalog-admin/models"
)

//go:embed templates/*.html
var templateFiles embed.FS

type page struct {
	Title    string
	Form     template.HTML
	Product  *models.Product
	Products []models.Product
}

type views map[string]*template.Template

func parseViews() views {
	v := views{}
	for _, name := range []string{"index", "create", "update", "delete"} {
		v[name] = template.Must(template.ParseFS(templateFiles, "templates/layout.html", "templates/"+name+".html"))
	}
	return v
}

// render executes the page into a buffer first so a template failure never
// leaves a half-written response.
func (v views) render(w http.ResponseWriter, name string, data page) error {
	tmpl, ok := v[name]
	if !ok {
		return fmt.Errorf("unknown view %q", name)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("rendering %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err := buf.WriteTo(w)
	return err
}
