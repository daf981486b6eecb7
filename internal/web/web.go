package web

import (
	"embed"
	"encoding/json"
	"html/template"
	"io/fs"
	"strings"

	"waba-admin/internal/ledger"

	"github.com/shopspring/decimal"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Templates parses every page together with the shared layout.
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(Funcs()).ParseFS(templateFS, "templates/*.tmpl"))
}

// Static serves the script and stylesheet.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

func Funcs() template.FuncMap {
	return template.FuncMap{
		"inr":      ledger.FormatINR,
		"inrFloat": func(f float64) string { return ledger.FormatINR(decimal.NewFromFloat(f)) },
		"json": func(v interface{}) (string, error) {
			raw, err := json.Marshal(v)
			return string(raw), err
		},
		"deref": func(s *string) string {
			if s == nil {
				return "-"
			}
			return *s
		},
		"title": func(s string) string {
			if s == "" {
				return s
			}
			return strings.ToUpper(s[:1]) + s[1:]
		},
		"date": func(raw string) string {
			t, ok := ledger.ParseDate(raw)
			if !ok {
				return raw
			}
			return t.Format("02 Jan 2006")
		},
	}
}
