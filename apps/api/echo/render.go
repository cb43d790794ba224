package echoapi

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/pkg/errors"

	"github.com/trezcool/myday/core/timetable"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(
	template.New("").Funcs(template.FuncMap{
		"css": func(s string) template.CSS { return template.CSS(cssColour(s)) },
	}).ParseFS(templateFS, "templates/*.html"),
)

// cssColour only lets through values made of colour characters (e.g. "#547384", "rgb(1,2,3)").
func cssColour(s string) string {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '#', r == '(', r == ')', r == ',', r == '.', r == ' ', r == '%':
		default:
			return ""
		}
	}
	return s
}

func renderTimetable(tt *timetable.DisplayTimetable) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "timetable", tt); err != nil {
		return "", errors.Wrap(err, "rendering timetable")
	}
	return buf.String(), nil
}
