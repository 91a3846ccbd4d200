// Package web holds the printable HTML pages, embedded into the binary.
package web

import (
	"embed"
	"io/fs"
	"net/http"

	html "github.com/gofiber/template/html/v2"
)

//go:embed templates/*.html
var templates embed.FS

// Engine returns the view engine over the embedded templates.
func Engine() *html.Engine {
	sub, err := fs.Sub(templates, "templates")
	if err != nil {
		panic(err)
	}
	return html.NewFileSystem(http.FS(sub), ".html")
}
