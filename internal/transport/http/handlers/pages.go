package http_handlers

import (
	"html/template"
	"net/http"
)

// page is a minimal browser-facing screen for email-link landings. Link uses
// the app's custom scheme, so it must be marked safe explicitly or
// html/template would neuter it.
type page struct {
	Title    string
	Heading  string
	Body     string
	Link     template.URL
	LinkText string

	// AutoRedirect fires the deep link immediately; the anchor stays as a
	// manual fallback.
	AutoRedirect bool
}

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; background: #f4f5f7; margin: 0; }
main { max-width: 28rem; margin: 15vh auto 0; background: #fff; border-radius: 8px; padding: 2.5rem 2rem; text-align: center; box-shadow: 0 1px 4px rgba(0,0,0,.12); }
h1 { font-size: 1.35rem; color: #1a2b4a; }
p { color: #4a5568; line-height: 1.5; }
a.button { display: inline-block; margin-top: 1.25rem; padding: .7rem 1.6rem; background: #1a2b4a; color: #fff; border-radius: 6px; text-decoration: none; }
</style>
</head>
<body>
<main>
<h1>{{.Heading}}</h1>
<p>{{.Body}}</p>
{{if .Link}}<a class="button" href="{{.Link}}">{{.LinkText}}</a>{{end}}
</main>
{{if .AutoRedirect}}<script>window.location.href = {{.Link}};</script>{{end}}
</body>
</html>
`))

var (
	pageDeletionDone = page{
		Title:   "Cuenta eliminada",
		Heading: "Cuenta eliminada",
		Body:    "Tu cuenta y tus datos han sido eliminados. Lamentamos verte partir.",
	}
	pageDeletionInvalid = page{
		Title:   "Enlace no válido",
		Heading: "Enlace no válido o caducado",
		Body:    "Este enlace de eliminación ya no es válido. Si aún deseas eliminar tu cuenta, solicita un nuevo enlace desde la aplicación.",
	}
)

func writePage(w http.ResponseWriter, status int, p page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = pageTmpl.Execute(w, p)
}
