package templates

import (
	"html/template"
	"net/http"
	"sync"

	"puzzletrainer/web"
)

var (
	commit = "dev"

	once sync.Once
	tmpl *template.Template
)

// SetCommit records the build revision shown in page footers.
func SetCommit(c string) {
	if c != "" {
		commit = c
	}
}

func parsed() *template.Template {
	once.Do(func() { tmpl = web.Templates() })
	return tmpl
}

func write(w http.ResponseWriter, name string, data map[string]any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	data["Commit"] = commit
	if err := parsed().ExecuteTemplate(w, name, data); err != nil {
		http.Error(w, template.HTMLEscapeString(err.Error()), http.StatusInternalServerError)
	}
}

// WriteHomeHTML serves the home page template
func WriteHomeHTML(w http.ResponseWriter, total int) {
	write(w, "home.tmpl", map[string]any{"Total": total})
}

// WriteTrainerHTML serves the trainer page for a session
func WriteTrainerHTML(w http.ResponseWriter, sessionID string) {
	write(w, "trainer.tmpl", map[string]any{"SessionID": sessionID})
}
