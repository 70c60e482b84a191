package handler

import (
	"net/http"
	"path/filepath"
)

// Pages serves the back-office HTML shells from a static directory.
// Access control happens in the gate before these handlers run.
type Pages struct {
	dir string
}

func NewPages(dir string) *Pages {
	return &Pages{dir: dir}
}

func (p *Pages) Login(w http.ResponseWriter, r *http.Request) {
	p.serve(w, r, "login.html")
}

// Dashboard serves the same shell for every /dashboard route.
func (p *Pages) Dashboard(w http.ResponseWriter, r *http.Request) {
	p.serve(w, r, "dashboard.html")
}

// Root is only reached by signed-in users that slipped past the gate.
func (p *Pages) Root(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/dashboard", http.StatusTemporaryRedirect)
}

// Static serves assets below /static/.
func (p *Pages) Static() http.Handler {
	return http.StripPrefix("/static/", http.FileServer(http.Dir(filepath.Join(p.dir, "assets"))))
}

func (p *Pages) serve(w http.ResponseWriter, r *http.Request, name string) {
	w.Header().Set("Cache-Control", "no-store")
	http.ServeFile(w, r, filepath.Join(p.dir, name))
}
