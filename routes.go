package autoforms

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/autoforms/autoforms/render"
	"github.com/autoforms/autoforms/schema"
)

// maxUploadMemory multipart bytes kept in memory, the rest spills to temp files
const maxUploadMemory = 32 << 20

type operation func(c *Context)

func (s *Server) routeAssets() {
	files := http.FileServer(http.FS(render.Assets(s.StaticDir)))
	s.router.Handle("/autoforms/autoforms.css", http.StripPrefix("/autoforms", files)).Methods(http.MethodGet, http.MethodHead)
	s.router.PathPrefix("/images/").Handler(files).Methods(http.MethodGet, http.MethodHead)
}

func (s *Server) routeForm(form *schema.Form) {
	prefix := form.Prefix()

	var router *mux.Router
	if prefix == "" {
		router = s.router.NewRoute().Subrouter()
	} else {
		router = s.router.PathPrefix(prefix).Subrouter()
	}
	router.Use(s.authenticate)

	index := func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, prefix+"/list", http.StatusFound)
	}
	router.HandleFunc("/", index).Methods(http.MethodGet)
	if prefix != "" {
		s.router.HandleFunc(prefix, index).Methods(http.MethodGet)
	}

	for name, op := range map[string]operation{
		"list":    s.list,
		"add":     s.add,
		"edit":    s.edit,
		"archive": s.archive,
		"delete":  s.delete,
		"login":   s.login,
		"create":  s.create,
		"logout":  s.logout,
	} {
		router.HandleFunc("/"+name, s.handle(form, op)).Methods(http.MethodGet, http.MethodPost)
	}
}

func (s *Server) handle(form *schema.Form, op operation) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			var err error
			if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
				err = r.ParseMultipartForm(maxUploadMemory)
			} else {
				err = r.ParseForm()
			}
			if err != nil {
				s.Logger.Warn(r.Context(), "parsing request body", err)
			}
		}

		c := s.newContext(form, w, r)
		defer func() {
			if r.MultipartForm != nil {
				_ = r.MultipartForm.RemoveAll()
			}
		}()
		op(c)
	}
}
