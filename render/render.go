// Package render turns forms, records and paging state into HTML pages.
package render

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/url"
	"os"
	"strconv"

	"github.com/autoforms/autoforms/pagination"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var inputs = template.Must(template.ParseFS(templateFS, "templates/inputs.html"))

// Page names every page template defines
const (
	PageList   = "list"
	PageForm   = "form"
	PageLogin  = "login"
	PageCreate = "create"
)

// Page data shared by the header and footer
type Page struct {
	Title   string
	Heading string
	User    string
	Alert   string
}

// ListPage list view
type ListPage struct {
	Page
	Noun    string
	AddLink string
	Table   *Table
	Paging  pagination.Page
}

// PageHref list link to offset, numRows is carried when it isn't the default
func (p *ListPage) PageHref(offset int) string {
	query := url.Values{"offset": {strconv.Itoa(offset)}}
	if p.Paging.NumRows != 0 && p.Paging.NumRows != pagination.DefaultNumRows {
		query.Set("numRows", strconv.Itoa(p.Paging.NumRows))
	}
	return "list?" + query.Encode()
}

// Hidden hidden form input
type Hidden struct {
	Name  string
	Value string
}

// FormField rendered control plus its inline validation message
type FormField struct {
	Input template.HTML
	Error string
}

// FormPage add and edit forms
type FormPage struct {
	Page
	Action    string
	Multipart bool
	Hidden    []Hidden
	Fields    []FormField
	Submit    string
	Cancel    string
}

// LoginPage login form, Return is posted back as the redirect target
type LoginPage struct {
	Page
	Return   string
	Username string
}

// CreatePage account creation form
type CreatePage struct {
	Page
	Username string
	Email    string
}

// Renderer executes page templates
type Renderer struct {
	templates *template.Template
}

// New parses the embedded templates, *.html files in override replace templates of the same name
func New(override fs.FS) (*Renderer, error) {
	templates, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	if override != nil {
		matches, err := fs.Glob(override, "*.html")
		if err != nil {
			return nil, err
		}
		if len(matches) > 0 {
			if templates, err = templates.ParseFS(override, "*.html"); err != nil {
				return nil, fmt.Errorf("render: custom templates: %w", err)
			}
		}
	}

	for _, name := range []string{PageList, PageForm, PageLogin, PageCreate, "header", "footer"} {
		if templates.Lookup(name) == nil {
			return nil, fmt.Errorf("render: template %q not defined", name)
		}
	}
	return &Renderer{templates: templates}, nil
}

// Render executes the named page
func (r *Renderer) Render(w io.Writer, name string, data interface{}) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

func (r *Renderer) List(w io.Writer, page *ListPage) error {
	return r.Render(w, PageList, page)
}

func (r *Renderer) Form(w io.Writer, page *FormPage) error {
	return r.Render(w, PageForm, page)
}

func (r *Renderer) Login(w io.Writer, page *LoginPage) error {
	return r.Render(w, PageLogin, page)
}

func (r *Renderer) Create(w io.Writer, page *CreatePage) error {
	return r.Render(w, PageCreate, page)
}

// Assets stylesheet and icons, files under dir win over the embedded ones
func Assets(dir string) fs.FS {
	embedded, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	if dir == "" {
		return embedded
	}
	return overlay{primary: os.DirFS(dir), fallback: embedded}
}

type overlay struct {
	primary  fs.FS
	fallback fs.FS
}

func (o overlay) Open(name string) (fs.File, error) {
	file, err := o.primary.Open(name)
	if err == nil {
		return file, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return o.fallback.Open(name)
}
