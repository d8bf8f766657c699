package render_test

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autoforms/autoforms/pagination"
	"github.com/autoforms/autoforms/render"
	"github.com/autoforms/autoforms/schema"
)

func newRenderer(t *testing.T) *render.Renderer {
	t.Helper()
	r, err := render.New(nil)
	require.NoError(t, err)
	return r
}

func TestListPage(t *testing.T) {
	name := validField(t, &schema.Field{Name: "name", List: true, ListHeader: "Name"})
	hue := validField(t, &schema.Field{Name: "hue", Type: schema.Color, List: true})

	table := render.NewTable([]*schema.Field{name, hue}, 30, render.EditAction, render.ArchiveAction)
	table.Add(7, map[string]interface{}{"id": int64(7), "name": "Io", "hue": "#aabbcc"})

	page := &render.ListPage{
		Page:    render.Page{Title: "Moons", User: "alice"},
		Noun:    "Moon",
		AddLink: "add",
		Table:   table,
		Paging:  pagination.Compute(30, 15, 45),
	}

	var buf bytes.Buffer
	require.NoError(t, newRenderer(t).List(&buf, page))
	html := buf.String()

	assert.Contains(t, html, "<th>Name</th>")
	assert.Contains(t, html, "<td>Io</td>")
	assert.Contains(t, html, `class="swatch"`)
	assert.Contains(t, html, `href="edit?id=7&amp;offset=30"`)
	assert.Contains(t, html, `href="archive?id=7&amp;offset=30"`)
	assert.Contains(t, html, "Add Moon")
	assert.Contains(t, html, `class="paging selected" href="list?offset=30"`)
	assert.Contains(t, html, "alice")
	assert.NotContains(t, html, "no-results")
}

func TestListPageEmpty(t *testing.T) {
	name := validField(t, &schema.Field{Name: "name", List: true})
	table := render.NewTable([]*schema.Field{name}, 0, render.EditAction, render.ArchiveAction, render.DeleteAction)
	assert.Equal(t, 4, table.Colspan())

	var buf bytes.Buffer
	require.NoError(t, newRenderer(t).List(&buf, &render.ListPage{Table: table, Paging: pagination.Compute(0, 15, 0)}))
	assert.Contains(t, buf.String(), `<td class="no-results" colspan="4">There were no records in the database.</td>`)
}

func TestPageHref(t *testing.T) {
	page := &render.ListPage{Paging: pagination.Compute(0, pagination.DefaultNumRows, 100)}
	assert.Equal(t, "list?offset=15", page.PageHref(15))

	page.Paging = pagination.Compute(0, 25, 100)
	assert.Equal(t, "list?numRows=25&offset=50", page.PageHref(50))
}

func TestFormPage(t *testing.T) {
	field := validField(t, &schema.Field{Name: "title", InputLabel: "Title:"})

	page := &render.FormPage{
		Page:   render.Page{Title: "Edit Moon", Alert: "Title must be capitalized"},
		Action: "edit",
		Hidden: []render.Hidden{{Name: "id", Value: "7"}, {Name: "offset", Value: "30"}},
		Fields: []render.FormField{{Input: render.Input(field, "io", render.Edit), Error: "Title must be capitalized"}},
		Submit: "Save",
		Cancel: "list?offset=30",
	}

	var buf bytes.Buffer
	require.NoError(t, newRenderer(t).Form(&buf, page))
	html := buf.String()

	assert.Contains(t, html, `<form class="autoform" action="edit" method="POST">`)
	assert.Contains(t, html, `<input type="hidden" name="id" value="7">`)
	assert.Contains(t, html, `value="io"`)
	assert.Contains(t, html, `<div class="field-error col-16">Title must be capitalized</div>`)
	assert.Contains(t, html, `<strong>Error!</strong>`)
	assert.Contains(t, html, `href="list?offset=30"`)
}

func TestLoginAndCreatePages(t *testing.T) {
	r := newRenderer(t)

	var buf bytes.Buffer
	require.NoError(t, r.Login(&buf, &render.LoginPage{Return: "add", Username: "<bob>"}))
	assert.Contains(t, buf.String(), `<input type="hidden" name="return" value="add">`)
	assert.Contains(t, buf.String(), `value="&lt;bob&gt;"`)

	buf.Reset()
	require.NoError(t, r.Create(&buf, &render.CreatePage{Email: "bob@example.org"}))
	assert.Contains(t, buf.String(), `name="password2"`)
	assert.Contains(t, buf.String(), `value="bob@example.org"`)
}

func TestCustomTemplates(t *testing.T) {
	override := fstest.MapFS{
		"header.html": {Data: []byte(`{{define "header"}}<h6>custom {{.Title}}</h6>{{end}}`)},
	}
	r, err := render.New(override)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Login(&buf, &render.LoginPage{Page: render.Page{Title: "Login"}}))
	assert.True(t, strings.HasPrefix(strings.TrimSpace(buf.String()), "<h6>custom Login</h6>"))

	_, err = render.New(fstest.MapFS{"broken.html": {Data: []byte(`{{define "list"}}{{.Missing`)}})
	assert.Error(t, err)
}

func TestAssets(t *testing.T) {
	for _, name := range []string{"autoforms.css", "images/edit.png", "images/archive.png", "images/delete.png"} {
		_, err := fs.Stat(render.Assets(""), name)
		assert.NoError(t, err, name)
	}

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "autoforms.css"), []byte("body{}"), 0o600))

	assets := render.Assets(dir)
	css, err := fs.ReadFile(assets, "autoforms.css")
	require.NoError(t, err)
	assert.Equal(t, "body{}", string(css))

	_, err = fs.Stat(assets, "images/edit.png")
	assert.NoError(t, err)
}
