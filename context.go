package autoforms

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/autoforms/autoforms/render"
	"github.com/autoforms/autoforms/schema"
	"github.com/autoforms/autoforms/store"
)

type userKey struct{}

// CurrentUser user authenticated for the request, nil for anonymous requests
func CurrentUser(ctx context.Context) *store.User {
	user, _ := ctx.Value(userKey{}).(*store.User)
	return user
}

// Context request state threaded through one form operation
type Context struct {
	Writer  http.ResponseWriter
	Request *http.Request
	Form    *schema.Form
	User    *store.User

	server *Server
}

func (s *Server) newContext(form *schema.Form, w http.ResponseWriter, r *http.Request) *Context {
	return &Context{
		Writer:  w,
		Request: r,
		Form:    form,
		User:    CurrentUser(r.Context()),
		server:  s,
	}
}

// Context request context
func (c *Context) Context() context.Context {
	return c.Request.Context()
}

func (c *Context) Info(msg string, data ...interface{}) {
	c.server.Logger.Info(c.Context(), msg, data...)
}

func (c *Context) Warn(msg string, data ...interface{}) {
	c.server.Logger.Warn(c.Context(), msg, data...)
}

func (c *Context) Error(msg string, data ...interface{}) {
	c.server.Logger.Error(c.Context(), msg, data...)
}

// Username name of the authenticated user, "" when anonymous
func (c *Context) Username() string {
	if c.User == nil {
		return ""
	}
	return c.User.Username
}

// Redirect redirects relative to the form path
func (c *Context) Redirect(target string) {
	http.Redirect(c.Writer, c.Request, target, http.StatusFound)
}

// Allowed reports whether the user may perform op, capability and permission both apply
func (c *Context) Allowed(op schema.Operation) bool {
	return c.check(op) == nil
}

func (c *Context) check(op schema.Operation) error {
	if !c.Form.Capable(op) {
		return ErrNotCapable
	}
	if c.User == nil {
		return ErrAuth
	}
	if !c.User.HasPermission(c.Form.Permission(op)) {
		return ErrNotAuthorized
	}
	return nil
}

// Gate redirects to list when op is disabled and to login when the user is
// anonymous or lacks the permission, it reports whether op may go on
func (c *Context) Gate(op schema.Operation) bool {
	switch err := c.check(op); err {
	case nil:
		return true
	case ErrNotCapable:
		c.Redirect(string(schema.OpList))
	case ErrNotAuthorized:
		c.Warn(fmt.Sprintf("%s is not authorized to %s %s", c.User.Username, op, c.Form.TableName))
		c.Redirect("login?return=" + string(op))
	default:
		c.Redirect("login?return=" + string(op))
	}
	return false
}

// Begin acquires a store handle, Done must follow on every path
func (c *Context) Begin() (store.Handle, error) {
	return c.server.Store.Begin(c.Context())
}

// Done releases h
func (c *Context) Done(h store.Handle) {
	if err := h.Close(); err != nil {
		c.Error("closing store handle", err)
	}
}

// Page header data with title
func (c *Context) Page(title string) render.Page {
	return render.Page{Title: title, Heading: c.Form.Title, User: c.Username()}
}

// Render writes the named page, a failing template becomes a 500
func (c *Context) Render(name string, data interface{}) {
	var buf bytes.Buffer
	if err := c.server.renderer.Render(&buf, name, data); err != nil {
		c.Error("rendering "+name, err)
		http.Error(c.Writer, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	c.Writer.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(c.Writer); err != nil {
		c.Warn("writing response", err)
	}
}

// Int integer request parameter, def when missing or malformed
func (c *Context) Int(name string, def int) int {
	value := strings.TrimSpace(c.Request.FormValue(name))
	if value == "" {
		return def
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return i
}

// Offset list offset carried through edit, archive and delete
func (c *Context) Offset() int {
	if offset := c.Int("offset", 0); offset > 0 {
		return offset
	}
	return 0
}

// ListTarget list URL keeping the offset
func (c *Context) ListTarget() string {
	return "list?offset=" + strconv.Itoa(c.Offset())
}
