package autoforms

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/autoforms/autoforms/render"
	"github.com/autoforms/autoforms/schema"
	"github.com/autoforms/autoforms/store"
)

func (s *Server) add(c *Context) {
	if !c.Gate(schema.OpAdd) {
		return
	}

	if c.Request.Method != http.MethodPost {
		s.renderRecord(c, schema.OpAdd, store.Record{}, nil)
		return
	}

	record := store.Record{}
	if invalid := s.populate(c, record, render.Add); len(invalid) > 0 {
		s.renderRecord(c, schema.OpAdd, record, invalid)
		return
	}

	if c.Form.Layout().Archivable() {
		record[schema.ActiveColumn] = true
	}

	h, err := c.Begin()
	if err != nil {
		c.Error("adding "+c.Form.Noun(), err)
		c.Redirect(string(schema.OpList))
		return
	}
	defer c.Done(h)

	id, err := h.Insert(c.Form.Layout(), record)
	if err != nil {
		c.Error("adding "+c.Form.Noun(), err)
		c.Redirect(string(schema.OpList))
		return
	}

	c.Info(fmt.Sprintf("%s added %s %d", c.Username(), c.Form.Noun(), id))
	c.Redirect(string(schema.OpList))
}

func (s *Server) edit(c *Context) {
	if !c.Gate(schema.OpEdit) {
		return
	}

	h, err := c.Begin()
	if err != nil {
		c.Error("editing "+c.Form.Noun(), err)
		c.Redirect(c.ListTarget())
		return
	}
	defer c.Done(h)

	record, ok := s.load(c, h)
	if !ok {
		return
	}

	if c.Request.Method != http.MethodPost {
		s.renderRecord(c, schema.OpEdit, record, nil)
		return
	}

	if invalid := s.populate(c, record, render.Edit); len(invalid) > 0 {
		s.renderRecord(c, schema.OpEdit, record, invalid)
		return
	}

	if err := h.Update(c.Form.Layout(), record); err != nil {
		c.Error("editing "+c.Form.Noun(), err)
		c.Redirect(c.ListTarget())
		return
	}

	c.Info(fmt.Sprintf("%s edited %s %d", c.Username(), c.Form.Noun(), record.ID()))
	c.Redirect(c.ListTarget())
}

func (s *Server) archive(c *Context) {
	if !c.Gate(schema.OpArchive) {
		return
	}

	h, err := c.Begin()
	if err != nil {
		c.Error("archiving "+c.Form.Noun(), err)
		c.Redirect(c.ListTarget())
		return
	}
	defer c.Done(h)

	record, ok := s.load(c, h)
	if !ok {
		return
	}

	record[schema.ActiveColumn] = false
	if err := h.Update(c.Form.Layout(), record); err != nil {
		c.Error("archiving "+c.Form.Noun(), err)
	} else {
		c.Info(fmt.Sprintf("%s archived %s %d", c.Username(), c.Form.Noun(), record.ID()))
	}
	c.Redirect(c.ListTarget())
}

func (s *Server) delete(c *Context) {
	if !c.Gate(schema.OpDelete) {
		return
	}

	h, err := c.Begin()
	if err != nil {
		c.Error("deleting "+c.Form.Noun(), err)
		c.Redirect(c.ListTarget())
		return
	}
	defer c.Done(h)

	record, ok := s.load(c, h)
	if !ok {
		return
	}

	if err := h.Delete(c.Form.Layout(), record); err != nil {
		c.Error("deleting "+c.Form.Noun(), err)
	} else {
		c.Info(fmt.Sprintf("%s deleted %s %d", c.Username(), c.Form.Noun(), record.ID()))
	}
	c.Redirect(c.ListTarget())
}

// load loads the record named by the id parameter, a missing record redirects to the list
func (s *Server) load(c *Context, h store.Handle) (store.Record, bool) {
	id, err := strconv.ParseInt(c.Request.FormValue("id"), 10, 64)
	if err != nil || id <= 0 {
		c.Warn(fmt.Sprintf("%s: invalid id %q", c.Form.TableName, c.Request.FormValue("id")))
		c.Redirect(c.ListTarget())
		return nil, false
	}

	record, err := h.Load(c.Form.Layout(), id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			c.Warn(fmt.Sprintf("%s: no record with id %d", c.Form.TableName, id))
		} else {
			c.Error(fmt.Sprintf("%s: loading record %d", c.Form.TableName, id), err)
		}
		c.Redirect(c.ListTarget())
		return nil, false
	}
	return record, true
}

// populate coerces the submitted editable fields into record and checks them,
// it returns the validation message per field
func (s *Server) populate(c *Context, record store.Record, mode render.Mode) map[string]string {
	invalid := map[string]string{}
	for _, field := range c.Form.EditableFields() {
		if field.Disabled {
			if mode == render.Add {
				record[field.Name] = schema.FromWire(field, []string{field.Default}, field.Default != "")
			}
			continue
		}

		var value interface{}
		if field.Type == schema.File {
			name, uploaded, err := s.upload(c, field)
			if err != nil {
				invalid[field.Name] = err.Error()
				continue
			}
			if !uploaded && mode == render.Edit {
				continue
			}
			value = name
		} else {
			values, present := c.Request.PostForm[field.Name]
			value = schema.FromWire(field, values, present)
		}

		record[field.Name] = value
		if err := field.Check(value); err != nil {
			var verr *schema.ValidationError
			if errors.As(err, &verr) {
				invalid[field.Name] = verr.Message
			} else {
				invalid[field.Name] = err.Error()
			}
		}
	}
	return invalid
}

func (s *Server) renderRecord(c *Context, op schema.Operation, record store.Record, invalid map[string]string) {
	mode, title := render.Add, "Add "+c.Form.Noun()
	if op == schema.OpEdit {
		mode, title = render.Edit, "Edit "+c.Form.Noun()
	}

	page := &render.FormPage{
		Page:   c.Page(title),
		Action: string(op),
		Submit: "Save",
		Cancel: string(schema.OpList),
	}

	if op == schema.OpEdit {
		page.Hidden = []render.Hidden{
			{Name: "id", Value: strconv.FormatInt(record.ID(), 10)},
			{Name: "offset", Value: strconv.Itoa(c.Offset())},
		}
		page.Cancel = c.ListTarget()
	}

	for _, field := range c.Form.EditableFields() {
		if field.Type == schema.File {
			page.Multipart = true
		}
		page.Fields = append(page.Fields, render.FormField{
			Input: render.Input(field, record[field.Name], mode),
			Error: invalid[field.Name],
		})
	}

	if len(invalid) > 0 {
		page.Alert = "Please correct the highlighted fields."
	}
	c.Render(render.PageForm, page)
}
