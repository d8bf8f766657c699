package autoforms

import (
	"github.com/autoforms/autoforms/pagination"
	"github.com/autoforms/autoforms/render"
	"github.com/autoforms/autoforms/schema"
	"github.com/autoforms/autoforms/store"
)

func (s *Server) list(c *Context) {
	if !c.Gate(schema.OpList) {
		return
	}

	offset := c.Offset()
	numRows := c.Int("numRows", pagination.DefaultNumRows)
	if numRows <= 0 {
		numRows = pagination.DefaultNumRows
	}

	var actions []render.Action
	for _, action := range []render.Action{render.EditAction, render.ArchiveAction, render.DeleteAction} {
		if c.Allowed(action.Op) {
			actions = append(actions, action)
		}
	}

	page := &render.ListPage{
		Page:  c.Page(c.Form.Title),
		Noun:  c.Form.Noun(),
		Table: render.NewTable(c.Form.ListFields(), offset, actions...),
	}
	if c.Allowed(schema.OpAdd) {
		page.AddLink = string(schema.OpAdd)
	}

	records, total, err := s.query(c, offset, numRows)
	if err != nil {
		c.Error("listing "+c.Form.TableName, err)
		page.Alert = "The records could not be loaded."
	}
	for _, record := range records {
		page.Table.Add(record.ID(), record)
	}

	page.Paging = pagination.Compute(offset, numRows, int(total))
	c.Render(render.PageList, page)
}

func (s *Server) query(c *Context, offset, numRows int) ([]store.Record, int64, error) {
	h, err := c.Begin()
	if err != nil {
		return nil, 0, err
	}
	defer c.Done(h)

	records, err := h.Query(c.Form.Layout(), ListStatement(h.Quoter(), c.Form, offset, numRows))
	if err != nil {
		return nil, 0, err
	}

	total, err := h.Count(CountStatement(h.Quoter(), c.Form))
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}
