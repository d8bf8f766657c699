package autoforms_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autoforms/autoforms"
	"github.com/autoforms/autoforms/clause"
	"github.com/autoforms/autoforms/schema"
)

func TestListStatement(t *testing.T) {
	form := discoveries()
	require.NoError(t, form.Validate())

	tests := []struct {
		quoter  clause.Quoter
		offset  int
		numRows int
		sql     string
		vars    []interface{}
	}{
		{
			quoter: clause.Backtick, offset: 0, numRows: 15,
			sql:  "SELECT `id`,`name`,`revision` FROM `discoveries` WHERE `active` = ? ORDER BY `name` LIMIT ?",
			vars: []interface{}{true, 15},
		},
		{
			quoter: clause.DoubleQuote, offset: 30, numRows: 15,
			sql:  `SELECT "id","name","revision" FROM "discoveries" WHERE "active" = ? ORDER BY "name" LIMIT ? OFFSET ?`,
			vars: []interface{}{true, 15, 30},
		},
	}

	for _, test := range tests {
		stmt := autoforms.ListStatement(test.quoter, form, test.offset, test.numRows)
		assert.Equal(t, test.sql, stmt.Build())
		assert.Equal(t, test.vars, stmt.Vars)
	}
}

func TestListStatementWithoutArchive(t *testing.T) {
	form := schema.NewForm("/parts", "parts", &schema.Field{Name: "label"})
	require.NoError(t, form.Validate())

	stmt := autoforms.ListStatement(clause.Backtick, form, 0, 5)
	assert.Equal(t, "SELECT `id` FROM `parts` LIMIT ?", stmt.Build())

	count := autoforms.CountStatement(clause.Backtick, form)
	assert.Equal(t, "SELECT COUNT(*) FROM `parts`", count.Build())
	assert.Empty(t, count.Vars)
}

func TestCountStatement(t *testing.T) {
	form := discoveries()
	require.NoError(t, form.Validate())

	stmt := autoforms.CountStatement(clause.Backtick, form)
	assert.Equal(t, "SELECT COUNT(*) FROM `discoveries` WHERE `active` = ?", stmt.Build())
	assert.Equal(t, []interface{}{true}, stmt.Vars)
}
