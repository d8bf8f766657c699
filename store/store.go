// Package store persists form records and user accounts.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/autoforms/autoforms/clause"
	"github.com/autoforms/autoforms/schema"
	"gorm.io/gorm"
)

var (
	// ErrRecordNotFound no row with the requested id
	ErrRecordNotFound = gorm.ErrRecordNotFound
	// ErrDuplicatedKey unique constraint violated
	ErrDuplicatedKey = gorm.ErrDuplicatedKey
	// ErrClosed handle used after Close
	ErrClosed = errors.New("store: handle is closed")
	// ErrUnsupportedDriver unknown database driver name
	ErrUnsupportedDriver = errors.New("store: unsupported driver")
)

// Record one row keyed by column name, values use the storage types of schema.FromWire
type Record map[string]interface{}

// ID primary key of the record, 0 when unset
func (r Record) ID() int64 {
	return toInt64(r[schema.IDColumn])
}

// Store persistence engine shared by all requests
type Store interface {
	// Begin acquires a handle, it must be closed on every path
	Begin(ctx context.Context) (Handle, error)
	// Migrate creates missing tables for the layouts and the users table
	Migrate(ctx context.Context, layouts ...*schema.Layout) error
}

// Handle one acquired connection, used by a single request
type Handle interface {
	Quoter() clause.Quoter
	Load(layout *schema.Layout, id int64) (Record, error)
	Insert(layout *schema.Layout, record Record) (int64, error)
	Update(layout *schema.Layout, record Record) error
	Delete(layout *schema.Layout, record Record) error
	Query(layout *schema.Layout, stmt *clause.Statement) ([]Record, error)
	Count(stmt *clause.Statement) (int64, error)
	FindUser(username string) (*User, error)
	CreateUser(user *User) error
	Close() error
}

// PersistenceError wraps a failure of the underlying engine
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func wrap(op string, err error) error {
	if err == nil || errors.Is(err, ErrRecordNotFound) {
		return err
	}
	var perr *PersistenceError
	if errors.As(err, &perr) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

// selectColumns every column of the layout
func selectColumns(layout *schema.Layout) []clause.Column {
	columns := make([]clause.Column, 0, len(layout.Columns))
	for _, column := range layout.Columns {
		columns = append(columns, clause.Column{Name: column.Name})
	}
	return columns
}

// LoadStatement SELECT of one record by id
func LoadStatement(quoter clause.Quoter, layout *schema.Layout, id int64) *clause.Statement {
	return clause.New(quoter,
		clause.Select{Columns: selectColumns(layout)},
		clause.From{Table: clause.Table{Name: layout.Table}},
		clause.Where{Exprs: []clause.Expression{clause.Eq{Column: clause.Column{Name: schema.IDColumn}, Value: id}}},
	)
}
