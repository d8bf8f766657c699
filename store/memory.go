package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/autoforms/autoforms/clause"
	"github.com/autoforms/autoforms/schema"
	"github.com/autoforms/autoforms/utils"
)

// MemoryStore keeps tables in process, it interprets the single-table statements
// built by the list view and is meant for tests and demos
type MemoryStore struct {
	// Err makes every handle operation fail with a PersistenceError when set
	Err error

	mu     sync.Mutex
	tables map[string]*memoryTable
	users  []User
	open   int
}

type memoryTable struct {
	nextID int64
	rows   map[int64]Record
}

// NewMemoryStore creates an empty memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tables: map[string]*memoryTable{}}
}

// Begin acquires a handle
func (s *MemoryStore) Begin(ctx context.Context) (Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open++
	return &memoryHandle{store: s}, nil
}

// Migrate creates missing tables
func (s *MemoryStore) Migrate(ctx context.Context, layouts ...*schema.Layout) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, layout := range layouts {
		s.table(layout.Table)
	}
	return nil
}

// OpenHandles handles acquired and not closed yet
func (s *MemoryStore) OpenHandles() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// Rows copies of every row of a table ordered by id
func (s *MemoryStore) Rows(table string) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.table(table)
	records := make([]Record, 0, len(t.rows))
	for _, row := range t.rows {
		records = append(records, copyRecord(row, nil))
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID() < records[j].ID() })
	return records
}

func (s *MemoryStore) table(name string) *memoryTable {
	t, ok := s.tables[name]
	if !ok {
		t = &memoryTable{rows: map[int64]Record{}}
		s.tables[name] = t
	}
	return t
}

type memoryHandle struct {
	store  *MemoryStore
	closed bool
}

func (h *memoryHandle) lock(op string) (func(), error) {
	if h.closed {
		return nil, ErrClosed
	}
	if h.store.Err != nil {
		return nil, wrap(op, h.store.Err)
	}
	h.store.mu.Lock()
	return h.store.mu.Unlock, nil
}

func (h *memoryHandle) Quoter() clause.Quoter {
	return clause.Backtick
}

func (h *memoryHandle) Load(layout *schema.Layout, id int64) (Record, error) {
	unlock, err := h.lock("load")
	if err != nil {
		return nil, err
	}
	defer unlock()

	row, ok := h.store.table(layout.Table).rows[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return copyRecord(row, nil), nil
}

func (h *memoryHandle) Insert(layout *schema.Layout, record Record) (int64, error) {
	unlock, err := h.lock("insert")
	if err != nil {
		return 0, err
	}
	defer unlock()

	t := h.store.table(layout.Table)
	t.nextID++
	row := Record{schema.IDColumn: t.nextID}
	for _, column := range layout.Columns {
		if column.Name != schema.IDColumn {
			row[column.Name] = record[column.Name]
		}
	}
	t.rows[t.nextID] = row
	record[schema.IDColumn] = t.nextID
	return t.nextID, nil
}

func (h *memoryHandle) Update(layout *schema.Layout, record Record) error {
	unlock, err := h.lock("update")
	if err != nil {
		return err
	}
	defer unlock()

	row, ok := h.store.table(layout.Table).rows[record.ID()]
	if !ok {
		return nil
	}
	for _, column := range layout.Columns {
		if value, ok := record[column.Name]; ok && column.Name != schema.IDColumn {
			row[column.Name] = value
		}
	}
	return nil
}

func (h *memoryHandle) Delete(layout *schema.Layout, record Record) error {
	unlock, err := h.lock("delete")
	if err != nil {
		return err
	}
	defer unlock()

	delete(h.store.table(layout.Table).rows, record.ID())
	return nil
}

func (h *memoryHandle) Query(layout *schema.Layout, stmt *clause.Statement) ([]Record, error) {
	unlock, err := h.lock("query")
	if err != nil {
		return nil, err
	}
	defer unlock()

	rows, sel := h.store.selectRows(stmt)
	var columns []string
	for _, column := range sel.Columns {
		columns = append(columns, column.Name)
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, copyRecord(row, columns))
	}
	return records, nil
}

func (h *memoryHandle) Count(stmt *clause.Statement) (int64, error) {
	unlock, err := h.lock("count")
	if err != nil {
		return 0, err
	}
	defer unlock()

	// limit and offset apply to the single count row, not to the matched rows
	var filtered clause.Statement
	for _, c := range stmt.Clauses {
		if c.Name() != "LIMIT" {
			filtered.Clauses = append(filtered.Clauses, c)
		}
	}
	rows, _ := h.store.selectRows(&filtered)
	return int64(len(rows)), nil
}

func (h *memoryHandle) FindUser(username string) (*User, error) {
	unlock, err := h.lock("find user")
	if err != nil {
		return nil, err
	}
	defer unlock()

	for _, user := range h.store.users {
		if user.Username == username {
			found := user
			found.Permissions = append([]int(nil), user.Permissions...)
			return &found, nil
		}
	}
	return nil, ErrRecordNotFound
}

func (h *memoryHandle) CreateUser(user *User) error {
	unlock, err := h.lock("create user")
	if err != nil {
		return err
	}
	defer unlock()

	for _, existing := range h.store.users {
		if existing.Username == user.Username {
			return wrap("create user", ErrDuplicatedKey)
		}
	}
	user.ID = uint(len(h.store.users) + 1)
	h.store.users = append(h.store.users, *user)
	return nil
}

func (h *memoryHandle) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true
	h.store.mu.Lock()
	h.store.open--
	h.store.mu.Unlock()
	return nil
}

// selectRows applies FROM, WHERE, ORDER BY and LIMIT, the caller holds the lock
func (s *MemoryStore) selectRows(stmt *clause.Statement) ([]Record, clause.Select) {
	var (
		sel   clause.Select
		table *memoryTable
		rows  []Record
	)

	if c, ok := stmt.Clause("SELECT"); ok {
		sel = c.(clause.Select)
	}
	if c, ok := stmt.Clause("FROM"); ok {
		table = s.table(c.(clause.From).Table.Name)
	}
	if table == nil {
		return nil, sel
	}

	var where []clause.Eq
	if c, ok := stmt.Clause("WHERE"); ok {
		for _, expr := range c.(clause.Where).Exprs {
			if eq, ok := expr.(clause.Eq); ok {
				where = append(where, eq)
			}
		}
	}

	for _, row := range table.rows {
		matched := true
		for _, eq := range where {
			if !equalValues(row[columnName(eq.Column)], eq.Value) {
				matched = false
				break
			}
		}
		if matched {
			rows = append(rows, row)
		}
	}

	var orderBy []clause.OrderByColumn
	if c, ok := stmt.Clause("ORDER BY"); ok {
		orderBy = c.(clause.OrderBy).Columns
	}
	sort.SliceStable(rows, func(i, j int) bool {
		for _, column := range orderBy {
			if cmp := compareValues(rows[i][column.Column.Name], rows[j][column.Column.Name]); cmp != 0 {
				return (cmp < 0) != column.Desc
			}
		}
		return rows[i].ID() < rows[j].ID()
	})

	if c, ok := stmt.Clause("LIMIT"); ok {
		limit := c.(clause.Limit)
		if limit.Offset >= len(rows) {
			rows = nil
		} else if limit.Offset > 0 {
			rows = rows[limit.Offset:]
		}
		if limit.Limit != nil && *limit.Limit >= 0 && *limit.Limit < len(rows) {
			rows = rows[:*limit.Limit]
		}
	}
	return rows, sel
}

func columnName(column interface{}) string {
	switch c := column.(type) {
	case clause.Column:
		return c.Name
	case string:
		return c
	}
	return ""
}

func copyRecord(row Record, columns []string) Record {
	if len(columns) == 0 {
		record := make(Record, len(row))
		for k, v := range row {
			record[k] = v
		}
		return record
	}

	record := make(Record, len(columns))
	for _, name := range columns {
		record[name] = row[name]
	}
	return record
}

func equalValues(a, b interface{}) bool {
	if ab, ok := a.(bool); ok {
		return ab == utils.CheckTruth(utils.ToString(b))
	}
	if bb, ok := b.(bool); ok {
		return bb == utils.CheckTruth(utils.ToString(a))
	}
	return compareValues(a, b) == 0
}

func compareValues(a, b interface{}) int {
	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Compare(tb)
		}
	}

	fa, aNumeric := numeric(a)
	fb, bNumeric := numeric(b)
	if aNumeric && bNumeric {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	}
	return strings.Compare(utils.ToString(a), utils.ToString(b))
}

func numeric(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
