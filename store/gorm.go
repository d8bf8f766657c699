package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/autoforms/autoforms/clause"
	"github.com/autoforms/autoforms/logger"
	"github.com/autoforms/autoforms/schema"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Drivers database drivers accepted by Open, memory keeps everything in process
var Drivers = []string{"sqlite", "mysql", "postgres", "memory"}

// Config database connection config
type Config struct {
	Driver       string
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
	Logger       logger.Interface
}

// GormStore Store backed by a gorm connection pool
type GormStore struct {
	DB *gorm.DB
}

// New opens the configured driver, memory returns a MemoryStore
func New(config Config) (Store, error) {
	if strings.EqualFold(config.Driver, "memory") {
		return NewMemoryStore(), nil
	}
	return Open(config)
}

// Open opens a gorm connection pool for sqlite, mysql or postgres
func Open(config Config) (*GormStore, error) {
	dialector, err := Dialector(config.Driver, config.DSN)
	if err != nil {
		return nil, err
	}

	log := config.Logger
	if log == nil {
		log = logger.Default
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 logger.Gorm(log),
		SkipDefaultTransaction: true,
		TranslateError:         true,
		NowFunc:                func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, wrap("open", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, wrap("open", err)
	}
	if config.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(config.MaxOpenConns)
	}
	if config.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(config.MaxIdleConns)
	}

	return NewGormStore(db), nil
}

// NewGormStore wraps an opened gorm DB
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

// Dialector gorm dialector for the driver name
func Dialector(driver, dsn string) (gorm.Dialector, error) {
	switch strings.ToLower(driver) {
	case "", "sqlite":
		if dsn == "" {
			dsn = "autoforms.db"
		}
		return sqlite.Open(dsn), nil
	case "mysql":
		return mysql.Open(dsn), nil
	case "postgres":
		return postgres.Open(dsn), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
}

// Quoter quoting of the connected dialect
func (s *GormStore) Quoter() clause.Quoter {
	return clause.QuoteFunc(func(writer clause.Writer, str string) {
		s.DB.Dialector.QuoteTo(writer, str)
	})
}

// Begin pins one pooled connection for the request
func (s *GormStore) Begin(ctx context.Context) (Handle, error) {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return nil, wrap("begin", err)
	}

	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		return nil, wrap("begin", err)
	}

	tx := s.DB.Session(&gorm.Session{Context: ctx, NewDB: true})
	tx.Statement.ConnPool = conn

	return &gormHandle{store: s, tx: tx, conn: conn}, nil
}

// Close closes the connection pool
func (s *GormStore) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type gormHandle struct {
	store  *GormStore
	tx     *gorm.DB
	conn   *sql.Conn
	closed bool
}

func (h *gormHandle) Quoter() clause.Quoter {
	return h.store.Quoter()
}

func (h *gormHandle) dialect() string {
	return h.tx.Dialector.Name()
}

func (h *gormHandle) Load(layout *schema.Layout, id int64) (Record, error) {
	records, err := h.Query(layout, LoadStatement(h.Quoter(), layout, id))
	if err != nil {
		return nil, wrap("load", err)
	}
	if len(records) == 0 {
		return nil, ErrRecordNotFound
	}
	return records[0], nil
}

func (h *gormHandle) Insert(layout *schema.Layout, record Record) (int64, error) {
	if h.closed {
		return 0, ErrClosed
	}

	var (
		columns []clause.Column
		values  []interface{}
	)
	for _, column := range layout.Columns {
		if column.Name == schema.IDColumn {
			continue
		}
		value, err := encode(column, record[column.Name])
		if err != nil {
			return 0, wrap("insert", err)
		}
		columns = append(columns, clause.Column{Name: column.Name})
		values = append(values, value)
	}

	stmt := clause.New(h.Quoter(),
		clause.Insert{Table: clause.Table{Name: layout.Table}, Columns: columns},
		clause.Values{Values: values},
	)

	var id int64
	switch h.dialect() {
	case "postgres":
		stmt.AddClause(clause.Returning{Columns: []clause.Column{{Name: schema.IDColumn}}})
		if err := h.tx.Raw(stmt.Build(), stmt.Vars...).Scan(&id).Error; err != nil {
			return 0, wrap("insert", err)
		}
	default:
		if err := h.tx.Exec(stmt.Build(), stmt.Vars...).Error; err != nil {
			return 0, wrap("insert", err)
		}
		lastID := "last_insert_rowid()"
		if h.dialect() == "mysql" {
			lastID = "LAST_INSERT_ID()"
		}
		if err := h.tx.Raw("SELECT " + lastID).Scan(&id).Error; err != nil {
			return 0, wrap("insert", err)
		}
	}

	record[schema.IDColumn] = id
	return id, nil
}

func (h *gormHandle) Update(layout *schema.Layout, record Record) error {
	if h.closed {
		return ErrClosed
	}

	var set clause.Set
	for _, column := range layout.Columns {
		if column.Name == schema.IDColumn {
			continue
		}
		if _, ok := record[column.Name]; !ok {
			continue
		}
		value, err := encode(column, record[column.Name])
		if err != nil {
			return wrap("update", err)
		}
		set = append(set, clause.Assignment{Column: clause.Column{Name: column.Name}, Value: value})
	}
	if len(set) == 0 {
		return nil
	}

	stmt := clause.New(h.Quoter(),
		clause.Update{Table: clause.Table{Name: layout.Table}},
		set,
		clause.Where{Exprs: []clause.Expression{clause.Eq{Column: clause.Column{Name: schema.IDColumn}, Value: record.ID()}}},
	)
	return wrap("update", h.tx.Exec(stmt.Build(), stmt.Vars...).Error)
}

func (h *gormHandle) Delete(layout *schema.Layout, record Record) error {
	if h.closed {
		return ErrClosed
	}

	stmt := clause.New(h.Quoter(),
		clause.Delete{},
		clause.From{Table: clause.Table{Name: layout.Table}},
		clause.Where{Exprs: []clause.Expression{clause.Eq{Column: clause.Column{Name: schema.IDColumn}, Value: record.ID()}}},
	)
	return wrap("delete", h.tx.Exec(stmt.Build(), stmt.Vars...).Error)
}

func (h *gormHandle) Query(layout *schema.Layout, stmt *clause.Statement) ([]Record, error) {
	if h.closed {
		return nil, ErrClosed
	}

	var rows []map[string]interface{}
	if err := h.tx.Raw(stmt.Build(), stmt.Vars...).Scan(&rows).Error; err != nil {
		return nil, wrap("query", err)
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		record := make(Record, len(row))
		for name, value := range row {
			if column, ok := layout.Column(name); ok {
				record[name] = decode(column, value)
			} else {
				record[name] = value
			}
		}
		records = append(records, record)
	}
	return records, nil
}

func (h *gormHandle) Count(stmt *clause.Statement) (int64, error) {
	if h.closed {
		return 0, ErrClosed
	}

	var count int64
	if err := h.tx.Raw(stmt.Build(), stmt.Vars...).Scan(&count).Error; err != nil {
		return 0, wrap("count", err)
	}
	return count, nil
}

func (h *gormHandle) FindUser(username string) (*User, error) {
	if h.closed {
		return nil, ErrClosed
	}

	var user User
	if err := h.tx.Where("username = ?", username).Take(&user).Error; err != nil {
		return nil, wrap("find user", err)
	}
	return &user, nil
}

func (h *gormHandle) CreateUser(user *User) error {
	if h.closed {
		return ErrClosed
	}
	return wrap("create user", h.tx.Create(user).Error)
}

// Close returns the pinned connection to the pool, closing twice is a no-op
func (h *gormHandle) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true
	return h.conn.Close()
}
