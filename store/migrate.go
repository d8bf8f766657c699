package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/autoforms/autoforms/clause"
	"github.com/autoforms/autoforms/schema"
)

// columnTypes SQL column type per dialect and storage kind
var columnTypes = map[string]map[schema.StorageKind]string{
	"sqlite": {
		schema.KindID:          "INTEGER PRIMARY KEY AUTOINCREMENT",
		schema.KindBool:        "BOOLEAN NOT NULL DEFAULT 1",
		schema.KindInt:         "INTEGER",
		schema.KindFloat:       "REAL",
		schema.KindString:      "VARCHAR(%d)",
		schema.KindText:        "TEXT",
		schema.KindShortString: "VARCHAR(255)",
		schema.KindDate:        "DATE",
		schema.KindTimestamp:   "DATETIME",
		schema.KindTimeOfDay:   "VARCHAR(8)",
		schema.KindIntList:     "TEXT",
		schema.KindFloatList:   "TEXT",
		schema.KindStringList:  "TEXT",
	},
	"mysql": {
		schema.KindID:          "BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY",
		schema.KindBool:        "BOOLEAN NOT NULL DEFAULT 1",
		schema.KindInt:         "BIGINT",
		schema.KindFloat:       "DOUBLE",
		schema.KindString:      "VARCHAR(%d)",
		schema.KindText:        "TEXT",
		schema.KindShortString: "TINYTEXT",
		schema.KindDate:        "DATE",
		schema.KindTimestamp:   "DATETIME",
		schema.KindTimeOfDay:   "VARCHAR(8)",
		schema.KindIntList:     "TEXT",
		schema.KindFloatList:   "TEXT",
		schema.KindStringList:  "TEXT",
	},
	"postgres": {
		schema.KindID:          "BIGSERIAL PRIMARY KEY",
		schema.KindBool:        "BOOLEAN NOT NULL DEFAULT TRUE",
		schema.KindInt:         "BIGINT",
		schema.KindFloat:       "DOUBLE PRECISION",
		schema.KindString:      "VARCHAR(%d)",
		schema.KindText:        "TEXT",
		schema.KindShortString: "VARCHAR(255)",
		schema.KindDate:        "DATE",
		schema.KindTimestamp:   "TIMESTAMP",
		schema.KindTimeOfDay:   "VARCHAR(8)",
		schema.KindIntList:     "TEXT",
		schema.KindFloatList:   "TEXT",
		schema.KindStringList:  "TEXT",
	},
}

// CreateTableSQL CREATE TABLE IF NOT EXISTS statement of a layout
func CreateTableSQL(dialect string, quoter clause.Quoter, layout *schema.Layout) (string, error) {
	types, ok := columnTypes[dialect]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDriver, dialect)
	}

	stmt := clause.New(quoter)
	stmt.WriteString("CREATE TABLE IF NOT EXISTS ")
	stmt.WriteQuoted(clause.Table{Name: layout.Table})
	stmt.WriteString(" (")
	for idx, column := range layout.Columns {
		sqlType, ok := types[column.Type.Kind]
		if !ok {
			return "", &schema.ConfigError{Kind: schema.FatalConfig, Form: layout.Table, Field: column.Name, Message: "no column type for " + column.Type.String()}
		}
		if strings.Contains(sqlType, "%d") {
			sqlType = fmt.Sprintf(sqlType, column.Type.Size)
		}

		if idx > 0 {
			stmt.WriteString(", ")
		}
		stmt.WriteQuoted(clause.Column{Name: column.Name})
		stmt.WriteByte(' ')
		stmt.WriteString(sqlType)
	}
	stmt.WriteString(")")
	return stmt.String(), nil
}

// Migrate creates the users table and one table per layout when missing
func (s *GormStore) Migrate(ctx context.Context, layouts ...*schema.Layout) error {
	db := s.DB.WithContext(ctx)
	if err := db.AutoMigrate(&User{}); err != nil {
		return wrap("migrate users", err)
	}

	for _, layout := range layouts {
		sql, err := CreateTableSQL(s.DB.Dialector.Name(), s.Quoter(), layout)
		if err != nil {
			return err
		}
		if err := db.Exec(sql).Error; err != nil {
			return wrap("migrate "+layout.Table, err)
		}
	}
	return nil
}

// DropTables drops the tables of the layouts
func (s *GormStore) DropTables(ctx context.Context, layouts ...*schema.Layout) error {
	migrator := s.DB.WithContext(ctx).Migrator()
	for _, layout := range layouts {
		if err := migrator.DropTable(layout.Table); err != nil {
			return wrap("drop "+layout.Table, err)
		}
	}
	return nil
}
