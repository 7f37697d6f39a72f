package migration

import (
	"database/sql"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// columnInfo is one row of PRAGMA table_info.
type columnInfo struct {
	Cid          int            `gorm:"column:cid"`
	Name         string         `gorm:"column:name"`
	Type         string         `gorm:"column:type"`
	NotNull      int            `gorm:"column:notnull"`
	DefaultValue sql.NullString `gorm:"column:dflt_value"`
	PK           int            `gorm:"column:pk"`
}

// tableColumns returns the live columns of table in declaration order.
func tableColumns(db *gorm.DB, table string) ([]columnInfo, error) {
	var cols []columnInfo
	if err := db.Raw(fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(table))).Scan(&cols).Error; err != nil {
		return nil, fmt.Errorf("table_info %s: %w", table, err)
	}
	return cols, nil
}

// hasExactColumn reports whether a column with exactly this spelling exists.
// SQL LIKE and the GORM migrator compare names case-insensitively, which
// cannot tell anthropic_api_key from ANTHROPIC_API_KEY.
func hasExactColumn(cols []columnInfo, name string) bool {
	for _, c := range cols {
		if c.Name == name {
			return true
		}
	}
	return false
}

// conflictingColumn reports whether a column other than from already
// occupies the name to. SQLite column names are unique ignoring case.
func conflictingColumn(cols []columnInfo, from, to string) bool {
	for _, c := range cols {
		if c.Name != from && strings.EqualFold(c.Name, to) {
			return true
		}
	}
	return false
}

// renameColumn renames from to to. A rename that only changes case goes
// through a temporary name.
func renameColumn(db *gorm.DB, table, from, to string) error {
	if strings.EqualFold(from, to) {
		tmp := to + "__ccm_tmp"
		if err := alterRename(db, table, from, tmp); err != nil {
			return err
		}
		from = tmp
	}
	return alterRename(db, table, from, to)
}

func alterRename(db *gorm.DB, table, from, to string) error {
	stmt := fmt.Sprintf("ALTER TABLE %s RENAME COLUMN %s TO %s", quoteIdent(table), quoteIdent(from), quoteIdent(to))
	if err := db.Exec(stmt).Error; err != nil {
		return fmt.Errorf("rename %s.%s to %s: %w", table, from, to, err)
	}
	return nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
