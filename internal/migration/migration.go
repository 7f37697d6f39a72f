// Package migration brings an existing ccm database up to the current schema.
//
// The migration is a fixed, ordered list of steps. Each step looks at the
// live schema and only acts when it finds the shape it repairs, so the whole
// list runs on every open and does nothing on a current database. Steps are
// not wrapped in a transaction: a failed step leaves earlier steps applied
// and is retried on the next open.
package migration

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/asteroid-belt/ccm/internal/models"
)

// Step is a single idempotent schema change.
// Apply reports whether it changed anything.
type Step struct {
	Name  string
	Apply func(db *gorm.DB) (bool, error)
}

// Result lists the steps that changed the schema during a run.
type Result struct {
	Applied []string
}

// Changed reports whether any step did work.
func (r *Result) Changed() bool {
	return len(r.Applied) > 0
}

// Credential column names, current and historical.
const (
	apiKeysTable = "api_keys"

	ColumnAPIKey  = "ANTHROPIC_API_KEY"
	ColumnBaseURL = "ANTHROPIC_BASE_URL"
	ColumnActive  = "is_active"

	legacyKeyColumn       = "key"
	legacyLowerAPIKey     = "anthropic_api_key"
	legacyLowerBaseURL    = "anthropic_base_url"
	legacyAuthTokenColumn = "ANTHROPIC_AUTH_TOKEN"
	legacyDisableTraffic  = "CLAUDE_CODE_DISABLE_NONESSENTIAL_TRAFFIC"
)

// Steps returns the migration steps in the order they must run.
func Steps() []Step {
	return []Step{
		{Name: "create_tables", Apply: createTables},
		{Name: "rename_key_column", Apply: renameStep(legacyKeyColumn, ColumnAPIKey)},
		{Name: "uppercase_credential_columns", Apply: uppercaseCredentialColumns},
		{Name: "rename_auth_token_column", Apply: renameStep(legacyAuthTokenColumn, ColumnAPIKey)},
		{Name: "drop_disable_traffic_column", Apply: dropDisableTrafficColumn},
		{Name: "add_base_url_column", Apply: addBaseURLColumn},
		{Name: "add_is_active_column", Apply: addIsActiveColumn},
	}
}

// Run applies every step in order and stops at the first failure.
func Run(db *gorm.DB) (*Result, error) {
	return RunSteps(db, Steps())
}

// RunSteps applies the given steps in order.
func RunSteps(db *gorm.DB, steps []Step) (*Result, error) {
	result := &Result{}
	for _, step := range steps {
		changed, err := step.Apply(db)
		if err != nil {
			return result, fmt.Errorf("migration step %s: %w", step.Name, err)
		}
		if changed {
			result.Applied = append(result.Applied, step.Name)
		}
	}
	return result, nil
}

// createTables creates every missing table with the current column names.
// Existing tables are left for the column steps below.
func createTables(db *gorm.DB) (bool, error) {
	migrator := db.Migrator()
	changed := false
	for _, table := range models.AllTables() {
		if migrator.HasTable(table) {
			continue
		}
		if err := migrator.CreateTable(table); err != nil {
			return changed, fmt.Errorf("create table for %T: %w", table, err)
		}
		changed = true
	}
	return changed, nil
}

func renameStep(from, to string) func(*gorm.DB) (bool, error) {
	return func(db *gorm.DB) (bool, error) {
		return renameIfPresent(db, apiKeysTable, from, to)
	}
}

func uppercaseCredentialColumns(db *gorm.DB) (bool, error) {
	renamedKey, err := renameIfPresent(db, apiKeysTable, legacyLowerAPIKey, ColumnAPIKey)
	if err != nil {
		return false, err
	}
	renamedURL, err := renameIfPresent(db, apiKeysTable, legacyLowerBaseURL, ColumnBaseURL)
	if err != nil {
		return renamedKey, err
	}
	return renamedKey || renamedURL, nil
}

// renameIfPresent renames from to to when from exists with that exact
// spelling and nothing else already holds the target name.
func renameIfPresent(db *gorm.DB, table, from, to string) (bool, error) {
	cols, err := tableColumns(db, table)
	if err != nil {
		return false, err
	}
	if !hasExactColumn(cols, from) || conflictingColumn(cols, from, to) {
		return false, nil
	}
	if err := renameColumn(db, table, from, to); err != nil {
		return false, err
	}
	return true, nil
}

func dropDisableTrafficColumn(db *gorm.DB) (bool, error) {
	cols, err := tableColumns(db, apiKeysTable)
	if err != nil {
		return false, err
	}
	if !hasExactColumn(cols, legacyDisableTraffic) {
		return false, nil
	}
	stmt := fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", quoteIdent(apiKeysTable), quoteIdent(legacyDisableTraffic))
	if err := db.Exec(stmt).Error; err != nil {
		return false, fmt.Errorf("drop %s: %w", legacyDisableTraffic, err)
	}
	return true, nil
}

// addIsActiveColumn adds the active flag. Existing keys default to active,
// which is how they behaved before the flag existed.
func addIsActiveColumn(db *gorm.DB) (bool, error) {
	return addColumnIfMissing(db, apiKeysTable, ColumnActive, "INTEGER NOT NULL DEFAULT 1")
}

// addBaseURLColumn covers tables created before base URL overrides existed.
func addBaseURLColumn(db *gorm.DB) (bool, error) {
	return addColumnIfMissing(db, apiKeysTable, ColumnBaseURL, "TEXT")
}

func addColumnIfMissing(db *gorm.DB, table, column, definition string) (bool, error) {
	cols, err := tableColumns(db, table)
	if err != nil {
		return false, err
	}
	if conflictingColumn(cols, "", column) {
		return false, nil
	}
	stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", quoteIdent(table), quoteIdent(column), definition)
	if err := db.Exec(stmt).Error; err != nil {
		return false, fmt.Errorf("add %s.%s: %w", table, column, err)
	}
	return true, nil
}
