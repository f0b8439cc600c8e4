// FILE: svckit/src/internal/testkit/database.go
package testkit

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// ErrInvalidTable is returned for table names that are not plain identifiers.
var ErrInvalidTable = errors.New("invalid table name")

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLDatabase reads rows by id and remembers them so a test can delete them afterwards.
type SQLDatabase struct {
	DB *gorm.DB

	mu      sync.Mutex
	tracked map[string]map[string]struct{}
}

// NewSQLDatabase wraps an open connection.
func NewSQLDatabase(db *gorm.DB) *SQLDatabase {
	return &SQLDatabase{DB: db, tracked: make(map[string]map[string]struct{})}
}

// Open connects through dialector with gorm's logger silenced.
func Open(dialector gorm.Dialector) (*SQLDatabase, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return NewSQLDatabase(db), nil
}

// Get returns the row of table with the given id, or nil when there is none.
// The row is tracked for Clear either way.
func (d *SQLDatabase) Get(table, id string) (map[string]any, error) {
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTable, table)
	}
	d.Track(table, id)

	row := map[string]any{}
	err := d.DB.Table(table).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s %s: %w", table, id, err)
	}
	return row, nil
}

// Track marks a row for deletion by Clear without reading it.
func (d *SQLDatabase) Track(table, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	ids, ok := d.tracked[table]
	if !ok {
		ids = make(map[string]struct{})
		d.tracked[table] = ids
	}
	ids[id] = struct{}{}
}

// Tracked returns the tracked ids of table in sorted order.
func (d *SQLDatabase) Tracked(table string) []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	ids := make([]string, 0, len(d.tracked[table]))
	for id := range d.tracked[table] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Remove deletes the row of table with the given id. A missing row is not an error.
func (d *SQLDatabase) Remove(table, id string) error {
	if !tableName.MatchString(table) {
		return fmt.Errorf("%w: %q", ErrInvalidTable, table)
	}
	if err := d.DB.Exec("DELETE FROM ? WHERE id = ?", clause.Table{Name: table}, id).Error; err != nil {
		return fmt.Errorf("failed to delete %s %s: %w", table, id, err)
	}
	return nil
}

// Clear deletes every tracked row and forgets them.
func (d *SQLDatabase) Clear() error {
	d.mu.Lock()
	tracked := d.tracked
	d.tracked = make(map[string]map[string]struct{})
	d.mu.Unlock()

	var errs []error
	for table, ids := range tracked {
		for id := range ids {
			if err := d.Remove(table, id); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
