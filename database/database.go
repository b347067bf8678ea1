// Package database is the public entry point of tabledb: a Database is a
// directory holding one schema file plus one row file per table.
package database

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/robot-dreams/tabledb"
	"github.com/robot-dreams/tabledb/data_file"
	"github.com/robot-dreams/tabledb/logging"
	"github.com/robot-dreams/tabledb/row_file"
	"github.com/robot-dreams/tabledb/schema"
)

type Options struct {
	// Defaults to logging.Logger().
	Logger *slog.Logger

	// Without the filter every UNIQUE check scans all rows of the table.
	DisableUniqueFilter bool
}

type Database struct {
	name    string
	opts    Options
	logger  *slog.Logger
	store   *schema.Store
	schemas map[string]*schema.TableSchema
	tables  map[string]*Table
	closed  bool
}

func schemaPath(name string) string {
	return filepath.Join(name, filepath.Base(name)+".schema")
}

func tablePath(name string, table string) string {
	return filepath.Join(name, table+".table")
}

func Exists(name string) bool {
	return data_file.DirectoryExists(name)
}

// Create makes the database directory and an empty schema file.
func Create(name string) error {
	if name == "" {
		return tabledb.Errorf(tabledb.InvalidArgument, "Database name must not be empty")
	}
	if Exists(name) {
		return tabledb.Errorf(
			tabledb.DatabaseExists,
			"Database '%s' already exists",
			name)
	}
	err := data_file.CreateDirectory(name)
	if err != nil {
		return tabledb.WrapFile(err, "Failed to create database directory '%s'", name)
	}
	err = schema.Create(schemaPath(name))
	if err != nil {
		// The directory is ours; without a schema file it isn't a database.
		_ = os.RemoveAll(name)
		return err
	}
	logging.WithDatabase(name).Debug("created database")
	return nil
}

func Open(name string) (*Database, error) {
	return OpenWithOptions(name, Options{})
}

func OpenWithOptions(name string, opts Options) (*Database, error) {
	if !Exists(name) {
		return nil, tabledb.Errorf(
			tabledb.DatabaseDoesNotExist,
			"Database '%s' does not exist",
			name)
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Logger()
	}
	logger = logger.With("database", name)

	store, schemas, err := schema.Open(schemaPath(name))
	if err != nil {
		return nil, err
	}
	db := &Database{
		name:    name,
		opts:    opts,
		logger:  logger,
		store:   store,
		schemas: make(map[string]*schema.TableSchema, len(schemas)),
		tables:  make(map[string]*Table),
	}
	for _, ts := range schemas {
		db.schemas[ts.Name()] = ts
	}
	logger.Debug("opened database", "tables", len(schemas))
	return db, nil
}

func (db *Database) Name() string {
	return db.name
}

func (db *Database) checkOpen() error {
	if db.closed {
		return tabledb.Errorf(tabledb.Closed, "Database '%s' is closed", db.name)
	}
	return nil
}

// Close releases every table handle that is still open, then the schema
// file.  Calling Close() multiple times is valid.
func (db *Database) Close() error {
	if db.closed {
		return nil
	}
	db.closed = true
	for name, t := range db.tables {
		db.logger.Warn("closing table left open", "table", name)
		_ = t.Close()
	}
	db.tables = nil
	db.schemas = nil
	err := db.store.Close()
	if err != nil {
		return tabledb.WrapFile(err, "Failed to close database '%s'", db.name)
	}
	return nil
}

func (db *Database) TableExists(name string) bool {
	_, ok := db.schemas[name]
	return ok
}

// Tables returns the names of all tables, sorted.
func (db *Database) Tables() []string {
	names := make([]string, 0, len(db.schemas))
	for name := range db.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (db *Database) Schema(name string) (*schema.TableSchema, error) {
	ts, ok := db.schemas[name]
	if !ok {
		return nil, tabledb.Errorf(
			tabledb.TableDoesNotExist,
			"Table '%s' does not exist in database '%s'",
			name,
			db.name)
	}
	return ts, nil
}

// Table names double as file names.
func validateTableName(name string) error {
	err := tabledb.ValidateName(name)
	if err != nil {
		return err
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return tabledb.Errorf(
			tabledb.InvalidArgument,
			"Table name '%s' can't be used as a file name",
			name)
	}
	return nil
}

// CreateTable persists the schema of a new table and creates its empty row
// file.
func (db *Database) CreateTable(name string, attrs []tabledb.Attribute) error {
	err := db.checkOpen()
	if err != nil {
		return err
	}
	if db.TableExists(name) {
		return tabledb.Errorf(
			tabledb.TableExists,
			"Table '%s' already exists in database '%s'",
			name,
			db.name)
	}
	err = validateTableName(name)
	if err != nil {
		return err
	}
	if len(attrs) == 0 {
		return tabledb.Errorf(
			tabledb.InvalidArgument,
			"Table '%s' must have at least one attribute",
			name)
	}
	ts, err := schema.New(name, attrs)
	if err != nil {
		return err
	}

	path := tablePath(db.name, name)
	err = row_file.Create(path, ts.Stride())
	if err != nil {
		return tabledb.WrapFile(err, "Failed to create row file of table '%s'", name)
	}
	err = db.store.Append(ts)
	if err != nil {
		_ = os.Remove(path)
		return err
	}
	db.schemas[name] = ts
	db.logger.Debug(
		"created table",
		"table", name,
		"attributes", ts.Len(),
		"stride", ts.Stride())
	return nil
}

// OpenTable returns a handle onto an existing table.  Only one handle per
// table may be open at a time.
func (db *Database) OpenTable(name string) (*Table, error) {
	err := db.checkOpen()
	if err != nil {
		return nil, err
	}
	ts, err := db.Schema(name)
	if err != nil {
		return nil, err
	}
	if _, ok := db.tables[name]; ok {
		return nil, tabledb.Errorf(
			tabledb.InvalidArgument,
			"Table '%s' is already open",
			name)
	}
	rf, err := row_file.Open(tablePath(db.name, name), ts.Stride())
	if err != nil {
		return nil, tabledb.WrapFile(err, "Failed to open row file of table '%s'", name)
	}
	t := newTable(db, ts, rf)
	db.tables[name] = t
	t.logger.Debug("opened table", "rows", rf.Count(), "capacity", rf.Capacity())
	return t, nil
}

func (db *Database) release(t *Table) {
	if db.tables[t.Name()] == t {
		delete(db.tables, t.Name())
	}
}
