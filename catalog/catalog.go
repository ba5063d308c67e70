package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/btree"
	"mit.edu/dsg/sqlplan/common"
)

// Catalog holds the table metadata the plan builder resolves ordinary
// (non-CTE) table references against.
//
// The catalog is serialized as a single JSON blob through a PersistenceProvider.
// Lookups are case-insensitive, matching unquoted SQL identifiers. Tables are
// kept in an ordered map so listings are stable regardless of insertion order.
//
// The catalog is immutable while statements are being compiled: AddTable is a
// setup-time operation and is not synchronized against concurrent lookups.
type Catalog struct {
	catalogState

	tables btree.Map[string, *Table] // lower(TableName) -> Table
}

// Column represents the basic unit of a table schema.
type Column struct {
	Name string      `json:"name"`
	Type common.Type `json:"type"`
}

// Distribution describes how a table's rows are spread across workers of the
// distributed engine. A table with a single partition lives on one worker.
type Distribution struct {
	Keys       []string `json:"keys,omitempty"`
	Partitions int      `json:"partitions"`
}

// Partitioned reports whether reading the table involves more than one worker.
func (d Distribution) Partitioned() bool {
	return d.Partitions > 1
}

// Table is the primary metadata structure. It groups columns and the table's
// distribution under a unique ObjectID.
type Table struct {
	Oid          common.ObjectID `json:"oid"`
	Name         string          `json:"name"`
	Columns      []Column        `json:"columns"`
	Distribution Distribution    `json:"distribution"`
}

// PersistenceProvider abstracts how the catalog is saved to and loaded from disk.
type PersistenceProvider interface {
	LoadCatalogState() (json string, err error)
	SaveCatalogState(json string) error
}

func (t *Table) String() string {
	b, _ := json.MarshalIndent(t, "", "  ")
	return string(b)
}

type catalogState struct {
	NextId uint32   `json:"next_id"`
	Tables []*Table `json:"tables"`
}

func (c *Catalog) String() string {
	b, _ := json.MarshalIndent(c, "", "  ")
	return string(b)
}

func (c *Catalog) toJSON() (string, error) {
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (c *Catalog) fromJSON(jsonData string) error {
	if err := json.Unmarshal([]byte(jsonData), &c.catalogState); err != nil {
		return err
	}
	for _, t := range c.Tables {
		c.tables.Set(tableKey(t.Name), t)
	}
	return nil
}

func tableKey(name string) string {
	return strings.ToLower(name)
}

// NewCatalog initializes a catalog. It attempts to load existing state
// from the provider; if no state exists, it starts with an empty catalog.
func NewCatalog(provider PersistenceProvider) (*Catalog, error) {
	result := &Catalog{
		catalogState: catalogState{
			NextId: 0,
			Tables: make([]*Table, 0),
		},
	}

	jsonData, err := provider.LoadCatalogState()
	if errors.Is(err, os.ErrNotExist) {
		// Start from scratch
		return result, nil
	}
	if err != nil {
		return nil, err
	}

	if err = result.fromJSON(jsonData); err != nil {
		// Parsing errors are fatal, usually indicating corruption
		return nil, fmt.Errorf("failed to parse catalog state: %w", err)
	}

	return result, nil
}

// AddTable registers a new table in the catalog.
// It assigns a unique ObjectID to the table and persists the updated state. If a table with that name
// already exists, it returns DuplicateObjectError. A zero Distribution is stored as a single partition.
func (c *Catalog) AddTable(tableName string, columns []Column, distribution Distribution, provider PersistenceProvider) (*Table, error) {
	if _, exists := c.tables.Get(tableKey(tableName)); exists {
		return nil, common.NewPlanError(common.DuplicateObjectError, tableName, "table '%s' already exists", tableName)
	}

	colNames := make(map[string]bool, len(columns))
	for _, col := range columns {
		colNames[strings.ToLower(col.Name)] = true
	}
	for _, key := range distribution.Keys {
		if !colNames[strings.ToLower(key)] {
			return nil, common.NewPlanError(common.NoSuchObjectError, key,
				"distribution key '%s' does not exist in table '%s'", key, tableName)
		}
	}
	if distribution.Partitions < 1 {
		distribution.Partitions = 1
	}

	// oid 0 is reserved for INVALID
	c.NextId++

	t := &Table{
		Oid:          common.ObjectID(c.NextId),
		Name:         tableName,
		Columns:      columns,
		Distribution: distribution,
	}

	c.Tables = append(c.Tables, t)
	c.tables.Set(tableKey(tableName), t)

	jsonData, err := c.toJSON()
	if err != nil {
		return nil, err
	}
	return t, provider.SaveCatalogState(jsonData)
}

// GetTableMetadata fetches the schema for a specific table name.
func (c *Catalog) GetTableMetadata(tableName string) (*Table, error) {
	table, exists := c.tables.Get(tableKey(tableName))
	if !exists {
		return nil, common.NewPlanError(common.NoSuchObjectError, tableName, "table '%s' does not exist", tableName)
	}
	return table, nil
}

// ListTables returns every table ordered by (case-folded) name.
func (c *Catalog) ListTables() []*Table {
	out := make([]*Table, 0, c.tables.Len())
	c.tables.Scan(func(_ string, t *Table) bool {
		out = append(out, t)
		return true
	})
	return out
}

const CatalogFileName = "catalog.json"

type DiskCatalogManager struct {
	rootPath string
}

func NewDiskCatalogManager(rootPath string) *DiskCatalogManager {
	return &DiskCatalogManager{
		rootPath: rootPath,
	}
}

// LoadCatalogState implements the catalog.PersistenceProvider interface.
func (dcm *DiskCatalogManager) LoadCatalogState() (string, error) {
	path := filepath.Join(dcm.rootPath, CatalogFileName)
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err // Let the caller (Catalog) handle os.ErrNotExist
	}
	return string(content), nil
}

// SaveCatalogState implements the catalog.PersistenceProvider interface.
func (dcm *DiskCatalogManager) SaveCatalogState(jsonData string) error {
	// atomic replace through a temporary file
	tmpPath := filepath.Join(dcm.rootPath, CatalogFileName+".tmp")
	finalPath := filepath.Join(dcm.rootPath, CatalogFileName)

	if err := os.WriteFile(tmpPath, []byte(jsonData), 0644); err != nil {
		return err
	}

	return os.Rename(tmpPath, finalPath)
}

// MemoryCatalogManager keeps the serialized catalog in memory. It is meant for
// tests and for embedding the planner without a data directory.
type MemoryCatalogManager struct {
	state string
}

func NewMemoryCatalogManager() *MemoryCatalogManager {
	return &MemoryCatalogManager{}
}

// LoadCatalogState implements the catalog.PersistenceProvider interface.
func (m *MemoryCatalogManager) LoadCatalogState() (string, error) {
	if m.state == "" {
		return "", os.ErrNotExist
	}
	return m.state, nil
}

// SaveCatalogState implements the catalog.PersistenceProvider interface.
func (m *MemoryCatalogManager) SaveCatalogState(jsonData string) error {
	m.state = jsonData
	return nil
}
