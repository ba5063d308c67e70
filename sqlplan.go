package sqlplan

import (
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"mit.edu/dsg/sqlplan/ast"
	"mit.edu/dsg/sqlplan/catalog"
	"mit.edu/dsg/sqlplan/compiler"
	"mit.edu/dsg/sqlplan/planner"
)

// SQLPlan is the top-level container: a disk-persisted catalog and the
// compiler turning statements into plans against it.
type SQLPlan struct {
	Catalog  *catalog.Catalog
	Compiler *compiler.Compiler
	provider catalog.PersistenceProvider
}

func NewSQLPlan(catalogDir string, cfg compiler.Config, reg prometheus.Registerer) (*SQLPlan, error) {
	if err := os.MkdirAll(catalogDir, 0755); err != nil {
		return nil, err
	}

	provider := catalog.NewDiskCatalogManager(catalogDir)
	cat, err := catalog.NewCatalog(provider)
	if err != nil {
		return nil, err
	}

	comp, err := compiler.NewCompiler(cat, cfg, reg)
	if err != nil {
		return nil, err
	}

	return &SQLPlan{
		Catalog:  cat,
		Compiler: comp,
		provider: provider,
	}, nil
}

// CreateTable adds a table to the catalog and persists it. Tables must be
// created before statements referencing them are compiled.
func (s *SQLPlan) CreateTable(name string, columns []catalog.Column, distribution catalog.Distribution) (*catalog.Table, error) {
	return s.Catalog.AddTable(name, columns, distribution, s.provider)
}

// Explain compiles stmt and renders its plan.
func (s *SQLPlan) Explain(stmt ast.Query) (string, error) {
	plan, err := s.Compiler.Compile(stmt)
	if err != nil {
		return "", err
	}
	return planner.Explain(plan), nil
}

func (s *SQLPlan) Close() {
	s.Compiler.Close()
}
