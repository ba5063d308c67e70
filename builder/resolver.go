package builder

import (
	"strings"

	"mit.edu/dsg/sqlplan/ast"
	"mit.edu/dsg/sqlplan/catalog"
	"mit.edu/dsg/sqlplan/common"
	"mit.edu/dsg/sqlplan/planner"
)

// TableRef is a table name from a FROM clause, ready to be resolved into a
// leaf of the plan.
type TableRef struct {
	Name ast.Identifier
	// Alias is the name the query refers to the table by; it defaults to Name.
	Alias ast.Identifier
	// Traits are the convention and table hints the leaf must carry.
	Traits planner.Traits
}

// TableResolver turns FROM-clause table names into plan leaves. A resolver
// that does not know the name returns ok == false so the next one is asked.
type TableResolver interface {
	ResolveTable(ref TableRef) (node planner.PlanNode, ok bool, err error)
}

// CatalogResolver resolves names against catalog tables, producing scans.
type CatalogResolver struct {
	catalog *catalog.Catalog
}

func NewCatalogResolver(c *catalog.Catalog) *CatalogResolver {
	return &CatalogResolver{catalog: c}
}

func (r *CatalogResolver) ResolveTable(ref TableRef) (planner.PlanNode, bool, error) {
	table, err := r.catalog.GetTableMetadata(ref.Name.String())
	if common.IsErrorCode(err, common.NoSuchObjectError) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	alias := ref.Alias.String()
	fields := make([]planner.Field, len(table.Columns))
	for i, col := range table.Columns {
		fields[i] = planner.Field{Qualifier: alias, Name: col.Name, Type: col.Type}
	}

	keys := make([]int, 0, len(table.Distribution.Keys))
	for _, key := range table.Distribution.Keys {
		for i, col := range table.Columns {
			if strings.EqualFold(col.Name, key) {
				keys = append(keys, i)
				break
			}
		}
	}

	scan := planner.NewScanNode(ref.Traits, table.Oid, table.Name, alias, fields, table.Distribution.Partitions, keys)
	return scan, true, nil
}

// cteResolver claims every name an enclosing WITH clause declares and wires a
// new consumer to the registered producer.
type cteResolver struct {
	registry *Registry
}

func (r cteResolver) ResolveTable(ref TableRef) (planner.PlanNode, bool, error) {
	if !r.registry.Declared(ref.Name) {
		return nil, false, nil
	}
	producer, err := r.registry.Lookup(ref.Name)
	if err != nil {
		return nil, true, err
	}
	return planner.NewCTEConsumerNode(ref.Traits, producer, ref.Alias.String()), true, nil
}
