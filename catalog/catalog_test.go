package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"mit.edu/dsg/sqlplan/common"
)

func ordersColumns() []Column {
	return []Column{
		{Name: "id", Type: common.IntType},
		{Name: "customer", Type: common.StringType},
		{Name: "amount", Type: common.IntType},
	}
}

func TestAddAndLookupTable(t *testing.T) {
	provider := NewMemoryCatalogManager()
	cat, err := NewCatalog(provider)
	require.NoError(t, err)

	orders, err := cat.AddTable("orders", ordersColumns(), Distribution{Keys: []string{"id"}, Partitions: 8}, provider)
	require.NoError(t, err)
	assert.Equal(t, common.ObjectID(1), orders.Oid)
	assert.True(t, orders.Distribution.Partitioned())

	// lookups ignore case, like unquoted SQL identifiers
	got, err := cat.GetTableMetadata("ORDERS")
	require.NoError(t, err)
	assert.Same(t, orders, got)

	_, err = cat.GetTableMetadata("missing")
	require.Error(t, err)
	assert.True(t, common.IsErrorCode(err, common.NoSuchObjectError))
}

func TestAddTableRejectsDuplicatesAndBadKeys(t *testing.T) {
	provider := NewMemoryCatalogManager()
	cat, err := NewCatalog(provider)
	require.NoError(t, err)

	_, err = cat.AddTable("orders", ordersColumns(), Distribution{}, provider)
	require.NoError(t, err)

	_, err = cat.AddTable("Orders", ordersColumns(), Distribution{}, provider)
	assert.True(t, common.IsErrorCode(err, common.DuplicateObjectError))

	_, err = cat.AddTable("events", ordersColumns(), Distribution{Keys: []string{"nope"}, Partitions: 4}, provider)
	assert.True(t, common.IsErrorCode(err, common.NoSuchObjectError))
	code, _ := common.ErrorCode(err)
	assert.Equal(t, "NoSuchObjectError", code.String())
}

func TestZeroDistributionIsSinglePartition(t *testing.T) {
	provider := NewMemoryCatalogManager()
	cat, err := NewCatalog(provider)
	require.NoError(t, err)

	tbl, err := cat.AddTable("dim", ordersColumns(), Distribution{}, provider)
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.Distribution.Partitions)
	assert.False(t, tbl.Distribution.Partitioned())
}

func TestListTablesIsOrderedByName(t *testing.T) {
	provider := NewMemoryCatalogManager()
	cat, err := NewCatalog(provider)
	require.NoError(t, err)

	for _, name := range []string{"zeta", "alpha", "Mid"} {
		_, err := cat.AddTable(name, ordersColumns(), Distribution{}, provider)
		require.NoError(t, err)
	}

	var names []string
	for _, tbl := range cat.ListTables() {
		names = append(names, tbl.Name)
	}
	assert.Equal(t, []string{"alpha", "Mid", "zeta"}, names)
}

func TestDiskCatalogRoundTrip(t *testing.T) {
	dir := t.TempDir()
	provider := NewDiskCatalogManager(dir)

	cat, err := NewCatalog(provider)
	require.NoError(t, err)
	assert.Empty(t, cat.ListTables())

	_, err = cat.AddTable("orders", ordersColumns(), Distribution{Keys: []string{"customer"}, Partitions: 4}, provider)
	require.NoError(t, err)
	_, err = cat.AddTable("customers", []Column{{Name: "name", Type: common.StringType}}, Distribution{}, provider)
	require.NoError(t, err)

	reloaded, err := NewCatalog(NewDiskCatalogManager(dir))
	require.NoError(t, err)

	orders, err := reloaded.GetTableMetadata("orders")
	require.NoError(t, err)
	assert.Equal(t, ordersColumns(), orders.Columns)
	assert.Equal(t, Distribution{Keys: []string{"customer"}, Partitions: 4}, orders.Distribution)
	assert.Len(t, reloaded.ListTables(), 2)

	// object ids keep increasing after a reload
	next, err := reloaded.AddTable("returns", ordersColumns(), Distribution{}, NewDiskCatalogManager(dir))
	require.NoError(t, err)
	assert.Equal(t, common.ObjectID(3), next.Oid)
}
