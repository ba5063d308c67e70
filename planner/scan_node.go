package planner

import (
	"fmt"

	"mit.edu/dsg/sqlplan/common"
)

// ScanNode reads a catalog table. Its fields are qualified by the name the
// query uses for the table (the alias when there is one).
type ScanNode struct {
	nodeBase
	TableOid   common.ObjectID
	TableName  string
	Alias      string
	Partitions int
	// DistributionKeys are the offsets of the table's distribution columns.
	DistributionKeys []int
	outputSchema     []Field
}

func NewScanNode(traits Traits, tableOid common.ObjectID, tableName, alias string, outputSchema []Field, partitions int, distributionKeys []int) *ScanNode {
	return &ScanNode{
		nodeBase:         newNodeBase(traits),
		TableOid:         tableOid,
		TableName:        tableName,
		Alias:            alias,
		Partitions:       partitions,
		DistributionKeys: distributionKeys,
		outputSchema:     outputSchema,
	}
}

func (n *ScanNode) Kind() NodeKind {
	return ScanKind
}

func (n *ScanNode) OutputSchema() []Field {
	return n.outputSchema
}

func (n *ScanNode) Children() []PlanNode {
	return nil
}

func (n *ScanNode) Accept(v Visitor) WalkAction {
	return v.VisitScan(n)
}

func (n *ScanNode) String() string {
	label := fmt.Sprintf("Scan: %s", n.TableName)
	if n.Alias != "" && n.Alias != n.TableName {
		label += " AS " + n.Alias
	}
	return n.describe(fmt.Sprintf("%s (oid %d, %d partitions)", label, n.TableOid, n.Partitions))
}
