// Package snowflake registers the Snowflake lowering rules.
package snowflake

import (
	"github.com/tuannm99/novaddl/internal/dialect"
	"github.com/tuannm99/novaddl/internal/logicalplan"
	"github.com/tuannm99/novaddl/internal/lowering"
	"github.com/tuannm99/novaddl/internal/physicalplan"
	"github.com/tuannm99/novaddl/internal/relational/ansi"
)

func Register(r *lowering.Registry) {
	r.Register(logicalplan.KindPartitionKey, dialect.Snowflake, VisitPartitionKey)
	r.Register(logicalplan.KindClusterKey, dialect.Snowflake, VisitClusterKey)
}

// VisitPartitionKey always fails: Snowflake manages micro-partitions itself
// and has no PARTITION BY for tables.
func VisitPartitionKey(_ *physicalplan.Tree, _ physicalplan.Handle, n logicalplan.Node, vctx lowering.VisitorContext) (lowering.Result, error) {
	return lowering.Result{}, lowering.Unsupported(vctx, n, dialect.FeaturePartitionKey)
}

// VisitClusterKey lowers to CLUSTER BY (<column>).
func VisitClusterKey(tree *physicalplan.Tree, prev physicalplan.Handle, n logicalplan.Node, vctx lowering.VisitorContext) (lowering.Result, error) {
	ck := n.(*logicalplan.ClusterKey)
	if !vctx.Supports(dialect.FeatureClusterKey) {
		return lowering.Result{}, lowering.Unsupported(vctx, ck, dialect.FeatureClusterKey)
	}
	return ansi.Key(tree, prev, ck, ck.Key, physicalplan.ClusterKeyConstraint{})
}
