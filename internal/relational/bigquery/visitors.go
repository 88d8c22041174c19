// Package bigquery registers the BigQuery lowering rules.
package bigquery

import (
	"github.com/tuannm99/novaddl/internal/dialect"
	"github.com/tuannm99/novaddl/internal/logicalplan"
	"github.com/tuannm99/novaddl/internal/lowering"
	"github.com/tuannm99/novaddl/internal/physicalplan"
	"github.com/tuannm99/novaddl/internal/relational/ansi"
)

func Register(r *lowering.Registry) {
	r.Register(logicalplan.KindPartitionKey, dialect.BigQuery, VisitPartitionKey)
	r.Register(logicalplan.KindClusterKey, dialect.BigQuery, VisitClusterKey)
}

// VisitPartitionKey lowers to PARTITION BY <column>; the column reference is
// lowered next, beneath the constraint.
func VisitPartitionKey(tree *physicalplan.Tree, prev physicalplan.Handle, n logicalplan.Node, vctx lowering.VisitorContext) (lowering.Result, error) {
	pk := n.(*logicalplan.PartitionKey)
	if !vctx.Supports(dialect.FeaturePartitionKey) {
		return lowering.Result{}, lowering.Unsupported(vctx, pk, dialect.FeaturePartitionKey)
	}
	return ansi.Key(tree, prev, pk, pk.Key, physicalplan.PartitionKeyConstraint{})
}

func VisitClusterKey(tree *physicalplan.Tree, prev physicalplan.Handle, n logicalplan.Node, vctx lowering.VisitorContext) (lowering.Result, error) {
	ck := n.(*logicalplan.ClusterKey)
	if !vctx.Supports(dialect.FeatureClusterKey) {
		return lowering.Result{}, lowering.Unsupported(vctx, ck, dialect.FeatureClusterKey)
	}
	return ansi.Key(tree, prev, ck, ck.Key, physicalplan.ClusterKeyConstraint{})
}
