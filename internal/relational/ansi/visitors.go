// Package ansi holds the dialect-neutral lowering rules. Dialect packages
// register overrides on top of them.
package ansi

import (
	"fmt"

	"github.com/tuannm99/novaddl/internal/dialect"
	"github.com/tuannm99/novaddl/internal/logicalplan"
	"github.com/tuannm99/novaddl/internal/lowering"
	"github.com/tuannm99/novaddl/internal/physicalplan"
)

// Register installs the neutral rules. Partition and cluster keys have no
// neutral rule; each dialect registers its own.
func Register(r *lowering.Registry) {
	r.Register(logicalplan.KindCreate, dialect.Neutral, VisitCreate)
	r.Register(logicalplan.KindDrop, dialect.Neutral, VisitDrop)
	r.Register(logicalplan.KindDataset, dialect.Neutral, VisitDataset)
	r.Register(logicalplan.KindField, dialect.Neutral, VisitField)
	r.Register(logicalplan.KindFieldRef, dialect.Neutral, VisitFieldRef)
	r.Register(logicalplan.KindPrimaryKey, dialect.Neutral, VisitPrimaryKey)
	r.Register(logicalplan.KindUniqueKey, dialect.Neutral, VisitUniqueKey)
}

func VisitCreate(tree *physicalplan.Tree, prev physicalplan.Handle, n logicalplan.Node, vctx lowering.VisitorContext) (lowering.Result, error) {
	c := n.(*logicalplan.Create)
	if c.Dataset == nil {
		return lowering.Result{}, lowering.Failf(c, "no dataset")
	}
	if c.IfNotExists && !vctx.Supports(dialect.FeatureIfNotExists) {
		return lowering.Result{}, lowering.Unsupported(vctx, c, dialect.FeatureIfNotExists)
	}

	h := tree.Push(prev, physicalplan.CreateTable{IfNotExists: c.IfNotExists})
	return lowering.Emit(h, c.Dataset), nil
}

func VisitDrop(tree *physicalplan.Tree, prev physicalplan.Handle, n logicalplan.Node, vctx lowering.VisitorContext) (lowering.Result, error) {
	d := n.(*logicalplan.Drop)
	if d.Dataset == nil || d.Dataset.Name == "" {
		return lowering.Result{}, lowering.Failf(d, "no dataset name")
	}
	if d.IfExists && !vctx.Supports(dialect.FeatureIfExists) {
		return lowering.Result{}, lowering.Unsupported(vctx, d, dialect.FeatureIfExists)
	}

	h := tree.Push(prev, physicalplan.DropTable{
		Name:     vctx.QualifiedName(d.Dataset.QualifiedName()...),
		IfExists: d.IfExists,
	})
	return lowering.Emit(h), nil
}

// VisitDataset pushes the table and hands back its fields and keys, in
// rendering order, to be lowered beneath it.
func VisitDataset(tree *physicalplan.Tree, prev physicalplan.Handle, n logicalplan.Node, vctx lowering.VisitorContext) (lowering.Result, error) {
	ds := n.(*logicalplan.Dataset)
	if ds.Name == "" {
		return lowering.Result{}, lowering.Failf(ds, "no dataset name")
	}

	h := tree.Push(prev, physicalplan.Table{Name: vctx.QualifiedName(ds.QualifiedName()...)})
	return lowering.Emit(h, ds.Children()...), nil
}

func VisitField(tree *physicalplan.Tree, prev physicalplan.Handle, n logicalplan.Node, vctx lowering.VisitorContext) (lowering.Result, error) {
	f := n.(*logicalplan.Field)
	if f.Name == "" {
		return lowering.Result{}, lowering.Failf(f, "no field name")
	}
	typ, ok := vctx.TypeName(f.Type)
	if !ok {
		return lowering.Result{}, lowering.Failf(f, "type %s has no equivalent on dialect %s", f.Type, vctx.Dialect())
	}
	if f.Length > 0 && sized(f.Type) {
		typ = fmt.Sprintf("%s(%d)", typ, f.Length)
	}

	h := tree.Push(prev, physicalplan.ColumnDef{
		Name:     vctx.Identifier(f.Name),
		Type:     typ,
		Nullable: f.Nullable,
	})
	return lowering.Emit(h), nil
}

func sized(t logicalplan.FieldType) bool {
	switch t {
	case logicalplan.TypeText, logicalplan.TypeBytes, logicalplan.TypeDecimal:
		return true
	}
	return false
}

func VisitFieldRef(tree *physicalplan.Tree, prev physicalplan.Handle, n logicalplan.Node, vctx lowering.VisitorContext) (lowering.Result, error) {
	r := n.(*logicalplan.FieldRef)
	if r.Name == "" {
		return lowering.Result{}, lowering.Failf(r, "empty field reference")
	}

	h := tree.Push(prev, physicalplan.ColumnRef{Name: vctx.Identifier(r.Name)})
	return lowering.Emit(h), nil
}

// VisitPrimaryKey marks the key NOT ENFORCED on dialects that only accept
// informational primary keys.
func VisitPrimaryKey(tree *physicalplan.Tree, prev physicalplan.Handle, n logicalplan.Node, vctx lowering.VisitorContext) (lowering.Result, error) {
	pk := n.(*logicalplan.PrimaryKey)
	if err := checkRefs(pk, pk.Fields); err != nil {
		return lowering.Result{}, err
	}

	h := tree.Push(prev, physicalplan.PrimaryKeyConstraint{
		NotEnforced: !vctx.Supports(dialect.FeatureEnforcedPrimaryKey),
	})
	return lowering.Emit(h, logicalplan.RefNodes(pk.Fields)...), nil
}

func VisitUniqueKey(tree *physicalplan.Tree, prev physicalplan.Handle, n logicalplan.Node, vctx lowering.VisitorContext) (lowering.Result, error) {
	uk := n.(*logicalplan.UniqueKey)
	if !vctx.Supports(dialect.FeatureUniqueConstraint) {
		return lowering.Result{}, lowering.Unsupported(vctx, uk, dialect.FeatureUniqueConstraint)
	}
	if err := checkRefs(uk, uk.Fields); err != nil {
		return lowering.Result{}, err
	}

	h := tree.Push(prev, physicalplan.UniqueConstraint{})
	return lowering.Emit(h, logicalplan.RefNodes(uk.Fields)...), nil
}

// Key pushes frag for a single-column key and hands the column reference
// back to be lowered beneath it. Dialect partition and cluster rules share it.
func Key(tree *physicalplan.Tree, prev physicalplan.Handle, n logicalplan.Node, key *logicalplan.FieldRef, frag physicalplan.Node) (lowering.Result, error) {
	if key == nil || key.Name == "" {
		return lowering.Result{}, lowering.Failf(n, "key references no field")
	}

	h := tree.Push(prev, frag)
	return lowering.Emit(h, key), nil
}

func checkRefs(n logicalplan.Node, refs []*logicalplan.FieldRef) error {
	if len(refs) == 0 {
		return lowering.Failf(n, "key has no fields")
	}
	for i, r := range refs {
		if r == nil {
			return lowering.Failf(n, "field %d is nil", i)
		}
	}
	return nil
}
