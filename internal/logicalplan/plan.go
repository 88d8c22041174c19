package logicalplan

import (
	"fmt"
	"strings"
)

// Kind tags every logical node variant. The lowering registry is keyed by it.
type Kind uint8

const (
	KindCreate Kind = iota + 1
	KindDrop
	KindDataset
	KindField
	KindFieldRef
	KindPrimaryKey
	KindUniqueKey
	KindPartitionKey
	KindClusterKey
)

var kindNames = map[Kind]string{
	KindCreate:       "Create",
	KindDrop:         "Drop",
	KindDataset:      "Dataset",
	KindField:        "Field",
	KindFieldRef:     "FieldRef",
	KindPrimaryKey:   "PrimaryKey",
	KindUniqueKey:    "UniqueKey",
	KindPartitionKey: "PartitionKey",
	KindClusterKey:   "ClusterKey",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Kinds returns every node kind in declaration order.
func Kinds() []Kind {
	return []Kind{
		KindCreate,
		KindDrop,
		KindDataset,
		KindField,
		KindFieldRef,
		KindPrimaryKey,
		KindUniqueKey,
		KindPartitionKey,
		KindClusterKey,
	}
}

// Node is a dialect-agnostic piece of intent. Nodes are built by the caller
// and never mutated while a plan is being lowered.
type Node interface {
	Kind() Kind
	// String identifies the node in error messages.
	String() string
	logicalNode()
}

// ----- Operations -----

type Create struct {
	Dataset     *Dataset
	IfNotExists bool
}

func (*Create) logicalNode() {}
func (*Create) Kind() Kind   { return KindCreate }
func (c *Create) String() string {
	return fmt.Sprintf("Create(%s)", datasetName(c.Dataset))
}

type Drop struct {
	Dataset  *Dataset
	IfExists bool
}

func (*Drop) logicalNode() {}
func (*Drop) Kind() Kind   { return KindDrop }
func (d *Drop) String() string {
	return fmt.Sprintf("Drop(%s)", datasetName(d.Dataset))
}

// ----- Datasets -----

// Dataset describes a target table. Database and Group are optional
// qualifiers (project/dataset on BigQuery, database/schema on Snowflake).
type Dataset struct {
	Database string
	Group    string
	Name     string

	Fields        []*Field
	PrimaryKey    *PrimaryKey
	UniqueKeys    []*UniqueKey
	PartitionKeys []*PartitionKey
	ClusterKeys   []*ClusterKey
}

func (*Dataset) logicalNode() {}
func (*Dataset) Kind() Kind   { return KindDataset }
func (d *Dataset) String() string {
	return fmt.Sprintf("Dataset(%s)", datasetName(d))
}

// QualifiedName returns the non-empty name parts, outermost first.
func (d *Dataset) QualifiedName() []string {
	parts := make([]string, 0, 3)
	for _, p := range []string{d.Database, d.Group, d.Name} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// Children returns the nodes a dataset expands into, in rendering order:
// fields, primary key, unique keys, partition keys, cluster keys.
//
// Nil entries are kept in place; the engine rejects them.
func (d *Dataset) Children() []Node {
	out := make([]Node, 0, len(d.Fields)+len(d.UniqueKeys)+len(d.PartitionKeys)+len(d.ClusterKeys)+1)
	for _, f := range d.Fields {
		out = append(out, f)
	}
	if d.PrimaryKey != nil {
		out = append(out, d.PrimaryKey)
	}
	for _, u := range d.UniqueKeys {
		out = append(out, u)
	}
	for _, p := range d.PartitionKeys {
		out = append(out, p)
	}
	for _, c := range d.ClusterKeys {
		out = append(out, c)
	}
	return out
}

type Field struct {
	Name     string
	Type     FieldType
	Length   int // optional; TEXT/BYTES size or DECIMAL precision
	Nullable bool
}

func (*Field) logicalNode() {}
func (*Field) Kind() Kind   { return KindField }
func (f *Field) String() string {
	return fmt.Sprintf("Field(%s %s)", f.Name, f.Type)
}

// FieldRef points at a field of the enclosing dataset by name.
type FieldRef struct {
	Name string
}

func (*FieldRef) logicalNode() {}
func (*FieldRef) Kind() Kind   { return KindFieldRef }
func (r *FieldRef) String() string {
	return fmt.Sprintf("FieldRef(%s)", r.Name)
}

// ----- Keys and constraints -----

type PrimaryKey struct {
	Fields []*FieldRef
}

func (*PrimaryKey) logicalNode() {}
func (*PrimaryKey) Kind() Kind   { return KindPrimaryKey }
func (p *PrimaryKey) String() string {
	return fmt.Sprintf("PrimaryKey(%s)", refNames(p.Fields))
}

type UniqueKey struct {
	Fields []*FieldRef
}

func (*UniqueKey) logicalNode() {}
func (*UniqueKey) Kind() Kind   { return KindUniqueKey }
func (u *UniqueKey) String() string {
	return fmt.Sprintf("UniqueKey(%s)", refNames(u.Fields))
}

type PartitionKey struct {
	Key *FieldRef
}

func (*PartitionKey) logicalNode() {}
func (*PartitionKey) Kind() Kind   { return KindPartitionKey }
func (p *PartitionKey) String() string {
	return fmt.Sprintf("PartitionKey(%s)", refName(p.Key))
}

type ClusterKey struct {
	Key *FieldRef
}

func (*ClusterKey) logicalNode() {}
func (*ClusterKey) Kind() Kind   { return KindClusterKey }
func (c *ClusterKey) String() string {
	return fmt.Sprintf("ClusterKey(%s)", refName(c.Key))
}

// IsNil reports whether n is nil or a nil pointer of one of the variants,
// as found in a slice such as Dataset.Fields.
func IsNil(n Node) bool {
	switch v := n.(type) {
	case nil:
		return true
	case *Create:
		return v == nil
	case *Drop:
		return v == nil
	case *Dataset:
		return v == nil
	case *Field:
		return v == nil
	case *FieldRef:
		return v == nil
	case *PrimaryKey:
		return v == nil
	case *UniqueKey:
		return v == nil
	case *PartitionKey:
		return v == nil
	case *ClusterKey:
		return v == nil
	}
	return false
}

// RefNodes converts field refs to nodes, keeping order. Nil refs are kept
// so the lowering reports them instead of silently dropping a column.
func RefNodes(refs []*FieldRef) []Node {
	out := make([]Node, 0, len(refs))
	for _, r := range refs {
		out = append(out, r)
	}
	return out
}

func datasetName(d *Dataset) string {
	if d == nil {
		return "<nil>"
	}
	return strings.Join(d.QualifiedName(), ".")
}

func refName(r *FieldRef) string {
	if r == nil {
		return "<nil>"
	}
	return r.Name
}

func refNames(refs []*FieldRef) string {
	names := make([]string, 0, len(refs))
	for _, r := range refs {
		names = append(names, refName(r))
	}
	return strings.Join(names, ", ")
}
