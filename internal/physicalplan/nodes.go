package physicalplan

import (
	"fmt"
	"strings"
)

// Node is a dialect-specific SQL construct. Identifiers and type names are
// already in the target dialect's syntax; the renderer only lays them out.
type Node interface {
	String() string
	physicalNode()
}

// Statements is the top-level container for a batch of DDL statements.
type Statements struct{}

func (Statements) physicalNode()  {}
func (Statements) String() string { return "Statements" }

type CreateTable struct {
	IfNotExists bool
}

func (CreateTable) physicalNode() {}
func (c CreateTable) String() string {
	if c.IfNotExists {
		return "CreateTable IF NOT EXISTS"
	}
	return "CreateTable"
}

type DropTable struct {
	Name     string
	IfExists bool
}

func (DropTable) physicalNode() {}
func (d DropTable) String() string {
	if d.IfExists {
		return "DropTable IF EXISTS " + d.Name
	}
	return "DropTable " + d.Name
}

type Table struct {
	Name string
}

func (Table) physicalNode()    {}
func (t Table) String() string { return fmt.Sprintf("Table(%s)", t.Name) }

type ColumnDef struct {
	Name     string
	Type     string
	Nullable bool
}

func (ColumnDef) physicalNode() {}
func (c ColumnDef) String() string {
	var b strings.Builder
	b.WriteString("ColumnDef(")
	b.WriteString(c.Name)
	b.WriteByte(' ')
	b.WriteString(c.Type)
	if !c.Nullable {
		b.WriteString(" NOT NULL")
	}
	b.WriteByte(')')
	return b.String()
}

type ColumnRef struct {
	Name string
}

func (ColumnRef) physicalNode()    {}
func (c ColumnRef) String() string { return fmt.Sprintf("ColumnRef(%s)", c.Name) }

// ----- Table constraints -----

type PrimaryKeyConstraint struct {
	NotEnforced bool
}

func (PrimaryKeyConstraint) physicalNode() {}
func (p PrimaryKeyConstraint) String() string {
	if p.NotEnforced {
		return "PrimaryKeyConstraint NOT ENFORCED"
	}
	return "PrimaryKeyConstraint"
}

type UniqueConstraint struct{}

func (UniqueConstraint) physicalNode()  {}
func (UniqueConstraint) String() string { return "UniqueConstraint" }

type PartitionKeyConstraint struct{}

func (PartitionKeyConstraint) physicalNode()  {}
func (PartitionKeyConstraint) String() string { return "PartitionKeyConstraint" }

type ClusterKeyConstraint struct{}

func (ClusterKeyConstraint) physicalNode()  {}
func (ClusterKeyConstraint) String() string { return "ClusterKeyConstraint" }
