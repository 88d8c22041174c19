package physicalplan

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestTree_PushKeepsInsertionOrder(t *testing.T) {
	tr := NewTree(Table{Name: "orders"})
	root := tr.Root()

	a := tr.Push(root, ColumnDef{Name: "a", Type: "INT64", Nullable: true})
	b := tr.Push(root, ColumnDef{Name: "b", Type: "DATE"})
	pk := tr.Push(root, PartitionKeyConstraint{})
	ref := tr.Push(pk, ColumnRef{Name: "b"})

	require.Equal(t, 5, tr.Len())
	require.Equal(t, []Handle{a, b, pk}, tr.Children(root))
	require.Equal(t, []Handle{ref}, tr.Children(pk))
	require.Empty(t, tr.Children(a))

	require.Equal(t, None, tr.Parent(root))
	require.Equal(t, root, tr.Parent(pk))
	require.Equal(t, pk, tr.Parent(ref))
	require.Equal(t, ColumnRef{Name: "b"}, tr.Node(ref))
}

func TestTree_ChildrenIsACopy(t *testing.T) {
	tr := NewTree(Statements{})
	tr.Push(tr.Root(), Table{Name: "t"})

	c := tr.Children(tr.Root())
	c[0] = 42
	require.Equal(t, []Handle{1}, tr.Children(tr.Root()))
}

func TestTree_PushInvalidHandlePanics(t *testing.T) {
	tr := NewTree(Statements{})
	require.Panics(t, func() { tr.Push(None, Table{}) })
	require.Panics(t, func() { tr.Push(7, Table{}) })
	require.Equal(t, 1, tr.Len())
}

func TestTree_Valid(t *testing.T) {
	tr := NewTree(Statements{})
	require.True(t, tr.Valid(tr.Root()))
	require.False(t, tr.Valid(None))
	require.False(t, tr.Valid(1))
}

func TestTree_WalkPreOrder(t *testing.T) {
	tr := NewTree(Statements{})
	ct := tr.Push(tr.Root(), CreateTable{})
	tbl := tr.Push(ct, Table{Name: "t"})
	tr.Push(tbl, ColumnDef{Name: "a", Type: "INT64"})
	pk := tr.Push(tbl, PrimaryKeyConstraint{})
	tr.Push(pk, ColumnRef{Name: "a"})
	tr.Push(tr.Root(), DropTable{Name: "old"})

	var got []string
	var depths []int
	tr.Walk(func(_ Handle, n Node, depth int) bool {
		got = append(got, n.String())
		depths = append(depths, depth)
		return true
	})

	require.Equal(t, []string{
		"Statements",
		"CreateTable",
		"Table(t)",
		"ColumnDef(a INT64 NOT NULL)",
		"PrimaryKeyConstraint",
		"ColumnRef(a)",
		"DropTable old",
	}, got)
	require.Equal(t, []int{0, 1, 2, 3, 3, 4, 1}, depths)
}

func TestTree_WalkSkipsChildren(t *testing.T) {
	tr := NewTree(Statements{})
	tbl := tr.Push(tr.Root(), Table{Name: "t"})
	tr.Push(tbl, ColumnDef{Name: "a"})
	tr.Push(tr.Root(), Table{Name: "u"})

	var seen int
	tr.Walk(func(_ Handle, n Node, _ int) bool {
		seen++
		_, isTable := n.(Table)
		return !isTable
	})
	require.Equal(t, 3, seen)
}

func TestTree_ShapeAndString(t *testing.T) {
	tr := NewTree(Table{Name: "orders"})
	pk := tr.Push(tr.Root(), PartitionKeyConstraint{})
	tr.Push(pk, ColumnRef{Name: "order_date"})

	want := Shape{
		Node: Table{Name: "orders"},
		Children: []Shape{{
			Node:     PartitionKeyConstraint{},
			Children: []Shape{{Node: ColumnRef{Name: "order_date"}}},
		}},
	}
	if diff := cmp.Diff(want, tr.Shape(tr.Root())); diff != "" {
		t.Fatalf("shape mismatch (-want +got):\n%s", diff)
	}

	require.Equal(t, "Table(orders)\n  PartitionKeyConstraint\n    ColumnRef(order_date)\n", tr.String())
}

func TestNodeStrings(t *testing.T) {
	require.Equal(t, "CreateTable IF NOT EXISTS", CreateTable{IfNotExists: true}.String())
	require.Equal(t, "DropTable IF EXISTS x", DropTable{Name: "x", IfExists: true}.String())
	require.Equal(t, "ColumnDef(a STRING)", ColumnDef{Name: "a", Type: "STRING", Nullable: true}.String())
	require.Equal(t, "PrimaryKeyConstraint NOT ENFORCED", PrimaryKeyConstraint{NotEnforced: true}.String())
	require.Equal(t, "UniqueConstraint", UniqueConstraint{}.String())
	require.Equal(t, "ClusterKeyConstraint", ClusterKeyConstraint{}.String())
}
