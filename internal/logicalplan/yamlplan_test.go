package logicalplan

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const ordersPlan = `
operations:
  - create:
      if_not_exists: true
      dataset:
        database: sales
        name: orders
        fields:
          - {name: order_id, type: int64, primary_key: true}
          - {name: order_date, type: date}
          - {name: customer_id, type: string, length: 64, nullable: false}
        unique_keys: [[customer_id, order_date]]
        partition_keys: [order_date]
        cluster_keys: [customer_id]
  - drop:
      if_exists: true
      dataset: {name: orders_old}
`

func TestDecodeYAML_CreateAndDrop(t *testing.T) {
	nodes, err := DecodeYAML(strings.NewReader(ordersPlan))
	require.NoError(t, err)
	require.Len(t, nodes, 2)

	create, ok := nodes[0].(*Create)
	require.True(t, ok)
	require.True(t, create.IfNotExists)

	ds := create.Dataset
	require.Equal(t, []string{"sales", "orders"}, ds.QualifiedName())
	require.Len(t, ds.Fields, 3)

	require.Equal(t, "order_id", ds.Fields[0].Name)
	require.Equal(t, TypeInt64, ds.Fields[0].Type)
	require.False(t, ds.Fields[0].Nullable)

	require.Equal(t, TypeDate, ds.Fields[1].Type)
	require.True(t, ds.Fields[1].Nullable)

	require.Equal(t, TypeText, ds.Fields[2].Type)
	require.Equal(t, 64, ds.Fields[2].Length)
	require.False(t, ds.Fields[2].Nullable)

	require.NotNil(t, ds.PrimaryKey)
	require.Equal(t, "PrimaryKey(order_id)", ds.PrimaryKey.String())
	require.Len(t, ds.UniqueKeys, 1)
	require.Equal(t, "UniqueKey(customer_id, order_date)", ds.UniqueKeys[0].String())
	require.Len(t, ds.PartitionKeys, 1)
	require.Equal(t, "order_date", ds.PartitionKeys[0].Key.Name)
	require.Len(t, ds.ClusterKeys, 1)
	require.Equal(t, "customer_id", ds.ClusterKeys[0].Key.Name)

	drop, ok := nodes[1].(*Drop)
	require.True(t, ok)
	require.True(t, drop.IfExists)
	require.Equal(t, "orders_old", drop.Dataset.Name)
}

func TestDecodeYAML_Empty(t *testing.T) {
	nodes, err := DecodeYAML(strings.NewReader(""))
	require.NoError(t, err)
	require.Empty(t, nodes)
}

func TestDecodeYAML_DatasetPrimaryKey(t *testing.T) {
	nodes, err := DecodeYAML(strings.NewReader(`
operations:
  - create:
      dataset:
        name: t
        fields:
          - {name: a, type: int}
          - {name: b, type: int}
        primary_key: [a, b]
`))
	require.NoError(t, err)
	ds := nodes[0].(*Create).Dataset
	require.Equal(t, "PrimaryKey(a, b)", ds.PrimaryKey.String())
	// declared on the dataset, so fields keep their default nullability
	require.True(t, ds.Fields[0].Nullable)
}

func TestDecodeYAML_Errors(t *testing.T) {
	cases := map[string]struct {
		doc  string
		want string
	}{
		"no_operation": {
			doc:  "operations:\n  - {}\n",
			want: "expected create or drop",
		},
		"both_operations": {
			doc:  "operations:\n  - create: {dataset: {name: a}}\n    drop: {dataset: {name: a}}\n",
			want: "both create and drop",
		},
		"missing_dataset_name": {
			doc:  "operations:\n  - create: {dataset: {}}\n",
			want: "dataset name is required",
		},
		"missing_field_name": {
			doc:  "operations:\n  - create: {dataset: {name: t, fields: [{type: int}]}}\n",
			want: "field name is required",
		},
		"bad_type": {
			doc:  "operations:\n  - create: {dataset: {name: t, fields: [{name: g, type: geography}]}}\n",
			want: "unsupported field type",
		},
		"double_primary_key": {
			doc:  "operations:\n  - create: {dataset: {name: t, primary_key: [a], fields: [{name: a, type: int, primary_key: true}]}}\n",
			want: "primary key declared on fields and dataset",
		},
		"unknown_field": {
			doc:  "operations:\n  - create: {dataset: {name: t, partitions: [a]}}\n",
			want: "decode plan",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeYAML(strings.NewReader(tc.doc))
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.want)
		})
	}
}
