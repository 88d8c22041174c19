package logicalplan

import (
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// planFile is the on-disk shape of a logical plan:
//
//	operations:
//	  - create:
//	      if_not_exists: true
//	      dataset:
//	        name: orders
//	        fields:
//	          - {name: order_id, type: int64, nullable: false, primary_key: true}
//	          - {name: order_date, type: date}
//	        partition_keys: [order_date]
//	  - drop:
//	      dataset: {name: orders_old}
type planFile struct {
	Operations []operationSpec `yaml:"operations"`
}

type operationSpec struct {
	Create *struct {
		IfNotExists bool        `yaml:"if_not_exists"`
		Dataset     datasetSpec `yaml:"dataset"`
	} `yaml:"create"`
	Drop *struct {
		IfExists bool        `yaml:"if_exists"`
		Dataset  datasetSpec `yaml:"dataset"`
	} `yaml:"drop"`
}

type datasetSpec struct {
	Database      string      `yaml:"database"`
	Group         string      `yaml:"group"`
	Name          string      `yaml:"name"`
	Fields        []fieldSpec `yaml:"fields"`
	PrimaryKey    []string    `yaml:"primary_key"`
	UniqueKeys    [][]string  `yaml:"unique_keys"`
	PartitionKeys []string    `yaml:"partition_keys"`
	ClusterKeys   []string    `yaml:"cluster_keys"`
}

type fieldSpec struct {
	Name       string `yaml:"name"`
	Type       string `yaml:"type"`
	Length     int    `yaml:"length"`
	Nullable   *bool  `yaml:"nullable"`
	PrimaryKey bool   `yaml:"primary_key"`
}

// DecodeYAML reads a plan file and returns one root node per operation, in
// file order.
func DecodeYAML(r io.Reader) ([]Node, error) {
	var pf planFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&pf); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "logicalplan: decode plan")
	}

	nodes := make([]Node, 0, len(pf.Operations))
	for i, op := range pf.Operations {
		switch {
		case op.Create != nil && op.Drop != nil:
			return nil, errors.Errorf("logicalplan: operation %d: both create and drop set", i)
		case op.Create != nil:
			ds, err := op.Create.Dataset.build()
			if err != nil {
				return nil, errors.Wrapf(err, "logicalplan: operation %d", i)
			}
			nodes = append(nodes, &Create{Dataset: ds, IfNotExists: op.Create.IfNotExists})
		case op.Drop != nil:
			ds, err := op.Drop.Dataset.build()
			if err != nil {
				return nil, errors.Wrapf(err, "logicalplan: operation %d", i)
			}
			nodes = append(nodes, &Drop{Dataset: ds, IfExists: op.Drop.IfExists})
		default:
			return nil, errors.Errorf("logicalplan: operation %d: expected create or drop", i)
		}
	}
	return nodes, nil
}

func (s datasetSpec) build() (*Dataset, error) {
	if s.Name == "" {
		return nil, errors.New("dataset name is required")
	}
	ds := &Dataset{Database: s.Database, Group: s.Group, Name: s.Name}

	var pk []string
	for _, f := range s.Fields {
		if f.Name == "" {
			return nil, errors.Errorf("dataset %s: field name is required", s.Name)
		}
		typ, err := ParseFieldType(f.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "dataset %s: field %s", s.Name, f.Name)
		}
		nullable := !f.PrimaryKey
		if f.Nullable != nil {
			nullable = *f.Nullable
		}
		ds.Fields = append(ds.Fields, &Field{Name: f.Name, Type: typ, Length: f.Length, Nullable: nullable})
		if f.PrimaryKey {
			pk = append(pk, f.Name)
		}
	}

	switch {
	case len(pk) > 0 && len(s.PrimaryKey) > 0:
		return nil, errors.Errorf("dataset %s: primary key declared on fields and dataset", s.Name)
	case len(s.PrimaryKey) > 0:
		pk = s.PrimaryKey
	}
	if len(pk) > 0 {
		ds.PrimaryKey = &PrimaryKey{Fields: refs(pk)}
	}
	for _, u := range s.UniqueKeys {
		ds.UniqueKeys = append(ds.UniqueKeys, &UniqueKey{Fields: refs(u)})
	}
	for _, p := range s.PartitionKeys {
		ds.PartitionKeys = append(ds.PartitionKeys, &PartitionKey{Key: &FieldRef{Name: p}})
	}
	for _, c := range s.ClusterKeys {
		ds.ClusterKeys = append(ds.ClusterKeys, &ClusterKey{Key: &FieldRef{Name: c}})
	}
	return ds, nil
}

func refs(names []string) []*FieldRef {
	out := make([]*FieldRef, 0, len(names))
	for _, n := range names {
		out = append(out, &FieldRef{Name: n})
	}
	return out
}
