// Package dialect describes the syntax and feature profile of the warehouse
// engines a logical plan can be lowered to.
package dialect

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tuannm99/novaddl/internal/logicalplan"
)

// Name identifies a dialect. Neutral keys rules that apply to every dialect.
type Name string

const (
	Neutral   Name = ""
	ANSI      Name = "ansi"
	BigQuery  Name = "bigquery"
	Snowflake Name = "snowflake"
)

func (n Name) String() string {
	if n == Neutral {
		return "<neutral>"
	}
	return string(n)
}

// Feature is a bit set of constructs a dialect can express.
type Feature uint32

const (
	FeaturePartitionKey Feature = 1 << iota
	FeatureClusterKey
	FeatureEnforcedPrimaryKey
	FeatureUniqueConstraint
	FeatureIfNotExists
	FeatureIfExists
)

var featureNames = []struct {
	f    Feature
	name string
}{
	{FeaturePartitionKey, "partition_key"},
	{FeatureClusterKey, "cluster_key"},
	{FeatureEnforcedPrimaryKey, "enforced_primary_key"},
	{FeatureUniqueConstraint, "unique_constraint"},
	{FeatureIfNotExists, "if_not_exists"},
	{FeatureIfExists, "if_exists"},
}

func (f Feature) String() string {
	if f == 0 {
		return "none"
	}
	var parts []string
	for _, fn := range featureNames {
		if f&fn.f != 0 {
			parts = append(parts, fn.name)
			f &^= fn.f
		}
	}
	if f != 0 {
		parts = append(parts, fmt.Sprintf("0x%x", uint32(f)))
	}
	return strings.Join(parts, "|")
}

func ParseFeature(s string) (Feature, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, fn := range featureNames {
		if fn.name == s {
			return fn.f, nil
		}
	}
	return 0, fmt.Errorf("dialect: unknown feature %q", s)
}

// Profile is the static description of one dialect. It holds only
// comparable values so that copies can be checked with ==.
type Profile struct {
	Name       Name
	QuoteOpen  string
	QuoteClose string
	Features   Feature
	// Types maps every logical field type to the dialect's type name. An
	// empty entry means the dialect has no equivalent.
	Types [logicalplan.NumFieldTypes]string
}

func (p Profile) Has(f Feature) bool {
	return p.Features&f == f
}

var ANSIProfile = Profile{
	Name:       ANSI,
	QuoteOpen:  `"`,
	QuoteClose: `"`,
	Features:   FeatureEnforcedPrimaryKey | FeatureUniqueConstraint | FeatureIfNotExists | FeatureIfExists,
	Types: [logicalplan.NumFieldTypes]string{
		logicalplan.TypeInt32:     "INTEGER",
		logicalplan.TypeInt64:     "BIGINT",
		logicalplan.TypeBool:      "BOOLEAN",
		logicalplan.TypeFloat64:   "DOUBLE PRECISION",
		logicalplan.TypeDecimal:   "DECIMAL",
		logicalplan.TypeText:      "VARCHAR",
		logicalplan.TypeBytes:     "VARBINARY",
		logicalplan.TypeDate:      "DATE",
		logicalplan.TypeTimestamp: "TIMESTAMP",
	},
}

var BigQueryProfile = Profile{
	Name:       BigQuery,
	QuoteOpen:  "`",
	QuoteClose: "`",
	Features:   FeaturePartitionKey | FeatureClusterKey | FeatureIfNotExists | FeatureIfExists,
	Types: [logicalplan.NumFieldTypes]string{
		logicalplan.TypeInt32:     "INT64",
		logicalplan.TypeInt64:     "INT64",
		logicalplan.TypeBool:      "BOOL",
		logicalplan.TypeFloat64:   "FLOAT64",
		logicalplan.TypeDecimal:   "NUMERIC",
		logicalplan.TypeText:      "STRING",
		logicalplan.TypeBytes:     "BYTES",
		logicalplan.TypeDate:      "DATE",
		logicalplan.TypeTimestamp: "TIMESTAMP",
		logicalplan.TypeJSON:      "JSON",
	},
}

var SnowflakeProfile = Profile{
	Name:       Snowflake,
	QuoteOpen:  `"`,
	QuoteClose: `"`,
	Features:   FeatureClusterKey | FeatureUniqueConstraint | FeatureIfNotExists | FeatureIfExists,
	Types: [logicalplan.NumFieldTypes]string{
		logicalplan.TypeInt32:     "INTEGER",
		logicalplan.TypeInt64:     "BIGINT",
		logicalplan.TypeBool:      "BOOLEAN",
		logicalplan.TypeFloat64:   "DOUBLE",
		logicalplan.TypeDecimal:   "NUMBER",
		logicalplan.TypeText:      "VARCHAR",
		logicalplan.TypeBytes:     "BINARY",
		logicalplan.TypeDate:      "DATE",
		logicalplan.TypeTimestamp: "TIMESTAMP_NTZ",
		logicalplan.TypeJSON:      "VARIANT",
	},
}

// Catalog is a set of profiles addressable by name.
type Catalog struct {
	profiles map[Name]Profile
}

func NewCatalog(profiles ...Profile) *Catalog {
	c := &Catalog{profiles: make(map[Name]Profile, len(profiles))}
	for _, p := range profiles {
		c.Add(p)
	}
	return c
}

// DefaultCatalog holds the built-in profiles.
func DefaultCatalog() *Catalog {
	return NewCatalog(ANSIProfile, BigQueryProfile, SnowflakeProfile)
}

func (c *Catalog) Lookup(name Name) (Profile, bool) {
	p, ok := c.profiles[Name(strings.ToLower(string(name)))]
	return p, ok
}

// Add installs p, replacing any profile with the same name. Names are
// matched case-insensitively.
// Add stores p under its lowercased name. The stored profile carries the
// lowercased name too, since lowering resolves rules by it.
func (c *Catalog) Add(p Profile) {
	p.Name = Name(strings.ToLower(string(p.Name)))
	c.profiles[p.Name] = p
}

// Names returns the profile names in sorted order.
func (c *Catalog) Names() []Name {
	names := make([]Name, 0, len(c.profiles))
	for n := range c.profiles {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}
