package dialect

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuannm99/novaddl/internal/logicalplan"
)

func TestFeatureString(t *testing.T) {
	require.Equal(t, "none", Feature(0).String())
	require.Equal(t, "partition_key", FeaturePartitionKey.String())
	require.Equal(t, "cluster_key|if_exists", (FeatureClusterKey | FeatureIfExists).String())
	require.Equal(t, "partition_key|0x100", (FeaturePartitionKey | Feature(0x100)).String())
}

func TestParseFeature(t *testing.T) {
	f, err := ParseFeature(" Cluster_Key ")
	require.NoError(t, err)
	require.Equal(t, FeatureClusterKey, f)

	_, err = ParseFeature("time_travel")
	require.Error(t, err)
}

func TestProfileHas(t *testing.T) {
	require.True(t, BigQueryProfile.Has(FeaturePartitionKey))
	require.True(t, BigQueryProfile.Has(FeaturePartitionKey|FeatureClusterKey))
	require.False(t, BigQueryProfile.Has(FeatureUniqueConstraint))
	require.False(t, SnowflakeProfile.Has(FeaturePartitionKey))
	require.True(t, ANSIProfile.Has(FeatureEnforcedPrimaryKey))
}

func TestNameString(t *testing.T) {
	require.Equal(t, "<neutral>", Neutral.String())
	require.Equal(t, "bigquery", BigQuery.String())
}

func TestBuiltinProfilesMapEveryType(t *testing.T) {
	for _, p := range []Profile{BigQueryProfile, SnowflakeProfile} {
		for ft := logicalplan.FieldType(0); ft < logicalplan.NumFieldTypes; ft++ {
			require.NotEmpty(t, p.Types[ft], "%s has no type for %s", p.Name, ft)
		}
	}
	// ANSI has no JSON type
	require.Empty(t, ANSIProfile.Types[logicalplan.TypeJSON])
}

func TestCatalog(t *testing.T) {
	c := DefaultCatalog()
	require.Equal(t, []Name{ANSI, BigQuery, Snowflake}, c.Names())

	p, ok := c.Lookup("BigQuery")
	require.True(t, ok)
	require.Equal(t, BigQueryProfile, p)

	_, ok = c.Lookup("oracle")
	require.False(t, ok)

	c.Add(Profile{Name: "Oracle"})
	p, ok = c.Lookup("oracle")
	require.True(t, ok)
	require.Equal(t, Name("oracle"), p.Name)

	c.Add(Profile{Name: "BigQuery", Features: FeaturePartitionKey})
	require.Equal(t, BigQuery, mustLookup(t, c, BigQuery).Name)
}

func TestLoadProfiles(t *testing.T) {
	t.Run("with_base", func(t *testing.T) {
		c := DefaultCatalog()
		err := c.LoadProfiles(strings.NewReader(`
profiles:
  - name: DuckDB
    base: ansi
    features: [if_not_exists, cluster_key]
    types: {json: JSON, int64: HUGEINT}
`))
		require.NoError(t, err)

		p, ok := c.Lookup("duckdb")
		require.True(t, ok)
		require.Equal(t, Name("duckdb"), p.Name)
		require.Equal(t, `"`, p.QuoteOpen)
		require.Equal(t, FeatureIfNotExists|FeatureClusterKey, p.Features)
		require.Equal(t, "JSON", p.Types[logicalplan.TypeJSON])
		require.Equal(t, "HUGEINT", p.Types[logicalplan.TypeInt64])
		require.Equal(t, "VARCHAR", p.Types[logicalplan.TypeText])

		// base untouched
		require.Equal(t, ANSIProfile, mustLookup(t, c, ANSI))
	})

	t.Run("inherit_features_and_asymmetric_quote", func(t *testing.T) {
		c := DefaultCatalog()
		require.NoError(t, c.LoadProfiles(strings.NewReader(`
profiles:
  - {name: tsql, base: ansi, quote: "[]"}
`)))
		p := mustLookup(t, c, "tsql")
		require.Equal(t, "[", p.QuoteOpen)
		require.Equal(t, "]", p.QuoteClose)
		require.Equal(t, ANSIProfile.Features, p.Features)
	})

	t.Run("multibyte_quote", func(t *testing.T) {
		c := DefaultCatalog()
		require.NoError(t, c.LoadProfiles(strings.NewReader(`
profiles:
  - {name: guillemet, base: ansi, quote: "«"}
  - {name: chevrons, base: ansi, quote: "«»"}
`)))
		p := mustLookup(t, c, "guillemet")
		require.Equal(t, "«", p.QuoteOpen)
		require.Equal(t, "«", p.QuoteClose)

		p = mustLookup(t, c, "chevrons")
		require.Equal(t, "«", p.QuoteOpen)
		require.Equal(t, "»", p.QuoteClose)
	})

	t.Run("empty", func(t *testing.T) {
		require.NoError(t, DefaultCatalog().LoadProfiles(strings.NewReader("")))
	})

	errCases := map[string]string{
		"missing_name":  "profiles:\n  - {base: ansi}\n",
		"unknown_base":  "profiles:\n  - {name: x, base: oracle}\n",
		"bad_feature":   "profiles:\n  - {name: x, features: [time_travel]}\n",
		"bad_type":      "profiles:\n  - {name: x, types: {geography: GEOGRAPHY}}\n",
		"bad_quote":     "profiles:\n  - {name: x, quote: \"<<>>\"}\n",
		"three_runes":   "profiles:\n  - {name: x, quote: \"«»«\"}\n",
		"unknown_field": "profiles:\n  - {name: x, dialect: y}\n",
	}
	for name, doc := range errCases {
		t.Run(name, func(t *testing.T) {
			require.Error(t, DefaultCatalog().LoadProfiles(strings.NewReader(doc)))
		})
	}
}

func mustLookup(t *testing.T, c *Catalog, n Name) Profile {
	t.Helper()
	p, ok := c.Lookup(n)
	require.True(t, ok, "profile %s not found", n)
	return p
}
