// Package relational wires the built-in dialect rules into a registry.
package relational

import (
	"github.com/tuannm99/novaddl/internal/lowering"
	"github.com/tuannm99/novaddl/internal/relational/ansi"
	"github.com/tuannm99/novaddl/internal/relational/bigquery"
	"github.com/tuannm99/novaddl/internal/relational/snowflake"
)

// Register installs the neutral rules and every built-in dialect's overrides.
func Register(r *lowering.Registry) {
	ansi.Register(r)
	bigquery.Register(r)
	snowflake.Register(r)
}

// Default returns a sealed registry holding the built-in rules.
func Default() *lowering.Registry {
	r := lowering.NewRegistry()
	Register(r)
	return r.Seal()
}
