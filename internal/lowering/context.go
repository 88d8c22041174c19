package lowering

import (
	"fmt"
	"strings"

	"github.com/tuannm99/novaddl/internal/dialect"
	"github.com/tuannm99/novaddl/internal/logicalplan"
)

// Case is the naming convention applied to identifiers.
type Case uint8

const (
	CasePreserve Case = iota
	CaseUpper
	CaseLower
)

func (c Case) String() string {
	switch c {
	case CaseUpper:
		return "upper"
	case CaseLower:
		return "lower"
	default:
		return "preserve"
	}
}

func ParseCase(s string) (Case, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "preserve", "none":
		return CasePreserve, nil
	case "upper":
		return CaseUpper, nil
	case "lower":
		return CaseLower, nil
	default:
		return CasePreserve, fmt.Errorf("lowering: unknown case convention %q", s)
	}
}

// Options are the caller's naming choices for one traversal.
type Options struct {
	QuoteIdentifiers bool
	Case             Case
}

// VisitorContext is the read-only configuration shared by every visitor of a
// traversal. It is a plain value: copies compare equal with ==.
type VisitorContext struct {
	profile dialect.Profile
	options Options
}

func NewVisitorContext(profile dialect.Profile, opts Options) VisitorContext {
	return VisitorContext{profile: profile, options: opts}
}

func (c VisitorContext) Dialect() dialect.Name { return c.profile.Name }

func (c VisitorContext) Profile() dialect.Profile { return c.profile }

func (c VisitorContext) Options() Options { return c.options }

// Supports reports whether the active dialect can express every feature in f.
func (c VisitorContext) Supports(f dialect.Feature) bool { return c.profile.Has(f) }

// Identifier formats a single name according to the case convention and,
// when quoting is on, the dialect's quote characters. A closing quote
// inside the name is doubled.
func (c VisitorContext) Identifier(name string) string {
	switch c.options.Case {
	case CaseUpper:
		name = strings.ToUpper(name)
	case CaseLower:
		name = strings.ToLower(name)
	}
	if !c.options.QuoteIdentifiers || c.profile.QuoteOpen == "" {
		return name
	}
	q := c.profile.QuoteClose
	if q == "" {
		q = c.profile.QuoteOpen
	}
	return c.profile.QuoteOpen + strings.ReplaceAll(name, q, q+q) + q
}

// QualifiedName formats and dot-joins the given name parts.
func (c VisitorContext) QualifiedName(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, c.Identifier(p))
	}
	return strings.Join(out, ".")
}

// TypeName returns the dialect's spelling of t, or false when the dialect
// has no equivalent type.
func (c VisitorContext) TypeName(t logicalplan.FieldType) (string, bool) {
	if t >= logicalplan.NumFieldTypes {
		return "", false
	}
	name := c.profile.Types[t]
	return name, name != ""
}
