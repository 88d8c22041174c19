package lowering

import (
	"fmt"
	"sync/atomic"

	"go.uber.org/multierr"

	"github.com/tuannm99/novaddl/internal/dialect"
	"github.com/tuannm99/novaddl/internal/logicalplan"
	"github.com/tuannm99/novaddl/internal/physicalplan"
)

// Visitor lowers one logical node. It attaches at most one fragment under
// prev (or under a node reachable from it) and returns that fragment with the
// logical nodes still to lower. Visitors must be pure: no I/O and no state
// kept between calls.
type Visitor func(tree *physicalplan.Tree, prev physicalplan.Handle, current logicalplan.Node, vctx VisitorContext) (Result, error)

type ruleKey struct {
	kind    logicalplan.Kind
	dialect dialect.Name
}

// Registry maps (kind, dialect) to visitors. A rule registered for
// dialect.Neutral is the fallback for every dialect without its own rule.
//
// Registration happens during initialization. After Seal the registry is
// read-only and safe to share between goroutines.
type Registry struct {
	rules  map[ruleKey]Visitor
	sealed atomic.Bool
}

func NewRegistry() *Registry {
	return &Registry{rules: make(map[ruleKey]Visitor)}
}

// Register installs v for (kind, d). Registering the same key twice, or
// registering after Seal, panics.
func (r *Registry) Register(kind logicalplan.Kind, d dialect.Name, v Visitor) {
	if r.sealed.Load() {
		panic(fmt.Sprintf("lowering: register %s/%s on sealed registry", kind, d))
	}
	if v == nil {
		panic(fmt.Sprintf("lowering: nil visitor for %s/%s", kind, d))
	}
	k := ruleKey{kind: kind, dialect: d}
	if _, dup := r.rules[k]; dup {
		panic(fmt.Sprintf("lowering: duplicate visitor for %s/%s", kind, d))
	}
	r.rules[k] = v
}

// Seal freezes the registry.
func (r *Registry) Seal() *Registry {
	r.sealed.Store(true)
	return r
}

func (r *Registry) Sealed() bool { return r.sealed.Load() }

// Resolve returns the rule for (kind, d), falling back to the neutral rule.
func (r *Registry) Resolve(kind logicalplan.Kind, d dialect.Name) (Visitor, error) {
	if d != dialect.Neutral {
		if v, ok := r.rules[ruleKey{kind: kind, dialect: d}]; ok {
			return v, nil
		}
	}
	if v, ok := r.rules[ruleKey{kind: kind, dialect: dialect.Neutral}]; ok {
		return v, nil
	}
	return nil, &RegistryMissError{Kind: kind, Dialect: d}
}

// Check resolves every kind for d and returns all misses at once. With no
// kinds given it checks logicalplan.Kinds().
func (r *Registry) Check(d dialect.Name, kinds ...logicalplan.Kind) error {
	if len(kinds) == 0 {
		kinds = logicalplan.Kinds()
	}
	var err error
	for _, k := range kinds {
		if _, rerr := r.Resolve(k, d); rerr != nil {
			err = multierr.Append(err, rerr)
		}
	}
	return err
}
