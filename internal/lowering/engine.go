// Package lowering turns logical plans into dialect-specific physical plans.
//
// The Engine drives a work-list traversal: it pops a pending logical node,
// resolves the visitor registered for (node kind, dialect), lets the visitor
// attach its fragment to the physical tree and queues the follow-up nodes the
// visitor returns. Recursion lives in the queue, not on the call stack.
package lowering

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tuannm99/novaddl/internal/dialect"
	"github.com/tuannm99/novaddl/internal/logicalplan"
	"github.com/tuannm99/novaddl/internal/physicalplan"
)

// Pending is a logical node waiting to be lowered under Parent.
type Pending struct {
	Node   logicalplan.Node
	Parent physicalplan.Handle
}

// Result is what one visitor call produced.
type Result struct {
	// Fragment is the node the visitor attached, or physicalplan.None.
	Fragment physicalplan.Handle
	// Next is lowered after this visit, in order.
	Next []Pending
}

// Emit returns a result whose follow-ups attach under fragment.
func Emit(fragment physicalplan.Handle, next ...logicalplan.Node) Result {
	return Result{Fragment: fragment, Next: under(fragment, next)}
}

// EmitUnder returns a result whose follow-ups attach under parent instead
// of under the fragment.
func EmitUnder(fragment, parent physicalplan.Handle, next ...logicalplan.Node) Result {
	return Result{Fragment: fragment, Next: under(parent, next)}
}

func under(parent physicalplan.Handle, nodes []logicalplan.Node) []Pending {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]Pending, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, Pending{Node: n, Parent: parent})
	}
	return out
}

// Plan is a finished physical plan.
type Plan struct {
	ID      uuid.UUID
	Dialect dialect.Name
	Tree    *physicalplan.Tree
	// Visited counts the logical nodes lowered.
	Visited int
}

// Engine lowers logical plans with the rules of one Registry. It holds no
// per-traversal state and is safe for concurrent use once the registry is sealed.
type Engine struct {
	registry *Registry
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger for traversal records. Nil keeps slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New returns an engine resolving rules from reg.
func New(reg *Registry, opts ...Option) *Engine {
	e := &Engine{registry: reg, logger: slog.Default()}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Registry returns the registry the engine resolves rules from.
func (e *Engine) Registry() *Registry { return e.registry }

// Transform lowers roots under a fresh tree whose root node is root.
func (e *Engine) Transform(vctx VisitorContext, root physicalplan.Node, roots ...logicalplan.Node) (*Plan, error) {
	id := uuid.New()
	tree := physicalplan.NewTree(root)

	visited, err := e.lower(id, tree, tree.Root(), vctx, roots)
	if err != nil {
		return nil, err
	}

	e.logger.Info("lowered plan",
		"traversal", id,
		"dialect", vctx.Dialect(),
		"visited", visited,
		"physical_nodes", tree.Len(),
	)
	return &Plan{ID: id, Dialect: vctx.Dialect(), Tree: tree, Visited: visited}, nil
}

// Lower lowers roots under parent in an existing tree and returns the number
// of logical nodes visited. On error the tree may hold a partial result and
// should be discarded.
func (e *Engine) Lower(tree *physicalplan.Tree, parent physicalplan.Handle, vctx VisitorContext, roots ...logicalplan.Node) (int, error) {
	return e.lower(uuid.New(), tree, parent, vctx, roots)
}

func (e *Engine) lower(
	id uuid.UUID,
	tree *physicalplan.Tree,
	parent physicalplan.Handle,
	vctx VisitorContext,
	roots []logicalplan.Node,
) (int, error) {
	if !tree.Valid(parent) {
		return 0, fmt.Errorf("lowering: invalid parent handle %d", parent)
	}

	queue := under(parent, roots)
	seen := make(map[logicalplan.Node]struct{}, len(roots))
	visited := 0

	for head := 0; head < len(queue); head++ {
		p := queue[head]
		queue[head] = Pending{}

		if p.Node == nil {
			return visited, fmt.Errorf("%w: nil logical node under handle %d", ErrVisitorFailure, p.Parent)
		}
		if logicalplan.IsNil(p.Node) {
			return visited, fmt.Errorf("%w: nil %s node under handle %d", ErrVisitorFailure, p.Node.Kind(), p.Parent)
		}
		if _, dup := seen[p.Node]; dup {
			return visited, &VisitorError{
				Kind: p.Node.Kind(),
				Node: p.Node.String(),
				Err:  errors.New("node reached twice"),
			}
		}
		seen[p.Node] = struct{}{}

		visit, err := e.registry.Resolve(p.Node.Kind(), vctx.Dialect())
		if err != nil {
			e.logger.Error("lowering aborted", "traversal", id, "err", err)
			return visited, err
		}

		res, err := visit(tree, p.Parent, p.Node, vctx)
		if err != nil {
			err = classify(p.Node, err)
			e.logger.Error("lowering aborted", "traversal", id, "node", p.Node.String(), "err", err)
			return visited, err
		}
		visited++

		e.logger.Debug("visited",
			"traversal", id,
			"node", p.Node.String(),
			"fragment", res.Fragment,
			"next", len(res.Next),
		)

		for _, n := range res.Next {
			if !tree.Valid(n.Parent) {
				return visited, &VisitorError{
					Kind: p.Node.Kind(),
					Node: p.Node.String(),
					Err:  fmt.Errorf("follow-up %v attached to invalid handle %d", n.Node, n.Parent),
				}
			}
		}
		queue = append(queue, res.Next...)
	}
	return visited, nil
}

// classify keeps typed lowering errors as they are and wraps anything else
// as a failure of node's visitor.
func classify(node logicalplan.Node, err error) error {
	var (
		ve *VisitorError
		ue *UnsupportedFeatureError
		me *RegistryMissError
	)
	if errors.As(err, &ve) || errors.As(err, &ue) || errors.As(err, &me) {
		return err
	}
	return &VisitorError{Kind: node.Kind(), Node: node.String(), Err: err}
}
