// Package novaddl lowers logical DDL plans into physical plans for one
// warehouse dialect.
package novaddl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/tuannm99/novaddl/internal"
	"github.com/tuannm99/novaddl/internal/dialect"
	"github.com/tuannm99/novaddl/internal/logicalplan"
	"github.com/tuannm99/novaddl/internal/lowering"
	"github.com/tuannm99/novaddl/internal/physicalplan"
	"github.com/tuannm99/novaddl/internal/relational"
)

var ErrUnknownDialect = errors.New("novaddl: unknown dialect")

type Lowerer struct {
	engine  *lowering.Engine
	vctx    lowering.VisitorContext
	workers int
}

// NewLowerer resolves cfg.Dialect against the built-in profiles plus the
// ones in cfg.ProfilesFile. A nil registry means relational.Default().
func NewLowerer(cfg *internal.NovaDDLConfig, reg *lowering.Registry, logger *slog.Logger) (*Lowerer, error) {
	catalog, err := Catalog(cfg.ProfilesFile)
	if err != nil {
		return nil, err
	}
	profile, ok := catalog.Lookup(dialect.Name(cfg.Dialect))
	if !ok {
		return nil, fmt.Errorf("%w %q (known: %v)", ErrUnknownDialect, cfg.Dialect, catalog.Names())
	}
	opts, err := cfg.LowerOptions()
	if err != nil {
		return nil, fmt.Errorf("novaddl: %w", err)
	}
	if reg == nil {
		reg = relational.Default()
	}

	return &Lowerer{
		engine:  lowering.New(reg, lowering.WithLogger(logger)),
		vctx:    lowering.NewVisitorContext(profile, opts),
		workers: cfg.Workers,
	}, nil
}

// Catalog returns the built-in profiles, extended by the YAML file at path
// when path is not empty.
func Catalog(path string) (*dialect.Catalog, error) {
	c := dialect.DefaultCatalog()
	if path == "" {
		return c, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("novaddl: open profiles: %w", err)
	}
	defer f.Close()

	if err := c.LoadProfiles(f); err != nil {
		return nil, fmt.Errorf("novaddl: %s: %w", path, err)
	}
	return c, nil
}

func (l *Lowerer) Dialect() dialect.Name { return l.vctx.Dialect() }

// Check reports every node kind the registry cannot lower for this dialect.
func (l *Lowerer) Check() error {
	return l.engine.Registry().Check(l.vctx.Dialect())
}

// Lower lowers nodes under a fresh tree rooted at root.
func (l *Lowerer) Lower(root physicalplan.Node, nodes ...logicalplan.Node) (*lowering.Plan, error) {
	return l.engine.Transform(l.vctx, root, nodes...)
}

// LowerFile decodes a YAML plan and lowers every operation under a
// Statements root.
func (l *Lowerer) LowerFile(r io.Reader) (*lowering.Plan, error) {
	nodes, err := logicalplan.DecodeYAML(r)
	if err != nil {
		return nil, fmt.Errorf("novaddl: %w", err)
	}
	return l.Lower(physicalplan.Statements{}, nodes...)
}

// LowerFiles decodes every reader, then lowers the plans concurrently with
// at most cfg.Workers in flight. Plans come back in reader order.
func (l *Lowerer) LowerFiles(ctx context.Context, readers []io.Reader) ([]*lowering.Plan, error) {
	jobs := make([]lowering.Job, 0, len(readers))
	for i, r := range readers {
		nodes, err := logicalplan.DecodeYAML(r)
		if err != nil {
			return nil, fmt.Errorf("novaddl: plan %d: %w", i, err)
		}
		jobs = append(jobs, lowering.Job{Root: physicalplan.Statements{}, Nodes: nodes})
	}
	return lowering.LowerAll(ctx, l.engine, l.vctx, jobs, l.workers)
}
