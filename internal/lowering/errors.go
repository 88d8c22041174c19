package lowering

import (
	"errors"
	"fmt"

	"github.com/tuannm99/novaddl/internal/dialect"
	"github.com/tuannm99/novaddl/internal/logicalplan"
)

var (
	ErrRegistryMiss       = errors.New("lowering: no visitor registered")
	ErrVisitorFailure     = errors.New("lowering: visitor failed")
	ErrUnsupportedFeature = errors.New("lowering: feature not supported by dialect")
)

// RegistryMissError reports a (kind, dialect) pair with neither a dialect
// rule nor a neutral fallback. It is a configuration defect.
type RegistryMissError struct {
	Kind    logicalplan.Kind
	Dialect dialect.Name
}

func (e *RegistryMissError) Error() string {
	return fmt.Sprintf("lowering: no visitor registered for kind=%s dialect=%s", e.Kind, e.Dialect)
}

func (e *RegistryMissError) Is(target error) bool { return target == ErrRegistryMiss }

// VisitorError reports a visitor that rejected its input node.
type VisitorError struct {
	Kind logicalplan.Kind
	Node string
	Err  error
}

func (e *VisitorError) Error() string {
	return fmt.Sprintf("lowering: visit %s: %v", e.Node, e.Err)
}

func (e *VisitorError) Unwrap() error { return e.Err }

func (e *VisitorError) Is(target error) bool { return target == ErrVisitorFailure }

// UnsupportedFeatureError reports a construct the active dialect cannot
// express.
type UnsupportedFeatureError struct {
	Feature dialect.Feature
	Dialect dialect.Name
	Node    string
}

func (e *UnsupportedFeatureError) Error() string {
	if e.Node == "" {
		return fmt.Sprintf("lowering: feature %s not supported on dialect %s", e.Feature, e.Dialect)
	}
	return fmt.Sprintf("lowering: %s: feature %s not supported on dialect %s", e.Node, e.Feature, e.Dialect)
}

func (e *UnsupportedFeatureError) Is(target error) bool { return target == ErrUnsupportedFeature }

// Failf builds the error a visitor returns when node violates an assumption.
func Failf(node logicalplan.Node, format string, args ...any) error {
	return &VisitorError{Kind: node.Kind(), Node: node.String(), Err: fmt.Errorf(format, args...)}
}

// Unsupported builds the error a visitor returns when the dialect of vctx
// cannot express feature for node.
func Unsupported(vctx VisitorContext, node logicalplan.Node, feature dialect.Feature) error {
	return &UnsupportedFeatureError{Feature: feature, Dialect: vctx.Dialect(), Node: node.String()}
}
