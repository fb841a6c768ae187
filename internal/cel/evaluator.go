// Package cel filters scheme catalogs with CEL predicates such as
// `name.startsWith("Solarized") && light`.
package cel

import (
	"fmt"
	"strings"

	"github.com/go-logr/logr"
	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	celext "github.com/google/cel-go/ext"

	"github.com/oakwood-commons/iterminator/internal/catalog"
	"github.com/oakwood-commons/iterminator/internal/errs"
)

// Variables visible to predicates.
const (
	VarName  = "name"
	VarPath  = "path"
	VarIndex = "index"
	VarLight = "light"
)

// Evaluator compiles predicates over catalog entries.
type Evaluator struct {
	env *cel.Env
}

// NewEvaluator creates an evaluator with the entry variables and the string,
// list and math extensions.
func NewEvaluator() (*Evaluator, error) {
	env, err := cel.NewEnv(
		cel.Variable(VarName, cel.StringType),
		cel.Variable(VarPath, cel.StringType),
		cel.Variable(VarIndex, cel.IntType),
		cel.Variable(VarLight, cel.BoolType),
		celext.Strings(),
		celext.Lists(),
		celext.Math(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return &Evaluator{env: env}, nil
}

// GetEnvironment returns the CEL environment for introspection.
func (e *Evaluator) GetEnvironment() *cel.Env {
	return e.env
}

// Predicate is a compiled boolean expression over one entry.
type Predicate struct {
	expr string
	prg  cel.Program
}

// Compile parses and type-checks expr, which must evaluate to a bool.
func (e *Evaluator) Compile(expr string) (*Predicate, error) {
	const op = "cel.Compile"
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, errs.New(errs.InvalidInput, op, "empty expression")
	}
	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, errs.Wrap(errs.InvalidInput, op, "compilation error", issues.Err())
	}
	if out := ast.OutputType(); !out.IsExactType(cel.BoolType) {
		return nil, errs.Newf(errs.InvalidInput, op, "expression must be a bool, got %s", out)
	}
	prg, err := e.env.Program(ast)
	if err != nil {
		return nil, errs.Wrap(errs.InvalidInput, op, "program error", err)
	}
	return &Predicate{expr: expr, prg: prg}, nil
}

// String returns the source expression.
func (p *Predicate) String() string {
	return p.expr
}

// Match evaluates the predicate for entry. The classifier only runs when
// the expression reads `light`, at most once per call.
func (p *Predicate) Match(entry catalog.Entry, cls catalog.Classifier) (bool, error) {
	var (
		light    ref.Val
		resolved bool
	)
	lazyLight := func() ref.Val {
		if resolved {
			return light
		}
		resolved = true
		if cls == nil {
			light = types.NewErr("no classifier for %s", entry.Name)
			return light
		}
		isLight, err := cls.IsLight(entry.Path)
		if err != nil {
			light = types.NewErr("classify %s: %v", entry.Name, err)
			return light
		}
		light = types.Bool(isLight)
		return light
	}

	out, _, err := p.prg.Eval(map[string]any{
		VarName:  entry.Name,
		VarPath:  entry.Path,
		VarIndex: entry.Index,
		VarLight: lazyLight,
	})
	if err != nil {
		return false, errs.Wrap(errs.Classification, "cel.Match", entry.Name, err)
	}
	b, ok := out.(types.Bool)
	if !ok {
		return false, errs.Newf(errs.InvalidInput, "cel.Match", "expression returned %s", out.Type())
	}
	return bool(b), nil
}

// Filter keeps the entries p matches. Entries that fail to evaluate are
// excluded and logged at V(1). An empty result is NotFound.
func (p *Predicate) Filter(c *catalog.Catalog, cls catalog.Classifier, log logr.Logger) (*catalog.Catalog, error) {
	filtered := c.Filter(func(e catalog.Entry) bool {
		ok, err := p.Match(e, cls)
		if err != nil {
			log.V(1).Info("excluding scheme", "scheme", e.Name, "where", p.expr, "error", err.Error())
			return false
		}
		return ok
	})
	if filtered.Len() == 0 {
		return nil, errs.Newf(errs.NotFound, "cel.Filter", "no schemes match %s", p.expr)
	}
	return filtered, nil
}
