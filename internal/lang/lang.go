// Package lang defines the capability surface docweave requires from a
// documented-language runtime: expression splitting, sandboxed evaluation,
// documentation lookup and interactive-session value formatting. The core
// pipeline never parses or evaluates host-language code itself; everything
// goes through these contracts.
package lang

import (
	"errors"
	"fmt"

	gmast "github.com/yuin/goldmark/ast"
)

// Category classifies a documented symbol. Used for the label rendered above
// a documentation entry.
type Category string

const (
	CategoryMacro    Category = "Macro"
	CategoryFunction Category = "Function"
	CategoryMethod   Category = "Method"
	CategoryType     Category = "Type"
	CategoryModule   Category = "Module"
	CategoryConstant Category = "Constant"
)

// Value is an opaque runtime value. The core only moves values around and
// hands them back to the runtime's formatter; the coercion helpers below
// cover the few places directive configuration needs Go-typed data.
type Value = any

// Statement pairs a runtime-private parsed expression with the exact source
// text it was split from.
type Statement struct {
	Expr   any
	Source string
}

// Outcome is the result of evaluating a doctest unit: either a value or a
// signaled failure of some runtime-defined kind.
type Outcome struct {
	Value  Value
	Failed bool
	Kind   string
}

// DocResult is the product of a documentation lookup.
type DocResult struct {
	// SymbolID is the canonical, run-stable identity of the symbol.
	SymbolID string
	Category Category
	// Doc is the symbol's documentation parsed into a Goldmark tree over Source.
	Doc    gmast.Node
	Source []byte
}

// ErrNoDocumentation signals a symbol that resolved but carries no
// documentation. Registration treats it as fatal.
var ErrNoDocumentation = errors.New("no documentation found")

// Failure is a failure signaled by evaluated host-language code (as opposed
// to an evaluator malfunction).
type Failure struct {
	Kind    string
	Message string
}

func (f *Failure) Error() string {
	if f.Message == "" {
		return f.Kind
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

// OutcomeOf folds an evaluation result into an Outcome. Any error is treated
// as a signaled failure; non-Failure errors report kind "error".
func OutcomeOf(v Value, err error) Outcome {
	if err == nil {
		return Outcome{Value: v}
	}
	var f *Failure
	if errors.As(err, &f) {
		return Outcome{Failed: true, Kind: f.Kind}
	}
	return Outcome{Failed: true, Kind: "error"}
}

// Runtime is the documented-language capability bundle.
type Runtime interface {
	// Name is the registry key and the code fence tag marking executable blocks.
	Name() string
	// Prompt is the literal interactive prompt prefix (e.g. "mini> ").
	Prompt() string
	// DefaultModule is the module context used when a page sets none.
	DefaultModule() string
	// SuppressingTerminator is the statement suffix that suppresses value
	// display in a session (e.g. ";").
	SuppressingTerminator() string

	// NewContext creates a fresh sandboxed evaluation context bound to a module.
	NewContext(module string) Context

	// Split parses raw text into ordered statements, skipping skipLines
	// leading lines first.
	Split(src string, skipLines int) ([]Statement, error)
	// SplitFirst splits off the first complete syntactic unit and returns the
	// remaining text.
	SplitFirst(src string) (Statement, string, error)
	// AssignmentTarget reports the bound name when the statement is an
	// assignment of the form `name = value`.
	AssignmentTarget(st Statement) (string, bool)

	// SymbolID canonicalizes a symbol-referring expression in a module context.
	SymbolID(expr, module string) (string, error)
	// Doc looks up documentation for a symbol-referring expression.
	// Returns ErrNoDocumentation when the symbol carries none.
	Doc(expr, module string) (*DocResult, error)

	// Format renders an outcome the way an interactive session would display
	// it. A suppressed outcome renders as "".
	Format(out Outcome, suppress bool) string
}

// Context is a sandboxed evaluation environment. Bindings made by one Eval
// are visible to later Evals on the same Context.
type Context interface {
	Eval(st Statement) (Value, error)
	// BindResult binds a value to the runtime's implicit previous-result name.
	BindResult(v Value)
}
