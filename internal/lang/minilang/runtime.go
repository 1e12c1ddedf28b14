// Package minilang is the reference documented-language runtime: a tiny
// expression language with integers, strings, lists, assignment and a few
// builtins. It exists so docweave is usable and testable without an external
// language toolchain, and it doubles as the model implementation for the
// lang.Runtime contract.
package minilang

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/docweave/internal/lang"
	"git.home.luguber.info/inful/docweave/internal/markdown"
)

// SymbolDoc declares documentation for one symbol in a module's doc table.
type SymbolDoc struct {
	Name     string
	Category lang.Category
	Doc      string // Markdown body
}

// Runtime implements lang.Runtime for the mini language.
type Runtime struct {
	modules       map[string]map[string]SymbolDoc
	defaultModule string
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithDocs installs a module's documented-symbol table.
func WithDocs(module string, docs ...SymbolDoc) Option {
	return func(r *Runtime) {
		table := r.modules[module]
		if table == nil {
			table = make(map[string]SymbolDoc)
			r.modules[module] = table
		}
		for _, d := range docs {
			table[d.Name] = d
		}
	}
}

// WithDefaultModule overrides the module used when a page sets none.
func WithDefaultModule(name string) Option {
	return func(r *Runtime) { r.defaultModule = name }
}

// New creates a mini runtime.
func New(opts ...Option) *Runtime {
	r := &Runtime{
		modules:       make(map[string]map[string]SymbolDoc),
		defaultModule: "Main",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func init() {
	lang.Register(New())
}

func (r *Runtime) Name() string                  { return "mini" }
func (r *Runtime) Prompt() string                { return "mini> " }
func (r *Runtime) DefaultModule() string         { return r.defaultModule }
func (r *Runtime) SuppressingTerminator() string { return ";" }

// NewContext creates a fresh sandbox. Bindings never leak between contexts.
func (r *Runtime) NewContext(module string) lang.Context {
	return &evalContext{rt: r, module: module, env: make(map[string]lang.Value)}
}

// SymbolID canonicalizes a symbol-referring expression. A qualified
// expression ("Other.greet") carries its own module; otherwise the current
// module context qualifies the bare name.
func (r *Runtime) SymbolID(expr, module string) (string, error) {
	name := strings.TrimSpace(expr)
	if name == "" {
		return "", fmt.Errorf("empty symbol expression")
	}
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		module = name[:idx]
		name = name[idx+1:]
	}
	if module == "" {
		module = r.defaultModule
	}
	return module + "." + name, nil
}

// Doc looks up documentation for a symbol-referring expression.
func (r *Runtime) Doc(expr, module string) (*lang.DocResult, error) {
	id, err := r.SymbolID(expr, module)
	if err != nil {
		return nil, err
	}
	idx := strings.LastIndex(id, ".")
	mod, name := id[:idx], id[idx+1:]
	doc, ok := r.modules[mod][name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, lang.ErrNoDocumentation)
	}
	source := []byte(doc.Doc)
	return &lang.DocResult{
		SymbolID: id,
		Category: doc.Category,
		Doc:      markdown.Parse(source),
		Source:   source,
	}, nil
}
