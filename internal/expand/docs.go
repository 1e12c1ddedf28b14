package expand

import (
	"errors"
	"strings"

	gmast "github.com/yuin/goldmark/ast"

	"git.home.luguber.info/inful/docweave/internal/document"
	derrors "git.home.luguber.info/inful/docweave/internal/errors"
	"git.home.luguber.info/inful/docweave/internal/lang"
	"git.home.luguber.info/inful/docweave/internal/markdown"
	"git.home.luguber.info/inful/docweave/internal/registry"
	"git.home.luguber.info/inful/docweave/internal/slug"
)

// expandDocs resolves each reference expression of a {docs} directive against
// the runtime's documentation lookup and registers the result. Missing
// documentation and duplicate registration are both fatal here, at
// registration time.
func (e *Engine) expandDocs(st *document.PageState, b gmast.Node) error {
	module := st.CurrentModule(e.rt.DefaultModule())
	literal := markdown.CodeBlockLiteral(b, st.Page.Source)

	var entries []*registry.DocEntry
	lines := strings.Split(literal, "\n")
	for _, line := range lines[1:] { // skip the {docs} marker line
		expr := strings.TrimSpace(line)
		if expr == "" || strings.HasPrefix(expr, "#") {
			continue
		}

		res, err := e.rt.Doc(expr, module)
		if err != nil {
			if errors.Is(err, lang.ErrNoDocumentation) {
				return derrors.NewPage(derrors.KindMissingDocumentation, st.Page.SourcePath,
					"no documentation found for %q in module %s", expr, module)
			}
			return derrors.WrapPage(err, derrors.KindInternal, st.Page.SourcePath,
				"documentation lookup for %q", expr)
		}

		entry := &registry.DocEntry{
			SymbolID:   res.SymbolID,
			Anchor:     slug.Make(res.SymbolID),
			Category:   res.Category,
			Module:     symbolModule(res.SymbolID, module),
			SourcePath: st.Page.SourcePath,
			DestPath:   st.Page.DestPath,
			Doc:        res.Doc,
			DocSource:  res.Source,
			RefText:    expr,
		}
		if err := e.reg.AddDoc(entry); err != nil {
			return err
		}
		entries = append(entries, entry)
	}

	st.Append(&document.Docs{Entries: entries})
	return nil
}

// symbolModule derives the defining module from a canonical symbol id of the
// form "Module.name", falling back to the page module.
func symbolModule(symbolID, fallback string) string {
	if idx := strings.LastIndex(symbolID, "."); idx > 0 {
		return symbolID[:idx]
	}
	return fallback
}
