// Package document holds the tree and value types the pipeline passes share:
// pages, per-page expansion state and the tagged block variants produced by
// the expansion engine.
package document

import (
	gmast "github.com/yuin/goldmark/ast"

	"git.home.luguber.info/inful/docweave/internal/lang"
)

// Page is one source document. Root is the Goldmark tree parsed over Source.
// Pages are discovered in directory-walk order and that order is preserved
// through every pass.
type Page struct {
	SourcePath string // path relative to the source root
	DestPath   string // output path relative to the build root
	Source     []byte
	Root       gmast.Node
}

// PageState is the per-page accumulator filled during expansion. Metadata is
// additive across a page's directive blocks; Blocks is the expanded block
// sequence every later pass walks.
type PageState struct {
	Page     *Page
	Metadata map[string]lang.Value
	Blocks   []Block
}

// NewPageState creates a fresh accumulator for a page.
func NewPageState(p *Page) *PageState {
	return &PageState{Page: p, Metadata: make(map[string]lang.Value)}
}

// Append adds a block to the expanded sequence.
func (s *PageState) Append(b Block) {
	s.Blocks = append(s.Blocks, b)
}

// MetadataSnapshot copies the current metadata map.
func (s *PageState) MetadataSnapshot() map[string]lang.Value {
	snap := make(map[string]lang.Value, len(s.Metadata))
	for k, v := range s.Metadata {
		snap[k] = v
	}
	return snap
}

// CurrentModule returns the page's active module context: the CurrentModule
// metadata value when set, else the given fallback.
func (s *PageState) CurrentModule(fallback string) string {
	if v, ok := s.Metadata["CurrentModule"]; ok {
		if m, ok := lang.String(v); ok && m != "" {
			return m
		}
	}
	return fallback
}
