// Package registry implements the run-global symbol registry: the header-id
// and documentation-entry indexes built during expansion and consumed
// read-only by every later pass. Both indexes are write-once-per-key; a
// duplicate registration anywhere in the run is fatal.
package registry

import (
	gmast "github.com/yuin/goldmark/ast"

	derrors "git.home.luguber.info/inful/docweave/internal/errors"
	"git.home.luguber.info/inful/docweave/internal/lang"
)

// HeaderEntry records one registered header. Ordinal is assigned at
// registration, is monotonic over the whole run, and orders contents listings.
type HeaderEntry struct {
	ID         string
	SourcePath string
	DestPath   string
	Ordinal    int
	Level      int
	Display    []gmast.Node // the header's displayed inline content
	Source     []byte       // source bytes Display's segments point into
}

// DocEntry records one registered documentation symbol.
type DocEntry struct {
	SymbolID   string
	Anchor     string // slug of SymbolID; the entry's rendered anchor
	Category   lang.Category
	Module     string // module the symbol was defined in
	SourcePath string
	DestPath   string
	Doc        gmast.Node
	DocSource  []byte
	RefText    string // the reference expression as the author wrote it
}

// Registry is the pair of global indexes. It is written only during the
// expansion pass; Freeze flips it read-only before resolution begins.
type Registry struct {
	headers     map[string]*HeaderEntry
	headerOrder []*HeaderEntry
	docs        map[string]*DocEntry
	docOrder    []*DocEntry
	nextOrdinal int
	frozen      bool
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		headers: make(map[string]*HeaderEntry),
		docs:    make(map[string]*DocEntry),
	}
}

// AddHeader registers a header and assigns its ordinal. The id must be
// unique across the entire run, not merely within one page.
func (r *Registry) AddHeader(e *HeaderEntry) error {
	r.mustBeMutable()
	if prior, exists := r.headers[e.ID]; exists {
		return derrors.NewPage(derrors.KindDuplicateHeaderID, e.SourcePath,
			"header id %q already registered by %s", e.ID, prior.SourcePath)
	}
	e.Ordinal = r.nextOrdinal
	r.nextOrdinal++
	r.headers[e.ID] = e
	r.headerOrder = append(r.headerOrder, e)
	return nil
}

// AddDoc registers a documentation entry. A symbol id may be registered only
// once across the entire run, even from different pages.
func (r *Registry) AddDoc(e *DocEntry) error {
	r.mustBeMutable()
	if prior, exists := r.docs[e.SymbolID]; exists {
		return derrors.NewPage(derrors.KindDuplicateDocEntry, e.SourcePath,
			"documentation for %q already registered by %s", e.SymbolID, prior.SourcePath)
	}
	r.docs[e.SymbolID] = e
	r.docOrder = append(r.docOrder, e)
	return nil
}

// Header looks up a header entry by id.
func (r *Registry) Header(id string) (*HeaderEntry, bool) {
	e, ok := r.headers[id]
	return e, ok
}

// Doc looks up a documentation entry by symbol id.
func (r *Registry) Doc(symbolID string) (*DocEntry, bool) {
	e, ok := r.docs[symbolID]
	return e, ok
}

// Headers returns all header entries in registration (ordinal) order.
func (r *Registry) Headers() []*HeaderEntry { return r.headerOrder }

// Docs returns all documentation entries in registration order.
func (r *Registry) Docs() []*DocEntry { return r.docOrder }

// Freeze marks the registry read-only. Registration after Freeze is a
// pipeline sequencing bug and panics.
func (r *Registry) Freeze() { r.frozen = true }

func (r *Registry) mustBeMutable() {
	if r.frozen {
		panic("registry: write after freeze")
	}
}
