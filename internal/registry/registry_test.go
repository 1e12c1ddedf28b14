package registry

import (
	"testing"

	"github.com/stretchr/testify/require"

	derrors "git.home.luguber.info/inful/docweave/internal/errors"
)

func TestAddHeader_AssignsMonotonicOrdinals(t *testing.T) {
	r := New()
	require.NoError(t, r.AddHeader(&HeaderEntry{ID: "a", SourcePath: "a.md"}))
	require.NoError(t, r.AddHeader(&HeaderEntry{ID: "b", SourcePath: "b.md"}))
	require.NoError(t, r.AddHeader(&HeaderEntry{ID: "c", SourcePath: "a.md"}))

	hs := r.Headers()
	require.Len(t, hs, 3)
	for i, h := range hs {
		require.Equal(t, i, h.Ordinal)
	}
}

func TestAddHeader_DuplicateAcrossPagesIsFatal(t *testing.T) {
	r := New()
	require.NoError(t, r.AddHeader(&HeaderEntry{ID: "intro", SourcePath: "a.md"}))

	err := r.AddHeader(&HeaderEntry{ID: "intro", SourcePath: "b/c.md"})
	require.Error(t, err)
	require.True(t, derrors.IsKind(err, derrors.KindDuplicateHeaderID))
	require.Contains(t, err.Error(), "b/c.md")
	require.Contains(t, err.Error(), "a.md")
}

func TestAddDoc_DuplicateSymbolIsFatal(t *testing.T) {
	r := New()
	require.NoError(t, r.AddDoc(&DocEntry{SymbolID: "Main.greet", SourcePath: "a.md"}))

	err := r.AddDoc(&DocEntry{SymbolID: "Main.greet", SourcePath: "b.md"})
	require.Error(t, err)
	require.True(t, derrors.IsKind(err, derrors.KindDuplicateDocEntry))
	require.Contains(t, err.Error(), "Main.greet")
}

func TestLookups(t *testing.T) {
	r := New()
	require.NoError(t, r.AddHeader(&HeaderEntry{ID: "intro", SourcePath: "a.md"}))
	require.NoError(t, r.AddDoc(&DocEntry{SymbolID: "Main.greet", Anchor: "main-greet"}))

	h, ok := r.Header("intro")
	require.True(t, ok)
	require.Equal(t, "a.md", h.SourcePath)

	_, ok = r.Header("absent")
	require.False(t, ok)

	d, ok := r.Doc("Main.greet")
	require.True(t, ok)
	require.Equal(t, "main-greet", d.Anchor)
}

func TestFreeze_PanicsOnWrite(t *testing.T) {
	r := New()
	r.Freeze()
	require.Panics(t, func() { _ = r.AddHeader(&HeaderEntry{ID: "x"}) })
	require.Panics(t, func() { _ = r.AddDoc(&DocEntry{SymbolID: "x"}) })
}
