package slug

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMake_Basic(t *testing.T) {
	require.Equal(t, "getting-started", Make("Getting Started"))
	require.Equal(t, "getting-started", Make("  Getting   Started  "))
	require.Equal(t, "types-and-values", Make("Types & Values"))
	require.Equal(t, "faq", Make("F.A.Q!"))
}

func TestMake_StripsLeadingTrailingHyphens(t *testing.T) {
	require.Equal(t, "a-b", Make("-a b-"))
	require.Equal(t, "a", Make("...a..."))
}

func TestMake_CollapsesHyphenRuns(t *testing.T) {
	require.Equal(t, "a-b", Make("a -- b"))
	require.Equal(t, "a-and-b", Make("a & b"))
}

func TestMake_Deaccents(t *testing.T) {
	require.Equal(t, "resume", Make("Résumé"))
}

func TestMake_Idempotent(t *testing.T) {
	inputs := []string{
		"Getting Started",
		"Types & Values",
		"  -- weird -- input --  ",
		"Résumé & Café",
		"already-a-slug",
		"",
	}
	for _, in := range inputs {
		once := Make(in)
		require.Equal(t, once, Make(once), "input %q", in)
	}
}

func TestMake_KeepsUnderscoresAndDigits(t *testing.T) {
	require.Equal(t, "my_func-2", Make("my_func 2"))
}
