package stentorian

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compileOrFail(t *testing.T, g Grammar) *Program {
	t.Helper()
	prog, err := CompileMatcher(g)
	require.NoError(t, err)
	return prog
}

func TestMatch_CaptureAroundWord(t *testing.T) {
	g := Grammar{Rules: []Rule{
		{Name: "main", Exported: true, Body: Cap("greeting", W("hello"))},
	}}
	prog := compileOrFail(t, g)

	captures, ok := prog.Match([]string{"hello"})
	require.True(t, ok)
	require.Len(t, captures, 1)
	assert.Equal(t, "greeting", captures[0].Name)
	assert.Equal(t, Span{Start: 0, End: 1}, captures[0].Span)
}

func TestMatch_RepetitionZeroFails(t *testing.T) {
	g := Grammar{Rules: []Rule{
		{Name: "main", Exported: true, Body: Rep(W("go"))},
	}}
	prog := compileOrFail(t, g)

	_, ok := prog.Match(nil)
	assert.False(t, ok, "Repetition requires at least one match")
}

func TestMatch_RepetitionNonzeroAccepts(t *testing.T) {
	g := Grammar{Rules: []Rule{
		{Name: "main", Exported: true, Body: Cap("steps", Rep(W("go")))},
	}}
	prog := compileOrFail(t, g)

	captures, ok := prog.Match([]string{"go", "go", "go"})
	require.True(t, ok)
	require.Len(t, captures, 1)
	assert.Equal(t, Span{Start: 0, End: 3}, captures[0].Span)
}

func TestMatch_CaptureInsideRepetitionProducesOnePerIteration(t *testing.T) {
	g := Grammar{Rules: []Rule{
		{Name: "main", Exported: true, Body: Rep(Cap("step", W("go")))},
	}}
	prog := compileOrFail(t, g)

	captures, ok := prog.Match([]string{"go", "go", "go"})
	require.True(t, ok)
	require.Len(t, captures, 3, "Capture nested inside Repetition must yield one CaptureTree per iteration")
	for i, c := range captures {
		assert.Equal(t, "step", c.Name)
		assert.Equal(t, Span{Start: i, End: i + 1}, c.Span)
	}
}

func TestMatch_OptionalAcceptsPresentAndAbsent(t *testing.T) {
	g := Grammar{Rules: []Rule{
		{Name: "main", Exported: true, Body: Seq(Opt(W("please")), W("go"))},
	}}
	prog := compileOrFail(t, g)

	_, ok := prog.Match([]string{"please", "go"})
	assert.True(t, ok)

	_, ok = prog.Match([]string{"go"})
	assert.True(t, ok)

	_, ok = prog.Match([]string{"please", "please", "go"})
	assert.False(t, ok)
}

func TestMatch_AlternativeOnlyAcceptsDeclaredWords(t *testing.T) {
	g := Grammar{Rules: []Rule{
		{Name: "main", Exported: true, Body: Alt(W("yes"), W("no"))},
	}}
	prog := compileOrFail(t, g)

	_, ok := prog.Match([]string{"yes"})
	assert.True(t, ok)
	_, ok = prog.Match([]string{"no"})
	assert.True(t, ok)
	_, ok = prog.Match([]string{"maybe"})
	assert.False(t, ok)
}

func TestMatch_RepetitionOfOptionalTerminatesViaProgressGuard(t *testing.T) {
	g := Grammar{Rules: []Rule{
		{Name: "main", Exported: true, Body: Seq(Rep(Opt(W("maybe"))), W("go"))},
	}}
	prog := compileOrFail(t, g)

	_, ok := prog.Match([]string{"go"})
	assert.True(t, ok, "a zero-width repetition body must not hang the VM")

	_, ok = prog.Match([]string{"maybe", "maybe", "go"})
	assert.True(t, ok)
}

func TestMatch_NestedCapturesOrderedByStart(t *testing.T) {
	g := Grammar{Rules: []Rule{
		{Name: "main", Exported: true, Body: Cap("cmd", Seq(
			Cap("verb", W("open")),
			Cap("noun", W("file")),
		))},
	}}
	prog := compileOrFail(t, g)

	captures, ok := prog.Match([]string{"open", "file"})
	require.True(t, ok)
	require.Len(t, captures, 1)
	assert.Equal(t, "cmd", captures[0].Name)
	require.Len(t, captures[0].Children, 2)
	assert.Equal(t, "verb", captures[0].Children[0].Name)
	assert.Equal(t, "noun", captures[0].Children[1].Name)
}

func TestMatch_RuleRefDelegatesToNamedRule(t *testing.T) {
	g := Grammar{Rules: []Rule{
		{Name: "main", Exported: true, Body: Seq(Ref("verb"), W("file"))},
		{Name: "verb", Exported: false, Body: W("open")},
	}}
	prog := compileOrFail(t, g)

	_, ok := prog.Match([]string{"open", "file"})
	assert.True(t, ok)
	_, ok = prog.Match([]string{"close", "file"})
	assert.False(t, ok)
}

func TestMatch_DictationIsNonGreedyAtEndOfInput(t *testing.T) {
	g := Grammar{Rules: []Rule{
		{Name: "main", Exported: true, Body: Seq(W("note"), Cap("text", Dictation{}))},
	}}
	prog := compileOrFail(t, g)

	captures, ok := prog.Match([]string{"note", "buy", "milk", "today"})
	require.True(t, ok)
	require.Len(t, captures, 1)
	assert.Equal(t, Span{Start: 1, End: 4}, captures[0].Span)
}

func TestMatch_DictationFollowedByWordBacktracks(t *testing.T) {
	g := Grammar{Rules: []Rule{
		{Name: "main", Exported: true, Body: Seq(Cap("text", Dictation{}), W("over"))},
	}}
	prog := compileOrFail(t, g)

	captures, ok := prog.Match([]string{"roger", "roger", "over"})
	require.True(t, ok)
	require.Len(t, captures, 1)
	assert.Equal(t, Span{Start: 0, End: 2}, captures[0].Span)
}

func TestMatchStrict_RejectsMismatchedRuleAttribution(t *testing.T) {
	g := Grammar{Rules: []Rule{
		{Name: "main", Exported: true, Body: Seq(Ref("verb"), Ref("noun"))},
		{Name: "verb", Exported: false, Body: W("open")},
		{Name: "noun", Exported: false, Body: W("file")},
	}}
	prog := compileOrFail(t, g)

	verbID := ruleIDOf(t, g, "verb")
	nounID := ruleIDOf(t, g, "noun")

	_, ok := prog.MatchStrict([]WordInfo{
		{Text: "open", RuleID: verbID},
		{Text: "file", RuleID: nounID},
	})
	assert.True(t, ok)

	_, ok = prog.MatchStrict([]WordInfo{
		{Text: "open", RuleID: nounID},
		{Text: "file", RuleID: verbID},
	})
	assert.False(t, ok, "swapped rule ids must not satisfy strict attribution")
}

func TestMatchBounded_UnboundedByDefault(t *testing.T) {
	g := Grammar{Rules: []Rule{
		{Name: "main", Exported: true, Body: Alt(W("a"), W("b"), W("c"))},
	}}
	prog := compileOrFail(t, g)

	_, ok := prog.MatchBounded([]string{"c"}, 0)
	assert.True(t, ok)
}

func TestMatchBounded_CapStillFindsAFeasibleBranch(t *testing.T) {
	g := Grammar{Rules: []Rule{
		{Name: "main", Exported: true, Body: Alt(W("a"), W("b"), W("c"))},
	}}
	prog := compileOrFail(t, g)

	// The first-declared alternative is explored without consuming any
	// worklist slots (it runs in the current thread, not a pushed
	// clone), so a cap of 1 must still find it.
	_, ok := prog.MatchBounded([]string{"a"}, 1)
	assert.True(t, ok)
}

func ruleIDOf(t *testing.T, g Grammar, name string) uint32 {
	t.Helper()
	for i, r := range g.Rules {
		if r.Name == name {
			return uint32(i + 1)
		}
	}
	t.Fatalf("rule %q not found", name)
	return 0
}
