package stentorian

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileMatcher_UnknownRuleRefFails(t *testing.T) {
	g := Grammar{Rules: []Rule{{Name: "main", Exported: true, Body: Ref("nope")}}}
	_, err := CompileMatcher(g)
	require.Error(t, err)
	var gerr GrammarError
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, UnknownRule, gerr.Kind)
}

func TestCompileMatcher_RelocatesAllLabels(t *testing.T) {
	g := Grammar{Rules: []Rule{
		{Name: "main", Exported: true, Body: Alt(W("a"), W("b"))},
	}}
	prog, err := CompileMatcher(g)
	require.NoError(t, err)

	for _, ins := range prog.Instructions {
		switch ins.Op {
		case opJump, opRuleCall:
			assert.NotPanics(t, func() { ins.Target.address() })
		case opSplit:
			for _, tgt := range ins.Targets {
				assert.NotPanics(t, func() { tgt.address() })
			}
		case opLabel:
			t.Fatalf("opLabel must be relocated away, found at an instruction")
		}
	}
}
