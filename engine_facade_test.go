package stentorian

import (
	"io"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func silentLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func TestEngine_ConnectAndMicrophone(t *testing.T) {
	fe := newFakeEngine("alice")
	e, err := Connect(fakeDialer{engine: fe}, nil, silentLogger())
	require.NoError(t, err)

	st, err := e.MicrophoneState()
	require.NoError(t, err)
	assert.Equal(t, MicrophoneOn, st)

	require.NoError(t, e.SetMicrophoneState(MicrophoneSleeping))
	st, err = e.MicrophoneState()
	require.NoError(t, err)
	assert.Equal(t, MicrophoneSleeping, st)

	user, err := e.CurrentUser()
	require.NoError(t, err)
	assert.Equal(t, "alice", user)
}

func TestEngine_LoadCommandGrammar_MatchesPhrase(t *testing.T) {
	fe := newFakeEngine("alice")
	e, err := Connect(fakeDialer{engine: fe}, nil, silentLogger())
	require.NoError(t, err)

	g := Grammar{Rules: []Rule{
		{Name: "main", Exported: true, Body: Seq(Cap("action", W("open")), Cap("target", W("file")))},
	}}

	var mu sync.Mutex
	var got []PhraseResult
	lg, err := e.LoadGrammar(LoadGrammarRequest{Kind: FormatCommand, Grammar: &g}, func(evt GrammarEvent) {
		if evt.Kind != GrammarEventPhraseFinish {
			return
		}
		mu.Lock()
		got = append(got, evt.Phrase)
		mu.Unlock()
	})
	require.NoError(t, err)
	defer lg.MustClose()

	require.NoError(t, lg.ActivateRule("main"))

	fe.fire([]WordInfo{{Text: "open"}, {Text: "file"}})

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 1)
	assert.Equal(t, PhraseFinish, got[0].Outcome)
	require.Len(t, got[0].Captures, 2)
	assert.Equal(t, "action", got[0].Captures[0].Name)
	assert.Equal(t, "target", got[0].Captures[1].Name)
}

func TestEngine_LoadCommandGrammar_RejectsUnmatchedPhrase(t *testing.T) {
	fe := newFakeEngine("alice")
	e, err := Connect(fakeDialer{engine: fe}, nil, silentLogger())
	require.NoError(t, err)

	g := Grammar{Rules: []Rule{
		{Name: "main", Exported: true, Body: W("open")},
	}}

	var mu sync.Mutex
	var got []PhraseResult
	lg, err := e.LoadGrammar(LoadGrammarRequest{Kind: FormatCommand, Grammar: &g}, func(evt GrammarEvent) {
		if evt.Kind != GrammarEventPhraseFinish {
			return
		}
		mu.Lock()
		got = append(got, evt.Phrase)
		mu.Unlock()
	})
	require.NoError(t, err)
	defer lg.MustClose()

	fe.fire([]WordInfo{{Text: "close"}})

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 1)
	assert.Equal(t, PhraseNoParse, got[0].Outcome)
}

// TestEngine_ConcurrentPhraseDispatch fires phrase events against many
// independently loaded grammars at once, matching §5's requirement
// that each VM run uses fresh, unshared state.
func TestEngine_ConcurrentPhraseDispatch(t *testing.T) {
	fe := newFakeEngine("alice")
	e, err := Connect(fakeDialer{engine: fe}, nil, silentLogger())
	require.NoError(t, err)

	const n = 16
	results := make([]chan PhraseOutcome, n)
	var group errgroup.Group

	for i := 0; i < n; i++ {
		i := i
		// fire delivers to every grammar loaded at the time, so grammar i
		// may receive up to n events; buffer them all so no fire blocks.
		ch := make(chan PhraseOutcome, n)
		results[i] = ch

		g := Grammar{Rules: []Rule{
			{Name: "main", Exported: true, Body: Rep(W("go"))},
		}}
		lg, err := e.LoadGrammar(LoadGrammarRequest{Kind: FormatCommand, Grammar: &g}, func(evt GrammarEvent) {
			if evt.Kind == GrammarEventPhraseFinish {
				ch <- evt.Phrase.Outcome
			}
		})
		require.NoError(t, err)
		defer lg.MustClose()

		group.Go(func() error {
			fe.fire([]WordInfo{{Text: "go"}, {Text: "go"}})
			return nil
		})
	}

	require.NoError(t, group.Wait())
	for i := 0; i < n; i++ {
		assert.Equal(t, PhraseFinish, <-results[i])
	}
}

func TestEngine_SelectionRoundTrip(t *testing.T) {
	fe := newFakeEngine("alice")
	e, err := Connect(fakeDialer{engine: fe}, nil, silentLogger())
	require.NoError(t, err)

	lg, err := e.LoadGrammar(LoadGrammarRequest{
		Kind:        FormatSelection,
		SelectWords: []string{"select"},
		ThroughWords: []string{"through"},
	}, func(GrammarEvent) {})
	require.NoError(t, err)
	defer lg.MustClose()

	require.NoError(t, lg.SelectionSet(0, "hello world"))
	text, err := lg.SelectionGet(0)
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)

	require.NoError(t, lg.SelectionDelete(0))
	_, err = lg.SelectionGet(0)
	require.Error(t, err)
}

func TestEngineRegistration_Close(t *testing.T) {
	fe := newFakeEngine("alice")
	e, err := Connect(fakeDialer{engine: fe}, nil, silentLogger())
	require.NoError(t, err)

	reg, err := e.RegisterEventSink(EventError, func(EngineEvent) {})
	require.NoError(t, err)
	require.NoError(t, reg.Close())
}
