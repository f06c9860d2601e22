package stentorian

import (
	"sync"

	"github.com/google/uuid"
)

// fakeEngine is a minimal in-process EngineHandle used to exercise the
// Engine Façade and the sink dispatch path without a real speech
// engine, grounded on §9's description of an engine as a thing that
// loads grammars, delivers phrase events to registered sinks, and
// tracks microphone state.
type fakeEngine struct {
	mu        sync.Mutex
	mic       MicrophoneState
	user      string
	engineKey RegistrationKey
	sinks     map[RegistrationKey]EngineSink
	grammars  map[uuid.UUID]*fakeGrammar
}

func newFakeEngine(user string) *fakeEngine {
	return &fakeEngine{
		mic:      MicrophoneOn,
		user:     user,
		sinks:    make(map[RegistrationKey]EngineSink),
		grammars: make(map[uuid.UUID]*fakeGrammar),
	}
}

func (e *fakeEngine) MicrophoneGetState() (MicrophoneState, StatusCode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mic, StatusSuccess
}

func (e *fakeEngine) MicrophoneSetState(s MicrophoneState) StatusCode {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.mic = s
	return StatusSuccess
}

func (e *fakeEngine) CurrentUser() (string, StatusCode) {
	return e.user, StatusSuccess
}

func (e *fakeEngine) RegisterEngineSink(sink EngineSink) (RegistrationKey, StatusCode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.engineKey++
	key := e.engineKey
	e.sinks[key] = sink
	sink.(interface{ Acquire() int32 }).Acquire()
	return key, StatusSuccess
}

func (e *fakeEngine) UnregisterEngineSink(key RegistrationKey) StatusCode {
	e.mu.Lock()
	defer e.mu.Unlock()
	sink, ok := e.sinks[key]
	if !ok {
		return StatusInvalidArgument
	}
	delete(e.sinks, key)
	sink.(interface{ Release() int32 }).Release()
	return StatusSuccess
}

func (e *fakeEngine) LoadGrammar(format GrammarFormat, binary []byte, sink GrammarSink) (GrammarHandle, StatusCode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	g := &fakeGrammar{engine: e, guid: uuid.New(), format: format, binary: binary, sink: sink, active: make(map[string]bool)}
	e.grammars[g.guid] = g
	return g, StatusSuccess
}

// fire delivers a phrase-finish event built from words to every loaded
// grammar's sink that wants it, simulating what a real engine would do
// after recognizing an utterance.
func (e *fakeEngine) fire(words []WordInfo) {
	e.mu.Lock()
	grammars := make([]*fakeGrammar, 0, len(e.grammars))
	for _, g := range e.grammars {
		grammars = append(grammars, g)
	}
	e.mu.Unlock()

	for _, g := range grammars {
		if !g.sink.EventMask().Has(EventPhraseStart) {
			continue
		}
		g.sink.DeliverOther(GrammarEventPhraseStart)
		g.sink.DeliverPhrase(RawPhraseEvent{Recognized: true, Result: &fakeResult{words: words}})
	}
}

// fakeGrammar is a minimal in-process GrammarHandle.
type fakeGrammar struct {
	mu        sync.Mutex
	engine    *fakeEngine
	guid      uuid.UUID
	format    GrammarFormat
	binary    []byte
	sink      GrammarSink
	active    map[string]bool
	lists     map[string][][]byte
	selection map[int]string
	released  bool
}

func (g *fakeGrammar) Activate(rule string) StatusCode {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.active[rule] = true
	return StatusSuccess
}

func (g *fakeGrammar) Deactivate(rule string) StatusCode {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.active, rule)
	return StatusSuccess
}

func (g *fakeGrammar) ListAppend(name string, wordBlob []byte) StatusCode {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.lists == nil {
		g.lists = make(map[string][][]byte)
	}
	g.lists[name] = append(g.lists[name], wordBlob)
	return StatusSuccess
}

func (g *fakeGrammar) ListRemove(name string, wordBlob []byte) StatusCode {
	g.mu.Lock()
	defer g.mu.Unlock()
	return StatusSuccess
}

func (g *fakeGrammar) ListSet(name string, wordBlob []byte) StatusCode {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.lists == nil {
		g.lists = make(map[string][][]byte)
	}
	g.lists[name] = [][]byte{wordBlob}
	return StatusSuccess
}

func (g *fakeGrammar) SelectionSet(choice int, textBlob []byte) StatusCode {
	return g.selectionPut(choice, textBlob)
}

func (g *fakeGrammar) SelectionChange(choice int, textBlob []byte) StatusCode {
	return g.selectionPut(choice, textBlob)
}

func (g *fakeGrammar) SelectionInsert(choice int, textBlob []byte) StatusCode {
	return g.selectionPut(choice, textBlob)
}

func (g *fakeGrammar) selectionPut(choice int, textBlob []byte) StatusCode {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.selection == nil {
		g.selection = make(map[int]string)
	}
	g.selection[choice] = DecodeSelectionText(textBlob)
	return StatusSuccess
}

func (g *fakeGrammar) SelectionDelete(choice int) StatusCode {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.selection, choice)
	return StatusSuccess
}

func (g *fakeGrammar) SelectionGet(choice int) ([]byte, StatusCode) {
	g.mu.Lock()
	defer g.mu.Unlock()
	text, ok := g.selection[choice]
	if !ok {
		return nil, StatusNoUserSelected
	}
	return EncodeSelectionText(text), StatusSuccess
}

func (g *fakeGrammar) SetContext(beforeBlob, afterBlob []byte) StatusCode {
	return StatusSuccess
}

func (g *fakeGrammar) Identify() (uuid.UUID, StatusCode) {
	return g.guid, StatusSuccess
}

func (g *fakeGrammar) Release() StatusCode {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.released {
		return StatusInvalidArgument
	}
	g.released = true
	g.engine.mu.Lock()
	delete(g.engine.grammars, g.guid)
	g.engine.mu.Unlock()
	return StatusSuccess
}

// fakeResult is a minimal in-process ResultHandle serving one
// best-path word sequence.
type fakeResult struct {
	words []WordInfo
}

func (r *fakeResult) BestPathWord(choice int) (uint32, StatusCode) {
	if choice < 0 || choice >= len(r.words) {
		return 0, StatusNoMoreResults
	}
	return uint32(choice) + 1, StatusSuccess
}

func (r *fakeResult) WordNode(wordID uint32) (WordNode, StatusCode) {
	idx := int(wordID) - 1
	if idx < 0 || idx >= len(r.words) {
		return WordNode{}, StatusInvalidArgument
	}
	w := r.words[idx]
	return WordNode{Text: w.Text, RuleID: w.RuleID}, StatusSuccess
}

func (r *fakeResult) SelectionInfo(guid uuid.UUID, choice int) (uint32, uint32, uint32, StatusCode) {
	return 0, 0, 0, StatusNoMoreResults
}

// fakeDialer implements Dialer against a single shared fakeEngine.
type fakeDialer struct{ engine *fakeEngine }

func (d fakeDialer) Dial() (EngineHandle, error) { return d.engine, nil }
