package stentorian

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Dialer produces a fresh EngineHandle. Connect takes one instead of
// dialing directly because the actual connection mechanism (querying
// a service provider, acquiring a central COM object, ...) is external
// per §9 and is supplied by the caller; production code wires a real
// dialer, tests wire a fake one.
type Dialer interface {
	Dial() (EngineHandle, error)
}

// Engine owns the connection to the external engine (§4.4).
type Engine struct {
	handle EngineHandle
	cfg    *Config
	log    zerolog.Logger
}

// Connect dials the engine and wraps the resulting handle. cfg may be
// nil, in which case NewConfig's defaults apply.
func Connect(d Dialer, cfg *Config, log zerolog.Logger) (*Engine, error) {
	handle, err := d.Dial()
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = NewConfig()
	}
	return &Engine{handle: handle, cfg: cfg, log: log}, nil
}

// MicrophoneState queries the engine's current microphone state.
func (e *Engine) MicrophoneState() (MicrophoneState, error) {
	st, status := e.handle.MicrophoneGetState()
	if status != StatusSuccess {
		return 0, EngineError{Op: "MicrophoneGetState", Status: status}
	}
	return st, nil
}

// SetMicrophoneState sets the engine's microphone state.
func (e *Engine) SetMicrophoneState(s MicrophoneState) error {
	if status := e.handle.MicrophoneSetState(s); status != StatusSuccess {
		return EngineError{Op: "MicrophoneSetState", Status: status}
	}
	return nil
}

// CurrentUser queries the engine for the active user profile's name.
func (e *Engine) CurrentUser() (string, error) {
	user, status := e.handle.CurrentUser()
	if status != StatusSuccess {
		return "", EngineError{Op: "CurrentUser", Status: status}
	}
	return user, nil
}

// EngineRegistration is the live registration of an engine-wide event
// sink. Dropping it (calling Close) unregisters the sink (§5
// "Cancellation").
type EngineRegistration struct {
	engine *Engine
	key    RegistrationKey
}

// RegisterEventSink registers callback to receive engine-wide events
// matching mask (§4.4 "register an engine-event callback").
func (e *Engine) RegisterEventSink(mask EventMask, callback func(EngineEvent)) (*EngineRegistration, error) {
	sink := &engineSink{mask: mask, callback: callback}
	key, status := e.handle.RegisterEngineSink(sink)
	if status != StatusSuccess {
		return nil, EngineError{Op: "RegisterEngineSink", Status: status}
	}
	e.log.Info().Msg("registered engine sink")
	return &EngineRegistration{engine: e, key: key}, nil
}

// Close unregisters the sink. In-flight callbacks complete before
// UnregisterEngineSink returns (§5 "Cancellation").
func (r *EngineRegistration) Close() error {
	if status := r.engine.handle.UnregisterEngineSink(r.key); status != StatusSuccess {
		return EngineError{Op: "UnregisterEngineSink", Status: status}
	}
	return nil
}

// MustClose closes the registration and panics on failure. Drop-path
// errors are treated as fatal (§7): a failed unregister means the
// engine has lost track of a registered sink, and continuing risks
// corrupting subsequent operations.
func (r *EngineRegistration) MustClose() {
	if err := r.Close(); err != nil {
		panic(err)
	}
}

// LoadGrammarRequest describes which of the three grammar shapes to
// load and its parameters (§4.1, §4.4).
type LoadGrammarRequest struct {
	Kind GrammarFormat

	// Grammar is required for FormatCommand and ignored otherwise.
	Grammar *Grammar

	// SelectWords/ThroughWords are required for FormatSelection and
	// ignored otherwise.
	SelectWords, ThroughWords []string

	// CatchAll requests foreign-finish events in addition to the
	// always-on phrase-start/phrase-finish pair (§4.4).
	CatchAll bool
}

// LoadGrammar compiles req's grammar to both the engine's binary form
// and, for command grammars, the matcher byte-code, then registers a
// recognition sink with the engine (§4.4 "Grammar load flow").
func (e *Engine) LoadGrammar(req LoadGrammarRequest, onPhrase func(GrammarEvent)) (*LoadedGrammar, error) {
	var binary []byte
	var program *Program

	switch req.Kind {
	case FormatCommand:
		if req.Grammar == nil {
			panic("stentorian: LoadGrammar: FormatCommand requires Grammar")
		}
		b, err := CompileCommandGrammar(*req.Grammar)
		if err != nil {
			return nil, err
		}
		prog, err := CompileMatcher(*req.Grammar)
		if err != nil {
			return nil, err
		}
		binary, program = b, prog

	case FormatSelection:
		binary = CompileSelectGrammar(req.SelectWords, req.ThroughWords)

	case FormatDictation:
		binary = CompileDictationGrammar()

	default:
		panic("stentorian: LoadGrammar: unknown grammar format")
	}

	mask := DefaultGrammarMask
	if req.CatchAll {
		mask |= EventForeignFinish
	}

	sink := &grammarSink{
		mask:        mask,
		kind:        req.Kind,
		program:     program,
		strict:      e.cfg.GetBool("matcher.strict_rule_attribution"),
		maxWorklist: e.cfg.GetInt("matcher.max_worklist"),
		callback:    onPhrase,
		log:         e.log,
	}

	handle, status := e.handle.LoadGrammar(req.Kind, binary, sink)
	if status != StatusSuccess {
		return nil, EngineError{Op: "LoadGrammar", Status: status}
	}

	guid, idStatus := handle.Identify()
	if idStatus != StatusSuccess {
		handle.Release()
		return nil, EngineError{Op: "Identify", Status: idStatus}
	}
	sink.guid = guid

	e.log.Info().Str("kind", fmt.Sprint(req.Kind)).Msg("grammar loaded")
	return &LoadedGrammar{handle: handle, sink: sink}, nil
}

// LoadedGrammar is a loaded grammar's control surface (§4.3
// "Grammar-control surface", §4.4). Created by LoadGrammar, kept by
// the user, destroyed by the user via Close (§3 "Lifecycles").
type LoadedGrammar struct {
	handle GrammarHandle
	sink   *grammarSink
}

// GUID is the grammar's engine-assigned identifier, used by
// ReadSelectionRanges to key selection results for this grammar (§4.5).
func (g *LoadedGrammar) GUID() uuid.UUID { return g.sink.guid }

// ActivateRule activates the named rule.
func (g *LoadedGrammar) ActivateRule(name string) error {
	return statusErr("Activate", g.handle.Activate(name))
}

// DeactivateRule deactivates the named rule.
func (g *LoadedGrammar) DeactivateRule(name string) error {
	return statusErr("Deactivate", g.handle.Deactivate(name))
}

// ListAppend appends word to the named list.
func (g *LoadedGrammar) ListAppend(name, word string) error {
	return statusErr("ListAppend", g.handle.ListAppend(name, EncodeWordBlob(word)))
}

// ListRemove removes word from the named list.
func (g *LoadedGrammar) ListRemove(name, word string) error {
	return statusErr("ListRemove", g.handle.ListRemove(name, EncodeWordBlob(word)))
}

// ListClear empties the named list.
func (g *LoadedGrammar) ListClear(name string) error {
	return statusErr("ListSet", g.handle.ListSet(name, EncodeWordBlob("")))
}

// SelectionSet sets the current selection text for choice.
func (g *LoadedGrammar) SelectionSet(choice int, text string) error {
	return statusErr("SelectionSet", g.handle.SelectionSet(choice, EncodeSelectionText(text)))
}

// SelectionChange replaces the current selection text for choice.
func (g *LoadedGrammar) SelectionChange(choice int, text string) error {
	return statusErr("SelectionChange", g.handle.SelectionChange(choice, EncodeSelectionText(text)))
}

// SelectionDelete deletes the current selection for choice.
func (g *LoadedGrammar) SelectionDelete(choice int) error {
	return statusErr("SelectionDelete", g.handle.SelectionDelete(choice))
}

// SelectionInsert inserts text at the current selection for choice.
func (g *LoadedGrammar) SelectionInsert(choice int, text string) error {
	return statusErr("SelectionInsert", g.handle.SelectionInsert(choice, EncodeSelectionText(text)))
}

// SelectionGet returns the current selection text for choice.
func (g *LoadedGrammar) SelectionGet(choice int) (string, error) {
	blob, status := g.handle.SelectionGet(choice)
	if status != StatusSuccess {
		return "", EngineError{Op: "SelectionGet", Status: status}
	}
	return DecodeSelectionText(blob), nil
}

// SetContext sets the dictation context surrounding the insertion
// point (SPEC_FULL §"dictation context").
func (g *LoadedGrammar) SetContext(before, after string) error {
	status := g.handle.SetContext(EncodeSelectionText(before), EncodeSelectionText(after))
	return statusErr("SetContext", status)
}

// Close releases the engine-side grammar object (§5 "Cancellation":
// dropping a grammar-control handle unregisters its sink with the
// engine; in-flight callbacks must complete before the unregister
// returns — enforced by the engine, not by this core).
func (g *LoadedGrammar) Close() error {
	return statusErr("Release", g.handle.Release())
}

// MustClose closes the grammar and panics on failure (§7 drop-path
// errors are fatal).
func (g *LoadedGrammar) MustClose() {
	if err := g.Close(); err != nil {
		panic(err)
	}
}

func statusErr(op string, status StatusCode) error {
	if status != StatusSuccess {
		return EngineError{Op: op, Status: status}
	}
	return nil
}
