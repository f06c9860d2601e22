package stentorian

import "github.com/google/uuid"

// StatusCode is a raw status code returned by an engine call (§6, §7).
// Every engine call checks status and surfaces failure as an
// EngineError, except StatusNoMoreResults, which is a normal iteration
// terminator, and StatusNotSelectionResult, which a selection-range
// scan silently skips.
type StatusCode uint32

const (
	StatusSuccess            StatusCode = 0
	StatusNoMoreResults      StatusCode = 0x8000FFFF
	StatusNotSelectionResult StatusCode = 0x80041019
	StatusNoUserSelected     StatusCode = 0x8004041a

	// StatusInvalidArgument is not one of the engine's own status
	// codes (§6 lists only the three above); it is returned by this
	// core's own blob decoders when handed malformed bytes.
	StatusInvalidArgument StatusCode = 0x80070057
)

// GrammarFormat selects which of the three binary shapes (§4.1, §6) a
// LoadGrammar call is handing the engine.
type GrammarFormat int

const (
	FormatCommand GrammarFormat = iota
	FormatSelection
	FormatDictation
)

// MicrophoneState is the engine's four-valued microphone state
// (SPEC_FULL §3, grounded on engine/mod.rs::MicrophoneState).
type MicrophoneState uint16

const (
	MicrophoneDisabled MicrophoneState = iota
	MicrophoneOff
	MicrophoneOn
	MicrophoneSleeping
)

// EngineHandle is the opaque handle to the external recognition
// engine (§9 "Polymorphic object calls to the engine"): a fixed set of
// named operations plus a Release obligation on every value it hands
// back. Host-platform vtable dispatch, reference counting and
// interface-query mechanics are assumed to already be resolved behind
// this interface; this core never deals with them directly.
type EngineHandle interface {
	MicrophoneGetState() (MicrophoneState, StatusCode)
	MicrophoneSetState(MicrophoneState) StatusCode
	CurrentUser() (string, StatusCode)

	// RegisterEngineSink registers sink to receive engine-wide
	// events (§4.4 "register an engine-event callback") and returns a
	// key that must be passed to UnregisterEngineSink exactly once.
	RegisterEngineSink(sink EngineSink) (RegistrationKey, StatusCode)
	UnregisterEngineSink(key RegistrationKey) StatusCode

	// LoadGrammar hands the engine a compiled binary blob (§4.1, §6)
	// together with a sink that will receive recognition events for
	// grammars of that shape, and returns a handle for the
	// grammar-control surface (§4.3 "Grammar-control surface").
	LoadGrammar(format GrammarFormat, binary []byte, sink GrammarSink) (GrammarHandle, StatusCode)
}

// RegistrationKey identifies one engine-sink registration, handed back
// by RegisterEngineSink and consumed by UnregisterEngineSink.
type RegistrationKey uint64

// GrammarHandle is the per-loaded-grammar control surface (§4.3, §4.4,
// SPEC_FULL §"selection-grammar mutation surface" and §"dictation
// context"). Every method is a thin pass-through to the engine; string
// arguments round-trip through the §6 word/selection blobs before the
// call, exactly like EncodeWordBlob/EncodeSelectionText.
type GrammarHandle interface {
	Activate(ruleName string) StatusCode
	Deactivate(ruleName string) StatusCode

	ListAppend(listName string, wordBlob []byte) StatusCode
	ListRemove(listName string, wordBlob []byte) StatusCode
	ListSet(listName string, wordBlob []byte) StatusCode

	SelectionSet(choice int, textBlob []byte) StatusCode
	SelectionChange(choice int, textBlob []byte) StatusCode
	SelectionDelete(choice int) StatusCode
	SelectionInsert(choice int, textBlob []byte) StatusCode
	SelectionGet(choice int) ([]byte, StatusCode)

	SetContext(beforeBlob, afterBlob []byte) StatusCode

	Identify() (uuid.UUID, StatusCode)

	Release() StatusCode
}

// WordNode is one engine word-node record (§4.5): recognized text, the
// id of the rule the engine attributes the word to, and the word's
// timing within the utterance.
type WordNode struct {
	Text      string
	RuleID    uint32
	StartTime uint64
	EndTime   uint64
}

// ResultHandle is an engine recognition-result object (§4.5, §6).
type ResultHandle interface {
	// BestPathWord returns the word-node id at the given choice index
	// along the best recognition path. StatusNoMoreResults ends
	// iteration.
	BestPathWord(choice int) (wordID uint32, status StatusCode)

	WordNode(wordID uint32) (WordNode, StatusCode)

	// SelectionInfo returns the selection range for the given GUID and
	// choice index. StatusNotSelectionResult means this choice has no
	// selection data and should be silently skipped.
	SelectionInfo(guid uuid.UUID, choice int) (start, stop, wordNum uint32, status StatusCode)
}
