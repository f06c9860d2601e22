package stentorian

// EventMask is a bitmask of events a sink wants delivered (§4.4, SPEC_FULL
// §"bitflag event masks", grounded on engine/mod.rs's EngineSinkFlags
// and GrammarSinkFlags bitflags! blocks). Engine-sink and grammar-sink
// bits share one type because the two original bitflags types never
// overlap in value and a caller never mixes them.
type EventMask uint32

// Engine-sink bits.
const (
	EventBeginUtterance EventMask = 1 << iota
	EventEndUtterance
	EventVuMeter
	EventAttribute
	EventInterference
	EventSound
	EventPaused
	EventError
	EventProgress
	EventMimicDone
)

// Grammar-sink bits, matching the original's distinct flag range so
// the two families never collide.
const (
	EventPhraseStart EventMask = 1 << (16 + iota)
	EventPhraseHypothesis
	EventPhraseFinish
	EventForeignFinish
	EventBookmark
	EventGrammarPaused
	EventReevaluate
	EventTraining
	EventUnarchive
)

// DefaultGrammarMask is what §4.4 calls "always phrase-start and
// phrase-finish".
const DefaultGrammarMask = EventPhraseStart | EventPhraseFinish

// Has reports whether mask includes every bit of other.
func (mask EventMask) Has(other EventMask) bool { return mask&other == other }

// Attribute identifies an engine attribute change event (SPEC_FULL,
// grounded on engine/mod.rs::Attribute).
type Attribute int

const (
	AttributeUnknown Attribute = iota
	AttributeAutoGainEnable
	AttributeThreshold
	AttributeEcho
	AttributeEnergyFloor
	AttributeMicrophone
	AttributeRealTime
	AttributeSpeaker
	AttributeTimeout
	AttributeStartListening
	AttributeStopListening
	AttributeMicrophoneState
	AttributeRegistry
	AttributePlaybackDone
	AttributeTopic
	AttributeLexiconAdd
	AttributeLexiconRemove
)

// EngineEventKind identifies the shape of an EngineEvent.
type EngineEventKind int

const (
	EngineEventAttributeChanged EngineEventKind = iota
	EngineEventInterference
	EngineEventSound
	EngineEventUtteranceBegin
	EngineEventUtteranceEnd
	EngineEventVuMeter
	EngineEventPaused
	EngineEventMimicDone
	EngineEventError
	EngineEventProgress
)

// EngineEvent is delivered to the engine-wide callback registered via
// Engine.RegisterEventSink (§4.4).
type EngineEvent struct {
	Kind      EngineEventKind
	Attribute Attribute // EngineEventAttributeChanged
}

// GrammarEventKind identifies the shape of a GrammarEvent delivered to
// a loaded grammar's callback (§4.4, SPEC_FULL §"grammar-sink event
// variants beyond phrase-finish").
type GrammarEventKind int

const (
	GrammarEventPhraseStart GrammarEventKind = iota
	GrammarEventPhraseHypothesis
	GrammarEventPhraseFinish
	GrammarEventBookmark
	GrammarEventPaused
	GrammarEventReevaluate
	GrammarEventTraining
	GrammarEventUnarchive
)

// PhraseOutcome is the result of a phrase-finish event after the
// matcher has had a chance to run (§4.4 step 3, §7 "Matcher failures").
type PhraseOutcome int

const (
	// PhraseFinish is a successful match: Captures holds the parse.
	PhraseFinish PhraseOutcome = iota
	// PhraseRecognitionFailure is the engine rejecting the phrase
	// outright, before the matcher ever runs. Not an error (§7).
	PhraseRecognitionFailure
	// PhraseNoParse is the engine accepting the phrase but the
	// matcher failing to re-derive a parse for it. It is also delivered
	// when the word sequence cannot be read from the result, and for
	// selection and dictation grammars, which have no matcher program.
	// Also not an error.
	PhraseNoParse
	// PhraseForeign is a recognition against some other loaded
	// grammar, only delivered to catch-all grammars (GLOSSARY
	// "Foreign recognition").
	PhraseForeign
)

// GrammarEvent is delivered to the per-grammar callback registered via
// Engine.LoadGrammar (§4.4).
type GrammarEvent struct {
	Kind GrammarEventKind

	// Phrase is populated when Kind == GrammarEventPhraseFinish.
	Phrase PhraseResult
}

// PhraseResult is the outcome of one phrase-finish matcher run.
type PhraseResult struct {
	Outcome  PhraseOutcome
	Captures []CaptureTree
}
