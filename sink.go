package stentorian

import (
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// refcounted is the Go-side vestige of the reference-counting
// discipline §9 describes for engine-delivered sinks: "an operation
// that returns a new reference grants ownership to the caller, who
// must release it exactly once". The Go garbage collector reclaims
// sink memory on its own, but the fake engine driver used in tests
// still calls Acquire/Release to exercise the same lifetime contract a
// real COM-style engine would drive through IUnknown.
type refcounted struct{ n int32 }

func (r *refcounted) Acquire() int32 { return atomic.AddInt32(&r.n, 1) }
func (r *refcounted) Release() int32 { return atomic.AddInt32(&r.n, -1) }

// EngineSink is the capability set §9 assigns to an engine-wide event
// sink: report the event mask it wants, and accept delivered events.
// Implementations must be safe to call concurrently (§5).
type EngineSink interface {
	EventMask() EventMask
	Deliver(evt EngineEvent)
}

// RawPhraseEvent is what the engine hands a grammar sink on
// phrase-finish, before this core has interpreted the flags (§4.4 step
// 3): one bit distinguishes recognized from rejected, another
// distinguishes this-grammar from foreign-grammar.
type RawPhraseEvent struct {
	Recognized     bool
	ForeignGrammar bool
	Result         ResultHandle
}

// GrammarSink is the capability set §9 assigns to a per-grammar
// recognition sink.
type GrammarSink interface {
	EventMask() EventMask
	DeliverPhrase(evt RawPhraseEvent)
	DeliverOther(kind GrammarEventKind)
}

// engineSink is the concrete EngineSink backing Engine.RegisterEventSink.
type engineSink struct {
	refcounted
	mask     EventMask
	callback func(EngineEvent)
}

func (s *engineSink) EventMask() EventMask { return s.mask }

func (s *engineSink) Deliver(evt EngineEvent) {
	s.callback(evt)
}

// grammarSink is the concrete GrammarSink backing Engine.LoadGrammar.
// It owns the byte-code program for this grammar and, for selection
// grammars, the GUID the Result Reader uses to key selection ranges
// (§4.5). Each phrase-finish delivery runs the matcher against its own
// freshly created VM state and shares nothing mutable with other runs
// (§5), so DeliverPhrase needs no locking of its own; the program it
// reads is immutable after CompileMatcher returns.
type grammarSink struct {
	refcounted
	mask        EventMask
	kind        GrammarFormat
	program     *Program // nil for selection and dictation grammars, which never match
	guid        uuid.UUID
	strict      bool
	maxWorklist int
	callback    func(GrammarEvent)
	log         zerolog.Logger
}

func (s *grammarSink) EventMask() EventMask { return s.mask }

func (s *grammarSink) DeliverOther(kind GrammarEventKind) {
	s.callback(GrammarEvent{Kind: kind})
}

func (s *grammarSink) DeliverPhrase(evt RawPhraseEvent) {
	if evt.ForeignGrammar {
		if !s.mask.Has(EventForeignFinish) {
			return
		}
		s.callback(GrammarEvent{Kind: GrammarEventPhraseFinish, Phrase: PhraseResult{Outcome: PhraseForeign}})
		return
	}

	if !evt.Recognized {
		s.log.Debug().Msg("phrase rejected by engine")
		s.callback(GrammarEvent{Kind: GrammarEventPhraseFinish, Phrase: PhraseResult{Outcome: PhraseRecognitionFailure}})
		return
	}

	words, err := ReadWordSequence(evt.Result)
	if err != nil {
		s.log.Error().Err(err).Msg("failed reading recognized word sequence")
		s.callback(GrammarEvent{Kind: GrammarEventPhraseFinish, Phrase: PhraseResult{Outcome: PhraseNoParse}})
		return
	}

	if s.program == nil {
		s.callback(GrammarEvent{Kind: GrammarEventPhraseFinish, Phrase: PhraseResult{Outcome: PhraseNoParse}})
		return
	}

	var captures []CaptureTree
	var ok bool
	if s.strict {
		captures, ok = s.program.MatchStrictBounded(words, s.maxWorklist)
	} else {
		plain := make([]string, len(words))
		for i, w := range words {
			plain[i] = w.Text
		}
		captures, ok = s.program.MatchBounded(plain, s.maxWorklist)
	}

	if !ok {
		s.callback(GrammarEvent{Kind: GrammarEventPhraseFinish, Phrase: PhraseResult{Outcome: PhraseNoParse}})
		return
	}
	s.callback(GrammarEvent{Kind: GrammarEventPhraseFinish, Phrase: PhraseResult{Outcome: PhraseFinish, Captures: captures}})
}
