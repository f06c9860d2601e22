package stentorian

import "fmt"

// GrammarErrorKind identifies which compile-time grammar error
// occurred (§7).
type GrammarErrorKind int

const (
	UnknownRule GrammarErrorKind = iota
	DuplicateRule
	ReservedRule
)

func (k GrammarErrorKind) String() string {
	return map[GrammarErrorKind]string{
		UnknownRule:   "unknown rule",
		DuplicateRule: "duplicate rule",
		ReservedRule:  "reserved rule",
	}[k]
}

// GrammarError is raised by the grammar compiler when a Grammar value
// fails to compile. The load operation (§4.4) aborts before touching
// the engine whenever this error is returned.
type GrammarError struct {
	Kind GrammarErrorKind
	Name string
}

func (e GrammarError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Name)
}

// EngineError carries a non-success status code from an engine call
// verbatim (§7). The iteration sentinel StatusNoMoreResults is a
// normal loop terminator, never wrapped in an EngineError.
type EngineError struct {
	Op     string
	Status StatusCode
}

func (e EngineError) Error() string {
	return fmt.Sprintf("%s: engine status %#x", e.Op, uint32(e.Status))
}
