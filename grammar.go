package stentorian

// Grammar is an ordered sequence of rules. Order is the source of rule
// ids: the first rule is id 1, and so on.
type Grammar struct {
	Rules []Rule
}

// Rule binds a name to an element tree. Exported rules are entry
// points the engine may activate and the matcher may start from.
type Rule struct {
	Name     string
	Exported bool
	Body     Element
}

// NewGrammar builds a Grammar from an ordered list of rules.
func NewGrammar(rules ...Rule) Grammar {
	return Grammar{Rules: rules}
}

// RuleByName returns the rule named n, if any.
func (g Grammar) RuleByName(n string) (Rule, bool) {
	for _, r := range g.Rules {
		if r.Name == n {
			return r, true
		}
	}
	return Rule{}, false
}

// Element is a recursive, tagged grammar node. Go has no sum types, so
// Element is an interface implemented by a closed set of struct types
// (Sequence/Alternative/Repetition/Optional/Capture/Word/RuleRef/List/
// Dictation/DictationWord/SpellingLetter) rather than a tagged union
// struct; Seq/Alt/Rep/Opt/Cap/W/Ref/Lst are convenience constructors.
type Element interface {
	elementKind() elementKind
}

type elementKind int

const (
	kindSequence elementKind = iota
	kindAlternative
	kindRepetition
	kindOptional
	kindCapture
	kindWord
	kindRuleRef
	kindList
	kindDictation
	kindDictationWord
	kindSpellingLetter
)

// Sequence matches its children left-to-right.
type Sequence struct{ Children []Element }

func (Sequence) elementKind() elementKind { return kindSequence }

// Seq is a convenience constructor for Sequence.
func Seq(children ...Element) Sequence { return Sequence{Children: children} }

// Alternative matches exactly one child.
type Alternative struct{ Children []Element }

func (Alternative) elementKind() elementKind { return kindAlternative }

// Alt is a convenience constructor for Alternative.
func Alt(children ...Element) Alternative { return Alternative{Children: children} }

// Repetition matches its child one or more times (Kleene +).
type Repetition struct{ Child Element }

func (Repetition) elementKind() elementKind { return kindRepetition }

// Rep is a convenience constructor for Repetition.
func Rep(child Element) Repetition { return Repetition{Child: child} }

// Optional matches its child zero or one times.
type Optional struct{ Child Element }

func (Optional) elementKind() elementKind { return kindOptional }

// Opt is a convenience constructor for Optional.
func Opt(child Element) Optional { return Optional{Child: child} }

// Capture records the span matched by Child under Name. Capture is
// transparent to the grammar compiler (§4.1): the binary emitter
// descends straight into Child as if the Capture weren't there.
type Capture struct {
	Name  string
	Child Element
}

func (Capture) elementKind() elementKind { return kindCapture }

// Cap is a convenience constructor for Capture.
func Cap(name string, child Element) Capture { return Capture{Name: name, Child: child} }

// Word matches one spoken word literally.
type Word struct{ Text string }

func (Word) elementKind() elementKind { return kindWord }

// W is a convenience constructor for Word.
func W(text string) Word { return Word{Text: text} }

// RuleRef matches another rule by name. Every RuleRef must resolve to
// some rule in the same grammar; this is checked by both compilers.
type RuleRef struct{ Name string }

func (RuleRef) elementKind() elementKind { return kindRuleRef }

// Ref is a convenience constructor for RuleRef.
func Ref(name string) RuleRef { return RuleRef{Name: name} }

// List matches one word from a dynamically mutable word list owned by
// the engine. The name is opaque to both compilers; it is only used to
// key the list on the engine side (§4.4 grammar-control surface).
type List struct{ Name string }

func (List) elementKind() elementKind { return kindList }

// Lst is a convenience constructor for List.
func Lst(name string) List { return List{Name: name} }

// Dictation matches a non-empty arbitrary word sequence, routed
// through the engine's built-in dictation rule.
type Dictation struct{}

func (Dictation) elementKind() elementKind { return kindDictation }

// DictationWord matches exactly one dictation word.
type DictationWord struct{}

func (DictationWord) elementKind() elementKind { return kindDictationWord }

// SpellingLetter matches one letter via the engine's built-in
// letter-spelling rule.
type SpellingLetter struct{}

func (SpellingLetter) elementKind() elementKind { return kindSpellingLetter }
