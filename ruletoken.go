package stentorian

// ruleToken is one entry of a rule's flat token stream (§4.1). Every
// token serializes to exactly 8 bytes: u16 tag, u16 probability(=0),
// u32 arg, all little-endian.
type ruleToken struct {
	tag uint16
	arg uint32
}

// Basic token tags (§4.1 table).
const (
	tokenGroupStart uint16 = 1
	tokenGroupEnd   uint16 = 2
	tokenWord       uint16 = 3
	tokenRule       uint16 = 4
	tokenList       uint16 = 6
)

// Nested group type codes, the arg of a group start/end token.
const (
	groupSequence    uint32 = 1
	groupAlternative uint32 = 2
	groupRepetition  uint32 = 3
	groupOptional    uint32 = 4
)

func groupStart(kind uint32) ruleToken { return ruleToken{tag: tokenGroupStart, arg: kind} }
func groupEnd(kind uint32) ruleToken   { return ruleToken{tag: tokenGroupEnd, arg: kind} }
func wordToken(id uint32) ruleToken    { return ruleToken{tag: tokenWord, arg: id} }
func ruleRefToken(id uint32) ruleToken { return ruleToken{tag: tokenRule, arg: id} }
func listToken(id uint32) ruleToken    { return ruleToken{tag: tokenList, arg: id} }

// chunkType identifies a chunk in the compiled binary (§6).
type chunkType uint32

const (
	chunkWords       chunkType = 2
	chunkRules       chunkType = 3
	chunkExports     chunkType = 4
	chunkImports     chunkType = 5
	chunkLists       chunkType = 6
	chunkSelectWords chunkType = 0x1017
	chunkThroughWords chunkType = 0x1018
)

// builtinRule names an engine-provided rule referenced implicitly by
// Dictation, DictationWord and SpellingLetter elements (§4.1).
type builtinRule int

const (
	builtinDictation builtinRule = iota
	builtinDictationWord
	builtinSpellingLetter
)

func (b builtinRule) name() string {
	switch b {
	case builtinDictation:
		return "dgndictation"
	case builtinDictationWord:
		return "dgnwords"
	case builtinSpellingLetter:
		return "dgnletters"
	default:
		panic("unknown builtin rule")
	}
}

// offset is added to the grammar's rule count to produce an id above
// the user-rule range, matching the original grammarcompiler/mod.rs
// ImportedRule::offset.
func (b builtinRule) offset() uint32 {
	switch b {
	case builtinDictation:
		return 1
	case builtinDictationWord:
		return 2
	case builtinSpellingLetter:
		return 3
	default:
		panic("unknown builtin rule")
	}
}
