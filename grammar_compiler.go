package stentorian

import (
	"bytes"
	"encoding/binary"
	"unicode/utf16"
)

// CompileCommandGrammar walks g depth-first and emits the chunked
// binary blob the engine accepts as a context-free grammar definition
// (§4.1, §6). It is the general entry point; CompileSelectGrammar and
// CompileDictationGrammar cover the two built-in grammar shapes.
func CompileCommandGrammar(g Grammar) ([]byte, error) {
	c := &grammarCompiler{
		grammar:      g,
		ruleNameToID: make(map[string]uint32),
		words:        newInterner(),
		lists:        newInterner(),
	}
	return c.compile()
}

// CompileSelectGrammar emits the binary for a built-in selection
// grammar out of two word lists (§6).
func CompileSelectGrammar(selectWords, throughWords []string) []byte {
	var out bytes.Buffer
	writeU32(&out, 10)
	writeU32(&out, 1)

	writeChunk(&out, chunkSelectWords, compileIDChunk(zeroIDPairs(selectWords)))
	writeChunk(&out, chunkThroughWords, compileIDChunk(zeroIDPairs(throughWords)))
	return out.Bytes()
}

// CompileDictationGrammar emits the constant dictation-grammar header
// (§6); dictation grammars carry no chunks.
func CompileDictationGrammar() []byte {
	var out bytes.Buffer
	writeU32(&out, 2)
	writeU32(&out, 1)
	return out.Bytes()
}

func zeroIDPairs(names []string) []idName {
	pairs := make([]idName, len(names))
	for i, n := range names {
		pairs[i] = idName{ID: 0, Name: n}
	}
	return pairs
}

type grammarCompiler struct {
	grammar       Grammar
	exportedRules []idName
	importedRules []idName
	ruleNameToID  map[string]uint32
	words         *interner
	lists         *interner
}

func (c *grammarCompiler) compile() ([]byte, error) {
	// Declare every rule before compiling any body, so a RuleRef may
	// name a rule declared later in the grammar.
	for i, r := range c.grammar.Rules {
		if err := c.declareRule(uint32(i+1), r.Name); err != nil {
			return nil, err
		}
	}

	var ruleChunk bytes.Buffer
	for i, r := range c.grammar.Rules {
		id := uint32(i + 1)
		body, err := c.compileRule(id, r)
		if err != nil {
			return nil, err
		}
		writeEntry(&ruleChunk, id, body)
	}

	wordChunk := compileIDChunk(c.words.done())
	listChunk := compileIDChunk(c.lists.done())
	exportChunk := compileIDChunk(c.exportedRules)
	importChunk := compileIDChunk(c.importedRules)

	var out bytes.Buffer
	writeU32(&out, 0)
	writeU32(&out, 1)
	writeChunk(&out, chunkExports, exportChunk)
	writeChunk(&out, chunkImports, importChunk)
	writeChunk(&out, chunkLists, listChunk)
	writeChunk(&out, chunkWords, wordChunk)
	writeChunk(&out, chunkRules, ruleChunk.Bytes())
	return out.Bytes(), nil
}

// compileRule records the rule as an export if it is one, descends
// into its body and returns the serialized token stream. The rule has
// already been declared by compile.
func (c *grammarCompiler) compileRule(id uint32, r Rule) ([]byte, error) {
	if r.Exported {
		c.exportedRules = append(c.exportedRules, idName{ID: id, Name: r.Name})
	}

	var tokens []ruleToken
	if err := c.compileElement(r.Body, &tokens); err != nil {
		return nil, err
	}
	return serializeRuleTokens(tokens), nil
}

func (c *grammarCompiler) declareRule(id uint32, name string) error {
	if isReservedRuleName(name) {
		return GrammarError{Kind: ReservedRule, Name: name}
	}
	if _, ok := c.ruleNameToID[name]; ok {
		return GrammarError{Kind: DuplicateRule, Name: name}
	}
	c.ruleNameToID[name] = id
	return nil
}

// isReservedRuleName reports whether name collides with one of the
// engine's built-in rules (§4.1), which a user grammar may reference
// implicitly via Dictation/DictationWord/SpellingLetter but may never
// declare itself.
func isReservedRuleName(name string) bool {
	return name == builtinDictation.name() ||
		name == builtinDictationWord.name() ||
		name == builtinSpellingLetter.name()
}

// addImportedRule returns the id of an implicit built-in rule,
// registering it in the imports table on first use (§4.1).
func (c *grammarCompiler) addImportedRule(b builtinRule) uint32 {
	name := b.name()
	if id, ok := c.ruleNameToID[name]; ok {
		return id
	}
	id := uint32(len(c.grammar.Rules)) + b.offset()
	c.ruleNameToID[name] = id
	c.importedRules = append(c.importedRules, idName{ID: id, Name: name})
	return id
}

func (c *grammarCompiler) compileElement(e Element, out *[]ruleToken) error {
	switch el := e.(type) {
	case Sequence:
		*out = append(*out, groupStart(groupSequence))
		for _, child := range el.Children {
			if err := c.compileElement(child, out); err != nil {
				return err
			}
		}
		*out = append(*out, groupEnd(groupSequence))

	case Alternative:
		*out = append(*out, groupStart(groupAlternative))
		for _, child := range el.Children {
			if err := c.compileElement(child, out); err != nil {
				return err
			}
		}
		*out = append(*out, groupEnd(groupAlternative))

	case Repetition:
		*out = append(*out, groupStart(groupRepetition))
		if err := c.compileElement(el.Child, out); err != nil {
			return err
		}
		*out = append(*out, groupEnd(groupRepetition))

	case Optional:
		*out = append(*out, groupStart(groupOptional))
		if err := c.compileElement(el.Child, out); err != nil {
			return err
		}
		*out = append(*out, groupEnd(groupOptional))

	case Word:
		id := c.words.intern(el.Text)
		*out = append(*out, wordToken(id))

	case RuleRef:
		id, ok := c.ruleNameToID[el.Name]
		if !ok {
			return GrammarError{Kind: UnknownRule, Name: el.Name}
		}
		*out = append(*out, ruleRefToken(id))

	case List:
		id := c.lists.intern(el.Name)
		*out = append(*out, listToken(id))

	case Capture:
		// Captures are transparent to the binary emitter (§4.1,
		// §8): descend into the child without emitting a marker.
		return c.compileElement(el.Child, out)

	case Dictation:
		*out = append(*out, ruleRefToken(c.addImportedRule(builtinDictation)))

	case DictationWord:
		*out = append(*out, ruleRefToken(c.addImportedRule(builtinDictationWord)))

	case SpellingLetter:
		*out = append(*out, ruleRefToken(c.addImportedRule(builtinSpellingLetter)))

	default:
		panic("unhandled element type in grammar compiler")
	}
	return nil
}

func serializeRuleTokens(tokens []ruleToken) []byte {
	var out bytes.Buffer
	for _, t := range tokens {
		writeU16(&out, t.tag)
		writeU16(&out, 0) // probability, always zero
		writeU32(&out, t.arg)
	}
	return out.Bytes()
}

func writeChunk(out *bytes.Buffer, t chunkType, body []byte) {
	writeU32(out, uint32(t))
	writeU32(out, uint32(len(body)))
	out.Write(body)
}

func writeEntry(out *bytes.Buffer, id uint32, payload []byte) {
	writeU32(out, uint32(8+len(payload)))
	writeU32(out, id)
	out.Write(payload)
}

// compileIDChunk encodes a sequence of (id, name) entries as a name
// chunk body: each entry is a u32-total-length-prefixed, u32-id-tagged
// payload of UTF-16LE text terminated by u16(0) and zero-padded to a
// multiple of 4 (§4.1, §6).
func compileIDChunk(entries []idName) []byte {
	var chunk bytes.Buffer
	for _, e := range entries {
		writeEntry(&chunk, e.ID, encodeNamePayload(e.Name))
	}
	return chunk.Bytes()
}

func encodeNamePayload(s string) []byte {
	var buf bytes.Buffer
	for _, u := range utf16.Encode([]rune(s)) {
		writeU16(&buf, u)
	}
	writeU16(&buf, 0)
	for buf.Len()%4 != 0 {
		buf.WriteByte(0)
	}
	return buf.Bytes()
}

func writeU16(out *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	out.Write(b[:])
}

func writeU32(out *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	out.Write(b[:])
}
