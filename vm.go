package stentorian

// thread is one non-deterministic branch of the backtracking matcher,
// unrelated to OS threads (GLOSSARY). Grounded on the original
// source's resultparser/vm.rs Thread struct.
type thread struct {
	pc        int
	sp        int
	callStack []int
	captures  captureBuilder
	progress  map[int]int
}

func newThread() *thread {
	return &thread{progress: make(map[int]int)}
}

// clone returns an independent copy of t suitable for pushing onto the
// worklist as a Split alternative: mutating the clone must never
// affect t, and vice versa.
func (t *thread) clone() *thread {
	callStack := make([]int, len(t.callStack))
	copy(callStack, t.callStack)

	progress := make(map[int]int, len(t.progress))
	for k, v := range t.progress {
		progress[k] = v
	}

	return &thread{
		pc:        t.pc,
		sp:        t.sp,
		callStack: callStack,
		captures:  t.captures.clone(),
		progress:  progress,
	}
}

// WordInfo is one recognized word tagged with the id of the rule the
// engine reports as having produced it (SPEC_FULL §"word-node rule
// attribution"); the Result Reader (§4.5) fills this in from the
// engine's word-node records.
type WordInfo struct {
	Text   string
	RuleID uint32
}

// Match runs p's byte-code against words, a recognized word sequence,
// and returns the captured root spans on the first accepting thread
// (§4.3). The worklist is a plain LIFO stack; Split defers alternatives
// by pushing clones, so alternatives are explored depth-first in the
// order they were declared (§5).
func (p *Program) Match(words []string) ([]CaptureTree, bool) {
	return p.match(plainWords(words), 0)
}

// MatchStrict behaves like Match but additionally rejects a word
// unless the rule id the engine reported for it equals the rule id the
// grammar's own structure assigns to that position. A word whose
// reported rule id is zero is not checked. This is an opt-in
// strictness mode; Match never performs this check.
func (p *Program) MatchStrict(words []WordInfo) ([]CaptureTree, bool) {
	return p.match(words, 0)
}

// MatchBounded behaves like Match but caps the number of pending
// backtracking branches at maxWorklist (0 means unbounded), matching
// the `matcher.max_worklist` façade setting: a soft safety valve
// against runaway branching on pathological grammars, not a semantic
// the byte-code itself expresses.
func (p *Program) MatchBounded(words []string, maxWorklist int) ([]CaptureTree, bool) {
	return p.match(plainWords(words), maxWorklist)
}

// MatchStrictBounded combines MatchStrict and MatchBounded.
func (p *Program) MatchStrictBounded(words []WordInfo, maxWorklist int) ([]CaptureTree, bool) {
	return p.match(words, maxWorklist)
}

func plainWords(words []string) []WordInfo {
	out := make([]WordInfo, len(words))
	for i, w := range words {
		out[i] = WordInfo{Text: w}
	}
	return out
}

func (p *Program) match(words []WordInfo, maxWorklist int) ([]CaptureTree, bool) {
	worklist := []*thread{newThread()}

	for len(worklist) > 0 {
		t := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		if result, ok := runThread(t, p.Instructions, words, &worklist, maxWorklist); ok {
			return result, true
		}
	}
	return nil, false
}

// runThread executes t against instructions until it either accepts
// (returns true), fails (returns false), or forks via Split (pushing
// new branches onto worklist and continuing). maxWorklist, when
// nonzero, drops branches that would grow the worklist past the limit
// instead of pushing them.
func runThread(t *thread, instructions []Instruction, words []WordInfo, worklist *[]*thread, maxWorklist int) ([]CaptureTree, bool) {
	for {
		ins := instructions[t.pc]
		t.pc++

		switch ins.Op {
		case opLiteral:
			if !consume(t, words, ins.RuleID, func(w WordInfo) bool { return w.Text == ins.Word }) {
				return nil, false
			}

		case opAnyWord:
			if !consume(t, words, ins.RuleID, func(WordInfo) bool { return true }) {
				return nil, false
			}

		case opCaptureStart:
			t.captures.start(ins.Name, t.sp)

		case opCaptureStop:
			t.captures.stop(t.sp)

		case opRuleCall:
			t.callStack = append(t.callStack, t.pc)
			t.pc = ins.Target.address()

		case opReturn:
			if n := len(t.callStack); n > 0 {
				t.pc = t.callStack[n-1]
				t.callStack = t.callStack[:n-1]
				continue
			}
			if t.sp == len(words) {
				return t.captures.done(), true
			}
			return nil, false

		case opJump:
			t.pc = ins.Target.address()

		case opSplit:
			for i := len(ins.Targets) - 1; i >= 1; i-- {
				if maxWorklist > 0 && len(*worklist) >= maxWorklist {
					continue
				}
				branch := t.clone()
				branch.pc = ins.Targets[i].address()
				*worklist = append(*worklist, branch)
			}
			t.pc = ins.Targets[0].address()

		case opProgress:
			pc := t.pc
			if prev, seen := t.progress[pc]; seen && prev == t.sp {
				return nil, false
			}
			t.progress[pc] = t.sp

		case opNoOp:
			// inert after relocation

		default:
			panic("unhandled instruction in matcher VM")
		}
	}
}

// consume advances t.sp past the current word if accept approves it
// and, when the input carries a non-zero rule id (MatchStrict), that
// id matches the instruction's own RuleID.
func consume(t *thread, words []WordInfo, ruleID uint32, accept func(WordInfo) bool) bool {
	if t.sp >= len(words) {
		return false
	}
	w := words[t.sp]
	if !accept(w) {
		return false
	}
	if w.RuleID != 0 && w.RuleID != ruleID {
		return false
	}
	t.sp++
	return true
}
