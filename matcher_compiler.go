package stentorian

// Program is a compiled matcher byte-code program: an ordered vector
// of Instructions with every jump target resolved to an absolute
// index (§3 "Matcher byte-code"). It is immutable once returned from
// CompileMatcher and safe to share across concurrent recognition
// callbacks (§5).
type Program struct {
	Instructions []Instruction
}

// CompileMatcher translates g into a Program such that running the VM
// against any word sequence yields either a capture tree (acceptance)
// or failure (§4.2).
//
// Compilation happens in two passes, mirroring the original source's
// resultparser/compiler.rs: compileGrammar walks the Element trees and
// emits instructions carrying symbolic labels, then relocate rewrites
// every Jump/Split/RuleCall target to a concrete instruction index and
// turns Label markers into NoOps.
func CompileMatcher(g Grammar) (*Program, error) {
	c := &matcherCompiler{ruleLabel: make(map[string]label)}
	instructions, err := c.compileGrammar(g)
	if err != nil {
		return nil, err
	}
	relocate(instructions)
	return &Program{Instructions: instructions}, nil
}

type matcherCompiler struct {
	alloc       labelAllocator
	ruleLabel   map[string]label
	out         []Instruction
	currentRule uint32
}

func (c *matcherCompiler) emit(i Instruction) {
	if i.Op == opLiteral || i.Op == opAnyWord {
		i.RuleID = c.currentRule
	}
	c.out = append(c.out, i)
}

func (c *matcherCompiler) compileGrammar(g Grammar) ([]Instruction, error) {
	type ruleLabelPair struct {
		rule  Rule
		label label
		id    uint32
	}

	var withLabels []ruleLabelPair
	var entryLabels []label
	for i, r := range g.Rules {
		l := c.alloc.new()
		if r.Exported {
			entryLabels = append(entryLabels, l)
		}
		withLabels = append(withLabels, ruleLabelPair{rule: r, label: l, id: uint32(i + 1)})
		c.ruleLabel[r.Name] = l
	}

	// Top-level prelude (§4.2): split over every exported rule's
	// entry label. Accepting means selecting some exported rule and
	// consuming the entire input through it.
	c.emit(iSplit(symbolicTargets(entryLabels)...))

	for _, p := range withLabels {
		c.currentRule = p.id
		if err := c.compileRule(p.rule, p.label); err != nil {
			return nil, err
		}
	}
	return c.out, nil
}

func symbolicTargets(labels []label) []jumpTarget {
	targets := make([]jumpTarget, len(labels))
	for i, l := range labels {
		targets[i] = symbolic(l)
	}
	return targets
}

func (c *matcherCompiler) compileRule(r Rule, start label) error {
	c.emit(iLabelMark(start))
	if err := c.compileElement(r.Body); err != nil {
		return err
	}
	c.emit(iReturn())
	return nil
}

func (c *matcherCompiler) compileElement(e Element) error {
	switch el := e.(type) {
	case Sequence:
		for _, child := range el.Children {
			if err := c.compileElement(child); err != nil {
				return err
			}
		}

	case Alternative:
		labels := make([]label, len(el.Children))
		for i := range el.Children {
			labels[i] = c.alloc.new()
		}
		c.emit(iSplit(symbolicTargets(labels)...))

		end := c.alloc.new()
		for i, child := range el.Children {
			c.emit(iLabelMark(labels[i]))
			if err := c.compileElement(child); err != nil {
				return err
			}
			c.emit(iJump(symbolic(end)))
		}
		c.emit(iLabelMark(end))

	case Repetition:
		loop := c.alloc.new()
		done := c.alloc.new()

		c.emit(iLabelMark(loop))
		c.emit(iProgress())
		if err := c.compileElement(el.Child); err != nil {
			return err
		}
		// Greedy: loop target first.
		c.emit(iSplit(symbolic(loop), symbolic(done)))
		c.emit(iLabelMark(done))

	case Optional:
		yes := c.alloc.new()
		no := c.alloc.new()

		c.emit(iSplit(symbolic(yes), symbolic(no)))
		c.emit(iLabelMark(yes))
		if err := c.compileElement(el.Child); err != nil {
			return err
		}
		c.emit(iLabelMark(no))

	case Capture:
		c.emit(iCaptureStart(el.Name))
		if err := c.compileElement(el.Child); err != nil {
			return err
		}
		c.emit(iCaptureStop())

	case Word:
		c.emit(iLiteral(el.Text))

	case RuleRef:
		l, ok := c.ruleLabel[el.Name]
		if !ok {
			return GrammarError{Kind: UnknownRule, Name: el.Name}
		}
		c.emit(iRuleCall(symbolic(l)))

	case List, DictationWord:
		c.emit(iAnyWord())

	case Dictation:
		loop := c.alloc.new()
		done := c.alloc.new()

		c.emit(iLabelMark(loop))
		c.emit(iProgress())
		c.emit(iAnyWord())
		// Non-greedy: done target first, matches the shortest run.
		c.emit(iSplit(symbolic(done), symbolic(loop)))
		c.emit(iLabelMark(done))

	case SpellingLetter:
		c.emit(iAnyWord())

	default:
		panic("unhandled element type in matcher compiler")
	}
	return nil
}

// relocate maps every symbolic label to the instruction index of its
// Label marker, rewrites Jump/Split/RuleCall targets in place, and
// turns every Label instruction into a NoOp.
func relocate(instructions []Instruction) {
	locations := make(map[label]int)
	for i, ins := range instructions {
		if ins.Op == opLabel {
			locations[ins.Label] = i
		}
	}

	resolve := func(t jumpTarget) jumpTarget {
		return jumpTarget{addr: locations[t.label], resolved: true}
	}

	for i, ins := range instructions {
		switch ins.Op {
		case opJump, opRuleCall:
			instructions[i].Target = resolve(ins.Target)
		case opSplit:
			targets := make([]jumpTarget, len(ins.Targets))
			for j, t := range ins.Targets {
				targets[j] = resolve(t)
			}
			instructions[i].Targets = targets
		case opLabel:
			instructions[i] = iNoOp()
		}
	}
}
