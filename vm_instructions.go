package stentorian

// label is a symbolic jump target produced by the matcher compiler
// before relocation (§4.2). Every label is unique within one
// compilation; labelAllocator keeps a monotonic counter the same way the
// original source's resultparser/instructions.rs LabelName does.
type label int

type labelAllocator struct{ next label }

func (a *labelAllocator) new() label {
	a.next++
	return a.next
}

// jumpTarget is either a symbolic label (pre-relocation) or a
// concrete instruction index (post-relocation). address panics if
// called before relocation, the same invariant the original source
// enforces in JumpTarget::address().
type jumpTarget struct {
	label    label
	addr     int
	resolved bool
}

func symbolic(l label) jumpTarget { return jumpTarget{label: l} }

func (t jumpTarget) address() int {
	if !t.resolved {
		panic("stentorian: found symbolic jump target before relocation")
	}
	return t.addr
}

// instructionOp identifies the opcode of an Instruction; Instruction
// itself is a flat struct rather than an interface hierarchy because,
// unlike the grammar Element tree, the matcher program is a linear
// vector processed by address, not walked recursively.
type instructionOp int

const (
	opLiteral instructionOp = iota
	opAnyWord
	opCaptureStart
	opCaptureStop
	opRuleCall
	opReturn
	opJump
	opSplit
	opProgress
	opNoOp
	opLabel
)

// Instruction is one entry of a compiled matcher program (§4.2). Only
// the fields relevant to Op are meaningful; see the i* constructors
// below for the supported combinations.
//
// RuleID names the rule whose body this instruction was emitted for
// (1-based, matching Grammar.Rules order). It is unused by the default
// VM and only consulted by MatchStrict (SPEC_FULL §"word-node rule
// attribution"), which additionally checks that a recognized word's
// reported rule id matches the rule the grammar says should have
// produced it.
type Instruction struct {
	Op      instructionOp
	Word    string       // opLiteral
	Name    string       // opCaptureStart
	Target  jumpTarget   // opRuleCall, opJump
	Targets []jumpTarget // opSplit
	Label   label        // opLabel
	RuleID  uint32       // opLiteral, opAnyWord
}

func iLiteral(w string) Instruction       { return Instruction{Op: opLiteral, Word: w} }
func iAnyWord() Instruction               { return Instruction{Op: opAnyWord} }
func iCaptureStart(name string) Instruction {
	return Instruction{Op: opCaptureStart, Name: name}
}
func iCaptureStop() Instruction         { return Instruction{Op: opCaptureStop} }
func iRuleCall(t jumpTarget) Instruction { return Instruction{Op: opRuleCall, Target: t} }
func iReturn() Instruction              { return Instruction{Op: opReturn} }
func iJump(t jumpTarget) Instruction    { return Instruction{Op: opJump, Target: t} }
func iProgress() Instruction            { return Instruction{Op: opProgress} }
func iNoOp() Instruction                { return Instruction{Op: opNoOp} }
func iLabelMark(l label) Instruction    { return Instruction{Op: opLabel, Label: l} }

func iSplit(targets ...jumpTarget) Instruction {
	return Instruction{Op: opSplit, Targets: targets}
}
