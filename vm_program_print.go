package stentorian

import (
	"fmt"
	"strings"

	"github.com/ocecaco/stentorian-go/ascii"
)

// String renders the byte-code program one instruction per line, for
// use in debugging and in the stentorian CLI's dump subcommand.
func (p *Program) String() string {
	return p.pretty(false)
}

// HighlightString renders the byte-code program with ANSI highlighting
// using ascii.DefaultTheme, grounded on the teacher's ascii color theme
// package (originally built for AST/ASM printers).
func (p *Program) HighlightString() string {
	return p.pretty(true)
}

func (p *Program) pretty(highlight bool) string {
	theme := ascii.DefaultTheme
	paint := func(color, format string, args ...any) string {
		if !highlight {
			return fmt.Sprintf(format, args...)
		}
		return ascii.Color(color, format, args...)
	}

	var b strings.Builder
	for addr, instr := range p.Instructions {
		fmt.Fprintf(&b, "%s  ", paint(theme.Span, "%04d", addr))
		fmt.Fprintf(&b, "%s", paint(theme.Operator, "%-12s", instr.Op.String()))
		switch instr.Op {
		case opLiteral:
			fmt.Fprintf(&b, " %s", paint(theme.Literal, "%q", instr.Word))
			fmt.Fprintf(&b, " %s", paint(theme.Comment, "(rule %d)", instr.RuleID))
		case opAnyWord:
			fmt.Fprintf(&b, " %s", paint(theme.Comment, "(rule %d)", instr.RuleID))
		case opCaptureStart, opCaptureStop:
			fmt.Fprintf(&b, " %s", paint(theme.Operand, "%s", instr.Name))
		case opRuleCall, opJump:
			fmt.Fprintf(&b, " %s", paint(theme.Operand, "-> %d", instr.Target.address()))
		case opSplit:
			parts := make([]string, len(instr.Targets))
			for i, t := range instr.Targets {
				parts[i] = fmt.Sprintf("%d", t.address())
			}
			fmt.Fprintf(&b, " %s", paint(theme.Operand, "[%s]", strings.Join(parts, ", ")))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (op instructionOp) String() string {
	switch op {
	case opLiteral:
		return "literal"
	case opAnyWord:
		return "anyword"
	case opCaptureStart:
		return "capstart"
	case opCaptureStop:
		return "capstop"
	case opRuleCall:
		return "call"
	case opReturn:
		return "return"
	case opJump:
		return "jump"
	case opSplit:
		return "split"
	case opProgress:
		return "progress"
	case opNoOp:
		return "noop"
	case opLabel:
		return "label"
	default:
		return "?"
	}
}
