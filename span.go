package stentorian

import "fmt"

// Span indexes a contiguous range of the recognized word sequence
// (§3 "Capture tree"). Start is inclusive, End is exclusive.
type Span struct{ Start, End int }

func (s Span) String() string {
	if s.Start == s.End {
		return fmt.Sprintf("%d", s.Start)
	}
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}

// Words returns the sub-slice of words spanned by s.
func (s Span) Words(words []string) []string {
	return words[s.Start:s.End]
}
