package stentorian

import "github.com/google/uuid"

// ReadWordSequence pulls the best recognition path out of result,
// fetching each word-node in turn, until the engine returns the
// iteration sentinel StatusNoMoreResults (§4.5).
func ReadWordSequence(result ResultHandle) ([]WordInfo, error) {
	var words []WordInfo
	for choice := 0; ; choice++ {
		id, status := result.BestPathWord(choice)
		if status == StatusNoMoreResults {
			break
		}
		if status != StatusSuccess {
			return nil, EngineError{Op: "BestPathWord", Status: status}
		}

		node, status := result.WordNode(id)
		if status != StatusSuccess {
			return nil, EngineError{Op: "WordNode", Status: status}
		}
		words = append(words, WordInfo{Text: node.Text, RuleID: node.RuleID})
	}
	return words, nil
}

// SelectionRange is one selection-grammar choice's recognized range
// within the current selection text (§4.5, §4.4 "selection-grammar
// mutation surface").
type SelectionRange struct {
	Start, Stop uint32
	WordNum     uint32
}

// ReadSelectionRanges runs a parallel iteration over selection ranges
// keyed by the grammar's GUID (§4.5). Choices that aren't selection
// results (StatusNotSelectionResult) are silently skipped, matching
// §4.5 and §7.
func ReadSelectionRanges(result ResultHandle, guid uuid.UUID) ([]SelectionRange, error) {
	var ranges []SelectionRange
	for choice := 0; ; choice++ {
		start, stop, wordNum, status := result.SelectionInfo(guid, choice)
		switch status {
		case StatusNoMoreResults:
			return ranges, nil
		case StatusNotSelectionResult:
			continue
		case StatusSuccess:
			ranges = append(ranges, SelectionRange{Start: start, Stop: stop, WordNum: wordNum})
		default:
			return nil, EngineError{Op: "SelectionInfo", Status: status}
		}
	}
}
