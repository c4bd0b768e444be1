// Package loop expands the flat for/endfor repeat blocks that cookbooks use.
//
// A block starts with a line whose first token is "for" followed by a single
// non-negative repeat count, and ends at the first line whose only token is
// "endfor". Blocks do not nest.
package loop

import (
	"fmt"
	"strconv"

	"github.com/vk/ucompcheck/internal/model"
)

const (
	StartKeyword = "for"
	EndKeyword   = "endfor"
)

// LoopError describes a malformed block. Line is the line of the offending
// "for" (or the stray "endfor").
type LoopError struct {
	Line    int
	Message string
}

func (e LoopError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

func isStart(l model.Line) bool {
	return l.First() == StartKeyword
}

func isEnd(l model.Line) bool {
	return len(l.Fields) == 1 && l.Fields[0] == EndKeyword
}

// Unroll returns lines with every well-formed block replaced by count copies
// of its body. Malformed blocks contribute no lines and one LoopError each.
// Output lines keep their source line numbers.
func Unroll(lines []model.Line) ([]model.Line, []LoopError) {
	var out []model.Line
	var errs []LoopError

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		switch {
		case isEnd(line):
			errs = append(errs, LoopError{Line: line.No, Message: "endfor without matching for"})
			continue
		case !isStart(line):
			out = append(out, line)
			continue
		}

		end, nested := findEnd(lines, i)
		if end < 0 {
			errs = append(errs, LoopError{Line: line.No, Message: fmt.Sprintf("Invalid loop %q: no matching endfor", line.Text())})
			return out, errs
		}
		body := lines[i+1 : end]
		i = end

		if nested {
			errs = append(errs, LoopError{Line: line.No, Message: fmt.Sprintf("Invalid loop %q: nested loops are not supported", line.Text())})
			continue
		}
		count, err := parseCount(line)
		if err != nil {
			errs = append(errs, LoopError{Line: line.No, Message: fmt.Sprintf("Invalid loop %q: %v", line.Text(), err)})
			continue
		}
		for n := 0; n < count; n++ {
			out = append(out, body...)
		}
	}
	return out, errs
}

// findEnd returns the index of the endfor closing the block opened at start,
// or -1. A for inside the body marks the block nested; the search then
// balances for/endfor pairs so the whole outer block can be dropped.
func findEnd(lines []model.Line, start int) (int, bool) {
	depth := 0
	nested := false
	for j := start + 1; j < len(lines); j++ {
		switch {
		case isStart(lines[j]):
			nested = true
			depth++
		case isEnd(lines[j]):
			if depth == 0 {
				return j, nested
			}
			depth--
		}
	}
	return -1, nested
}

func parseCount(line model.Line) (int, error) {
	if len(line.Fields) != 2 {
		return 0, fmt.Errorf("expected exactly one repeat count, got %d arguments", len(line.Fields)-1)
	}
	count, err := strconv.Atoi(line.Fields[1])
	if err != nil {
		return 0, fmt.Errorf("repeat count %q is not an integer", line.Fields[1])
	}
	if count < 0 {
		return 0, fmt.Errorf("repeat count %d is negative", count)
	}
	return count, nil
}
