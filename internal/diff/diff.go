// Package diff computes a line-oriented comparison between two text versions.
//
// The comparison is positional: lines are matched by index, not by a
// minimal-edit alignment. An inserted line therefore shifts every following
// line into a change row. This mirrors the comparison the version-history view
// has always shown and must not be replaced with an LCS diff.
package diff

import "strings"

// Kind classifies a diff line.
type Kind string

const (
	Same   Kind = "same"
	Add    Kind = "add"
	Remove Kind = "remove"
	Change Kind = "change"
)

// Line is one row of the comparison. Line numbers are 1-based; a zero number
// means the side has no line at that position. Text carries the shared text
// for Same, the surviving side for Add/Remove, and is empty for Change, which
// uses TextBefore/TextAfter instead.
type Line struct {
	Kind       Kind
	LineBefore int
	LineAfter  int
	Text       string
	TextBefore string
	TextAfter  string
}

// Compute compares before and after line by line. The result always has
// max(lineCount(before), lineCount(after)) entries.
func Compute(before, after string) []Line {
	linesBefore := strings.Split(before, "\n")
	linesAfter := strings.Split(after, "\n")

	maxLen := len(linesBefore)
	if len(linesAfter) > maxLen {
		maxLen = len(linesAfter)
	}

	result := make([]Line, 0, maxLen)
	for i := 0; i < maxLen; i++ {
		var lineBefore, lineAfter string
		if i < len(linesBefore) {
			lineBefore = linesBefore[i]
		}
		if i < len(linesAfter) {
			lineAfter = linesAfter[i]
		}

		switch {
		case lineBefore == lineAfter:
			result = append(result, Line{Kind: Same, LineBefore: i + 1, LineAfter: i + 1, Text: lineBefore})
		case lineBefore == "":
			result = append(result, Line{Kind: Add, LineAfter: i + 1, Text: lineAfter})
		case lineAfter == "":
			result = append(result, Line{Kind: Remove, LineBefore: i + 1, Text: lineBefore})
		default:
			result = append(result, Line{Kind: Change, LineBefore: i + 1, LineAfter: i + 1, TextBefore: lineBefore, TextAfter: lineAfter})
		}
	}

	return result
}
