// Package linediff derives the added lines of an edit by diffing the
// previous file content against the new content.
package linediff

import "strings"

// AddedLines returns the lines present in newContent but not matched against
// oldContent by a longest-common-subsequence line diff.
//
// When oldContent is empty (a full-file write with no captured baseline),
// every non-empty line of newContent is treated as added. That is an
// approximation: confirming against last-committed content is the caller's
// responsibility.
func AddedLines(oldContent, newContent string) []string {
	if newContent == "" {
		return nil
	}

	newLines := splitLines(newContent)

	if oldContent == "" {
		var added []string
		for _, line := range newLines {
			if strings.TrimSpace(line) != "" {
				added = append(added, line)
			}
		}
		return added
	}

	oldLines := splitLines(oldContent)
	inCommon := commonLines(oldLines, newLines)

	var added []string
	for i, line := range newLines {
		if !inCommon[i] {
			added = append(added, line)
		}
	}
	return added
}

// commonLines marks which indices of b belong to the longest common
// subsequence of a and b.
func commonLines(a, b []string) []bool {
	// lcs[i][j] is the LCS length of a[i:] and b[j:].
	lcs := make([][]int, len(a)+1)
	for i := range lcs {
		lcs[i] = make([]int, len(b)+1)
	}

	for i := len(a) - 1; i >= 0; i-- {
		for j := len(b) - 1; j >= 0; j-- {
			if a[i] == b[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else if lcs[i+1][j] >= lcs[i][j+1] {
				lcs[i][j] = lcs[i+1][j]
			} else {
				lcs[i][j] = lcs[i][j+1]
			}
		}
	}

	marked := make([]bool, len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			marked[j] = true
			i++
			j++
		case lcs[i+1][j] >= lcs[i][j+1]:
			i++
		default:
			j++
		}
	}
	return marked
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}
