// Package gitdiff extracts added-line hunks from git diff output so the
// working tree can be scanned without any agent hook in the loop.
package gitdiff

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/johns/codetrace/internal/model"
)

const gitTimeout = 10 * time.Second

// WorkingTree runs git diff --unified=0 in repoDir and parses the result.
// When staged is true the index is diffed instead of the working tree.
// paths, when non-empty, restricts the diff to those files.
func WorkingTree(ctx context.Context, repoDir string, staged bool, paths ...string) ([]model.Hunk, error) {
	ctx, cancel := context.WithTimeout(ctx, gitTimeout)
	defer cancel()

	args := []string{"diff", "--unified=0", "--no-color"}
	if staged {
		args = append(args, "--cached")
	}
	if len(paths) > 0 {
		args = append(args, "--")
		args = append(args, paths...)
	}

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = repoDir
	out, err := cmd.Output()
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok && len(ee.Stderr) > 0 {
			return nil, fmt.Errorf("git diff: %s", strings.TrimSpace(string(ee.Stderr)))
		}
		return nil, fmt.Errorf("git diff: %w", err)
	}

	return ParseUnified(strings.NewReader(string(out)))
}

// ParseUnified parses unified diff text into one hunk per @@ header.
// Only added lines are kept; pure-deletion hunks are dropped. Context
// lines may appear when the diff was not produced with --unified=0 and
// are ignored.
func ParseUnified(r io.Reader) ([]model.Hunk, error) {
	var hunks []model.Hunk
	var file string
	var cur *model.Hunk

	flush := func() {
		if cur != nil && len(cur.AddedLines) > 0 {
			hunks = append(hunks, *cur)
		}
		cur = nil
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, "+++ "):
			flush()
			file = newFilePath(line)

		case strings.HasPrefix(line, "@@ "):
			flush()
			if file == "" {
				continue
			}
			start, count, err := parseHunkHeader(line)
			if err != nil {
				return nil, err
			}
			cur = &model.Hunk{
				FilePath:  file,
				StartLine: start,
				EndLine:   start + max(count, 1) - 1,
			}

		case cur != nil && strings.HasPrefix(line, "+"):
			cur.AddedLines = append(cur.AddedLines, line[1:])

		case strings.HasPrefix(line, "diff --git"):
			flush()
			file = ""
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read diff: %w", err)
	}
	flush()

	return hunks, nil
}

// newFilePath extracts the path from a "+++ b/path" line. Deleted files
// ("+++ /dev/null") yield empty.
func newFilePath(line string) string {
	path := strings.TrimPrefix(line, "+++ ")
	if tab := strings.IndexByte(path, '\t'); tab >= 0 {
		path = path[:tab]
	}
	if path == "/dev/null" {
		return ""
	}
	return strings.TrimPrefix(path, "b/")
}

// parseHunkHeader extracts the new-file start line and count from a
// "@@ -a,b +c,d @@" header. The count defaults to 1 when omitted.
func parseHunkHeader(line string) (start, count int, err error) {
	fields := strings.Fields(line)
	for _, f := range fields {
		if !strings.HasPrefix(f, "+") {
			continue
		}
		spec := strings.TrimPrefix(f, "+")
		countStr := "1"
		if comma := strings.IndexByte(spec, ','); comma >= 0 {
			countStr = spec[comma+1:]
			spec = spec[:comma]
		}
		start, err = strconv.Atoi(spec)
		if err != nil {
			return 0, 0, fmt.Errorf("parse hunk header %q: %w", line, err)
		}
		count, err = strconv.Atoi(countStr)
		if err != nil {
			return 0, 0, fmt.Errorf("parse hunk header %q: %w", line, err)
		}
		return start, count, nil
	}
	return 0, 0, fmt.Errorf("parse hunk header %q: no new-file range", line)
}
