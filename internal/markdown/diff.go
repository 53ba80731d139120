// diff.go — structural diff between two interaction lists.
package markdown

import (
	"sort"
	"strings"

	"github.com/dev-console/servirtium-go/internal/interaction"
)

const contextRadius = 10

// Compare pairs old and new positionally up to min(len(old), len(new)) and
// returns the first difference found: a body difference always takes
// priority over a header difference within the same interaction pair.
// Returns nil if no difference is found in the compared range.
func Compare(old, new []interaction.Data) error {
	n := len(old)
	if len(new) < n {
		n = len(new)
	}

	for i := 0; i < n; i++ {
		if err := compareBodies(old[i].Request.Body, new[i].Request.Body, LocationRequest); err != nil {
			return err
		}
		if err := compareBodies(old[i].Response.Body, new[i].Response.Body, LocationResponse); err != nil {
			return err
		}
		if err := compareHeaders(old[i].Request.Headers, new[i].Request.Headers, LocationRequest); err != nil {
			return err
		}
		if err := compareHeaders(old[i].Response.Headers, new[i].Response.Headers, LocationResponse); err != nil {
			return err
		}
	}
	return nil
}

// compareBodies normalizes both bodies (trim + CRLF->LF) and locates the
// first differing character, reporting 1-based line/column and a
// ±contextRadius-character window clamped to the body ends.
func compareBodies(oldBody, newBody string, loc DifferenceLocation) error {
	oldNorm := interaction.NormalizeBody(oldBody)
	newNorm := interaction.NormalizeBody(newBody)

	line, col, idx, ok := findDifference(oldNorm, newNorm)
	if !ok {
		return nil
	}

	return &BodyDifference{
		Location:   loc,
		Line:       line,
		Column:     col,
		OldContext: context(oldNorm, idx),
		NewContext: context(newNorm, idx),
	}
}

// findDifference returns the 1-based line/column and rune index of the
// first character at which a and b diverge. Line increments and column
// resets to 1 on '\n' in the old body.
func findDifference(a, b string) (line, col, idx int, found bool) {
	ar := []rune(a)
	br := []rune(b)
	line, col = 1, 0

	n := len(ar)
	if len(br) < n {
		n = len(br)
	}

	for i := 0; i < n; i++ {
		if ar[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
		if ar[i] != br[i] {
			return line, col, i, true
		}
	}

	// One is a strict prefix of the other: still a difference at the first
	// index past the shorter one, if lengths differ.
	if len(ar) != len(br) {
		return line, col + 1, n, true
	}

	return 0, 0, 0, false
}

// context returns the ±contextRadius-rune window around index, clamped to
// the string's bounds.
func context(s string, index int) string {
	r := []rune(s)
	if len(r) == 0 {
		return ""
	}
	if index > len(r)-1 {
		index = len(r) - 1
	}

	left := index - contextRadius
	if left < 0 {
		left = 0
	}
	right := index + contextRadius
	if right > len(r) {
		right = len(r)
	}
	return string(r[left:right])
}

// compareHeaders reports the first key absent from either side, or the
// first key whose trimmed values differ. Names are visited in sorted
// order for determinism.
func compareHeaders(oldHeaders, newHeaders interaction.Headers, loc DifferenceLocation) error {
	names := make(map[string]struct{}, len(oldHeaders)+len(newHeaders))
	for name := range oldHeaders {
		names[name] = struct{}{}
	}
	for name := range newHeaders {
		names[name] = struct{}{}
	}

	sorted := make([]string, 0, len(names))
	for name := range names {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)

	for _, name := range sorted {
		oldVal, oldOK := oldHeaders[name]
		newVal, newOK := newHeaders[name]
		if !oldOK || !newOK {
			return &HeaderDifference{Location: loc, Name: name, Old: oldVal, New: newVal}
		}
		if strings.TrimSpace(oldVal) == strings.TrimSpace(newVal) {
			continue
		}
		return &HeaderDifference{Location: loc, Name: name, Old: oldVal, New: newVal}
	}
	return nil
}
