package merge

import "strings"

// Conflict marker length is fixed at 7, matching git's own convention.
const (
	conflictStart = "<<<<<<<"
	conflictMid   = "======="
	conflictEnd   = ">>>>>>>"
)

// splitLines tokenizes text into lines, each retaining its trailing "\n"
// except possibly the last, so joining the slice back together always
// reproduces the original text exactly.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// MergeBlobs applies diff3 to three blob contents, producing the merged
// text and whether any conflict hunk survived. A surviving conflict is
// rendered as:
//
//	<<<<<<< ourName
//	our lines
//	=======
//	their lines
//	>>>>>>> theirName
func MergeBlobs(base, ours, theirs []byte, ourName, theirName string) (merged []byte, hasConflict bool, err error) {
	regions := diff3Merge(splitLines(string(base)), splitLines(string(ours)), splitLines(string(theirs)))

	var out strings.Builder
	for _, r := range regions {
		if r.conflict == nil {
			for _, l := range r.ok {
				out.WriteString(l)
			}
			continue
		}

		hasConflict = true
		out.WriteString(conflictStart)
		out.WriteByte(' ')
		out.WriteString(ourName)
		out.WriteByte('\n')
		for _, l := range r.conflict.ours {
			out.WriteString(l)
		}
		out.WriteString(conflictMid)
		out.WriteByte('\n')
		for _, l := range r.conflict.theirs {
			out.WriteString(l)
		}
		out.WriteString(conflictEnd)
		out.WriteByte(' ')
		out.WriteString(theirName)
		out.WriteByte('\n')
	}

	return []byte(out.String()), hasConflict, nil
}
