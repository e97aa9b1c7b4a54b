package queryir

import (
	"fmt"
	"io"
	"strings"
)

// Format renders p as an indented listing, one op per line, with union
// branches and where bodies nested beneath their op.
func Format(p Program) string {
	var sb strings.Builder
	writeProgram(&sb, p, 0)
	return sb.String()
}

func writeProgram(w io.Writer, p Program, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, op := range p {
		fmt.Fprintf(w, "%s%s\n", indent, op)
		switch o := op.(type) {
		case Union:
			for i, b := range o.Branches {
				fmt.Fprintf(w, "%s  branch %d:\n", indent, i)
				writeProgram(w, b, depth+2)
			}
		case Where:
			writeProgram(w, o.Sub, depth+1)
		}
	}
}
