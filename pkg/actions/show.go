package actions

import (
	"fmt"
	"io"
	"strings"

	"github.com/japaniel/wkjlpt/pkg/jlpt"
)

// WriteEntries prints one vocabulary entry per line as the normalized slug
// followed by its written forms when they differ from the slug.
func WriteEntries(w io.Writer, entries []jlpt.Entry) {
	for _, e := range entries {
		var alt []string
		for _, f := range e.Forms() {
			if f != e.Normalized {
				alt = append(alt, f)
			}
		}
		if len(alt) == 0 {
			fmt.Fprintln(w, e.Normalized)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\n", e.Normalized, strings.Join(alt, "、"))
	}
}
