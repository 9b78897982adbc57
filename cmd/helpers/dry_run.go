package helpers

import (
	"fmt"
	"io"

	"github.com/jessicarod7/envsh/internal/envsh"
)

// PrintRequestInfo describes the request that would be sent in dry-run mode
func PrintRequestInfo(w io.Writer, target string, form *envsh.Form) {
	fmt.Fprintln(w, "========================================")
	fmt.Fprintln(w, "envs.sh Request (DRY RUN)")
	fmt.Fprintln(w, "========================================")
	fmt.Fprintf(w, "POST %s\n", target)
	fmt.Fprintln(w, "----------------------------------------")

	for _, part := range form.Parts {
		switch {
		case part.IsFile():
			fmt.Fprintf(w, "  %-8s @%s\n", part.Name, part.File)
		case part.Value == "":
			fmt.Fprintf(w, "  %-8s (present)\n", part.Name)
		default:
			fmt.Fprintf(w, "  %-8s %s\n", part.Name, part.Value)
		}
	}

	fmt.Fprintln(w, "----------------------------------------")
	fmt.Fprintln(w, "[DRY RUN] Request would be sent here")
}
