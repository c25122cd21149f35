package utils

import (
	"fmt"
	"io"
	"strings"
)

// PrettyPrintError writes each wrapped cause of err on its own, further
// indented line.
func PrettyPrintError(w io.Writer, err error) {
	for depth, cause := range strings.Split(err.Error(), ": ") {
		_, _ = fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), cause)
	}
}
