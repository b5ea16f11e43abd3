package shell

import (
	"fmt"
	"io"
	"iter"

	"ecotrack/internal/core"
)

func writeActivities(w io.Writer, activities iter.Seq2[int, core.Activity]) {
	for n, a := range activities {
		fmt.Fprintf(w, "\n%d. Date: %s\n", n, a.Date)
		fmt.Fprintf(w, "   Category: %s\n", a.Category)
		fmt.Fprintf(w, "   Description: %s\n", a.Description)
		fmt.Fprintf(w, "   Impact: %s\n", a.Impact)
	}
}

func writeCounts(w io.Writer, counts []core.LabelCount) {
	for _, c := range counts {
		fmt.Fprintf(w, " - %s: %d activity(ies)\n", c.Label, c.Count)
	}
}
