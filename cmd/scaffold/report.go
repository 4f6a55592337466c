package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/syssam/scaffold/compiler/gen"
)

var outcomeColors = map[gen.Outcome]*color.Color{
	gen.Created:   color.New(color.FgGreen),
	gen.Written:   color.New(color.FgYellow),
	gen.Unchanged: color.New(color.Faint),
	gen.Skipped:   color.New(color.Faint),
}

// printReport prints one line per artifact and a summary.
func printReport(w io.Writer, r *gen.Report) {
	if r == nil {
		return
	}
	for _, a := range r.Artifacts {
		outcomeColors[a.Outcome].Fprintf(w, "%-9s", a.Outcome)
		fmt.Fprintf(w, " %s\n", a.Path)
	}
	summary := color.New(color.Bold)
	if r.Changed() > 0 {
		summary.Add(color.FgGreen)
	}
	summary.Fprintf(w, "%d changed, %d unchanged, %d skipped\n",
		r.Changed(), r.Count(gen.Unchanged), r.Count(gen.Skipped))
}
