package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"

	"github.com/NielsdaWheelz/wsgen/internal/writer"
)

// ReportOptions controls human report output.
type ReportOptions struct {
	// All includes unchanged entries in the table.
	All bool
}

// WriteReportHuman writes the run report as a table followed by a summary line.
func WriteReportHuman(w io.Writer, res RunResult, opts ReportOptions) error {
	if res.Counts == nil {
		res.FillCounts()
	}

	verb := "wrote"
	if res.DryRun {
		verb = "would write"
	}
	if _, err := fmt.Fprintf(w, "%s %s (run %s)\n", res.Command, res.Target, res.RunID); err != nil {
		return err
	}

	data := pterm.TableData{{"OUTCOME", "PATH", "NODE"}}
	for _, e := range res.Entries {
		if e.Outcome == writer.Unchanged && !opts.All {
			continue
		}
		data = append(data, []string{styleOutcome(e.Outcome), e.Path, e.Node})
	}
	if len(data) > 1 {
		table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, table); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "%s: %s\n", verb, Summary(res.Counts)); err != nil {
		return err
	}
	for _, e := range res.Entries {
		if e.Outcome == writer.WriteError {
			if _, err := fmt.Fprintf(w, "  %s: %s\n", e.Path, e.Error); err != nil {
				return err
			}
		}
	}
	if res.Install != nil {
		if _, err := fmt.Fprintf(w, "install: %s (exit %d)\n", res.Install.Command, res.Install.ExitCode); err != nil {
			return err
		}
	}
	for _, warn := range res.Warnings {
		if _, err := fmt.Fprintf(w, "warning: %s: %s\n", warn.Code, warn.Message); err != nil {
			return err
		}
	}
	return nil
}

// Summary formats outcome counts in report order, e.g.
// "3 created, 0 updated, 5 unchanged, 1 conflict".
// Zero write errors and orphans are omitted.
func Summary(counts map[writer.Outcome]int) string {
	parts := []string{
		fmt.Sprintf("%d created", counts[writer.Create]),
		fmt.Sprintf("%d updated", counts[writer.Update]),
		fmt.Sprintf("%d unchanged", counts[writer.Unchanged]),
		plural(counts[writer.Conflict], "conflict"),
	}
	if n := counts[writer.WriteError]; n > 0 {
		parts = append(parts, plural(n, "write error"))
	}
	if n := counts[writer.Orphaned]; n > 0 {
		parts = append(parts, fmt.Sprintf("%d orphaned", n))
	}
	return strings.Join(parts, ", ")
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func styleOutcome(o writer.Outcome) string {
	s := string(o)
	switch o {
	case writer.Create:
		return pterm.Green(s)
	case writer.Update:
		return pterm.LightCyan(s)
	case writer.Conflict, writer.WriteError:
		return pterm.Red(s)
	case writer.Orphaned:
		return pterm.Yellow(s)
	default:
		return pterm.Gray(s)
	}
}
