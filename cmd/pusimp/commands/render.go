package commands

import (
	"io"

	"github.com/dustin/go-humanize/english"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	pusimp "github.com/python-pusimp/go-pusimp"
)

// kindColors maps outcome kinds to their colour in the summary table.
var kindColors = map[pusimp.Kind]text.Colors{
	pusimp.KindSystem:    {text.FgGreen},
	pusimp.KindSkipped:   {text.FgHiBlack},
	pusimp.KindMissing:   {text.FgRed},
	pusimp.KindBroken:    {text.FgRed},
	pusimp.KindLocalPath: {text.FgYellow},
}

// renderSummary writes one row per dependency.
func renderSummary(w io.Writer, r *pusimp.Report, colored bool) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Format.Footer = text.FormatDefault

	tbl.AppendHeader(table.Row{"Import", "Distribution", "Optional", "Status", "Location"})

	for _, o := range r.Outcomes {
		status := o.Kind.String()
		if colored {
			status = kindColors[o.Kind].Sprint(status)
		}
		tbl.AppendRow(table.Row{
			o.Dependency.ImportName,
			o.Dependency.DistributionName,
			yesNo(o.Dependency.Optional),
			status,
			location(o),
		})
	}

	tbl.AppendFooter(table.Row{
		english.Plural(len(r.Outcomes), "dependency", "dependencies"),
		"", "",
		english.Plural(len(r.Problems()), "problem", ""),
		"",
	})
	tbl.Render()
}

func location(o pusimp.Outcome) string {
	switch o.Kind {
	case pusimp.KindMissing:
		return o.ExpectedPath
	case pusimp.KindBroken, pusimp.KindSkipped:
		return o.ImportErr
	default:
		return o.ActualPath
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// renderResult writes the one-line verdict, or the full message when there are problems.
func renderResult(w io.Writer, r *pusimp.Report, message string) {
	switch {
	case r.Skipped:
		color.New(color.FgYellow).Fprintf(w, "%s check disabled by %s\n", r.Guard.PackageName, r.Guard.AllowEnvVar())
	case r.HasProblems():
		color.New(color.FgRed).Fprintln(w, message)
	default:
		checked := len(r.Outcomes) - r.Count(pusimp.KindSkipped)
		color.New(color.FgGreen).Fprintf(w, "All %d %s dependencies are provided by %s\n",
			checked, r.Guard.PackageName, r.Guard.SystemManager)
	}
}
