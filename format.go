package pusimp

import (
	"fmt"
	"strings"
)

// formatReport renders the message of an *ImportError:
// problem sections, remediation, then the escape-hatch footer.
func formatReport(r *Report, pipCommand string) string {
	g := r.Guard
	var broken, local []Problem
	for _, p := range r.Problems() {
		if p.Kind == KindLocalPath {
			local = append(local, p)
		} else {
			broken = append(broken, p)
		}
	}

	var b strings.Builder

	if len(broken) > 0 {
		fmt.Fprintf(&b, "The following %s dependencies are missing or broken:\n", g.PackageName)
		for _, p := range broken {
			fmt.Fprintf(&b, "* %s\n", p.Error())
		}
		b.WriteString("\n")
	}

	if len(local) > 0 {
		fmt.Fprintf(&b, "The following %s dependencies were imported from a local path:\n", g.PackageName)
		for _, p := range local {
			fmt.Fprintf(&b, "* %s\n", p.Error())
		}
		b.WriteString("\n")
		fmt.Fprintf(&b,
			"This typically happens when manually pip install-ing %s dependencies, "+
				"which end up replacing the installation provided by %s.\n",
			g.PackageName, g.SystemManager)
	}

	fmt.Fprintf(&b, "Please fix the %s dependencies as follows:\n", g.PackageName)
	for _, p := range append(broken, local...) {
		b.WriteString("* ")
		b.WriteString(remediation(g, p, pipCommand))
		if extra := p.Dependency.ExtraMessage; extra != "" {
			b.WriteString(" ")
			b.WriteString(extra)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	fmt.Fprintf(&b,
		"If you are sure that you want to use manually pip install-ed %s dependencies "+
			"instead of the ones provided by %s, you can disable this check by exporting the "+
			"%s environment variable. Note, however, that this may "+
			"break the installation provided by %s.\n",
		g.PackageName, g.SystemManager, g.AllowEnvVar(), g.SystemManager)
	fmt.Fprintf(&b, "If you believe that this message appears incorrectly, report this at %s .", g.ContactURL)

	return b.String()
}

func remediation(g Guard, p Problem, pip string) string {
	dist := p.Dependency.DistributionName
	switch p.Kind {
	case KindMissing:
		return fmt.Sprintf("check how to install %s with %s.", dist, g.SystemManager)
	case KindBroken:
		return fmt.Sprintf(
			"run '%s show %s' in a terminal: if the location field is not %s consider running "+
				"'%s uninstall %s' in a terminal, because the broken dependency is probably being "+
				"imported from a local path rather than from the path provided by %s.",
			pip, dist, g.ExpectedPrefix, pip, dist, g.SystemManager)
	default:
		return fmt.Sprintf(
			"run '%s uninstall %s' in a terminal, and verify that you are prompted to confirm "+
				"removal of files in %s.",
			pip, dist, dirname(p.ActualPath))
	}
}

// dirname returns everything before the last slash, without cleaning the path.
func dirname(path string) string {
	i := strings.LastIndex(path, "/")
	switch {
	case i < 0:
		return ""
	case i == 0:
		return "/"
	default:
		return path[:i]
	}
}
