package manifest

import (
	"fmt"
	"slices"

	"github.com/bazelbuild/buildtools/build"

	pusimp "github.com/python-pusimp/go-pusimp"
	"github.com/python-pusimp/go-pusimp/internal/buildutil"
)

var (
	guardAttrs      = []string{"package", "system_manager", "contact_url", "expected_prefix"}
	dependencyAttrs = []string{"import_name", "distribution_name", "optional", "extra_message"}
)

type starlarkParser struct {
	*builder
}

func parseStarlark(filename string, content []byte) (*Result, error) {
	raw, err := build.ParseDefault(filename, content)
	if err != nil {
		return nil, &ParseError{
			Pos:     Position{Filename: filename},
			Message: fmt.Sprintf("syntax error: %v", err),
			Wrapped: err,
		}
	}

	p := &starlarkParser{builder: newBuilder(filename)}
	for _, stmt := range raw.Stmt {
		p.parseStatement(stmt)
	}
	return p.finish(), nil
}

func (p *starlarkParser) parseStatement(expr build.Expr) {
	if _, ok := expr.(*build.CommentBlock); ok {
		return
	}

	call, ok := expr.(*build.CallExpr)
	if !ok {
		p.addWarning(p.position(expr), "ignoring statement that is not a function call")
		return
	}

	pos := p.position(call)
	switch name := buildutil.FuncName(call); name {
	case "guard":
		p.parseGuard(call, pos)
	case "dependency":
		p.parseDependency(call, pos)
	default:
		p.addWarning(pos, "ignoring unknown function %q", name)
	}
}

func (p *starlarkParser) parseGuard(call *build.CallExpr, pos Position) {
	p.checkArguments(call, pos, "guard", guardAttrs)
	p.setGuard(pos, pusimp.Guard{
		PackageName:    p.getString(call, pos, "guard", "package"),
		SystemManager:  p.getString(call, pos, "guard", "system_manager"),
		ContactURL:     p.getString(call, pos, "guard", "contact_url"),
		ExpectedPrefix: p.getString(call, pos, "guard", "expected_prefix"),
	})
}

func (p *starlarkParser) parseDependency(call *build.CallExpr, pos Position) {
	p.checkArguments(call, pos, "dependency", dependencyAttrs)

	dep := pusimp.Dependency{
		ImportName:       p.getString(call, pos, "dependency", "import_name"),
		DistributionName: p.getString(call, pos, "dependency", "distribution_name"),
		ExtraMessage:     p.getString(call, pos, "dependency", "extra_message"),
	}
	if buildutil.Has(call, "optional") {
		optional, ok := buildutil.Bool(call, "optional")
		if !ok {
			p.addError(pos, "dependency: optional must be True or False")
			return
		}
		dep.Optional = optional
	}
	p.addDependency(pos, dep)
}

// checkArguments warns about unknown keywords and rejects positional arguments.
func (p *starlarkParser) checkArguments(call *build.CallExpr, pos Position, fn string, known []string) {
	if buildutil.HasPositional(call) {
		p.addError(pos, "%s: positional arguments are not supported", fn)
	}
	for _, kw := range buildutil.Keywords(call) {
		if !slices.Contains(known, kw) {
			p.addWarning(pos, "%s: ignoring unknown attribute %q", fn, kw)
		}
	}
}

// getString returns a string attribute and records an error if it is set to something else.
func (p *starlarkParser) getString(call *build.CallExpr, pos Position, fn, name string) string {
	if !buildutil.Has(call, name) {
		return ""
	}
	value, ok := buildutil.String(call, name)
	if !ok {
		p.addError(pos, "%s: %s must be a string", fn, name)
	}
	return value
}

func (p *starlarkParser) position(expr build.Expr) Position {
	start, _ := expr.Span()
	return Position{
		Filename: p.filename,
		Line:     start.Line,
		Column:   start.LineRune,
	}
}
