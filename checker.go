package pusimp

import (
	"context"
	"errors"
	"log/slog"
)

// inspect runs the classification for every dependency of g, in order.
func inspect(ctx context.Context, g Guard, cfg *checkerConfig) (*Report, error) {
	if err := g.validate(); err != nil {
		return nil, err
	}

	logger := cfg.log().With("package", g.PackageName)
	report := &Report{Guard: g}

	envName := g.AllowEnvVar()
	if _, ok := cfg.lookupEnv(envName); ok {
		logger.Debug("check disabled by environment", "variable", envName)
		report.Skipped = true
		return report, nil
	}

	report.Outcomes = make([]Outcome, 0, len(g.Dependencies))
	for _, dep := range g.Dependencies {
		outcome, err := classify(ctx, g, dep, cfg)
		if err != nil {
			return nil, err
		}
		logger.Debug("dependency classified",
			slog.String("import_name", dep.ImportName),
			slog.String("kind", outcome.Kind.String()),
			slog.String("expected", outcome.ExpectedPath),
			slog.String("actual", outcome.ActualPath),
		)
		report.Outcomes = append(report.Outcomes, outcome)
	}

	if report.HasProblems() {
		logger.Info("user-site check failed", "problems", len(report.Problems()))
	}
	return report, nil
}

// classify decides the outcome of a single dependency.
// The only error it returns is a context error from the resolver while ctx is done.
func classify(ctx context.Context, g Guard, dep Dependency, cfg *checkerConfig) (Outcome, error) {
	out := Outcome{
		Dependency:   dep,
		ExpectedPath: g.ExpectedPath(dep),
	}

	if !dep.Optional && !cfg.pathExists(out.ExpectedPath) {
		out.Kind = KindMissing
		return out, nil
	}

	actual, err := cfg.resolver.Resolve(ctx, dep.ImportName)
	if err != nil {
		if isContextErr(ctx, err) {
			return Outcome{}, err
		}
		out.ImportErr = err.Error()
		if dep.Optional {
			out.Kind = KindSkipped
		} else {
			out.Kind = KindBroken
		}
		return out, nil
	}

	out.ActualPath = actual
	if actual != out.ExpectedPath {
		out.Kind = KindLocalPath
	} else {
		out.Kind = KindSystem
	}
	return out, nil
}

// isContextErr reports whether err comes from ctx being done. A deadline
// internal to a resolver leaves ctx live and counts as an import failure.
func isContextErr(ctx context.Context, err error) bool {
	if ctx.Err() == nil {
		return false
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
