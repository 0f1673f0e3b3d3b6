package pusimp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"time"
)

// DefaultInterpreter is the executable used when none is given.
const DefaultInterpreter = "python3"

// resolveScript imports argv[1] and prints its __file__ on the last line of stdout.
const resolveScript = `import importlib, sys
m = importlib.import_module(sys.argv[1])
print(m.__file__)`

// waitDelay bounds how long Wait blocks on output pipes after the process is killed.
const waitDelay = 200 * time.Millisecond

// exceptionPrefix matches the "SomeError: " prefix of the last traceback line.
var exceptionPrefix = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*: `)

// InterpreterResolver resolves modules by importing them in a fresh
// interpreter process. Every call is a new process, so nothing is cached
// between calls; wrap it in an ImportCache to get import-once semantics.
type InterpreterResolver struct {
	executable string
	env        []string
	timeout    time.Duration
}

// InterpreterOption configures an InterpreterResolver.
type InterpreterOption func(*InterpreterResolver)

// WithInterpreterEnv appends variables ("KEY=value") to the inherited environment.
func WithInterpreterEnv(env ...string) InterpreterOption {
	return func(r *InterpreterResolver) {
		r.env = append(r.env, env...)
	}
}

// WithInterpreterTimeout bounds each import. Zero means no limit.
func WithInterpreterTimeout(d time.Duration) InterpreterOption {
	return func(r *InterpreterResolver) {
		r.timeout = d
	}
}

// NewInterpreterResolver creates a resolver that runs executable
// (DefaultInterpreter if empty).
func NewInterpreterResolver(executable string, opts ...InterpreterOption) *InterpreterResolver {
	if executable == "" {
		executable = DefaultInterpreter
	}
	r := &InterpreterResolver{executable: executable}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Executable returns the interpreter command.
func (r *InterpreterResolver) Executable() string {
	return r.executable
}

// Resolve imports importName in a subprocess and returns its __file__.
// Errors of ctx are returned as is. An import that exceeds the resolver's
// own timeout fails with a *ResolveError wrapping context.DeadlineExceeded.
func (r *InterpreterResolver) Resolve(ctx context.Context, importName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	runCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, r.executable, "-c", resolveScript, importName)
	cmd.WaitDelay = waitDelay
	if len(r.env) > 0 {
		cmd.Env = append(os.Environ(), r.env...)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}
	if runCtx.Err() != nil {
		return "", &ResolveError{
			ImportName: importName,
			Message:    fmt.Sprintf("importing %s timed out after %s", importName, r.timeout),
			Err:        context.DeadlineExceeded,
		}
	}
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return "", fmt.Errorf("run %s: %w", r.executable, err)
		}
		return "", &ResolveError{
			ImportName: importName,
			Message:    importFailureText(stderr.String(), importName),
			Err:        err,
		}
	}

	file := lastLine(stdout.String())
	if file == "" || file == "None" {
		return "", &ResolveError{
			ImportName: importName,
			Message:    fmt.Sprintf("%s has no __file__ attribute", importName),
		}
	}
	return file, nil
}

// importFailureText extracts the exception message from a traceback.
func importFailureText(stderr, importName string) string {
	line := lastLine(stderr)
	if line == "" {
		return fmt.Sprintf("importing %s failed", importName)
	}
	return exceptionPrefix.ReplaceAllString(line, "")
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}
	return ""
}
