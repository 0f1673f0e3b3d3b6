package pusimp

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeModule creates root/rel with placeholder content.
func writeModule(t *testing.T, root, rel string) string {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte("# created by test\n"), 0o644))
	return p
}

func TestSearchPathResolver(t *testing.T) {
	user := t.TempDir()
	system := t.TempDir()

	writeModule(t, system, "shadowed/__init__.py")
	writeModule(t, user, "shadowed/__init__.py")
	writeModule(t, system, "only_system/__init__.py")
	writeModule(t, system, "single.py")
	writeModule(t, system, "outer/inner/__init__.py")
	require.NoError(t, os.MkdirAll(filepath.Join(user, "namespace_only"), 0o755))

	r := NewSearchPathResolver(user+"/", "", system)
	assert.Equal(t, []string{user, system}, r.Dirs())

	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{name: "shadowed", want: user + "/shadowed/__init__.py"},
		{name: "only_system", want: system + "/only_system/__init__.py"},
		{name: "single", want: system + "/single.py"},
		{name: "outer.inner", want: system + "/outer/inner/__init__.py"},
		{name: "namespace_only", wantErr: true},
		{name: "absent", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(context.Background(), tt.name)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrModuleNotFound)
				assert.Equal(t, "No module named '"+tt.name+"'", err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSearchPathResolverCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewSearchPathResolver(t.TempDir()).Resolve(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestImportCacheImportsOnce(t *testing.T) {
	var calls int
	path := "/sys/dep/__init__.py"
	next := ResolverFunc(func(ctx context.Context, name string) (string, error) {
		calls++
		return path, nil
	})
	cache := NewImportCache(next)

	got, err := cache.Resolve(context.Background(), "dep")
	require.NoError(t, err)
	assert.Equal(t, "/sys/dep/__init__.py", got)

	// A later change underneath is not observed, like a module imported once per process.
	path = "/user/dep/__init__.py"
	got, err = cache.Resolve(context.Background(), "dep")
	require.NoError(t, err)
	assert.Equal(t, "/sys/dep/__init__.py", got)
	assert.Equal(t, 1, calls)

	cache.Forget("dep")
	got, err = cache.Resolve(context.Background(), "dep")
	require.NoError(t, err)
	assert.Equal(t, "/user/dep/__init__.py", got)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, cache.Len())
}

func TestImportCacheCachesFailures(t *testing.T) {
	boom := errors.New("boom")
	failing := NewFailingResolver(boom)
	cache := NewImportCache(failing)

	for i := 0; i < 2; i++ {
		_, err := cache.Resolve(context.Background(), "dep")
		assert.ErrorIs(t, err, boom)
	}
	assert.Equal(t, []string{"dep"}, failing.Calls())
}

func TestImportCacheDoesNotCacheContextErrors(t *testing.T) {
	var calls int
	next := ResolverFunc(func(ctx context.Context, name string) (string, error) {
		calls++
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return "/sys/dep/__init__.py", nil
	})
	cache := NewImportCache(next)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := cache.Resolve(ctx, "dep")
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, cache.Len())

	got, err := cache.Resolve(context.Background(), "dep")
	require.NoError(t, err)
	assert.Equal(t, "/sys/dep/__init__.py", got)
	assert.Equal(t, 2, calls)
}

func TestImportCacheRecordModelsImportBeforeCheck(t *testing.T) {
	// The guarded package imported "two" before calling the checker, while a
	// broken user-site copy shadowed it. The failure is what the checker sees.
	cache := NewImportCache(StaticResolver{"two": {Path: "/sys/two/__init__.py"}})
	cache.Record("two", "", errors.New("two was purposely broken."))

	res, ok := cache.Lookup("two")
	require.True(t, ok)
	require.Error(t, res.Err)

	g := testGuard(Dependency{ImportName: "two", DistributionName: "two"})
	err := Check(context.Background(), g, testOptions(fakeSystem{"/sys/two/__init__.py": true}, cache)...)
	require.ErrorIs(t, err, ErrBrokenDependency)
	assert.Contains(t, err.Error(), "two was purposely broken.")

	_, ok = cache.Lookup("other")
	assert.False(t, ok)
}

func TestImportCacheWithoutNext(t *testing.T) {
	cache := NewImportCache(nil)
	_, err := cache.Resolve(context.Background(), "dep")
	assert.ErrorIs(t, err, ErrModuleNotFound)
	assert.Equal(t, "No module named 'dep'", err.Error())
}

// fakeInterpreter writes a shell script that mimics "python3 -c SCRIPT NAME".
func fakeInterpreter(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake interpreter is a shell script")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	script := `#!/bin/sh
case "$3" in
ok) echo "importing ok prints things"; echo "/sys/ok/__init__.py" ;;
broken)
  echo "Traceback (most recent call last):" >&2
  echo "  File \"<string>\", line 2, in <module>" >&2
  echo "RuntimeError: broken is a broken package." >&2
  exit 1 ;;
missing) echo "ModuleNotFoundError: No module named 'missing'" >&2; exit 1 ;;
namespace) echo "None" ;;
slow) sleep 5; echo "/sys/slow/__init__.py" ;;
env) echo "$PUSIMP_TEST_VALUE" ;;
*) exit 3 ;;
esac
`
	p := filepath.Join(t.TempDir(), "fake-python")
	require.NoError(t, os.WriteFile(p, []byte(script), 0o755))
	return p
}

func TestInterpreterResolver(t *testing.T) {
	r := NewInterpreterResolver(fakeInterpreter(t), WithInterpreterEnv("PUSIMP_TEST_VALUE=/from/env/__init__.py"))

	got, err := r.Resolve(context.Background(), "ok")
	require.NoError(t, err)
	assert.Equal(t, "/sys/ok/__init__.py", got)

	got, err = r.Resolve(context.Background(), "env")
	require.NoError(t, err)
	assert.Equal(t, "/from/env/__init__.py", got)

	_, err = r.Resolve(context.Background(), "broken")
	var resolveErr *ResolveError
	require.ErrorAs(t, err, &resolveErr)
	assert.Equal(t, "broken is a broken package.", err.Error())

	_, err = r.Resolve(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, "No module named 'missing'", err.Error())

	_, err = r.Resolve(context.Background(), "namespace")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no __file__ attribute")

	_, err = r.Resolve(context.Background(), "unknown")
	require.Error(t, err)
	assert.Equal(t, "importing unknown failed", err.Error())
}

func TestInterpreterResolverTimeout(t *testing.T) {
	r := NewInterpreterResolver(fakeInterpreter(t), WithInterpreterTimeout(50*time.Millisecond))

	start := time.Now()
	_, err := r.Resolve(context.Background(), "slow")
	elapsed := time.Since(start)

	var resolveErr *ResolveError
	require.ErrorAs(t, err, &resolveErr)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, "importing slow timed out after 50ms", err.Error())
	assert.Less(t, elapsed, 3*time.Second, "a lingering child must not hold the import past the timeout")
}

func TestInterpreterResolverCallerCancellation(t *testing.T) {
	r := NewInterpreterResolver(fakeInterpreter(t), WithInterpreterTimeout(time.Minute))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := r.Resolve(ctx, "slow")
	assert.Equal(t, context.DeadlineExceeded, err)

	done, cancelDone := context.WithCancel(context.Background())
	cancelDone()
	_, err = r.Resolve(done, "ok")
	assert.Equal(t, context.Canceled, err)
}

func TestCheckClassifiesInterpreterTimeouts(t *testing.T) {
	r := NewInterpreterResolver(fakeInterpreter(t), WithInterpreterTimeout(100*time.Millisecond))
	system := fakeSystem{"/sys/slow/__init__.py": true}

	t.Run("optional", func(t *testing.T) {
		g := testGuard(Dependency{ImportName: "slow", DistributionName: "slow", Optional: true})
		report, err := Inspect(context.Background(), g, testOptions(system, r)...)
		require.NoError(t, err)
		require.Len(t, report.Outcomes, 1)
		assert.Equal(t, KindSkipped, report.Outcomes[0].Kind)
		assert.False(t, report.HasProblems())
	})

	t.Run("mandatory", func(t *testing.T) {
		g := testGuard(Dependency{ImportName: "slow", DistributionName: "slow"})
		err := Check(context.Background(), g, testOptions(system, r)...)
		require.ErrorIs(t, err, ErrBrokenDependency)
		assert.Contains(t, err.Error(), "slow is broken. Error on import was 'importing slow timed out after 100ms'.")
	})
}

func TestImportCacheKeepsResolverTimeouts(t *testing.T) {
	timeout := &ResolveError{ImportName: "dep", Message: "importing dep timed out after 1s", Err: context.DeadlineExceeded}
	failing := NewFailingResolver(timeout)
	cache := NewImportCache(failing)

	for i := 0; i < 2; i++ {
		_, err := cache.Resolve(context.Background(), "dep")
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	}
	assert.Equal(t, []string{"dep"}, failing.Calls())
}

func TestInterpreterResolverMissingExecutable(t *testing.T) {
	r := NewInterpreterResolver(filepath.Join(t.TempDir(), "no-such-python"))
	_, err := r.Resolve(context.Background(), "ok")
	require.Error(t, err)
	var resolveErr *ResolveError
	assert.False(t, errors.As(err, &resolveErr))
}

func TestNewInterpreterResolverDefault(t *testing.T) {
	assert.Equal(t, DefaultInterpreter, NewInterpreterResolver("").Executable())
}
