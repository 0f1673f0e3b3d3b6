package pusimp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGuard(t *testing.T) {
	g, err := NewGuard("pkg", "apt", "http://x", "/sys",
		[]string{"one", "two"},
		[]string{"one-pypi", "two-pypi"},
		[]bool{false, true},
		[]string{"", "two is optional."},
	)
	require.NoError(t, err)

	assert.Equal(t, testGuard(
		Dependency{ImportName: "one", DistributionName: "one-pypi"},
		Dependency{ImportName: "two", DistributionName: "two-pypi", Optional: true, ExtraMessage: "two is optional."},
	), g)
	assert.Equal(t, "/sys/two/__init__.py", g.ExpectedPath(g.Dependencies[1]))
}

func TestNewGuardEmpty(t *testing.T) {
	g, err := NewGuard("pkg", "apt", "http://x", "/sys", nil, nil, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, g.Dependencies)
}

func TestNewGuardReportsFirstMismatch(t *testing.T) {
	_, err := NewGuard("pkg", "apt", "http://x", "/sys",
		[]string{"one"}, []string{"one"}, []bool{}, []string{},
	)

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "optional flags", cfgErr.Field)
	assert.Equal(t, 1, cfgErr.Want)
	assert.Equal(t, 0, cfgErr.Got)
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestCheckConfigurationErrorsAreWrapped(t *testing.T) {
	err := Check(context.Background(), testGuard(), WithResolver(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configure check:")

	_, err = Inspect(context.Background(), testGuard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no resolver configured")
}
