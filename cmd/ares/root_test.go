package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootHelp(t *testing.T) {
	out, _, err := execute(t, "--help")
	require.NoError(t, err)

	assert.Contains(t, out, "dashboard compiler")
	for _, sub := range []string{"build", "validate", "steps", "adapters", "docs", "config", "version"} {
		assert.Contains(t, out, sub, "root help missing %s subcommand", sub)
	}
}

func TestGlobalFlags(t *testing.T) {
	for _, flag := range []string{"--verbose", "--quiet", "--no-color"} {
		t.Run(flag, func(t *testing.T) {
			f := rootCmd.PersistentFlags().Lookup(strings.TrimPrefix(flag, "--"))
			assert.NotNil(t, f, "global flag %s not registered", flag)
		})
	}

	v := rootCmd.PersistentFlags().ShorthandLookup("v")
	require.NotNil(t, v)
	assert.Equal(t, "verbose", v.Name)
	q := rootCmd.PersistentFlags().ShorthandLookup("q")
	require.NotNil(t, q)
	assert.Equal(t, "quiet", q.Name)
}

func TestVersionSubcommand(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "ares dev\n", out)
}
