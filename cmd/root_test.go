package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	cmds := rootCmd.Commands()

	names := make(map[string]bool)
	for _, c := range cmds {
		names[c.Name()] = true
	}

	expected := []string{"search", "run", "batch", "cache", "weights"}
	for _, name := range expected {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "carescout", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestRunCommand_Flags(t *testing.T) {
	require.NotNil(t, runCmd.Flags().Lookup("name"), "run command should have --name flag")
	require.NotNil(t, runCmd.Flags().Lookup("url"), "run command should have --url flag")
	require.NotNil(t, runCmd.Flags().Lookup("refresh"), "run command should have --refresh flag")
}

func TestSearchCommand_Flags(t *testing.T) {
	require.NotNil(t, searchCmd.Flags().Lookup("address"))

	radius := searchCmd.Flags().Lookup("radius")
	require.NotNil(t, radius)
	assert.Equal(t, "5000", radius.DefValue)

	limit := searchCmd.Flags().Lookup("limit")
	require.NotNil(t, limit)
	assert.Equal(t, "20", limit.DefValue)
}

func TestBatchCommand_Flags(t *testing.T) {
	require.NotNil(t, batchCmd.Flags().Lookup("in"))

	out := batchCmd.Flags().Lookup("out")
	require.NotNil(t, out)
	assert.Equal(t, "providers_scored.xlsx", out.DefValue)

	limit := batchCmd.Flags().Lookup("limit")
	require.NotNil(t, limit)
	assert.Equal(t, "0", limit.DefValue)
}

func TestCacheCommand_HasSubcommands(t *testing.T) {
	cmds := cacheCmd.Commands()
	names := make(map[string]bool)
	for _, c := range cmds {
		names[c.Name()] = true
	}

	for _, name := range []string{"ls", "rm", "clear"} {
		assert.True(t, names[name], "expected cache subcommand %q not found", name)
	}
}
