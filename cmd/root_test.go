package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := rootCommand()
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "worker", "seed-catalog", "score", "sweep", "watch"} {
		assert.True(t, names[want], want)
	}
}

func TestScoreCommandRequiresLocation(t *testing.T) {
	root := rootCommand()
	root.SetArgs([]string{"score"})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")

	score, _, err := root.Find([]string{"score"})
	require.NoError(t, err)
	flag := score.Flags().Lookup("save-audit")
	require.NotNil(t, flag)
	assert.Equal(t, "false", flag.DefValue)
}
